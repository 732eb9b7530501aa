package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session and profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami(cmd.Context(), refresh)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Exchange the token for a fresh one first")

	return cmd
}

func runWhoami(ctx context.Context, refresh bool) error {
	env, err := NewEnv()
	if err != nil {
		return err
	}
	if err := env.RequireAuth(); err != nil {
		return err
	}

	if refresh {
		token, err := env.Client.RefreshToken(ctx)
		if err != nil {
			return fmt.Errorf("failed to refresh token: %w", err)
		}
		if err := env.Sessions.SetToken(token); err != nil {
			return fmt.Errorf("failed to save refreshed token: %w", err)
		}
		fmt.Println("✓ Token refreshed.")
	}

	profile, err := env.Client.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if err := env.Sessions.SetUserInfo(profile); err != nil {
		env.Log.Warn().Err(err).Msg("failed to persist user info")
	}

	fmt.Printf("User:     %s (id %d)\n", profile.Username, profile.ID)
	if profile.Nickname != "" {
		fmt.Printf("Nickname: %s\n", profile.Nickname)
	}
	if profile.Email != "" {
		fmt.Printf("Email:    %s\n", profile.Email)
	}
	if len(profile.Roles) > 0 {
		fmt.Printf("Roles:    %s\n", strings.Join(profile.Roles, ", "))
	}
	if env.Sessions.IsSuperAdmin() {
		fmt.Println("Tier:     super admin")
	} else if env.Sessions.IsAdmin() {
		fmt.Println("Tier:     admin")
	} else {
		fmt.Println("Tier:     user")
	}

	if expiry, ok := tokenExpiry(env.Sessions.Token()); ok {
		fmt.Printf("Token:    expires %s\n", expiry.Format(time.RFC3339))
	}

	return nil
}

// tokenExpiry decodes the token claims without verifying the
// signature; the server is the only verifier, this is display only.
func tokenExpiry(token string) (time.Time, bool) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
