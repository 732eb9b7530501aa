package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and discard the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(cmd.Context())
		},
	}
}

func runLogout(ctx context.Context) error {
	env, err := NewEnv()
	if err != nil {
		return err
	}

	if !env.Sessions.IsLoggedIn() {
		fmt.Println("Not logged in.")
		return nil
	}

	// Best effort: the local session is cleared even when the server
	// call fails, so a dead server cannot pin a session.
	if err := env.Client.Logout(ctx); err != nil {
		env.Log.Warn().Err(err).Msg("server logout failed")
	}

	if err := env.Sessions.ClearUserInfo(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	fmt.Println("✓ Logged out.")
	return nil
}
