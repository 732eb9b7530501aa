package commands

import (
	"bufio"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/model-cloud/mcloud/internal/api"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var username, password, captcha, captchaKey string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the Model Cloud server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd.Context(), username, password, captcha, captchaKey)
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username (or set MCLOUD_USERNAME)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set MCLOUD_PASSWORD, will prompt if not provided)")
	cmd.Flags().StringVar(&captcha, "captcha", "", "Captcha answer for non-interactive use (requires --captcha-key)")
	cmd.Flags().StringVar(&captchaKey, "captcha-key", "", "Captcha key matching --captcha")

	return cmd
}

func runLogin(ctx context.Context, username, password, captcha, captchaKey string) error {
	// Environment variables are the CI path.
	if username == "" {
		username = os.Getenv("MCLOUD_USERNAME")
	}
	if password == "" {
		password = os.Getenv("MCLOUD_PASSWORD")
	}

	if username == "" {
		return fmt.Errorf("username is required (use --username flag or MCLOUD_USERNAME env var)")
	}

	env, err := NewEnv()
	if err != nil {
		return err
	}

	if password == "" {
		if term.IsTerminal(int(syscall.Stdin)) {
			fmt.Print("Password: ")
			bytePassword, err := term.ReadPassword(int(syscall.Stdin))
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = string(bytePassword)
			fmt.Println()
		} else {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or MCLOUD_PASSWORD env var)")
		}
	}

	if captcha == "" || captchaKey == "" {
		captcha, captchaKey, err = solveCaptcha(ctx, env)
		if err != nil {
			return err
		}
	}

	fmt.Printf("Logging in to %s...\n", env.Config.Server)

	resp, err := env.Client.Login(ctx, api.LoginRequest{
		Username:   username,
		Password:   password,
		Captcha:    captcha,
		CaptchaKey: captchaKey,
	})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := env.Sessions.SetToken(resp.Token); err != nil {
		return fmt.Errorf("failed to save authentication token: %w", err)
	}
	profile := resp.UserInfo
	if err := env.Sessions.SetUserInfo(&profile); err != nil {
		return fmt.Errorf("failed to save user info: %w", err)
	}

	fmt.Println("✓ Login successful!")
	fmt.Printf("  User: %s (%s)\n", env.Sessions.Nickname(), profile.Username)
	if env.Sessions.IsSuperAdmin() {
		fmt.Println("  Role: Super Admin")
	} else if env.Sessions.IsAdmin() {
		fmt.Println("  Role: Admin")
	}

	return nil
}

// solveCaptcha fetches a captcha challenge, writes the image to a temp
// file for the user to open, and reads the answer from stdin.
func solveCaptcha(ctx context.Context, env *Env) (code, key string, err error) {
	challenge, err := env.Client.Captcha(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch captcha: %w", err)
	}

	imagePath, err := writeCaptchaImage(challenge.Image)
	if err != nil {
		return "", "", err
	}
	fmt.Printf("Captcha image saved to %s\n", imagePath)
	fmt.Print("Captcha: ")

	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return "", "", fmt.Errorf("failed to read captcha answer: %w", err)
	}

	return strings.TrimSpace(answer), challenge.Key, nil
}

// writeCaptchaImage decodes the base64 captcha payload (with or
// without a data-URI prefix) into a temp file.
func writeCaptchaImage(encoded string) (string, error) {
	if idx := strings.Index(encoded, ","); idx >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode captcha image: %w", err)
	}

	path := filepath.Join(os.TempDir(), "mcloud-captcha.png")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write captcha image: %w", err)
	}
	return path, nil
}
