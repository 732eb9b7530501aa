package commands

import (
	"context"
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/model-cloud/mcloud/internal/api"
)

// NewRegisterCmd creates the register command
func NewRegisterCmd() *cobra.Command {
	var req api.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(cmd.Context(), req)
		},
	}

	cmd.Flags().StringVar(&req.Username, "username", "", "Username (required)")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&req.Nickname, "nickname", "", "Display name")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "Phone number")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func runRegister(ctx context.Context, req api.RegisterRequest) error {
	env, err := NewEnv()
	if err != nil {
		return err
	}

	if !term.IsTerminal(int(syscall.Stdin)) {
		return fmt.Errorf("register is interactive; run it from a terminal")
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Println()

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Println()

	req.Password = string(password)
	req.ConfirmPassword = string(confirm)

	req.Captcha, req.CaptchaKey, err = solveCaptcha(ctx, env)
	if err != nil {
		return err
	}

	if err := env.Client.Register(ctx, req); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	fmt.Println("✓ Account created. Log in with 'mcloud login'.")
	return nil
}
