package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/model-cloud/mcloud/internal/cli/config"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init <server-url>",
		Short: "Create a configuration file for a Model Cloud server",
		Args:  cobra.ExactArgs(1),
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	serverURL := args[0]

	currentDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	configPath := filepath.Join(currentDir, config.ConfigFileName)

	if _, err := os.Stat(configPath); err == nil {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load existing config: %w", err)
		}
		cfg.Server = serverURL
		if err := config.Save(configPath, cfg); err != nil {
			return err
		}
		fmt.Printf("✓ Updated %s to use %s\n", config.ConfigFileName, serverURL)
		return nil
	}

	cfg := config.DefaultConfig()
	cfg.Server = serverURL
	if err := config.Save(configPath, cfg); err != nil {
		return err
	}

	fmt.Printf("✓ Created %s\n", configPath)
	fmt.Println("\nNext: authenticate with 'mcloud login'")
	return nil
}
