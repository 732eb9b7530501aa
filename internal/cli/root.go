package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/model-cloud/mcloud/internal/cli/commands"
	"github.com/model-cloud/mcloud/internal/cli/update"
)

var version = "dev" // Will be set during build

var rootCmd = &cobra.Command{
	Use:   "mcloud",
	Short: "mcloud - Admin console for the Model Cloud catalog",
	Long: `mcloud - Manage the Model Cloud model catalog from the terminal.

Browse and upload model records, collect favorites, and, as an
administrator, review submissions and manage user accounts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Skip update check for the version command
		if cmd.Name() == "version" {
			return
		}

		update.PrintUpdateNotification(version)
	},
}

func init() {
	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("mcloud version %s\n", version)
		},
	})

	// Add all subcommands
	rootCmd.AddCommand(commands.NewInitCmd())
	rootCmd.AddCommand(commands.NewLoginCmd())
	rootCmd.AddCommand(commands.NewLogoutCmd())
	rootCmd.AddCommand(commands.NewRegisterCmd())
	rootCmd.AddCommand(commands.NewWhoamiCmd())
	rootCmd.AddCommand(commands.NewConsoleCmd())
	rootCmd.AddCommand(commands.NewStatsCmd())
	rootCmd.AddCommand(commands.NewModelCmd())
	rootCmd.AddCommand(commands.NewCollectCmd())
	rootCmd.AddCommand(commands.NewUserCmd())
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
