package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/model-cloud/mcloud/internal/api"
)

// NewCollectCmd creates the collect command group
func NewCollectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Manage your favorite models",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <model-id>",
		Short: "Add a model to your favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			env, err := NewEnv()
			if err != nil {
				return err
			}
			if err := env.RequireAuth(); err != nil {
				return err
			}
			if err := env.Client.CollectModel(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("✓ Model %d added to favorites.\n", id)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <model-id>",
		Short: "Remove a model from your favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			env, err := NewEnv()
			if err != nil {
				return err
			}
			if err := env.RequireAuth(); err != nil {
				return err
			}
			if err := env.Client.UncollectModel(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("✓ Model %d removed from favorites.\n", id)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "check <model-id>",
		Short: "Check whether a model is in your favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			env, err := NewEnv()
			if err != nil {
				return err
			}
			if err := env.RequireAuth(); err != nil {
				return err
			}
			collected, err := env.Client.CheckCollected(cmd.Context(), id)
			if err != nil {
				return err
			}
			if collected {
				fmt.Printf("Model %d is in your favorites.\n", id)
			} else {
				fmt.Printf("Model %d is not in your favorites.\n", id)
			}
			return nil
		},
	})

	var query api.ModelQuery
	lsCmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List your favorite models",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := NewEnv()
			if err != nil {
				return err
			}
			if err := env.RequireAuth(); err != nil {
				return err
			}
			page, err := env.Client.MyCollects(cmd.Context(), query)
			if err != nil {
				return err
			}
			printModelPage(page)
			return nil
		},
	}
	lsCmd.Flags().IntVar(&query.PageNum, "page", 1, "Page number")
	lsCmd.Flags().IntVar(&query.PageSize, "page-size", 10, "Page size")
	cmd.AddCommand(lsCmd)

	return cmd
}
