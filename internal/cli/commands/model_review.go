package commands

import (
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/model-cloud/mcloud/internal/api"
)

func newModelPendingCmd() *cobra.Command {
	var query api.ModelQuery

	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List models awaiting review (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := requireAdminEnv(cmd.Context())
			if err != nil {
				return err
			}
			page, err := env.Client.PendingModels(cmd.Context(), query)
			if err != nil {
				return err
			}
			printModelPage(page)
			return nil
		},
	}

	cmd.Flags().IntVar(&query.PageNum, "page", 1, "Page number")
	cmd.Flags().IntVar(&query.PageSize, "page-size", 10, "Page size")

	return cmd
}

func newModelAuditCmd() *cobra.Command {
	var approve, reject bool

	cmd := &cobra.Command{
		Use:   "audit <id>",
		Short: "Approve or reject a pending model (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if approve && reject {
				return fmt.Errorf("--approve and --reject are mutually exclusive")
			}

			env, err := requireAdminEnv(cmd.Context())
			if err != nil {
				return err
			}

			approved := approve
			if !approve && !reject {
				approved, err = promptAuditDecision(id)
				if err != nil {
					return err
				}
			}

			if err := env.Client.AuditModel(cmd.Context(), id, approved); err != nil {
				return err
			}

			if approved {
				fmt.Printf("✓ Model %d approved.\n", id)
			} else {
				fmt.Printf("✓ Model %d rejected.\n", id)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&approve, "approve", false, "Approve the model")
	cmd.Flags().BoolVar(&reject, "reject", false, "Reject the model")

	return cmd
}

func promptAuditDecision(id int64) (bool, error) {
	prompt := promptui.Select{
		Label: fmt.Sprintf("Review model %d", id),
		Items: []string{"Approve", "Reject"},
	}
	idx, _, err := prompt.Run()
	if err != nil {
		return false, fmt.Errorf("review cancelled: %w", err)
	}
	return idx == 0, nil
}
