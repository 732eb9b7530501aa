package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/model-cloud/mcloud/internal/api"
)

// NewModelCmd creates the model command group
func NewModelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Browse and manage model records",
	}

	cmd.AddCommand(newModelListCmd())
	cmd.AddCommand(newModelGetCmd())
	cmd.AddCommand(newModelMineCmd())
	cmd.AddCommand(newModelDeleteCmd())
	cmd.AddCommand(newModelPublicCmd())
	cmd.AddCommand(newModelActivitiesCmd())
	cmd.AddCommand(newModelLabelsCmd())
	cmd.AddCommand(newModelUploadCmd())
	cmd.AddCommand(newModelUpdateCmd())
	cmd.AddCommand(newModelDescriptionCmd())
	cmd.AddCommand(newModelCoverCmd())
	cmd.AddCommand(newModelSourceCmd())
	cmd.AddCommand(newModelPendingCmd())
	cmd.AddCommand(newModelAuditCmd())

	return cmd
}

func newModelListCmd() *cobra.Command {
	var query api.ModelQuery

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List public models",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := NewEnv()
			if err != nil {
				return err
			}
			if err := env.RequireAuth(); err != nil {
				return err
			}
			page, err := env.Client.ModelPage(cmd.Context(), query)
			if err != nil {
				return err
			}
			printModelPage(page)
			return nil
		},
	}

	cmd.Flags().StringVar(&query.Keyword, "keyword", "", "Filter by keyword")
	cmd.Flags().IntVar(&query.PageNum, "page", 1, "Page number")
	cmd.Flags().IntVar(&query.PageSize, "page-size", 10, "Page size")

	return cmd
}

func newModelGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a model's details",
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
			model, err := env.Client.ModelDetail(cmd.Context(), id)
			if err != nil {
				return err
			}
			printModelDetail(model)
			return nil
		},
	}
}

func newModelMineCmd() *cobra.Command {
	var query api.ModelQuery

	cmd := &cobra.Command{
		Use:   "mine",
		Short: "List your own models",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := NewEnv()
			if err != nil {
				return err
			}
			if err := env.RequireAuth(); err != nil {
				return err
			}
			page, err := env.Client.MyModels(cmd.Context(), query)
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

func newModelDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a model",
		Args:    cobra.ExactArgs(1),
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
			if err := env.Client.DeleteModel(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("✓ Model %d deleted.\n", id)
			return nil
		},
	}
}

func newModelPublicCmd() *cobra.Command {
	var public bool

	cmd := &cobra.Command{
		Use:   "public <id>",
		Short: "Toggle a model's visibility",
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
			if err := env.Client.SetModelPublic(cmd.Context(), id, public); err != nil {
				return err
			}
			state := "private"
			if public {
				state = "public"
			}
			fmt.Printf("✓ Model %d is now %s.\n", id, state)
			return nil
		},
	}

	cmd.Flags().BoolVar(&public, "on", false, "Make the model public (omit for private)")

	return cmd
}

func newModelActivitiesCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "activities",
		Short: "Show your recent model activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := NewEnv()
			if err != nil {
				return err
			}
			if err := env.RequireAuth(); err != nil {
				return err
			}
			activities, err := env.Client.MyActivities(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(activities) == 0 {
				fmt.Println("No recent activity.")
				return nil
			}
			printModels(activities)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of entries")

	return cmd
}

func newModelLabelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "labels",
		Short: "List the label catalog, grouped by category",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := NewEnv()
			if err != nil {
				return err
			}
			if err := env.RequireAuth(); err != nil {
				return err
			}

			labels, err := env.Client.LabelList(cmd.Context())
			if err != nil {
				return err
			}
			categories, err := env.Client.LabelCategoryList(cmd.Context())
			if err != nil {
				return err
			}
			printLabels(labels, categories)
			return nil
		},
	}
}

func printLabels(labels []api.Label, categories []api.LabelCategory) {
	if len(labels) == 0 {
		fmt.Println("No labels defined.")
		return
	}

	byCategory := make(map[int64][]api.Label)
	for _, l := range labels {
		byCategory[l.CategoryID] = append(byCategory[l.CategoryID], l)
	}

	for _, c := range categories {
		members := byCategory[c.ID]
		if len(members) == 0 {
			continue
		}
		fmt.Printf("%s:\n", c.Name)
		for _, l := range members {
			fmt.Printf("  %s (id %d)\n", l.Name, l.ID)
		}
		delete(byCategory, c.ID)
	}

	// Labels whose category is unknown or unset.
	if len(byCategory) > 0 {
		fmt.Println("Other:")
		for _, l := range labels {
			if _, ok := byCategory[l.CategoryID]; ok {
				fmt.Printf("  %s (id %d)\n", l.Name, l.ID)
			}
		}
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func printModelPage(page *api.Page[api.Model]) {
	if len(page.Records) == 0 {
		fmt.Println("No models found.")
		return
	}
	printModels(page.Records)
	fmt.Printf("\nPage %d/%d, %d models total\n", page.PageNumber, page.TotalPage, page.TotalRow)
}

func printModels(models []api.Model) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tAUTHOR\tSTATUS\tPUBLIC\tUPDATED")
	for i := range models {
		m := &models[i]
		public := "no"
		if m.IsPublic == 1 {
			public = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			m.ID, m.Name, m.AuthorName, m.StatusText(), public, m.UpdateTime)
	}
	w.Flush()
}

func printModelDetail(m *api.Model) {
	fmt.Printf("Model:       %s (id %d)\n", m.Name, m.ID)
	fmt.Printf("Author:      %s\n", m.AuthorName)
	fmt.Printf("Status:      %s\n", m.StatusText())
	fmt.Printf("Public:      %v\n", m.IsPublic == 1)
	if m.AttrLabelNames != "" {
		fmt.Printf("Labels:      %s\n", m.AttrLabelNames)
	}
	if m.AttrProtocol != "" {
		fmt.Printf("License:     %s\n", m.AttrProtocol)
	}
	if m.AttrFormat != "" {
		fmt.Printf("Format:      %s\n", m.AttrFormat)
	}
	if m.RepoURL != "" {
		fmt.Printf("Repository:  %s\n", m.RepoURL)
	}
	if m.Description != "" {
		fmt.Printf("\n%s\n", m.Description)
	}
}

// requireAdmin is shared by the moderation subcommands.
func requireAdminEnv(ctx context.Context) (*Env, error) {
	env, err := NewEnv()
	if err != nil {
		return nil, err
	}
	if err := env.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	return env, nil
}
