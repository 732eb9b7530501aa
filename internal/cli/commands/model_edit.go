package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/model-cloud/mcloud/internal/api"
)

func newModelUpdateCmd() *cobra.Command {
	var req api.ModelUpdateRequest

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a model's attributes",
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
			if err := env.Client.UpdateModel(cmd.Context(), id, req); err != nil {
				return err
			}
			fmt.Printf("✓ Model %d updated.\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "New name")
	cmd.Flags().StringVar(&req.Description, "description", "", "New description")
	cmd.Flags().StringVar(&req.UseDescription, "usage", "", "New usage notes")
	cmd.Flags().StringVar(&req.AttrProtocol, "license", "", "New license")
	cmd.Flags().StringVar(&req.AttrFormat, "format", "", "New format")

	return cmd
}

func newModelDescriptionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "desc <id> <description>",
		Short: "Replace a model's description",
		Args:  cobra.ExactArgs(2),
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
			if err := env.Client.UpdateModelDescription(cmd.Context(), id, args[1]); err != nil {
				return err
			}
			fmt.Printf("✓ Description updated for model %d.\n", id)
			return nil
		},
	}
}

func newModelCoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cover <id> <image-path>",
		Short: "Replace a model's cover image",
		Args:  cobra.ExactArgs(2),
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

			image, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("failed to open cover image: %w", err)
			}
			defer image.Close()

			if err := env.Client.UpdateModelCover(cmd.Context(), id, filepath.Base(args[1]), image); err != nil {
				return err
			}
			fmt.Printf("✓ Cover image updated for model %d.\n", id)
			return nil
		},
	}
}

func newModelSourceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "source",
		Short: "Fetch or replace a model's source code",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Print a model's source file",
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
			source, err := env.Client.ModelSourceCode(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Printf("// %s\n", source.FileName)
			fmt.Println(source.SourceCode)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <id> <file-path>",
		Short: "Replace a model's source file",
		Args:  cobra.ExactArgs(2),
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

			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("failed to read source file: %w", err)
			}

			source := api.SourceCode{
				FileName:   filepath.Base(args[1]),
				SourceCode: string(data),
			}
			if err := env.Client.UpdateModelSourceCode(cmd.Context(), id, source); err != nil {
				return err
			}
			fmt.Printf("✓ Source updated for model %d.\n", id)
			return nil
		},
	})

	return cmd
}
