package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/model-cloud/mcloud/internal/api"
)

func newModelUploadCmd() *cobra.Command {
	var (
		upload    api.ModelUpload
		modelPath string
		coverPath string
	)

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload a new model",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := NewEnv()
			if err != nil {
				return err
			}
			if err := env.RequireAuth(); err != nil {
				return err
			}

			modelFile, err := os.Open(modelPath)
			if err != nil {
				return fmt.Errorf("failed to open model file: %w", err)
			}
			defer modelFile.Close()
			upload.ModelFile = modelFile
			upload.ModelFileName = filepath.Base(modelPath)

			if coverPath != "" {
				coverFile, err := os.Open(coverPath)
				if err != nil {
					return fmt.Errorf("failed to open cover image: %w", err)
				}
				defer coverFile.Close()
				upload.CoverImage = coverFile
				upload.CoverFileName = filepath.Base(coverPath)
			}

			model, err := env.Client.UploadModel(cmd.Context(), upload)
			if err != nil {
				return fmt.Errorf("upload failed: %w", err)
			}

			fmt.Printf("✓ Model %q uploaded (id %d, %s).\n", model.Name, model.ID, model.StatusText())
			return nil
		},
	}

	cmd.Flags().StringVar(&upload.Name, "name", "", "Model name (required)")
	cmd.Flags().StringVar(&upload.Description, "description", "", "Model description")
	cmd.Flags().StringArrayVar(&upload.Tags, "tag", nil, "Label name (repeatable)")
	cmd.Flags().StringVar(&upload.License, "license", "", "Sharing license")
	cmd.Flags().StringVar(&upload.Format, "format", "", "Model format")
	cmd.Flags().BoolVar(&upload.Public, "public", false, "Make the model public once approved")
	cmd.Flags().StringVar(&modelPath, "file", "", "Path to the model file (required)")
	cmd.Flags().StringVar(&coverPath, "cover", "", "Path to the cover image")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
