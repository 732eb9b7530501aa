package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/model-cloud/mcloud/internal/api"
	"github.com/model-cloud/mcloud/internal/stats"
)

// NewStatsCmd creates the stats command
func NewStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd.Context())
		},
	}
}

func runStats(ctx context.Context) error {
	env, err := NewEnv()
	if err != nil {
		return err
	}
	if err := env.RequireAuth(); err != nil {
		return err
	}

	snapshot, err := stats.Refresh(ctx, env.Client, env.Storage, env.Log)
	if err != nil {
		// Fall back to the last persisted snapshot, the way the web
		// console's home view does.
		cached, ok := stats.Cached(env.Storage, env.Log)
		if !ok {
			return err
		}
		fmt.Println("(showing cached statistics; refresh failed)")
		snapshot = cached
	}

	printStats(snapshot)
	return nil
}

func printStats(s *api.Statistics) {
	fmt.Printf("Public models:  %d\n", s.TotalCount)
	fmt.Printf("My uploads:     %d\n", s.MyUploadCount)
	fmt.Printf("My favorites:   %d\n", s.MyCollectCount)
	fmt.Printf("Site visits:    %d\n", s.ViewCount)
}
