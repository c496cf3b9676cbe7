package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/paygrade/internal/core/domain"
	"github.com/custodia-labs/paygrade/internal/core/ports/driving"
)

var (
	harvestMaxPosts  int
	harvestBatchSize int
	harvestOut       string
)

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Collect compensation posts from LeetCode",
	Long: `Pages through LeetCode discussion topics matching "compensation", keeps
posts whose titles mention compensation, salary, offer, pay or total comp,
fetches each body and replaces the snapshot file.

A failed page ends the run early; the posts collected so far are still saved.`,
	Args: cobra.NoArgs,
	RunE: runHarvest,
}

func init() {
	harvestCmd.Flags().IntVarP(&harvestMaxPosts, "max-posts", "n", 0, "maximum posts to collect (default from settings)")
	harvestCmd.Flags().IntVarP(&harvestBatchSize, "batch-size", "b", 0, "topics per page (default from settings)")
	harvestCmd.Flags().StringVarP(&harvestOut, "out", "o", "", "snapshot file (default from settings)")
	rootCmd.AddCommand(harvestCmd)
}

func runHarvest(cmd *cobra.Command, _ []string) error {
	settings, err := settingsSvc()
	if err != nil {
		return err
	}
	pipeline, err := pipelineSvc()
	if err != nil {
		return err
	}

	cfg, err := settings.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	req := driving.HarvestRequest{
		MaxPosts:  harvestMaxPosts,
		BatchSize: harvestBatchSize,
		OutPath:   harvestOut,
	}
	if req.MaxPosts == 0 {
		req.MaxPosts = cfg.Harvest.MaxPosts
	}
	if req.BatchSize == 0 {
		req.BatchSize = cfg.Harvest.BatchSize
	}
	out := req.OutPath
	if out == "" {
		out = cfg.Paths.Snapshot
	}

	cmd.Printf("Harvesting up to %d posts (%d per page)...\n", req.MaxPosts, req.BatchSize)
	corpus, stats, err := pipeline.Harvest(cmd.Context(), req)
	printHarvestStats(cmd, stats)

	if err != nil {
		if errors.Is(err, domain.ErrSourceUnavailable) && corpus.Len() > 0 {
			cmd.Printf("Stopped early; saved %d posts to %s\n", corpus.Len(), out)
		}
		return fmt.Errorf("harvest failed: %w", err)
	}

	cmd.Printf("Saved %d posts to %s\n", corpus.Len(), out)
	return nil
}

func printHarvestStats(cmd *cobra.Command, stats driving.HarvestStats) {
	cmd.Printf("  Pages:      %d\n", stats.Pages)
	cmd.Printf("  Seen:       %d\n", stats.Seen)
	cmd.Printf("  Filtered:   %d\n", stats.Filtered)
	cmd.Printf("  Duplicates: %d\n", stats.Duplicates)
	cmd.Printf("  Failed:     %d\n", stats.DetailFailures)
	cmd.Printf("  Collected:  %d\n", stats.Collected)
}
