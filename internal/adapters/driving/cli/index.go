package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var indexRebuild bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build or load the vector index",
	Long: `Chunks every post in the snapshot, embeds the chunks with the configured
embedding provider and persists the index. An existing complete index is
loaded instead unless --rebuild is given.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexRebuild, "rebuild", false, "discard the persisted index and build a new one")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	settings, err := settingsSvc()
	if err != nil {
		return err
	}
	pipeline, err := pipelineSvc()
	if err != nil {
		return err
	}

	if err := settings.Validate(); err != nil {
		cmd.Println("Run 'paygrade settings' to fix configuration issues.")
		return err
	}

	idx, err := pipeline.Index(cmd.Context(), indexRebuild)
	if err != nil {
		return fmt.Errorf("index failed: %w", err)
	}

	how := "built"
	if idx.Loaded {
		how = "loaded"
	}
	cmd.Printf("Index %s: %d chunks\n", how, idx.Len())
	return nil
}
