package cli

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/paygrade/internal/adapters/driving/tui"
	"github.com/custodia-labs/paygrade/internal/logger"
)

// askCmd runs the interactive terminal UI.
var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Ask questions in an interactive terminal UI",
	Long: `Opens the index once and answers questions interactively.

Controls:
  Enter    - Ask
  ↑/k, ↓/j - Navigate records
  n        - New question
  ?        - Toggle help
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

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

	session, err := pipeline.Open(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer session.Close() //nolint:errcheck

	app, err := tui.NewApp(&tui.Ports{Query: session.Query, Corpus: session.Corpus})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	// Log lines would corrupt the alternate screen.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
