package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/paygrade/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/paygrade/internal/adapters/driving/mcp"
	"github.com/custodia-labs/paygrade/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the query endpoint over HTTP",
	Long: `Starts an HTTP server answering POST /query with
{"query": "..."} and returning {"response", "compensation_data", "source_links"}.

The MCP streamable HTTP endpoint is mounted at /mcp. Prompt files are
reloaded as they are edited.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from settings, :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
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

	addr := serveAddr
	if addr == "" {
		cfg, err := settings.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		addr = cfg.ServerAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := pipeline.Open(ctx)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer session.Close() //nolint:errcheck

	mcpServer, err := mcp.NewServer(&mcp.Ports{
		Query:        session.Query,
		Corpus:       session.Corpus,
		Index:        session.Index,
		SnapshotPath: session.SnapshotPath,
	})
	if err != nil {
		return err
	}

	server, err := httpapi.NewServer(session.Query, httpapi.WithMount("/mcp", mcpServer.Handler()))
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(ctx, addr)
	})
	if w := activeWatcher(); w != nil {
		g.Go(func() error {
			// Serving continues without hot reload.
			if err := w.Watch(ctx); err != nil {
				logger.Warn("Prompt watcher stopped: %v", err)
			}
			return nil
		})
	}

	cmd.Printf("Serving %d posts on %s (POST /query, /mcp)\n", session.Corpus.Len(), addr)
	return g.Wait()
}

func activeWatcher() PromptWatcher {
	svc, err := activeServices()
	if err != nil || svc.Watcher == nil {
		return nil
	}
	return svc.Watcher
}
