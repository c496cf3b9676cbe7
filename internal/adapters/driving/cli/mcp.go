package cli

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/paygrade/internal/adapters/driving/mcp"
	"github.com/custodia-labs/paygrade/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose compensation answers to MCP clients",
	Long: `Serve the query_compensation tool and the paygrade://corpus/stats resource
over the Model Context Protocol.

The snapshot and index must already exist ('paygrade harvest', then
'paygrade index'). Stdio is the default transport, which is what desktop
assistants launch:

  {"mcpServers": {"paygrade": {"command": "paygrade", "args": ["mcp", "serve"]}}}

With --port the streamable HTTP transport is served instead, for the MCP
Inspector or remote clients:

  paygrade mcp serve --port 8081`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "serve HTTP on this port instead of stdio")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return err
	}

	pipeline, err := pipelineSvc()
	if err != nil {
		return err
	}

	// In stdio mode stdout belongs to the protocol.
	logger.SetOutput(os.Stderr)

	session, err := pipeline.Open(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer session.Close() //nolint:errcheck

	server, err := mcp.NewServer(&mcp.Ports{
		Query:        session.Query,
		Corpus:       session.Corpus,
		Index:        session.Index,
		SnapshotPath: session.SnapshotPath,
	})
	if err != nil {
		return err
	}

	if port == 0 {
		return server.Run(cmd.Context())
	}
	addr := net.JoinHostPort("", strconv.Itoa(port))
	logger.Info("MCP server listening on http://localhost%s/", addr)
	return server.RunHTTP(cmd.Context(), addr)
}
