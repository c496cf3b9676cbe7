package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// URIScheme is the custom URI scheme for Paygrade resources.
	uriScheme = "paygrade://"

	corpusStatsURI = uriScheme + "corpus/stats"
)

// CorpusStats is the body of the corpus stats resource.
type CorpusStats struct {
	Posts    int    `json:"posts"`
	Chunks   int    `json:"chunks"`
	Snapshot string `json:"snapshot,omitempty"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         corpusStatsURI,
		Name:        "corpus-stats",
		Description: "Size of the harvested corpus and the loaded index",
		MIMEType:    "application/json",
	}, s.handleCorpusStats)
}

// stats reports the current corpus and index sizes.
func (s *Server) stats() CorpusStats {
	return CorpusStats{
		Posts:    s.ports.Corpus.Len(),
		Chunks:   s.ports.Index.Len(),
		Snapshot: s.ports.SnapshotPath,
	}
}

// handleCorpusStats returns corpus and index sizes.
func (s *Server) handleCorpusStats(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(s.stats(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling corpus stats: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
