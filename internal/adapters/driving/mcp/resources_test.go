package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paygrade/internal/core/domain"
	"github.com/custodia-labs/paygrade/internal/core/ports/driving"
)

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleCorpusStats(t *testing.T) {
	ctx := context.Background()

	t.Run("reports corpus and index sizes", func(t *testing.T) {
		ports := &Ports{
			Query: &mockQueryService{},
			Corpus: domain.NewCorpus([]domain.RawPost{
				{TopicID: "1", Title: "offer"},
				{TopicID: "2", Title: "salary"},
			}),
			Index: &driving.Index{Chunks: map[string]domain.Chunk{
				"a": {ID: "a"}, "b": {ID: "b"}, "c": {ID: "c"},
			}},
			SnapshotPath: "/data/leetcode_compensation_data.json",
		}
		server, err := NewServer(ports)
		require.NoError(t, err)

		result, err := server.handleCorpusStats(ctx, makeReadResourceRequest(corpusStatsURI))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Equal(t, corpusStatsURI, result.Contents[0].URI)

		var stats CorpusStats
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &stats))
		assert.Equal(t, 2, stats.Posts)
		assert.Equal(t, 3, stats.Chunks)
		assert.Equal(t, "/data/leetcode_compensation_data.json", stats.Snapshot)
	})

	t.Run("nil corpus and index report zero", func(t *testing.T) {
		server, err := NewServer(&Ports{Query: &mockQueryService{}})
		require.NoError(t, err)

		result, err := server.handleCorpusStats(ctx, makeReadResourceRequest(corpusStatsURI))

		require.NoError(t, err)
		assert.JSONEq(t, `{"posts":0,"chunks":0}`, result.Contents[0].Text)
	})
}
