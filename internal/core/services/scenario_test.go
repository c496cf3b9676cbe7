package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paygrade/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/paygrade/internal/core/ports/driven"
	"github.com/custodia-labs/paygrade/internal/postprocessors/chunker"
)

// TestPipeline_HarvestIndexAnswer runs harvest, index and query end to end
// against in-memory adapters.
func TestPipeline_HarvestIndexAnswer(t *testing.T) {
	ctx := context.Background()
	src := &mockSource{
		pages: []driven.TopicPage{{Topics: []driven.TopicSummary{
			{TopicID: "1", Title: "Google L5 offer"},
			{TopicID: "2", Title: "Leetcode weekly #312"},
		}}},
		details: map[string]driven.TopicDetail{
			"1": {
				TopicSummary: driven.TopicSummary{
					TopicID: "1", Title: "Google L5 offer", Author: "alice",
					URL: "https://leetcode.com/discuss/post/1",
				},
				Content: "Google L5 TC 350,000",
			},
		},
	}

	corpus, _, err := NewHarvestService(src, &recordingPolicy{}).Harvest(ctx, 1000, 50)
	require.NoError(t, err)
	require.Equal(t, 1, corpus.Len())
	assert.Equal(t, "Google L5 offer", corpus.Posts()[0].Title)

	embedder := &mockEmbedder{axes: []string{"google"}}
	idx, err := NewIndexService(memory.NewIndexStore(), embedder, chunker.New(), memory.Factory).
		BuildOrLoad(ctx, corpus, "idx")
	require.NoError(t, err)

	llm := &mockLLM{reply: `{"summary":"Google L5 pays about 350k.","compensation_cards":[` +
		`{"id":"1","company":"Google","title":"L5","total_compensation":350000,` +
		`"total_compensation_currency":"USD","url":"https://leetcode.com/discuss/post/1"}]}`}
	q := NewQueryService(NewRetrievalService(idx, corpus, embedder), llm, NewModelGroundedExtractor(), testPrompts())

	got, err := q.Answer(ctx, "google l5 compensation")

	require.NoError(t, err)
	assert.Equal(t, "Google L5 pays about 350k.", got.Summary)
	require.Len(t, got.Records, 1)
	assert.Equal(t, "350000", got.Records[0].TotalCompensation)
	assert.Equal(t, []string{"https://leetcode.com/discuss/post/1"}, got.SourceLinks)
	assert.Contains(t, llm.messages[1].Content, "Author: alice")
}
