package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paygrade/internal/core/domain"
)

func retrievedPosts(posts ...domain.RawPost) []domain.RetrievedChunk {
	out := make([]domain.RetrievedChunk, 0, len(posts))
	for i := range posts {
		p := posts[i]
		out = append(out, domain.RetrievedChunk{Chunk: domain.Chunk{ID: p.TopicID, SourceTopicID: p.TopicID}, Post: &p})
	}
	return out
}

func TestHeuristicExtractor_MinesFigures(t *testing.T) {
	post := domain.RawPost{
		TopicID: "1", Title: "Google L5 offer",
		Content: "Base $200,000, total comp $350,000 in year one.",
		URL:     "https://leetcode.com/discuss/post/1", CreatedAt: "2025-01-01",
	}

	out := NewHeuristicExtractor().Extract("model prose", retrievedPosts(post))

	assert.Equal(t, "model prose", out.Result.Summary)
	require.Len(t, out.Result.Records, 1)
	rec := out.Result.Records[0]
	assert.Equal(t, "Google", rec.Company)
	assert.Equal(t, "L5", rec.Title)
	assert.Equal(t, "350000", rec.TotalCompensation)
	assert.Equal(t, "200000", rec.BaseSalary)
	assert.Equal(t, "35000", rec.Bonus)
	assert.Equal(t, "115000", rec.Equity)
	assert.Equal(t, "", rec.TotalCompensationCurrency, "text never declares a currency")
	assert.Equal(t, []string{"https://leetcode.com/discuss/post/1"}, out.Result.SourceLinks)
}

func TestHeuristicExtractor_SingleFigureUsesFallbackRatios(t *testing.T) {
	post := domain.RawPost{TopicID: "2", Title: "Amazon SDE 2 offer", Content: "TC 100,000"}

	out := NewHeuristicExtractor().Extract("", retrievedPosts(post))

	require.Len(t, out.Result.Records, 1)
	rec := out.Result.Records[0]
	assert.Equal(t, "Amazon", rec.Company)
	assert.Equal(t, "SDE 2", rec.Title)
	assert.Equal(t, "100000", rec.TotalCompensation)
	assert.Equal(t, "60000", rec.BaseSalary)
	assert.Equal(t, "10000", rec.Bonus)
	assert.Equal(t, "30000", rec.Equity)
}

func TestHeuristicExtractor_SkipsUnqualifiedPosts(t *testing.T) {
	posts := retrievedPosts(
		domain.RawPost{TopicID: "1", Title: "Weekly contest", Content: "no money talk"},
		domain.RawPost{TopicID: "2", Title: "Startup offer", Content: "no figures here"},
		domain.RawPost{TopicID: "3", Title: "Facebook E5 offer", Content: "nothing numeric"},
	)

	out := NewHeuristicExtractor().Extract("", posts)

	require.Len(t, out.Result.Records, 1, "unknown company without figures is dropped")
	assert.Equal(t, "Meta", out.Result.Records[0].Company)
	assert.Equal(t, "E5", out.Result.Records[0].Title)
	assert.Equal(t, "0", out.Result.Records[0].TotalCompensation)
}

func TestHeuristicExtractor_DedupesAndCaps(t *testing.T) {
	var posts []domain.RawPost
	for i := 0; i < 15; i++ {
		posts = append(posts, domain.RawPost{
			TopicID: string(rune('a' + i)), Title: "Netflix offer", Content: "TC 500,000",
		})
	}
	chunks := retrievedPosts(posts...)
	chunks = append(chunks, chunks[0])

	out := NewHeuristicExtractor().Extract("", chunks)

	assert.Len(t, out.Result.Records, domain.MaxRecords)
	assert.Equal(t, "a", out.Result.Records[0].ID)
}

func TestExtractAmounts_IgnoresShortNumbers(t *testing.T) {
	assert.Equal(t, []int{150000, 1234}, extractAmounts("L5 with 2 years, 150,000 base and 1,234 stock, 99k"))
	assert.Empty(t, extractAmounts("raw 350000 is split into short runs"))
}
