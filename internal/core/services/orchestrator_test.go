package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paygrade/internal/core/domain"
	"github.com/custodia-labs/paygrade/internal/core/ports/driven"
)

func TestQueryService_StructuredReply(t *testing.T) {
	retriever := &mockRetriever{chunks: []domain.RetrievedChunk{
		{Chunk: domain.Chunk{ID: "c1", Text: "Title: Amazon SDE2 offer"}},
		{Chunk: domain.Chunk{ID: "c2", Text: "Title: Amazon L6 offer"}},
	}}
	llm := &mockLLM{reply: `Sure! {"summary":"ok","compensation_cards":[{"id":"1","company":"Amazon",` +
		`"total_compensation":"150000","total_compensation_currency":"USD"}]}`}
	s := NewQueryService(retriever, llm, NewModelGroundedExtractor(), testPrompts())

	got, err := s.Answer(context.Background(), "  Amazon SDE2 pay?  ")

	require.NoError(t, err)
	assert.Equal(t, "ok", got.Summary)
	require.Len(t, got.Records, 1)
	assert.Equal(t, "Amazon", got.Records[0].Company)

	assert.Equal(t, 8, retriever.gotK)
	assert.Equal(t, 1, llm.calls)
	assert.Equal(t, 0.0, llm.opts.Temperature)
	assert.True(t, llm.opts.JSONReply, "model-grounded extraction asks for a JSON reply")
	require.Len(t, llm.messages, 2)
	assert.Equal(t, RoleSystem, llm.messages[0].Role)
	assert.Equal(t, "SYSTEM\n\nSCHEMA\n\nEXAMPLE", llm.messages[0].Content)
	assert.Equal(t, RoleUser, llm.messages[1].Role)
	assert.Equal(t, "Context: Title: Amazon SDE2 offer\n\nTitle: Amazon L6 offer\nQuestion: Amazon SDE2 pay?", llm.messages[1].Content)
}

func TestQueryService_ProseReply(t *testing.T) {
	prose := "Amazon SDE2 offers in Seattle range widely; no structured data."
	s := NewQueryService(&mockRetriever{}, &mockLLM{reply: prose}, NewModelGroundedExtractor(), testPrompts())

	got, err := s.Answer(context.Background(), "Amazon SDE2?")

	require.NoError(t, err)
	assert.Equal(t, prose, got.Summary)
	assert.NotNil(t, got.Records)
	assert.Empty(t, got.Records)
	assert.Empty(t, got.SourceLinks)
}

func TestQueryService_GenerationFailure(t *testing.T) {
	s := NewQueryService(&mockRetriever{}, &mockLLM{err: errors.New("503")}, NewModelGroundedExtractor(), testPrompts())

	_, err := s.Answer(context.Background(), "pay?")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstreamGeneration))
}

func TestQueryService_RetrievalFailure(t *testing.T) {
	llm := &mockLLM{}
	s := NewQueryService(&mockRetriever{err: domain.ErrEmbeddingUnavailable}, llm, NewModelGroundedExtractor(), testPrompts())

	_, err := s.Answer(context.Background(), "pay?")

	assert.True(t, errors.Is(err, domain.ErrEmbeddingUnavailable))
	assert.Equal(t, 0, llm.calls)
}

func TestQueryService_EmptyQuery(t *testing.T) {
	llm := &mockLLM{}
	s := NewQueryService(&mockRetriever{}, llm, NewModelGroundedExtractor(), testPrompts())

	_, err := s.Answer(context.Background(), " \n ")

	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Equal(t, 0, llm.calls)
}

func TestQueryService_Options(t *testing.T) {
	retriever := &mockRetriever{}
	llm := &mockLLM{reply: "x"}
	s := NewQueryService(retriever, llm, NewHeuristicExtractor(), testPrompts(),
		WithTopK(3), WithTemperature(0.2), WithMaxTokens(512))

	_, err := s.Answer(context.Background(), "q")

	require.NoError(t, err)
	assert.Equal(t, 3, retriever.gotK)
	assert.Equal(t, 0.2, llm.opts.Temperature)
	assert.Equal(t, 512, llm.opts.MaxTokens)
	assert.False(t, llm.opts.JSONReply, "heuristic extraction reads prose replies")
}

func TestPromptBuilder_MissingPrompt(t *testing.T) {
	prompts := testPrompts()
	delete(prompts, driven.PromptSchema)

	_, err := NewPromptBuilder(prompts).Build("q", nil)

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestPromptBuilder_RejectsBadQueryTemplate(t *testing.T) {
	prompts := testPrompts()
	prompts[driven.PromptQuery] = "Question: {{question}}"

	_, err := NewPromptBuilder(prompts).Build("q", nil)

	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestPromptBuilder_SkipsBlankSections(t *testing.T) {
	prompts := testPrompts()
	prompts[driven.PromptExample] = "  "

	msgs, err := NewPromptBuilder(prompts).Build("q", nil)

	require.NoError(t, err)
	assert.Equal(t, "SYSTEM\n\nSCHEMA", msgs[0].Content)
	assert.Equal(t, "Context: \nQuestion: q", msgs[1].Content)
}

func TestPromptBuilder_LiteralPercentAndPlaceholderInQuestion(t *testing.T) {
	prompts := testPrompts()
	prompts[driven.PromptQuery] = "Top 10% of offers.\nContext: {{context}}\nQuestion: {{question}}"
	retrieved := []domain.RetrievedChunk{{Chunk: domain.Chunk{ID: "a", Text: "TC 350,000"}}}

	msgs, err := NewPromptBuilder(prompts).Build("what is {{context}} at 50%?", retrieved)

	require.NoError(t, err)
	assert.Equal(t, "Top 10% of offers.\nContext: TC 350,000\nQuestion: what is {{context}} at 50%?", msgs[1].Content)
}
