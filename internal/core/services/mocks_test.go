package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/custodia-labs/paygrade/internal/core/domain"
	"github.com/custodia-labs/paygrade/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockSource implements driven.DiscussionSource over fixed pages.
type mockSource struct {
	mu         sync.Mutex
	pages      []driven.TopicPage
	pageErrAt  int // 1-based page number that fails; 0 never fails
	details    map[string]driven.TopicDetail
	detailErrs map[string]error
	queries    []driven.TopicQuery
	detailHits []string
	closes     int
}

func (m *mockSource) ListTopics(_ context.Context, req driven.TopicQuery) (*driven.TopicPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, req)
	n := len(m.queries)
	if m.pageErrAt == n {
		return nil, errors.Join(domain.ErrSourceUnavailable, errors.New("page down"))
	}
	if n > len(m.pages) {
		return &driven.TopicPage{}, nil
	}
	page := m.pages[n-1]
	return &page, nil
}

func (m *mockSource) GetTopic(_ context.Context, topicID string) (*driven.TopicDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detailHits = append(m.detailHits, topicID)
	if err, ok := m.detailErrs[topicID]; ok {
		return nil, err
	}
	if d, ok := m.details[topicID]; ok {
		return &d, nil
	}
	return &driven.TopicDetail{
		TopicSummary: driven.TopicSummary{TopicID: topicID, Title: "detail " + topicID},
		Content:      "content " + topicID,
	}, nil
}

func (m *mockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closes++
	return nil
}

// recordingPolicy implements driven.RatePolicy without sleeping.
type recordingPolicy struct {
	items int
	pages int
}

func (p *recordingPolicy) AfterItem(ctx context.Context) error {
	p.items++
	return ctx.Err()
}

func (p *recordingPolicy) AfterPage(ctx context.Context) error {
	p.pages++
	return ctx.Err()
}

// mockEmbedder implements driven.EmbeddingService. Each text maps to a
// vector derived from keyword presence so similarity is predictable.
type mockEmbedder struct {
	mu       sync.Mutex
	calls    int
	failAt   int // 1-based batch call that fails; 0 never fails
	embedErr error
	axes     []string
	model    string
}

func (m *mockEmbedder) vector(text string) []float32 {
	lower := strings.ToLower(text)
	v := make([]float32, len(m.axes)+1)
	for i, axis := range m.axes {
		if strings.Contains(lower, axis) {
			v[i] = 1
		}
	}
	v[len(m.axes)] = 0.01
	return v
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector(text), nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.calls++
	call := m.calls
	m.mu.Unlock()
	if m.failAt == call {
		return nil, errors.New("embedding backend down")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vector(t)
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return len(m.axes) + 1 }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

func (m *mockEmbedder) ModelName() string {
	if m.model != "" {
		return m.model
	}
	return "mock-embed"
}

func (m *mockEmbedder) batchCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockLLM implements driven.LLMService returning a canned reply.
type mockLLM struct {
	reply    string
	err      error
	messages []driven.ChatMessage
	opts     driven.ChatOptions
	calls    int
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.calls++
	m.messages = messages
	m.opts = opts
	return m.reply, m.err
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

// mockPromptStore implements driven.PromptStore from a map.
type mockPromptStore map[string]string

func (m mockPromptStore) Load(name string) (string, error) {
	p, ok := m[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

func (m mockPromptStore) Reload() {}

func testPrompts() mockPromptStore {
	return mockPromptStore{
		driven.PromptSystem:  "SYSTEM",
		driven.PromptSchema:  "SCHEMA",
		driven.PromptExample: "EXAMPLE",
		driven.PromptQuery:   "Context: {{context}}\nQuestion: {{question}}",
	}
}

// mockRetriever implements driving.Retriever with fixed chunks.
type mockRetriever struct {
	chunks []domain.RetrievedChunk
	err    error
	gotK   int
}

func (m *mockRetriever) Retrieve(_ context.Context, _ string, k int) ([]domain.RetrievedChunk, error) {
	m.gotK = k
	return m.chunks, m.err
}

// summary builds a listing entry.
func summary(id, title string) driven.TopicSummary {
	return driven.TopicSummary{TopicID: id, Title: title}
}
