// Package ollama embeds post chunks and questions with a local Ollama model.
package ollama

import (
	"cmp"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/paygrade/internal/adapters/driven/httpjson"
	"github.com/custodia-labs/paygrade/internal/core/domain"
	"github.com/custodia-labs/paygrade/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultTimeout = 60 * time.Second

	// DefaultDimensions is assumed for models missing from
	// domain.EmbeddingDimensions.
	DefaultDimensions = 768
)

// taskPrefix is the instruction some retrieval models expect in front of
// the text, which differs between stored chunks and search questions.
type taskPrefix struct {
	document string
	query    string
}

var taskPrefixes = map[string]taskPrefix{
	"nomic-embed-text":  {document: "search_document: ", query: "search_query: "},
	"mxbai-embed-large": {query: "Represent this sentence for searching relevant passages: "},
}

// Config selects the server and model. Dimensions overrides the size
// looked up for Model.
type Config struct {
	BaseURL    string
	Model      string
	Timeout    time.Duration
	Dimensions int
}

// EmbeddingService calls /api/embed.
type EmbeddingService struct {
	api        *httpjson.Client
	model      string
	dimensions int
	prefix     taskPrefix
}

// NewEmbeddingService fills in defaults. Reachability is checked by Ping.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	model := cmp.Or(cfg.Model, domain.DefaultEmbeddingModels()[domain.AIProviderOllama])
	// "nomic-embed-text:latest" and "nomic-embed-text" are the same model.
	family, _, _ := strings.Cut(model, ":")

	dims := cfg.Dimensions
	if dims == 0 {
		dims = cmp.Or(domain.EmbeddingDimensions()[family], DefaultDimensions)
	}
	return &EmbeddingService{
		api: httpjson.New("ollama",
			cmp.Or(cfg.BaseURL, DefaultBaseURL),
			cmp.Or(cfg.Timeout, DefaultTimeout),
			nil),
		model:      model,
		dimensions: dims,
		prefix:     taskPrefixes[family],
	}
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed embeds a search question.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := s.embed(ctx, s.prefix.query, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds post chunks in one request.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	return s.embed(ctx, s.prefix.document, texts)
}

func (s *EmbeddingService) embed(ctx context.Context, prefix string, texts []string) ([][]float32, error) {
	req := embedRequest{Model: s.model, Input: texts}
	if prefix != "" {
		req.Input = make([]string, len(texts))
		for i, text := range texts {
			req.Input[i] = prefix + text
		}
	}

	var resp embedResponse
	if err := s.api.Post(ctx, "/api/embed", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama: got %d embeddings for %d inputs", len(resp.Embeddings), len(texts))
	}
	for i, vec := range resp.Embeddings {
		if len(vec) == 0 {
			return nil, fmt.Errorf("ollama: empty embedding for input %d", i)
		}
	}
	return resp.Embeddings, nil
}

// Dimensions returns the vector size for the model.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the configured model, tag included.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping lists local models.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.api.Get(ctx, "/api/tags")
}

// Close releases idle connections.
func (s *EmbeddingService) Close() error {
	return s.api.Close()
}
