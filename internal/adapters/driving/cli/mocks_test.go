package cli

import (
	"context"
	"sync"

	"github.com/custodia-labs/paygrade/internal/core/domain"
	"github.com/custodia-labs/paygrade/internal/core/ports/driving"
)

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error
	pingErr     error

	embedding domain.AIProvider
	llm       domain.AIProvider
	model     string
	strategy  domain.ExtractionStrategy
}

func newMockSettings() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings()}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model string) error {
	m.embedding = provider
	m.model = model
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model string) error {
	m.llm = provider
	m.model = model
	return nil
}

func (m *mockSettingsService) SetExtractionStrategy(strategy domain.ExtractionStrategy) error {
	m.strategy = strategy
	return nil
}

func (m *mockSettingsService) Validate() error                { return m.validateErr }
func (m *mockSettingsService) ValidateEmbeddingConfig() error { return m.pingErr }
func (m *mockSettingsService) ValidateLLMConfig() error       { return m.pingErr }
func (m *mockSettingsService) ConfigPath() string             { return "/tmp/paygrade/config.toml" }

// mockPipeline is a mock implementation of driving.Pipeline.
type mockPipeline struct {
	corpus     *domain.Corpus
	stats      driving.HarvestStats
	harvestErr error
	harvestReq driving.HarvestRequest

	index    *driving.Index
	indexErr error
	rebuild  bool

	result  domain.QueryResult
	openErr error
	closed  bool
}

func (m *mockPipeline) Harvest(_ context.Context, req driving.HarvestRequest) (*domain.Corpus, driving.HarvestStats, error) {
	m.harvestReq = req
	return m.corpus, m.stats, m.harvestErr
}

func (m *mockPipeline) Index(_ context.Context, rebuild bool) (*driving.Index, error) {
	m.rebuild = rebuild
	return m.index, m.indexErr
}

func (m *mockPipeline) Open(_ context.Context) (*driving.Session, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}
	return &driving.Session{
		Query:   &mockQueryService{result: m.result},
		Corpus:  m.corpus,
		Index:   m.index,
		Closers: []func() error{func() error { m.closed = true; return nil }},
	}, nil
}

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	result domain.QueryResult
}

func (m *mockQueryService) Answer(_ context.Context, _ string) (domain.QueryResult, error) {
	return m.result, nil
}

// setupTestServices installs mocks and returns a cleanup func that restores
// the previous state.
func setupTestServices() (*mockSettingsService, *mockPipeline, func()) {
	settings := newMockSettings()
	pipeline := &mockPipeline{
		corpus: domain.NewCorpus([]domain.RawPost{{TopicID: "1", Title: "Google offer"}}),
		index:  &driving.Index{Chunks: map[string]domain.Chunk{"1#0": {ID: "1#0"}}},
	}

	origServices, origBuilder := services, builder
	services = &Services{Settings: settings, Pipeline: pipeline}
	builder = nil
	servicesOnce, servicesErr = sync.Once{}, nil

	return settings, pipeline, func() {
		services, builder = origServices, origBuilder
		servicesOnce, servicesErr = sync.Once{}, nil
	}
}
