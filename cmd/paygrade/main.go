// Command paygrade harvests LeetCode compensation posts and answers
// questions about them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/paygrade/internal/adapters/driven/ai"
	"github.com/custodia-labs/paygrade/internal/adapters/driven/config/file"
	"github.com/custodia-labs/paygrade/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/paygrade/internal/adapters/driven/storage/snapshot"
	"github.com/custodia-labs/paygrade/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/paygrade/internal/adapters/driving/cli"
	"github.com/custodia-labs/paygrade/internal/connectors/leetcode"
	"github.com/custodia-labs/paygrade/internal/core/ports/driven"
	"github.com/custodia-labs/paygrade/internal/core/services"
	"github.com/custodia-labs/paygrade/internal/logger"
	"github.com/custodia-labs/paygrade/internal/normalisers"
	"github.com/custodia-labs/paygrade/internal/normalisers/html"
	"github.com/custodia-labs/paygrade/internal/normalisers/markdown"
	"github.com/custodia-labs/paygrade/internal/postprocessors/chunker"
)

// version is set at build time via -ldflags "-X main.version=...".
var version string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	if err := cli.Execute(ctx, build); err != nil {
		stop()
		os.Exit(1)
	}
}

// build wires the adapters behind the driving ports.
func build(opts cli.Options) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	logger.Debug("Config: %s", configStore.Path())

	prompts, err := file.NewPromptStore(filepath.Join(filepath.Dir(configStore.Path()), "prompts"))
	if err != nil {
		return nil, fmt.Errorf("open prompts: %w", err)
	}

	splitter := chunker.New(
		chunker.WithChunkSize(settings.Index.ChunkSize),
		chunker.WithOverlap(settings.Index.ChunkOverlap),
	)

	pipeline, err := services.NewPipelineService(services.PipelineDeps{
		NewSource: func() driven.DiscussionSource {
			return leetcode.New(leetcode.Config{Endpoint: settings.Harvest.Endpoint})
		},
		Policy: leetcode.NewFixedDelayPolicy(settings.Harvest.ItemDelay, settings.Harvest.PageDelay),
		NewCorpusStore: func(path string) driven.CorpusStore {
			return snapshot.NewStore(path)
		},
		IndexStore: sqlite.NewIndexStore(),
		Splitter:   splitter,
		Vectors:    memory.Factory,
		Prompts:    prompts,
		NewEmbedder: func(ctx context.Context) (driven.EmbeddingService, error) {
			return ai.CreateAndValidateEmbeddingService(ctx, &settings.Embedding)
		},
		NewLLM: func(ctx context.Context) (driven.LLMService, error) {
			return ai.CreateAndValidateLLMService(ctx, &settings.LLM)
		},
		Cleaner: normalisers.Chain(html.New(), markdown.New()),
	}, services.PipelineConfig{
		SnapshotPath: settings.Paths.Snapshot,
		IndexDir:     settings.Paths.Index,
		TopK:         settings.Index.TopK,
		Temperature:  settings.LLM.Temperature,
		Extraction:   settings.Extraction,
	})
	if err != nil {
		return nil, err
	}

	return &cli.Services{
		Settings: settingsService,
		Pipeline: pipeline,
		Watcher:  file.NewPromptWatcher(prompts, prompts.Dir()),
	}, nil
}
