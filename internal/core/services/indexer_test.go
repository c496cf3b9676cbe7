package services

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paygrade/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/paygrade/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/paygrade/internal/core/domain"
	"github.com/custodia-labs/paygrade/internal/core/ports/driven"
	"github.com/custodia-labs/paygrade/internal/postprocessors/chunker"
)

func testCorpus() *domain.Corpus {
	return domain.NewCorpus([]domain.RawPost{
		{
			TopicID: "1", Title: "Google L5 offer", Author: "alice", CreatedAt: "2025-01-01",
			Content: "TC 350,000 with base 200,000", Summary: "google", Tags: []string{"google", "offer"},
			URL: "https://leetcode.com/discuss/post/1",
		},
		{
			TopicID: "2", Title: "Meta E4 salary", Author: "bob", CreatedAt: "2025-01-02",
			Content: "Meta offer 250,000", Summary: "meta", Tags: []string{"meta"},
			URL: "https://leetcode.com/discuss/post/2",
		},
	})
}

func newTestIndexer(store driven.IndexStore, embedder *mockEmbedder, opts ...IndexOption) *IndexService {
	return NewIndexService(store, embedder, chunker.New(chunker.WithChunkSize(40), chunker.WithOverlap(5)), memory.Factory, opts...)
}

func TestRenderPost_FieldOrder(t *testing.T) {
	post := &domain.RawPost{
		TopicID: "7", Title: "T", Author: "A", CreatedAt: "C", Content: "<b>X</b>",
		Summary: "S", Tags: []string{"a", "b"}, URL: "U",
	}

	got := RenderPost(post, nil)

	assert.Equal(t, "Title: T\nAuthor: A\nCreated: C\nContent: <b>X</b>\nSummary: S\nTags: a, b\nURL: U\nTopic ID: 7", got)

	cleaned := RenderPost(post, strings.ToUpper)
	assert.Contains(t, cleaned, "Content: <B>X</B>\n")
	assert.Contains(t, cleaned, "Title: T\n", "cleaner only touches content")
}

func TestIndexer_BuildsThenLoads(t *testing.T) {
	ctx := context.Background()
	store := memory.NewIndexStore()
	embedder := &mockEmbedder{axes: []string{"google", "meta"}}
	s := newTestIndexer(store, embedder)

	built, err := s.BuildOrLoad(ctx, testCorpus(), "idx")
	require.NoError(t, err)
	assert.False(t, built.Loaded)
	assert.Positive(t, built.Len())
	assert.Equal(t, built.Len(), built.Vectors.Len())
	callsAfterBuild := embedder.batchCalls()
	assert.Positive(t, callsAfterBuild)

	meta, err := store.Meta(ctx, "idx")
	require.NoError(t, err)
	assert.Equal(t, "mock-embed", meta.Model)
	assert.Equal(t, 40, meta.ChunkSize)
	assert.Equal(t, 5, meta.ChunkOverlap)

	loaded, err := s.BuildOrLoad(ctx, testCorpus(), "idx")
	require.NoError(t, err)
	assert.True(t, loaded.Loaded)
	assert.Equal(t, built.Len(), loaded.Len())
	assert.Equal(t, callsAfterBuild, embedder.batchCalls(), "load must not embed")
}

func TestIndexer_ChunksCoverEveryPost(t *testing.T) {
	s := newTestIndexer(memory.NewIndexStore(), &mockEmbedder{axes: []string{"google"}})

	idx, err := s.BuildOrLoad(context.Background(), testCorpus(), "idx")
	require.NoError(t, err)

	ordinals := map[string][]int{}
	for _, c := range idx.Chunks {
		assert.Equal(t, chunker.ChunkID(c.SourceTopicID, c.Ordinal), c.ID)
		ordinals[c.SourceTopicID] = append(ordinals[c.SourceTopicID], c.Ordinal)
	}
	assert.Len(t, ordinals, 2)
	for topic, ords := range ordinals {
		seen := map[int]bool{}
		for _, o := range ords {
			seen[o] = true
		}
		for i := range ords {
			assert.True(t, seen[i], "topic %s missing ordinal %d", topic, i)
		}
	}
}

func TestIndexer_EmbeddingFailureLeavesNothingComplete(t *testing.T) {
	ctx := context.Background()
	store := memory.NewIndexStore()
	embedder := &mockEmbedder{axes: []string{"google"}, failAt: 1}
	s := newTestIndexer(store, embedder, WithEmbedBatchSize(1), WithEmbedConcurrency(1))

	_, err := s.BuildOrLoad(ctx, testCorpus(), "idx")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrIndexBuildFailed))
	exists, existsErr := store.Exists(ctx, "idx")
	require.NoError(t, existsErr)
	assert.False(t, exists)
}

func TestIndexer_WriteFailureAborts(t *testing.T) {
	ctx := context.Background()
	store := &failingIndexStore{IndexStore: memory.NewIndexStore()}
	s := newTestIndexer(store, &mockEmbedder{axes: []string{"google"}})

	_, err := s.BuildOrLoad(ctx, testCorpus(), "idx")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrIndexBuildFailed))
	assert.True(t, store.aborted)
	exists, _ := store.Exists(ctx, "idx")
	assert.False(t, exists)
}

func TestIndexer_EmptyCorpusBuildsCompleteIndex(t *testing.T) {
	ctx := context.Background()
	store := memory.NewIndexStore()
	s := newTestIndexer(store, &mockEmbedder{axes: []string{"google"}})

	idx, err := s.BuildOrLoad(ctx, domain.NewCorpus(nil), "idx")

	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())
	exists, err := store.Exists(ctx, "idx")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestIndexer_RebuildIgnoresPersisted(t *testing.T) {
	ctx := context.Background()
	store := memory.NewIndexStore()
	embedder := &mockEmbedder{axes: []string{"google"}}
	s := newTestIndexer(store, embedder)

	_, err := s.BuildOrLoad(ctx, domain.NewCorpus(nil), "idx")
	require.NoError(t, err)

	idx, err := s.Rebuild(ctx, testCorpus(), "idx")
	require.NoError(t, err)
	assert.False(t, idx.Loaded)
	assert.Positive(t, idx.Len())
}

func TestIndexer_CleanerApplied(t *testing.T) {
	corpus := domain.NewCorpus([]domain.RawPost{{TopicID: "1", Title: "offer", Content: "<p>hello</p>"}})
	s := NewIndexService(memory.NewIndexStore(), &mockEmbedder{axes: []string{"hello"}},
		chunker.New(), memory.Factory,
		WithContentCleaner(func(s string) string { return strings.NewReplacer("<p>", "", "</p>", "").Replace(s) }))

	idx, err := s.BuildOrLoad(context.Background(), corpus, "idx")
	require.NoError(t, err)

	require.Equal(t, 1, idx.Len())
	for _, c := range idx.Chunks {
		assert.Contains(t, c.Text, "Content: hello\n")
	}
}

// failingIndexStore fails every Write and records Abort.
type failingIndexStore struct {
	*memory.IndexStore
	aborted bool
}

func (s *failingIndexStore) Begin(ctx context.Context, dir string, meta driven.IndexMeta) (driven.IndexBuild, error) {
	b, err := s.IndexStore.Begin(ctx, dir, meta)
	if err != nil {
		return nil, err
	}
	return &failingBuild{IndexBuild: b, store: s}, nil
}

type failingBuild struct {
	driven.IndexBuild
	store *failingIndexStore
}

func (b *failingBuild) Write(_ context.Context, _ []domain.IndexEntry) error {
	return errors.New("disk full")
}

func (b *failingBuild) Abort() error {
	b.store.aborted = true
	return b.IndexBuild.Abort()
}

func TestIndexer_ModelChangeRebuilds(t *testing.T) {
	ctx := context.Background()
	store := memory.NewIndexStore()

	_, err := newTestIndexer(store, &mockEmbedder{axes: []string{"google"}}).BuildOrLoad(ctx, testCorpus(), "idx")
	require.NoError(t, err)

	wider := &mockEmbedder{axes: []string{"google", "meta", "offer"}, model: "mock-embed-v2"}
	idx, err := newTestIndexer(store, wider).BuildOrLoad(ctx, testCorpus(), "idx")

	require.NoError(t, err)
	assert.False(t, idx.Loaded)
	assert.Positive(t, wider.batchCalls())
	_, err = idx.Vectors.Search(ctx, wider.vector("google offer"), 3)
	require.NoError(t, err)
	meta, err := store.Meta(ctx, "idx")
	require.NoError(t, err)
	assert.Equal(t, "mock-embed-v2", meta.Model)
	assert.Equal(t, 4, meta.Dimensions)
}

func TestIndexer_ChunkingChangeRebuilds(t *testing.T) {
	ctx := context.Background()
	store := memory.NewIndexStore()
	embedder := &mockEmbedder{axes: []string{"google"}}

	_, err := newTestIndexer(store, embedder).BuildOrLoad(ctx, testCorpus(), "idx")
	require.NoError(t, err)
	calls := embedder.batchCalls()

	s := NewIndexService(store, embedder, chunker.New(chunker.WithChunkSize(60), chunker.WithOverlap(5)), memory.Factory)
	idx, err := s.BuildOrLoad(ctx, testCorpus(), "idx")

	require.NoError(t, err)
	assert.False(t, idx.Loaded)
	assert.Greater(t, embedder.batchCalls(), calls)
	meta, err := store.Meta(ctx, "idx")
	require.NoError(t, err)
	assert.Equal(t, 60, meta.ChunkSize)
}

func TestIndexer_LoadRejectsStaleMeta(t *testing.T) {
	ctx := context.Background()
	store := memory.NewIndexStore()
	_, err := newTestIndexer(store, &mockEmbedder{axes: []string{"google"}}).BuildOrLoad(ctx, testCorpus(), "idx")
	require.NoError(t, err)

	_, err = newTestIndexer(store, &mockEmbedder{axes: []string{"google"}, model: "other"}).load(ctx, "idx")

	assert.True(t, errors.Is(err, domain.ErrIndexStale))
}

func TestIndexer_PersistedDimensionChangeStillRetrieves(t *testing.T) {
	ctx := context.Background()
	store := sqlite.NewIndexStore()
	dir := filepath.Join(t.TempDir(), "index_db")
	corpus := testCorpus()

	_, err := newTestIndexer(store, &mockEmbedder{axes: []string{"google", "meta"}}).BuildOrLoad(ctx, corpus, dir)
	require.NoError(t, err)

	wider := &mockEmbedder{axes: []string{"google", "meta", "offer"}}
	idx, err := newTestIndexer(store, wider).BuildOrLoad(ctx, corpus, dir)
	require.NoError(t, err)
	assert.False(t, idx.Loaded)

	hits, err := NewRetrievalService(idx, corpus, wider).Retrieve(ctx, "google offer", 3)
	require.NoError(t, err)
	assert.NotEmpty(t, hits)
}
