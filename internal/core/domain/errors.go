package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrConfigNotFound indicates a configuration key has no value.
	ErrConfigNotFound = errors.New("config key not found")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Queries cannot be answered without a generative model.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Indexing and retrieval are disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrRateLimited indicates the remote API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// Harvest Errors.

	// ErrSourceUnavailable indicates a page of the discussion API could not
	// be fetched. It ends the harvest run; posts collected so far are kept.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrItemFetchFailed indicates a single post detail could not be fetched.
	// The post is skipped and the run continues.
	ErrItemFetchFailed = errors.New("item fetch failed")

	// Index Errors.

	// ErrIndexBuildFailed indicates the index could not be built completely.
	// Queries must not be served from a partial index.
	ErrIndexBuildFailed = errors.New("index build failed")

	// ErrIndexIncomplete indicates persisted index data exists but was never
	// marked complete.
	ErrIndexIncomplete = errors.New("index incomplete")

	// ErrIndexStale indicates a complete index was built with a different
	// embedding model or chunking than the current settings.
	ErrIndexStale = errors.New("index stale")

	// Query Errors.

	// ErrUpstreamGeneration indicates the generative model call failed.
	// No meaningful answer exists, so the request fails.
	ErrUpstreamGeneration = errors.New("upstream generation failed")
)
