package domain

// Chunk is a bounded slice of a rendered post.
// Consecutive chunks of the same post overlap by a fixed number of characters.
type Chunk struct {
	// ID is a deterministic identifier derived from topic ID and ordinal.
	ID string

	// SourceTopicID links to the originating RawPost.
	SourceTopicID string

	// Text is the chunk content.
	Text string

	// Ordinal is the position within the post, strictly increasing from 0.
	Ordinal int
}

// IndexEntry pairs a chunk with its embedding vector.
// The vector is opaque to the core.
type IndexEntry struct {
	// Chunk is the retrieval unit.
	Chunk Chunk

	// Embedding is the vector produced by the embedding service.
	Embedding []float32
}

// RetrievedChunk is a chunk returned for a query.
type RetrievedChunk struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Post is the originating post, when still present in the corpus.
	Post *RawPost

	// Score is the similarity to the query (higher is closer).
	Score float64
}
