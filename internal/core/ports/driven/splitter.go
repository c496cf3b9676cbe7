package driven

import "github.com/custodia-labs/paygrade/internal/core/domain"

// ChunkSplitter cuts rendered post text into overlapping chunks.
type ChunkSplitter interface {
	// Split returns the chunks of text in order. Ordinals start at 0.
	Split(topicID, text string) []domain.Chunk

	// ChunkSize returns the maximum chunk length in characters.
	ChunkSize() int

	// Overlap returns the number of characters shared by adjacent chunks.
	Overlap() int
}
