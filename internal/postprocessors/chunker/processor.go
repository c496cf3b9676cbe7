// Package chunker provides a fixed-size, overlapping text chunker.
package chunker

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/custodia-labs/paygrade/internal/core/domain"
	"github.com/custodia-labs/paygrade/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.ChunkSplitter = (*Processor)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 100

// chunkNamespace scopes the name-based chunk IDs.
var chunkNamespace = uuid.MustParse("3d0f6a52-8c1e-4b59-9a44-2f7d0c6b1e90")

// Processor splits rendered post text into fixed-size chunks.
// Lengths count runes, not bytes, so multi-byte text is never split inside
// a character.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured chunk size.
func (p *Processor) ChunkSize() int { return p.chunkSize }

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int { return p.overlap }

// Split cuts text into chunks for the given topic.
// Output is deterministic: the same input always yields the same chunks,
// IDs included. Ordinals start at 0 and increase by one.
func (p *Processor) Split(topicID, text string) []domain.Chunk {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	total := len(runes)
	step := p.chunkSize - p.overlap

	chunks := make([]domain.Chunk, 0, total/step+1)
	for start, ordinal := 0, 0; start < total; start, ordinal = start+step, ordinal+1 {
		end := start + p.chunkSize
		if end > total {
			end = total
		}

		chunks = append(chunks, domain.Chunk{
			ID:            ChunkID(topicID, ordinal),
			SourceTopicID: topicID,
			Text:          string(runes[start:end]),
			Ordinal:       ordinal,
		})

		// The tail is already covered; another step would only repeat overlap.
		if end == total {
			break
		}
	}

	return chunks
}

// ChunkID returns the deterministic ID of a topic's chunk.
func ChunkID(topicID string, ordinal int) string {
	return uuid.NewSHA1(chunkNamespace, []byte(topicID+"#"+strconv.Itoa(ordinal))).String()
}
