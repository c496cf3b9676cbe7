package driving

import (
	"context"

	"github.com/custodia-labs/paygrade/internal/core/domain"
)

// DefaultTopK is the number of chunks retrieved per query.
const DefaultTopK = 8

// Retriever returns the chunks most relevant to a query.
type Retriever interface {
	// Retrieve returns up to k chunks by descending similarity.
	// A k of zero or less uses DefaultTopK.
	Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievedChunk, error)
}

// Extractor turns a raw model reply into a validated QueryResult.
// It never fails: unusable replies degrade to a raw-text summary.
type Extractor interface {
	// Name returns the strategy name.
	Name() domain.ExtractionStrategy

	// Extract parses reply. retrieved carries the chunks the answer was
	// grounded on; strategies that ignore it accept nil.
	Extract(reply string, retrieved []domain.RetrievedChunk) domain.ExtractionOutcome
}

// QueryService answers compensation questions.
type QueryService interface {
	// Answer runs one retrieve, generate and extract cycle.
	Answer(ctx context.Context, query string) (domain.QueryResult, error)
}
