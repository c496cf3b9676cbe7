package mcp

import (
	"github.com/custodia-labs/paygrade/internal/core/domain"
	"github.com/custodia-labs/paygrade/internal/core/ports/driving"
)

// Ports aggregates everything the MCP server reads from.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Query answers compensation questions.
	Query driving.QueryService

	// Corpus is the loaded post corpus, used for the stats resource.
	Corpus *domain.Corpus

	// Index is the loaded vector index, used for the stats resource.
	Index *driving.Index

	// SnapshotPath is reported by the stats resource.
	SnapshotPath string
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	// Corpus and Index only feed the stats resource
	return nil
}
