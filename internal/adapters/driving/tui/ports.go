// Package tui provides an interactive terminal user interface for paygrade.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/paygrade/internal/core/domain"
	"github.com/custodia-labs/paygrade/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI needs.
type Ports struct {
	// Query answers compensation questions.
	Query driving.QueryService

	// Corpus is the loaded snapshot, shown in the header. May be nil.
	Corpus *domain.Corpus
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Query == nil {
		return ErrMissingQueryService
	}
	return nil
}
