// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/paygrade/internal/core/domain"
)

// AnswerReceived carries the result of a question back to the model.
type AnswerReceived struct {
	Question string
	Result   domain.QueryResult
	Err      error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// HelpToggled flips the help overlay.
type HelpToggled struct{}

// Quit signals the application should exit.
type Quit struct{}
