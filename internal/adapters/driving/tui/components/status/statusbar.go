// Package status renders the one-line bar under the ask view.
package status

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/paygrade/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/paygrade/internal/adapters/driving/tui/styles"
)

// State is where the current question is in its lifecycle.
type State string

const (
	StateReady    State = "ready"
	StateAsking   State = "asking"
	StateAnswered State = "answered"
	StateError    State = "error"
)

// Bar shows the question state on the left and key hints on the right.
type Bar struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	width  int

	state   State
	err     string
	records int
	posts   int
}

// NewBar returns a bar in StateReady. Nil arguments take the defaults.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{styles: s, keymap: km, width: 80, state: StateReady}
}

// Init implements tea.Model.
func (b *Bar) Init() tea.Cmd { return nil }

// Update ignores messages; the ask view drives the bar directly.
func (b *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) { return b, nil }

// Asking marks a question in flight and clears the last error.
func (b *Bar) Asking() {
	b.state, b.err = StateAsking, ""
}

// Answered records how many compensation records came back and from how
// many distinct posts.
func (b *Bar) Answered(records, posts int) {
	b.state, b.err = StateAnswered, ""
	b.records, b.posts = records, posts
}

// Failed shows err until the next question.
func (b *Bar) Failed(err error) {
	b.state, b.err = StateError, ""
	if err != nil {
		b.err = err.Error()
	}
}

// Reset returns the bar to StateReady.
func (b *Bar) Reset() {
	*b = Bar{styles: b.styles, keymap: b.keymap, width: b.width, state: StateReady}
}

// State reports the current state.
func (b *Bar) State() State { return b.state }

// SetWidth sets the rendered width in cells.
func (b *Bar) SetWidth(width int) { b.width = width }

// View renders the bar at its width. A long error is cut to leave room for
// the key hints.
func (b *Bar) View() string {
	right := b.hints()
	inner := b.width - b.styles.StatusBar.GetHorizontalFrameSize()
	left := b.summary(inner - lipgloss.Width(right) - 1)
	gap := max(inner-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return b.styles.StatusBar.Width(b.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (b *Bar) summary(room int) string {
	switch b.state {
	case StateAsking:
		return b.styles.Muted.Render("Searching posts...")
	case StateAnswered:
		return b.styles.Normal.Render(fmt.Sprintf("%s from %s", plural(b.records, "record"), plural(b.posts, "post")))
	case StateError:
		msg := "Error"
		if b.err != "" {
			msg += ": " + b.err
		}
		return b.styles.Error.Render(truncate(msg, room))
	}
	return b.styles.Muted.Render("Ready")
}

func (b *Bar) hints() string {
	bindings := b.keymap.InputHelp()
	if b.state == StateAnswered {
		bindings = b.keymap.AnswerHelp()
	}
	parts := make([]string, len(bindings))
	for i, binding := range bindings {
		help := binding.Help()
		parts[i] = help.Key + ": " + help.Desc
	}
	return b.styles.Muted.Render(strings.Join(parts, " | "))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// truncate cuts s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 3 || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
