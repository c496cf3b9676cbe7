// Package ask provides the question and answer view for the TUI.
package ask

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/paygrade/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/paygrade/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/paygrade/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/paygrade/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/paygrade/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/paygrade/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/paygrade/internal/core/domain"
	"github.com/custodia-labs/paygrade/internal/core/ports/driving"
)

// View shows a question input, the answer summary, its records and sources.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	list      *list.RecordList
	statusbar *status.Bar

	queryService driving.QueryService
	ctx          context.Context

	question string
	result   *domain.QueryResult
	err      error

	width      int
	height     int
	ready      bool
	focusInput bool // true = typing a question, false = browsing the answer
}

// NewView creates a new ask view.
func NewView(s *styles.Styles, km *keymap.KeyMap, queryService driving.QueryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:       s,
		keymap:       km,
		input:        input.NewQuestionInput(s),
		list:         list.NewRecordList(s),
		statusbar:    status.NewBar(s, km),
		queryService: queryService,
		ctx:          context.Background(),
		width:        80,
		height:       24,
		focusInput:   true,
	}
}

// WithContext sets the context questions are answered under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	if v.focusInput {
		v.input, cmd = v.input.Update(msg)
	}
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.focusInput {
		switch msg.Type {
		case tea.KeyEnter:
			question := strings.TrimSpace(v.input.Value())
			if question == "" {
				return v, nil
			}
			v.question = question
			v.err = nil
			v.statusbar.Asking()
			v.focusInput = false
			v.input.Blur()
			return v, v.ask(question)
		case tea.KeyEsc:
			if v.result != nil {
				v.focusInput = false
				v.input.Blur()
			}
			return v, nil
		default:
			var cmd tea.Cmd
			v.input, cmd = v.input.Update(msg)
			return v, cmd
		}
	}

	// Keys are ignored while a question is in flight.
	if v.statusbar.State() == status.StateAsking {
		return v, nil
	}

	switch {
	case keymap.Matches(msg.String(), v.keymap.NewQuestion), msg.Type == tea.KeyEsc:
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()
	case keymap.Matches(msg.String(), v.keymap.Up):
		v.list.MoveUp()
	case keymap.Matches(msg.String(), v.keymap.Down):
		v.list.MoveDown()
	}
	return v, nil
}

// ask answers question in the background.
func (v *View) ask(question string) tea.Cmd {
	svc, ctx := v.queryService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.ErrorOccurred{Err: ErrNoQueryService}
		}
		result, err := svc.Answer(ctx, question)
		return messages.AnswerReceived{Question: question, Result: result, Err: err}
	}
}

func (v *View) handleAnswer(msg messages.AnswerReceived) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	result := msg.Result
	v.result = &result
	v.err = nil
	v.list.SetRecords(result.Records)
	v.statusbar.Answered(len(result.Records), len(result.SourceLinks))
	v.focusInput = false
	v.input.Blur()
}

// setError shows err and returns focus to the input so the user can retry.
func (v *View) setError(err error) {
	v.err = err
	v.statusbar.Failed(err)
	v.focusInput = true
	v.input.Focus()
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 12)
	sections = append(sections, v.styles.Title.Render("Paygrade"), "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if v.result != nil {
		summary := lipgloss.NewStyle().Width(max(v.width-2, 20)).Render(v.result.Summary)
		sections = append(sections, v.styles.Subtitle.Render(v.question), summary, "", v.list.View())
		if len(v.result.SourceLinks) > 0 {
			sections = append(sections, "", v.styles.Subtitle.Render("Sources"))
			for _, link := range v.result.SourceLinks {
				sections = append(sections, "  "+v.styles.Link.Render(link))
			}
		}
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	// Reserve space for header, input, summary, sources and status.
	v.list.SetDimensions(width, max(height-16, 4))
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Question returns the last submitted question.
func (v *View) Question() string {
	return v.question
}

// Result returns the last answer, or nil before the first one.
func (v *View) Result() *domain.QueryResult {
	return v.result
}

// SelectedRecord returns the highlighted record, or nil.
func (v *View) SelectedRecord() *domain.CompensationRecord {
	return v.list.SelectedRecord()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Asking reports whether a question is in flight.
func (v *View) Asking() bool {
	return v.statusbar.State() == status.StateAsking
}
