package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/paygrade/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/paygrade/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/paygrade/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/paygrade/internal/adapters/driving/tui/views/ask"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports   *Ports
	ctx     context.Context
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	askView *ask.View

	showHelp bool
	ready    bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:   ports,
		ctx:     context.Background(),
		styles:  s,
		keymap:  km,
		askView: ask.NewView(s, km, ports.Query),
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.askView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("paygrade"),
		a.askView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.ready = true
		a.askView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.showHelp {
			// Any key closes help.
			a.showHelp = false
			return a, nil
		}
		// Single-letter shortcuts only apply while browsing an answer.
		if !a.askView.InputFocused() {
			switch {
			case keymap.Matches(msg.String(), a.keymap.Quit):
				return a, tea.Quit
			case keymap.Matches(msg.String(), a.keymap.Help):
				a.showHelp = true
				return a, nil
			}
		}

	case messages.HelpToggled:
		a.showHelp = !a.showHelp
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	a.askView, cmd = a.askView.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.askView.View()
}

func (a *App) viewHelp() string {
	posts := "no snapshot loaded"
	if a.ports.Corpus != nil {
		posts = fmt.Sprintf("%d posts loaded", a.ports.Corpus.Len())
	}

	return a.styles.Title.Render("Help") + "\n\n" +
		a.styles.Muted.Render(posts) + `

Question:
  (type)      Enter a compensation question
  enter       Ask
  esc         Back to the last answer

Answer:
  j/k, ↑/↓    Navigate records
  n, esc      New question
  ?           Toggle help
  q           Quit

  ctrl+c      Quit from anywhere

[any key] close help`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// AskView returns the question view.
func (a *App) AskView() *ask.View {
	return a.askView
}

// HelpVisible reports whether the help overlay is shown.
func (a *App) HelpVisible() bool {
	return a.showHelp
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}
