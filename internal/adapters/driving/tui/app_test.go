package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paygrade/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/paygrade/internal/core/domain"
)

type stubQueryService struct {
	result domain.QueryResult
}

func (s *stubQueryService) Answer(_ context.Context, _ string) (domain.QueryResult, error) {
	return s.result, nil
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := NewApp(&Ports{
		Query:  &stubQueryService{result: domain.NewFallbackResult("ok")},
		Corpus: domain.NewCorpus([]domain.RawPost{{TopicID: "1"}, {TopicID: "2"}}),
	})
	require.NoError(t, err)
	return app
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestNewApp_RequiresQueryService(t *testing.T) {
	_, err := NewApp(&Ports{})
	assert.ErrorIs(t, err, ErrMissingQueryService)

	_, err = NewApp(nil)
	assert.ErrorIs(t, err, ErrMissingQueryService)
}

func TestApp_InitialisingUntilSized(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, "Initialising...", app.View())

	_, cmd := app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
	assert.True(t, app.AskView().Ready())
	assert.Contains(t, app.View(), "Paygrade")
}

func TestApp_CtrlCQuits(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	assert.True(t, isQuit(cmd))
}

func TestApp_QTypedIntoQuestion(t *testing.T) {
	app := newTestApp(t)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	assert.False(t, isQuit(cmd))
	assert.False(t, app.HelpVisible())
}

func TestApp_ShortcutsWhileBrowsing(t *testing.T) {
	app := newTestApp(t)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	app.Update(messages.AnswerReceived{Question: "q", Result: domain.NewFallbackResult("ok")})
	require.False(t, app.AskView().InputFocused())

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	assert.True(t, app.HelpVisible())
	assert.Contains(t, app.View(), "2 posts loaded")

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	assert.False(t, app.HelpVisible())

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	assert.True(t, isQuit(cmd))
}

func TestApp_Messages(t *testing.T) {
	app := newTestApp(t)

	app.Update(messages.HelpToggled{})
	assert.True(t, app.HelpVisible())

	_, cmd := app.Update(messages.Quit{})
	assert.True(t, isQuit(cmd))
}

func TestApp_ForwardsAnswers(t *testing.T) {
	app := newTestApp(t)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	app.Update(messages.AnswerReceived{Question: "Meta E4", Result: domain.NewFallbackResult("I can only help with compensation.")})

	require.NotNil(t, app.AskView().Result())
	assert.Contains(t, app.View(), "I can only help with compensation.")
	assert.Contains(t, app.View(), "No compensation records")
}

type ctxKey struct{}

func TestApp_WithContext(t *testing.T) {
	app := newTestApp(t)
	ctx := context.WithValue(context.Background(), ctxKey{}, 1)

	assert.Same(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}
