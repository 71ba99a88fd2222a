package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/workmanship/internal/lessons"
	"github.com/verte-zerg/workmanship/internal/model"
)

const appLessons = `
layouts:
  Dvorak:
    key: d
    lessons:
      "AOEU: home row": aoeu
      "HTNS: home row": htns
  Workman:
    key: w
    lessons:
      "ASHT: home row": asht
`

type fakeStore struct {
	entries []model.ScoreEntry
}

func (f *fakeStore) AppendScore(_ context.Context, entry model.ScoreEntry) (string, error) {
	f.entries = append(f.entries, entry)
	return "id", nil
}

func (f *fakeStore) LessonSummaries(_ context.Context, filter model.ScoreFilter) ([]model.LessonAggregate, error) {
	var aggs []model.LessonAggregate
	for _, e := range f.entries {
		if filter.Layout != "" && e.Layout != filter.Layout {
			continue
		}
		aggs = append(aggs, model.LessonAggregate{Layout: e.Layout, Lesson: e.Lesson, Attempts: 1, BestWPM: 42})
	}
	return aggs, nil
}

func newTestApp(t *testing.T, settings model.Settings, store ScoreStore) *App {
	t.Helper()
	cat, err := lessons.Load(strings.NewReader(appLessons))
	require.NoError(t, err)
	app, err := NewApp(cat, settings, store, nil)
	require.NoError(t, err)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return app
}

func choose(app *App, sel string) tea.Cmd {
	sendKeys(app, sel)
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

func TestAppFallsBackToFirstLayout(t *testing.T) {
	app := newTestApp(t, model.Settings{Layout: "Qwerty"}, nil)
	assert.Equal(t, "Dvorak", app.Settings().Layout)

	view := app.View()
	assert.Contains(t, view, "Type a lesson number or [bdwq]?")
	assert.Contains(t, view, "1 - AOEU: home row")
	assert.Contains(t, view, `d - "Dvorak" layout`)
}

func TestAppTogglesBeepAndLayout(t *testing.T) {
	app := newTestApp(t, model.Settings{Layout: "Dvorak"}, nil)

	choose(app, "b")
	assert.True(t, app.Settings().Beep)
	assert.Contains(t, app.View(), "Toggled beep on errors, from false -> true")

	choose(app, "W")
	assert.Equal(t, "Workman", app.Settings().Layout)
	view := app.View()
	assert.Contains(t, view, "Switched layout from Dvorak -> Workman")
	assert.Contains(t, view, "1 - ASHT: home row")
	assert.NotContains(t, view, "AOEU")
}

func TestAppInvalidSelection(t *testing.T) {
	app := newTestApp(t, model.Settings{}, nil)
	assert.Nil(t, choose(app, "zz"))
	assert.Contains(t, app.View(), "Invalid selection: zz")
	assert.Nil(t, choose(app, ""))
}

func TestAppRunsLessonAndRecordsScore(t *testing.T) {
	store := &fakeStore{}
	app := newTestApp(t, model.Settings{Layout: "Dvorak"}, store)

	choose(app, "2")
	require.NotNil(t, app.lesson)
	assert.Contains(t, app.View(), "HTNS: home row")
	assert.Contains(t, app.View(), startPrompt)

	sendKeys(app, "xhtns")
	require.Len(t, store.entries, 1)
	assert.Equal(t, "Dvorak", store.entries[0].Layout)
	assert.Equal(t, "HTNS: home row", store.entries[0].Lesson)
	assert.Equal(t, 4, store.entries[0].Hits)

	sendKeys(app, "x")
	assert.Nil(t, app.lesson)
	view := app.View()
	assert.Contains(t, view, "2 - HTNS: home row (1x, best 42.0 WPM)")
	assert.Contains(t, view, "Typed 4 of 4")
}

func TestAppLessonAbandonReturnsToMenu(t *testing.T) {
	store := &fakeStore{}
	app := newTestApp(t, model.Settings{}, store)
	choose(app, "1")
	require.NotNil(t, app.lesson)
	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, app.lesson)
	assert.Empty(t, store.entries)
	assert.False(t, app.Aborted())
}

func TestAppQuitAndAbort(t *testing.T) {
	app := newTestApp(t, model.Settings{}, nil)
	cmd := choose(app, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.False(t, app.Aborted())

	app = newTestApp(t, model.Settings{}, nil)
	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, app.Aborted())

	app = newTestApp(t, model.Settings{}, nil)
	choose(app, "1")
	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.True(t, app.Aborted())
}

func TestAppReportsSmallTerminal(t *testing.T) {
	app := newTestApp(t, model.Settings{}, nil)
	app.Update(tea.WindowSizeMsg{Width: 5, Height: 5})
	assert.Contains(t, app.View(), "Terminal width(5) too small")
}

func TestAppRefusesLessonOnSmallTerminal(t *testing.T) {
	app := newTestApp(t, model.Settings{}, nil)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 5})

	choose(app, "1")
	assert.Nil(t, app.lesson)
	assert.Equal(t, "Terminal height(5) too small, must have at least 6 rows.", app.status)
}

func TestAppLessonShrunkTerminalReturnsToMenu(t *testing.T) {
	store := &fakeStore{}
	app := newTestApp(t, model.Settings{}, store)
	choose(app, "1")
	require.NotNil(t, app.lesson)
	sendKeys(app, "xao")

	app.Update(tea.WindowSizeMsg{Width: 100, Height: 4})
	require.NotNil(t, app.lesson)
	assert.Contains(t, app.View(), "Terminal height(4) too small")

	sendKeys(app, "e")
	assert.Nil(t, app.lesson)
	assert.Contains(t, app.status, "Terminal height(4) too small")
	assert.Empty(t, store.entries)
}
