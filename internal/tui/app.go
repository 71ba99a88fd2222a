package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/workmanship/internal/lessons"
	"github.com/verte-zerg/workmanship/internal/logging"
	"github.com/verte-zerg/workmanship/internal/menu"
	"github.com/verte-zerg/workmanship/internal/model"
	"github.com/verte-zerg/workmanship/internal/session"
)

const (
	menuGutter = "  "
	titlesY    = 2
)

type menuAction int

const (
	actionBeep menuAction = iota
	actionQuit
)

type selectLayout struct {
	title string
}

// App is the lesson menu loop. It owns the settings and hands them to each
// lesson at start.
type App struct {
	catalog  *lessons.Catalog
	settings model.Settings
	store    ScoreStore
	log      *logging.Logger

	input     textinput.Model
	menu      *menu.Menu
	summaries map[string]model.LessonAggregate
	lesson    *LessonModel

	status      string
	statusStyle lipgloss.Style

	width   int
	height  int
	aborted bool
}

// NewApp builds the menu for catalog. An unknown settings layout falls back
// to the first layout of the catalog.
func NewApp(catalog *lessons.Catalog, settings model.Settings, store ScoreStore, log *logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Nop()
	}
	if _, ok := catalog.Layout(settings.Layout); !ok {
		settings.Layout = catalog.Layouts[0].Title
	}
	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 16
	input.Focus()

	a := &App{
		catalog:     catalog,
		settings:    settings,
		store:       store,
		log:         log,
		input:       input,
		statusStyle: infoStyle,
	}
	if err := a.rebuild(); err != nil {
		return nil, err
	}
	return a, nil
}

// Settings returns the current selections.
func (a *App) Settings() model.Settings {
	return a.settings
}

// Aborted reports a Ctrl+C exit; selections are then not saved.
func (a *App) Aborted() bool {
	return a.aborted
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// rebuild reloads score summaries and the menu entries.
func (a *App) rebuild() error {
	a.summaries = map[string]model.LessonAggregate{}
	if a.store != nil {
		aggs, err := a.store.LessonSummaries(context.Background(), model.ScoreFilter{Layout: a.settings.Layout})
		if err != nil {
			a.log.Warn("failed to load lesson summaries", "error", err)
		}
		for _, agg := range aggs {
			a.summaries[model.LessonKey(agg.Layout, agg.Lesson)] = agg
		}
	}

	entries := []menu.Entry{{Key: lessons.BeepKey, Title: "Beep on errors", Style: markSelected(a.settings.Beep), Value: actionBeep}}
	for _, l := range a.catalog.Layouts {
		entries = append(entries, menu.Entry{
			Key:   l.Key,
			Title: fmt.Sprintf("%q layout", l.Title),
			Style: markSelected(l.Title == a.settings.Layout),
			Value: selectLayout{title: l.Title},
		})
	}
	entries = append(entries, menu.Entry{Key: lessons.QuitKey, Title: "Quit", Value: actionQuit})
	layout, _ := a.catalog.Layout(a.settings.Layout)
	for _, lesson := range layout.Lessons {
		entries = append(entries, menu.Entry{Title: a.lessonLabel(lesson.Title), Value: lesson})
	}
	m, err := menu.New(entries...)
	if err != nil {
		return err
	}
	a.menu = m
	return nil
}

func (a *App) lessonLabel(title string) string {
	agg, ok := a.summaries[model.LessonKey(a.settings.Layout, title)]
	if !ok || agg.Attempts == 0 {
		return title
	}
	return fmt.Sprintf("%s (%dx, best %.1f WPM)", title, agg.Attempts, agg.BestWPM)
}

func markSelected(flag bool) menu.Style {
	if flag {
		return menu.StyleSelected
	}
	return menu.StyleNormal
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = size.Width
		a.height = size.Height
	}
	if a.lesson != nil {
		return a.updateLesson(msg)
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			a.aborted = true
			return a, tea.Quit
		case tea.KeyEsc:
			return a, tea.Quit
		case tea.KeyEnter:
			sel := strings.ToLower(strings.TrimSpace(a.input.Value()))
			a.input.Reset()
			return a, a.choose(sel)
		}
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) updateLesson(msg tea.Msg) (tea.Model, tea.Cmd) {
	_, cmd := a.lesson.Update(msg)
	if !a.lesson.Done() {
		return a, cmd
	}
	lesson := a.lesson
	a.lesson = nil
	if lesson.Aborted() {
		a.aborted = true
		return a, tea.Quit
	}
	if err := lesson.SizeErr(); err != nil {
		a.setStatus(err.Error(), errorStyle)
		return a, cmd
	}
	if snap, ok := lesson.Session().Result(); ok {
		a.setStatus(fmt.Sprintf("%s: %s", lesson.title, snap.StatusLine(lesson.Session().Total())), infoStyle)
	}
	if err := lesson.SaveErr(); err != nil {
		a.setStatus(fmt.Sprintf("Failed to save score: %v", err), alertStyle)
	}
	if err := a.rebuild(); err != nil {
		a.setStatus(err.Error(), alertStyle)
	}
	return a, cmd
}

func (a *App) choose(sel string) tea.Cmd {
	if sel == "" {
		return nil
	}
	entry, ok := a.menu.Lookup(sel)
	if !ok {
		a.setStatus(fmt.Sprintf("Invalid selection: %s", sel), alertStyle)
		return nil
	}
	switch v := entry.Value.(type) {
	case menuAction:
		switch v {
		case actionQuit:
			return tea.Quit
		case actionBeep:
			old := a.settings.Beep
			a.settings.Beep = !old
			a.setStatus(fmt.Sprintf("Toggled beep on errors, from %t -> %t", old, a.settings.Beep), infoStyle)
		}
	case selectLayout:
		old := a.settings.Layout
		a.settings.Layout = v.title
		a.setStatus(fmt.Sprintf("Switched layout from %s -> %s", old, v.title), infoStyle)
	case lessons.Lesson:
		return a.startLesson(v)
	}
	if err := a.rebuild(); err != nil {
		a.setStatus(err.Error(), alertStyle)
	}
	return nil
}

func (a *App) startLesson(lesson lessons.Lesson) tea.Cmd {
	var sink session.ScoreSink
	if a.store != nil {
		sink = StoreSink{Store: a.store}
	}
	lm, err := NewLessonModel(a.settings.Layout, lesson.Title, lesson.Text, a.settings, sink, WithLogger(a.log))
	if err != nil {
		a.setStatus(err.Error(), alertStyle)
		return nil
	}
	a.lesson = lm
	a.status = ""
	a.log.Debug("lesson started", "layout", a.settings.Layout, "lesson", lesson.Title)
	if a.width > 0 {
		lm.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
	}
	if err := lm.SizeErr(); err != nil {
		a.lesson = nil
		a.setStatus(err.Error(), errorStyle)
	}
	return nil
}

func (a *App) setStatus(text string, style lipgloss.Style) {
	a.status = text
	a.statusStyle = style
}

// View implements tea.Model.
func (a *App) View() string {
	if a.lesson != nil {
		return a.lesson.View()
	}
	prompt := promptStyle.Render(fmt.Sprintf("Type a lesson number or [%s]? ", a.menu.Letters())) + a.input.View()
	lines := []string{prompt}
	for len(lines) < titlesY {
		lines = append(lines, "")
	}

	width, height := a.width, a.height
	if width <= 0 || height <= 0 {
		width, height = 80, 24
	}
	grid, err := menu.Tabulate(a.menu.Labels(), width, height, titlesY, menuGutter)
	if err != nil {
		return errorStyle.Render(err.Error())
	}
	lines = append(lines, grid.Lines(menuGutter, paintLabel)...)
	for len(lines) < height-1 {
		lines = append(lines, "")
	}
	lines = append(lines, a.statusStyle.Render(a.status))
	return strings.Join(lines, "\n")
}

func paintLabel(text string, style menu.Style) string {
	if style == menu.StyleSelected {
		return selectedStyle.Render(text)
	}
	return text
}
