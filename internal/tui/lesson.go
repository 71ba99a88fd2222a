package tui

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/workmanship/internal/logging"
	"github.com/verte-zerg/workmanship/internal/menu"
	"github.com/verte-zerg/workmanship/internal/model"
	"github.com/verte-zerg/workmanship/internal/session"
)

const (
	startPrompt    = "Press any key to start (ESC to exit)"
	pausePrompt    = "Press ESC to return to main menu, any other key to continue"
	completePrompt = "Lesson completed, press any key to continue"
	sizePrompt     = "Press any key to return"
)

// minLessonWidth is the narrowest terminal a lesson is drawn in.
const minLessonWidth = 20

// LessonModel runs one typing session.
type LessonModel struct {
	layout     string
	title      string
	session    *session.Session
	sink       session.ScoreSink
	log        *logging.Logger
	standalone bool

	sessionOpts []session.Option

	width  int
	height int

	missed   bool
	recorded bool
	done     bool
	aborted  bool
	saveErr  error
	sizeErr  error
}

// LessonOption configures a LessonModel.
type LessonOption func(*LessonModel)

// Standalone makes the lesson quit the program when it ends.
func Standalone() LessonOption {
	return func(m *LessonModel) { m.standalone = true }
}

// WithLogger sets the diagnostic logger.
func WithLogger(log *logging.Logger) LessonOption {
	return func(m *LessonModel) { m.log = log }
}

// WithSessionOptions forwards options to the typing session.
func WithSessionOptions(opts ...session.Option) LessonOption {
	return func(m *LessonModel) {
		m.sessionOpts = append(m.sessionOpts, opts...)
	}
}

// NewLessonModel builds a lesson for layout/title. Beep is read from
// settings once, at start. A nil sink records nothing.
func NewLessonModel(layout, title, text string, settings model.Settings, sink session.ScoreSink, opts ...LessonOption) (*LessonModel, error) {
	m := &LessonModel{
		layout: layout,
		title:  title,
		sink:   sink,
		log:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	sessOpts := append([]session.Option{
		session.WithBeep(settings.Beep),
		session.WithTitle(title),
	}, m.sessionOpts...)
	s, err := session.New(text, sessOpts...)
	if err != nil {
		return nil, err
	}
	m.session = s
	return m, nil
}

// Init implements tea.Model.
func (m *LessonModel) Init() tea.Cmd {
	return nil
}

// Session returns the underlying typing session.
func (m *LessonModel) Session() *session.Session {
	return m.session
}

// Done reports whether the lesson screen has ended.
func (m *LessonModel) Done() bool {
	return m.done
}

// Aborted reports a Ctrl+C exit.
func (m *LessonModel) Aborted() bool {
	return m.aborted
}

// SaveErr returns the error of recording the score, if any.
func (m *LessonModel) SaveErr() error {
	return m.saveErr
}

// SizeErr returns a *menu.TerminalError while the terminal is too small for
// the lesson.
func (m *LessonModel) SizeErr() error {
	return m.sizeErr
}

// Update implements tea.Model.
func (m *LessonModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.sizeErr = m.checkSize()
		m.session.Handle(session.ResizeEvent())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.aborted = true
			m.done = true
			return m, tea.Quit
		}
		if m.session.State().Terminal() {
			m.finish()
			return m, m.quitCmd()
		}
		if m.sizeErr != nil {
			m.log.Warn("lesson left on small terminal", "layout", m.layout, "lesson", m.title, "error", m.sizeErr)
			m.finish()
			return m, m.quitCmd()
		}
		var cmds []tea.Cmd
		for _, ev := range keyEvents(msg) {
			cmds = append(cmds, m.handle(ev))
			if m.session.State().Terminal() {
				break
			}
		}
		return m, tea.Batch(cmds...)
	default:
		return m, nil
	}
}

// keyEvents maps a key message to session events. Fast typing and pastes
// arrive as one message carrying several runes.
func keyEvents(msg tea.KeyMsg) []session.Event {
	switch msg.Type {
	case tea.KeyEsc:
		return []session.Event{session.CancelEvent()}
	case tea.KeyEnter:
		return []session.Event{session.CharEvent(session.LineEnd)}
	case tea.KeySpace:
		return []session.Event{session.CharEvent(' ')}
	case tea.KeyTab:
		return []session.Event{session.CharEvent('\t')}
	case tea.KeyRunes:
		events := make([]session.Event, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			events = append(events, session.CharEvent(r))
		}
		return events
	default:
		return nil
	}
}

func (m *LessonModel) handle(ev session.Event) tea.Cmd {
	wasRunning := m.session.State() == session.Running
	sig := m.session.Handle(ev)
	if ev.Kind == session.KeyChar && wasRunning {
		m.missed = !sig.Has(session.SignalCursorMoved)
	}
	var cmds []tea.Cmd
	if sig.Has(session.SignalBeep) {
		cmds = append(cmds, beepCmd)
	}
	switch m.session.State() {
	case session.Completed:
		m.record()
	case session.Abandoned:
		m.log.Info("lesson abandoned", "layout", m.layout, "lesson", m.title)
		m.finish()
		cmds = append(cmds, m.quitCmd())
	}
	return tea.Batch(cmds...)
}

// record hands the final snapshot to the sink once.
func (m *LessonModel) record() {
	if m.recorded {
		return
	}
	m.recorded = true
	key := model.LessonKey(m.layout, m.title)
	snap, ok, err := session.Record(m.session, key, m.sink)
	if err != nil {
		m.saveErr = err
		m.log.Error("failed to save score", "lesson", key, "error", err)
		return
	}
	if !ok || m.sink == nil {
		return
	}
	m.log.Info("lesson completed", "lesson", key, "wpm", snap.WPM, "hit_ratio", snap.HitRatio)
}

func (m *LessonModel) finish() {
	m.done = true
}

func (m *LessonModel) quitCmd() tea.Cmd {
	if m.standalone {
		return tea.Quit
	}
	return nil
}

func beepCmd() tea.Msg {
	_, _ = fmt.Fprint(os.Stderr, "\a")
	return nil
}

// checkSize reports whether the wrapped lesson, its title, prompt and status
// line fit the terminal.
func (m *LessonModel) checkSize() error {
	if m.width <= 0 || m.height <= 0 {
		return nil
	}
	if m.width < minLessonWidth {
		return &menu.TerminalError{Msg: fmt.Sprintf("Terminal width(%d) too small, must have at least %d columns.", m.width, minLessonWidth)}
	}
	need := lipgloss.Height(renderLesson(m.session, m.width, false)) + 5
	if m.height < need {
		return &menu.TerminalError{Msg: fmt.Sprintf("Terminal height(%d) too small, must have at least %d rows.", m.height, need)}
	}
	return nil
}

// View implements tea.Model.
func (m *LessonModel) View() string {
	if m.sizeErr != nil {
		return errorStyle.Render(m.sizeErr.Error()) + "\n" + promptStyle.Render(sizePrompt)
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(renderLesson(m.session, m.width, m.missed))
	b.WriteString("\n\n")
	if prompt := m.prompt(); prompt != "" {
		b.WriteString(promptStyle.Render(prompt))
		b.WriteString("\n")
	}
	status := statusStyle.Render(m.session.Stats().StatusLine(m.session.Total()))
	if m.height > 0 {
		body := b.String()
		used := lipgloss.Height(body)
		if pad := m.height - used - 1; pad > 0 {
			body += strings.Repeat("\n", pad)
		}
		return body + status
	}
	return b.String() + status
}

func (m *LessonModel) prompt() string {
	switch m.session.State() {
	case session.NotStarted:
		return startPrompt
	case session.Paused:
		return pausePrompt
	case session.Completed:
		if m.saveErr != nil {
			return fmt.Sprintf("Failed to save score: %v", m.saveErr)
		}
		return completePrompt
	default:
		return ""
	}
}
