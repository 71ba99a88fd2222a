// Package session implements the state machine of one lesson attempt: it
// matches keystrokes against the lesson text, tracks pauses and reports live
// statistics.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/workmanship/internal/stats"
)

// LineEnd is the character expected at the end of every lesson line but the last.
const LineEnd = '\n'

// State is the lifecycle state of a session.
type State int

const (
	NotStarted State = iota
	Running
	Paused
	Completed
	Abandoned
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Completed:
		return "completed"
	case Abandoned:
		return "abandoned"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether no further input is processed.
func (s State) Terminal() bool {
	return s == Completed || s == Abandoned
}

// EventKind classifies input events.
type EventKind int

const (
	KeyChar EventKind = iota
	KeyCancel
	KeyResize
)

// Event is one input event.
type Event struct {
	Kind EventKind
	Char rune
}

// CharEvent returns a typed character event.
func CharEvent(r rune) Event {
	return Event{Kind: KeyChar, Char: r}
}

// CancelEvent returns the cancel signal.
func CancelEvent() Event {
	return Event{Kind: KeyCancel}
}

// ResizeEvent returns the terminal resize signal.
func ResizeEvent() Event {
	return Event{Kind: KeyResize}
}

// Signal is a set of effects a session asks the renderer to perform.
type Signal uint8

const (
	SignalBeep Signal = 1 << iota
	SignalPausePrompt
	SignalResumed
	SignalRedraw
	SignalCursorMoved
)

// Has reports whether all bits of flag are set.
func (s Signal) Has(flag Signal) bool {
	return s&flag == flag
}

// ValidationError rejects lesson text a session cannot be built from.
type ValidationError struct {
	Title string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Title == "" {
		return e.Msg
	}
	return fmt.Sprintf("lesson %q: %s", e.Title, e.Msg)
}

// Clock returns the current time. Values from time.Now carry a monotonic
// reading, which keeps elapsed time immune to wall-clock adjustments.
type Clock func() time.Time

type options struct {
	clock Clock
	beep  bool
	title string
}

// Option configures a Session.
type Option func(*options)

// WithClock replaces time.Now.
func WithClock(clock Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithBeep requests SignalBeep on every miss.
func WithBeep(enabled bool) Option {
	return func(o *options) {
		o.beep = enabled
	}
}

// WithTitle names the lesson in validation errors.
func WithTitle(title string) Option {
	return func(o *options) {
		o.title = title
	}
}

// Session is the state of one lesson attempt. It is not safe for concurrent use.
type Session struct {
	clock Clock
	beep  bool

	lines [][]rune
	total int

	line int
	col  int

	hits   int
	misses int

	state    State
	start    time.Time
	pausedAt time.Time

	live stats.Snapshot
}

// New builds a session for text, trimmed of surrounding whitespace.
func New(text string, opts ...Option) (*Session, error) {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return nil, &ValidationError{Title: o.title, Msg: "lesson text is empty"}
	}
	rawLines := strings.Split(text, "\n")
	lines := make([][]rune, len(rawLines))
	total := 0
	for i, raw := range rawLines {
		line := []rune(raw)
		if i < len(rawLines)-1 {
			line = append(line, LineEnd)
		}
		lines[i] = line
		total += len(line)
	}
	return &Session{
		clock: o.clock,
		beep:  o.beep,
		lines: lines,
		total: total,
	}, nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Lines returns the lesson lines; every line but the last ends with LineEnd.
func (s *Session) Lines() [][]rune {
	return s.lines
}

// Total returns the number of keystrokes the lesson takes without misses.
func (s *Session) Total() int {
	return s.total
}

// Cursor returns the line and column of the next expected character.
func (s *Session) Cursor() (line, col int) {
	return s.line, s.col
}

// Expected returns the next expected character.
func (s *Session) Expected() (rune, bool) {
	if s.state.Terminal() || s.line >= len(s.lines) {
		return 0, false
	}
	return s.lines[s.line][s.col], true
}

// Stats returns the snapshot computed after the last handled event.
func (s *Session) Stats() stats.Snapshot {
	return s.live
}

// Result returns the final snapshot of a completed session. Abandoned and
// unfinished sessions yield no result.
func (s *Session) Result() (stats.Snapshot, bool) {
	if s.state != Completed {
		return stats.Snapshot{}, false
	}
	return s.live, true
}

// Handle consumes one input event and returns the effects it requests.
func (s *Session) Handle(ev Event) Signal {
	switch s.state {
	case NotStarted:
		return s.handleNotStarted(ev)
	case Running:
		return s.handleRunning(ev)
	case Paused:
		return s.handlePaused(ev)
	default:
		return 0
	}
}

func (s *Session) handleNotStarted(ev Event) Signal {
	switch ev.Kind {
	case KeyCancel:
		s.state = Abandoned
		return 0
	case KeyResize:
		return SignalRedraw
	}
	s.state = Running
	s.start = s.clock()
	s.refresh(s.start)
	return SignalCursorMoved
}

func (s *Session) handleRunning(ev Event) Signal {
	now := s.clock()
	var sig Signal
	switch ev.Kind {
	case KeyCancel:
		s.state = Paused
		s.pausedAt = now
		sig = SignalPausePrompt
	case KeyResize:
		sig = SignalRedraw
	default:
		sig = s.match(ev.Char)
	}
	switch s.state {
	case Paused:
		s.refresh(s.pausedAt)
	default:
		s.refresh(now)
	}
	return sig
}

func (s *Session) handlePaused(ev Event) Signal {
	switch ev.Kind {
	case KeyCancel:
		s.state = Abandoned
		s.refresh(s.pausedAt)
		return 0
	case KeyResize:
		return SignalRedraw
	}
	now := s.clock()
	s.start = s.start.Add(now.Sub(s.pausedAt))
	s.pausedAt = time.Time{}
	s.state = Running
	s.refresh(now)
	return SignalResumed
}

func (s *Session) match(r rune) Signal {
	if s.lines[s.line][s.col] != r {
		s.misses++
		if s.beep {
			return SignalBeep
		}
		return 0
	}
	s.hits++
	s.col++
	if s.col >= len(s.lines[s.line]) {
		s.line++
		s.col = 0
		if s.line >= len(s.lines) {
			s.state = Completed
		}
	}
	return SignalCursorMoved
}

func (s *Session) refresh(now time.Time) {
	s.live = stats.Compute(s.start, now, s.hits, s.misses)
}
