package session

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/workmanship/internal/stats"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newSession(t *testing.T, text string, clock *fakeClock, opts ...Option) *Session {
	t.Helper()
	s, err := New(text, append([]Option{WithClock(clock.Now)}, opts...)...)
	require.NoError(t, err)
	return s
}

func typeText(s *Session, text string) {
	for _, r := range text {
		s.Handle(CharEvent(r))
	}
}

func TestNewRejectsEmptyText(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t \r\n"} {
		_, err := New(text, WithTitle("blank"))
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.Error(), `"blank"`)
	}
}

func TestNewSplitsLines(t *testing.T) {
	s, err := New("  abcd\r\nefghi \n")
	require.NoError(t, err)
	require.Len(t, s.Lines(), 2)
	assert.Equal(t, "abcd\n", string(s.Lines()[0]))
	assert.Equal(t, "efghi", string(s.Lines()[1]))
	assert.Equal(t, 10, s.Total())
	assert.Equal(t, NotStarted, s.State())
}

func TestCompletionExactness(t *testing.T) {
	clock := newFakeClock()
	s := newSession(t, "abcd\nefghi", clock)

	s.Handle(CharEvent('x'))
	assert.Equal(t, Running, s.State())

	text := "abcd\nefghi"
	for i, r := range text {
		clock.Advance(100 * time.Millisecond)
		s.Handle(CharEvent(r))
		if i < len(text)-1 {
			require.Equal(t, Running, s.State(), "after keystroke %d", i+1)
		}
	}
	assert.Equal(t, Completed, s.State())
	snap, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, 10, snap.Hits)
	assert.Equal(t, 0, snap.Misses)
	assert.InDelta(t, 1.0, snap.ElapsedSeconds(), 1e-9)
	assert.InDelta(t, 10.0, snap.CPS, 1e-9)
	assert.Equal(t, 1.0, snap.HitRatio)
}

func TestLineAdvance(t *testing.T) {
	clock := newFakeClock()
	s := newSession(t, "ab\ncd", clock)
	s.Handle(CharEvent(' '))

	typeText(s, "ab")
	line, col := s.Cursor()
	assert.Equal(t, 0, line)
	assert.Equal(t, 2, col)
	expected, ok := s.Expected()
	require.True(t, ok)
	assert.Equal(t, LineEnd, expected)

	sig := s.Handle(CharEvent(LineEnd))
	assert.True(t, sig.Has(SignalCursorMoved))
	line, col = s.Cursor()
	assert.Equal(t, 1, line)
	assert.Equal(t, 0, col)
}

func TestMismatchDoesNotAdvanceCursor(t *testing.T) {
	clock := newFakeClock()
	s := newSession(t, "abc", clock)
	s.Handle(CharEvent('a'))
	typeText(s, "a")

	line, col := s.Cursor()
	before := s.Stats()
	sig := s.Handle(CharEvent('z'))

	assert.Equal(t, Signal(0), sig)
	gotLine, gotCol := s.Cursor()
	assert.Equal(t, line, gotLine)
	assert.Equal(t, col, gotCol)
	assert.Equal(t, before.Hits, s.Stats().Hits)
	assert.Equal(t, before.Misses+1, s.Stats().Misses)
	assert.Equal(t, Running, s.State())
}

func TestBeepOnMissWhenEnabled(t *testing.T) {
	clock := newFakeClock()
	s := newSession(t, "abc", clock, WithBeep(true))
	s.Handle(CharEvent('a'))
	assert.True(t, s.Handle(CharEvent('q')).Has(SignalBeep))
	assert.False(t, s.Handle(CharEvent('a')).Has(SignalBeep))
}

func TestPauseTimeExcluded(t *testing.T) {
	clock := newFakeClock()
	s := newSession(t, "abcdef", clock)
	s.Handle(CharEvent(' '))

	clock.Advance(500 * time.Millisecond)
	typeText(s, "ab")
	assert.True(t, s.Handle(CancelEvent()).Has(SignalPausePrompt))
	assert.Equal(t, Paused, s.State())

	clock.Advance(time.Second)
	assert.InDelta(t, 0.5, s.Stats().ElapsedSeconds(), 1e-9)
	assert.True(t, s.Handle(CharEvent('x')).Has(SignalResumed))
	assert.Equal(t, Running, s.State())
	assert.Equal(t, 0, s.Stats().Misses, "the resume key is not matched")

	clock.Advance(500 * time.Millisecond)
	typeText(s, "cdef")
	require.Equal(t, Completed, s.State())
	snap, ok := s.Result()
	require.True(t, ok)
	assert.InDelta(t, 1.0, snap.ElapsedSeconds(), 1e-9)
	assert.Equal(t, 6, snap.Hits)
}

func TestAbandonFromPause(t *testing.T) {
	clock := newFakeClock()
	s := newSession(t, "abcdef", clock)
	s.Handle(CharEvent(' '))
	clock.Advance(2 * time.Second)
	typeText(s, "abx")
	s.Handle(CancelEvent())
	clock.Advance(5 * time.Second)
	s.Handle(CancelEvent())

	assert.Equal(t, Abandoned, s.State())
	last := s.Stats()
	assert.Equal(t, 2, last.Hits)
	assert.Equal(t, 1, last.Misses)
	assert.InDelta(t, 2.0, last.ElapsedSeconds(), 1e-9)
	_, ok := s.Result()
	assert.False(t, ok)
}

func TestResizeIsNoop(t *testing.T) {
	clock := newFakeClock()
	s := newSession(t, "abc", clock)

	assert.True(t, s.Handle(ResizeEvent()).Has(SignalRedraw))
	assert.Equal(t, NotStarted, s.State())

	s.Handle(CharEvent(' '))
	typeText(s, "a")
	before := s.Stats()
	assert.True(t, s.Handle(ResizeEvent()).Has(SignalRedraw))
	assert.Equal(t, before.Hits, s.Stats().Hits)
	assert.Equal(t, before.Misses, s.Stats().Misses)
	_, col := s.Cursor()
	assert.Equal(t, 1, col)
}

func TestTerminalStatesIgnoreInput(t *testing.T) {
	clock := newFakeClock()
	s := newSession(t, "a", clock)
	s.Handle(CharEvent(' '))
	s.Handle(CharEvent('a'))
	require.Equal(t, Completed, s.State())

	assert.Equal(t, Signal(0), s.Handle(CharEvent('a')))
	assert.Equal(t, Signal(0), s.Handle(CancelEvent()))
	assert.Equal(t, Completed, s.State())
	assert.Equal(t, 1, s.Stats().Hits)
	_, ok := s.Expected()
	assert.False(t, ok)
}

func TestLiveStatsRefreshOnEveryEvent(t *testing.T) {
	clock := newFakeClock()
	s := newSession(t, "abcd", clock)
	s.Handle(CharEvent(' '))
	assert.Equal(t, stats.Snapshot{}, s.Stats())

	clock.Advance(time.Second)
	s.Handle(CharEvent('a'))
	assert.InDelta(t, 1.0, s.Stats().CPS, 1e-9)

	clock.Advance(time.Second)
	s.Handle(CharEvent('x'))
	assert.InDelta(t, 0.5, s.Stats().CPS, 1e-9)
	assert.InDelta(t, 0.5, s.Stats().HitRatio, 1e-9)
}

type sliceSource struct {
	events []Event
}

func (s *sliceSource) Next() (Event, error) {
	if len(s.events) == 0 {
		return Event{}, io.EOF
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, nil
}

type recordingSink struct {
	keys  []string
	snaps []stats.Snapshot
	err   error
}

func (r *recordingSink) AppendScore(key string, snap stats.Snapshot) error {
	r.keys = append(r.keys, key)
	r.snaps = append(r.snaps, snap)
	return r.err
}

func charEvents(text string) []Event {
	events := make([]Event, 0, len(text))
	for _, r := range text {
		events = append(events, CharEvent(r))
	}
	return events
}

func TestRunAbandonBeforeStartRecordsNothing(t *testing.T) {
	s := newSession(t, "abc", newFakeClock())
	sink := &recordingSink{}
	src := &sliceSource{events: append([]Event{CancelEvent()}, charEvents("abc")...)}

	_, ok, err := Run(s, "Dvorak/x", src, sink)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, Abandoned, s.State())
	assert.Empty(t, sink.keys)
}

func TestRunCompletedRecordsOnce(t *testing.T) {
	clock := newFakeClock()
	s := newSession(t, "ab\nc", clock)
	sink := &recordingSink{}
	events := append([]Event{CharEvent(' '), ResizeEvent(), CharEvent('z')}, charEvents("ab\nc")...)

	snap, ok, err := Run(s, "Dvorak/x", &sliceSource{events: events}, sink)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, sink.keys, 1)
	assert.Equal(t, "Dvorak/x", sink.keys[0])
	assert.Equal(t, snap, sink.snaps[0])
	assert.Equal(t, 4, snap.Hits)
	assert.Equal(t, 1, snap.Misses)
}

func TestRunAbandonAfterProgressRecordsNothing(t *testing.T) {
	s := newSession(t, "abc", newFakeClock())
	sink := &recordingSink{}
	events := append([]Event{CharEvent(' ')}, charEvents("ab")...)
	events = append(events, CancelEvent(), CancelEvent())

	_, ok, err := Run(s, "k", &sliceSource{events: events}, sink)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, sink.keys)
}

func TestRunPropagatesErrors(t *testing.T) {
	s := newSession(t, "abc", newFakeClock())
	_, _, err := Run(s, "k", &sliceSource{}, nil)
	assert.ErrorIs(t, err, io.EOF)

	s = newSession(t, "a", newFakeClock())
	sink := &recordingSink{err: errors.New("disk full")}
	_, ok, err := Run(s, "k", &sliceSource{events: charEvents(" a")}, sink)
	assert.True(t, ok)
	assert.ErrorContains(t, err, "disk full")
}

func TestRecordOnlyCompletedSessions(t *testing.T) {
	sink := &recordingSink{}
	s := newSession(t, "ab", newFakeClock())

	_, ok, err := Record(s, "k", sink)
	require.NoError(t, err)
	assert.False(t, ok)

	for _, ev := range charEvents(" a") {
		s.Handle(ev)
	}
	_, ok, err = Record(s, "k", sink)
	require.NoError(t, err)
	assert.False(t, ok, "running session")
	assert.Empty(t, sink.keys)

	s.Handle(CharEvent('b'))
	snap, ok, err := Record(s, "Dvorak/ab", sink)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"Dvorak/ab"}, sink.keys)
	assert.Equal(t, 2, snap.Hits)

	snap, ok, err = Record(s, "k", nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, snap.Hits)
}

func TestRecordReturnsSinkError(t *testing.T) {
	s := newSession(t, "a", newFakeClock())
	for _, ev := range charEvents(" a") {
		s.Handle(ev)
	}
	_, ok, err := Record(s, "k", &recordingSink{err: errors.New("disk full")})
	assert.True(t, ok)
	assert.EqualError(t, err, "disk full")
}
