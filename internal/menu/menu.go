// Package menu builds keyed menus and lays their labels out in columns.
package menu

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Style marks how a label is rendered.
type Style int

const (
	StyleNormal Style = iota
	StyleSelected
)

// Entry is one menu item. An empty Key is replaced by the next free number.
type Entry struct {
	Key   string
	Title string
	Style Style
	Value any
}

// Label is the rendered text of an entry.
type Label struct {
	Text  string
	Style Style
}

// EntryError reports an entry that cannot join a menu.
type EntryError struct {
	Key   string
	Title string
	Msg   string
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("menu entry %q (%s): %s", e.Key, e.Title, e.Msg)
}

// Menu is an ordered set of entries with unique lower-case keys.
type Menu struct {
	entries []Entry
	index   map[string]int
	counter int
}

// New builds a menu from entries in order.
func New(entries ...Entry) (*Menu, error) {
	m := &Menu{index: map[string]int{}, counter: 1}
	for _, e := range entries {
		if err := m.Add(e); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Add appends an entry. Keys are lower-cased because selections are read in
// lower case.
func (m *Menu) Add(e Entry) error {
	if strings.TrimSpace(e.Title) == "" {
		return &EntryError{Key: e.Key, Title: e.Title, Msg: "invalid menu entry: empty title"}
	}
	if e.Key == "" {
		e.Key = strconv.Itoa(m.counter)
		m.counter++
	}
	e.Key = strings.ToLower(e.Key)
	if strings.ContainsFunc(e.Key, unicode.IsSpace) {
		return &EntryError{Key: e.Key, Title: e.Title, Msg: "invalid menu entry: key contains spaces"}
	}
	if i, ok := m.index[e.Key]; ok {
		return &EntryError{Key: e.Key, Title: e.Title, Msg: fmt.Sprintf("duplicate key over %q", m.entries[i].Title)}
	}
	m.index[e.Key] = len(m.entries)
	m.entries = append(m.entries, e)
	return nil
}

// Len returns the number of entries.
func (m *Menu) Len() int {
	return len(m.entries)
}

// Lookup finds an entry by key, ignoring case and surrounding blanks.
func (m *Menu) Lookup(key string) (Entry, bool) {
	i, ok := m.index[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return Entry{}, false
	}
	return m.entries[i], true
}

// Letters concatenates the non-numeric keys, for prompts.
func (m *Menu) Letters() string {
	var b strings.Builder
	for _, e := range m.entries {
		if !isNumber(e.Key) {
			b.WriteString(e.Key)
		}
	}
	return b.String()
}

// Labels renders every entry as "key - title".
func (m *Menu) Labels() []Label {
	labels := make([]Label, len(m.entries))
	for i, e := range m.entries {
		labels[i] = Label{Text: e.Key + " - " + e.Title, Style: e.Style}
	}
	return labels
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
