package layout

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ConfigurationError reports layout tables that cannot be mapped onto each
// other. It is a build-time error: conversion runs abort on it.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return e.Msg
}

// Map substitutes characters of a source layout with the characters found at
// the same position of a target layout.
type Map struct {
	subst map[rune]rune
}

type buildOptions struct {
	allowCollisions bool
}

// Option tweaks BuildMap.
type Option func(*buildOptions)

// AllowCollisions accepts tables where two source characters land on the same
// target character. Such maps are not reversible.
func AllowCollisions() Option {
	return func(o *buildOptions) {
		o.allowCollisions = true
	}
}

// BuildMap zips the flattened rows of source and target position by position.
func BuildMap(source, target Table, opts ...Option) (*Map, error) {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}
	if len(source) != len(target) {
		return nil, &ConfigurationError{Msg: fmt.Sprintf("row count mismatch: source has %d rows, target has %d", len(source), len(target))}
	}
	for i := range source {
		sn := utf8.RuneCountInString(source[i])
		tn := utf8.RuneCountInString(target[i])
		if sn != tn {
			return nil, &ConfigurationError{Msg: fmt.Sprintf("row %d length mismatch: %q (%d) vs %q (%d)", i, source[i], sn, target[i], tn)}
		}
	}

	from := []rune(strings.Join(source, ""))
	to := []rune(strings.Join(target, ""))
	subst := make(map[rune]rune, len(from))
	owner := make(map[rune]rune, len(to))
	for i, r := range from {
		if prev, ok := subst[r]; ok {
			if prev != to[i] {
				return nil, &ConfigurationError{Msg: fmt.Sprintf("source char %q maps to both %q and %q", r, prev, to[i])}
			}
			continue
		}
		if other, ok := owner[to[i]]; ok && !o.allowCollisions {
			return nil, &ConfigurationError{Msg: fmt.Sprintf("source chars %q and %q both map to %q", other, r, to[i])}
		}
		subst[r] = to[i]
		owner[to[i]] = r
	}
	return &Map{subst: subst}, nil
}

// Len returns the number of characters in the map's domain.
func (m *Map) Len() int {
	return len(m.subst)
}

// Lookup returns the substitute for r.
func (m *Map) Lookup(r rune) (rune, bool) {
	out, ok := m.subst[r]
	return out, ok
}

// Apply replaces every mapped character of text; unmapped characters pass
// through unchanged.
func (m *Map) Apply(text string) string {
	return strings.Map(func(r rune) rune {
		if out, ok := m.subst[r]; ok {
			return out
		}
		return r
	}, text)
}

var titleTagRe = regexp.MustCompile(`^(.+): (.+)$`)

// ApplyToTitle substitutes only the tag of a "<tag>: <free text>" title.
// The translated tag is upper-cased. Titles without that shape are returned
// as is.
func (m *Map) ApplyToTitle(title string) string {
	match := titleTagRe.FindStringSubmatchIndex(title)
	if match == nil {
		return title
	}
	tag := title[match[2]:match[3]]
	return strings.ToUpper(strings.Map(m.tagRune, tag)) + title[match[3]:]
}

// tagRune maps a tag character, falling back to its lower-case form for
// tables that only list lower-case letters.
func (m *Map) tagRune(r rune) rune {
	if out, ok := m.subst[r]; ok {
		return out
	}
	if lower := unicode.ToLower(r); lower != r {
		if out, ok := m.subst[lower]; ok {
			return out
		}
	}
	return r
}
