package lessons

import (
	"fmt"

	"github.com/verte-zerg/workmanship/internal/layout"
)

// Conversion derives the lessons of layout To from those of layout From.
type Conversion struct {
	From            string
	To              string
	Key             string
	AllowCollisions bool
}

// DefaultConversions derive every built-in layout from Dvorak. The Greek
// tables repeat characters, so their maps are built leniently.
var DefaultConversions = []Conversion{
	{From: layout.Dvorak, To: layout.Workman, Key: "w"},
	{From: layout.Dvorak, To: layout.WorkmanEL, Key: "ς", AllowCollisions: true},
	{From: layout.Dvorak, To: layout.ColemakDHISO, Key: "cdh"},
	{From: layout.Dvorak, To: layout.ColemakDHISOEL, Key: "ψδη", AllowCollisions: true},
	{From: layout.Dvorak, To: layout.ColemakDHANSI, Key: "cdha"},
	{From: layout.Dvorak, To: layout.ColemakDHANSIEL, Key: "ψδηα", AllowCollisions: true},
}

// Convert returns a copy of the catalog extended with the derived layouts.
// A derived layout replaces an existing layout of the same title.
func (c *Catalog) Convert(conversions ...Conversion) (*Catalog, error) {
	out := c.clone()
	for _, conv := range conversions {
		source, ok := out.Layout(conv.From)
		if !ok {
			return nil, &ValidationError{Layout: conv.From, Msg: "source layout not in lessons"}
		}
		m, err := buildMap(conv)
		if err != nil {
			return nil, err
		}
		derived := Layout{
			Title:   conv.To,
			Key:     conv.Key,
			Lessons: make([]Lesson, 0, len(source.Lessons)),
		}
		for _, lesson := range source.Lessons {
			derived.Lessons = append(derived.Lessons, Lesson{
				Title: m.ApplyToTitle(lesson.Title),
				Text:  m.Apply(lesson.Text),
			})
		}
		if existing, ok := out.Layout(conv.To); ok {
			*existing = derived
		} else {
			out.Layouts = append(out.Layouts, derived)
		}
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func buildMap(conv Conversion) (*layout.Map, error) {
	from, err := layout.Lookup(conv.From)
	if err != nil {
		return nil, err
	}
	to, err := layout.Lookup(conv.To)
	if err != nil {
		return nil, err
	}
	var opts []layout.Option
	if conv.AllowCollisions {
		opts = append(opts, layout.AllowCollisions())
	}
	m, err := layout.BuildMap(from, to, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s -> %s: %w", conv.From, conv.To, err)
	}
	return m, nil
}

func (c *Catalog) clone() *Catalog {
	out := &Catalog{Layouts: make([]Layout, len(c.Layouts))}
	for i, l := range c.Layouts {
		l.Lessons = append([]Lesson(nil), l.Lessons...)
		out.Layouts[i] = l
	}
	return out
}
