// Package lessons loads, validates, converts and writes lesson catalogs.
package lessons

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"unicode"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed default.yml
var defaultLessons []byte

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "lessons.schema.json"

// Menu keys taken by the lesson menu's own entries.
const (
	BeepKey = "b"
	QuitKey = "q"
)

// Lesson is a titled practice text.
type Lesson struct {
	Title string
	Text  string
}

// Layout groups the lessons of one keyboard layout.
type Layout struct {
	Title   string
	Key     string
	Lessons []Lesson
}

// Lesson returns the lesson with the given title.
func (l *Layout) Lesson(title string) (Lesson, bool) {
	for _, lesson := range l.Lessons {
		if lesson.Title == title {
			return lesson, true
		}
	}
	return Lesson{}, false
}

// Catalog is an ordered set of layouts.
type Catalog struct {
	Layouts []Layout
}

// ValidationError reports a catalog that breaks the lesson data contract.
type ValidationError struct {
	Layout string
	Lesson string
	Msg    string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Layout != "" && e.Lesson != "":
		return fmt.Sprintf("layout %q, lesson %q: %s", e.Layout, e.Lesson, e.Msg)
	case e.Layout != "":
		return fmt.Sprintf("layout %q: %s", e.Layout, e.Msg)
	default:
		return e.Msg
	}
}

// Layout returns the layout with the given title.
func (c *Catalog) Layout(title string) (*Layout, bool) {
	for i := range c.Layouts {
		if c.Layouts[i].Title == title {
			return &c.Layouts[i], true
		}
	}
	return nil, false
}

// Titles returns the layout titles in catalog order.
func (c *Catalog) Titles() []string {
	titles := make([]string, len(c.Layouts))
	for i, l := range c.Layouts {
		titles[i] = l.Title
	}
	return titles
}

// Validate checks that keys are unique usable menu keys, lesson titles are
// unique within their layout and no lesson text is blank.
func (c *Catalog) Validate() error {
	if len(c.Layouts) == 0 {
		return &ValidationError{Msg: "no layouts defined"}
	}
	titles := map[string]struct{}{}
	keys := map[string]string{}
	for _, l := range c.Layouts {
		if _, ok := titles[l.Title]; ok {
			return &ValidationError{Layout: l.Title, Msg: "duplicate layout"}
		}
		titles[l.Title] = struct{}{}
		key := strings.ToLower(strings.TrimSpace(l.Key))
		if key == "" {
			return &ValidationError{Layout: l.Title, Msg: "empty key"}
		}
		if problem := checkKey(key); problem != "" {
			return &ValidationError{Layout: l.Title, Msg: fmt.Sprintf("key %q %s", l.Key, problem)}
		}
		if other, ok := keys[key]; ok {
			return &ValidationError{Layout: l.Title, Msg: fmt.Sprintf("key %q already used by %q", l.Key, other)}
		}
		keys[key] = l.Title

		lessonTitles := map[string]struct{}{}
		for _, lesson := range l.Lessons {
			if _, ok := lessonTitles[lesson.Title]; ok {
				return &ValidationError{Layout: l.Title, Lesson: lesson.Title, Msg: "duplicate lesson title"}
			}
			lessonTitles[lesson.Title] = struct{}{}
			if strings.TrimSpace(lesson.Text) == "" {
				return &ValidationError{Layout: l.Title, Lesson: lesson.Title, Msg: "empty lesson text"}
			}
		}
	}
	return nil
}

func checkKey(key string) string {
	switch {
	case key == BeepKey || key == QuitKey:
		return "is reserved by the menu"
	case strings.ContainsFunc(key, unicode.IsSpace):
		return "contains spaces"
	case !strings.ContainsFunc(key, func(r rune) bool { return !unicode.IsDigit(r) }):
		return "is a number, numbers select lessons"
	}
	return ""
}

// Default returns the embedded catalog with every built-in layout derived
// from the Dvorak lessons.
func Default() (*Catalog, error) {
	base, err := Load(bytes.NewReader(defaultLessons))
	if err != nil {
		return nil, fmt.Errorf("embedded lessons: %w", err)
	}
	return base.Convert(DefaultConversions...)
}

// LoadFile reads a catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close for read-only lesson file.
			_ = cerr
		}
	}()
	return Load(f)
}

// Load decodes a YAML catalog, keeping the document order of layouts and
// lessons, and validates it.
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read lessons: %w", err)
	}
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode lessons: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, &ValidationError{Msg: "empty lessons document"}
	}
	doc := resolve(root.Content[0])
	if err := validateSchema(doc); err != nil {
		return nil, err
	}

	cat := &Catalog{}
	layouts := mappingValue(doc, "layouts")
	for i := 0; i+1 < len(layouts.Content); i += 2 {
		body := resolve(layouts.Content[i+1])
		layout := Layout{
			Title: layouts.Content[i].Value,
			Key:   mappingValue(body, "key").Value,
		}
		lessons := mappingValue(body, "lessons")
		for j := 0; j+1 < len(lessons.Content); j += 2 {
			layout.Lessons = append(layout.Lessons, Lesson{
				Title: lessons.Content[j].Value,
				Text:  resolve(lessons.Content[j+1]).Value,
			})
		}
		cat.Layouts = append(cat.Layouts, layout)
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

// Dump writes the catalog as YAML in catalog order.
func (c *Catalog) Dump(w io.Writer) error {
	layouts := &yaml.Node{Kind: yaml.MappingNode}
	for _, l := range c.Layouts {
		lessons := &yaml.Node{Kind: yaml.MappingNode}
		for _, lesson := range l.Lessons {
			text := scalar(lesson.Text)
			if strings.Contains(lesson.Text, "\n") {
				text.Style = yaml.LiteralStyle
			}
			lessons.Content = append(lessons.Content, scalar(lesson.Title), text)
		}
		body := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
			scalar("key"), scalar(l.Key),
			scalar("lessons"), lessons,
		}}
		layouts.Content = append(layouts.Content, scalar(l.Title), body)
	}
	doc := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{scalar("layouts"), layouts}}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode lessons: %w", err)
	}
	return enc.Close()
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// mappingValue returns the value node of key, or an empty node. The schema
// check runs first, so missing keys do not reach here on valid input.
func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n != nil && n.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == key {
				return resolve(n.Content[i+1])
			}
		}
	}
	return &yaml.Node{}
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	return compiler.Compile(schemaURL)
})

func validateSchema(doc *yaml.Node) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile lessons schema: %w", err)
	}
	if err := schema.Validate(instance(doc)); err != nil {
		return &ValidationError{Msg: fmt.Sprintf("lessons schema: %v", err)}
	}
	return nil
}

// instance converts a YAML node into the JSON value model the schema
// validator expects.
func instance(n *yaml.Node) any {
	n = resolve(n)
	if n == nil {
		return nil
	}
	switch n.Kind {
	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			out[n.Content[i].Value] = instance(n.Content[i+1])
		}
		return out
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			out = append(out, instance(item))
		}
		return out
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return nil
		case "!!bool":
			return strings.EqualFold(n.Value, "true")
		case "!!int", "!!float":
			return json.Number(n.Value)
		default:
			return n.Value
		}
	default:
		return nil
	}
}
