package pattern

import (
	"errors"
	"fmt"
	"strings"
)

// Record is a flat mapping from field name to value.
type Record map[string]any

var (
	// ErrNestedOpen reports a "{" inside an open placeholder.
	ErrNestedOpen = errors.New("nested '{' inside placeholder")
	// ErrUnmatchedClose reports a "}" without an open placeholder.
	ErrUnmatchedClose = errors.New("'}' without matching '{'")
)

// TemplateError describes an invalid pattern.
type TemplateError struct {
	Template string
	Offset   int
	Err      error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("invalid pattern %q at byte %d: %v", e.Template, e.Offset, e.Err)
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}

type segment struct {
	text  string
	field bool
}

// Template is a compiled pattern. It is immutable and safe for concurrent use.
type Template struct {
	source   string
	segments []segment
}

type scanState uint8

const (
	stateOutside scanState = iota
	stateInside
)

// Compile parses a pattern. A trailing placeholder without a closing brace is
// dropped.
func Compile(template string) (*Template, error) {
	t := &Template{source: template}
	state := stateOutside
	var buf strings.Builder

	for i, r := range template {
		switch state {
		case stateOutside:
			switch r {
			case '{':
				t.appendLiteral(buf.String())
				buf.Reset()
				state = stateInside
			case '}':
				return nil, &TemplateError{Template: template, Offset: i, Err: ErrUnmatchedClose}
			default:
				buf.WriteRune(r)
			}
		case stateInside:
			switch r {
			case '{':
				return nil, &TemplateError{Template: template, Offset: i, Err: ErrNestedOpen}
			case '}':
				t.segments = append(t.segments, segment{text: buf.String(), field: true})
				buf.Reset()
				state = stateOutside
			default:
				buf.WriteRune(r)
			}
		}
	}
	if state == stateOutside {
		t.appendLiteral(buf.String())
	}
	return t, nil
}

// MustCompile is like Compile but panics on an invalid pattern. It is meant
// for patterns defined in code.
func MustCompile(template string) *Template {
	t, err := Compile(template)
	if err != nil {
		panic(err)
	}
	return t
}

// Validate reports whether template compiles.
func Validate(template string) error {
	_, err := Compile(template)
	return err
}

func (t *Template) appendLiteral(text string) {
	if text == "" {
		return
	}
	t.segments = append(t.segments, segment{text: text})
}

// String returns the source pattern.
func (t *Template) String() string {
	return t.source
}

// Fields returns the placeholder names in order of appearance, without duplicates.
func (t *Template) Fields() []string {
	seen := make(map[string]struct{}, len(t.segments))
	var fields []string
	for _, seg := range t.segments {
		if !seg.field {
			continue
		}
		if _, ok := seen[seg.text]; ok {
			continue
		}
		seen[seg.text] = struct{}{}
		fields = append(fields, seg.text)
	}
	return fields
}

// Render substitutes every placeholder with the matching record value.
// Fields missing from rec render as <<field>>.
func (t *Template) Render(rec Record) string {
	var b strings.Builder
	b.Grow(len(t.source) + 16*len(t.segments))
	for _, seg := range t.segments {
		if !seg.field {
			b.WriteString(seg.text)
			continue
		}
		value, ok := rec[seg.text]
		if !ok {
			b.WriteString(Sentinel(seg.text))
			continue
		}
		s, _ := Stringify(value)
		b.WriteString(s)
	}
	return b.String()
}

// Render compiles template and renders it against rec.
func Render(rec Record, template string) (string, error) {
	t, err := Compile(template)
	if err != nil {
		return "", err
	}
	return t.Render(rec), nil
}

// Sentinel returns the marker substituted for a missing field.
func Sentinel(field string) string {
	return "<<" + field + ">>"
}
