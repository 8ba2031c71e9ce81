package nsnorm

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"iter"
)

// Kind identifies the type of a parse event.
type Kind uint8

const (
	// KindStart is an element start tag (including self-closing tags).
	KindStart Kind = iota
	// KindEnd is an element end tag. Self-closing tags produce a synthetic
	// end event with an empty Raw span.
	KindEnd
	// KindText is character data, including CDATA sections.
	KindText
	// KindOther covers comments, processing instructions and directives.
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindEnd:
		return "end"
	case KindText:
		return "text"
	default:
		return "other"
	}
}

// Event is a single low-level parse event.
type Event struct {
	Kind Kind
	// Name is the raw qualified element name for start and end events.
	Name string
	// Raw is the exact input span that produced the event.
	Raw []byte
	// Offset is the byte offset of Raw within the document.
	Offset int64
}

var (
	// ErrMismatchedTag reports an end tag that does not close the innermost open element.
	ErrMismatchedTag = errors.New("mismatched end tag")
	// ErrUnclosedElement reports a document that ends with open elements.
	ErrUnclosedElement = errors.New("unclosed element")
	// ErrNoRoot reports a document without any element.
	ErrNoRoot = errors.New("document has no root element")
	// ErrMultipleRoots reports a second top-level element.
	ErrMultipleRoots = errors.New("multiple root elements")
	// ErrTextOutsideRoot reports non-whitespace character data outside the root element.
	ErrTextOutsideRoot = errors.New("text outside root element")
)

// SyntaxError describes why a document could not be tokenized.
type SyntaxError struct {
	Offset int64
	Line   int
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("xml syntax error at line %d (offset %d): %v", e.Line, e.Offset, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// NewDecoder returns a strict decoder for already-decoded UTF-8 input.
//
// Encoding declarations are accepted for any charset label: the bytes were
// transcoded before reaching the decoder, so the label no longer describes them.
func NewDecoder(r io.Reader) *xml.Decoder {
	d := xml.NewDecoder(r)
	d.Strict = true
	d.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	return d
}

// Events returns the parse events of doc in document order.
//
// The sequence is lazy and can be ranged over once. It stops after yielding
// the first error, which is always a *SyntaxError.
func Events(doc []byte) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		d := NewDecoder(bytes.NewReader(decoderView(doc)))
		fail := func(err error) {
			line, _ := d.InputPos()
			var xerr *xml.SyntaxError
			if errors.As(err, &xerr) {
				line = xerr.Line
			}
			yield(Event{}, &SyntaxError{Offset: d.InputOffset(), Line: line, Err: err})
		}

		var (
			open  []string
			roots int
			prev  int64
		)
		for {
			tok, err := d.RawToken()
			if errors.Is(err, io.EOF) {
				switch {
				case len(open) > 0:
					fail(fmt.Errorf("%w <%s>", ErrUnclosedElement, open[len(open)-1]))
				case roots == 0:
					fail(ErrNoRoot)
				}
				return
			}
			if err != nil {
				fail(err)
				return
			}

			off := d.InputOffset()
			ev := Event{Offset: prev, Raw: doc[prev:off:off]}
			prev = off

			switch t := tok.(type) {
			case xml.StartElement:
				if len(open) == 0 {
					roots++
					if roots > 1 {
						fail(ErrMultipleRoots)
						return
					}
				}
				ev.Kind = KindStart
				ev.Name = tagName(ev.Raw, 1)
				open = append(open, ev.Name)
			case xml.EndElement:
				if len(open) == 0 {
					fail(fmt.Errorf("%w </%s>", ErrMismatchedTag, qualified(t.Name)))
					return
				}
				ev.Kind = KindEnd
				ev.Name = open[len(open)-1]
				if len(ev.Raw) > 0 {
					if name := tagName(ev.Raw, 2); name != ev.Name {
						fail(fmt.Errorf("%w </%s> closes <%s>", ErrMismatchedTag, name, ev.Name))
						return
					}
				}
				open = open[:len(open)-1]
			case xml.CharData:
				ev.Kind = KindText
				if len(open) == 0 && !isBlank(ev.Raw) {
					fail(ErrTextOutsideRoot)
					return
				}
			default:
				ev.Kind = KindOther
			}

			if !yield(ev, nil) {
				return
			}
		}
	}
}

// tagName extracts the raw element name from a tag span, skipping the
// leading "<" or "</".
func tagName(raw []byte, skip int) string {
	if len(raw) <= skip {
		return ""
	}
	rest := raw[skip:]
	end := bytes.IndexAny(rest, " \t\r\n/>")
	if end < 0 {
		end = len(rest)
	}
	return string(rest[:end])
}

func qualified(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}

var bom = []byte("\ufeff")

func isBlank(raw []byte) bool {
	return len(bytes.TrimSpace(bytes.TrimPrefix(raw, bom))) == 0
}
