// Package xmlvalue converts XML documents into generic nested values.
//
// Elements become maps keyed by local name, attributes are stored under
// "@name", and element text under "#text" when the element also has
// attributes or children. Elements without attributes or children collapse
// to their trimmed text. Repeated sibling elements become a []any in document
// order.
//
// Conversion keys elements by local name only, so documents should pass
// through nsnorm.Normalize first when prefixed siblings must stay distinct.
package xmlvalue

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"podkit/internal/nsnorm"
)

// Map is a converted element.
type Map = map[string]any

const (
	// TextKey holds element text next to attributes or children.
	TextKey = "#text"
	// AttrPrefix prefixes attribute keys.
	AttrPrefix = "@"
)

type frame struct {
	name     string
	fields   Map
	text     strings.Builder
	children bool
}

// Convert parses doc and returns a map holding the root element under its
// local name.
func Convert(doc string) (Map, error) {
	d := nsnorm.NewDecoder(strings.NewReader(doc))

	var (
		stack []*frame
		root  Map
	)
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("convert xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			f := &frame{name: t.Name.Local, fields: Map{}}
			for _, attr := range t.Attr {
				if isNamespaceDecl(attr.Name) {
					continue
				}
				f.fields[AttrPrefix+attr.Name.Local] = attr.Value
			}
			if len(stack) > 0 {
				stack[len(stack)-1].children = true
			}
			stack = append(stack, f)
		case xml.EndElement:
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			value := f.value()
			if len(stack) == 0 {
				root = Map{f.name: value}
				continue
			}
			insert(stack[len(stack)-1].fields, f.name, value)
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}

	if root == nil {
		return nil, errors.New("convert xml: document has no root element")
	}
	return root, nil
}

func (f *frame) value() any {
	text := strings.TrimSpace(f.text.String())
	if len(f.fields) == 0 {
		return text
	}
	if text != "" {
		f.fields[TextKey] = text
	}
	return f.fields
}

func insert(fields Map, key string, value any) {
	existing, ok := fields[key]
	if !ok {
		fields[key] = value
		return
	}
	if list, ok := existing.([]any); ok {
		fields[key] = append(list, value)
		return
	}
	fields[key] = []any{existing, value}
}

func isNamespaceDecl(name xml.Name) bool {
	return name.Space == "xmlns" || (name.Space == "" && name.Local == "xmlns")
}
