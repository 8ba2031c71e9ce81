package nsnorm

import (
	"bytes"
	"errors"
	"strings"
)

// Placeholder is the replacement token podkit substitutes for namespace separators.
const Placeholder = "__placeholder__"

// ErrEmptyReplacement is returned when Normalize is called without a replacement token.
var ErrEmptyReplacement = errors.New("namespace replacement token must not be empty")

// Normalize replaces the namespace separator of every element name in xml
// with replacement. Only the first ":" of a name is rewritten; start and end
// tags follow the same rule so the output stays well paired. All other bytes
// are copied unchanged.
//
// Malformed documents return an error and no output.
func Normalize(xml, replacement string) (string, error) {
	out, err := NormalizeBytes([]byte(xml), replacement)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// NormalizeBytes is Normalize for byte slices.
func NormalizeBytes(doc []byte, replacement string) ([]byte, error) {
	if replacement == "" {
		return nil, ErrEmptyReplacement
	}

	var out bytes.Buffer
	out.Grow(len(doc) + len(doc)/16)
	for ev, err := range Events(doc) {
		if err != nil {
			return nil, err
		}
		switch ev.Kind {
		case KindStart:
			writeTag(&out, ev.Raw, 1, ev.Name, replacement)
		case KindEnd:
			// Self-closing tags were rewritten with their start event.
			if len(ev.Raw) == 0 {
				continue
			}
			writeTag(&out, ev.Raw, 2, ev.Name, replacement)
		default:
			out.Write(ev.Raw)
		}
	}
	return out.Bytes(), nil
}

// RewriteName applies the separator rule to a single name.
func RewriteName(name, replacement string) string {
	prefix, local, ok := strings.Cut(name, ":")
	if !ok {
		return name
	}
	return prefix + replacement + local
}

func writeTag(out *bytes.Buffer, raw []byte, skip int, name, replacement string) {
	if strings.IndexByte(name, ':') < 0 {
		out.Write(raw)
		return
	}
	out.Write(raw[:skip])
	out.WriteString(RewriteName(name, replacement))
	out.Write(raw[skip+len(name):])
}
