package xmlvalue

import (
	"strconv"
	"strings"

	"podkit/internal/nsnorm"
)

// Lookup resolves a dotted path such as "rss.channel.itunes:author" against v.
// Each segment has its namespace separator rewritten with token, matching
// documents normalized with the same token. Numeric segments index lists; a
// single value behaves as a one-element list.
func Lookup(v any, path, token string) (any, bool) {
	current := v
	for _, segment := range strings.Split(path, ".") {
		if segment == "" {
			return nil, false
		}
		if token != "" {
			segment = nsnorm.RewriteName(segment, token)
		}
		next, ok := step(current, segment)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

func step(current any, segment string) (any, bool) {
	if m, ok := current.(Map); ok {
		if value, ok := m[segment]; ok {
			return value, true
		}
	}
	idx, err := strconv.Atoi(segment)
	if err != nil || idx < 0 {
		return nil, false
	}
	items := Items(current)
	if idx >= len(items) {
		return nil, false
	}
	return items[idx], true
}

// Items returns v as a list: lists are returned unchanged, nil becomes an
// empty list, and any other value a single-element list.
func Items(v any) []any {
	switch value := v.(type) {
	case nil:
		return nil
	case []any:
		return value
	default:
		return []any{value}
	}
}

// String resolves path and returns the text of the value found there.
// Elements with attributes yield their text content and lists their first
// entry.
func String(v any, path, token string) string {
	value, ok := Lookup(v, path, token)
	if !ok {
		return ""
	}
	return text(value)
}

func text(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case Map:
		s, _ := value[TextKey].(string)
		return s
	case []any:
		if len(value) > 0 {
			return text(value[0])
		}
	}
	return ""
}
