package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxFileNameBytes leaves room for an extension under the common 255 byte
// file name limit.
const maxFileNameBytes = 240

// SanitizeFileName makes a rendered episode name safe to use as a single path
// segment. Path separators, colons and asterisks become dashes; quotes,
// angle brackets, pipes, question marks and control characters are dropped.
// Whitespace runs collapse to one space, leading dots are removed so the file
// is not hidden, and the result is cut to maxFileNameBytes on a rune boundary.
func SanitizeFileName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	space := false
	for _, r := range name {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*':
			r = '-'
		case r == '?' || r == '"' || r == '<' || r == '>' || r == '|':
			continue
		case unicode.IsSpace(r):
			space = b.Len() > 0
			continue
		case unicode.IsControl(r) || r == utf8.RuneError:
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(r)
	}
	out := strings.TrimLeft(b.String(), ".")
	if len(out) > maxFileNameBytes {
		cut := maxFileNameBytes
		for cut > 0 && !utf8.RuneStart(out[cut]) {
			cut--
		}
		out = out[:cut]
	}
	return strings.TrimRight(out, ". ")
}

// SanitizeToken reduces an identifier such as an episode GUID to lowercase
// letters, digits, dashes and underscores. Runs of anything else become a
// single underscore. Empty results yield "episode".
func SanitizeToken(value string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.TrimSpace(value) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		pending = true
	}
	out := b.String()
	if len(out) > maxFileNameBytes {
		out = out[:maxFileNameBytes]
	}
	if out == "" {
		return "episode"
	}
	return out
}
