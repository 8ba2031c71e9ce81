package textutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const ellipsis = "..."

// Truncate shortens s to at most maxWidth terminal cells. Wide runes count
// as two cells. When withEllipsis is set and s had to be cut, the tail is
// replaced by "..." so the result still fits within maxWidth.
func Truncate(s string, maxWidth int, withEllipsis bool) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if !withEllipsis {
		return cut(s, maxWidth)
	}
	if maxWidth <= len(ellipsis) {
		return ellipsis[:maxWidth]
	}
	return cut(s, maxWidth-len(ellipsis)) + ellipsis
}

func cut(s string, width int) string {
	var b strings.Builder
	used := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if used+w > width {
			break
		}
		b.WriteRune(r)
		used += w
	}
	return b.String()
}

// TitleCase capitalizes the first letter of every word.
func TitleCase(s string) string {
	return cases.Title(language.Und, cases.NoLower).String(strings.TrimSpace(s))
}
