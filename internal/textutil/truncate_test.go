package textutil

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		width    int
		ellipsis bool
		want     string
	}{
		{"fits", "hello", 5, true, "hello"},
		{"cut without ellipsis", "hello world", 5, false, "hello"},
		{"cut with ellipsis", "hello world", 8, true, "hello..."},
		{"wide runes", "日本語のポッドキャスト", 7, false, "日本語"},
		{"wide runes ellipsis", "日本語のポッドキャスト", 9, true, "日本語..."},
		{"tiny width", "hello", 2, true, ".."},
		{"zero width", "hello", 0, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.width, tt.ellipsis); got != tt.want {
				t.Fatalf("Truncate(%q, %d, %v) = %q, want %q", tt.in, tt.width, tt.ellipsis, got, tt.want)
			}
		})
	}
}

func TestTitleCase(t *testing.T) {
	tests := map[string]string{
		"the daily":    "The Daily",
		"  hard fork ": "Hard Fork",
		"NPR news now": "NPR News Now",
		"":             "",
	}
	for in, want := range tests {
		if got := TitleCase(in); got != want {
			t.Errorf("TitleCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := map[string]string{
		"2024-03-01 Episode: One/Two": "2024-03-01 Episode- One-Two",
		`What? "Why" <now>|`:          "What Why now",
		"  padded  ":                  "padded",
	}
	for in, want := range tests {
		if got := SanitizeFileName(in); got != want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeFileNameEdgeCases(t *testing.T) {
	if got := SanitizeFileName(".hidden\tname\n"); got != "hidden name" {
		t.Fatalf("SanitizeFileName = %q", got)
	}
	if got := SanitizeFileName("ends with dots..."); got != "ends with dots" {
		t.Fatalf("SanitizeFileName = %q", got)
	}
	long := SanitizeFileName(strings.Repeat("é", 200))
	if len(long) > maxFileNameBytes || !utf8.ValidString(long) {
		t.Fatalf("expected valid name within %d bytes, got %d bytes", maxFileNameBytes, len(long))
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := map[string]string{
		"https://example.com/ep?id=42": "https_example_com_ep_id_42",
		"  Tag-01_B ":                  "tag-01_b",
		"???":                          "episode",
		"":                             "episode",
	}
	for in, want := range tests {
		if got := SanitizeToken(in); got != want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", in, got, want)
		}
	}
}
