package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"podkit/internal/testsupport"
)

func TestRenderCommand(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		stdin string
		want  string
	}{
		{"json flag", []string{"render", "{title} #{n}", "--json", `{"title":"Hi","n":3.0}`}, "", "Hi #3\n"},
		{"stdin", []string{"render", "{a}-{b}"}, `{"a":[1,2]}`, "[1,2]-<<b>>\n"},
		{"empty record", []string{"render", "{x}"}, "", "<<x>>\n"},
		{"no placeholders", []string{"render", "plain"}, "{}", "plain\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := runCLI(t, tt.args, "", strings.NewReader(tt.stdin))
			if err != nil {
				t.Fatalf("render failed: %v", err)
			}
			if stdout != tt.want {
				t.Fatalf("render output = %q, want %q", stdout, tt.want)
			}
		})
	}
}

func TestRenderCommandErrors(t *testing.T) {
	if _, _, err := runCLI(t, []string{"render", "{a{b}}", "--json", "{}"}, "", nil); err == nil {
		t.Fatal("expected malformed pattern error")
	}
	if _, _, err := runCLI(t, []string{"render", "{a}", "--json", "[1]"}, "", nil); err == nil {
		t.Fatal("expected error for non-object record")
	}
}

func TestRenderCommandReportsMissingFields(t *testing.T) {
	stdout, stderr, err := runCLI(t, []string{"render", "{title} {guid}", "--json", `{"title":"Hi"}`}, "", nil)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if stdout != "Hi <<guid>>\n" {
		t.Fatalf("render output = %q", stdout)
	}
	requireContains(t, stderr, `field "guid" is not in the record`)
	requireNotContains(t, stderr, `"title"`)
}

func TestNormalizeCommand(t *testing.T) {
	doc := `<rss xmlns:itunes="x"><itunes:author a:b="1">A</itunes:author></rss>`

	stdout, _, err := runCLI(t, []string{"normalize", "--token", "_"}, "", strings.NewReader(doc))
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if want := `<rss xmlns:itunes="x"><itunes_author a:b="1">A</itunes_author></rss>` + "\n"; stdout != want {
		t.Fatalf("normalize output = %q, want %q", stdout, want)
	}

	path := filepath.Join(t.TempDir(), "feed.xml")
	if err := os.WriteFile(path, []byte(doc+"\n"), 0o644); err != nil {
		t.Fatalf("write doc: %v", err)
	}
	cfg := testsupport.NewConfig(t)
	cfg.Episodes.NamespaceToken = "__ns__"
	configPath := writeTestConfig(t, cfg)
	stdout, _, err = runCLI(t, []string{"normalize", path}, configPath, nil)
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	requireContains(t, stdout, "<itunes__ns__author")
	if strings.HasSuffix(stdout, "\n\n") {
		t.Fatalf("expected a single trailing newline, got %q", stdout)
	}

	if _, _, err := runCLI(t, []string{"normalize"}, "", strings.NewReader("<a><b></a>")); err == nil {
		t.Fatal("expected malformed document error")
	}
}
