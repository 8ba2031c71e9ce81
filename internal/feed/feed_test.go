package feed_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/encoding/charmap"

	"podkit/internal/feed"
	"podkit/internal/nsnorm"
	"podkit/internal/pattern"
)

const showFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd" xmlns:googleplay="http://www.google.com/schemas/play-podcasts/1.0">
  <channel>
    <title>Example Show</title>
    <link>https://example.com</link>
    <itunes:author>Itunes Author</itunes:author>
    <googleplay:author>Play Author</googleplay:author>
    <item>
      <title>Episode One</title>
      <guid isPermaLink="false">ep-1</guid>
      <pubDate>Fri, 1 Mar 2024 08:00:00 +0000</pubDate>
      <itunes:episode>1</itunes:episode>
      <enclosure url="https://cdn.example.com/one.mp3?token=abc" type="audio/mpeg" length="10"/>
    </item>
    <item>
      <title>Episode Two</title>
      <pubDate>Sat, 02 Mar 2024 08:00:00 GMT</pubDate>
      <enclosure url="https://cdn.example.com/two" type="audio/mpeg"/>
    </item>
    <item>
      <title>Bonus</title>
      <pubDate>someday</pubDate>
    </item>
    <item/>
  </channel>
</rss>`

func TestParseExtractsChannelAndEpisodes(t *testing.T) {
	parsed, err := feed.Parse(showFeed, nsnorm.Placeholder)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if parsed.Title != "Example Show" || parsed.Link != "https://example.com" {
		t.Fatalf("unexpected channel: %q %q", parsed.Title, parsed.Link)
	}
	if parsed.Author != "Itunes Author" {
		t.Fatalf("expected itunes author to win, got %q", parsed.Author)
	}
	if len(parsed.Episodes) != 3 {
		t.Fatalf("expected 3 episodes, got %d", len(parsed.Episodes))
	}

	first := parsed.Episodes[0]
	if first.GUID != "ep-1" {
		t.Fatalf("expected guid text, got %q", first.GUID)
	}
	if want := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC); !first.PubDate.Equal(want) {
		t.Fatalf("unexpected pubDate: %v", first.PubDate)
	}
	if first.EnclosureType != "audio/mpeg" {
		t.Fatalf("unexpected enclosure type: %q", first.EnclosureType)
	}

	second := parsed.Episodes[1]
	if second.GUID != "https://cdn.example.com/two" {
		t.Fatalf("expected enclosure url fallback, got %q", second.GUID)
	}

	bonus := parsed.Episodes[2]
	if !bonus.PubDate.IsZero() {
		t.Fatalf("expected zero time for unparseable date, got %v", bonus.PubDate)
	}
	if bonus.GUID == "" {
		t.Fatal("expected derived guid")
	}
	again, err := feed.Parse(showFeed, nsnorm.Placeholder)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if again.Episodes[2].GUID != bonus.GUID {
		t.Fatal("expected derived guid to be stable across parses")
	}
}

func TestEpisodeRecordRendersPrefixedFields(t *testing.T) {
	parsed, err := feed.Parse(showFeed, nsnorm.Placeholder)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	rec := parsed.Episodes[0].Record("Example Show")

	got := pattern.MustCompile("{podcast}/{date} #{itunes:episode} {title} [{guid}]").Render(rec)
	if want := "Example Show/2024-03-01 #1 Episode One [ep-1]"; got != want {
		t.Fatalf("Render = %q, want %q", got, want)
	}
	if got := pattern.MustCompile("{date}").Render(parsed.Episodes[2].Record("x")); got != "<<date>>" {
		t.Fatalf("expected sentinel for missing date, got %q", got)
	}
}

func TestParseRejectsNonRSS(t *testing.T) {
	if _, err := feed.Parse(`<feed><title>atom</title></feed>`, nsnorm.Placeholder); !errors.Is(err, feed.ErrNoChannel) {
		t.Fatalf("expected ErrNoChannel, got %v", err)
	}
	if _, err := feed.Parse(`<rss><channel>`, nsnorm.Placeholder); err == nil {
		t.Fatal("expected error for malformed feed")
	}
}

func TestParseDate(t *testing.T) {
	tests := map[string]time.Time{
		"Mon, 02 Jan 2006 15:04:05 -0700": time.Date(2006, 1, 2, 22, 4, 5, 0, time.UTC),
		"Mon, 2 Jan 2006 15:04:05 -0700":  time.Date(2006, 1, 2, 22, 4, 5, 0, time.UTC),
		"2006-01-02T15:04:05Z":            time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC),
		"2006-01-02":                      time.Date(2006, 1, 2, 0, 0, 0, 0, time.UTC),
		" Mon,  02 Jan 2006 15:04:05 GMT": time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC),
	}
	for in, want := range tests {
		if got := feed.ParseDate(in); !got.Equal(want) {
			t.Errorf("ParseDate(%q) = %v, want %v", in, got, want)
		}
	}
	if got := feed.ParseDate("yesterday"); !got.IsZero() {
		t.Errorf("expected zero time, got %v", got)
	}
}

func TestFetchTranscodesDeclaredCharset(t *testing.T) {
	latin1, err := charmap.ISO8859_1.NewEncoder().String(`<?xml version="1.0" encoding="ISO-8859-1"?><rss><channel><title>Café</title></channel></rss>`)
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "podkit/test" {
			t.Errorf("unexpected user agent %q", got)
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(latin1))
	}))
	t.Cleanup(server.Close)

	client := feed.New(feed.WithUserAgent("podkit/test"))
	doc, err := client.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if !strings.Contains(doc.Body, "Café") {
		t.Fatalf("expected transcoded body, got %q", doc.Body)
	}

	parsed, err := feed.Parse(doc.Body, nsnorm.Placeholder)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if parsed.Title != "Café" {
		t.Fatalf("unexpected title %q", parsed.Title)
	}
}

func TestFetchHeaderCharsetWins(t *testing.T) {
	body, err := charmap.Windows1252.NewEncoder().String(`<rss><channel><title>“Quoted”</title></channel></rss>`)
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml; charset=windows-1252")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	doc, err := feed.New().Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if !strings.Contains(doc.Body, "“Quoted”") {
		t.Fatalf("expected transcoded quotes, got %q", doc.Body)
	}
}

func TestFetchStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	_, err := feed.New().Fetch(context.Background(), server.URL)
	var statusErr *feed.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Fatalf("unexpected status %d", statusErr.StatusCode)
	}
}

func TestFetchRejectsUnknownCharset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml; charset=x-made-up")
		_, _ = w.Write([]byte(`<rss/>`))
	}))
	t.Cleanup(server.Close)

	if _, err := feed.New().Fetch(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for unknown charset")
	}
}

func TestFetchEmptyURL(t *testing.T) {
	if _, err := feed.New().Fetch(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty url")
	}
}
