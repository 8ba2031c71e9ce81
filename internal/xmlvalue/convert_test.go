package xmlvalue_test

import (
	"testing"

	"podkit/internal/nsnorm"
	"podkit/internal/xmlvalue"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd" xmlns:googleplay="http://www.google.com/schemas/play-podcasts/1.0">
  <channel>
    <title>Example Show</title>
    <itunes:author>Itunes Author</itunes:author>
    <googleplay:author>Play Author</googleplay:author>
    <itunes:image href="https://example.com/art.jpg"/>
    <item>
      <title>First</title>
      <guid isPermaLink="false">ep-1</guid>
    </item>
    <item>
      <title>Second</title>
      <guid>ep-2</guid>
      <empty/>
    </item>
  </channel>
</rss>`

func TestConvertMergesPrefixedSiblingsWithoutNormalization(t *testing.T) {
	root, err := xmlvalue.Convert(sampleFeed)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	authors := xmlvalue.Items(mustLookup(t, root, "rss.channel.author", ""))
	if len(authors) != 2 {
		t.Fatalf("expected prefixed authors to merge into a list, got %#v", authors)
	}
}

func TestConvertAfterNormalizeKeepsPrefixedSiblingsDistinct(t *testing.T) {
	normalized, err := nsnorm.Normalize(sampleFeed, nsnorm.Placeholder)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	root, err := xmlvalue.Convert(normalized)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}

	if got := xmlvalue.String(root, "rss.channel.itunes:author", nsnorm.Placeholder); got != "Itunes Author" {
		t.Fatalf("itunes:author = %q", got)
	}
	if got := xmlvalue.String(root, "rss.channel.googleplay:author", nsnorm.Placeholder); got != "Play Author" {
		t.Fatalf("googleplay:author = %q", got)
	}
	if got := xmlvalue.String(root, "rss.channel.itunes:image.@href", nsnorm.Placeholder); got != "https://example.com/art.jpg" {
		t.Fatalf("itunes:image href = %q", got)
	}
}

func TestConvertShapes(t *testing.T) {
	root, err := xmlvalue.Convert(sampleFeed)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}

	rss, ok := root["rss"].(xmlvalue.Map)
	if !ok {
		t.Fatalf("expected rss map, got %#v", root["rss"])
	}
	if rss["@version"] != "2.0" {
		t.Fatalf("expected version attribute, got %#v", rss["@version"])
	}
	for key := range rss {
		if key == "@itunes" || key == "@xmlns" || key == "@googleplay" {
			t.Fatalf("namespace declaration leaked into value: %s", key)
		}
	}

	items := xmlvalue.Items(mustLookup(t, root, "rss.channel.item", ""))
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	guid, ok := mustLookup(t, root, "rss.channel.item.0.guid", "").(xmlvalue.Map)
	if !ok {
		t.Fatalf("expected guid with attributes to be a map")
	}
	if guid[xmlvalue.TextKey] != "ep-1" || guid["@isPermaLink"] != "false" {
		t.Fatalf("unexpected guid: %#v", guid)
	}
	if got := mustLookup(t, root, "rss.channel.item.1.guid", ""); got != "ep-2" {
		t.Fatalf("expected plain guid text, got %#v", got)
	}
	if got := mustLookup(t, root, "rss.channel.item.1.empty", ""); got != "" {
		t.Fatalf("expected empty element to be empty string, got %#v", got)
	}
	if got := mustLookup(t, root, "rss.channel.title.0", ""); got != "Example Show" {
		t.Fatalf("expected index 0 on single value, got %#v", got)
	}
}

func TestLookupMisses(t *testing.T) {
	root, err := xmlvalue.Convert(`<a><b>1</b><b>2</b></a>`)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	for _, path := range []string{"a.c", "a.b.2", "a.b.-1", "a..b", "", "a.b.0.x"} {
		if v, ok := xmlvalue.Lookup(root, path, nsnorm.Placeholder); ok {
			t.Errorf("Lookup(%q) = %#v, expected miss", path, v)
		}
	}
	if got := xmlvalue.String(root, "a.b", ""); got != "1" {
		t.Fatalf("String on list = %q, want first entry", got)
	}
}

func TestConvertRejectsMalformed(t *testing.T) {
	for _, doc := range []string{``, `<a>`, `<a></b>`} {
		if _, err := xmlvalue.Convert(doc); err == nil {
			t.Errorf("Convert(%q) expected error", doc)
		}
	}
}

func mustLookup(t *testing.T, v any, path, token string) any {
	t.Helper()
	value, ok := xmlvalue.Lookup(v, path, token)
	if !ok {
		t.Fatalf("Lookup(%q) missed", path)
	}
	return value
}
