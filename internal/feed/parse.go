package feed

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"podkit/internal/nsnorm"
	"podkit/internal/xmlvalue"
)

// ErrNoChannel is returned when a document has no rss/channel element.
var ErrNoChannel = errors.New("document has no rss channel")

// Feed is a parsed RSS channel.
type Feed struct {
	Title    string
	Author   string
	Link     string
	Channel  xmlvalue.Map
	Episodes []Episode
}

// Episode is a single channel item.
type Episode struct {
	GUID          string
	Title         string
	PubDate       time.Time
	EnclosureURL  string
	EnclosureType string
	// Fields holds the converted item with namespace-normalized keys.
	Fields xmlvalue.Map

	token string
}

// Parse normalizes namespace prefixes in body with token, converts the
// document and extracts the channel. Items are returned in document order.
func Parse(body, token string) (*Feed, error) {
	normalized, err := nsnorm.Normalize(body, token)
	if err != nil {
		return nil, fmt.Errorf("normalize feed: %w", err)
	}
	root, err := xmlvalue.Convert(normalized)
	if err != nil {
		return nil, fmt.Errorf("convert feed: %w", err)
	}

	value, ok := xmlvalue.Lookup(root, "rss.channel", token)
	if !ok {
		return nil, ErrNoChannel
	}
	channel, ok := xmlvalue.Items(value)[0].(xmlvalue.Map)
	if !ok {
		return nil, ErrNoChannel
	}

	feed := &Feed{
		Title:   strings.TrimSpace(xmlvalue.String(channel, "title", token)),
		Author:  channelAuthor(channel, token),
		Link:    strings.TrimSpace(xmlvalue.String(channel, "link", token)),
		Channel: channel,
	}

	items, _ := xmlvalue.Lookup(channel, "item", token)
	for _, raw := range xmlvalue.Items(items) {
		item, ok := raw.(xmlvalue.Map)
		if !ok {
			// <item/> converts to an empty string
			continue
		}
		feed.Episodes = append(feed.Episodes, newEpisode(item, token))
	}
	return feed, nil
}

func channelAuthor(channel xmlvalue.Map, token string) string {
	for _, path := range []string{"itunes:author", "author", "managingEditor"} {
		if author := strings.TrimSpace(xmlvalue.String(channel, path, token)); author != "" {
			return author
		}
	}
	return ""
}

func newEpisode(item xmlvalue.Map, token string) Episode {
	ep := Episode{
		Title:         strings.TrimSpace(xmlvalue.String(item, "title", token)),
		PubDate:       ParseDate(xmlvalue.String(item, "pubDate", token)),
		EnclosureURL:  strings.TrimSpace(xmlvalue.String(item, "enclosure.@url", token)),
		EnclosureType: strings.TrimSpace(xmlvalue.String(item, "enclosure.@type", token)),
		Fields:        item,
		token:         token,
	}
	ep.GUID = episodeGUID(item, ep, token)
	return ep
}

// episodeGUID takes the guid text, then the enclosure URL, then derives a
// stable name-based UUID from the title and publication date.
func episodeGUID(item xmlvalue.Map, ep Episode, token string) string {
	if guid := strings.TrimSpace(xmlvalue.String(item, "guid", token)); guid != "" {
		return guid
	}
	if ep.EnclosureURL != "" {
		return ep.EnclosureURL
	}
	seed := ep.Title + "\x00" + xmlvalue.String(item, "pubDate", token)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(seed)).String()
}

var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"Mon, 02 Jan 2006 15:04 -0700",
	"2 Jan 2006 15:04:05 -0700",
	"02 Jan 2006 15:04:05 -0700",
	time.RFC822Z,
	time.RFC822,
	time.RFC3339,
	"2006-01-02",
}

// ParseDate parses the date formats found in podcast feeds. It returns the
// zero time when no layout matches.
func ParseDate(value string) time.Time {
	value = strings.Join(strings.Fields(value), " ")
	if value == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
