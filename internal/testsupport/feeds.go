package testsupport

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// FeedServer serves RSS documents and enclosure bodies over HTTP for tests.
type FeedServer struct {
	*httptest.Server

	mu     sync.Mutex
	routes map[string]route
	hits   map[string]int
}

type route struct {
	contentType string
	status      int
	body        []byte
}

// NewFeedServer starts a server and registers cleanup.
func NewFeedServer(t testing.TB) *FeedServer {
	t.Helper()

	fs := &FeedServer{routes: make(map[string]route), hits: make(map[string]int)}
	fs.Server = httptest.NewServer(http.HandlerFunc(fs.serve))
	t.Cleanup(fs.Close)
	return fs
}

// Handle registers a response for path and returns its absolute URL.
func (fs *FeedServer) Handle(path, contentType string, body []byte) string {
	return fs.HandleStatus(path, contentType, http.StatusOK, body)
}

// HandleStatus registers a response with an explicit status code.
func (fs *FeedServer) HandleStatus(path, contentType string, status int, body []byte) string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.routes[path] = route{contentType: contentType, status: status, body: body}
	return fs.URL + path
}

// Hits returns how many times path was requested.
func (fs *FeedServer) Hits(path string) int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.hits[path]
}

func (fs *FeedServer) serve(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	fs.hits[r.URL.Path]++
	rt, ok := fs.routes[r.URL.Path]
	fs.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	if rt.contentType != "" {
		w.Header().Set("Content-Type", rt.contentType)
	}
	w.WriteHeader(rt.status)
	_, _ = w.Write(rt.body)
}

// Item describes one RSS item for RSS.
type Item struct {
	Title        string
	GUID         string
	PubDate      string
	EnclosureURL string
	Extra        string
}

// RSS builds a minimal feed document with the itunes namespace declared.
func RSS(title string, items ...Item) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<rss version="2.0" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd"><channel>`)
	fmt.Fprintf(&b, "<title>%s</title>", title)
	for _, item := range items {
		b.WriteString("<item>")
		fmt.Fprintf(&b, "<title>%s</title>", item.Title)
		if item.GUID != "" {
			fmt.Fprintf(&b, "<guid>%s</guid>", item.GUID)
		}
		if item.PubDate != "" {
			fmt.Fprintf(&b, "<pubDate>%s</pubDate>", item.PubDate)
		}
		if item.EnclosureURL != "" {
			fmt.Fprintf(&b, `<enclosure url="%s" type="audio/mpeg"/>`, item.EnclosureURL)
		}
		b.WriteString(item.Extra)
		b.WriteString("</item>")
	}
	b.WriteString("</channel></rss>")
	return []byte(b.String())
}
