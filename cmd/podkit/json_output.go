package main

import (
	"encoding/json"
	"io"
	"time"

	"podkit/internal/library"
	"podkit/internal/pattern"
)

// podcastView is one entry of `podkit podcasts --json`.
type podcastView struct {
	Name       string     `json:"name"`
	URL        string     `json:"url"`
	New        int        `json:"new"`
	Total      int        `json:"total"`
	LastSynced *time.Time `json:"last_synced,omitempty"`
}

// episodeView is one entry of `podkit list --json`. Rendered is the list
// pattern applied to Record.
type episodeView struct {
	Podcast   string         `json:"podcast"`
	GUID      string         `json:"guid"`
	Title     string         `json:"title"`
	Rendered  string         `json:"rendered"`
	Published string         `json:"published,omitempty"`
	State     library.State  `json:"state"`
	File      string         `json:"file,omitempty"`
	Record    pattern.Record `json:"record"`
}

func newEpisodeView(ep library.Episode, tmpl *pattern.Template) episodeView {
	return episodeView{
		Podcast:   ep.Podcast,
		GUID:      ep.GUID,
		Title:     ep.Title,
		Rendered:  tmpl.Render(ep.Record),
		Published: formatDate(ep.PublishedAt),
		State:     ep.State,
		File:      ep.FilePath,
		Record:    ep.Record,
	}
}

// printJSON writes views as an indented array. Titles keep "&" and "<"
// readable instead of HTML-escaped, and an empty result prints [].
func printJSON[T any](w io.Writer, views []T) error {
	if views == nil {
		views = []T{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(views)
}
