package library

import (
	"errors"
	"time"

	"podkit/internal/pattern"
)

// State is the download state of an episode.
type State string

const (
	// StateNew marks an episode discovered but not yet downloaded.
	StateNew State = "new"
	// StateDownloaded marks an episode whose enclosure is on disk.
	StateDownloaded State = "downloaded"
	// StateSkipped marks an episode the user caught up past.
	StateSkipped State = "skipped"
)

// ParseState converts a user-supplied state name.
func ParseState(value string) (State, bool) {
	switch State(value) {
	case StateNew, StateDownloaded, StateSkipped:
		return State(value), true
	}
	return "", false
}

// ErrUnknownPodcast is returned when an operation names a podcast that has
// never been stored.
var ErrUnknownPodcast = errors.New("unknown podcast")

// ErrEpisodeNotFound is returned when no episode matches.
var ErrEpisodeNotFound = errors.New("episode not found")

// Podcast is a stored subscription.
type Podcast struct {
	ID           int64
	Name         string
	URL          string
	LastSyncedAt time.Time
	New          int
	Total        int
}

// Episode is a stored feed item.
type Episode struct {
	ID            int64
	Podcast       string
	GUID          string
	Title         string
	PublishedAt   time.Time
	EnclosureURL  string
	EnclosureType string
	State         State
	FilePath      string
	DiscoveredAt  time.Time
	DownloadedAt  time.Time
	// Record holds the fields captured from the feed for pattern rendering.
	Record pattern.Record
}

// Filter narrows Episodes results. Zero values match everything.
type Filter struct {
	Podcast string
	States  []State
	Limit   int
}
