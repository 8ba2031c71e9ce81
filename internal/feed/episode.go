package feed

import (
	"strings"

	"podkit/internal/pattern"
)

// DateLayout is the format of the derived "date" field.
const DateLayout = "2006-01-02"

// Record returns the pattern record used to render file names and listings.
// Item fields appear under their original prefixed names (itunes:episode) as
// well as their normalized keys, alongside the derived fields podcast, date
// and guid.
func (e Episode) Record(podcast string) pattern.Record {
	rec := make(pattern.Record, len(e.Fields)+6)
	for key, value := range e.Fields {
		rec[key] = value
		if e.token != "" {
			if prefix, local, ok := strings.Cut(key, e.token); ok && prefix != "" {
				rec[prefix+":"+local] = value
			}
		}
	}
	rec["podcast"] = podcast
	rec["guid"] = e.GUID
	rec["title"] = e.Title
	if !e.PubDate.IsZero() {
		rec["date"] = e.PubDate.Format(DateLayout)
	}
	return rec
}
