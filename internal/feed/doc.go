// Package feed downloads podcast RSS documents and turns them into episodes.
//
// Fetch transcodes the body to UTF-8 using the charset announced by the
// server or the XML declaration. Parse runs the namespace normalizer before
// the generic XML conversion so prefixed siblings such as itunes:author and
// googleplay:author stay distinct, then extracts the channel and its items.
package feed
