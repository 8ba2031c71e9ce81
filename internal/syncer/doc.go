// Package syncer refreshes subscribed feeds into the library and downloads
// episode enclosures.
//
// Run fetches every configured podcast (optionally narrowed by a name
// pattern) with bounded concurrency. A failing feed is logged and reported in
// the summary without aborting the others. Each run carries a correlation ID
// that appears on every log record it emits.
package syncer
