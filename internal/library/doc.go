// Package library persists subscribed podcasts and the episodes seen in their
// feeds.
//
// The store is a SQLite database under the data directory. Episodes are keyed
// by podcast and GUID so repeated syncs only add unseen items. Each episode
// keeps the rendered-field record captured at discovery time, which lets the
// list and download commands render patterns without refetching the feed.
// Syncs serialize on an advisory file lock obtained with Lock.
package library
