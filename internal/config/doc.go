// Package config loads, normalizes, and validates podkit configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts and XDG base directories), reads TOML files, and honours
// environment fallbacks such as PODKIT_DOWNLOAD_DIR and EDITOR. Subscribed
// podcasts live in the same file as [[podcasts]] tables and are written back
// with Save when the CLI adds new feeds.
//
// Display patterns are compiled during validation so a malformed pattern is
// reported when the config loads instead of when the first result renders.
package config
