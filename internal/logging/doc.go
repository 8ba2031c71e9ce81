// Package logging assembles the slog loggers used by the podkit commands.
//
// Console output goes to stderr so rendered episode listings on stdout stay
// pipeable. When a log directory is configured every record is also appended
// to a JSON log file. Context helpers tag records with the sync run ID and the
// podcast being processed.
package logging
