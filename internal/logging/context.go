package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the structured logging key for component names.
	FieldComponent = "component"
	// FieldPodcast is the structured logging key for the podcast being processed.
	FieldPodcast = "podcast"
	// FieldEpisodeGUID is the structured logging key for episode identifiers.
	FieldEpisodeGUID = "episode_guid"
	// FieldSyncID is the structured logging key for the correlation ID of a sync run.
	FieldSyncID = "sync_id"
)

type contextKey int

const (
	syncIDKey contextKey = iota
	podcastKey
)

// WithSyncID returns a context carrying the correlation ID of a sync run.
func WithSyncID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, syncIDKey, id)
}

// SyncIDFromContext returns the sync correlation ID, if any.
func SyncIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(syncIDKey).(string)
	return id, ok && id != ""
}

// WithPodcast returns a context tagged with a podcast name.
func WithPodcast(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, podcastKey, name)
}

// PodcastFromContext returns the podcast name, if any.
func PodcastFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	name, ok := ctx.Value(podcastKey).(string)
	return name, ok && name != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	var fields []slog.Attr
	if id, ok := SyncIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldSyncID, id))
	}
	if name, ok := PodcastFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldPodcast, name))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
