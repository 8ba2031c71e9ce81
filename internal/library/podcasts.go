package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// UpsertPodcast stores a podcast, updating the URL of an existing entry with
// the same (case-insensitive) name.
func (s *Store) UpsertPodcast(ctx context.Context, name, url string) (int64, error) {
	name = strings.TrimSpace(name)
	url = strings.TrimSpace(url)
	if name == "" || url == "" {
		return 0, errors.New("podcast name and url are required")
	}
	if _, err := s.execWithRetry(ctx,
		`INSERT INTO podcasts (name, url, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET url = excluded.url`,
		name, url, s.now().Unix(),
	); err != nil {
		return 0, fmt.Errorf("upsert podcast: %w", err)
	}
	return s.podcastID(ctx, name)
}

func (s *Store) podcastID(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ensureContext(ctx),
		"SELECT id FROM podcasts WHERE name = ? COLLATE NOCASE", strings.TrimSpace(name),
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", ErrUnknownPodcast, name)
	}
	if err != nil {
		return 0, fmt.Errorf("lookup podcast: %w", err)
	}
	return id, nil
}

// Podcasts lists stored podcasts with their episode counts, ordered by name.
func (s *Store) Podcasts(ctx context.Context) ([]Podcast, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `
		SELECT p.id, p.name, p.url, p.last_synced_at,
		       COALESCE(SUM(CASE WHEN e.state = 'new' THEN 1 ELSE 0 END), 0),
		       COUNT(e.id)
		FROM podcasts p
		LEFT JOIN episodes e ON e.podcast_id = p.id
		GROUP BY p.id
		ORDER BY p.name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("query podcasts: %w", err)
	}
	defer rows.Close()

	var podcasts []Podcast
	for rows.Next() {
		var (
			p      Podcast
			synced sql.NullInt64
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.URL, &synced, &p.New, &p.Total); err != nil {
			return nil, fmt.Errorf("scan podcast: %w", err)
		}
		p.LastSyncedAt = fromUnix(synced)
		podcasts = append(podcasts, p)
	}
	return podcasts, rows.Err()
}
