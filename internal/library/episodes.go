package library

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"podkit/internal/feed"
	"podkit/internal/pattern"
)

// RecordEpisodes stores feed episodes not seen before as new and returns how
// many were added. Known GUIDs are left untouched so their state survives
// resyncs.
func (s *Store) RecordEpisodes(ctx context.Context, podcast string, episodes []feed.Episode) (int, error) {
	ctx = ensureContext(ctx)
	podcastID, err := s.podcastID(ctx, podcast)
	if err != nil {
		return 0, err
	}

	var added int
	err = retryOnBusy(ctx, func() error {
		added = 0
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO episodes (podcast_id, guid, title, published_at, enclosure_url,
			                      enclosure_type, record, state, discovered_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(podcast_id, guid) DO NOTHING`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		now := s.now().Unix()
		for _, ep := range episodes {
			if strings.TrimSpace(ep.GUID) == "" {
				continue
			}
			record, err := json.Marshal(ep.Record(podcast))
			if err != nil {
				return fmt.Errorf("encode record for %s: %w", ep.GUID, err)
			}
			res, err := stmt.ExecContext(ctx, podcastID, ep.GUID, ep.Title, unixOrNull(ep.PubDate),
				ep.EnclosureURL, ep.EnclosureType, string(record), string(StateNew), now)
			if err != nil {
				return fmt.Errorf("insert episode %s: %w", ep.GUID, err)
			}
			if n, err := res.RowsAffected(); err == nil {
				added += int(n)
			}
		}

		if _, err := tx.ExecContext(ctx, "UPDATE podcasts SET last_synced_at = ? WHERE id = ?", now, podcastID); err != nil {
			return fmt.Errorf("update sync time: %w", err)
		}
		return tx.Commit()
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

const episodeColumns = `e.id, p.name, e.guid, e.title, e.published_at, e.enclosure_url,
	e.enclosure_type, e.state, e.file_path, e.discovered_at, e.downloaded_at, e.record`

// Episodes returns episodes matching filter, newest first.
func (s *Store) Episodes(ctx context.Context, filter Filter) ([]Episode, error) {
	var (
		where []string
		args  []any
	)
	if name := strings.TrimSpace(filter.Podcast); name != "" {
		where = append(where, "p.name = ? COLLATE NOCASE")
		args = append(args, name)
	}
	if len(filter.States) > 0 {
		placeholders := make([]string, len(filter.States))
		for i, state := range filter.States {
			placeholders[i] = "?"
			args = append(args, string(state))
		}
		where = append(where, "e.state IN ("+strings.Join(placeholders, ", ")+")")
	}

	query := "SELECT " + episodeColumns + " FROM episodes e JOIN podcasts p ON p.id = e.podcast_id"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY COALESCE(e.published_at, e.discovered_at) DESC, e.id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query episodes: %w", err)
	}
	defer rows.Close()

	var episodes []Episode
	for rows.Next() {
		ep, err := scanEpisode(rows)
		if err != nil {
			return nil, err
		}
		episodes = append(episodes, *ep)
	}
	return episodes, rows.Err()
}

// Episode returns a single episode by podcast and GUID.
func (s *Store) Episode(ctx context.Context, podcast, guid string) (*Episode, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		"SELECT "+episodeColumns+` FROM episodes e JOIN podcasts p ON p.id = e.podcast_id
		 WHERE p.name = ? COLLATE NOCASE AND e.guid = ?`,
		strings.TrimSpace(podcast), guid,
	)
	ep, err := scanEpisode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s", ErrEpisodeNotFound, podcast, guid)
	}
	return ep, err
}

// MarkDownloaded records the local file of an episode.
func (s *Store) MarkDownloaded(ctx context.Context, podcast, guid, path string) error {
	res, err := s.execWithRetry(ctx, `
		UPDATE episodes SET state = ?, file_path = ?, downloaded_at = ?
		WHERE guid = ? AND podcast_id = (SELECT id FROM podcasts WHERE name = ? COLLATE NOCASE)`,
		string(StateDownloaded), path, s.now().Unix(), guid, strings.TrimSpace(podcast),
	)
	if err != nil {
		return fmt.Errorf("mark downloaded: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s/%s", ErrEpisodeNotFound, podcast, guid)
	}
	return nil
}

// CatchUp marks every new episode of podcast as skipped and returns how many
// changed. An empty podcast name catches up all podcasts.
func (s *Store) CatchUp(ctx context.Context, podcast string) (int, error) {
	query := "UPDATE episodes SET state = ? WHERE state = ?"
	args := []any{string(StateSkipped), string(StateNew)}
	if name := strings.TrimSpace(podcast); name != "" {
		if _, err := s.podcastID(ctx, name); err != nil {
			return 0, err
		}
		query += " AND podcast_id = (SELECT id FROM podcasts WHERE name = ? COLLATE NOCASE)"
		args = append(args, name)
	}
	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("catch up: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("catch up: %w", err)
	}
	return int(n), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEpisode(row rowScanner) (*Episode, error) {
	var (
		ep                    Episode
		state, record         string
		published, downloaded sql.NullInt64
		discovered            int64
	)
	if err := row.Scan(&ep.ID, &ep.Podcast, &ep.GUID, &ep.Title, &published, &ep.EnclosureURL,
		&ep.EnclosureType, &state, &ep.FilePath, &discovered, &downloaded, &record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan episode: %w", err)
	}
	ep.State = State(state)
	ep.PublishedAt = fromUnix(published)
	ep.DownloadedAt = fromUnix(downloaded)
	ep.DiscoveredAt = fromUnix(sql.NullInt64{Int64: discovered, Valid: true})

	decoder := json.NewDecoder(bytes.NewReader([]byte(record)))
	decoder.UseNumber()
	if err := decoder.Decode(&ep.Record); err != nil {
		return nil, fmt.Errorf("decode record for %s: %w", ep.GUID, err)
	}
	if ep.Record == nil {
		ep.Record = pattern.Record{}
	}
	return &ep, nil
}
