package syncer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"podkit/internal/library"
	"podkit/internal/logging"
	"podkit/internal/pattern"
	"podkit/internal/textutil"
)

// ErrNoEnclosure is returned when an episode has nothing to download.
var ErrNoEnclosure = errors.New("episode has no enclosure")

// fallbackExtension is used when neither the URL nor the media type names one.
const fallbackExtension = "mp3"

// audioExtensions covers enclosure types missing from the system MIME table.
var audioExtensions = map[string]string{
	"audio/mpeg":  "mp3",
	"audio/mp3":   "mp3",
	"audio/mp4":   "m4a",
	"audio/x-m4a": "m4a",
	"audio/aac":   "aac",
	"audio/ogg":   "ogg",
	"audio/opus":  "opus",
	"audio/wav":   "wav",
	"audio/x-wav": "wav",
	"audio/flac":  "flac",
	"video/mp4":   "mp4",
	"video/x-m4v": "m4v",
	"video/webm":  "webm",
}

// Extension picks a file extension for an enclosure. The URL path wins; its
// query string is ignored. Otherwise the media type decides, preferring mp3
// when the type maps to several extensions.
func Extension(rawURL string, mediaTypes ...string) (string, bool) {
	if u, err := url.Parse(rawURL); err == nil {
		if ext := strings.TrimPrefix(path.Ext(u.Path), "."); ext != "" {
			return ext, true
		}
	}
	for _, value := range mediaTypes {
		mediaType, _, err := mime.ParseMediaType(value)
		if err != nil {
			continue
		}
		if ext, ok := audioExtensions[mediaType]; ok {
			return ext, true
		}
		exts, err := mime.ExtensionsByType(mediaType)
		if err != nil || len(exts) == 0 {
			continue
		}
		if slices.Contains(exts, ".mp3") {
			return "mp3", true
		}
		return strings.TrimPrefix(exts[0], "."), true
	}
	return "", false
}

// FileName renders the episode file name (without extension) for podcast.
func (s *Syncer) FileName(ep library.Episode) string {
	rendered, err := pattern.Render(ep.Record, s.cfg.FilenamePattern(ep.Podcast))
	if err != nil {
		s.logger.Warn("filename pattern invalid; using guid",
			logging.Podcast(ep.Podcast),
			logging.Error(err),
		)
	}
	name := textutil.SanitizeFileName(rendered)
	if name == "" {
		name = textutil.SanitizeToken(ep.GUID)
	}
	return name
}

// Download fetches the enclosure of ep into the podcast's download directory
// and records the file in the library.
func (s *Syncer) Download(ctx context.Context, ep library.Episode) (string, error) {
	logger := logging.WithContext(logging.WithPodcast(ctx, ep.Podcast), s.logger).
		With(logging.Episode(ep.GUID))
	if strings.TrimSpace(ep.EnclosureURL) == "" {
		return "", fmt.Errorf("%w: %s", ErrNoEnclosure, ep.GUID)
	}

	resp, err := s.fetcher.Get(ctx, ep.EnclosureURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	ext, ok := Extension(ep.EnclosureURL, resp.Header.Get("Content-Type"), ep.EnclosureType)
	if !ok {
		logger.Warn("no extension for enclosure, assuming mp3",
			logging.String("content_type", resp.Header.Get("Content-Type")))
		ext = fallbackExtension
	}

	dir := filepath.Join(s.cfg.Paths.DownloadDir, textutil.SanitizeFileName(ep.Podcast))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create download directory: %w", err)
	}
	target := filepath.Join(dir, s.FileName(ep)+"."+ext)

	tmp, err := os.CreateTemp(dir, ".podkit-*.part")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	written, copyErr := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", target, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("move download into place: %w", err)
	}

	if err := s.store.MarkDownloaded(ctx, ep.Podcast, ep.GUID, target); err != nil {
		return target, err
	}
	logger.Info("episode downloaded", logging.String("file", target), logging.Int64("bytes", written))
	return target, nil
}

// DownloadNew downloads up to limit new episodes, optionally restricted to a
// single podcast. It stops at the first failure.
func (s *Syncer) DownloadNew(ctx context.Context, podcast string, limit int) ([]string, error) {
	episodes, err := s.store.Episodes(ctx, library.Filter{
		Podcast: podcast,
		States:  []library.State{library.StateNew},
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, ep := range episodes {
		file, err := s.Download(ctx, ep)
		if err != nil {
			return paths, fmt.Errorf("download %s (%s): %w", ep.Title, ep.Podcast, err)
		}
		paths = append(paths, file)
	}
	return paths, nil
}
