package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"

	"podkit/internal/config"
	"podkit/internal/feed"
	"podkit/internal/library"
	"podkit/internal/logging"
)

// maxParallelFeeds bounds concurrent feed fetches.
const maxParallelFeeds = 4

// Syncer ties configuration, a feed fetcher and the library together.
type Syncer struct {
	cfg     *config.Config
	store   *library.Store
	fetcher feed.Fetcher
	logger  *slog.Logger
}

// New creates a Syncer. A nil fetcher is replaced by a feed client built from the
// episodes configuration.
func New(cfg *config.Config, store *library.Store, fetcher feed.Fetcher, logger *slog.Logger) *Syncer {
	if fetcher == nil {
		fetcher = NewFeedClient(cfg)
	}
	return &Syncer{
		cfg:     cfg,
		store:   store,
		fetcher: fetcher,
		logger:  logging.NewComponentLogger(logger, "syncer"),
	}
}

// NewFeedClient builds a feed client honoring the configured user agent and timeout.
func NewFeedClient(cfg *config.Config) *feed.Client {
	return feed.New(
		feed.WithUserAgent(cfg.Episodes.UserAgent),
		feed.WithTimeout(time.Duration(cfg.Episodes.TimeoutSeconds)*time.Second),
	)
}

// PodcastResult is the outcome of syncing one podcast.
type PodcastResult struct {
	Name  string
	Title string
	Added int
	Err   error
}

// Summary reports a sync run.
type Summary struct {
	SyncID  string
	Results []PodcastResult
}

// Added returns the number of new episodes across all podcasts.
func (s Summary) Added() int {
	total := 0
	for _, r := range s.Results {
		total += r.Added
	}
	return total
}

// Failed returns the number of podcasts that could not be synced.
func (s Summary) Failed() int {
	failed := 0
	for _, r := range s.Results {
		if r.Err != nil {
			failed++
		}
	}
	return failed
}

// Select returns the configured podcasts whose name matches filter. A nil
// filter selects all of them.
func Select(cfg *config.Config, filter *regexp.Regexp) []config.Podcast {
	var selected []config.Podcast
	for _, p := range cfg.Podcasts {
		if filter == nil || filter.MatchString(p.Name) {
			selected = append(selected, p)
		}
	}
	return selected
}

// Run syncs the selected podcasts. Per-podcast failures are reported in the
// summary; the returned error is reserved for cancellation.
func (s *Syncer) Run(ctx context.Context, filter *regexp.Regexp) (Summary, error) {
	summary := Summary{SyncID: uuid.NewString()}
	ctx = logging.WithSyncID(ctx, summary.SyncID)
	logger := logging.WithContext(ctx, s.logger)

	podcasts := Select(s.cfg, filter)
	if len(podcasts) == 0 {
		logger.Info("no podcasts selected")
		return summary, nil
	}
	logger.Info("sync started", logging.Int("podcasts", len(podcasts)))

	results := make([]PodcastResult, len(podcasts))
	sem := make(chan struct{}, maxParallelFeeds)
	var wg sync.WaitGroup
	for i, p := range podcasts {
		wg.Go(func() {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[i] = PodcastResult{Name: p.Name, Err: ctx.Err()}
				return
			}
			defer func() { <-sem }()
			results[i] = s.syncPodcast(logging.WithPodcast(ctx, p.Name), p)
		})
	}
	wg.Wait()
	summary.Results = results

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	logger.Info("sync finished",
		logging.Int("new_episodes", summary.Added()),
		logging.Int("failed", summary.Failed()),
	)
	return summary, nil
}

func (s *Syncer) syncPodcast(ctx context.Context, p config.Podcast) PodcastResult {
	logger := logging.WithContext(ctx, s.logger)
	result := PodcastResult{Name: p.Name}
	start := time.Now()

	fail := func(stage string, err error) PodcastResult {
		result.Err = fmt.Errorf("%s: %w", stage, err)
		if !errors.Is(err, context.Canceled) {
			logger.Warn("podcast sync failed", logging.String("stage", stage), logging.Error(err))
		}
		return result
	}

	if _, err := s.store.UpsertPodcast(ctx, p.Name, p.URL); err != nil {
		return fail("store podcast", err)
	}
	doc, err := s.fetcher.Fetch(ctx, p.URL)
	if err != nil {
		return fail("fetch", err)
	}
	parsed, err := feed.Parse(doc.Body, s.cfg.Episodes.NamespaceToken)
	if err != nil {
		return fail("parse", err)
	}
	result.Title = parsed.Title

	added, err := s.store.RecordEpisodes(ctx, p.Name, parsed.Episodes)
	if err != nil {
		return fail("record episodes", err)
	}
	result.Added = added
	logger.Info("podcast synced",
		logging.Int("episodes", len(parsed.Episodes)),
		logging.Int("new", added),
		logging.Duration("took", time.Since(start)),
	)
	return result
}

// CatchUp marks all new episodes of the selected podcasts as skipped.
func (s *Syncer) CatchUp(ctx context.Context, filter *regexp.Regexp) (int, error) {
	total := 0
	for _, p := range Select(s.cfg, filter) {
		if _, err := s.store.UpsertPodcast(ctx, p.Name, p.URL); err != nil {
			return total, err
		}
		n, err := s.store.CatchUp(ctx, p.Name)
		if err != nil {
			return total, err
		}
		s.logger.Debug("caught up", logging.Podcast(p.Name), logging.Int("skipped", n))
		total += n
	}
	return total, nil
}
