package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"podkit/internal/library"
	"podkit/internal/pattern"
	"podkit/internal/syncer"
	"podkit/internal/textutil"
)

const dateLayout = "2006-01-02"

func newPodcastsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "podcasts",
		Short: "List subscribed podcasts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			stored := make(map[string]library.Podcast)
			err = ctx.withStore(func(store *library.Store) error {
				podcasts, err := store.Podcasts(cmd.Context())
				if err != nil {
					return err
				}
				for _, p := range podcasts {
					stored[strings.ToLower(p.Name)] = p
				}
				return nil
			})
			if err != nil {
				return err
			}

			views := make([]podcastView, 0, len(cfg.Podcasts))
			for _, p := range cfg.Podcasts {
				view := podcastView{Name: p.Name, URL: p.URL}
				if s, ok := stored[strings.ToLower(p.Name)]; ok {
					view.New = s.New
					view.Total = s.Total
					if !s.LastSyncedAt.IsZero() {
						synced := s.LastSyncedAt
						view.LastSynced = &synced
					}
				}
				views = append(views, view)
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), views)
			}
			out := cmd.OutOrStdout()
			if len(views) == 0 {
				fmt.Fprintln(out, "No podcasts configured; use `podkit search` or `podkit add`")
				return nil
			}
			rows := make([][]string, 0, len(views))
			for _, v := range views {
				synced := "never"
				if v.LastSynced != nil {
					synced = v.LastSynced.Local().Format("2006-01-02 15:04")
				}
				rows = append(rows, []string{
					textutil.TitleCase(v.Name),
					strconv.Itoa(v.New),
					strconv.Itoa(v.Total),
					synced,
					v.URL,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Podcast", "New", "Total", "Last Sync", "Feed"},
				rows, 2, 3,
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var filterExpr string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch feeds and record new episodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := compileFilter(filterExpr)
			if err != nil {
				return err
			}
			return ctx.withSyncer(cmd, true, func(s *syncer.Syncer) error {
				summary, err := s.Run(cmd.Context(), filter)
				if err != nil {
					return err
				}
				return printSummary(cmd, summary)
			})
		},
	}

	cmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "Only sync podcasts whose name matches this regular expression")
	return cmd
}

func printSummary(cmd *cobra.Command, summary syncer.Summary) error {
	out := cmd.OutOrStdout()
	if len(summary.Results) == 0 {
		fmt.Fprintln(out, "No podcasts matched")
		return nil
	}
	rows := make([][]string, 0, len(summary.Results))
	for _, r := range summary.Results {
		status := colorize(out, "ok", text.FgGreen)
		if r.Err != nil {
			status = colorize(out, "failed: "+r.Err.Error(), text.FgRed)
		}
		rows = append(rows, []string{r.Name, strconv.Itoa(r.Added), status})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Podcast", "New", "Status"},
		rows, 2,
	))
	fmt.Fprintf(out, "%d new episodes\n", summary.Added())
	if failed := summary.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d podcasts failed to sync", failed, len(summary.Results))
	}
	return nil
}

func newCatchUpCommand(ctx *commandContext) *cobra.Command {
	var filterExpr string

	cmd := &cobra.Command{
		Use:   "catch-up",
		Short: "Mark all current episodes as skipped",
		Long: "Sync the selected podcasts and mark every episode that has not been\n" +
			"downloaded as skipped, so only episodes published later are downloaded.",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := compileFilter(filterExpr)
			if err != nil {
				return err
			}
			return catchUpPodcasts(cmd, ctx, filter)
		},
	}

	cmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "Only catch up podcasts whose name matches this regular expression")
	return cmd
}

// catchUpPodcasts syncs the selected podcasts so their current episodes are
// known, then marks those episodes as skipped.
func catchUpPodcasts(cmd *cobra.Command, ctx *commandContext, filter *regexp.Regexp) error {
	return ctx.withSyncer(cmd, true, func(s *syncer.Syncer) error {
		summary, err := s.Run(cmd.Context(), filter)
		if err != nil {
			return err
		}
		skipped, err := s.CatchUp(cmd.Context(), filter)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Skipped %d episodes\n", skipped)
		if failed := summary.Failed(); failed > 0 {
			return fmt.Errorf("%d of %d podcasts failed to sync", failed, len(summary.Results))
		}
		return nil
	})
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var podcast string
	var states []string
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored episodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			filter := library.Filter{Podcast: strings.TrimSpace(podcast), Limit: limit}
			for _, value := range states {
				state, ok := library.ParseState(strings.ToLower(strings.TrimSpace(value)))
				if !ok {
					return fmt.Errorf("unknown state %q (want new, downloaded or skipped)", value)
				}
				filter.States = append(filter.States, state)
			}
			tmpl, err := pattern.Compile(cfg.Episodes.ListPattern)
			if err != nil {
				return fmt.Errorf("episodes.list_pattern: %w", err)
			}

			var episodes []library.Episode
			err = ctx.withStore(func(store *library.Store) error {
				episodes, err = store.Episodes(cmd.Context(), filter)
				return err
			})
			if err != nil {
				return err
			}

			if asJSON {
				views := make([]episodeView, 0, len(episodes))
				for _, ep := range episodes {
					views = append(views, newEpisodeView(ep, tmpl))
				}
				return printJSON(cmd.OutOrStdout(), views)
			}

			out := cmd.OutOrStdout()
			if len(episodes) == 0 {
				fmt.Fprintln(out, "No episodes")
				return nil
			}
			rows := make([][]string, 0, len(episodes))
			for _, ep := range episodes {
				rows = append(rows, []string{
					ep.Podcast,
					formatDate(ep.PublishedAt),
					textutil.Truncate(tmpl.Render(ep.Record), cfg.Display.MaxLineWidth, true),
					string(ep.State),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Podcast", "Date", "Episode", "State"},
				rows,
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&podcast, "podcast", "p", "", "Only list episodes of this podcast")
	cmd.Flags().StringSliceVarP(&states, "state", "s", nil, "Only list episodes in these states (new, downloaded, skipped)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of episodes to list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var podcast string
	var limit int

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download new episodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("limit must not be negative")
			}
			return ctx.withSyncer(cmd, true, func(s *syncer.Syncer) error {
				files, err := s.DownloadNew(cmd.Context(), strings.TrimSpace(podcast), limit)
				out := cmd.OutOrStdout()
				for _, file := range files {
					fmt.Fprintln(out, file)
				}
				if err != nil {
					return err
				}
				if len(files) == 0 {
					fmt.Fprintln(out, "No new episodes to download")
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&podcast, "podcast", "p", "", "Only download episodes of this podcast")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of episodes to download (0 for all)")
	return cmd
}
