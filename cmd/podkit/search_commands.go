package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"podkit/internal/config"
	"podkit/internal/pattern"
	"podkit/internal/search"
	"podkit/internal/textutil"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var addIndices []int
	var catchUp bool

	cmd := &cobra.Command{
		Use:   "search <terms...>",
		Short: "Search the podcast directory and subscribe to results",
		Long: "Search the podcast directory. Results are numbered from 1; pass --add with\n" +
			"one or more numbers to subscribe, or enter them when prompted.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			tmpl, err := pattern.Compile(cfg.Search.Pattern)
			if err != nil {
				return fmt.Errorf("search.pattern: %w", err)
			}

			client := search.New(cfg.Search.BaseURL,
				search.WithUserAgent(cfg.Episodes.UserAgent),
				search.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Search.TimeoutSeconds) * time.Second}),
			)
			results, err := client.Search(cmd.Context(), strings.Join(args, " "), cfg.Search.MaxResults)
			if err != nil {
				return err
			}
			if len(results) > cfg.Search.MaxResults {
				results = results[:cfg.Search.MaxResults]
			}

			out := cmd.OutOrStdout()
			stderr := cmd.ErrOrStderr()
			if len(results) == 0 {
				fmt.Fprintln(stderr, "no podcasts matched your query.")
				return nil
			}
			for i, rec := range results {
				line := fmt.Sprintf("%d: %s", i+1, tmpl.Render(rec))
				fmt.Fprintln(out, textutil.Truncate(line, cfg.Display.MaxLineWidth, true))
			}

			selection := addIndices
			if !cmd.Flags().Changed("add") {
				fmt.Fprintln(stderr, "Enter index of podcast to add")
				selection, err = readIndices(cmd.InOrStdin())
				if err != nil {
					return err
				}
			}
			indices, err := selectResults(selection, len(results))
			if err != nil {
				return err
			}
			if len(indices) == 0 {
				return nil
			}

			added, err := subscribe(cfg, results, indices, stderr)
			if err != nil {
				return err
			}
			if len(added) == 0 {
				return nil
			}
			if err := ctx.saveConfig(); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			if !catchUp {
				return nil
			}
			return catchUpPodcasts(cmd, ctx, exactNames(added))
		},
	}

	cmd.Flags().IntSliceVarP(&addIndices, "add", "a", nil, "Result numbers to subscribe to (1-based)")
	cmd.Flags().BoolVar(&catchUp, "catch-up", false, "Mark existing episodes of added podcasts as skipped")
	return cmd
}

// readIndices reads one line of whitespace separated result numbers.
func readIndices(r io.Reader) ([]int, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read selection: %w", err)
	}
	var indices []int
	for _, field := range strings.Fields(line) {
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid input: %s. You must enter the index of a podcast", field)
		}
		indices = append(indices, n)
	}
	return indices, nil
}

// selectResults converts 1-based result numbers to slice positions. Nothing
// is selected if any number is out of range.
func selectResults(numbers []int, count int) ([]int, error) {
	positions := make([]int, 0, len(numbers))
	for _, n := range numbers {
		if n <= 0 || n > count {
			return nil, fmt.Errorf("index %d is out of bounds", n)
		}
		positions = append(positions, n-1)
	}
	return positions, nil
}

func subscribe(cfg *config.Config, results []pattern.Record, positions []int, out io.Writer) ([]string, error) {
	var added []string
	for _, pos := range positions {
		rec := results[pos]
		name := search.Name(rec)
		feedURL := search.FeedURL(rec)
		if name == "" || feedURL == "" {
			fmt.Fprintf(out, "result %d has no feed; skipped\n", pos+1)
			continue
		}
		err := cfg.AddPodcast(name, feedURL)
		switch {
		case errors.Is(err, config.ErrPodcastExists):
			fmt.Fprintf(out, "'%s' already exists!\n", name)
		case err != nil:
			return added, err
		default:
			fmt.Fprintf(out, "'%s' %s\n", name, colorize(out, "added!", text.FgGreen))
			added = append(added, name)
		}
	}
	return added, nil
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <url>",
		Short: "Subscribe to a podcast feed by URL",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.AddPodcast(args[0], args[1]); err != nil {
				return err
			}
			if err := ctx.saveConfig(); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "'%s' added!\n", strings.TrimSpace(args[0]))
			return nil
		},
	}
}
