package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"podkit/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var network bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check directories, the episode library and the editor",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			results := preflight.RunAll(cmd.Context(), cfg, preflight.Options{Network: network})
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{r.Name, checkStatus(out, r.Passed, r.Optional), yesNo(r.Optional), r.Detail})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Check", "Status", "Optional", "Detail"},
				rows,
			))

			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d required checks failed", len(failed))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&network, "network", false, "Also check that the podcast directory is reachable")
	return cmd
}

func checkStatus(out io.Writer, passed, optional bool) string {
	switch {
	case passed:
		return colorize(out, "ok", text.FgGreen)
	case optional:
		return colorize(out, "missing", text.FgYellow)
	default:
		return colorize(out, "failed", text.FgRed)
	}
}
