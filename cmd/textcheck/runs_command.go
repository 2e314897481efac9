package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/textcheck/internal/report"
	"github.com/hyperifyio/textcheck/internal/store"
)

func newRunsCommand(root *rootOptions) *cobra.Command {
	var (
		dbPath string
		limit  int
		show   string
	)
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded runs, or the results of one run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("db") {
				cfg.DBPath = dbPath
			}
			if cfg.DBPath == "" {
				return errors.New("no history database: pass --db or set TEXTCHECK_DB")
			}
			db, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()
			report.DisableColorIfNotTTY()

			if show != "" {
				recs, err := db.Results(cmd.Context(), show)
				if err != nil {
					return err
				}
				if len(recs) == 0 {
					return fmt.Errorf("run %s has no results", show)
				}
				renderResults(cmd.OutOrStdout(), recs)
				return nil
			}
			runs, err := db.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
				return nil
			}
			renderRuns(cmd.OutOrStdout(), runs, time.Now())
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "History database")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to list")
	cmd.Flags().StringVar(&show, "show", "", "Print the results of this run id")
	return cmd
}

func renderRuns(w io.Writer, runs []store.Run, now time.Time) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Run", "Started", "Input", "Total", "Exact", "Fuzzy", "Not found", "Errors", "Took"})
	for _, r := range runs {
		took := "running"
		if !r.FinishedAt.IsZero() {
			took = r.FinishedAt.Sub(r.StartedAt).Round(time.Second).String()
		}
		s := r.Stats
		tw.AppendRow(table.Row{r.ID, humanize.RelTime(r.StartedAt, now, "ago", "from now"), r.Input, s.Total, s.Exact, s.Fuzzy, s.NotFound, s.Errors, took})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
	})
	tw.Render()
}

func renderResults(w io.Writer, recs []report.Record) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Sheet", "Row", "Outcome", "Ratio", "URL", "Detail"})
	for _, r := range recs {
		detail := r.Error
		if detail == "" {
			detail = r.Found
		}
		ratio := ""
		if r.Method != "" {
			ratio = fmt.Sprintf("%.2f", r.Ratio)
		}
		tw.AppendRow(table.Row{r.Sheet, r.Row, report.StatusLabel(r.Outcome), ratio, r.URL, detail})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, WidthMax: 48},
		{Number: 6, WidthMax: 60},
	})
	tw.Render()
}
