package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hyperifyio/textcheck/internal/app"
	"github.com/hyperifyio/textcheck/internal/match"
	"github.com/hyperifyio/textcheck/internal/report"
)

func newMatchCommand(root *rootOptions) *cobra.Command {
	var (
		link     string
		pagePath string
		text     string
		timeout  float64
		encoding string
		extract  string
	)
	cmd := &cobra.Command{
		Use:   "match --text <snippet> (--url <url> | --page <file>)",
		Short: "Check one snippet against one page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (link == "") == (pagePath == "") {
				return errors.New("exactly one of --url or --page is required")
			}
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("timeout") {
				cfg.Timeout = seconds(timeout)
			}
			if cmd.Flags().Changed("encoding") {
				cfg.Encoding = encoding
			}
			if cmd.Flags().Changed("extract") {
				cfg.ExtractMode = extract
			}
			cfg.Delay = 0
			if _, err := setupLogging(cmd.ErrOrStderr(), cfg.Verbose, false, ""); err != nil {
				return err
			}
			report.DisableColorIfNotTTY()

			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			var rec report.Record
			if pagePath != "" {
				b, err := os.ReadFile(pagePath)
				if err != nil {
					return err
				}
				rec = a.CheckText(string(b), text)
			} else {
				rec = a.CheckOne(cmd.Context(), link, text)
			}
			printRecord(cmd.OutOrStdout(), rec)
			if rec.Outcome == report.OutcomeError {
				return errors.New(rec.Error)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&link, "url", "", "Page to fetch (http, https or file URL)")
	cmd.Flags().StringVar(&pagePath, "page", "", "Read the page text from a local file as is")
	cmd.Flags().StringVar(&text, "text", "", "Snippet to look for")
	cmd.Flags().Float64VarP(&timeout, "timeout", "t", app.DefaultTimeout.Seconds(), "Request timeout in seconds")
	cmd.Flags().StringVar(&encoding, "encoding", "", "Force a page encoding")
	cmd.Flags().StringVar(&extract, "extract", "full", "Page text extraction: full or readable")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func printRecord(w io.Writer, r report.Record) {
	fmt.Fprint(w, report.StatusLabel(r.Outcome))
	if r.Method != "" {
		fmt.Fprintf(w, "  ratio=%.3f level=%s method=%s", r.Ratio, r.Level, r.Method)
	}
	fmt.Fprintln(w)
	if r.Error != "" {
		fmt.Fprintln(w, r.Error)
	}
	if r.Found != "" {
		fmt.Fprintln(w, report.Excerpt(r))
	}
	if len(r.Missing) > 0 {
		fmt.Fprintln(w, "missing:", strings.Join(r.Missing, " "))
	}
}

func newNormalizeCommand() *cobra.Command {
	var stripDigits, tokens bool
	cmd := &cobra.Command{
		Use:   "normalize [--strip-digits] <text>...",
		Short: "Print text the way the fuzzy matcher sees it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level := match.CleanedWithDigits
			if stripDigits {
				level = match.CleanedNoDigits
			}
			out := match.NormalizeLevel(strings.Join(args, " "), level)
			if tokens {
				for _, t := range match.Tokens(out) {
					fmt.Fprintln(cmd.OutOrStdout(), t)
				}
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&stripDigits, "strip-digits", false, "Also drop digits and digit-bearing tokens")
	cmd.Flags().BoolVar(&tokens, "tokens", false, "Print one token per line")
	return cmd
}
