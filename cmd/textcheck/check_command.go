package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/textcheck/internal/app"
	"github.com/hyperifyio/textcheck/internal/report"
)

type checkFlags struct {
	allSheets bool
	sheets    []string
	delay     float64
	timeout   float64
	workers   int
	textCol   string
	linkCol   string
	encoding  string
	extract   string
	cacheDir  string
	logDir    string
	csvPath   string
	pdfPath   string
	pdfFont   string
	dbPath    string
	insecure  bool
	progress  bool
}

func newCheckCommand(root *rootOptions) *cobra.Command {
	f := &checkFlags{}
	cmd := &cobra.Command{
		Use:   "check <workbook>",
		Short: "Check every row of a workbook",
		Long: "Reads the text (column G) and link (column I) of every data row, fetches\n" +
			"the link and reports whether the text appears on the page exactly, with\n" +
			"differences, or not at all.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			cfg.InputPath = args[0]
			applyCheckFlags(cmd, f, &cfg)
			if err := app.ValidateConfig(cfg, true); err != nil {
				return err
			}
			return runCheck(cmd, cfg, f.progress)
		},
	}
	bindCheckFlags(cmd, f)
	return cmd
}

func bindCheckFlags(cmd *cobra.Command, f *checkFlags) {
	fl := cmd.Flags()
	fl.BoolVar(&f.allSheets, "all-sheets", false, "Process every sheet of the workbook")
	fl.StringSliceVar(&f.sheets, "sheets", nil, "Sheets to process, by name or zero-based index (comma separated)")
	fl.Float64VarP(&f.delay, "delay", "d", app.DefaultDelay.Seconds(), "Delay between requests in seconds")
	fl.Float64VarP(&f.timeout, "timeout", "t", app.DefaultTimeout.Seconds(), "Request timeout in seconds")
	fl.IntVar(&f.workers, "workers", app.DefaultWorkers, "Rows checked in parallel")
	fl.StringVar(&f.textCol, "text-col", "G", "Column holding the expected text")
	fl.StringVar(&f.linkCol, "link-col", "I", "Column holding the link")
	fl.StringVar(&f.encoding, "encoding", "", "Force a page encoding, e.g. windows-1251")
	fl.StringVar(&f.extract, "extract", "full", "Page text extraction: full or readable")
	fl.StringVar(&f.cacheDir, "cache-dir", "", "Keep fetched pages in this directory and revalidate them")
	fl.StringVar(&f.logDir, "log-dir", app.DefaultLogDir, "Directory for the run log file")
	fl.StringVar(&f.csvPath, "csv", "", "Write results to this CSV file")
	fl.StringVar(&f.pdfPath, "pdf", "", "Write a PDF report")
	fl.StringVar(&f.pdfFont, "pdf-font", "", "UTF-8 TrueType font for the PDF report")
	fl.StringVar(&f.dbPath, "db", "", "Record the run in this SQLite database")
	fl.BoolVar(&f.insecure, "insecure", false, "Skip TLS certificate verification")
	fl.BoolVar(&f.progress, "progress", false, "Show a progress bar and only warnings on the console")
}

// applyCheckFlags copies the flags the user set over cfg.
func applyCheckFlags(cmd *cobra.Command, f *checkFlags, cfg *app.Config) {
	set := cmd.Flags().Changed
	if set("all-sheets") {
		cfg.AllSheets = f.allSheets
	}
	if set("sheets") {
		cfg.Sheets = f.sheets
		cfg.AllSheets = false
	}
	if set("delay") {
		cfg.Delay = seconds(f.delay)
	}
	if set("timeout") {
		cfg.Timeout = seconds(f.timeout)
	}
	if set("workers") {
		cfg.Workers = f.workers
	}
	if set("text-col") {
		cfg.TextColumn = f.textCol
	}
	if set("link-col") {
		cfg.LinkColumn = f.linkCol
	}
	if set("encoding") {
		cfg.Encoding = f.encoding
	}
	if set("extract") {
		cfg.ExtractMode = f.extract
	}
	if set("cache-dir") {
		cfg.CacheDir = f.cacheDir
	}
	if set("log-dir") {
		cfg.LogDir = f.logDir
	}
	if set("csv") {
		cfg.CSVPath = f.csvPath
	}
	if set("pdf") {
		cfg.PDFPath = f.pdfPath
	}
	if set("pdf-font") {
		cfg.PDFFont = f.pdfFont
	}
	if set("db") {
		cfg.DBPath = f.dbPath
	}
	if set("insecure") {
		cfg.SkipTLSVerify = f.insecure
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func runCheck(cmd *cobra.Command, cfg app.Config, progress bool) error {
	out := cmd.OutOrStdout()
	report.DisableColorIfNotTTY()

	logPath := ""
	if cfg.LogDir != "" {
		logPath = app.LogFilePath(cfg.LogDir, time.Now())
	}
	closeLog, err := setupLogging(cmd.ErrOrStderr(), cfg.Verbose, progress, logPath)
	if err != nil {
		return err
	}
	defer closeLog()

	printBanner(out, cfg, logPath)

	bars := &sheetBars{out: cmd.ErrOrStderr(), enabled: progress}
	a, err := app.New(cfg, app.WithLogger(log.Logger), app.WithHooks(bars.hooks()))
	if err != nil {
		return err
	}
	sum, err := a.Run(cmd.Context())
	bars.finish()
	if err != nil && !errors.Is(err, app.ErrNoRows) && len(sum.Sheets) == 0 {
		return err
	}

	fmt.Fprintln(out)
	if len(sum.Sheets) > 0 {
		fmt.Fprintln(out, report.SummaryTable(sum.Sheets, sum.Total))
	}
	for _, s := range sum.Skipped {
		fmt.Fprintf(out, "skipped sheet %q: %v\n", s.Sheet, s.Err)
	}
	if err != nil {
		return err
	}
	for _, p := range []string{cfg.CSVPath, cfg.PDFPath, cfg.DBPath, logPath} {
		if p != "" {
			fmt.Fprintln(out, "wrote", p)
		}
	}
	return nil
}

func printBanner(w io.Writer, cfg app.Config, logPath string) {
	sheets := "first"
	switch {
	case cfg.AllSheets:
		sheets = "all"
	case len(cfg.Sheets) > 0:
		sheets = strings.Join(cfg.Sheets, ", ")
	}
	fmt.Fprintln(w, "Checking file:", cfg.InputPath)
	fmt.Fprintln(w, "Sheets:", sheets)
	if logPath != "" {
		fmt.Fprintln(w, "Log file:", logPath)
	}
	fmt.Fprintf(w, "Delay between requests: %.1f s\n", cfg.Delay.Seconds())
	fmt.Fprintf(w, "Timeout: %g s\n", cfg.Timeout.Seconds())
	fmt.Fprintln(w, strings.Repeat("-", 50))
}

// sheetBars shows one progress bar per sheet.
type sheetBars struct {
	out     io.Writer
	enabled bool
	bar     *progressbar.ProgressBar
}

func (b *sheetBars) hooks() app.Hooks {
	if !b.enabled {
		return app.Hooks{}
	}
	return app.Hooks{
		SheetStarted: func(name string, rows int) {
			b.finish()
			b.bar = progressbar.NewOptions(rows,
				progressbar.OptionSetWriter(b.out),
				progressbar.OptionSetDescription(name),
				progressbar.OptionShowCount(),
				progressbar.OptionEnableColorCodes(isTerminal(b.out)),
				progressbar.OptionOnCompletion(func() { fmt.Fprintln(b.out) }),
			)
		},
		RowDone: func(report.Record) {
			if b.bar != nil {
				_ = b.bar.Add(1)
			}
		},
	}
}

func (b *sheetBars) finish() {
	if b.bar != nil {
		_ = b.bar.Finish()
		b.bar = nil
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && isatty.IsTerminal(f.Fd())
}
