package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hyperifyio/textcheck/internal/cache"
	"github.com/hyperifyio/textcheck/internal/extract"
	"github.com/hyperifyio/textcheck/internal/fetch"
	"github.com/hyperifyio/textcheck/internal/match"
	"github.com/hyperifyio/textcheck/internal/report"
	"github.com/hyperifyio/textcheck/internal/sheet"
	"github.com/hyperifyio/textcheck/internal/store"
)

// ErrNoRows is returned when a run found no data rows in any selected sheet.
var ErrNoRows = errors.New("no rows to process")

// Hooks let callers observe progress. Calls are serialized.
type Hooks struct {
	SheetStarted func(name string, rows int)
	RowDone      func(report.Record)
}

// SheetError is a sheet that was skipped.
type SheetError struct {
	Sheet string
	Err   error
}

// Summary describes a finished run.
type Summary struct {
	RunID    string
	Input    string
	Sheets   []report.Stats
	Total    report.Stats
	Skipped  []SheetError
	Started  time.Time
	Finished time.Time
}

type App struct {
	cfg        Config
	client     *fetch.Client
	extractor  extract.Extractor
	classifier match.Classifier
	pages      *pageMemo
	pacer      *pacer
	log        zerolog.Logger
	hooks      Hooks
	sinks      []report.Sink

	mu sync.Mutex // guards result recording
}

// Option customizes an App.
type Option func(*App)

// WithLogger replaces the global zerolog logger.
func WithLogger(l zerolog.Logger) Option { return func(a *App) { a.log = l } }

// WithHooks installs progress callbacks.
func WithHooks(h Hooks) Option { return func(a *App) { a.hooks = h } }

// WithSink adds a sink that receives every record next to the configured outputs.
// The App closes it at the end of Run.
func WithSink(s report.Sink) Option { return func(a *App) { a.sinks = append(a.sinks, s) } }

// WithHTTPClient replaces the tuned default client.
func WithHTTPClient(c *http.Client) Option { return func(a *App) { a.client.HTTPClient = c } }

// New validates cfg and prepares the fetch, cache and matching layers.
func New(cfg Config, opts ...Option) (*App, error) {
	if err := ValidateConfig(cfg, false); err != nil {
		return nil, err
	}
	ex, _ := extract.ForMode(cfg.ExtractMode)
	memo, err := newPageMemo(cfg.PageMemo)
	if err != nil {
		return nil, err
	}
	a := &App{
		cfg: cfg,
		client: &fetch.Client{
			HTTPClient:        newHTTPClient(!cfg.SkipTLSVerify),
			UserAgent:         cfg.UserAgent,
			MaxAttempts:       cfg.MaxAttempts,
			PerRequestTimeout: cfg.Timeout,
			BypassCache:       cfg.BypassCache,
			MaxConcurrent:     cfg.Workers,
		},
		extractor: ex,
		pages:     memo,
		pacer:     newPacer(cfg.Delay),
		log:       log.Logger,
	}
	for _, o := range opts {
		o(a)
	}
	a.classifier = match.Classifier{Config: cfg.Match, Reporter: eventLogger{log: a.log}}

	if cfg.CacheDir != "" {
		pc := &cache.PageCache{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}
		if cfg.CacheClear {
			if err := pc.Clear(); err != nil {
				a.log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache clear failed")
			}
		}
		if cfg.CacheMaxAge > 0 {
			if n, err := pc.PurgeOlderThan(cfg.CacheMaxAge); err != nil {
				a.log.Warn().Err(err).Msg("cache purge failed")
			} else if n > 0 {
				a.log.Info().Int("removed", n).Msg("purged stale cache entries")
			}
		}
		a.client.Cache = pc
	}
	return a, nil
}

// Run checks every selected row of the input workbook.
func (a *App) Run(ctx context.Context) (Summary, error) {
	if err := ValidateConfig(a.cfg, true); err != nil {
		return Summary{}, err
	}
	sum := Summary{
		RunID:   uuid.NewString(),
		Input:   a.cfg.InputPath,
		Started: time.Now(),
		Total:   report.Stats{Sheet: "All"},
	}
	runLog := a.log.With().Str("run_id", sum.RunID).Logger()
	runLog.Info().Str("file", a.cfg.InputPath).Msg("starting processing")

	for _, p := range []string{a.cfg.CSVPath, a.cfg.PDFPath} {
		if p == "" {
			continue
		}
		unlock, err := lockOutput(p)
		if err != nil {
			return sum, err
		}
		defer unlock()
	}

	wb, err := sheet.Open(a.cfg.InputPath)
	if err != nil {
		return sum, err
	}
	defer wb.Close()
	opts := a.cfg.SheetOptions()
	names, err := wb.Resolve(opts)
	if err != nil {
		return sum, err
	}
	runLog.Info().Int("sheets", len(names)).Strs("names", names).Msg("selected sheets")

	sink, db, err := a.openSinks(ctx, sum)
	if err != nil {
		return sum, err
	}

	runErr := a.runSheets(ctx, wb, names, opts, &sum, sink, runLog)

	sum.Finished = time.Now()
	if db != nil {
		if err := db.FinishRun(context.WithoutCancel(ctx), sum.RunID, sum.Total); err != nil {
			runLog.Warn().Err(err).Msg("saving run totals failed")
		}
	}
	if err := sink.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("close outputs: %w", err)
	}
	if db != nil {
		_ = db.Close()
	}
	if runErr != nil {
		return sum, runErr
	}

	t := sum.Total
	runLog.Info().
		Int("total", t.Total).
		Int("found", t.Found()).
		Int("exact", t.Exact).
		Int("fuzzy", t.Fuzzy).
		Int("not_found", t.NotFound).
		Int("errors", t.Errors).
		Msg("final statistics for all sheets")
	if t.Total == 0 {
		return sum, ErrNoRows
	}
	return sum, nil
}

func (a *App) openSinks(ctx context.Context, sum Summary) (report.Sink, *store.DB, error) {
	sinks := append([]report.Sink(nil), a.sinks...)
	closeAll := func() { _ = report.Multi(sinks...).Close() }
	if a.cfg.CSVPath != "" {
		s, err := report.CreateCSV(a.cfg.CSVPath)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, s)
	}
	if a.cfg.PDFPath != "" {
		sinks = append(sinks, &report.PDFSink{Path: a.cfg.PDFPath, FontPath: a.cfg.PDFFont, Title: "Text check: " + a.cfg.InputPath})
	}
	var db *store.DB
	if a.cfg.DBPath != "" {
		var err error
		db, err = store.Open(a.cfg.DBPath)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		if err := db.BeginRun(ctx, store.Run{ID: sum.RunID, Input: sum.Input, StartedAt: sum.Started}); err != nil {
			closeAll()
			_ = db.Close()
			return nil, nil, err
		}
		sinks = append(sinks, db.Sink(ctx))
	}
	return report.Multi(sinks...), db, nil
}

func (a *App) runSheets(ctx context.Context, wb *sheet.Workbook, names []string, opts sheet.Options, sum *Summary, sink report.Sink, runLog zerolog.Logger) error {
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		sheetLog := runLog.With().Str("sheet", name).Logger()
		sheetLog.Info().Msgf("processing sheet '%s'", name)
		s, err := wb.Read(name, opts)
		if err != nil {
			if errors.Is(err, sheet.ErrColumnMissing) {
				sheetLog.Error().Err(err).Msgf("sheet '%s': skipped", name)
				sum.Skipped = append(sum.Skipped, SheetError{Sheet: name, Err: err})
				continue
			}
			return err
		}
		sheetLog.Info().Int("rows", len(s.Rows)).Msgf("sheet '%s': found rows to process: %d", name, len(s.Rows))
		if a.hooks.SheetStarted != nil {
			a.hooks.SheetStarted(name, len(s.Rows))
		}

		stats := report.Stats{Sheet: name}
		if err := a.runRows(ctx, sum.RunID, s, &stats, sink, sheetLog); err != nil {
			return err
		}
		sheetLog.Info().
			Int("total", stats.Total).
			Int("found", stats.Found()).
			Int("not_found", stats.NotFound).
			Int("errors", stats.Errors).
			Msgf("sheet '%s' statistics", name)
		sum.Sheets = append(sum.Sheets, stats)
		sum.Total.Merge(stats)
	}
	return nil
}

func (a *App) runRows(ctx context.Context, runID string, s sheet.Sheet, stats *report.Stats, sink report.Sink, sheetLog zerolog.Logger) error {
	workers := a.cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, row := range s.Rows {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			w := report.Where{RunID: runID, Sheet: s.Name, Row: row.Number, Line: row.Line}
			var rec report.Record
			if row.Empty() {
				rec = report.Skipped(w, row.Link, row.Text)
			} else {
				sheetLog.Info().Int("row", row.Number).Msgf("processing row %d/%d", row.Number, len(s.Rows))
				rec = a.check(gctx, w, row.Link, row.Text)
			}
			return a.record(rec, stats, sink, sheetLog)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// record logs rec, counts it and hands it to the sinks.
func (a *App) record(rec report.Record, stats *report.Stats, sink report.Sink, l zerolog.Logger) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	stats.Add(rec)
	logRecord(l, rec)
	if err := sink.Write(rec); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	if a.hooks.RowDone != nil {
		a.hooks.RowDone(rec)
	}
	return nil
}

func logRecord(l zerolog.Logger, r report.Record) {
	prefix := fmt.Sprintf("row %d (sheet '%s'): ", r.Row, r.Sheet)
	switch r.Outcome {
	case report.OutcomeExact:
		l.Info().Int("row", r.Row).Str("url", r.URL).Msg(prefix + "FOUND - text present on page")
	case report.OutcomeFuzzy:
		l.Info().Int("row", r.Row).Str("url", r.URL).Float64("ratio", r.Ratio).Str("level", r.Level).Str("method", r.Method).
			Strs("missing", r.Missing).Msg(prefix + "FUZZY - text present with differences")
	case report.OutcomeNotFound:
		l.Warn().Int("row", r.Row).Str("url", r.URL).Msg(prefix + "NOT FOUND - text absent from page")
	default:
		if r.Error == report.SkippedMessage {
			l.Warn().Int("row", r.Row).Msg(prefix + "empty text or link - skipped")
			return
		}
		l.Error().Int("row", r.Row).Str("url", r.URL).Msg(prefix + "ERROR - " + r.Error)
	}
}

// check fetches link and classifies text against it. Fetch problems end up
// in the record's Error.
func (a *App) check(ctx context.Context, w report.Where, link, text string) report.Record {
	a.log.Debug().Str("url", link).Str("text", preview(text, 100)).Msg("text to search")
	page, err := a.pageText(ctx, link)
	l := match.Lookup{Haystack: page, Needle: text}
	if err != nil {
		l.Err = errors.New(fetch.Describe(link, err))
	}
	return report.NewRecord(w, link, text, a.classifier.Classify(l))
}

func (a *App) pageText(ctx context.Context, link string) (string, error) {
	link = strings.TrimSpace(link)
	return a.pages.get(ctx, fetch.CanonicalURL(link), func(ctx context.Context) (string, error) {
		if !strings.HasPrefix(strings.ToLower(link), "file:") {
			if err := a.pacer.Wait(ctx); err != nil {
				return "", err
			}
		}
		body, ct, err := a.client.Get(ctx, link)
		if err != nil {
			return "", err
		}
		return extract.PageTextWith(a.extractor, body, ct, a.cfg.Encoding)
	})
}

// CheckOne checks a single link outside of a workbook run.
func (a *App) CheckOne(ctx context.Context, link, text string) report.Record {
	w := report.Where{Sheet: "-", Row: 1, Line: 1}
	if strings.TrimSpace(link) == "" || strings.TrimSpace(text) == "" {
		return report.Skipped(w, link, text)
	}
	return a.check(ctx, w, link, text)
}

// CheckText classifies text against an already extracted page.
func (a *App) CheckText(page, text string) report.Record {
	w := report.Where{Sheet: "-", Row: 1, Line: 1}
	return report.NewRecord(w, "", text, a.classifier.Classify(match.Lookup{Haystack: page, Needle: text}))
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
