package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hyperifyio/textcheck/internal/extract"
	"github.com/hyperifyio/textcheck/internal/match"
	"github.com/hyperifyio/textcheck/internal/sheet"
)

// Config holds runtime configuration for a check run.
type Config struct {
	InputPath string

	// Sheet selection
	Sheets     []string
	AllSheets  bool
	TextColumn string
	LinkColumn string
	HeaderRows int

	// Fetching
	Delay       time.Duration
	Timeout     time.Duration
	MaxAttempts int
	Workers     int
	UserAgent   string
	Encoding    string
	ExtractMode string
	// SkipTLSVerify accepts self-signed certificates.
	SkipTLSVerify bool

	// Cache
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheClear       bool
	CacheStrictPerms bool
	BypassCache      bool
	PageMemo         int

	// Outputs
	LogDir  string
	CSVPath string
	PDFPath string
	PDFFont string
	DBPath  string

	Match   match.Config
	Verbose bool
}

// Defaults.
const (
	DefaultDelay       = time.Second
	DefaultTimeout     = 10 * time.Second
	DefaultMaxAttempts = 2
	DefaultWorkers     = 1
	DefaultPageMemo    = 256
	DefaultLogDir      = "."
)

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() Config {
	return Config{
		TextColumn:  sheet.DefaultTextColumn,
		LinkColumn:  sheet.DefaultLinkColumn,
		HeaderRows:  sheet.DefaultHeaderRows,
		Delay:       DefaultDelay,
		Timeout:     DefaultTimeout,
		MaxAttempts: DefaultMaxAttempts,
		Workers:     DefaultWorkers,
		PageMemo:    DefaultPageMemo,
		LogDir:      DefaultLogDir,
		Match:       match.DefaultConfig(),
	}
}

// SheetOptions converts the sheet section for the sheet package.
func (c Config) SheetOptions() sheet.Options {
	return sheet.Options{
		Columns:    sheet.ColumnSpec{Text: c.TextColumn, Link: c.LinkColumn},
		HeaderRows: c.HeaderRows,
		Sheets:     append([]string(nil), c.Sheets...),
		AllSheets:  c.AllSheets,
	}
}

// ValidateConfig rejects settings no run can use. InputPath is checked only
// when requireInput is set so single-page checks can share the validation.
func ValidateConfig(cfg Config, requireInput bool) error {
	if requireInput && strings.TrimSpace(cfg.InputPath) == "" {
		return errors.New("config: input workbook is required")
	}
	if cfg.AllSheets && len(cfg.Sheets) > 0 {
		return errors.New("config: all sheets and an explicit sheet list are mutually exclusive")
	}
	if _, err := sheet.ColumnIndex(cfg.TextColumn); err != nil {
		return fmt.Errorf("config: text column: %w", err)
	}
	if _, err := sheet.ColumnIndex(cfg.LinkColumn); err != nil {
		return fmt.Errorf("config: link column: %w", err)
	}
	if cfg.HeaderRows < 0 {
		return errors.New("config: header rows must not be negative")
	}
	if cfg.Delay < 0 || cfg.Timeout < 0 || cfg.CacheMaxAge < 0 {
		return errors.New("config: negative durations are not allowed")
	}
	if cfg.MaxAttempts < 0 || cfg.Workers < 0 || cfg.PageMemo < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	if _, ok := extract.ForMode(cfg.ExtractMode); !ok {
		return fmt.Errorf("config: unknown extract mode %q", cfg.ExtractMode)
	}
	m := cfg.Match
	if m.MinMatchRatio < 0 || m.MinMatchRatio > 1 {
		return fmt.Errorf("config: match ratio %v outside [0,1]", m.MinMatchRatio)
	}
	if m.MinFuzzyTextLength < 0 || m.MinWordsInSequence < 0 || m.MaxWordsBetween < 0 ||
		m.ContextWordsBefore < 0 || m.ContextWordsAfter < 0 {
		return errors.New("config: negative match limits are not allowed")
	}
	return nil
}
