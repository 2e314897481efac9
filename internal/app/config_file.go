package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the config file schema. Durations are strings: Go durations
// ("1500ms") or plain seconds ("1.5"). Pointer fields distinguish an explicit
// zero from an absent key.
type FileConfig struct {
	Input      string   `yaml:"input" json:"input" toml:"input"`
	Sheets     []string `yaml:"sheets" json:"sheets" toml:"sheets"`
	AllSheets  bool     `yaml:"allSheets" json:"allSheets" toml:"allSheets"`
	HeaderRows *int     `yaml:"headerRows" json:"headerRows" toml:"headerRows"`

	Columns struct {
		Text string `yaml:"text" json:"text" toml:"text"`
		Link string `yaml:"link" json:"link" toml:"link"`
	} `yaml:"columns" json:"columns" toml:"columns"`

	Fetch struct {
		Delay     string `yaml:"delay" json:"delay" toml:"delay"`
		Timeout   string `yaml:"timeout" json:"timeout" toml:"timeout"`
		Attempts  int    `yaml:"attempts" json:"attempts" toml:"attempts"`
		Workers   int    `yaml:"workers" json:"workers" toml:"workers"`
		UserAgent string `yaml:"userAgent" json:"userAgent" toml:"userAgent"`
		Encoding  string `yaml:"encoding" json:"encoding" toml:"encoding"`
		Extract   string `yaml:"extract" json:"extract" toml:"extract"`
	} `yaml:"fetch" json:"fetch" toml:"fetch"`

	Cache struct {
		Dir         string `yaml:"dir" json:"dir" toml:"dir"`
		MaxAge      string `yaml:"maxAge" json:"maxAge" toml:"maxAge"`
		Clear       bool   `yaml:"clear" json:"clear" toml:"clear"`
		StrictPerms bool   `yaml:"strictPerms" json:"strictPerms" toml:"strictPerms"`
		Bypass      bool   `yaml:"bypass" json:"bypass" toml:"bypass"`
		Memo        *int   `yaml:"memo" json:"memo" toml:"memo"`
	} `yaml:"cache" json:"cache" toml:"cache"`

	Log struct {
		Dir string `yaml:"dir" json:"dir" toml:"dir"`
	} `yaml:"log" json:"log" toml:"log"`

	Output struct {
		CSV     string `yaml:"csv" json:"csv" toml:"csv"`
		PDF     string `yaml:"pdf" json:"pdf" toml:"pdf"`
		PDFFont string `yaml:"pdfFont" json:"pdfFont" toml:"pdfFont"`
		DB      string `yaml:"db" json:"db" toml:"db"`
	} `yaml:"output" json:"output" toml:"output"`

	Match struct {
		MinLength        *int     `yaml:"minLength" json:"minLength" toml:"minLength"`
		MinRatio         *float64 `yaml:"minRatio" json:"minRatio" toml:"minRatio"`
		MinWords         *int     `yaml:"minWords" json:"minWords" toml:"minWords"`
		MaxWordsBetween  *int     `yaml:"maxWordsBetween" json:"maxWordsBetween" toml:"maxWordsBetween"`
		ContextBefore    *int     `yaml:"contextBefore" json:"contextBefore" toml:"contextBefore"`
		ContextAfter     *int     `yaml:"contextAfter" json:"contextAfter" toml:"contextAfter"`
		RetainBestPrefix *bool    `yaml:"retainBestPrefix" json:"retainBestPrefix" toml:"retainBestPrefix"`
	} `yaml:"match" json:"match" toml:"match"`

	Verbose bool `yaml:"verbose" json:"verbose" toml:"verbose"`
}

// LoadConfigFile reads YAML, JSON or TOML chosen by extension. Unknown
// extensions are tried as YAML then JSON.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse toml: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays every value present in fc onto cfg. Call it on
// defaults, before env overrides and explicit flags.
func ApplyFileConfig(cfg *Config, fc FileConfig) error {
	if cfg == nil {
		return nil
	}
	setStr := func(dst *string, v string) {
		if strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	setStr(&cfg.InputPath, fc.Input)
	if len(fc.Sheets) > 0 {
		cfg.Sheets = append([]string(nil), fc.Sheets...)
	}
	if fc.AllSheets {
		cfg.AllSheets = true
	}
	if fc.HeaderRows != nil {
		cfg.HeaderRows = *fc.HeaderRows
	}
	setStr(&cfg.TextColumn, fc.Columns.Text)
	setStr(&cfg.LinkColumn, fc.Columns.Link)

	var errs []error
	setDur := func(dst *time.Duration, key, v string) {
		if strings.TrimSpace(v) == "" {
			return
		}
		d, err := ParseSeconds(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = d
	}
	setDur(&cfg.Delay, "fetch.delay", fc.Fetch.Delay)
	setDur(&cfg.Timeout, "fetch.timeout", fc.Fetch.Timeout)
	if fc.Fetch.Attempts > 0 {
		cfg.MaxAttempts = fc.Fetch.Attempts
	}
	if fc.Fetch.Workers > 0 {
		cfg.Workers = fc.Fetch.Workers
	}
	setStr(&cfg.UserAgent, fc.Fetch.UserAgent)
	setStr(&cfg.Encoding, fc.Fetch.Encoding)
	setStr(&cfg.ExtractMode, fc.Fetch.Extract)

	setStr(&cfg.CacheDir, fc.Cache.Dir)
	setDur(&cfg.CacheMaxAge, "cache.maxAge", fc.Cache.MaxAge)
	cfg.CacheClear = cfg.CacheClear || fc.Cache.Clear
	cfg.CacheStrictPerms = cfg.CacheStrictPerms || fc.Cache.StrictPerms
	cfg.BypassCache = cfg.BypassCache || fc.Cache.Bypass
	if fc.Cache.Memo != nil {
		cfg.PageMemo = *fc.Cache.Memo
	}

	setStr(&cfg.LogDir, fc.Log.Dir)
	setStr(&cfg.CSVPath, fc.Output.CSV)
	setStr(&cfg.PDFPath, fc.Output.PDF)
	setStr(&cfg.PDFFont, fc.Output.PDFFont)
	setStr(&cfg.DBPath, fc.Output.DB)

	m := &cfg.Match
	setInt := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	setInt(&m.MinFuzzyTextLength, fc.Match.MinLength)
	setInt(&m.MinWordsInSequence, fc.Match.MinWords)
	setInt(&m.MaxWordsBetween, fc.Match.MaxWordsBetween)
	setInt(&m.ContextWordsBefore, fc.Match.ContextBefore)
	setInt(&m.ContextWordsAfter, fc.Match.ContextAfter)
	if fc.Match.MinRatio != nil {
		m.MinMatchRatio = *fc.Match.MinRatio
	}
	if fc.Match.RetainBestPrefix != nil {
		m.RetainBestPrefix = *fc.Match.RetainBestPrefix
	}

	cfg.Verbose = cfg.Verbose || fc.Verbose
	return errors.Join(errs...)
}

// ParseSeconds accepts a Go duration ("1500ms", "2m") or a plain number of
// seconds ("1", "0.5").
func ParseSeconds(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f < 0 {
			return 0, fmt.Errorf("negative duration %q", s)
		}
		return time.Duration(f * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return d, nil
}
