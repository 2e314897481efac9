package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by ApplyEnvOverrides.
const (
	EnvDelay         = "TEXTCHECK_DELAY"
	EnvTimeout       = "TEXTCHECK_TIMEOUT"
	EnvUserAgent     = "TEXTCHECK_USER_AGENT"
	EnvEncoding      = "TEXTCHECK_ENCODING"
	EnvCacheDir      = "TEXTCHECK_CACHE_DIR"
	EnvCacheMaxAge   = "TEXTCHECK_CACHE_MAX_AGE"
	EnvLogDir        = "TEXTCHECK_LOG_DIR"
	EnvDB            = "TEXTCHECK_DB"
	EnvVerbose       = "TEXTCHECK_VERBOSE"
	EnvWorkers       = "TEXTCHECK_WORKERS"
	EnvMinMatchRatio = "TEXTCHECK_MIN_MATCH_RATIO"
)

// ApplyEnvOverrides overrides cfg fields whose environment variable is set.
// It runs after the config file so env wins over the file, and before
// explicit flags so flags win over env. Malformed values are reported
// and leave the field unchanged.
func ApplyEnvOverrides(cfg *Config) error {
	if cfg == nil {
		return nil
	}
	var errs []error
	get := func(key string) (string, bool) {
		v := strings.TrimSpace(os.Getenv(key))
		return v, v != ""
	}
	dur := func(dst *time.Duration, key string) {
		if v, ok := get(key); ok {
			d, err := ParseSeconds(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}
	str := func(dst *string, key string) {
		if v, ok := get(key); ok {
			*dst = v
		}
	}

	dur(&cfg.Delay, EnvDelay)
	dur(&cfg.Timeout, EnvTimeout)
	dur(&cfg.CacheMaxAge, EnvCacheMaxAge)
	str(&cfg.UserAgent, EnvUserAgent)
	str(&cfg.Encoding, EnvEncoding)
	str(&cfg.CacheDir, EnvCacheDir)
	str(&cfg.LogDir, EnvLogDir)
	str(&cfg.DBPath, EnvDB)

	if v, ok := get(EnvWorkers); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			errs = append(errs, fmt.Errorf("%s: want a positive integer, got %q", EnvWorkers, v))
		} else {
			cfg.Workers = n
		}
	}
	if v, ok := get(EnvMinMatchRatio); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvMinMatchRatio, err))
		} else {
			cfg.Match.MinMatchRatio = f
		}
	}
	if v, ok := get(EnvVerbose); ok {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "on":
			cfg.Verbose = true
		case "0", "false", "no", "off":
			cfg.Verbose = false
		}
	}
	return errors.Join(errs...)
}
