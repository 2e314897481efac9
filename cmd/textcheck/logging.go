package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// setupLogging points the global logger at the console and, when logPath is
// set, at a plain-text log file as well. quietConsole keeps only warnings and
// errors on the console so a progress bar stays readable; the file still
// gets everything.
func setupLogging(console io.Writer, verbose, quietConsole bool, logPath string) (func(), error) {
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	var consoleWriter zerolog.LevelWriter = zerolog.LevelWriterAdapter{Writer: zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339}}
	if quietConsole {
		consoleWriter = &zerolog.FilteredLevelWriter{Writer: consoleWriter, Level: zerolog.WarnLevel}
	}
	if logPath == "" {
		log.Logger = zerolog.New(consoleWriter).With().Timestamp().Logger()
		return func() {}, nil
	}
	if dir := filepath.Dir(logPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("log dir: %w", err)
		}
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	file := zerolog.ConsoleWriter{Out: f, NoColor: true, TimeFormat: time.RFC3339}
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(consoleWriter, file)).With().Timestamp().Logger()
	return func() {
		log.Logger = zerolog.New(consoleWriter).With().Timestamp().Logger()
		_ = f.Close()
	}, nil
}
