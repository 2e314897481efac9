package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

var csvHeader = []string{
	"run_id", "sheet", "row", "line", "url", "text", "outcome", "ratio",
	"level", "method", "before", "found", "after", "missing", "error", "checked_at",
}

// CSVSink writes one line per record with a header line first.
type CSVSink struct {
	w      *csv.Writer
	closer io.Closer
}

// NewCSVSink writes to w. Close flushes and, when w is an io.Closer, closes it.
func NewCSVSink(w io.Writer) (*CSVSink, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return nil, err
	}
	s := &CSVSink{w: cw}
	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}
	return s, nil
}

// CreateCSV creates path and returns a sink writing to it.
func CreateCSV(path string) (*CSVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create csv: %w", err)
	}
	s, err := NewCSVSink(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

func (s *CSVSink) Write(r Record) error {
	ratio := ""
	if r.Outcome == OutcomeExact || r.Outcome == OutcomeFuzzy {
		ratio = strconv.FormatFloat(r.Ratio, 'f', 3, 64)
	}
	checked := ""
	if !r.CheckedAt.IsZero() {
		checked = r.CheckedAt.Format(time.RFC3339)
	}
	return s.w.Write([]string{
		r.RunID, r.Sheet, strconv.Itoa(r.Row), strconv.Itoa(r.Line), r.URL, r.Text,
		r.Outcome, ratio, r.Level, r.Method, r.Before, r.Found, r.After,
		strings.Join(r.Missing, " "), r.Error, checked,
	})
}

func (s *CSVSink) Close() error {
	s.w.Flush()
	err := s.w.Error()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
