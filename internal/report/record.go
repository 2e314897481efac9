// Package report turns classification results into rows, files and terminal output.
package report

import (
	"time"

	"github.com/hyperifyio/textcheck/internal/match"
)

// Row outcomes as written to every output.
const (
	OutcomeExact    = "EXACT"
	OutcomeFuzzy    = "FUZZY"
	OutcomeNotFound = "NOT_FOUND"
	OutcomeError    = "ERROR"
)

// Record is one checked row.
type Record struct {
	RunID     string
	Sheet     string
	Row       int
	Line      int
	URL       string
	Text      string
	Outcome   string
	Error     string
	Ratio     float64
	Level     string
	Method    string
	Before    string
	Found     string
	After     string
	Missing   []string
	CheckedAt time.Time
}

// Where identifies the row a record describes.
type Where struct {
	RunID string
	Sheet string
	Row   int
	Line  int
}

// NewRecord flattens res for row w.
func NewRecord(w Where, url, text string, res match.Result) Record {
	r := Record{
		RunID:     w.RunID,
		Sheet:     w.Sheet,
		Row:       w.Row,
		Line:      w.Line,
		URL:       url,
		Text:      text,
		Outcome:   res.Outcome.String(),
		CheckedAt: time.Now().UTC(),
	}
	if res.Failed() {
		r.Outcome = OutcomeError
		r.Error = res.ErrorMessage
		return r
	}
	if c := res.Context; c != nil {
		r.Ratio = c.MatchRatio
		r.Level = c.Level.String()
		r.Method = c.Method.String()
		r.Before, r.Found, r.After = c.Before, c.Found, c.After
		r.Missing = append([]string(nil), c.MissingWords...)
	}
	return r
}

// SkippedMessage is the Error of rows that were not checked.
const SkippedMessage = "Empty text or link"

// Skipped is the record for a row with a blank text or link cell.
func Skipped(w Where, url, text string) Record {
	return Record{
		RunID:     w.RunID,
		Sheet:     w.Sheet,
		Row:       w.Row,
		Line:      w.Line,
		URL:       url,
		Text:      text,
		Outcome:   OutcomeError,
		Error:     SkippedMessage,
		CheckedAt: time.Now().UTC(),
	}
}

// Stats counts outcomes for a sheet or a whole run.
type Stats struct {
	Sheet    string
	Total    int
	Exact    int
	Fuzzy    int
	NotFound int
	Errors   int
}

// Found is the number of exact and fuzzy matches.
func (s Stats) Found() int { return s.Exact + s.Fuzzy }

// Add counts r.
func (s *Stats) Add(r Record) {
	s.Total++
	switch r.Outcome {
	case OutcomeExact:
		s.Exact++
	case OutcomeFuzzy:
		s.Fuzzy++
	case OutcomeNotFound:
		s.NotFound++
	default:
		s.Errors++
	}
}

// Merge adds o's counters to s.
func (s *Stats) Merge(o Stats) {
	s.Total += o.Total
	s.Exact += o.Exact
	s.Fuzzy += o.Fuzzy
	s.NotFound += o.NotFound
	s.Errors += o.Errors
}

// Tally groups records by sheet in first-seen order and returns the per-sheet
// stats and their total.
func Tally(records []Record) ([]Stats, Stats) {
	var sheets []Stats
	index := map[string]int{}
	total := Stats{Sheet: "All"}
	for _, r := range records {
		i, ok := index[r.Sheet]
		if !ok {
			i = len(sheets)
			index[r.Sheet] = i
			sheets = append(sheets, Stats{Sheet: r.Sheet})
		}
		sheets[i].Add(r)
		total.Add(r)
	}
	return sheets, total
}
