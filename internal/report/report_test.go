package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperifyio/textcheck/internal/match"
)

func fuzzyResult() match.Result {
	return match.Result{Outcome: match.Fuzzy, Context: &match.Context{
		Before: "Welcome,", Found: "Our Team", After: "today",
		MatchRatio: 0.75, Level: match.CleanedWithDigits, Method: match.MethodSequence,
		MissingWords: []string{"big"},
	}}
}

func TestNewRecord(t *testing.T) {
	w := Where{RunID: "r1", Sheet: "Posts", Row: 3, Line: 4}
	r := NewRecord(w, "https://example.com", "Our big Team", fuzzyResult())
	if r.Outcome != OutcomeFuzzy || r.Ratio != 0.75 || r.Level != "cleaned" || r.Method != "sequence" {
		t.Fatalf("record %+v", r)
	}
	if r.Found != "Our Team" || len(r.Missing) != 1 || r.CheckedAt.IsZero() {
		t.Fatalf("record %+v", r)
	}

	failed := NewRecord(w, "https://example.com", "x", match.Result{ErrorMessage: "HTTP error 404 for https://example.com"})
	if failed.Outcome != OutcomeError || failed.Error == "" || failed.Found != "" {
		t.Fatalf("failed record %+v", failed)
	}

	if s := Skipped(w, "", "x"); s.Outcome != OutcomeError || s.Error != "Empty text or link" {
		t.Fatalf("skipped %+v", s)
	}
}

func TestTally(t *testing.T) {
	recs := []Record{
		{Sheet: "A", Outcome: OutcomeExact},
		{Sheet: "B", Outcome: OutcomeNotFound},
		{Sheet: "A", Outcome: OutcomeFuzzy},
		{Sheet: "A", Outcome: OutcomeError},
	}
	sheets, total := Tally(recs)
	if len(sheets) != 2 || sheets[0].Sheet != "A" || sheets[1].Sheet != "B" {
		t.Fatalf("sheets %+v", sheets)
	}
	a := sheets[0]
	if a.Total != 3 || a.Exact != 1 || a.Fuzzy != 1 || a.Errors != 1 || a.Found() != 2 {
		t.Fatalf("A %+v", a)
	}
	if total.Total != 4 || total.NotFound != 1 {
		t.Fatalf("total %+v", total)
	}
	var merged Stats
	merged.Merge(sheets[0])
	merged.Merge(sheets[1])
	if merged.Total != total.Total || merged.Errors != total.Errors {
		t.Fatalf("merge %+v", merged)
	}
}

func TestCSVSink(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewCSVSink(&buf)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRecord(Where{RunID: "r1", Sheet: "Posts", Row: 1, Line: 2}, "https://example.com", "text, with comma", fuzzyResult())
	if err := s.Write(r); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse back: %v", err)
	}
	if len(rows) != 2 || len(rows[1]) != len(csvHeader) {
		t.Fatalf("rows %v", rows)
	}
	got := rows[1]
	if got[5] != "text, with comma" || got[6] != "FUZZY" || got[7] != "0.750" || got[13] != "big" {
		t.Fatalf("row %v", got)
	}
}

type failingSink struct{ closed bool }

func (f *failingSink) Write(Record) error { return errors.New("disk full") }
func (f *failingSink) Close() error       { f.closed = true; return errors.New("close failed") }

func TestMulti(t *testing.T) {
	mem := &Memory{}
	bad := &failingSink{}
	m := Multi(mem, nil, bad)
	if err := m.Write(Record{Outcome: OutcomeExact}); err == nil {
		t.Fatalf("expected write error")
	}
	if len(mem.Records) != 1 {
		t.Fatalf("first sink should still receive the record")
	}
	if err := m.Close(); err == nil || !bad.closed {
		t.Fatalf("close should reach every sink and report errors")
	}
}

func TestPDFSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")
	p := &PDFSink{Path: path, Title: "Check"}
	_ = p.Write(NewRecord(Where{RunID: "r1", Sheet: "Posts", Row: 1}, "https://example.com/a", "spring sale", match.Result{
		Outcome: match.Exact, Context: &match.Context{Found: "spring sale", MatchRatio: 1, Method: match.MethodExact},
	}))
	_ = p.Write(NewRecord(Where{RunID: "r1", Sheet: "Posts", Row: 2}, "https://example.com/b", "Our big Team", fuzzyResult()))
	_ = p.Write(Skipped(Where{RunID: "r1", Sheet: "Posts", Row: 3}, "", ""))
	if err := p.Close(); err != nil {
		t.Fatalf("render: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF-")) {
		t.Fatalf("not a pdf")
	}
}

func TestPDFSink_MissingFont(t *testing.T) {
	p := &PDFSink{Path: filepath.Join(t.TempDir(), "r.pdf"), FontPath: filepath.Join(t.TempDir(), "none.ttf")}
	if err := p.Close(); err == nil {
		t.Fatalf("expected font error")
	}
}

func TestSummaryTable(t *testing.T) {
	out := SummaryTable([]Stats{{Sheet: "Posts", Total: 3, Exact: 1, Fuzzy: 1, NotFound: 1}}, Stats{Sheet: "All", Total: 3, Exact: 1, Fuzzy: 1, NotFound: 1})
	for _, want := range []string{"SHEET", "Posts", "ALL", "NOT FOUND"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
}

func TestStatusLabel_NoColor(t *testing.T) {
	SetColorEnabled(false)
	defer SetColorEnabled(true)
	if got := StatusLabel(OutcomeExact); got != "EXACT" {
		t.Fatalf("label %q", got)
	}
	if got := Excerpt(Record{Before: "a", Found: "b", After: "c"}); got != "a b c" {
		t.Fatalf("excerpt %q", got)
	}
}
