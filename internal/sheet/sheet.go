// Package sheet reads the text and link columns of spreadsheet rows.
package sheet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrColumnMissing means a sheet is narrower than a referenced column.
	ErrColumnMissing = errors.New("column not found")
	// ErrSheetNotFound means a requested sheet name or index does not exist.
	ErrSheetNotFound = errors.New("sheet not found")
)

// Default column letters and header row count.
const (
	DefaultTextColumn = "G"
	DefaultLinkColumn = "I"
	DefaultHeaderRows = 1
)

// ColumnSpec names the text and link columns by letter.
type ColumnSpec struct {
	Text string
	Link string
}

// Options select sheets and columns. Sheets entries are indices ("0") or
// names; with neither Sheets nor AllSheets only the first sheet is read.
type Options struct {
	Columns    ColumnSpec
	HeaderRows int
	Sheets     []string
	AllSheets  bool
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.Columns.Text) == "" {
		o.Columns.Text = DefaultTextColumn
	}
	if strings.TrimSpace(o.Columns.Link) == "" {
		o.Columns.Link = DefaultLinkColumn
	}
	if o.HeaderRows < 0 {
		o.HeaderRows = 0
	}
	return o
}

// DefaultOptions reads columns G and I of the first sheet after one header row.
func DefaultOptions() Options {
	return Options{HeaderRows: DefaultHeaderRows}.withDefaults()
}

// Sheet is one worksheet's data rows.
type Sheet struct {
	Name string
	Rows []Row
}

// Row is a data row. Number is 1-based among data rows; Line is the
// spreadsheet row number.
type Row struct {
	Number int
	Line   int
	Text   string
	Link   string
}

// Empty reports whether the text or the link cell is blank.
func (r Row) Empty() bool {
	return strings.TrimSpace(r.Text) == "" || strings.TrimSpace(r.Link) == ""
}

// ColumnIndex converts a column letter ("A", "G", "AA") to a 0-based index.
func ColumnIndex(letters string) (int, error) {
	s := strings.ToUpper(strings.TrimSpace(letters))
	if s == "" {
		return 0, fmt.Errorf("empty column")
	}
	n := 0
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("invalid column %q", letters)
		}
		n = n*26 + int(r-'A'+1)
	}
	return n - 1, nil
}

// source is a workbook backend.
type source interface {
	SheetNames() []string
	Rows(name string) ([][]string, error)
	Close() error
}

// Workbook is an opened spreadsheet file.
type Workbook struct {
	Path string
	src  source
}

// SheetNames lists sheets in workbook order.
func (w *Workbook) SheetNames() []string { return w.src.SheetNames() }

// Close releases the underlying file.
func (w *Workbook) Close() error { return w.src.Close() }

// Resolve returns the sheet names opts selects, in request order. Numeric
// entries are indices first and names second, so a sheet literally named
// "2" is still reachable when fewer than three sheets exist.
func (w *Workbook) Resolve(opts Options) ([]string, error) {
	names := w.src.SheetNames()
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrSheetNotFound)
	}
	if opts.AllSheets {
		return append([]string(nil), names...), nil
	}
	if len(opts.Sheets) == 0 {
		return names[:1], nil
	}
	out := make([]string, 0, len(opts.Sheets))
	for _, want := range opts.Sheets {
		want = strings.TrimSpace(want)
		if i, err := strconv.Atoi(want); err == nil && i >= 0 && i < len(names) {
			out = append(out, names[i])
			continue
		}
		found := false
		for _, n := range names {
			if n == want {
				out = append(out, n)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, want)
		}
	}
	return out, nil
}

// Read loads one sheet's data rows. Trailing blank rows are dropped;
// blank rows in between are kept so numbering matches the file.
func (w *Workbook) Read(name string, opts Options) (Sheet, error) {
	opts = opts.withDefaults()
	textIdx, err := ColumnIndex(opts.Columns.Text)
	if err != nil {
		return Sheet{}, err
	}
	linkIdx, err := ColumnIndex(opts.Columns.Link)
	if err != nil {
		return Sheet{}, err
	}
	grid, err := w.src.Rows(name)
	if err != nil {
		return Sheet{}, fmt.Errorf("read sheet %q: %w", name, err)
	}
	width := 0
	for _, r := range grid {
		if len(r) > width {
			width = len(r)
		}
	}
	if width <= textIdx {
		return Sheet{Name: name}, fmt.Errorf("%w: column %s", ErrColumnMissing, strings.ToUpper(opts.Columns.Text))
	}
	if width <= linkIdx {
		return Sheet{Name: name}, fmt.Errorf("%w: column %s", ErrColumnMissing, strings.ToUpper(opts.Columns.Link))
	}
	for len(grid) > opts.HeaderRows && blank(grid[len(grid)-1]) {
		grid = grid[:len(grid)-1]
	}
	s := Sheet{Name: name}
	for i := opts.HeaderRows; i < len(grid); i++ {
		s.Rows = append(s.Rows, Row{
			Number: i - opts.HeaderRows + 1,
			Line:   i + 1,
			Text:   cell(grid[i], textIdx),
			Link:   cell(grid[i], linkIdx),
		})
	}
	return s, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
