package sheet

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Open opens an .xlsx/.xlsm workbook or a .csv file. A CSV file is a single
// sheet named after the file without its extension.
func Open(path string) (*Workbook, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		src, err := openCSV(path)
		if err != nil {
			return nil, err
		}
		return &Workbook{Path: path, src: src}, nil
	default:
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("open workbook: %w", err)
		}
		return &Workbook{Path: path, src: xlsxSource{f: f}}, nil
	}
}

type xlsxSource struct{ f *excelize.File }

func (x xlsxSource) SheetNames() []string { return x.f.GetSheetList() }

func (x xlsxSource) Rows(name string) ([][]string, error) { return x.f.GetRows(name) }

func (x xlsxSource) Close() error { return x.f.Close() }

type csvSource struct {
	name string
	rows [][]string
}

func openCSV(path string) (*csvSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	// drop a UTF-8 BOM left by spreadsheet exports
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	base := filepath.Base(path)
	return &csvSource{name: strings.TrimSuffix(base, filepath.Ext(base)), rows: rows}, nil
}

func (c *csvSource) SheetNames() []string { return []string{c.name} }

func (c *csvSource) Rows(name string) ([][]string, error) {
	if name != c.name {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}
	return c.rows, nil
}

func (c *csvSource) Close() error { return nil }
