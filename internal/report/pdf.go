package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PDFSink collects records and renders an audit report when closed. Core
// PDF fonts cover Latin-1 only; set FontPath to a UTF-8 TTF (for example
// DejaVuSans.ttf) for Cyrillic or other scripts.
type PDFSink struct {
	Path     string
	Title    string
	FontPath string
	records  []Record
}

func (p *PDFSink) Write(r Record) error {
	p.records = append(p.records, r)
	return nil
}

func (p *PDFSink) Close() error {
	return p.render()
}

func (p *PDFSink) render() error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	family := "Helvetica"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if p.FontPath != "" {
		family = "report"
		pdf.AddUTF8Font(family, "", p.FontPath)
		pdf.AddUTF8Font(family, "B", p.FontPath)
		tr = func(s string) string { return s }
		if pdf.Err() {
			return fmt.Errorf("load font: %w", pdf.Error())
		}
	}
	title := p.Title
	if title == "" {
		title = "Text check report"
	}
	pdf.SetTitle(title, true)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(family, "", 8)
		pdf.CellFormat(0, 6, fmt.Sprintf("%d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont(family, "B", 14)
	pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont(family, "", 9)
	meta := "Generated " + time.Now().UTC().Format(time.RFC3339)
	if len(p.records) > 0 && p.records[0].RunID != "" {
		meta += "  run " + p.records[0].RunID
	}
	pdf.CellFormat(0, 5, tr(meta), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	sheets, total := Tally(p.records)
	pdf.SetFont(family, "B", 10)
	for i, h := range []string{"Sheet", "Total", "Exact", "Fuzzy", "Not found", "Errors"} {
		w := 20.0
		if i == 0 {
			w = 70
		}
		pdf.CellFormat(w, 6, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont(family, "", 10)
	for _, s := range append(sheets, total) {
		pdf.CellFormat(70, 6, tr(s.Sheet), "1", 0, "L", false, 0, "")
		for _, n := range []int{s.Total, s.Exact, s.Fuzzy, s.NotFound, s.Errors} {
			pdf.CellFormat(20, 6, fmt.Sprint(n), "1", 0, "R", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	for _, r := range p.records {
		red, green, blue := outcomeRGB(r.Outcome)
		pdf.SetTextColor(red, green, blue)
		pdf.SetFont(family, "B", 10)
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s row %d: %s", r.Sheet, r.Row, r.Outcome)), "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont(family, "", 9)
		if r.URL != "" {
			pdf.WriteLinkString(5, tr(r.URL), r.URL)
			pdf.Ln(5)
		}
		pdf.MultiCell(0, 5, tr("Text: "+r.Text), "", "L", false)
		switch {
		case r.Error != "":
			pdf.MultiCell(0, 5, tr("Error: "+r.Error), "", "L", false)
		case r.Found != "":
			pdf.MultiCell(0, 5, tr(excerpt(r)), "", "L", false)
			if r.Outcome == OutcomeFuzzy {
				line := fmt.Sprintf("ratio %.2f, %s, %s", r.Ratio, r.Level, r.Method)
				if len(r.Missing) > 0 {
					line += ", missing: " + strings.Join(r.Missing, " ")
				}
				pdf.MultiCell(0, 5, tr(line), "", "L", false)
			}
		}
		pdf.Ln(2)
	}
	return pdf.OutputFileAndClose(p.Path)
}

func excerpt(r Record) string {
	var b strings.Builder
	if r.Before != "" {
		b.WriteString("... ")
		b.WriteString(r.Before)
		b.WriteString(" ")
	}
	b.WriteString("[")
	b.WriteString(r.Found)
	b.WriteString("]")
	if r.After != "" {
		b.WriteString(" ")
		b.WriteString(r.After)
		b.WriteString(" ...")
	}
	return b.String()
}

func outcomeRGB(outcome string) (int, int, int) {
	switch outcome {
	case OutcomeExact:
		return 0, 128, 0
	case OutcomeFuzzy:
		return 180, 120, 0
	case OutcomeNotFound:
		return 200, 0, 0
	default:
		return 128, 0, 128
	}
}
