package report

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// SummaryTable renders per-sheet counts with the total as a footer.
func SummaryTable(sheets []Stats, total Stats) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Sheet", "Total", "Exact", "Fuzzy", "Not found", "Errors"})
	for _, s := range sheets {
		tw.AppendRow(statsRow(s.Sheet, s))
	}
	tw.AppendFooter(statsRow("All", total))
	configs := []table.ColumnConfig{{Number: 1, Align: text.AlignLeft}}
	for i := 2; i <= 6; i++ {
		configs = append(configs, table.ColumnConfig{Number: i, Align: text.AlignRight, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func statsRow(name string, s Stats) table.Row {
	return table.Row{name, fmt.Sprint(s.Total), fmt.Sprint(s.Exact), fmt.Sprint(s.Fuzzy), fmt.Sprint(s.NotFound), fmt.Sprint(s.Errors)}
}
