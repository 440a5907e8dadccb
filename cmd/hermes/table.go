package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type column struct {
	title   string
	numeric bool
}

// renderTable draws rows in the rounded style with a row-count footer, so an
// empty result still prints something explicit. Missing and footer cells
// render blank.
func renderTable(columns []column, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := table.Row{}
	configs := make([]table.ColumnConfig, len(columns))
	for i, c := range columns {
		header = append(header, c.title)
		configs[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft}
		if c.numeric {
			configs[i].Align = text.AlignRight
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, cells := range rows {
		row := make(table.Row, len(columns))
		for i := range row {
			row[i] = ""
			if i < len(cells) {
				row[i] = cells[i]
			}
		}
		tw.AppendRow(row)
	}

	footer := make(table.Row, len(columns))
	for i := range footer {
		footer[i] = ""
	}
	footer[0] = rowCount(len(rows))
	tw.AppendFooter(footer)
	return tw.Render()
}

func rowCount(n int) string {
	if n == 1 {
		return "1 row"
	}
	return fmt.Sprintf("%d rows", n)
}
