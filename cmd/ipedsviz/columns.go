package main

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"ipedsviz/internal/dataset"
)

func writeColumns(w io.Writer, cols []dataset.ColumnInfo) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Column", "Type", "Missing", "Distinct"})
	table.SetAutoWrapText(false)
	for _, c := range cols {
		table.Append([]string{c.Name, c.Type, strconv.Itoa(c.Missing), strconv.Itoa(c.Distinct)})
	}
	table.Render()
}
