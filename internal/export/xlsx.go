package export

import (
	"io"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	"ipedsviz/internal/chart"
	"ipedsviz/internal/dataset"
)

// Sheet names of the XLSX workbook.
const (
	SheetRows   = "Rows"
	SheetPoints = "Points"
)

// WriteXLSX writes a workbook with the filtered rows and the drawn points.
// Numeric cells are written as numbers, missing cells are left blank.
func WriteXLSX(w io.Writer, view *dataset.Dataset, spec *chart.Spec) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetRows); err != nil {
		return err
	}
	if err := writeRows(f, view); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetPoints); err != nil {
		return err
	}
	if err := writePoints(f, spec); err != nil {
		return err
	}
	_, err := f.WriteTo(w)
	return err
}

func writeRows(f *excelize.File, view *dataset.Dataset) error {
	records := view.Records()
	if len(records) == 0 {
		return nil
	}
	numeric := make([]bool, len(records[0]))
	for i, name := range records[0] {
		numeric[i] = view.IsNumeric(name)
	}
	for r, rec := range records {
		row := make([]any, len(rec))
		for c, v := range rec {
			row[c] = cellValue(v, r > 0 && numeric[c])
		}
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetRows, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writePoints(f *excelize.File, spec *chart.Spec) error {
	header := []any{"Frame", "X", "Y", "Size", "Color", "Hover"}
	if spec.Kind == chart.KindScatterGeo {
		header[1], header[2] = spec.Channels.Lon, spec.Channels.Lat
	} else {
		header[1], header[2] = spec.Channels.X, spec.Channels.Y
	}
	if err := f.SetSheetRow(SheetPoints, "A1", &header); err != nil {
		return err
	}
	r := 2
	for _, fr := range spec.Frames {
		for _, p := range fr.Points {
			row := []any{fr.Name, p.X, p.Y, p.Size, p.Color, p.Hover}
			cell, err := excelize.CoordinatesToCellName(1, r)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(SheetPoints, cell, &row); err != nil {
				return err
			}
			r++
		}
	}
	return nil
}

func cellValue(v string, numeric bool) any {
	if v == "" || v == "NaN" {
		return nil
	}
	if !numeric {
		return v
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(n) {
		return v
	}
	return n
}
