// Package dataset loads the IPEDS table and derives filtered, null-filled
// views from it. A Dataset is immutable: every filter or fill returns a new
// Dataset and leaves the receiver untouched.
package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Columns the dashboard binds to by name.
const (
	ColInstitution = "Institution"
	ColYear        = "Year"
	ColLat         = "LAT"
	ColLon         = "LON"
)

// missingTokens are the cell values read as missing.
var missingTokens = []string{"", "NA", "NaN", "<nil>"}

// Dataset is an in-memory table of institution metrics across years.
type Dataset struct {
	df dataframe.DataFrame
}

// ColumnInfo summarizes one column for schema listings.
type ColumnInfo struct {
	Name     string
	Type     string
	Missing  int
	Distinct int
}

// ReadCSV parses CSV content with a header row into a Dataset.
func ReadCSV(r io.Reader) (*Dataset, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, unavailable("parse csv: %v", err)
	}
	return FromRecords(records)
}

// FromRecords builds a Dataset from string records; the first record is the header.
// A header with no rows yields an empty Dataset of string columns.
func FromRecords(records [][]string) (*Dataset, error) {
	switch len(records) {
	case 0:
		return nil, unavailable("table has no header")
	case 1:
		return headerOnly(records[0])
	}
	df := dataframe.LoadRecords(records, dataframe.NaNValues(missingTokens))
	if df.Err != nil {
		return nil, unavailable("load records: %v", df.Err)
	}
	return FromDataFrame(df)
}

func headerOnly(header []string) (*Dataset, error) {
	cols := make([]series.Series, len(header))
	for i, name := range header {
		cols[i] = series.New([]string{}, series.String, name)
	}
	return FromDataFrame(dataframe.New(cols...))
}

// FromDataFrame wraps an existing gota DataFrame.
func FromDataFrame(df dataframe.DataFrame) (*Dataset, error) {
	if df.Err != nil {
		return nil, unavailable("dataframe: %v", df.Err)
	}
	if df.Ncol() == 0 {
		return nil, unavailable("table has no columns")
	}
	return &Dataset{df: df}, nil
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return d.df.Nrow() }

// Columns returns the column names in file order.
func (d *Dataset) Columns() []string { return d.df.Names() }

// HasColumn reports whether name is part of the schema.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.df.Names() {
		if c == name {
			return true
		}
	}
	return false
}

// Require returns ErrColumnNotFound for the first name missing from the schema.
func (d *Dataset) Require(names ...string) error {
	for _, n := range names {
		if !d.HasColumn(n) {
			return columnNotFound(n)
		}
	}
	return nil
}

func (d *Dataset) col(name string) (series.Series, error) {
	if !d.HasColumn(name) {
		return series.Series{}, columnNotFound(name)
	}
	return d.df.Col(name), nil
}

// Strings returns the column as text. Missing cells are empty strings and
// floats use the shortest form that round-trips ("0.81", not "0.810000").
func (d *Dataset) Strings(name string) ([]string, error) {
	s, err := d.col(name)
	if err != nil {
		return nil, err
	}
	return cellText(s), nil
}

func cellText(s series.Series) []string {
	nan := s.IsNaN()
	var out []string
	if s.Type() == series.Float {
		vals := s.Float()
		out = make([]string, len(vals))
		for i, v := range vals {
			out[i] = FormatFloat(v)
		}
	} else {
		out = s.Records()
	}
	for i, na := range nan {
		if na {
			out[i] = ""
		}
	}
	return out
}

// FormatFloat writes v in its shortest round-trip decimal form.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Floats returns the column as numbers. Missing or non-numeric cells are NaN.
func (d *Dataset) Floats(name string) ([]float64, error) {
	s, err := d.col(name)
	if err != nil {
		return nil, err
	}
	return s.Float(), nil
}

// Missing reports, per row, whether the cell in the column is missing.
func (d *Dataset) Missing(name string) ([]bool, error) {
	s, err := d.col(name)
	if err != nil {
		return nil, err
	}
	return s.IsNaN(), nil
}

// IsNumeric reports whether the column was detected as int or float.
func (d *Dataset) IsNumeric(name string) bool {
	s, err := d.col(name)
	if err != nil {
		return false
	}
	return s.Type() == series.Int || s.Type() == series.Float
}

// Unique returns the distinct non-missing values of a column in first-seen order.
func (d *Dataset) Unique(name string) ([]string, error) {
	s, err := d.col(name)
	if err != nil {
		return nil, err
	}
	records := cellText(s)
	seen := make(map[string]bool, len(records))
	var out []string
	for i, na := range s.IsNaN() {
		if na || seen[records[i]] {
			continue
		}
		seen[records[i]] = true
		out = append(out, records[i])
	}
	return out, nil
}

// Years returns the distinct values of the Year column, newest first.
func (d *Dataset) Years() ([]int, error) {
	s, err := d.col(ColYear)
	if err != nil {
		return nil, err
	}
	seen := make(map[int]bool)
	var years []int
	for i := 0; i < s.Len(); i++ {
		e := s.Elem(i)
		if e.IsNA() {
			continue
		}
		f := e.Float()
		if math.IsNaN(f) {
			continue
		}
		y := int(f)
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

// FilterYear returns the rows whose Year equals year exactly.
// No matching rows yields an empty Dataset, not an error.
func (d *Dataset) FilterYear(year int) (*Dataset, error) {
	if err := d.Require(ColYear); err != nil {
		return nil, err
	}
	if d.Len() == 0 {
		return d, nil
	}
	out := d.df.Filter(dataframe.F{
		Colname:    ColYear,
		Comparator: series.Eq,
		Comparando: year,
	})
	if out.Err != nil {
		return nil, unavailable("filter %s == %d: %v", ColYear, year, out.Err)
	}
	return &Dataset{df: out}, nil
}

// FilterIn returns the rows whose value in name is one of values.
// An empty value set means no filter: the receiver is returned as is.
func (d *Dataset) FilterIn(name string, values []string) (*Dataset, error) {
	if err := d.Require(name); err != nil {
		return nil, err
	}
	if len(values) == 0 || d.Len() == 0 {
		return d, nil
	}
	out := d.df.Filter(dataframe.F{
		Colname:    name,
		Comparator: series.In,
		Comparando: values,
	})
	if out.Err != nil {
		return nil, unavailable("filter %s in %v: %v", name, values, out.Err)
	}
	return &Dataset{df: out}, nil
}

// FillMissing returns a Dataset where missing cells of the column hold value.
// Present cells keep their original value and type.
func (d *Dataset) FillMissing(name string, value float64) (*Dataset, error) {
	s, err := d.col(name)
	if err != nil {
		return nil, err
	}
	nan := s.IsNaN()
	if !anyTrue(nan) {
		return d, nil
	}

	var filled series.Series
	switch s.Type() {
	case series.Float:
		vals := s.Float()
		for i, na := range nan {
			if na {
				vals[i] = value
			}
		}
		filled = series.New(vals, series.Float, name)
	case series.Int:
		vals := make([]int, s.Len())
		for i := range vals {
			if nan[i] {
				vals[i] = int(value)
				continue
			}
			v, err := s.Elem(i).Int()
			if err != nil {
				return nil, unavailable("fill %s row %d: %v", name, i, err)
			}
			vals[i] = v
		}
		filled = series.New(vals, series.Int, name)
	case series.Bool:
		vals := s.Float()
		for i, na := range nan {
			if na {
				vals[i] = value
			}
		}
		filled = series.New(vals, series.Float, name)
	default:
		vals := s.Records()
		for i, na := range nan {
			if na {
				vals[i] = FormatFloat(value)
			}
		}
		filled = series.New(vals, series.String, name)
	}

	out := d.df.Mutate(filled)
	if out.Err != nil {
		return nil, unavailable("fill %s: %v", name, out.Err)
	}
	return &Dataset{df: out}, nil
}

// Records returns the table as text with the header as the first record.
func (d *Dataset) Records() [][]string { return d.df.Records() }

// WriteCSV writes the table as CSV with a header row.
func (d *Dataset) WriteCSV(w io.Writer) error { return d.df.WriteCSV(w) }

// Schema describes every column.
func (d *Dataset) Schema() []ColumnInfo {
	names := d.df.Names()
	types := d.df.Types()
	out := make([]ColumnInfo, 0, len(names))
	for i, n := range names {
		missing := 0
		nan, _ := d.Missing(n)
		for _, na := range nan {
			if na {
				missing++
			}
		}
		uniq, _ := d.Unique(n)
		out = append(out, ColumnInfo{
			Name:     n,
			Type:     string(types[i]),
			Missing:  missing,
			Distinct: len(uniq),
		})
	}
	return out
}

func anyTrue(bs []bool) bool {
	for _, b := range bs {
		if b {
			return true
		}
	}
	return false
}
