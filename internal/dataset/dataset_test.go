package dataset_test

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipedsviz/internal/dataset"
	"ipedsviz/internal/dataset/datasettest"
)

func TestReadCSV_Schema(t *testing.T) {
	ds := datasettest.Sample(t)

	assert.Equal(t, 9, ds.Len())
	assert.Equal(t, []string{
		"Institution", "Year", "LAT", "LON", "State", "Retention Rate",
		datasettest.Circulations, datasettest.Carnegie, "Enrollment",
	}, ds.Columns())
	assert.True(t, ds.IsNumeric("Retention Rate"))
	assert.True(t, ds.IsNumeric("Year"))
	assert.False(t, ds.IsNumeric("State"))
}

func TestReadCSV_HTMLPageIsUnavailable(t *testing.T) {
	page := "<!DOCTYPE html>\n<html lang=\"en\" data-color-mode=\"auto\">\n<head><meta charset=\"utf-8\"></head>\n<body>a,b,c</body></html>\n"
	_, err := dataset.ReadCSV(strings.NewReader(page))
	require.Error(t, err)
	assert.ErrorIs(t, err, dataset.ErrDataUnavailable)
}

func TestReadCSV_HeaderOnlyIsEmpty(t *testing.T) {
	ds, err := dataset.ReadCSV(strings.NewReader("Institution,Year,LAT,LON,State\n"))
	require.NoError(t, err)

	assert.Equal(t, 0, ds.Len())
	assert.Equal(t, []string{"Institution", "Year", "LAT", "LON", "State"}, ds.Columns())
	years, err := ds.Years()
	require.NoError(t, err)
	assert.Empty(t, years)
	view, err := ds.FilterIn("State", []string{"TX"})
	require.NoError(t, err)
	assert.Equal(t, 0, view.Len())
}

func TestReadCSV_NoHeaderIsUnavailable(t *testing.T) {
	_, err := dataset.ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, dataset.ErrDataUnavailable)
}

func TestColumn_NotFound(t *testing.T) {
	ds := datasettest.Sample(t)

	_, err := ds.Floats("Nope")
	assert.ErrorIs(t, err, dataset.ErrColumnNotFound)
	assert.ErrorIs(t, ds.Require("Year", "Nope"), dataset.ErrColumnNotFound)
	assert.NoError(t, ds.Require("Year", "LAT"))
}

func TestYears_DescendingDistinct(t *testing.T) {
	ds := datasettest.Sample(t)

	years, err := ds.Years()
	require.NoError(t, err)
	assert.Equal(t, []int{2020, 2019, 2018}, years)
}

func TestFilterYear_ExactMatch(t *testing.T) {
	ds := datasettest.Sample(t)

	got, err := ds.FilterYear(2019)
	require.NoError(t, err)
	require.Equal(t, 3, got.Len())

	years, err := got.Floats("Year")
	require.NoError(t, err)
	for _, y := range years {
		assert.Equal(t, 2019.0, y)
	}
	names, _ := got.Strings("Institution")
	assert.Equal(t, []string{"Alpha College", "Beta University", "Gamma Institute"}, names)

	// Source is untouched.
	assert.Equal(t, 9, ds.Len())
}

func TestFilterYear_Idempotent(t *testing.T) {
	ds := datasettest.Sample(t)

	once, err := ds.FilterYear(2020)
	require.NoError(t, err)
	twice, err := once.FilterYear(2020)
	require.NoError(t, err)
	assert.Equal(t, once.Records(), twice.Records())
}

func TestFilterYear_NoMatchIsEmpty(t *testing.T) {
	ds := datasettest.Sample(t)

	got, err := ds.FilterYear(1999)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

func TestFilterIn_EmptySetIsIdentity(t *testing.T) {
	ds := datasettest.Sample(t)

	got, err := ds.FilterIn("State", nil)
	require.NoError(t, err)
	assert.Equal(t, ds.Len(), got.Len())
	assert.Equal(t, ds.Records(), got.Records())
}

func TestFilterIn_Membership(t *testing.T) {
	ds := datasettest.Sample(t)

	got, err := ds.FilterIn("State", []string{"CA", "NY"})
	require.NoError(t, err)
	require.Equal(t, 5, got.Len())

	states, _ := got.Strings("State")
	for _, s := range states {
		assert.Contains(t, []string{"CA", "NY"}, s)
	}
}

func TestFilterIn_NumericColumn(t *testing.T) {
	ds := datasettest.Sample(t)

	values, err := ds.Unique("Year")
	require.NoError(t, err)
	require.Len(t, values, 3)

	require.Equal(t, "2018", values[0])

	got, err := ds.FilterIn("Year", values[:1])
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
}

func TestFilterIn_MissingColumn(t *testing.T) {
	ds := datasettest.Sample(t)

	_, err := ds.FilterIn("Region", []string{"x"})
	assert.ErrorIs(t, err, dataset.ErrColumnNotFound)
}

func TestUnique_FirstSeenOrderWithoutMissing(t *testing.T) {
	ds := datasettest.Sample(t)

	states, err := ds.Unique("State")
	require.NoError(t, err)
	assert.Equal(t, []string{"PA", "CA", "NY", "TX"}, states)

	rates, err := ds.Unique("Retention Rate")
	require.NoError(t, err)
	assert.Len(t, rates, 8, "missing rate is not a distinct value")
	assert.Equal(t, "0.81", rates[0])

	lats, err := ds.Unique("LAT")
	require.NoError(t, err)
	assert.Equal(t, []string{"40.1", "34.05", "40.71", "30.27"}, lats)
}

func TestStrings_MissingIsEmpty(t *testing.T) {
	ds := datasettest.Sample(t)

	vals, err := ds.Strings("Enrollment")
	require.NoError(t, err)
	assert.Equal(t, "", vals[1])
	assert.Equal(t, "1500", vals[0])
}

func TestFillMissing_IntColumn(t *testing.T) {
	ds := datasettest.Sample(t)

	filled, err := ds.FillMissing("Enrollment", 10)
	require.NoError(t, err)

	before, _ := ds.Floats("Enrollment")
	after, _ := filled.Floats("Enrollment")
	missing, _ := filled.Missing("Enrollment")
	for i := range after {
		assert.False(t, missing[i])
		if math.IsNaN(before[i]) {
			assert.Equal(t, 10.0, after[i])
		} else {
			assert.Equal(t, before[i], after[i])
		}
	}
	assert.True(t, math.IsNaN(before[1]), "fill must not mutate the source")
}

func TestFillMissing_FloatColumn(t *testing.T) {
	ds := datasettest.Sample(t)

	filled, err := ds.FillMissing("Retention Rate", 10)
	require.NoError(t, err)
	vals, _ := filled.Floats("Retention Rate")
	assert.Equal(t, 10.0, vals[5])
	assert.Equal(t, 0.91, vals[4])
}

func TestFillMissing_StringColumn(t *testing.T) {
	ds, err := dataset.FromRecords([][]string{
		{"Institution", "Tier"},
		{"a", "gold"},
		{"b", ""},
	})
	require.NoError(t, err)

	filled, err := ds.FillMissing("Tier", 10)
	require.NoError(t, err)
	vals, _ := filled.Strings("Tier")
	assert.Equal(t, []string{"gold", "10"}, vals)
}

// One null among 100 rows: that row becomes 10, the rest keep their value.
func TestFillMissing_OneNullInHundred(t *testing.T) {
	records := [][]string{{"Institution", "Size"}}
	for i := 0; i < 100; i++ {
		v := strconv.Itoa(100 + i)
		if i == 42 {
			v = ""
		}
		records = append(records, []string{fmt.Sprintf("inst-%d", i), v})
	}
	ds, err := dataset.FromRecords(records)
	require.NoError(t, err)

	filled, err := ds.FillMissing("Size", 10)
	require.NoError(t, err)
	vals, _ := filled.Floats("Size")
	require.Len(t, vals, 100)
	for i, v := range vals {
		if i == 42 {
			assert.Equal(t, 10.0, v)
			continue
		}
		assert.Equal(t, float64(100+i), v)
	}
}

func TestFillMissing_NoMissingReturnsSame(t *testing.T) {
	ds := datasettest.Sample(t)

	filled, err := ds.FillMissing("LAT", 10)
	require.NoError(t, err)
	assert.Same(t, ds, filled)
}

func TestSchema(t *testing.T) {
	ds := datasettest.Sample(t)

	schema := ds.Schema()
	require.Len(t, schema, 9)
	assert.Equal(t, "Institution", schema[0].Name)
	assert.Equal(t, "string", schema[0].Type)
	assert.Equal(t, 4, schema[0].Distinct)
	assert.Equal(t, "Enrollment", schema[8].Name)
	assert.Equal(t, 1, schema[8].Missing)
}
