package controls_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipedsviz/internal/controls"
	"ipedsviz/internal/dataset"
	"ipedsviz/internal/dataset/datasettest"
)

func TestBuild_PlotDefaults(t *testing.T) {
	ds := datasettest.Sample(t)

	p, err := controls.Build(ds, controls.PlotView, nil, controls.DefaultColumns())
	require.NoError(t, err)

	sel := p.Selection()
	assert.Equal(t, controls.PlotView, sel.Mode)
	assert.Equal(t, "Retention Rate", sel.Plot.X)
	assert.Equal(t, datasettest.Circulations, sel.Plot.Y)
	assert.Equal(t, "Institution", sel.Plot.Display)
	assert.Equal(t, datasettest.Carnegie, sel.Plot.Color)
	assert.Equal(t, 2020, sel.Plot.Year, "latest year is the default")

	year, ok := p.Selector(controls.KeyYear)
	require.True(t, ok)
	assert.Equal(t, []string{"2020", "2019", "2018"}, year.Options)
}

func TestBuild_PlotOptionsAreLiveColumns(t *testing.T) {
	ds := datasettest.Sample(t)

	p, err := controls.Build(ds, controls.PlotView, nil, controls.DefaultColumns())
	require.NoError(t, err)
	for _, key := range []string{controls.KeyX, controls.KeyY, controls.KeyDisplay, controls.KeyColor} {
		s, ok := p.Selector(key)
		require.True(t, ok, key)
		assert.Equal(t, ds.Columns(), s.Options, key)
	}
}

func TestBuild_PlotExplicitChoices(t *testing.T) {
	ds := datasettest.Sample(t)
	req := controls.Request{}
	req.Set(controls.KeyX, "Enrollment")
	req.Set(controls.KeyY, "LAT")
	req.Set(controls.KeyYear, "2019")

	p, err := controls.Build(ds, controls.PlotView, req, controls.DefaultColumns())
	require.NoError(t, err)
	sel := p.Selection().Plot
	assert.Equal(t, "Enrollment", sel.X)
	assert.Equal(t, "LAT", sel.Y)
	assert.Equal(t, 2019, sel.Year)
}

func TestBuild_PlotUnknownYearFallsBack(t *testing.T) {
	ds := datasettest.Sample(t)
	req := controls.Request{controls.KeyYear: {"1990"}}

	p, err := controls.Build(ds, controls.PlotView, req, controls.DefaultColumns())
	require.NoError(t, err)
	assert.Equal(t, 2020, p.Selection().Plot.Year)
}

func TestBuild_PlotMissingDefaultColumn(t *testing.T) {
	ds := datasettest.WithoutColumn(t, "Retention Rate")

	_, err := controls.Build(ds, controls.PlotView, nil, controls.DefaultColumns())
	require.Error(t, err)
	assert.ErrorIs(t, err, dataset.ErrColumnNotFound)
	assert.Contains(t, err.Error(), "Retention Rate")
}

func TestBuild_PlotMissingDefaultOverridden(t *testing.T) {
	ds := datasettest.WithoutColumn(t, "Retention Rate")
	req := controls.Request{controls.KeyX: {"Enrollment"}}

	p, err := controls.Build(ds, controls.PlotView, req, controls.DefaultColumns())
	require.NoError(t, err)
	assert.Equal(t, "Enrollment", p.Selection().Plot.X)
}

func TestBuild_PlotUnknownChosenColumn(t *testing.T) {
	ds := datasettest.Sample(t)
	req := controls.Request{controls.KeyColor: {"Region"}}

	_, err := controls.Build(ds, controls.PlotView, req, controls.DefaultColumns())
	assert.ErrorIs(t, err, dataset.ErrColumnNotFound)
}

func TestBuild_MapDefaults(t *testing.T) {
	ds := datasettest.Sample(t)

	p, err := controls.Build(ds, controls.MapView, nil, controls.DefaultColumns())
	require.NoError(t, err)
	sel := p.Selection()
	assert.Equal(t, controls.MapView, sel.Mode)
	assert.Equal(t, "Institution", sel.Map.FilterColumn)
	assert.Equal(t, "Institution", sel.Map.SizeColumn)
	assert.Empty(t, sel.Map.FilterValues)

	values, ok := p.Selector(controls.KeyValues)
	require.True(t, ok)
	assert.True(t, values.Multi)
	assert.Equal(t, []string{"Alpha College", "Beta University", "Gamma Institute", "Delta State"}, values.Options)
}

func TestBuild_MapValuesFollowFilterColumn(t *testing.T) {
	ds := datasettest.Sample(t)
	req := controls.Request{
		controls.KeyFilter: {"State"},
		controls.KeyValues: {"CA", "NY", "ZZ", "CA"},
		controls.KeySize:   {"Enrollment"},
	}

	p, err := controls.Build(ds, controls.MapView, req, controls.DefaultColumns())
	require.NoError(t, err)
	values, _ := p.Selector(controls.KeyValues)
	assert.Equal(t, []string{"PA", "CA", "NY", "TX"}, values.Options)

	sel := p.Selection().Map
	assert.Equal(t, "State", sel.FilterColumn)
	assert.Equal(t, []string{"CA", "NY"}, sel.FilterValues, "unknown and repeated values are dropped")
	assert.Equal(t, "Enrollment", sel.SizeColumn)
}

func TestBuild_MapFloatFilterColumn(t *testing.T) {
	ds := datasettest.Sample(t)
	req := controls.Request{
		controls.KeyFilter: {"Retention Rate"},
		controls.KeyValues: {"0.81", "0.900", "0.9", "0.5"},
	}

	p, err := controls.Build(ds, controls.MapView, req, controls.DefaultColumns())
	require.NoError(t, err)
	values, _ := p.Selector(controls.KeyValues)
	assert.Equal(t, []string{"0.81", "0.83", "0.85", "0.9", "0.91", "0.77", "0.79", "0.7"}, values.Options)

	sel := p.Selection().Map
	assert.Equal(t, []string{"0.81", "0.9"}, sel.FilterValues, "values match by number and keep the option spelling")

	view, err := ds.FilterIn(sel.FilterColumn, sel.FilterValues)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Len())
}

func TestBuild_MapDoesNotNeedPlotDefaults(t *testing.T) {
	ds := datasettest.WithoutColumn(t, "Retention Rate")

	_, err := controls.Build(ds, controls.MapView, nil, controls.DefaultColumns())
	assert.NoError(t, err)
}

func TestParseMode(t *testing.T) {
	m, err := controls.ParseMode("MAP")
	require.NoError(t, err)
	assert.Equal(t, controls.MapView, m)

	m, err = controls.ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, controls.PlotView, m)

	_, err = controls.ParseMode("table")
	assert.Error(t, err)

	assert.Equal(t, controls.MapView, controls.PlotView.Toggle())
	assert.Equal(t, controls.PlotView, controls.MapView.Toggle())
}

func TestRequestClone(t *testing.T) {
	req := controls.Request{controls.KeyValues: {"CA"}}
	c := req.Clone()
	c[controls.KeyValues][0] = "NY"
	assert.Equal(t, "CA", req.Get(controls.KeyValues))
}
