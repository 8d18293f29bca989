package chart

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"ipedsviz/internal/controls"
	"ipedsviz/internal/dataset"
)

const (
	ScatterTitle = "Scatter Plot"
	MapTitle     = "Map View (Animated)"
)

// Render builds the chart for the active mode of sel.
func Render(ctx context.Context, ds *dataset.Dataset, sel controls.Selection) (*Spec, error) {
	_, span := otel.Tracer("ipedsviz/chart").Start(ctx, "chart.render")
	defer span.End()
	span.SetAttributes(attribute.String("ipedsviz.mode", sel.Mode.String()))

	var (
		spec *Spec
		err  error
	)
	if sel.Mode == controls.MapView {
		spec, err = GeoScatter(ds, sel.Map)
	} else {
		spec, err = Scatter(ds, sel.Plot)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("ipedsviz.rows", spec.Rows),
		attribute.Int("ipedsviz.points", spec.Points()),
		attribute.Int("ipedsviz.frames", len(spec.Frames)),
	)
	return spec, nil
}

// View returns the filtered rows the chart for sel is drawn from.
func View(ds *dataset.Dataset, sel controls.Selection) (*dataset.Dataset, error) {
	if sel.Mode == controls.MapView {
		return geoView(ds, sel.Map)
	}
	return scatterView(ds, sel.Plot)
}

func scatterView(ds *dataset.Dataset, sel controls.PlotSelection) (*dataset.Dataset, error) {
	if err := ds.Require(sel.X, sel.Y, sel.Display, sel.Color); err != nil {
		return nil, err
	}
	return ds.FilterYear(sel.Year)
}

func geoView(ds *dataset.Dataset, sel controls.MapSelection) (*dataset.Dataset, error) {
	if err := ds.Require(dataset.ColLat, dataset.ColLon, dataset.ColYear, dataset.ColInstitution, sel.FilterColumn, sel.SizeColumn); err != nil {
		return nil, err
	}
	view, err := ds.FilterIn(sel.FilterColumn, sel.FilterValues)
	if err != nil {
		return nil, err
	}
	return view.FillMissing(sel.SizeColumn, DefaultSize)
}

// Scatter plots sel.Y against sel.X for the rows of sel.Year, colored by
// sel.Color on the plasma scale with sel.Display as hover text. Rows
// whose X or Y is missing are not drawn.
func Scatter(ds *dataset.Dataset, sel controls.PlotSelection) (*Spec, error) {
	view, err := scatterView(ds, sel)
	if err != nil {
		return nil, err
	}

	xs, err := view.Floats(sel.X)
	if err != nil {
		return nil, err
	}
	ys, err := view.Floats(sel.Y)
	if err != nil {
		return nil, err
	}
	hover, err := view.Strings(sel.Display)
	if err != nil {
		return nil, err
	}
	colors, values, bar, err := colorChannel(view, sel.Color)
	if err != nil {
		return nil, err
	}

	points := make([]Point, 0, len(xs))
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		points = append(points, Point{
			X:          xs[i],
			Y:          ys[i],
			Size:       DefaultSize,
			Color:      colors[i],
			Hover:      hover[i],
			ColorValue: values[i],
		})
	}

	return &Spec{
		Kind:  KindScatter,
		Title: ScatterTitle,
		Channels: Channels{
			X:     sel.X,
			Y:     sel.Y,
			Color: sel.Color,
			Hover: sel.Display,
		},
		Labels: map[string]string{
			sel.X:       "X-axis",
			sel.Y:       "Y-axis",
			sel.Display: "Displayed Variable",
		},
		Marker: Marker{
			Symbol:    "circle-open",
			Size:      DefaultSize,
			LineWidth: 2,
			LineColor: "white",
		},
		ColorScale: Plasma().Name,
		ColorBar:   bar,
		SizeRange:  Range{DefaultSize, DefaultSize},
		Frames:     []Frame{{Points: points}},
		Rows:       view.Len(),
		Notice:     axisNotice(view, sel),
	}, nil
}

// axisNotice names the first axis column that holds text, since none of
// its rows can be placed.
func axisNotice(view *dataset.Dataset, sel controls.PlotSelection) string {
	if view.Len() == 0 {
		return ""
	}
	for _, a := range []struct{ label, column string }{{"X-axis", sel.X}, {"Y-axis", sel.Y}} {
		if !view.IsNumeric(a.column) {
			return fmt.Sprintf("%s column %q is not numeric", a.label, a.column)
		}
	}
	return ""
}

// colorChannel resolves a color and a color value per row. Numeric columns
// interpolate their min..max range and keep their raw values; other columns
// spread their distinct values evenly and report each row's category index.
// Missing cells get MissingColor and a NaN value.
func colorChannel(view *dataset.Dataset, column string) ([]string, []float64, *ColorBar, error) {
	scale := Plasma()
	bar := &ColorBar{Title: column, Stops: scale.Stops()}

	if view.IsNumeric(column) {
		vals, err := view.Floats(column)
		if err != nil {
			return nil, nil, nil, err
		}
		bar.Numeric = true
		lo, hi := extent(vals)
		if !math.IsNaN(lo) {
			bar.Min, bar.Max = lo, hi
		}
		out := make([]string, len(vals))
		for i, v := range vals {
			out[i] = scale.Hex(normalize(v, lo, hi))
		}
		return out, vals, bar, nil
	}

	cats, err := view.Unique(column)
	if err != nil {
		return nil, nil, nil, err
	}
	bar.Categories = cats
	text, err := view.Strings(column)
	if err != nil {
		return nil, nil, nil, err
	}
	out := make([]string, len(text))
	vals := make([]float64, len(text))
	for i, v := range text {
		idx := indexOf(cats, v)
		if v == "" || idx < 0 {
			out[i] = MissingColor
			vals[i] = math.NaN()
			continue
		}
		out[i] = scale.Hex(categoryPos(idx, len(cats)))
		vals[i] = float64(idx)
	}
	return out, vals, bar, nil
}

// categoryPos spreads n categories over [0, 1]; a lone category sits at 0.
func categoryPos(idx, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(idx) / float64(n-1)
}

func normalize(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return math.NaN()
	}
	if hi <= lo {
		return 0
	}
	return (v - lo) / (hi - lo)
}

// extent returns the min and max of the non-NaN values, or NaN, NaN.
func extent(vals []float64) (lo, hi float64) {
	lo, hi = math.NaN(), math.NaN()
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(lo) || v < lo {
			lo = v
		}
		if math.IsNaN(hi) || v > hi {
			hi = v
		}
	}
	return lo, hi
}

// GeoScatter places one marker per institution on a world map, animated
// over Year. Rows are kept when sel.FilterColumn holds one of
// sel.FilterValues (all rows when none are chosen). Missing values of
// sel.SizeColumn are drawn at DefaultSize.
func GeoScatter(ds *dataset.Dataset, sel controls.MapSelection) (*Spec, error) {
	view, err := geoView(ds, sel)
	if err != nil {
		return nil, err
	}

	lats, err := view.Floats(dataset.ColLat)
	if err != nil {
		return nil, err
	}
	lons, err := view.Floats(dataset.ColLon)
	if err != nil {
		return nil, err
	}
	years, err := view.Floats(dataset.ColYear)
	if err != nil {
		return nil, err
	}
	sizes, err := view.Floats(sel.SizeColumn)
	if err != nil {
		return nil, err
	}
	names, err := view.Strings(dataset.ColInstitution)
	if err != nil {
		return nil, err
	}

	byYear := make(map[int][]Point)
	sizeRange := Range{math.NaN(), math.NaN()}
	for i := range lats {
		if math.IsNaN(lats[i]) || math.IsNaN(lons[i]) || math.IsNaN(years[i]) {
			continue
		}
		size := sizes[i]
		if math.IsNaN(size) {
			size = DefaultSize
		}
		if math.IsNaN(sizeRange.Min) || size < sizeRange.Min {
			sizeRange.Min = size
		}
		if math.IsNaN(sizeRange.Max) || size > sizeRange.Max {
			sizeRange.Max = size
		}
		y := int(years[i])
		byYear[y] = append(byYear[y], Point{
			X:          lons[i],
			Y:          lats[i],
			Size:       size,
			Color:      GeoColor,
			Hover:      names[i],
			ColorValue: math.NaN(),
		})
	}
	if math.IsNaN(sizeRange.Min) {
		sizeRange = Range{DefaultSize, DefaultSize}
	}

	order := make([]int, 0, len(byYear))
	for y := range byYear {
		order = append(order, y)
	}
	sort.Ints(order)
	frames := make([]Frame, 0, len(order))
	for _, y := range order {
		frames = append(frames, Frame{Name: strconv.Itoa(y), Points: byYear[y]})
	}

	return &Spec{
		Kind:  KindScatterGeo,
		Title: MapTitle,
		Channels: Channels{
			Lat:       dataset.ColLat,
			Lon:       dataset.ColLon,
			Size:      sel.SizeColumn,
			HoverName: dataset.ColInstitution,
			Frame:     dataset.ColYear,
		},
		Labels: map[string]string{
			dataset.ColLat: "LAT",
			dataset.ColLon: "LON",
			"text":         dataset.ColInstitution,
		},
		Marker: Marker{
			Symbol:  "circle",
			SizeMax: MaxMarkerSize,
		},
		SizeRange: sizeRange,
		Frames:    frames,
		Rows:      view.Len(),
	}, nil
}

func indexOf(opts []string, v string) int {
	for i, o := range opts {
		if o == v {
			return i
		}
	}
	return -1
}
