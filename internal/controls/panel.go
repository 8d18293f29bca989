package controls

import (
	"strconv"
	"strings"

	"ipedsviz/internal/dataset"
)

// Selector declares one sidebar widget: its options and current choice.
type Selector struct {
	Key     string   `json:"key"`
	Heading string   `json:"heading"`
	Label   string   `json:"label"`
	Options []string `json:"options"`
	// Index is the chosen option for single selectors; -1 when there are no options.
	Index int  `json:"index"`
	Multi bool `json:"multi,omitempty"`
	// Selected holds the chosen options of a multi selector.
	Selected []string `json:"selected,omitempty"`
}

// Value returns the chosen option of a single selector.
func (s Selector) Value() string {
	if s.Index < 0 || s.Index >= len(s.Options) {
		return ""
	}
	return s.Options[s.Index]
}

// Panel is the Control Panel for one mode.
type Panel struct {
	Mode      Mode       `json:"mode"`
	Selectors []Selector `json:"selectors"`

	selection Selection
}

// ModeOptions lists the view-mode radio options in display order.
func ModeOptions() []string { return []string{PlotView.String(), MapView.String()} }

// Build declares the selectors for mode and resolves the selection from req.
// Plot mode fails with dataset.ErrColumnNotFound when a default column is
// needed but missing; any mode fails the same way for a chosen column that
// does not exist.
func Build(ds *dataset.Dataset, mode Mode, req Request, def Defaults) (*Panel, error) {
	if req == nil {
		req = Request{}
	}
	if mode == MapView {
		return buildMap(ds, req)
	}
	return buildPlot(ds, req, def)
}

// Selection returns the resolved Selection State.
func (p *Panel) Selection() Selection { return p.selection }

// Selector returns the selector with key.
func (p *Panel) Selector(key string) (Selector, bool) {
	for _, s := range p.Selectors {
		if s.Key == key {
			return s, true
		}
	}
	return Selector{}, false
}

func buildPlot(ds *dataset.Dataset, req Request, def Defaults) (*Panel, error) {
	x, err := columnSelector(ds, KeyX, "Select X and Y Variables", "X-axis:", req.Get(KeyX), def.X)
	if err != nil {
		return nil, err
	}
	y, err := columnSelector(ds, KeyY, "", "Y-axis:", req.Get(KeyY), def.Y)
	if err != nil {
		return nil, err
	}
	display, err := columnSelector(ds, KeyDisplay, "Select Displayed Variable", "Displayed Variable:", req.Get(KeyDisplay), def.Display)
	if err != nil {
		return nil, err
	}
	color, err := columnSelector(ds, KeyColor, "Select Color Variable", "Color Variable:", req.Get(KeyColor), def.Color)
	if err != nil {
		return nil, err
	}

	years, err := ds.Years()
	if err != nil {
		return nil, err
	}
	yearOpts := make([]string, len(years))
	for i, yv := range years {
		yearOpts[i] = strconv.Itoa(yv)
	}
	year := Selector{
		Key:     KeyYear,
		Heading: "Select Year Filter",
		Label:   "Select Year:",
		Options: yearOpts,
		Index:   indexOr(yearOpts, req.Get(KeyYear), 0),
	}

	sel := Selection{
		Mode: PlotView,
		Plot: PlotSelection{
			X:       x.Value(),
			Y:       y.Value(),
			Display: display.Value(),
			Color:   color.Value(),
		},
	}
	if year.Index >= 0 {
		sel.Plot.Year = years[year.Index]
	}

	return &Panel{
		Mode:      PlotView,
		Selectors: []Selector{x, y, display, color, year},
		selection: sel,
	}, nil
}

func buildMap(ds *dataset.Dataset, req Request) (*Panel, error) {
	cols := ds.Columns()

	filter, err := columnSelector(ds, KeyFilter, "Select Filter Variable", "Filter Variable:", req.Get(KeyFilter), firstOf(cols))
	if err != nil {
		return nil, err
	}
	filter.Heading = "Map View Filters"

	options, err := ds.Unique(filter.Value())
	if err != nil {
		return nil, err
	}
	values := Selector{
		Key:      KeyValues,
		Heading:  "Select Filter Values",
		Label:    "Select Values:",
		Options:  options,
		Index:    -1,
		Multi:    true,
		Selected: intersect(req[KeyValues], options, ds.IsNumeric(filter.Value())),
	}

	size, err := columnSelector(ds, KeySize, "Select Size Variable for Map Dots", "Size Variable:", req.Get(KeySize), firstOf(cols))
	if err != nil {
		return nil, err
	}

	return &Panel{
		Mode:      MapView,
		Selectors: []Selector{filter, values, size},
		selection: Selection{
			Mode: MapView,
			Map: MapSelection{
				FilterColumn: filter.Value(),
				FilterValues: values.Selected,
				SizeColumn:   size.Value(),
			},
		},
	}, nil
}

// columnSelector declares a selector over every column. The chosen value
// wins over the default; either must name an existing column.
func columnSelector(ds *dataset.Dataset, key, heading, label, chosen, fallback string) (Selector, error) {
	cols := ds.Columns()
	want := chosen
	if want == "" {
		want = fallback
	}
	idx := indexOf(cols, want)
	if idx < 0 {
		return Selector{}, dataset.ColumnNotFound(want)
	}
	return Selector{
		Key:     key,
		Heading: heading,
		Label:   label,
		Options: cols,
		Index:   idx,
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

// indexOr returns the index of v, or def when v is empty or absent.
// With no options it returns -1.
func indexOr(opts []string, v string, def int) int {
	if len(opts) == 0 {
		return -1
	}
	if i := indexOf(opts, v); i >= 0 {
		return i
	}
	return def
}

func firstOf(cols []string) string {
	if len(cols) == 0 {
		return ""
	}
	return cols[0]
}

// intersect keeps the requested values that are valid options, in request
// order. For numeric columns values match by number ("0.810" is "0.81") and
// the option's spelling is kept.
func intersect(requested, options []string, numeric bool) []string {
	valid := make(map[string]string, len(options))
	for _, o := range options {
		valid[optionKey(o, numeric)] = o
	}
	out := []string{}
	seen := make(map[string]bool)
	for _, v := range requested {
		o, ok := valid[optionKey(v, numeric)]
		if ok && !seen[o] {
			seen[o] = true
			out = append(out, o)
		}
	}
	return out
}

func optionKey(v string, numeric bool) string {
	if !numeric {
		return v
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return v
	}
	return dataset.FormatFloat(f)
}
