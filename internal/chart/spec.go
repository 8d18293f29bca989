// Package chart turns a dataset and a Selection State into a declarative
// chart description (Spec). Render is a pure function of its inputs: every
// interaction rebuilds it from scratch.
package chart

import "math"

// Kind is the trace type of a Spec.
type Kind string

const (
	KindScatter    Kind = "scatter"
	KindScatterGeo Kind = "scattergeo"
)

const (
	// DefaultSize replaces missing values of the map's size column.
	DefaultSize = 10.0
	// MaxMarkerSize is the marker diameter, in px, of the largest size value.
	MaxMarkerSize = 20.0
)

// Channels names the column bound to each visual channel.
type Channels struct {
	X         string `json:"x,omitempty"`
	Y         string `json:"y,omitempty"`
	Lat       string `json:"lat,omitempty"`
	Lon       string `json:"lon,omitempty"`
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
	Hover     string `json:"hover,omitempty"`
	HoverName string `json:"hoverName,omitempty"`
	Frame     string `json:"frame,omitempty"`
}

// Marker is the fixed marker styling of a trace.
type Marker struct {
	Symbol    string  `json:"symbol"`
	Size      float64 `json:"size,omitempty"`
	LineWidth float64 `json:"lineWidth,omitempty"`
	LineColor string  `json:"lineColor,omitempty"`
	SizeMax   float64 `json:"sizeMax,omitempty"`
}

// ColorBar describes how point colors were derived.
type ColorBar struct {
	Title string `json:"title"`
	// Numeric is true when colors interpolate Min..Max; otherwise
	// Categories are spread evenly along the scale.
	Numeric    bool        `json:"numeric"`
	Min        float64     `json:"min"`
	Max        float64     `json:"max"`
	Categories []string    `json:"categories,omitempty"`
	Stops      []ColorStop `json:"stops"`
}

// Range is a closed numeric interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Point is one resolved marker. For geo traces X is longitude and Y latitude.
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
	Color string  `json:"color"`
	Hover string  `json:"hover"`

	// ColorValue is the raw color-channel value; NaN when missing.
	ColorValue float64 `json:"-"`
}

// Frame is one animation step. Static charts have a single unnamed frame.
type Frame struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// Spec is the declarative chart handed to a rendering surface.
type Spec struct {
	Kind     Kind              `json:"kind"`
	Title    string            `json:"title"`
	Channels Channels          `json:"channels"`
	Labels   map[string]string `json:"labels"`
	Marker   Marker            `json:"marker"`
	// ColorScale names the continuous scale of the color channel.
	ColorScale string    `json:"colorScale,omitempty"`
	ColorBar   *ColorBar `json:"colorBar,omitempty"`
	// SizeRange spans the size values over all frames.
	SizeRange Range   `json:"sizeRange"`
	Frames    []Frame `json:"frames"`
	// Rows is the row count of the filtered view the chart was built from.
	Rows int `json:"rows"`
	// Notice explains why rows were not drawn, when the reason is not the filter.
	Notice string `json:"notice,omitempty"`
}

// Label returns the display label for a column, falling back to its name.
func (s *Spec) Label(column string) string {
	if l, ok := s.Labels[column]; ok {
		return l
	}
	return column
}

// Animated reports whether the spec has more than one frame.
func (s *Spec) Animated() bool { return len(s.Frames) > 1 }

// Points returns the total number of points over all frames.
func (s *Spec) Points() int {
	n := 0
	for _, f := range s.Frames {
		n += len(f.Points)
	}
	return n
}

// Empty reports whether there is nothing to draw. An empty filter result
// yields an empty spec rather than an error.
func (s *Spec) Empty() bool { return s.Points() == 0 }

// Bounds returns the X and Y extents over all frames.
func (s *Spec) Bounds() (x, y Range) {
	first := true
	for _, f := range s.Frames {
		for _, p := range f.Points {
			if first {
				x = Range{p.X, p.X}
				y = Range{p.Y, p.Y}
				first = false
				continue
			}
			x.Min, x.Max = math.Min(x.Min, p.X), math.Max(x.Max, p.X)
			y.Min, y.Max = math.Min(y.Min, p.Y), math.Max(y.Max, p.Y)
		}
	}
	return x, y
}

// MarkerDiameter scales a size value to a marker diameter in px, area
// proportional to the value, MaxMarkerSize at SizeRange.Max.
func (s *Spec) MarkerDiameter(v float64) float64 {
	if s.Kind != KindScatterGeo {
		return s.Marker.Size
	}
	if v <= 0 || s.SizeRange.Max <= 0 {
		return 0
	}
	return math.Sqrt(v/s.SizeRange.Max) * s.Marker.SizeMax
}
