package chart

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// MissingColor is used for points whose color value is missing.
const MissingColor = "#7f7f7f"

// GeoColor is the single marker color of map traces.
const GeoColor = "#636efa"

// ColorStop is one anchor of a continuous color scale.
type ColorStop struct {
	Pos   float64 `json:"pos"`
	Color string  `json:"color"`
}

// Scale is a continuous color scale sampled between evenly spaced stops.
type Scale struct {
	Name  string
	stops []colorful.Color
	hexes []string
}

var plasmaHex = []string{
	"#0d0887", "#46039f", "#7201a8", "#9c179e", "#bd3786",
	"#d8576b", "#ed7953", "#fb9f3a", "#fdca26", "#f0f921",
}

// Plasma returns the plasma scale.
func Plasma() Scale {
	return mustScale("plasma", plasmaHex)
}

func mustScale(name string, hexes []string) Scale {
	s := Scale{Name: name, hexes: hexes}
	for _, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			panic("chart: bad color stop " + h)
		}
		s.stops = append(s.stops, c)
	}
	return s
}

// At samples the scale at t in [0, 1]; t outside the range is clamped.
func (s Scale) At(t float64) colorful.Color {
	if math.IsNaN(t) {
		c, _ := colorful.Hex(MissingColor)
		return c
	}
	t = math.Max(0, math.Min(1, t))
	n := len(s.stops) - 1
	if n <= 0 {
		return s.stops[0]
	}
	pos := t * float64(n)
	i := int(math.Floor(pos))
	if i >= n {
		return s.stops[n]
	}
	return s.stops[i].BlendRgb(s.stops[i+1], pos-float64(i)).Clamped()
}

// Hex samples the scale at t and returns a #rrggbb color.
func (s Scale) Hex(t float64) string {
	if math.IsNaN(t) {
		return MissingColor
	}
	return s.At(t).Hex()
}

// Stops returns the scale anchors.
func (s Scale) Stops() []ColorStop {
	n := len(s.hexes) - 1
	out := make([]ColorStop, len(s.hexes))
	for i, h := range s.hexes {
		pos := 0.0
		if n > 0 {
			pos = float64(i) / float64(n)
		}
		out[i] = ColorStop{Pos: pos, Color: h}
	}
	return out
}
