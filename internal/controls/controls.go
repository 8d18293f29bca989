// Package controls derives the dashboard's selector declarations from a
// loaded dataset and resolves the current Selection State.
//
// Hosts keep the user's raw choices in a Request and call Build on every
// interaction; option lists and defaults are recomputed from the dataset
// each time, so nothing here is cached between interactions.
package controls

import (
	"fmt"
	"strings"

	"ipedsviz/internal/dataset"
)

// Mode selects which view is rendered.
type Mode int

const (
	PlotView Mode = iota
	MapView
)

func (m Mode) String() string {
	switch m {
	case PlotView:
		return "Plot"
	case MapView:
		return "Map"
	default:
		return "Unknown"
	}
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == PlotView {
		return MapView
	}
	return PlotView
}

// ParseMode accepts "plot" or "map" in any case. Empty means PlotView.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "plot":
		return PlotView, nil
	case "map":
		return MapView, nil
	default:
		return PlotView, fmt.Errorf("unknown view mode %q (want plot or map)", s)
	}
}

// Selector keys, shared by every host (query parameters, sidebar rows).
const (
	KeyX       = "x"
	KeyY       = "y"
	KeyDisplay = "display"
	KeyColor   = "color"
	KeyYear    = "year"
	KeyFilter  = "filter"
	KeyValues  = "values"
	KeySize    = "size"
)

// Defaults are the columns Plot mode binds to when nothing was chosen.
type Defaults struct {
	X       string `yaml:"x"`
	Y       string `yaml:"y"`
	Display string `yaml:"display"`
	Color   string `yaml:"color"`
}

// DefaultColumns returns the IPEDS column defaults.
func DefaultColumns() Defaults {
	return Defaults{
		X:       "Retention Rate",
		Y:       "Total digital/electronic circulations (books and media)",
		Display: dataset.ColInstitution,
		Color:   "Carnegie Classification 2010: Basic",
	}
}

// Request holds the raw choices a host collected, keyed by selector key.
// It has the same shape as url.Values.
type Request map[string][]string

// Get returns the first value for key, or "".
func (r Request) Get(key string) string {
	if vs := r[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Set replaces the values for key.
func (r Request) Set(key string, values ...string) {
	r[key] = values
}

// Clone returns a deep copy.
func (r Request) Clone() Request {
	out := make(Request, len(r))
	for k, vs := range r {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// PlotSelection is the resolved Plot mode state.
type PlotSelection struct {
	X       string `json:"x"`
	Y       string `json:"y"`
	Display string `json:"display"`
	Color   string `json:"color"`
	Year    int    `json:"year"`
}

// MapSelection is the resolved Map mode state.
type MapSelection struct {
	FilterColumn string   `json:"filterColumn"`
	FilterValues []string `json:"filterValues"`
	SizeColumn   string   `json:"sizeColumn"`
}

// Selection is the full Selection State. Only the part matching Mode is set.
type Selection struct {
	Mode Mode          `json:"mode"`
	Plot PlotSelection `json:"plot"`
	Map  MapSelection  `json:"map"`
}

// MarshalText encodes the mode as "plot" or "map".
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(m.String())), nil
}

// UnmarshalText decodes "plot" or "map".
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
