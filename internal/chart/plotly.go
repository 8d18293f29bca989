package chart

import "math"

// Figure is a plotly.js figure: pass Data, Layout and Frames to
// Plotly.newPlot. NaN values are emitted as null.
type Figure struct {
	Data   []Trace        `json:"data"`
	Layout map[string]any `json:"layout"`
	Frames []FigureFrame  `json:"frames,omitempty"`
}

// Trace is one plotly.js trace.
type Trace map[string]any

// FigureFrame is one plotly.js animation frame.
type FigureFrame struct {
	Name string  `json:"name"`
	Data []Trace `json:"data"`
}

// Figure converts the spec into a plotly.js figure.
func (s *Spec) Figure() Figure {
	if s.Kind == KindScatterGeo {
		return s.geoFigure()
	}
	return s.scatterFigure()
}

func (s *Spec) scatterFigure() Figure {
	var pts []Point
	if len(s.Frames) > 0 {
		pts = s.Frames[0].Points
	}
	xs := make([]any, len(pts))
	ys := make([]any, len(pts))
	text := make([]string, len(pts))
	for i, p := range pts {
		xs[i], ys[i], text[i] = num(p.X), num(p.Y), p.Hover
	}

	marker := map[string]any{
		"symbol": s.Marker.Symbol,
		"size":   s.Marker.Size,
		"line":   map[string]any{"width": s.Marker.LineWidth, "color": s.Marker.LineColor},
	}
	if bar := s.ColorBar; bar != nil && bar.Numeric {
		vals := make([]any, len(pts))
		for i, p := range pts {
			vals[i] = num(p.ColorValue)
		}
		marker["color"] = vals
		marker["colorscale"] = colorscale(bar.Stops)
		marker["cmin"] = bar.Min
		marker["cmax"] = bar.Max
		marker["showscale"] = true
		marker["colorbar"] = map[string]any{"title": map[string]any{"text": bar.Title}}
	} else {
		colors := make([]string, len(pts))
		for i, p := range pts {
			colors[i] = p.Color
		}
		marker["color"] = colors
	}

	trace := Trace{
		"type":          "scatter",
		"mode":          "markers",
		"x":             xs,
		"y":             ys,
		"text":          text,
		"hovertemplate": s.Label(s.Channels.Hover) + "=%{text}<br>" + s.Label(s.Channels.X) + "=%{x}<br>" + s.Label(s.Channels.Y) + "=%{y}<extra></extra>",
		"marker":        marker,
	}
	layout := map[string]any{
		"title":     map[string]any{"text": s.Title},
		"xaxis":     map[string]any{"title": map[string]any{"text": s.Label(s.Channels.X)}},
		"yaxis":     map[string]any{"title": map[string]any{"text": s.Label(s.Channels.Y)}},
		"hovermode": "closest",
	}
	if s.Notice != "" {
		layout["annotations"] = []any{map[string]any{
			"text":      s.Notice,
			"showarrow": false,
			"xref":      "paper",
			"yref":      "paper",
			"x":         0.5,
			"y":         0.5,
		}}
	}
	return Figure{Data: []Trace{trace}, Layout: layout}
}

func (s *Spec) geoFigure() Figure {
	traces := make([]Trace, len(s.Frames))
	frames := make([]FigureFrame, len(s.Frames))
	steps := make([]map[string]any, len(s.Frames))
	for i, f := range s.Frames {
		traces[i] = s.geoTrace(f)
		frames[i] = FigureFrame{Name: f.Name, Data: []Trace{traces[i]}}
		steps[i] = map[string]any{
			"label":  f.Name,
			"method": "animate",
			"args": []any{
				[]string{f.Name},
				map[string]any{"mode": "immediate", "frame": map[string]any{"duration": 0, "redraw": true}, "transition": map[string]any{"duration": 0}},
			},
		}
	}

	layout := map[string]any{
		"title": map[string]any{"text": s.Title},
		"geo":   map[string]any{"showland": true, "showcountries": true},
	}
	data := []Trace{s.geoTrace(Frame{})}
	if len(traces) > 0 {
		data = traces[:1]
	}
	if s.Animated() {
		layout["sliders"] = []any{map[string]any{
			"active":       0,
			"currentvalue": map[string]any{"prefix": s.Channels.Frame + "="},
			"steps":        steps,
		}}
		layout["updatemenus"] = []any{map[string]any{
			"type":       "buttons",
			"showactive": false,
			"buttons": []any{
				map[string]any{"label": "&#9654;", "method": "animate", "args": []any{nil, map[string]any{"frame": map[string]any{"duration": 500, "redraw": true}, "fromcurrent": true}}},
				map[string]any{"label": "&#9724;", "method": "animate", "args": []any{[]any{nil}, map[string]any{"mode": "immediate", "frame": map[string]any{"duration": 0, "redraw": true}}}},
			},
		}}
	}
	fig := Figure{Data: data, Layout: layout}
	if s.Animated() {
		fig.Frames = frames
	}
	return fig
}

func (s *Spec) geoTrace(f Frame) Trace {
	lat := make([]any, len(f.Points))
	lon := make([]any, len(f.Points))
	size := make([]any, len(f.Points))
	text := make([]string, len(f.Points))
	for i, p := range f.Points {
		lat[i], lon[i], size[i], text[i] = num(p.Y), num(p.X), num(p.Size), p.Hover
	}
	return Trace{
		"type":      "scattergeo",
		"mode":      "markers",
		"name":      f.Name,
		"lat":       lat,
		"lon":       lon,
		"hovertext": text,
		"hovertemplate": "<b>%{hovertext}</b><br>" + s.Label(s.Channels.Lat) + "=%{lat}<br>" +
			s.Label(s.Channels.Lon) + "=%{lon}<br>" + s.Channels.Size + "=%{marker.size}<extra></extra>",
		"marker": map[string]any{
			"color":    GeoColor,
			"size":     size,
			"sizemode": "area",
			"sizeref":  s.sizeRef(),
		},
	}
}

// sizeRef makes the largest size value MaxMarkerSize px across in area mode.
func (s *Spec) sizeRef() float64 {
	if s.SizeRange.Max <= 0 || s.Marker.SizeMax <= 0 {
		return 1
	}
	return 2 * s.SizeRange.Max / (s.Marker.SizeMax * s.Marker.SizeMax)
}

func colorscale(stops []ColorStop) [][]any {
	out := make([][]any, len(stops))
	for i, st := range stops {
		out[i] = []any{st.Pos, st.Color}
	}
	return out
}

// num maps NaN and infinities to nil so the value marshals as JSON null.
func num(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}
