package export

import (
	"fmt"
	"image/color"
	"io"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"ipedsviz/internal/chart"
)

const (
	pngWidth  = 10 * vg.Inch
	pngHeight = 7 * vg.Inch
)

// WritePNG draws the spec as a PNG. Animated specs are drawn at their last
// frame.
func WritePNG(w io.Writer, spec *chart.Spec) error {
	p := plot.New()
	p.Title.Text = spec.Title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Add(plotter.NewGrid())

	var frame chart.Frame
	if n := len(spec.Frames); n > 0 {
		frame = spec.Frames[n-1]
	}
	if spec.Animated() {
		p.Title.Text = fmt.Sprintf("%s: %s %s", spec.Title, spec.Channels.Frame, frame.Name)
	}

	if spec.Kind == chart.KindScatterGeo {
		p.X.Label.Text = spec.Label(spec.Channels.Lon)
		p.Y.Label.Text = spec.Label(spec.Channels.Lat)
		p.X.Min, p.X.Max = -180, 180
		p.Y.Min, p.Y.Max = -90, 90
	} else {
		p.X.Label.Text = spec.Label(spec.Channels.X)
		p.Y.Label.Text = spec.Label(spec.Channels.Y)
	}

	if len(frame.Points) > 0 {
		xys := make(plotter.XYs, len(frame.Points))
		for i, pt := range frame.Points {
			xys[i].X, xys[i].Y = pt.X, pt.Y
		}
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("scatter: %w", err)
		}
		s.GlyphStyleFunc = func(i int) draw.GlyphStyle {
			pt := frame.Points[i]
			gs := draw.GlyphStyle{
				Color:  parseColor(pt.Color),
				Radius: vg.Points(spec.MarkerDiameter(pt.Size) / 2),
				Shape:  draw.CircleGlyph{},
			}
			if spec.Marker.Symbol == "circle-open" {
				gs.Shape = draw.RingGlyph{}
			}
			return gs
		}
		p.Add(s)
	}

	wt, err := p.WriterTo(pngWidth, pngHeight, "png")
	if err != nil {
		return fmt.Errorf("png canvas: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

func parseColor(hex string) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		c, _ = colorful.Hex(chart.MissingColor)
	}
	return c
}
