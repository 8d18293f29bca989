package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ipedsviz/internal/chart"
	"ipedsviz/internal/ui/textutil"
)

// framePeriod is the delay between animation frames while playing.
const framePeriod = 700 * time.Millisecond

const yAxisWidth = 9

// ChartView draws the current chart on a character canvas. Animated charts
// step through frames with [ and ] or play with p.
type ChartView struct {
	Spec    *chart.Spec
	Frame   int
	Playing bool
	Focused bool
	gen     int // bumped on every play/stop so one tick chain is live
	width   int
	height  int
}

// Ensure ChartView implements View.
var _ View = (*ChartView)(nil)

// NewChartView creates an empty chart panel.
func NewChartView() *ChartView {
	return &ChartView{}
}

// SetSpec replaces the chart. The frame index is kept when still valid.
func (c *ChartView) SetSpec(s *chart.Spec) {
	c.Spec = s
	if s == nil || c.Frame >= len(s.Frames) {
		c.Frame = 0
	}
	if c.Playing && (s == nil || !s.Animated()) {
		c.Playing = false
		c.gen++
	}
}

// SetSize sets the rendered size.
func (c *ChartView) SetSize(w, h int) {
	c.width, c.height = w, h
}

// Init implements View.
func (c *ChartView) Init() tea.Cmd {
	return nil
}

func frameTick(gen int) tea.Cmd {
	return tea.Tick(framePeriod, func(time.Time) tea.Msg { return frameTickMsg{Gen: gen} })
}

// Update implements View.
func (c *ChartView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case frameTickMsg:
		if msg.Gen != c.gen || !c.Playing {
			return c, nil
		}
		if c.Spec == nil || !c.Spec.Animated() {
			c.Playing = false
			return c, nil
		}
		c.Frame = (c.Frame + 1) % len(c.Spec.Frames)
		return c, frameTick(c.gen)
	case tea.KeyMsg:
		if c.Spec == nil || !c.Spec.Animated() {
			return c, nil
		}
		n := len(c.Spec.Frames)
		switch msg.String() {
		case "[", "h", "left":
			c.Frame = (c.Frame - 1 + n) % n
		case "]", "l", "right":
			c.Frame = (c.Frame + 1) % n
		case "p":
			return c, c.TogglePlay()
		}
	}
	return c, nil
}

// TogglePlay starts or stops the animation.
func (c *ChartView) TogglePlay() tea.Cmd {
	if c.Spec == nil || !c.Spec.Animated() {
		return nil
	}
	c.Playing = !c.Playing
	c.gen++
	if c.Playing {
		return frameTick(c.gen)
	}
	return nil
}

// View implements View.
func (c *ChartView) View() string {
	w, h := c.width, c.height
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}
	innerW, innerH := max(w-4, 10), max(h-2, 6)

	box := panelBox(c.Focused).Width(innerW + 2).Height(innerH)
	if c.Spec == nil {
		return box.Render(Styles.Empty.Render("No chart"))
	}

	var b strings.Builder
	b.WriteString(c.header() + "\n")
	if c.Spec.Empty() {
		msg := "No rows match the current selection."
		if c.Spec.Notice != "" {
			msg = c.Spec.Notice + "."
		}
		b.WriteString("\n" + Styles.Empty.Render(msg))
		return box.Render(b.String())
	}

	legend := c.legend(innerW)
	plotH := max(innerH-3-lipgloss.Height(legend), 3)
	b.WriteString(c.plot(innerW, plotH))
	b.WriteString("\n" + legend)
	return box.Render(b.String())
}

func (c *ChartView) header() string {
	s := c.Spec
	title := Styles.Title.Render(s.Title)
	if s.Animated() {
		f := s.Frames[c.Frame]
		state := "paused"
		if c.Playing {
			state = "playing"
		}
		title += Styles.Muted.Render(fmt.Sprintf("  %s %s (%d/%d, %s)  [ ] step  p play",
			s.Channels.Frame, f.Name, c.Frame+1, len(s.Frames), state))
	}
	return title
}

// plot draws the axes and the points of the current frame. Bounds span
// every frame so the axes stay fixed while animating.
func (c *ChartView) plot(w, h int) string {
	s := c.Spec
	xr, yr := s.Bounds()
	xr, yr = pad(xr), pad(yr)
	xLabel, yLabel := s.Label(s.Channels.X), s.Label(s.Channels.Y)
	if s.Kind == chart.KindScatterGeo {
		xLabel, yLabel = s.Label(s.Channels.Lon), s.Label(s.Channels.Lat)
	}

	plotW := max(w-yAxisWidth-1, 4)
	cv := newCanvas(w, h+2)
	for y := 0; y < h; y++ {
		cv.set(yAxisWidth, y, '│', ColorBorder)
	}
	for x := yAxisWidth; x < w; x++ {
		cv.set(x, h, '─', ColorBorder)
	}
	cv.set(yAxisWidth, h, '└', ColorBorder)
	cv.text(0, 0, textutil.PadLeft(formatNum(yr.Max), yAxisWidth-1), ColorMuted)
	cv.text(0, h/2, textutil.PadLeft(formatNum((yr.Min+yr.Max)/2), yAxisWidth-1), ColorMuted)
	cv.text(0, h-1, textutil.PadLeft(formatNum(yr.Min), yAxisWidth-1), ColorMuted)
	lo, hi := formatNum(xr.Min), formatNum(xr.Max)
	cv.text(yAxisWidth+1, h+1, lo, ColorMuted)
	cv.text(w-textutil.Width(hi), h+1, hi, ColorMuted)
	axis := truncate(fmt.Sprintf("%s →  ↑ %s", xLabel, yLabel), max(plotW-len(lo)-len(hi)-4, 1))
	cv.text(yAxisWidth+len(lo)+3, h+1, axis, ColorText)

	for _, p := range s.Frames[c.Frame].Points {
		col := yAxisWidth + 1 + scale(p.X, xr, plotW-1)
		row := h - 1 - scale(p.Y, yr, h-1)
		cv.set(col, row, glyph(s, p), p.Color)
	}
	return cv.String()
}

// glyph picks a marker rune: open rings for scatter, size classes for maps.
func glyph(s *chart.Spec, p chart.Point) rune {
	if s.Marker.Symbol == "circle-open" {
		return 'o'
	}
	d := s.MarkerDiameter(p.Size)
	switch {
	case d < 7:
		return '·'
	case d < 14:
		return '•'
	default:
		return '●'
	}
}

func (c *ChartView) legend(w int) string {
	s := c.Spec
	if s.Kind == chart.KindScatterGeo {
		return Styles.Muted.Render(truncate(fmt.Sprintf("size: %s (%s to %s)  · • ●",
			s.Channels.Size, formatNum(s.SizeRange.Min), formatNum(s.SizeRange.Max)), w))
	}
	bar := s.ColorBar
	if bar == nil {
		return ""
	}
	ps := chart.Plasma()
	if bar.Numeric {
		var g strings.Builder
		for i := 0; i < 20; i++ {
			g.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ps.Hex(float64(i) / 19))).Render("█"))
		}
		return Styles.Muted.Render(truncate(bar.Title, w)) + "\n" +
			Styles.Muted.Render(formatNum(bar.Min)+" ") + g.String() + Styles.Muted.Render(" "+formatNum(bar.Max))
	}
	parts := make([]string, 0, len(bar.Categories))
	used := 0
	for i, cat := range bar.Categories {
		pos := 0.0
		if len(bar.Categories) > 1 {
			pos = float64(i) / float64(len(bar.Categories)-1)
		}
		label := truncate(cat, 24)
		used += lipgloss.Width(label) + 4
		if used > w*2 {
			parts = append(parts, Styles.Muted.Render(fmt.Sprintf("+%d more", len(bar.Categories)-i)))
			break
		}
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color(ps.Hex(pos))).Render("■")+" "+Styles.Normal.Render(label))
	}
	return Styles.Muted.Render(truncate(bar.Title, w)) + "\n" + lipgloss.NewStyle().Width(w).Render(strings.Join(parts, "  "))
}

// pad widens r by 5% on each side; a single value gets a unit range.
func pad(r chart.Range) chart.Range {
	span := r.Max - r.Min
	if span == 0 {
		return chart.Range{Min: r.Min - 1, Max: r.Max + 1}
	}
	return chart.Range{Min: r.Min - span*0.05, Max: r.Max + span*0.05}
}

// scale maps v in r onto 0..n.
func scale(v float64, r chart.Range, n int) int {
	if r.Max <= r.Min || n <= 0 {
		return 0
	}
	return int((v-r.Min)/(r.Max-r.Min)*float64(n) + 0.5)
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}
