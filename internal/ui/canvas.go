package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type cell struct {
	r     rune
	color string
}

// canvas is a fixed grid of colored runes.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	w, h = max(w, 1), max(h, 1)
	c := &canvas{w: w, h: h, cells: make([]cell, w*h)}
	for i := range c.cells {
		c.cells[i].r = ' '
	}
	return c
}

// set draws r at (x, y); out-of-range positions are ignored.
func (c *canvas) set(x, y int, r rune, color string) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y*c.w+x] = cell{r: r, color: color}
}

// text writes s starting at (x, y) without wrapping.
func (c *canvas) text(x, y int, s, color string) {
	for i, r := range []rune(s) {
		c.set(x+i, y, r, color)
	}
}

func (c *canvas) String() string {
	styles := make(map[string]lipgloss.Style)
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		row := c.cells[y*c.w : (y+1)*c.w]
		for x := 0; x < len(row); {
			// Group runs of the same color into one styled span.
			j := x
			var run strings.Builder
			for j < len(row) && row[j].color == row[x].color {
				run.WriteRune(row[j].r)
				j++
			}
			if row[x].color == "" {
				b.WriteString(run.String())
			} else {
				st, ok := styles[row[x].color]
				if !ok {
					st = lipgloss.NewStyle().Foreground(lipgloss.Color(row[x].color))
					styles[row[x].color] = st
				}
				b.WriteString(st.Render(run.String()))
			}
			x = j
		}
	}
	return b.String()
}
