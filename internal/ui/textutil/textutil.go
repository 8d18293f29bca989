// Package textutil measures and fits text to terminal columns.
package textutil

import "github.com/mattn/go-runewidth"

// Ellipsis marks truncated text.
const Ellipsis = "…"

// Width returns the number of terminal columns s occupies. s must not
// contain ANSI escapes.
func Width(s string) int {
	return runewidth.StringWidth(s)
}

// Truncate fits s into w columns, ending in Ellipsis when shortened.
func Truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if Width(s) <= w {
		return s
	}
	return runewidth.Truncate(s, w, Ellipsis)
}

// PadLeft right-aligns s in w columns. Wider strings are truncated.
func PadLeft(s string, w int) string {
	if Width(s) >= w {
		return Truncate(s, w)
	}
	return runewidth.FillLeft(s, w)
}

// PadRight left-aligns s in w columns. Wider strings are truncated.
func PadRight(s string, w int) string {
	if Width(s) >= w {
		return Truncate(s, w)
	}
	return runewidth.FillRight(s, w)
}
