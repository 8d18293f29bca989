package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// RenderKeybindHelp produces the transient hint bar shown after SPC.
func RenderKeybindHelp(h *KeyHandler, mode AppMode) string {
	if h == nil || !h.LeaderWaiting {
		return ""
	}
	bindings := h.Registry.Bindings(h.Current(), mode)
	if len(bindings) == 0 {
		return ""
	}

	hm := help.New()
	hm.Styles.ShortKey = Styles.Selected
	hm.Styles.ShortDesc = Styles.Muted
	hm.Styles.ShortSeparator = Styles.Muted

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccent)).
		Padding(0, 1)
	return box.Render(Styles.Muted.Render(h.Current()) + " " + hm.ShortHelpView(bindings))
}
