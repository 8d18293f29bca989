package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"ipedsviz/internal/controls"
	"ipedsviz/internal/ui/textutil"
)

// SidebarView shows the Control Panel: the view-mode radio on the first
// row, then one row per selector.
type SidebarView struct {
	Mode      controls.Mode
	Selectors []controls.Selector
	Cursor    int
	Focused   bool
	width     int
	height    int
}

// Ensure SidebarView implements View.
var _ View = (*SidebarView)(nil)

// NewSidebarView creates an empty sidebar in Plot mode.
func NewSidebarView() *SidebarView {
	return &SidebarView{Focused: true}
}

// SetPanel replaces the rows, keeping the cursor in range.
func (s *SidebarView) SetPanel(mode controls.Mode, selectors []controls.Selector) {
	s.Mode = mode
	s.Selectors = selectors
	if s.Cursor > len(selectors) {
		s.Cursor = len(selectors)
	}
}

// SetSize sets the rendered size.
func (s *SidebarView) SetSize(w, h int) {
	s.width, s.height = w, h
}

// Init implements View.
func (s *SidebarView) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (s *SidebarView) Update(msg tea.Msg) (View, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	rows := len(s.Selectors) + 1
	switch km.String() {
	case "j", "down":
		if s.Cursor < rows-1 {
			s.Cursor++
		}
	case "k", "up":
		if s.Cursor > 0 {
			s.Cursor--
		}
	case "h", "l", "left", "right":
		if s.Cursor == 0 {
			return s, func() tea.Msg { return ToggleModeMsg{} }
		}
	case "enter":
		if s.Cursor == 0 {
			return s, func() tea.Msg { return ToggleModeMsg{} }
		}
		key := s.Selectors[s.Cursor-1].Key
		return s, func() tea.Msg { return OpenPickerMsg{Key: key} }
	}
	return s, nil
}

// View implements View.
func (s *SidebarView) View() string {
	var b strings.Builder
	b.WriteString(Styles.Section.Render("Select View") + "\n")
	b.WriteString(s.row(0, "", s.modeRadio()))

	for i, sel := range s.Selectors {
		if sel.Heading != "" {
			b.WriteString("\n" + Styles.Section.Render(sel.Heading) + "\n")
		}
		b.WriteString(s.row(i+1, sel.Label, selectorValue(sel)))
	}
	b.WriteString("\n" + Styles.Hint.Render("j/k: move  enter: choose"))

	box := panelBox(s.Focused)
	if s.width > 0 {
		box = box.Width(max(s.width-2, 10))
	}
	if s.height > 0 {
		box = box.Height(max(s.height-2, 1))
	}
	return box.Render(b.String())
}

func (s *SidebarView) modeRadio() string {
	var parts []string
	for _, name := range controls.ModeOptions() {
		mark := "( )"
		if name == s.Mode.String() {
			mark = "(•)"
		}
		parts = append(parts, mark+" "+name+" View")
	}
	return strings.Join(parts, "  ")
}

func (s *SidebarView) row(idx int, label, value string) string {
	maxw := sidebarWidth - 8
	if s.width > 0 {
		maxw = s.width - 8
	}
	value = truncate(value, maxw)
	cursor := "  "
	style := Styles.Normal
	if idx == s.Cursor {
		cursor = "> "
		if s.Focused {
			style = Styles.Selected
		}
	}
	if label == "" {
		return cursor + style.Render(value) + "\n"
	}
	return Styles.Muted.Render("  "+label) + "\n" + cursor + style.Render(value) + "\n"
}

// selectorValue renders the current choice of a selector.
func selectorValue(s controls.Selector) string {
	if !s.Multi {
		if v := s.Value(); v != "" {
			return v
		}
		return "(none)"
	}
	switch len(s.Selected) {
	case 0:
		return "All values"
	case 1:
		return s.Selected[0]
	default:
		return fmt.Sprintf("%s +%d more", s.Selected[0], len(s.Selected)-1)
	}
}

// truncate shortens s to at most w cells. Widths below 2 leave s alone.
func truncate(s string, w int) string {
	if w <= 1 {
		return s
	}
	return textutil.Truncate(s, w)
}
