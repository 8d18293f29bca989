package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"ipedsviz/internal/controls"
)

const multiPickerRows = 12

// MultiPickerModal chooses any subset of a multi selector's options.
// Space toggles, a toggles all, enter confirms. No choice means no filter.
type MultiPickerModal struct {
	Key     string
	Title   string
	Options []string
	Cursor  int
	checked map[string]bool
	offset  int
}

// Ensure MultiPickerModal implements View.
var _ View = (*MultiPickerModal)(nil)

// NewMultiPickerModal starts from the selector's current choice.
func NewMultiPickerModal(s controls.Selector) *MultiPickerModal {
	checked := make(map[string]bool, len(s.Selected))
	for _, v := range s.Selected {
		checked[v] = true
	}
	return &MultiPickerModal{
		Key:     s.Key,
		Title:   pickerTitle(s),
		Options: s.Options,
		checked: checked,
	}
}

// Init implements View.
func (m *MultiPickerModal) Init() tea.Cmd {
	return nil
}

// Chosen returns the checked options in option order.
func (m *MultiPickerModal) Chosen() []string {
	out := []string{}
	for _, o := range m.Options {
		if m.checked[o] {
			out = append(out, o)
		}
	}
	return out
}

// Update implements View.
func (m *MultiPickerModal) Update(msg tea.Msg) (View, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch km.String() {
	case "esc":
		return m, func() tea.Msg { return DismissModalMsg{} }
	case "enter":
		key, values := m.Key, m.Chosen()
		return m, func() tea.Msg { return ChooseMsg{Key: key, Values: values} }
	case "j", "down":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	case "k", "up":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "g", "home":
		m.Cursor = 0
	case "G", "end":
		m.Cursor = max(len(m.Options)-1, 0)
	case " ", "x":
		if m.Cursor < len(m.Options) {
			o := m.Options[m.Cursor]
			m.checked[o] = !m.checked[o]
		}
	case "a":
		all := len(m.Chosen()) < len(m.Options)
		for _, o := range m.Options {
			m.checked[o] = all
		}
	}
	m.scroll()
	return m, nil
}

func (m *MultiPickerModal) scroll() {
	if m.Cursor < m.offset {
		m.offset = m.Cursor
	}
	if m.Cursor >= m.offset+multiPickerRows {
		m.offset = m.Cursor - multiPickerRows + 1
	}
}

// View implements View.
func (m *MultiPickerModal) View() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render(m.Title))
	b.WriteString(Styles.Muted.Render(fmt.Sprintf("  %d of %d chosen", len(m.Chosen()), len(m.Options))))
	b.WriteString("\n\n")
	if len(m.Options) == 0 {
		b.WriteString(Styles.Empty.Render("No values in this column"))
	}
	end := min(m.offset+multiPickerRows, len(m.Options))
	for i := m.offset; i < end; i++ {
		o := m.Options[i]
		box := "[ ]"
		if m.checked[o] {
			box = "[x]"
		}
		line := box + " " + o
		if i == m.Cursor {
			b.WriteString(Styles.Selected.Render("> " + line))
		} else {
			b.WriteString(Styles.Normal.Render("  " + line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n" + Styles.Hint.Render("Space: toggle  a: all  Enter: apply  Esc: cancel"))
	return Styles.BoxCompact.Render(b.String())
}
