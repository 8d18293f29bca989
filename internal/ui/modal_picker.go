package ui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"ipedsviz/internal/controls"
)

// PickerModal chooses one option of a single selector. Typing / filters.
type PickerModal struct {
	Key  string
	list list.Model
}

type optionItem string

func (o optionItem) FilterValue() string { return string(o) }
func (o optionItem) Title() string       { return string(o) }
func (o optionItem) Description() string { return "" }

// Ensure PickerModal implements View.
var _ View = (*PickerModal)(nil)

// NewPickerModal lists the options of s with its current choice selected.
func NewPickerModal(s controls.Selector) *PickerModal {
	items := make([]list.Item, len(s.Options))
	for i, o := range s.Options {
		items[i] = optionItem(o)
	}
	l := list.New(items, NewCompactListDelegate(), 60, 14)
	l.Title = pickerTitle(s)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = Styles.Title
	if s.Index >= 0 {
		l.Select(s.Index)
	}
	return &PickerModal{Key: s.Key, list: l}
}

func pickerTitle(s controls.Selector) string {
	if s.Label != "" {
		return s.Label
	}
	return s.Heading
}

// Init implements View.
func (m *PickerModal) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (m *PickerModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "enter":
			if sel, ok := m.list.SelectedItem().(optionItem); ok {
				key := m.Key
				return m, func() tea.Msg { return ChooseMsg{Key: key, Values: []string{string(sel)}} }
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements View.
func (m *PickerModal) View() string {
	help := "Enter: select  /: filter  Esc: cancel"
	return Styles.BoxCompact.Render(m.list.View() + "\n" + Styles.Hint.Render(help))
}

// Selected returns the highlighted option.
func (m *PickerModal) Selected() string {
	if sel, ok := m.list.SelectedItem().(optionItem); ok {
		return string(sel)
	}
	return ""
}
