package ui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ipedsviz/internal/chart"
	"ipedsviz/internal/controls"
	"ipedsviz/internal/dataset"
)

// AppModel is the root model: Control Panel sidebar on the left, chart on
// the right, pickers as overlays.
type AppModel struct {
	Loader    *dataset.Loader
	Defaults  controls.Defaults
	ExportDir string

	Mode    controls.Mode
	Request controls.Request
	Data    *dataset.Dataset
	Panel   *controls.Panel
	Spec    *chart.Spec
	Err     error
	Loading bool
	Status  string

	Sidebar    *SidebarView
	Chart      *ChartView
	Overlays   OverlayStack
	KeyHandler *KeyHandler
	Focus      *FocusManager
	Layout     Layout

	spinner spinner.Model
	width   int
	height  int
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// NewAppModel creates the root application model for loader.
func NewAppModel(loader *dataset.Loader, defaults controls.Defaults, exportDir string) *AppModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = Styles.Status

	layout := dashboardLayout{}
	return &AppModel{
		Loader:     loader,
		Defaults:   defaults,
		ExportDir:  exportDir,
		Mode:       controls.PlotView,
		Request:    controls.Request{},
		Sidebar:    NewSidebarView(),
		Chart:      NewChartView(),
		KeyHandler: NewKeyHandler(newRegistry()),
		Focus:      NewFocusManager(layout.FocusOrder()...),
		Layout:     layout,
		spinner:    s,
	}
}

func newRegistry() *KeybindRegistry {
	reg := NewKeybindRegistry()
	reg.BindWithDesc("ctrl+c", tea.Quit, "Quit")
	reg.BindWithDesc("SPC q", tea.Quit, "Quit")
	reg.BindWithDesc("tab", func() tea.Msg { return FocusNextMsg{} }, "Next panel")
	reg.BindWithDesc("SPC m", func() tea.Msg { return ToggleModeMsg{} }, "Toggle view")
	reg.BindWithDesc("SPC v p", func() tea.Msg { return SetModeMsg{Map: false} }, "Plot view")
	reg.BindWithDesc("SPC v m", func() tea.Msg { return SetModeMsg{Map: true} }, "Map view")
	reg.BindWithDesc("SPC r", func() tea.Msg { return ReloadMsg{} }, "Retry load")
	reg.BindWithDesc("SPC e", func() tea.Msg { return ExportMsg{} }, "Export")
	reg.BindForModes("SPC p", func() tea.Msg { return togglePlayMsg{} }, "Play/pause", ModeMap)
	return reg
}

// togglePlayMsg starts or stops the map animation from anywhere.
type togglePlayMsg struct{}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (m *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: m}
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	return a.startLoad()
}

func (m *AppModel) startLoad() tea.Cmd {
	m.Loading = true
	return tea.Batch(loadDataCmd(m.Loader), m.spinner.Tick)
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.resize()
		return a, nil

	case spinner.TickMsg:
		if !a.Loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case DataLoadedMsg:
		a.Loading = false
		if msg.Err != nil {
			log.Printf("ui.Update: load failed: %v", msg.Err)
			a.Err = msg.Err
			return a, nil
		}
		a.Data = msg.Data
		a.Err = nil
		a.rebuild()
		return a, nil

	case ReloadMsg:
		if a.Loading {
			return a, nil
		}
		// The loader keeps a successful fetch; only a failed load is retried.
		if a.Data != nil {
			a.Status = "Data already loaded"
			return a, nil
		}
		a.Err = nil
		return a, a.startLoad()

	case ToggleModeMsg:
		a.setMode(a.Mode.Toggle())
		return a, nil

	case SetModeMsg:
		mode := controls.PlotView
		if msg.Map {
			mode = controls.MapView
		}
		if mode != a.Mode {
			a.setMode(mode)
		}
		return a, nil

	case OpenPickerMsg:
		a.openPicker(msg.Key)
		return a, nil

	case ChooseMsg:
		a.Overlays.Pop()
		a.choose(msg.Key, msg.Values)
		return a, nil

	case DismissModalMsg:
		a.Overlays.Pop()
		return a, nil

	case FocusNextMsg:
		a.Focus.Next()
		a.syncFocus()
		return a, nil

	case togglePlayMsg:
		return a, a.Chart.TogglePlay()

	case frameTickMsg:
		v, cmd := a.Chart.Update(msg)
		a.Chart = v.(*ChartView)
		return a, cmd

	case ExportMsg:
		if a.Data == nil || a.Panel == nil {
			a.Status = "Nothing to export"
			return a, nil
		}
		a.Status = "Exporting…"
		return a, exportCmd(a.ExportDir, a.Data, a.Panel.Selection())

	case ExportDoneMsg:
		if msg.Err != nil {
			a.Status = "Export failed: " + msg.Err.Error()
		} else {
			a.Status = fmt.Sprintf("Exported %d files to %s", len(msg.Result.Files), msg.Result.Dir)
		}
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)
	}
	return a, nil
}

func (a *appModelAdapter) handleKey(msg tea.KeyMsg) tea.Cmd {
	// Open modals own the keyboard; only ctrl+c gets past them.
	if a.Overlays.Len() > 0 {
		if msg.String() == "ctrl+c" {
			return tea.Quit
		}
		cmd, _ := a.Overlays.UpdateTop(msg)
		return cmd
	}
	if consumed, cmd := a.KeyHandler.Handle(msg); consumed {
		return cmd
	}
	switch msg.String() {
	case "q":
		return tea.Quit
	case "r":
		if a.Err != nil {
			return func() tea.Msg { return ReloadMsg{} }
		}
	case "shift+tab":
		a.Focus.Prev()
		a.syncFocus()
		return nil
	}

	var v View
	var cmd tea.Cmd
	if a.Focus.Focused(PanelChart) {
		v, cmd = a.Chart.Update(msg)
		a.Chart = v.(*ChartView)
	} else {
		v, cmd = a.Sidebar.Update(msg)
		a.Sidebar = v.(*SidebarView)
	}
	return cmd
}

// setMode switches views. Choices made in the other mode are discarded.
func (m *AppModel) setMode(mode controls.Mode) {
	m.Mode = mode
	m.Request = controls.Request{}
	m.Overlays.Clear()
	m.Sidebar.Cursor = 0
	m.Status = ""
	m.rebuild()
}

// choose records a picker result and re-renders.
func (m *AppModel) choose(key string, values []string) {
	m.Request.Set(key, values...)
	if key == controls.KeyFilter {
		// Values belong to the previous filter column.
		delete(m.Request, controls.KeyValues)
	}
	m.rebuild()
}

// rebuild re-derives the Control Panel and the chart from scratch.
func (m *AppModel) rebuild() {
	if m.Data == nil {
		return
	}
	m.Spec = nil
	panel, err := controls.Build(m.Data, m.Mode, m.Request, m.Defaults)
	if err != nil {
		m.Err = err
		m.Panel = nil
		m.Sidebar.SetPanel(m.Mode, nil)
		m.Chart.SetSpec(nil)
		return
	}
	m.Panel = panel
	m.Sidebar.SetPanel(panel.Mode, panel.Selectors)

	spec, err := chart.Render(context.Background(), m.Data, panel.Selection())
	if err != nil {
		m.Err = err
		m.Chart.SetSpec(nil)
		return
	}
	m.Err = nil
	m.Spec = spec
	m.Chart.SetSpec(spec)
}

func (m *AppModel) openPicker(key string) {
	if m.Panel == nil {
		return
	}
	s, ok := m.Panel.Selector(key)
	if !ok {
		return
	}
	var v View
	if s.Multi {
		v = NewMultiPickerModal(s)
	} else {
		v = NewPickerModal(s)
	}
	m.Overlays.Push(Overlay{View: v})
}

func (m *AppModel) resize() {
	sw, sh := panelSize(m.Layout, PanelSidebar, m.width, m.height)
	m.Sidebar.SetSize(sw, sh)
	cw, ch := panelSize(m.Layout, PanelChart, m.width, m.height)
	m.Chart.SetSize(cw, ch)
}

func (m *AppModel) syncFocus() {
	m.Sidebar.Focused = m.Focus.Focused(PanelSidebar)
	m.Chart.Focused = m.Focus.Focused(PanelChart)
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render("IPEDS Data Explorer"))
	b.WriteString(Styles.Muted.Render(fmt.Sprintf("  %s View  Press [SPC] for commands", a.Mode)))
	b.WriteString("\n")
	b.WriteString(a.statusLine() + "\n")

	switch {
	case a.Data == nil && a.Loading:
		b.WriteString(Styles.Box.Render(a.spinner.View() + " Loading dataset from " + a.source()))
	case a.Data == nil && a.Err != nil:
		b.WriteString(a.errorBox())
	default:
		right := a.Chart.View()
		if a.Err != nil {
			right = a.errorBox()
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, a.Sidebar.View(), right))
	}

	if top, ok := a.Overlays.Peek(); ok {
		return lipgloss.Place(max(a.width, 80), max(a.height, 24), lipgloss.Center, lipgloss.Center, top.View.View())
	}
	if help := RenderKeybindHelp(a.KeyHandler, appModeFor(a.Mode)); help != "" {
		b.WriteString("\n" + help)
	}
	return b.String()
}

func (a *appModelAdapter) statusLine() string {
	switch {
	case a.Loading:
		return Styles.Status.Render(a.spinner.View() + " loading")
	case a.Status != "":
		return Styles.Status.Render(a.Status)
	case a.Spec != nil:
		return Styles.Muted.Render(fmt.Sprintf("%d rows, %d points", a.Spec.Rows, a.Spec.Points()))
	}
	return ""
}

func (a *appModelAdapter) errorBox() string {
	title := "Error"
	hint := "SPC m: switch view"
	switch {
	case errors.Is(a.Err, dataset.ErrDataUnavailable):
		title = "Data unavailable"
		hint = "r: retry"
	case errors.Is(a.Err, dataset.ErrColumnNotFound):
		title = "Column not found"
	}
	return Styles.BoxDanger.Render(Styles.TitleWarning.Render(title) + "\n\n" +
		Styles.Normal.Render(a.Err.Error()) + "\n\n" + Styles.Hint.Render(hint))
}

func (m *AppModel) source() string {
	if m.Loader == nil {
		return "(none)"
	}
	return m.Loader.Source
}
