package ui

// BoundsFunc returns a panel's position and size for terminal dimensions.
type BoundsFunc func(width, height int) (x, y, w, h int)

// Panel is a bounded region of the layout.
type Panel struct {
	ID     string
	Bounds BoundsFunc
}

// Layout arranges panels and defines focus order.
type Layout interface {
	Panels() []Panel
	FocusOrder() []string
}

const (
	sidebarWidth = 38
	headerHeight = 2 // title line and status line
	footerHeight = 1
)

// dashboardLayout puts the Control Panel on the left and the chart on the right.
type dashboardLayout struct{}

func (dashboardLayout) Panels() []Panel {
	return []Panel{
		{ID: PanelSidebar, Bounds: func(width, height int) (int, int, int, int) {
			return 0, headerHeight, min(sidebarWidth, width), max(height-headerHeight-footerHeight, 0)
		}},
		{ID: PanelChart, Bounds: func(width, height int) (int, int, int, int) {
			w := max(width-sidebarWidth, 0)
			return sidebarWidth, headerHeight, w, max(height-headerHeight-footerHeight, 0)
		}},
	}
}

func (dashboardLayout) FocusOrder() []string { return []string{PanelSidebar, PanelChart} }

// panelSize returns the bounds of panel id within the layout.
func panelSize(l Layout, id string, width, height int) (w, h int) {
	for _, p := range l.Panels() {
		if p.ID == id {
			_, _, w, h = p.Bounds(width, height)
			return w, h
		}
	}
	return 0, 0
}
