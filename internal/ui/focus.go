package ui

// Panel IDs.
const (
	PanelSidebar = "sidebar"
	PanelChart   = "chart"
)

// FocusManager tracks which panel receives keys and rotates through Order.
type FocusManager struct {
	Current string
	Order   []string
}

// NewFocusManager focuses the first panel of order.
func NewFocusManager(order ...string) *FocusManager {
	f := &FocusManager{Order: order}
	if len(order) > 0 {
		f.Current = order[0]
	}
	return f
}

// Next moves focus forward, wrapping around.
func (f *FocusManager) Next() string { return f.step(1) }

// Prev moves focus backward, wrapping around.
func (f *FocusManager) Prev() string { return f.step(-1) }

func (f *FocusManager) step(d int) string {
	n := len(f.Order)
	if n == 0 {
		return ""
	}
	idx := 0
	for i, id := range f.Order {
		if id == f.Current {
			idx = i
			break
		}
	}
	f.Current = f.Order[((idx+d)%n+n)%n]
	return f.Current
}

// SetFocus focuses id. Returns false if id is not a known panel.
func (f *FocusManager) SetFocus(id string) bool {
	for _, o := range f.Order {
		if o == id {
			f.Current = id
			return true
		}
	}
	return false
}

// Focused reports whether id has focus.
func (f *FocusManager) Focused(id string) bool { return f.Current == id }
