package ui

import "ipedsviz/internal/controls"

// AppMode is the dashboard view mode as seen by the keybind system.
type AppMode int

const (
	ModePlot AppMode = iota
	ModeMap
)

func (m AppMode) String() string {
	switch m {
	case ModePlot:
		return "Plot"
	case ModeMap:
		return "Map"
	default:
		return "Unknown"
	}
}

func appModeFor(m controls.Mode) AppMode {
	if m == controls.MapView {
		return ModeMap
	}
	return ModePlot
}
