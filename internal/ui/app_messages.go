package ui

import (
	"ipedsviz/internal/dataset"
	"ipedsviz/internal/export"
)

// DataLoadedMsg carries the result of a dataset load.
type DataLoadedMsg struct {
	Data *dataset.Dataset
	Err  error
}

// ReloadMsg retries loading the dataset (r or SPC r).
type ReloadMsg struct{}

// ToggleModeMsg switches between Plot and Map view (SPC m, or the View row).
type ToggleModeMsg struct{}

// SetModeMsg switches to a specific view (SPC v p, SPC v m).
type SetModeMsg struct {
	Map bool
}

// OpenPickerMsg opens the picker for the selector with Key.
type OpenPickerMsg struct {
	Key string
}

// ChooseMsg records a choice made in a picker.
type ChooseMsg struct {
	Key    string
	Values []string
}

// DismissModalMsg is sent when user cancels a modal (Esc).
type DismissModalMsg struct{}

// ExportMsg writes the current chart to the export directory (SPC e).
type ExportMsg struct{}

// ExportDoneMsg reports a finished export.
type ExportDoneMsg struct {
	Result *export.Result
	Err    error
}

// FocusNextMsg rotates panel focus (tab).
type FocusNextMsg struct{}

// frameTickMsg advances an animated chart while it plays. Gen is the play
// session that scheduled it; ticks from an earlier session are dropped.
type frameTickMsg struct {
	Gen int
}
