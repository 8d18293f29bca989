package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"ipedsviz/internal/controls"
	"ipedsviz/internal/dataset"
	"ipedsviz/internal/export"
)

// exportTimeout bounds a single export run.
const exportTimeout = 2 * time.Minute

// loadDataCmd fetches the dataset. Loader memoizes, so reloading after a
// success returns the cached table without a fetch.
func loadDataCmd(l *dataset.Loader) tea.Cmd {
	return func() tea.Msg {
		if l == nil {
			return DataLoadedMsg{Err: dataset.ErrDataUnavailable}
		}
		ds, err := l.Load(context.Background())
		return DataLoadedMsg{Data: ds, Err: err}
	}
}

// exportCmd writes the current chart and its rows under dir.
func exportCmd(dir string, ds *dataset.Dataset, sel controls.Selection) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()
		res, err := export.Run(ctx, dir, ds, sel)
		return ExportDoneMsg{Result: res, Err: err}
	}
}
