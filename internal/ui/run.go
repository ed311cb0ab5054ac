package ui

import (
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/facetnav/internal/source"
)

// Run starts the TUI and blocks until the user quits. When watch is true
// and the source is a local file, changes to it trigger a reload.
func Run(opts Options, watch bool, progOpts ...tea.ProgramOption) error {
	m := New(opts)
	defer m.Close()
	p := tea.NewProgram(m, progOpts...)

	if watch {
		w, err := source.NewWatcher(opts.Source, func() { p.Send(SourceChangedMsg{}) },
			source.WithWatchLogger(m.opts.Logger))
		switch {
		case errors.Is(err, source.ErrNotWatchable):
			m.opts.Logger.Info("watch ignored", "source", opts.Source, "reason", err.Error())
		case err != nil:
			return err
		default:
			if err := w.Start(m.opts.Context); err != nil {
				return err
			}
			defer w.Stop()
		}
	}

	_, err := p.Run()
	return err
}
