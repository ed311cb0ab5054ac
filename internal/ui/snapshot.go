package ui

import (
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

// SnapshotConfig controls a one-frame render.
type SnapshotConfig struct {
	Width     int
	Height    int
	StartKeys []string
}

// RenderSnapshot loads synchronously, replays StartKeys and returns a
// single frame. Color is stripped when opts.NoColor is set.
func RenderSnapshot(opts Options, cfg SnapshotConfig) string {
	m := New(opts)
	defer m.Close()

	w, h := cfg.Width, cfg.Height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	m.Update(m.load()())
	ApplyStartupKeys(m, cfg.StartKeys)

	out := m.Render()
	if opts.NoColor {
		out = ansi.Strip(out)
	}
	return out
}
