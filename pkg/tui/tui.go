// Package tui lets host applications run the facetnav navigator over a
// core.Catalog.
package tui

import (
	"context"
	"os"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"
	"golang.org/x/term"

	"github.com/oakwood-commons/facetnav/internal/ui"
	"github.com/oakwood-commons/facetnav/pkg/core"
)

// defaultFallbackTermWidth is used when terminal size cannot be detected.
const defaultFallbackTermWidth = 120

// DetectTerminalSize returns the best-effort terminal width and height by
// probing stdout, stderr, and stdin, then falling back to the COLUMNS
// environment variable and finally to (120, 24).
func DetectTerminalSize() (width int, height int) {
	fds := []uintptr{os.Stdout.Fd(), os.Stderr.Fd(), os.Stdin.Fd()}
	for _, fd := range fds {
		if w, h, err := term.GetSize(int(fd)); err == nil && (w > 0 || h > 0) {
			return w, h
		}
	}
	if col := os.Getenv("COLUMNS"); col != "" {
		if w, err := strconv.Atoi(col); err == nil && w > 0 {
			return w, 24
		}
	}
	return defaultFallbackTermWidth, 24
}

// Config holds host-provided settings for running the TUI.
type Config struct {
	// Width and Height size snapshots; zero detects the terminal.
	Width  int
	Height int
	// NoColor disables color in addition to the catalog's display setting.
	NoColor bool
	// Watch reloads when a file source changes.
	Watch bool
	// Picks are selected level by level once the catalog loads.
	Picks []string
	// StartKeys are replayed before a snapshot is rendered.
	StartKeys      []string
	ProgramOptions []tea.ProgramOption
	Logger         logr.Logger
}

func modelOptions(ctx context.Context, c *core.Catalog, location string, cfg Config) ui.Options {
	conf := c.Config()
	return ui.Options{
		AppName:    conf.App.Name,
		Source:     location,
		Schema:     c.Schema(),
		Messages:   conf.Messages,
		Theme:      conf.Display.Theme,
		NoColor:    cfg.NoColor || conf.Display.NoColor,
		ShowCounts: conf.Display.ShowCounts,
		Load:       c.Loader(location),
		Picks:      cfg.Picks,
		Context:    ctx,
		Logger:     cfg.Logger,
	}
}

// Run opens the navigator over location and blocks until the user quits.
func Run(ctx context.Context, c *core.Catalog, location string, cfg Config) error {
	return ui.Run(modelOptions(ctx, c, location, cfg), cfg.Watch || c.Config().Source.Watch, cfg.ProgramOptions...)
}

// Snapshot loads location synchronously, replays cfg.StartKeys and returns
// one rendered frame.
func Snapshot(ctx context.Context, c *core.Catalog, location string, cfg Config) string {
	w, h := cfg.Width, cfg.Height
	if w <= 0 || h <= 0 {
		dw, dh := DetectTerminalSize()
		if w <= 0 {
			w = dw
		}
		if h <= 0 {
			h = dh
		}
	}
	return ui.RenderSnapshot(modelOptions(ctx, c, location, cfg), ui.SnapshotConfig{
		Width:     w,
		Height:    h,
		StartKeys: cfg.StartKeys,
	})
}
