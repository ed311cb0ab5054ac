package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/facetnav/internal/config"
	"github.com/oakwood-commons/facetnav/internal/facet"
	"github.com/oakwood-commons/facetnav/internal/formatter"
	"github.com/oakwood-commons/facetnav/pkg/core"
	"github.com/oakwood-commons/facetnav/pkg/logger"
	"github.com/oakwood-commons/facetnav/pkg/settings"
)

// session is a loaded dataset with an engine positioned at the --pick
// values, shared by the non-interactive commands.
type session struct {
	cfg      config.Config
	location string
	engine   *facet.Engine
}

// loadConfig reads the config file and applies flag overrides, taking the
// display and watch settings from the run settings in ctx.
func loadConfig(ctx context.Context) (config.Config, error) {
	cfg, err := config.Load(config.ResolvePath(configFile))
	if err != nil {
		return cfg, err
	}
	if whereExpr != "" {
		cfg.Source.Where = whereExpr
	}
	if delimiter != "" {
		cfg.Source.Delimiter = delimiter
	}
	if encodingName != "" {
		cfg.Source.Encoding = encodingName
	}
	if keyColumn != "" {
		cfg.Source.KeyColumn = keyColumn
	}
	if rs, ok := settings.FromContext(ctx); ok {
		if rs.Source.Watch {
			cfg.Source.Watch = true
		}
		if rs.NoColor {
			cfg.Display.NoColor = true
		}
		if rs.Width > 0 {
			cfg.Display.Width = rs.Width
		}
	}
	return cfg, nil
}

// newCatalog builds the catalog for cmd and resolves the source location
// from args or the config. The --where expression is compiled before any
// data is read.
func newCatalog(ctx context.Context, cmd *cobra.Command, args []string) (*core.Catalog, string, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, "", err
	}
	lgr := logger.FromContext(ctx)
	c, err := core.New(cfg, core.WithStdin(cmd.InOrStdin()), core.WithLogger(*lgr))
	if err != nil {
		return nil, "", err
	}
	var override string
	if len(args) > 0 {
		override = args[0]
	}
	location := c.Location(override)
	if rs, ok := settings.FromContext(ctx); ok {
		rs.Source.Location = location
	}
	return c, location, nil
}

func newSession(ctx context.Context, cmd *cobra.Command, args []string) (*session, error) {
	c, location, err := newCatalog(ctx, cmd, args)
	if err != nil {
		return nil, err
	}
	engine, err := c.Open(ctx, location, picks...)
	if err != nil {
		return nil, err
	}
	return &session{cfg: c.Config(), location: location, engine: engine}, nil
}

func (s *session) viewOptions() formatter.ViewOptions {
	width := s.cfg.Display.Width
	if width == 0 {
		width = formatter.TerminalWidth()
	}
	return formatter.ViewOptions{
		NoColor:      s.cfg.Display.NoColor || !formatter.StdoutIsTerminal(),
		Width:        width,
		ShowCounts:   s.cfg.Display.ShowCounts,
		Messages:     s.cfg.Messages,
		EmptyDataset: s.engine.Dataset().Len() == 0,
	}
}

// title names the current position for export headings.
func (s *session) title() string {
	trail := s.engine.Trail()
	labels := make([]string, 0, len(trail))
	for _, e := range trail {
		labels = append(labels, e.Label)
	}
	return s.cfg.App.Name + ": " + strings.Join(labels, formatter.TrailSeparator)
}
