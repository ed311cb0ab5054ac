// Package core is the embedding API: it loads a catalog from a file, URL or
// reader, applies the row prefilter and returns a facet engine ready for
// navigation.
package core

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/facetnav/internal/config"
	"github.com/oakwood-commons/facetnav/internal/facet"
	"github.com/oakwood-commons/facetnav/internal/rowfilter"
	"github.com/oakwood-commons/facetnav/internal/source"
	"github.com/oakwood-commons/facetnav/internal/tabular"
)

// Catalog binds a validated configuration to the loading pipeline.
type Catalog struct {
	cfg    config.Config
	filter *rowfilter.Filter
	log    logr.Logger
	stdin  io.Reader
	client *http.Client
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger passed to the loader and engines.
func WithLogger(lgr logr.Logger) Option {
	return func(c *Catalog) {
		c.log = lgr
	}
}

// WithStdin sets the reader used for the "-" source.
func WithStdin(r io.Reader) Option {
	return func(c *Catalog) {
		c.stdin = r
	}
}

// WithHTTPClient sets the client used for URL sources.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Catalog) {
		c.client = client
	}
}

// New validates cfg and compiles its row prefilter.
func New(cfg config.Config, opts ...Option) (*Catalog, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	filter, err := rowfilter.Compile(cfg.Source.Where)
	if err != nil {
		return nil, fmt.Errorf("--where: %w", err)
	}
	c := &Catalog{cfg: cfg, filter: filter, log: logr.Discard()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Default returns a Catalog over the embedded default configuration.
func Default(opts ...Option) (*Catalog, error) {
	cfg, err := config.Default()
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

// Config returns the catalog's configuration.
func (c *Catalog) Config() config.Config { return c.cfg }

// Schema returns the engine schema described by the configuration.
func (c *Catalog) Schema() facet.Schema { return c.cfg.FacetSchema() }

// Location returns override when set, otherwise the configured source.
func (c *Catalog) Location(override string) string {
	if override != "" {
		return override
	}
	return c.cfg.Source.Location
}

// Loader returns a function that reads, decodes, parses and prefilters
// location each time it is called.
func (c *Catalog) Loader(location string) func(context.Context) (*tabular.Dataset, error) {
	return func(ctx context.Context) (*tabular.Dataset, error) {
		return c.Load(ctx, location)
	}
}

// Load reads location and returns the prefiltered dataset.
func (c *Catalog) Load(ctx context.Context, location string) (*tabular.Dataset, error) {
	text, err := source.Load(ctx, location, source.Options{
		Encoding: c.cfg.Source.Encoding,
		Client:   c.client,
		Stdin:    c.stdin,
	})
	if err != nil {
		return nil, err
	}
	ds, stats := tabular.Parse(text, tabular.Options{
		Delimiter: c.cfg.DelimiterRune(),
		KeyColumn: c.cfg.Source.KeyColumn,
	})
	c.log.V(1).Info("parsed source",
		"lines", stats.Lines,
		"rows", stats.Rows,
		"blank_lines", stats.BlankLines,
		"dropped_empty_key", stats.DroppedEmptyKey,
		"short_rows", stats.ShortRows,
		"long_rows", stats.LongRows,
		"key_column", stats.KeyColumn)
	if len(ds.Header) > 0 {
		if stats.KeyColumn != "" && !ds.HasColumn(stats.KeyColumn) {
			c.log.Info("key column not in header, every row dropped", "key_column", stats.KeyColumn)
		}
		if missing := ds.MissingColumns(c.Schema().Levels); len(missing) > 0 {
			c.log.Info("level columns not in header", "missing", missing)
		}
	}
	if c.filter == nil {
		return ds, nil
	}
	filtered, err := c.filter.Apply(ds)
	if err != nil {
		return nil, fmt.Errorf("--where: %w", err)
	}
	c.log.V(1).Info("prefiltered rows", "where", c.filter.String(), "kept", filtered.Len(), "of", ds.Len())
	return filtered, nil
}

// Open loads location and returns an engine with picks applied in level
// order. A pick that is not an option at its level fails with
// facet.ErrUnknownValue.
func (c *Catalog) Open(ctx context.Context, location string, picks ...string) (*facet.Engine, error) {
	ds, err := c.Load(ctx, location)
	if err != nil {
		return nil, err
	}
	engine, err := facet.NewEngine(c.Schema(), ds, facet.WithLogger(c.log))
	if err != nil {
		return nil, err
	}
	if len(picks) > 0 {
		if err := engine.Pick(picks...); err != nil {
			return nil, err
		}
	}
	return engine, nil
}
