// Package facet implements progressive facet filtering over a tabular
// dataset: the selection state, per-level option derivation, result
// projection, and the re-enterable navigation trail.
package facet

import (
	"fmt"
	"strings"
)

// Column is a descriptive (non-hierarchy) column and its display label.
type Column struct {
	Key   string `yaml:"key" toml:"key" json:"key"`
	Label string `yaml:"label,omitempty" toml:"label,omitempty" json:"label,omitempty"`
}

// DisplayLabel returns Label, or Key when no label is set.
func (c Column) DisplayLabel() string {
	if strings.TrimSpace(c.Label) != "" {
		return c.Label
	}
	return c.Key
}

// Schema parameterizes the engine: the ordered hierarchy-level columns and
// the descriptive columns shown with each result row.
type Schema struct {
	Levels    []string
	Details   []Column
	KeyColumn string
	RootLabel string
}

// DefaultRootLabel labels the "no selection" trail entry.
const DefaultRootLabel = "すべて"

// Depth returns N, the number of hierarchy levels.
func (s Schema) Depth() int {
	return len(s.Levels)
}

// LevelColumn returns the column name for level, or "" when out of range.
func (s Schema) LevelColumn(level int) string {
	if level < 0 || level >= len(s.Levels) {
		return ""
	}
	return s.Levels[level]
}

// Root returns the root trail label.
func (s Schema) Root() string {
	if s.RootLabel == "" {
		return DefaultRootLabel
	}
	return s.RootLabel
}

// DisplayColumns returns every level column followed by the descriptive
// columns, which is the column order of the result table.
func (s Schema) DisplayColumns() []Column {
	out := make([]Column, 0, len(s.Levels)+len(s.Details))
	for _, l := range s.Levels {
		out = append(out, Column{Key: l})
	}
	return append(out, s.Details...)
}

// Validate checks that the schema can drive an engine.
func (s Schema) Validate() error {
	if len(s.Levels) == 0 {
		return fmt.Errorf("schema: at least one level column is required")
	}
	seen := make(map[string]bool, len(s.Levels))
	for i, l := range s.Levels {
		if strings.TrimSpace(l) == "" {
			return fmt.Errorf("schema: level %d has an empty column name", i+1)
		}
		if seen[l] {
			return fmt.Errorf("schema: level column %q is declared twice", l)
		}
		seen[l] = true
	}
	for i, d := range s.Details {
		if strings.TrimSpace(d.Key) == "" {
			return fmt.Errorf("schema: detail column %d has an empty key", i+1)
		}
	}
	return nil
}
