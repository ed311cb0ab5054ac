// Package config loads facetnav's configuration: the embedded defaults
// merged with an optional user YAML or TOML file.
package config

import (
	"strconv"
	"strings"

	"github.com/oakwood-commons/facetnav/internal/facet"
)

// Config is the merged configuration.
type Config struct {
	App      AppConfig     `yaml:"app" toml:"app" json:"app"`
	Source   SourceConfig  `yaml:"source" toml:"source" json:"source"`
	Schema   SchemaConfig  `yaml:"schema" toml:"schema" json:"schema"`
	Display  DisplayConfig `yaml:"display" toml:"display" json:"display"`
	Messages Messages      `yaml:"messages" toml:"messages" json:"messages"`
}

// AppConfig is descriptive metadata shown in help and the TUI header.
type AppConfig struct {
	Name        string `yaml:"name" toml:"name" json:"name"`
	Description string `yaml:"description" toml:"description" json:"description"`
}

// SourceConfig says where the dataset comes from and how to read it.
type SourceConfig struct {
	Location  string `yaml:"location" toml:"location" json:"location"`
	Encoding  string `yaml:"encoding" toml:"encoding" json:"encoding"`
	Delimiter string `yaml:"delimiter" toml:"delimiter" json:"delimiter"`
	KeyColumn string `yaml:"key_column" toml:"key_column" json:"key_column"`
	Where     string `yaml:"where" toml:"where" json:"where"`
	Watch     bool   `yaml:"watch" toml:"watch" json:"watch"`
}

// SchemaConfig declares the hierarchy levels and descriptive columns.
type SchemaConfig struct {
	RootLabel string         `yaml:"root_label" toml:"root_label" json:"root_label"`
	Levels    []string       `yaml:"levels" toml:"levels" json:"levels"`
	Details   []facet.Column `yaml:"details" toml:"details" json:"details"`
}

// DisplayConfig holds rendering defaults that flags may override.
type DisplayConfig struct {
	NoColor    bool        `yaml:"no_color" toml:"no_color" json:"no_color"`
	Width      int         `yaml:"width" toml:"width" json:"width"`
	ShowCounts bool        `yaml:"show_counts" toml:"show_counts" json:"show_counts"`
	Theme      ThemeConfig `yaml:"theme" toml:"theme" json:"theme"`
}

// ThemeConfig is the TUI color palette. Values are lipgloss color strings.
type ThemeConfig struct {
	Accent   string `yaml:"accent" toml:"accent" json:"accent"`
	Muted    string `yaml:"muted" toml:"muted" json:"muted"`
	Error    string `yaml:"error" toml:"error" json:"error"`
	Border   string `yaml:"border" toml:"border" json:"border"`
	Selected string `yaml:"selected" toml:"selected" json:"selected"`
}

// Messages are the user-facing strings.
type Messages struct {
	Loading         string `yaml:"loading" toml:"loading" json:"loading"`
	LoadErrorPrefix string `yaml:"load_error_prefix" toml:"load_error_prefix" json:"load_error_prefix"`
	NoResults       string `yaml:"no_results" toml:"no_results" json:"no_results"`
	NothingSelected string `yaml:"nothing_selected" toml:"nothing_selected" json:"nothing_selected"`
	NoData          string `yaml:"no_data" toml:"no_data" json:"no_data"`
	// CountFormat renders an option's row count; {count} is replaced.
	CountFormat string `yaml:"count_format" toml:"count_format" json:"count_format"`
}

// Count renders n with CountFormat.
func (m Messages) Count(n int) string {
	return strings.ReplaceAll(m.CountFormat, "{count}", strconv.Itoa(n))
}

// FacetSchema converts the schema section into the engine's schema.
func (c Config) FacetSchema() facet.Schema {
	return facet.Schema{
		Levels:    append([]string(nil), c.Schema.Levels...),
		Details:   append([]facet.Column(nil), c.Schema.Details...),
		KeyColumn: c.Source.KeyColumn,
		RootLabel: c.Schema.RootLabel,
	}
}

// DelimiterRune returns the configured delimiter. "tab" and `\t` mean a
// tab; empty means a comma.
func (c Config) DelimiterRune() rune {
	r, _ := parseDelimiter(c.Source.Delimiter)
	return r
}
