package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/facetnav/internal/source"
	"github.com/oakwood-commons/facetnav/pkg/settings"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

var (
	embeddedConfigOnce sync.Once
	embeddedConfig     Config
	embeddedConfigErr  error
)

// ValidationError reports a configuration that cannot be used. Field is the
// dotted key at fault when one is known.
type ValidationError struct {
	Path  string
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("invalid config")
	if e.Path != "" {
		b.WriteString(" " + e.Path)
	}
	if e.Field != "" {
		b.WriteString(": " + e.Field)
	}
	b.WriteString(": " + e.Err.Error())
	return b.String()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// DefaultYAML returns a copy of the embedded default config YAML bytes.
func DefaultYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Default parses and returns the embedded default configuration. It is the
// single source of truth for default settings.
func Default() (Config, error) {
	embeddedConfigOnce.Do(func() {
		if len(embeddedDefaultConfig) == 0 {
			embeddedConfigErr = fmt.Errorf("embedded default config is empty")
			return
		}
		if err := decodeYAML(embeddedDefaultConfig, &embeddedConfig); err != nil {
			embeddedConfigErr = fmt.Errorf("decode embedded default config: %w", err)
		}
	})
	return clone(embeddedConfig), embeddedConfigErr
}

// ResolvePath returns explicit when set, otherwise the first existing
// config file under $XDG_CONFIG_HOME/facetnav (or ~/.config/facetnav),
// otherwise "".
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	dir := ""
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dir = filepath.Join(xdg, settings.CliBinaryName)
	} else if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".config", settings.CliBinaryName)
	}
	if dir == "" {
		return ""
	}
	for _, name := range []string{"config.yaml", "config.yml", "config.toml"} {
		candidate := filepath.Join(dir, name)
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

// Load returns the embedded defaults overlaid with the file at path. An
// empty path returns the defaults. Files ending in .toml are read as TOML
// and everything else as YAML. Keys absent from the file keep their
// default; lists replace the default list.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, &ValidationError{Path: path, Err: err}
	}
	if IsTOML(path) {
		err = decodeTOML(data, &cfg)
	} else {
		err = decodeYAML(data, &cfg)
	}
	if err != nil {
		return cfg, &ValidationError{Path: path, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			ve.Path = path
		}
		return cfg, err
	}
	return cfg, nil
}

// IsTOML reports whether path names a TOML file.
func IsTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func decodeYAML(data []byte, into *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(into); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func decodeTOML(data []byte, into *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(into)
}

// Validate checks that the configuration can drive a session.
func (c Config) Validate() error {
	if err := c.FacetSchema().Validate(); err != nil {
		return &ValidationError{Field: "schema", Err: err}
	}
	if _, err := parseDelimiter(c.Source.Delimiter); err != nil {
		return &ValidationError{Field: "source.delimiter", Err: err}
	}
	if err := source.ValidateEncoding(c.Source.Encoding); err != nil {
		return &ValidationError{Field: "source.encoding", Err: err}
	}
	if c.Display.Width < 0 {
		return &ValidationError{Field: "display.width", Err: fmt.Errorf("must be non-negative, got %d", c.Display.Width)}
	}
	return nil
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return ',', nil
	case "tab", `\t`:
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return ',', fmt.Errorf("must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '"' || r == '\n' || r == '\r' {
		return ',', fmt.Errorf("%q cannot be used as a delimiter", s)
	}
	return r, nil
}

// ParseDelimiter converts a delimiter flag value to a rune.
func ParseDelimiter(s string) (rune, error) {
	return parseDelimiter(s)
}

// Marshal renders cfg as YAML, or TOML when format is "toml".
func Marshal(cfg Config, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "yaml", "yml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case "toml":
		return toml.Marshal(cfg)
	default:
		return nil, fmt.Errorf("unsupported config format %q (use yaml or toml)", format)
	}
}

func clone(c Config) Config {
	c.Schema.Levels = append([]string(nil), c.Schema.Levels...)
	c.Schema.Details = append(c.Schema.Details[:0:0], c.Schema.Details...)
	return c
}
