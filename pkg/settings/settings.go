// Package settings provides build metadata, per-run options, and context
// helpers shared by the facetnav CLI and its packages.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "facetnav"

// VersionInformation is populated at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// SourceSettings describes where the raw tabular text comes from.
type SourceSettings struct {
	// Location is a file path, "-" for stdin, or an http(s) URL.
	Location string
	// Watch reloads the dataset when a file source changes (interactive only).
	Watch bool
}

// Run holds configuration for a single execution of the application.
type Run struct {
	MinLogLevel int8
	LogFile     string
	Source      SourceSettings
	Interactive bool
	NoColor     bool
	Width       int
}

// NewCliParams returns the defaults used by the CLI before flags are applied.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		Source: SourceSettings{
			Location: "",
			Watch:    false,
		},
		Interactive: false,
		NoColor:     false,
	}
}

// IsStdin reports whether the source reads from standard input.
func (s SourceSettings) IsStdin() bool {
	return s.Location == "-"
}
