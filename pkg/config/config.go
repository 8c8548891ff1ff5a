// Package config defines core configuration types for reparse.
// These types are pure data structures; loading and merging live in
// internal/configloader.
package config

// Default values for the reparse section.
const (
	DefaultDepthLimit    = 1000
	DefaultLookahead     = 4
	DefaultCheckInterval = 1
)

// Flavor specifies the Markdown flavor to use for parsing.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// OutputFormat specifies how commands print trees and diff logs.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// ColorMode controls styled terminal output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ReparseConfig tunes the reparse engine.
type ReparseConfig struct {
	// DepthLimit is the tree depth above which incremental reparse is
	// disabled and whole trees are swapped.
	DepthLimit int `yaml:"depth_limit"`

	// Lookahead is the diff realignment window.
	Lookahead int `yaml:"lookahead"`

	// CheckInterval is how many node visits pass between cancellation
	// checks.
	CheckInterval int `yaml:"check_interval"`

	// FullReparseOnly skips region location and always reparses the whole
	// text.
	FullReparseOnly bool `yaml:"full_reparse_only"`
}

// MarkdownConfig configures the markdown language plugin.
type MarkdownConfig struct {
	Flavor Flavor `yaml:"flavor"`
}

// OutputConfig controls command output.
type OutputConfig struct {
	Format OutputFormat `yaml:"format"`
	Color  ColorMode    `yaml:"color"`
}

// Config is the root configuration structure for reparse.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	Reparse  ReparseConfig  `yaml:"reparse"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Output   OutputConfig   `yaml:"output"`

	// Extensions maps file extensions (".mn") to language names. They are
	// consulted before content-based detection.
	Extensions map[string]string `yaml:"extensions"`

	// CLI-level options (not persisted to config files).

	// Language forces a language plugin for every input.
	Language string `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		LogLevel: "warn",
		Reparse: ReparseConfig{
			DepthLimit:    DefaultDepthLimit,
			Lookahead:     DefaultLookahead,
			CheckInterval: DefaultCheckInterval,
		},
		Markdown: MarkdownConfig{
			Flavor: FlavorCommonMark,
		},
		Output: OutputConfig{
			Format: FormatText,
			Color:  ColorAuto,
		},
		Extensions: make(map[string]string),
	}
}
