package configloader

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/yaklabco/reparse/pkg/config"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "reparse.lookahead").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

//nolint:gochecknoglobals // Read-only lookup table.
var knownLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

//nolint:gochecknoglobals // Read-only lookup table.
var knownFlavors = map[config.Flavor]bool{
	config.FlavorCommonMark: true,
	config.FlavorGFM:        true,
}

//nolint:gochecknoglobals // Read-only lookup table.
var knownFormats = map[config.OutputFormat]bool{
	config.FormatText: true,
	config.FormatJSON: true,
}

//nolint:gochecknoglobals // Read-only lookup table.
var knownColors = map[config.ColorMode]bool{
	config.ColorAuto:   true,
	config.ColorAlways: true,
	config.ColorNever:  true,
}

// lookaheadWarnAbove is the window past which diffs get noticeably slower.
const lookaheadWarnAbove = 64

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	fail := func(field string, value any, format string, args ...any) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   field,
			Value:   value,
			Message: fmt.Sprintf(format, args...),
		})
	}

	if cfg.LogLevel != "" && !knownLogLevels[cfg.LogLevel] {
		fail("log_level", cfg.LogLevel, "invalid log level %q; must be one of: debug, info, warn, error", cfg.LogLevel)
	}
	if cfg.Reparse.DepthLimit < 1 {
		fail("reparse.depth_limit", cfg.Reparse.DepthLimit, "depth_limit must be >= 1")
	}
	if cfg.Reparse.Lookahead < 1 {
		fail("reparse.lookahead", cfg.Reparse.Lookahead, "lookahead must be >= 1")
	}
	if cfg.Reparse.CheckInterval < 1 {
		fail("reparse.check_interval", cfg.Reparse.CheckInterval, "check_interval must be >= 1")
	}
	if cfg.Markdown.Flavor != "" && !knownFlavors[cfg.Markdown.Flavor] {
		fail("markdown.flavor", cfg.Markdown.Flavor, "invalid flavor %q; must be one of: commonmark, gfm", cfg.Markdown.Flavor)
	}
	if cfg.Output.Format != "" && !knownFormats[cfg.Output.Format] {
		fail("output.format", cfg.Output.Format, "invalid format %q; must be one of: text, json", cfg.Output.Format)
	}
	if cfg.Output.Color != "" && !knownColors[cfg.Output.Color] {
		fail("output.color", cfg.Output.Color, "invalid color mode %q; must be one of: auto, always, never", cfg.Output.Color)
	}
	for _, ext := range slices.Sorted(maps.Keys(cfg.Extensions)) {
		if !strings.HasPrefix(ext, ".") {
			fail("extensions."+ext, ext, "extension %q must start with a dot", ext)
		}
		if cfg.Extensions[ext] == "" {
			fail("extensions."+ext, "", "extension %q maps to no language", ext)
		}
	}

	if cfg.Reparse.Lookahead > lookaheadWarnAbove {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "reparse.lookahead",
			Value:   cfg.Reparse.Lookahead,
			Message: fmt.Sprintf("lookahead %d is unusually large; diffs may be slow", cfg.Reparse.Lookahead),
		})
	}

	return result
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}
	return result
}

// IsValidFlavor returns true if the flavor is valid.
func IsValidFlavor(f config.Flavor) bool {
	return knownFlavors[f]
}

// IsValidFormat returns true if the format is valid.
func IsValidFormat(f config.OutputFormat) bool {
	return knownFormats[f]
}
