package configloader

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/yaklabco/reparse/pkg/config"
)

// envVarPrefix is the prefix for all reparse environment variables.
const envVarPrefix = "REPARSE_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field string
	typ   envFieldType
	help  string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"LOG_LEVEL":         {field: "log_level", typ: envTypeString, help: "Log level: debug, info, warn, or error"},
	"DEPTH_LIMIT":       {field: "reparse.depth_limit", typ: envTypeInt, help: "Depth above which trees are swapped whole"},
	"LOOKAHEAD":         {field: "reparse.lookahead", typ: envTypeInt, help: "Diff realignment window"},
	"CHECK_INTERVAL":    {field: "reparse.check_interval", typ: envTypeInt, help: "Node visits between cancellation checks"},
	"FULL_REPARSE_ONLY": {field: "reparse.full_reparse_only", typ: envTypeBool, help: "Always reparse whole texts: true or false"},
	"FLAVOR":            {field: "markdown.flavor", typ: envTypeString, help: "Markdown flavor: commonmark or gfm"},
	"FORMAT":            {field: "output.format", typ: envTypeString, help: "Output format: text or json"},
	"COLOR":             {field: "output.color", typ: envTypeString, help: "Color: auto, always, or never"},
	"LANGUAGE":          {field: "language", typ: envTypeString, help: "Force a language plugin"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with REPARSE_ (e.g., REPARSE_FLAVOR).
// Every malformed value is reported.
func LoadFromEnv(cfg *config.Config, getenv func(string) string) error {
	if cfg == nil {
		return nil
	}

	var errs []error
	for _, envSuffix := range slices.Sorted(maps.Keys(envMappings)) {
		envVar := envVarPrefix + envSuffix
		value := getenv(envVar)
		if value == "" {
			continue
		}
		if err := applyEnvValue(cfg, envMappings[envSuffix], value, envVar); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "log_level":
		cfg.LogLevel = value
	case "markdown.flavor":
		cfg.Markdown.Flavor = config.Flavor(value)
	case "output.format":
		cfg.Output.Format = config.OutputFormat(value)
	case "output.color":
		cfg.Output.Color = config.ColorMode(value)
	case "language":
		cfg.Language = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "reparse.full_reparse_only":
		cfg.Reparse.FullReparseOnly = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "reparse.depth_limit":
		cfg.Reparse.DepthLimit = value
	case "reparse.lookahead":
		cfg.Reparse.Lookahead = value
	case "reparse.check_interval":
		cfg.Reparse.CheckInterval = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns all supported environment variables with their
// descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.help
	}
	return vars
}
