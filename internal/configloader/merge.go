package configloader

import (
	"maps"

	"github.com/yaklabco/reparse/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Maps: deep merge, with override's values taking precedence
//   - Booleans: only true overrides, so a layer cannot unset a lower one
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.LogLevel != "" {
		result.LogLevel = override.LogLevel
	}
	if override.Language != "" {
		result.Language = override.Language
	}

	if override.Reparse.DepthLimit != 0 {
		result.Reparse.DepthLimit = override.Reparse.DepthLimit
	}
	if override.Reparse.Lookahead != 0 {
		result.Reparse.Lookahead = override.Reparse.Lookahead
	}
	if override.Reparse.CheckInterval != 0 {
		result.Reparse.CheckInterval = override.Reparse.CheckInterval
	}
	if override.Reparse.FullReparseOnly {
		result.Reparse.FullReparseOnly = true
	}

	if override.Markdown.Flavor != "" {
		result.Markdown.Flavor = override.Markdown.Flavor
	}
	if override.Output.Format != "" {
		result.Output.Format = override.Output.Format
	}
	if override.Output.Color != "" {
		result.Output.Color = override.Output.Color
	}

	result.Extensions = mergeExtensions(base.Extensions, override.Extensions)
	return &result
}

// mergeExtensions returns a fresh map holding base overlaid with override.
func mergeExtensions(base, override map[string]string) map[string]string {
	if base == nil && override == nil {
		return nil
	}
	result := make(map[string]string, len(base)+len(override))
	maps.Copy(result, base)
	maps.Copy(result, override)
	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
