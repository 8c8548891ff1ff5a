// Package configloader provides configuration loading and resolution.
// It implements XDG-compliant configuration discovery, hierarchical merging,
// environment variable support, and validation.
package configloader

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/yaklabco/reparse/internal/logging"
	"github.com/yaklabco/reparse/pkg/config"
)

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	ExplicitPath string

	// IgnoreSystemConfig skips loading system-level configuration.
	IgnoreSystemConfig bool

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// Getenv replaces os.Getenv when reading REPARSE_* variables.
	Getenv func(string) string

	// CLIConfig contains configuration from CLI flags.
	// These take highest precedence.
	CLIConfig *config.Config
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (REPARSE_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.reparse.yml upward search)
//  5. User config ($XDG_CONFIG_HOME/reparse/config.yaml)
//  6. System config (/etc/reparse/config.yaml)
//  7. Defaults
//
// Every validation problem of the merged result is reported, joined into
// one error.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	logger := logging.FromContext(ctx)

	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	if opts.ExplicitPath != "" {
		paths.Explicit = opts.ExplicitPath
	}
	result := &LoadResult{Paths: paths}

	cfg := config.NewConfig()

	layers := []struct {
		name    string
		path    string
		enabled bool
	}{
		{"system", paths.System, !opts.IgnoreSystemConfig},
		{"user", paths.User, !opts.IgnoreUserConfig},
		{"project", paths.Project, !opts.IgnoreProjectConfig},
		{"explicit", paths.Explicit, true},
	}
	for _, layer := range layers {
		if !layer.enabled || layer.path == "" {
			continue
		}
		layerCfg, err := loadConfigFile(layer.path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.name, err)
		}
		cfg = merge(cfg, layerCfg)
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
		logger.Debug("loaded config", logging.FieldConfig, layer.name, logging.FieldPath, layer.path)
	}

	if !opts.IgnoreEnv {
		getenv := opts.Getenv
		if getenv == nil {
			getenv = os.Getenv
		}
		if err := LoadFromEnv(cfg, getenv); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	validation := Validate(cfg)
	if !validation.Valid() {
		errs := make([]error, 0, len(validation.Errors))
		for i := range validation.Errors {
			errs = append(errs, &validation.Errors[i])
		}
		return nil, errors.Join(errs...)
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	result.Config = cfg
	return result, nil
}

// loadConfigFile loads a configuration from a YAML file.
func loadConfigFile(path string) (*config.Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	cfg, err := config.FromYAML(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
