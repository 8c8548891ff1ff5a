package config

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting with its default value. If false, a
	// commented minimal template is generated.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# reparse configuration
# See: https://github.com/yaklabco/reparse`
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON(NewConfig())
	}
	if opts.Full {
		return NewConfig().ToYAMLWithHeader(DefaultTemplateHeader())
	}
	return generateMinimalTemplate(), nil
}

func generateMinimalTemplate() []byte {
	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Log level: debug, info, warn, or error
# log_level: warn

reparse:
  # Trees deeper than this are swapped whole instead of diffed
  # depth_limit: 1000

  # How far the diff looks ahead to realign children
  # lookahead: 4

  # Node visits between cancellation checks
  # check_interval: 1

  # Always reparse the whole text (debugging aid)
  # full_reparse_only: false

markdown:
  # Markdown flavor: commonmark or gfm
  flavor: commonmark

output:
  # Output format: text or json
  # format: text

  # Color: auto, always, or never
  # color: auto

# Map file extensions to languages
# extensions:
#   .mn: mini
`)
	return buf.Bytes()
}

// templateToJSON renders cfg as indented JSON.
func templateToJSON(cfg *Config) ([]byte, error) {
	doc := map[string]any{
		"log_level": cfg.LogLevel,
		"reparse": map[string]any{
			"depth_limit":       cfg.Reparse.DepthLimit,
			"lookahead":         cfg.Reparse.Lookahead,
			"check_interval":    cfg.Reparse.CheckInterval,
			"full_reparse_only": cfg.Reparse.FullReparseOnly,
		},
		"markdown": map[string]any{
			"flavor": cfg.Markdown.Flavor,
		},
		"output": map[string]any{
			"format": cfg.Output.Format,
			"color":  cfg.Output.Color,
		},
		"extensions": cfg.Extensions,
	}

	jsonBytes, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return jsonBytes, nil
}
