package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/matchcast/core/metrics"
	"github.com/kilianp07/matchcast/infra/diagnostics"
)

type Config struct {
	Engine      EngineConfig       `json:"engine"`
	Source      SourceConfig       `json:"source"`
	Diagnostics diagnostics.Config `json:"diagnostics"`
	Metrics     metrics.Config     `json:"metrics"`
	Publish     PublishConfig      `json:"publish"`
	API         APIConfig          `json:"api"`
	Logging     LoggingConfig      `json:"logging"`
}

// Load reads the YAML or JSON file at path and applies K_ prefixed
// environment overrides, "__" separating nested keys
// (K_SOURCE__PATH=data.json). An empty path loads the environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		var parser koanf.Parser
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills every section.
func (c *Config) SetDefaults() {
	c.Engine.SetDefaults()
	c.Source.SetDefaults()
	c.Diagnostics.SetDefaults()
	c.Publish.SetDefaults()
	c.API.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate checks every section and reports all problems at once.
func (c Config) Validate() error {
	return errors.Join(
		c.Engine.Validate(),
		c.Source.Validate(),
		c.Diagnostics.Validate(),
		validateModules("metrics.sinks", c.Metrics.Sinks),
		c.Publish.Validate(),
		c.API.Validate(),
		c.Logging.Validate(),
	)
}
