package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/matchcast/core/factory"
	"github.com/kilianp07/matchcast/infra/firestore"
)

// EngineConfig tunes the forecast.
type EngineConfig struct {
	FactorDefense bool    `json:"factor_defense"`
	VarianceScale float64 `json:"variance_scale"`
}

func (c *EngineConfig) SetDefaults() {
	if c.VarianceScale == 0 {
		c.VarianceScale = 1
	}
}

func (c EngineConfig) Validate() error {
	if c.VarianceScale < 0 {
		return fmt.Errorf("engine.variance_scale must be positive, got %v", c.VarianceScale)
	}
	return nil
}

// Source types.
const (
	SourceFile      = "file"
	SourceFirestore = "firestore"
)

// SourceConfig selects where scouting data is read from.
type SourceConfig struct {
	Type      string           `json:"type"`
	Path      string           `json:"path"`
	Firestore firestore.Config `json:"firestore"`
	Cache     CacheConfig      `json:"cache"`
}

// CacheConfig enables the Redis snapshot cache in front of the source.
type CacheConfig struct {
	Enabled    bool   `json:"enabled"`
	Addr       string `json:"addr"`
	Password   string `json:"password"`
	DB         int    `json:"db"`
	TTLSeconds int    `json:"ttl_seconds"`
}

// TTL returns the cache lifetime of a snapshot.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

func (c *SourceConfig) SetDefaults() {
	if c.Type == "" {
		c.Type = SourceFile
	}
	if c.Type == SourceFile && c.Path == "" {
		c.Path = "fetched_data.json"
	}
	if c.Cache.Addr == "" {
		c.Cache.Addr = "localhost:6379"
	}
	if c.Cache.TTLSeconds <= 0 {
		c.Cache.TTLSeconds = 300
	}
}

func (c SourceConfig) Validate() error {
	switch c.Type {
	case SourceFile:
		if c.Path == "" {
			return errors.New("source.path is required for the file source")
		}
	case SourceFirestore:
		if c.Firestore.ProjectID == "" {
			return errors.New("source.firestore.project_id is required")
		}
	default:
		return fmt.Errorf("unknown source type %q", c.Type)
	}
	return nil
}

// PublishConfig lists report publishers (mqtt, nats).
type PublishConfig struct {
	Publishers []factory.ModuleConfig `json:"publishers"`
	// TimeoutSeconds bounds a single publication.
	TimeoutSeconds int `json:"timeout_seconds"`
}

func (c *PublishConfig) SetDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 5
	}
}

func (c PublishConfig) Validate() error {
	return validateModules("publish.publishers", c.Publishers)
}

// Timeout returns the per publication deadline.
func (c PublishConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// APIConfig configures the HTTP server of the serve command.
type APIConfig struct {
	Addr           string   `json:"addr"`
	AllowedOrigins []string `json:"allowed_origins"`
	// Token, when set, guards the diagnostics endpoint with a bearer token.
	Token string `json:"token"`
}

func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
}

func (c APIConfig) Validate() error {
	if c.Addr == "" {
		return errors.New("api.addr is required")
	}
	return nil
}

func validateModules(section string, mods []factory.ModuleConfig) error {
	for i, m := range mods {
		if m.Type == "" {
			return fmt.Errorf("%s[%d]: type is required", section, i)
		}
	}
	return nil
}
