package diagnostics

import (
	"context"
	"errors"
	"fmt"
	"time"

	core "github.com/kilianp07/matchcast/core/diagnostics"
	"github.com/kilianp07/matchcast/core/factory"
)

// Config selects and tunes the diagnostics store.
type Config struct {
	Enabled    bool   `json:"enabled"`
	Backend    string `json:"backend"`
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
	// DSN is the connection string of the postgres backend.
	DSN string `json:"dsn"`
}

// SetDefaults fills unset values.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		switch c.Backend {
		case "sqlite":
			c.Path = "diagnostics.db"
		default:
			c.Path = "diagnostics.jsonl"
		}
	}
}

// Validate checks the backend is known and limits are not negative.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	var errs []error
	if !known(c.Backend) {
		errs = append(errs, fmt.Errorf("diagnostics.backend %q must be one of %v", c.Backend, registry.Names()))
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		errs = append(errs, errors.New("diagnostics rotation limits must not be negative"))
	}
	if c.Backend == "postgres" && c.DSN == "" {
		errs = append(errs, errors.New("diagnostics.dsn is required for the postgres backend"))
	}
	return errors.Join(errs...)
}

func (c Config) conf() map[string]any {
	return map[string]any{
		"path":         c.Path,
		"max_size_mb":  c.MaxSizeMB,
		"max_backups":  c.MaxBackups,
		"max_age_days": c.MaxAgeDays,
		"dsn":          c.DSN,
	}
}

type fileConf struct {
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

var registry = factory.NewRegistry[core.Store]()

func init() {
	registry.MustRegister("jsonl", func(conf map[string]any) (core.Store, error) {
		var c fileConf
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.MaxSizeMB > 0 {
			return NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
		}
		return NewJSONLStore(c.Path)
	})
	registry.MustRegister("sqlite", func(conf map[string]any) (core.Store, error) {
		var c fileConf
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewSQLiteStore(c.Path)
	})
	registry.MustRegister("postgres", func(conf map[string]any) (core.Store, error) {
		var c struct {
			DSN string `json:"dsn"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.DSN == "" {
			return nil, errors.New("postgres backend requires dsn")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return NewPostgresStore(ctx, c.DSN)
	})
}

// Backends lists the registered store backends.
func Backends() []string { return registry.Names() }

func known(backend string) bool {
	for _, n := range registry.Names() {
		if n == backend {
			return true
		}
	}
	return false
}

// Open creates the store named by cfg.Backend. A disabled config yields nil.
func Open(cfg Config) (core.Store, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	cfg.SetDefaults()
	s, err := registry.Create(factory.ModuleConfig{Type: cfg.Backend, Conf: cfg.conf()})
	if err != nil {
		return nil, fmt.Errorf("open diagnostics store: %w", err)
	}
	return s, nil
}
