// Package config loads runtime configuration from a JSON file with
// environment variable overrides applied on top.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
)

// FlexibleStringSlice is a []string that also accepts JSON numbers,
// so chat lists can contain both "durov" and 123.
type FlexibleStringSlice []string

func (f *FlexibleStringSlice) UnmarshalJSON(data []byte) error {
	// Try []string first
	var ss []string
	if err := json.Unmarshal(data, &ss); err == nil {
		*f = ss
		return nil
	}

	// Try []interface{} to handle mixed types
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	result := make([]string, 0, len(raw))
	for _, v := range raw {
		switch val := v.(type) {
		case string:
			result = append(result, val)
		case float64:
			result = append(result, fmt.Sprintf("%.0f", val))
		default:
			result = append(result, fmt.Sprintf("%v", val))
		}
	}
	*f = result
	return nil
}

// Specifiers converts the slice into chat specifiers for filter options:
// numeric entries become int64, everything else stays a string for the
// directory to resolve.
func (f FlexibleStringSlice) Specifiers() []any {
	specs := make([]any, 0, len(f))
	for _, s := range f {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			specs = append(specs, n)
			continue
		}
		specs = append(specs, s)
	}
	return specs
}

type Config struct {
	LogLevel  string          `env:"GRAMFLOW_LOG_LEVEL" json:"log_level"`
	Session   SessionConfig   `json:"session"`
	Feed      FeedConfig      `json:"feed"`
	Simulator SimulatorConfig `json:"simulator"`
}

type SessionConfig struct {
	Backend        string `env:"GRAMFLOW_SESSION_BACKEND"  json:"backend"`
	RedisURL       string `env:"GRAMFLOW_REDIS_URL"        json:"redis_url,omitempty"`
	RedisKeyPrefix string `env:"GRAMFLOW_REDIS_KEY_PREFIX" json:"redis_key_prefix,omitempty"`
	// EntityTTLMinutes bounds how long an entity stays addressable after
	// it was last seen in an update: Redis record TTL, memory janitor
	// max age.
	EntityTTLMinutes int    `env:"GRAMFLOW_ENTITY_TTL_MINUTES" json:"entity_ttl_minutes"`
	JanitorCron      string `env:"GRAMFLOW_JANITOR_CRON"       json:"janitor_cron"`
}

func (s SessionConfig) EntityTTL() time.Duration {
	return time.Duration(s.EntityTTLMinutes) * time.Minute
}

type FeedConfig struct {
	Enabled bool   `env:"GRAMFLOW_FEED_ENABLED" json:"enabled"`
	Listen  string `env:"GRAMFLOW_FEED_LISTEN"  json:"listen"`
}

type SimulatorConfig struct {
	Chats     FlexibleStringSlice `json:"chats,omitempty"`
	Blacklist bool                `json:"blacklist"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Session: SessionConfig{
			Backend:          "memory",
			RedisKeyPrefix:   "gf:entity:",
			EntityTTLMinutes: 24 * 60,
			JanitorCron:      "*/30 * * * *",
		},
		Feed: FeedConfig{
			Listen: "127.0.0.1:8765",
		},
	}
}

// Load reads the JSON config at path (missing file means defaults) and
// applies environment overrides on top.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parsing %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}

	switch c.Session.Backend {
	case "memory":
	case "redis":
		if c.Session.RedisURL == "" {
			return fmt.Errorf("config: redis backend requires redis_url")
		}
	default:
		return fmt.Errorf("config: unknown session backend %q", c.Session.Backend)
	}

	if c.Session.EntityTTLMinutes <= 0 {
		return fmt.Errorf("config: entity_ttl_minutes must be positive, got %d", c.Session.EntityTTLMinutes)
	}
	return nil
}
