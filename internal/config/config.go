// Package config defines the configuration structures for EnviroLens.  No I/O
// lives in this file, only plain data types and validation.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// StaticDir, when set, is served at "/" and "/static/*" instead of the
	// embedded dashboard page.
	StaticDir string `mapstructure:"static_dir"`
	// RefreshRate (per second) and RefreshBurst throttle ?refresh=true per
	// client.  A zero rate disables the limit.
	RefreshRate  float64 `mapstructure:"refresh_rate"`
	RefreshBurst int     `mapstructure:"refresh_burst"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level       string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format      string   `mapstructure:"format"` // "json" | "console"
	OutputPaths []string `mapstructure:"output_paths"`
}

// DatasetSource names where one dataset is read from: an http(s) URL, a
// .csv/.json/.xlsx path, or empty / "synthetic" for generated data.
type DatasetSource struct {
	Source string `mapstructure:"source"`
}

// DatasetsConfig configures the three dataset plugins.
type DatasetsConfig struct {
	MineralExtraction DatasetSource `mapstructure:"mineral_extraction"`
	WaterQuality      DatasetSource `mapstructure:"water_quality"`
	TimberProduction  DatasetSource `mapstructure:"timber_production"`
	// FetchTimeout bounds each remote fetch.
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

// SyntheticConfig drives the seeded generator used when a source is absent.
type SyntheticConfig struct {
	// Seed 0 means time-seeded.
	Seed      int64    `mapstructure:"seed"`
	StartYear int      `mapstructure:"start_year"`
	EndYear   int      `mapstructure:"end_year"`
	States    []string `mapstructure:"states"`
}

// CacheConfig selects the result store backend.
type CacheConfig struct {
	Backend string `mapstructure:"backend"` // "memory" | "redis"
}

// RedisConfig holds Redis connection parameters for the redis result store.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// InsightConfig configures the optional OpenAI-compatible insight service.
type InsightConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	Model        string        `mapstructure:"model"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Temperature  float64       `mapstructure:"temperature"`
	MaxTokens    int           `mapstructure:"max_tokens"`
	SampleSize   int           `mapstructure:"sample_size"`
	SystemPrompt string        `mapstructure:"system_prompt"`
}

// KafkaConfig configures publication of analytics snapshots.
type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// MetricsConfig configures the Prometheus registry.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// CORSConfig configures cross-origin access to the API.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
	MaxAge         int      `mapstructure:"max_age"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Datasets  DatasetsConfig  `mapstructure:"datasets"`
	Synthetic SyntheticConfig `mapstructure:"synthetic"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Insight   InsightConfig   `mapstructure:"insight"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	CORS      CORSConfig      `mapstructure:"cors"`
}

// Addr returns the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of a fully-defaulted Config and
// returns the first problem found.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}

	if c.Server.RefreshRate < 0 {
		return fmt.Errorf("config: server.refresh_rate must be >= 0")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	for name, src := range map[string]string{
		"mineral_extraction": c.Datasets.MineralExtraction.Source,
		"water_quality":      c.Datasets.WaterQuality.Source,
		"timber_production":  c.Datasets.TimberProduction.Source,
	} {
		if err := validateSource(src); err != nil {
			return fmt.Errorf("config: datasets.%s.source: %w", name, err)
		}
	}

	if c.Synthetic.EndYear < c.Synthetic.StartYear {
		return fmt.Errorf("config: synthetic.end_year %d precedes start_year %d",
			c.Synthetic.EndYear, c.Synthetic.StartYear)
	}
	if len(c.Synthetic.States) == 0 {
		return fmt.Errorf("config: synthetic.states must not be empty")
	}

	switch c.Cache.Backend {
	case "memory":
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("config: redis.addr is required when cache.backend is redis")
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("config: redis.db must be >= 0, got %d", c.Redis.DB)
		}
		// Clear deletes prefix+"*"; an empty or wildcard prefix would wipe
		// the whole database.
		if strings.TrimSpace(c.Redis.KeyPrefix) == "" {
			return fmt.Errorf("config: redis.key_prefix is required when cache.backend is redis")
		}
		if strings.ContainsAny(c.Redis.KeyPrefix, `*?[]\`) {
			return fmt.Errorf("config: redis.key_prefix %q must not contain glob characters", c.Redis.KeyPrefix)
		}
	default:
		return fmt.Errorf("config: cache.backend %q is invalid; expected memory|redis", c.Cache.Backend)
	}

	if c.Insight.Enabled {
		if _, err := url.ParseRequestURI(c.Insight.BaseURL); err != nil {
			return fmt.Errorf("config: insight.base_url %q is invalid: %w", c.Insight.BaseURL, err)
		}
		if c.Insight.Timeout <= 0 {
			return fmt.Errorf("config: insight.timeout must be positive")
		}
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("config: kafka.topic is required when kafka is enabled")
		}
	}

	return nil
}

func validateSource(src string) error {
	if src == "" || src == SyntheticSource {
		return nil
	}
	u, err := url.Parse(src)
	if err != nil {
		return err
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return fmt.Errorf("url %q has no host", src)
		}
	}
	return nil
}

//Personal.AI order the ending
