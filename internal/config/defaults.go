package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerHost            = "0.0.0.0"
	DefaultServerPort            = 8000
	DefaultServerReadTimeout     = 15 * time.Second
	DefaultServerWriteTimeout    = 60 * time.Second
	DefaultServerIdleTimeout     = 120 * time.Second
	DefaultServerShutdownTimeout = 10 * time.Second

	DefaultRefreshRate  = 0.2
	DefaultRefreshBurst = 3

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// SyntheticSource is the explicit source value that selects generated data.
	SyntheticSource     = "synthetic"
	DefaultFetchTimeout = 10 * time.Second

	DefaultSyntheticStartYear = 2015
	DefaultSyntheticEndYear   = 2023

	DefaultCacheBackend = "memory"

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisPoolSize  = 10
	DefaultRedisTimeout   = 3 * time.Second
	DefaultRedisKeyPrefix = "envirolens:"

	DefaultInsightBaseURL     = "https://api.deepseek.com/v1"
	DefaultInsightModel       = "deepseek-chat"
	DefaultInsightTimeout     = 20 * time.Second
	DefaultInsightTemperature = 0.7
	DefaultInsightMaxTokens   = 2000
	DefaultInsightSampleSize  = 100
	DefaultInsightSystem      = "You are an expert in environmental science, water quality, and sustainable urban development in Malaysia."

	DefaultKafkaTopic        = "envirolens.snapshots"
	DefaultKafkaWriteTimeout = 5 * time.Second

	DefaultMetricsNamespace = "envirolens"
	DefaultMetricsPath      = "/metrics"

	DefaultCORSMaxAge = 86400
)

// DefaultStates are the Malaysian states used by the synthetic generator.
var DefaultStates = []string{
	"Johor", "Kedah", "Kelantan", "Melaka", "Negeri Sembilan", "Pahang",
	"Perak", "Perlis", "Pulau Pinang", "Sabah", "Sarawak", "Selangor", "Terengganu",
}

// defaultValues lists every defaulted key in viper's dotted form.  Registering
// them with viper also makes AutomaticEnv overrides visible to Unmarshal.
func defaultValues() map[string]interface{} {
	return map[string]interface{}{
		"server.host":             DefaultServerHost,
		"server.port":             DefaultServerPort,
		"server.read_timeout":     DefaultServerReadTimeout,
		"server.write_timeout":    DefaultServerWriteTimeout,
		"server.idle_timeout":     DefaultServerIdleTimeout,
		"server.shutdown_timeout": DefaultServerShutdownTimeout,
		"server.static_dir":       "",
		"server.refresh_rate":     DefaultRefreshRate,
		"server.refresh_burst":    DefaultRefreshBurst,

		"log.level":        DefaultLogLevel,
		"log.format":       DefaultLogFormat,
		"log.output_paths": []string{"stdout"},

		"datasets.mineral_extraction.source": SyntheticSource,
		"datasets.water_quality.source":      SyntheticSource,
		"datasets.timber_production.source":  SyntheticSource,
		"datasets.fetch_timeout":             DefaultFetchTimeout,

		"synthetic.seed":       int64(0),
		"synthetic.start_year": DefaultSyntheticStartYear,
		"synthetic.end_year":   DefaultSyntheticEndYear,
		"synthetic.states":     DefaultStates,

		"cache.backend": DefaultCacheBackend,

		"redis.addr":          DefaultRedisAddr,
		"redis.password":      "",
		"redis.db":            0,
		"redis.pool_size":     DefaultRedisPoolSize,
		"redis.dial_timeout":  DefaultRedisTimeout,
		"redis.read_timeout":  DefaultRedisTimeout,
		"redis.write_timeout": DefaultRedisTimeout,
		"redis.key_prefix":    DefaultRedisKeyPrefix,

		"insight.enabled":       false,
		"insight.base_url":      DefaultInsightBaseURL,
		"insight.api_key":       "",
		"insight.model":         DefaultInsightModel,
		"insight.timeout":       DefaultInsightTimeout,
		"insight.temperature":   DefaultInsightTemperature,
		"insight.max_tokens":    DefaultInsightMaxTokens,
		"insight.sample_size":   DefaultInsightSampleSize,
		"insight.system_prompt": DefaultInsightSystem,

		"kafka.enabled":       false,
		"kafka.brokers":       []string{},
		"kafka.topic":         DefaultKafkaTopic,
		"kafka.write_timeout": DefaultKafkaWriteTimeout,

		"metrics.enabled":   true,
		"metrics.namespace": DefaultMetricsNamespace,
		"metrics.path":      DefaultMetricsPath,

		"cors.allowed_origins": []string{"*"},
		"cors.allowed_methods": []string{"GET", "OPTIONS"},
		"cors.allowed_headers": []string{"Accept", "Content-Type", "X-Request-ID"},
		"cors.max_age":         DefaultCORSMaxAge,
	}
}

// ApplyDefaults fills zero-value fields in cfg.  Explicit values always win.
// It covers configs built in code (tests, CLI flags) that never went through
// viper.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultServerReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultServerWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultServerIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultServerShutdownTimeout
	}
	if cfg.Server.RefreshRate > 0 && cfg.Server.RefreshBurst == 0 {
		cfg.Server.RefreshBurst = DefaultRefreshBurst
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if len(cfg.Log.OutputPaths) == 0 {
		cfg.Log.OutputPaths = []string{"stdout"}
	}

	// ── Datasets / synthetic ──────────────────────────────────────────────────
	if cfg.Datasets.FetchTimeout == 0 {
		cfg.Datasets.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.Synthetic.StartYear == 0 {
		cfg.Synthetic.StartYear = DefaultSyntheticStartYear
	}
	if cfg.Synthetic.EndYear == 0 {
		cfg.Synthetic.EndYear = DefaultSyntheticEndYear
	}
	if len(cfg.Synthetic.States) == 0 {
		cfg.Synthetic.States = append([]string(nil), DefaultStates...)
	}

	// ── Cache / Redis ─────────────────────────────────────────────────────────
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = DefaultCacheBackend
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = DefaultRedisPoolSize
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = DefaultRedisTimeout
	}
	if cfg.Redis.ReadTimeout == 0 {
		cfg.Redis.ReadTimeout = DefaultRedisTimeout
	}
	if cfg.Redis.WriteTimeout == 0 {
		cfg.Redis.WriteTimeout = DefaultRedisTimeout
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	// ── Insight ───────────────────────────────────────────────────────────────
	if cfg.Insight.BaseURL == "" {
		cfg.Insight.BaseURL = DefaultInsightBaseURL
	}
	if cfg.Insight.Model == "" {
		cfg.Insight.Model = DefaultInsightModel
	}
	if cfg.Insight.Timeout == 0 {
		cfg.Insight.Timeout = DefaultInsightTimeout
	}
	if cfg.Insight.Temperature == 0 {
		cfg.Insight.Temperature = DefaultInsightTemperature
	}
	if cfg.Insight.MaxTokens == 0 {
		cfg.Insight.MaxTokens = DefaultInsightMaxTokens
	}
	if cfg.Insight.SampleSize == 0 {
		cfg.Insight.SampleSize = DefaultInsightSampleSize
	}
	if cfg.Insight.SystemPrompt == "" {
		cfg.Insight.SystemPrompt = DefaultInsightSystem
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = DefaultKafkaTopic
	}
	if cfg.Kafka.WriteTimeout == 0 {
		cfg.Kafka.WriteTimeout = DefaultKafkaWriteTimeout
	}

	// ── Metrics / CORS ────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}
	if len(cfg.CORS.AllowedMethods) == 0 {
		cfg.CORS.AllowedMethods = []string{"GET", "OPTIONS"}
	}
	if len(cfg.CORS.AllowedHeaders) == 0 {
		cfg.CORS.AllowedHeaders = []string{"Accept", "Content-Type", "X-Request-ID"}
	}
	if cfg.CORS.MaxAge == 0 {
		cfg.CORS.MaxAge = DefaultCORSMaxAge
	}
}

// Default returns a fully-defaulted Config with metrics enabled, suitable for
// tests and for running without any config file.
func Default() *Config {
	cfg := &Config{Metrics: MetricsConfig{Enabled: true}}
	ApplyDefaults(cfg)
	return cfg
}

//Personal.AI order the ending
