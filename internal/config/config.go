package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	StorageBackendRedis    = "redis"
	StorageBackendPostgres = "postgres"
	StorageBackendMemory   = "memory"

	DefaultAssistantBaseURL      = "https://api.openai.com/v1"
	DefaultAssistantPollInterval = time.Second
	DefaultAssistantTimeout      = 2 * time.Minute
	DefaultBackupFolderName      = "repit-backup"
)

type Config struct {
	Environment string `toml:"-"`

	Host string `toml:"host"`
	Port int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// storage
	StorageBackend   string `toml:"storage_backend"`
	StorageNamespace string `toml:"storage_namespace"`
	RedisHost        string `toml:"redis_host"`
	RedisPort        string `toml:"redis_port"`
	PostgresHost     string `toml:"postgres_host"`
	PostgresPort     string `toml:"postgres_port"`
	PostgresDBName   string `toml:"postgres_db_name"`

	// assistant
	AssistantBaseURL      string   `toml:"assistant_base_url"`
	AssistantPollInterval Duration `toml:"assistant_poll_interval"`
	// DefaultAssistantTimeout when unset; an explicit "0s" means the poll waits for a terminal run status indefinitely
	AssistantTimeout Duration `toml:"assistant_timeout"`

	UnlockRateLimitPerMin int      `toml:"unlock_rate_limit_per_min"`
	QuotesCsvPath         string   `toml:"quotes_csv_path"`
	AllowedOrigins        []string `toml:"allowed_origins"`

	// in-process unlock limiter size, used when the backend is not redis
	RateLimitCacheSizeMB int `toml:"rate_limit_cache_size_mb"`

	// history backup
	BackupFolderName string `toml:"backup_folder_name"`
	BackupShareEmail string `toml:"backup_share_email"`

	// telemetry
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	TracingEnabled        bool   `toml:"tracing_enabled"`
}

// Duration lets TOML values like "1s" or "2m30s" decode into a time.Duration.
type Duration struct {
	time.Duration
	set bool
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	d.Duration = parsed
	d.set = true
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type Toml struct {
	Development *Config `toml:"development"`
	Production  *Config `toml:"production"`
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("config section for env [%s] missing", env)
	}
	return cfg, nil
}

// Load reads the TOML file, picks the section for env, applies defaults and validates it.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	cfg.Environment = strings.ToLower(env)

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.StorageBackend == "" {
		c.StorageBackend = StorageBackendRedis
	}
	if c.RedisHost == "" {
		c.RedisHost = "localhost"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.PostgresPort == "" {
		c.PostgresPort = "5432"
	}
	if c.RateLimitCacheSizeMB == 0 {
		c.RateLimitCacheSizeMB = 1
	}
	if c.AssistantBaseURL == "" {
		c.AssistantBaseURL = DefaultAssistantBaseURL
	}
	if c.AssistantPollInterval.Duration == 0 {
		c.AssistantPollInterval.Duration = DefaultAssistantPollInterval
	}
	if !c.AssistantTimeout.set {
		c.AssistantTimeout.Duration = DefaultAssistantTimeout
	}
	if c.UnlockRateLimitPerMin == 0 {
		c.UnlockRateLimitPerMin = 10
	}
	if c.BackupFolderName == "" {
		c.BackupFolderName = DefaultBackupFolderName
	}
	if c.PrometheusMetricsHost == "" {
		c.PrometheusMetricsHost = "localhost"
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = "2112"
	}
}

func (c *Config) Validate() error {
	if c.Port <= 0 {
		return errors.New("port is required")
	}

	switch c.StorageBackend {
	case StorageBackendRedis, StorageBackendMemory:
	case StorageBackendPostgres:
		if c.PostgresHost == "" || c.PostgresDBName == "" {
			return errors.New("postgres storage backend needs postgres_host and postgres_db_name")
		}
	default:
		return fmt.Errorf("unknown storage backend: %s", c.StorageBackend)
	}

	if c.AssistantPollInterval.Duration < 0 || c.AssistantTimeout.Duration < 0 {
		return errors.New("assistant poll interval and timeout must not be negative")
	}

	return nil
}
