package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	StoreDriverMongo  = "mongo"
	StoreDriverMemory = "memory"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Store         StoreConfig         `mapstructure:"store"`
	Mongo         MongoConfig         `mapstructure:"mongo"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Nats          NatsConfig          `mapstructure:"nats"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Client        ClientConfig        `mapstructure:"client"`
}

type ServerConfig struct {
	Port           int             `mapstructure:"port"`
	Environment    string          `mapstructure:"environment"`
	BodyLimitBytes int             `mapstructure:"body_limit_bytes"`
	TimeoutSeconds int             `mapstructure:"timeout_seconds"`
	CORS           CORSConfig      `mapstructure:"cors"`
	RateLimit      RateLimitConfig `mapstructure:"rate_limit"`
}

// Timeout returns the read/write timeout for the HTTP server. Zero disables it.
func (s ServerConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowOrigins     []string `mapstructure:"allow_origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAgeSeconds    int      `mapstructure:"max_age_seconds"`
}

type RateLimitConfig struct {
	// RequestsPerMinute is the per-IP budget. Zero disables the limiter.
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"` // mongo, memory
}

type MongoConfig struct {
	URI                   string `mapstructure:"uri"`
	Database              string `mapstructure:"database"`
	Collection            string `mapstructure:"collection"`
	ConnectTimeoutSeconds int    `mapstructure:"connect_timeout_seconds"`
	EnsureIndexes         bool   `mapstructure:"ensure_indexes"`
}

type RedisConfig struct {
	Addr                string `mapstructure:"addr"` // empty disables redis
	DB                  int    `mapstructure:"db"`
	Username            string `mapstructure:"username"`
	Password            string `mapstructure:"password"`
	PoolSize            int    `mapstructure:"pool_size"`
	DialTimeoutSeconds  int    `mapstructure:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
}

type NatsConfig struct {
	URL           string `mapstructure:"url"` // empty disables event publishing
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

type ObservabilityConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	ServiceName    string        `mapstructure:"service_name"`
	ServiceVersion string        `mapstructure:"service_version"`
	Tracing        TracingConfig `mapstructure:"tracing"`
	Metrics        MetricsConfig `mapstructure:"metrics"`
}

type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SamplingRate float64 `mapstructure:"sampling_rate"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string       `mapstructure:"level"`  // debug, info, warn, error
	Format string       `mapstructure:"format"` // text, json
	Output OutputConfig `mapstructure:"output"`
}

type OutputConfig struct {
	Stdout bool          `mapstructure:"stdout"`
	File   FileLogConfig `mapstructure:"file"`
	Loki   LokiConfig    `mapstructure:"loki"`
}

type FileLogConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type LokiConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"` // e.g. "http://localhost:3100"
	TenantID string `mapstructure:"tenant_id"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// ClientConfig is read by the desk command, not by the API server.
type ClientConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Store.Driver) {
	case StoreDriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("mongo.uri is required when store.driver is %q", StoreDriverMongo)
		}
		if c.Mongo.Database == "" || c.Mongo.Collection == "" {
			return fmt.Errorf("mongo.database and mongo.collection are required")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.RateLimit.RequestsPerMinute < 0 {
		return fmt.Errorf("server.rate_limit.requests_per_minute must not be negative")
	}
	if c.Logging.Output.Loki.Enabled && c.Logging.Output.Loki.Endpoint == "" {
		return fmt.Errorf("logging.output.loki.endpoint is required when loki output is enabled")
	}
	return nil
}
