package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Alijeyrad/ticketcreator_backend/pkg/constants"
)

var GlobalConf *Config

// ReadConfig loads config.yaml from configPath. A missing file is not an
// error: defaults plus TICKETS_* environment variables are enough to run.
func ReadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(constants.ConfigName)
	v.SetConfigType(constants.ConfigFormat)
	v.AddConfigPath(configPath)

	// e.g. TICKETS_MONGO_URI overrides mongo.uri
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func MustReadConfig(path string) *Config {
	config, err := ReadConfig(path)
	if err != nil {
		panic(err)
	}

	GlobalConf = config

	return config
}

// setDefaults registers every key so AutomaticEnv can override keys that
// are absent from the file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.body_limit_bytes", 1<<20)
	v.SetDefault("server.timeout_seconds", 30)
	v.SetDefault("server.cors.enabled", true)
	v.SetDefault("server.cors.allow_origins", []string{})
	v.SetDefault("server.cors.allow_credentials", true)
	v.SetDefault("server.cors.max_age_seconds", 0)
	v.SetDefault("server.rate_limit.requests_per_minute", 120)

	v.SetDefault("store.driver", StoreDriverMongo)

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "ticket_creator")
	v.SetDefault("mongo.collection", "tickets")
	v.SetDefault("mongo.connect_timeout_seconds", 10)
	v.SetDefault("mongo.ensure_indexes", true)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.username", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.dial_timeout_seconds", 5)
	v.SetDefault("redis.read_timeout_seconds", 3)
	v.SetDefault("redis.write_timeout_seconds", 3)

	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject_prefix", "tickets")

	v.SetDefault("observability.enabled", false)
	v.SetDefault("observability.service_name", constants.ServiceName)
	v.SetDefault("observability.service_version", "dev")
	v.SetDefault("observability.tracing.enabled", false)
	v.SetDefault("observability.tracing.otlp_endpoint", "")
	v.SetDefault("observability.tracing.otlp_insecure", true)
	v.SetDefault("observability.tracing.sampling_rate", 1.0)
	v.SetDefault("observability.metrics.enabled", false)
	v.SetDefault("observability.metrics.path", "/metrics")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output.stdout", true)
	v.SetDefault("logging.output.file.enabled", false)
	v.SetDefault("logging.output.file.path", "logs/app.log")
	v.SetDefault("logging.output.file.max_size_mb", 50)
	v.SetDefault("logging.output.file.max_backups", 5)
	v.SetDefault("logging.output.file.max_age_days", 14)
	v.SetDefault("logging.output.file.compress", true)
	v.SetDefault("logging.output.loki.enabled", false)
	v.SetDefault("logging.output.loki.endpoint", "")
	v.SetDefault("logging.output.loki.tenant_id", "")
	v.SetDefault("logging.output.loki.username", "")
	v.SetDefault("logging.output.loki.password", "")

	v.SetDefault("client.base_url", "http://localhost:5000")
	v.SetDefault("client.timeout_seconds", 15)
}

// WriteDefaults writes every default setting to path. It refuses to
// overwrite an existing file.
func WriteDefaults(path string) error {
	v := viper.New()
	v.SetConfigType(constants.ConfigFormat)
	setDefaults(v)
	return v.SafeWriteConfigAs(path)
}
