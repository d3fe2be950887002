package redis

import (
	"time"

	"github.com/Alijeyrad/ticketcreator_backend/config"
)

// Config holds Redis connection settings
type Config struct {
	Addr     string
	DB       int
	Username string
	Password string

	PoolSize int

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		Addr:         "localhost:6379",
		PoolSize:     10,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

func seconds(n int, fallback time.Duration) time.Duration {
	if n <= 0 {
		return fallback
	}
	return time.Duration(n) * time.Second
}

// FromCentralConfig converts config.RedisConfig, filling unset values from
// DefaultConfig.
func FromCentralConfig(c config.RedisConfig) Config {
	def := DefaultConfig()

	cfg := Config{
		Addr:         c.Addr,
		DB:           c.DB,
		Username:     c.Username,
		Password:     c.Password,
		PoolSize:     c.PoolSize,
		DialTimeout:  seconds(c.DialTimeoutSeconds, def.DialTimeout),
		ReadTimeout:  seconds(c.ReadTimeoutSeconds, def.ReadTimeout),
		WriteTimeout: seconds(c.WriteTimeoutSeconds, def.WriteTimeout),
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = def.PoolSize
	}
	return cfg
}
