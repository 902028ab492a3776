package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port            string        `env:"PORT,                    default=8080"`
	Env             string        `env:"ENV,                     default=development"`
	JWTSecret       string        `env:"JWT_SECRET,              required"`
	TokenTTL        time.Duration `env:"TOKEN_TTL,               default=24h"`
	LogLevel        string        `env:"LOG_LEVEL,               default=info"`
	RefreshInterval time.Duration `env:"STATUS_REFRESH_INTERVAL, default=1h"`

	Postgres PostgresConfig
	Redis    RedisConfig
}

type PostgresConfig struct {
	DSN string `env:"POSTGRES_DSN, default=postgres://localhost:5432/aprodmayo?sslmode=disable"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
