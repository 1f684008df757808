package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port          string        `env:"PORT,          default=8080"`
	Env           string        `env:"ENV,           default=development"`
	JWTSecret     string        `env:"JWT_SECRET"`
	JWTExpiration time.Duration `env:"JWT_EXPIRATION, default=1h"`
	LogLevel      string        `env:"LOG_LEVEL,     default=info"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Import ImportConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=truck_management"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type ImportConfig struct {
	// SessionTTL bounds how long an unconfirmed preview stays resolvable.
	SessionTTL time.Duration `env:"IMPORT_SESSION_TTL, default=30m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
