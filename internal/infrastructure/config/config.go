package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port         string `env:"PORT,          default=8080"`
	Env          string `env:"ENV,           default=development"`
	LogLevel     string `env:"LOG_LEVEL,     default=info"`
	PublicOrigin string `env:"PUBLIC_ORIGIN, default=http://localhost:8080"`

	JWT   JWTConfig
	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
	SMTP  SMTPConfig
}

type JWTConfig struct {
	Secret     string        `env:"JWT_SECRET"`
	TTL        time.Duration `env:"JWT_TTL,    default=24h"`
	CookieName string        `env:"JWT_COOKIE, default=session"`
}

type AuthConfig struct {
	BcryptCost    int           `env:"BCRYPT_COST,     default=12"`
	ResetTokenTTL time.Duration `env:"RESET_TOKEN_TTL, default=10m"`
	ResetCooldown time.Duration `env:"RESET_COOLDOWN,  default=2m"`
	EmailWorkers  int           `env:"EMAIL_WORKERS,   default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=tours"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type SMTPConfig struct {
	Host string `env:"SMTP_HOST, default=localhost"`
	Port int    `env:"SMTP_PORT, default=1025"`
	From string `env:"SMTP_FROM, default=no-reply@tours.local"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
