package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	DatabaseURL string        `env:"DATABASE_URL, required"`
	DBTimeout   time.Duration `env:"DB_TIMEOUT,   default=10s"`
	LogLevel    string        `env:"LOG_LEVEL,    default=warn"`
	LogPretty   bool          `env:"LOG_PRETTY,   default=true"`

	Redis RedisConfig
	Login LoginConfig
}

// RedisConfig 未設定 Addr 時停用登入防護
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type LoginConfig struct {
	MaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	Lockout     time.Duration `env:"LOGIN_LOCKOUT,      default=15m"`
}

// Load 以 go-envconfig 讀取環境變數
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("config: DATABASE_URL is required")
	}
	if cfg.DBTimeout <= 0 {
		return nil, fmt.Errorf("config: DB_TIMEOUT must be positive")
	}
	if cfg.Login.MaxAttempts <= 0 {
		return nil, fmt.Errorf("config: LOGIN_MAX_ATTEMPTS must be positive")
	}
	return &cfg, nil
}

// GuardEnabled 是否啟用 Redis 登入防護
func (c *Config) GuardEnabled() bool {
	return c.Redis.Addr != ""
}
