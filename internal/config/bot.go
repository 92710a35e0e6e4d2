package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

type BotConfig struct {
	Token       string `env:"BOT_TOKEN,required,notEmpty"`
	MasterID    int64  `env:"MASTER_ID,required"`
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	APIBaseURL  string `env:"TELEGRAM_API_URL" envDefault:"https://api.telegram.org"`
	PollTimeout int    `env:"POLL_TIMEOUT_SECONDS" envDefault:"30"`
}

func LoadBot() (BotConfig, error) {
	var cfg BotConfig
	if err := env.Parse(&cfg); err != nil {
		return BotConfig{}, err
	}
	dsn, err := NormalizeDatabaseURL(cfg.DatabaseURL)
	if err != nil {
		return BotConfig{}, err
	}
	cfg.DatabaseURL = dsn
	if cfg.MasterID == 0 {
		return BotConfig{}, fmt.Errorf("MASTER_ID must be a non-zero user id")
	}
	return cfg, nil
}

// NormalizeDatabaseURL accepts both the legacy postgres:// and the modern
// postgresql:// scheme prefix and rewrites the latter to the former.
func NormalizeDatabaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(trimmed, "postgres://"):
		return trimmed, nil
	case strings.HasPrefix(trimmed, "postgresql://"):
		return "postgres://" + strings.TrimPrefix(trimmed, "postgresql://"), nil
	default:
		return "", fmt.Errorf("DATABASE_URL must start with postgres:// or postgresql://, got %q", trimmed)
	}
}
