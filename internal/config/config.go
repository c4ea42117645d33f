// Package config reads service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	PostgresURL string `env:"POSTGRES_URL,required"`
	RedisAddr   string `env:"REDIS_ADDR,required"`

	StorageBaseURL  string `env:"STORAGE_BASE_URL,required"`
	MailerBaseURL   string `env:"MAILER_BASE_URL,required"`
	CheckoutBaseURL string `env:"CHECKOUT_BASE_URL,required"`

	SignedURLTTL time.Duration `env:"SIGNED_URL_TTL" envDefault:"720h"`
}

func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
