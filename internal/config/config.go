// Package config содержит логику чтения конфигурации клиента витрины.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Значения по умолчанию.
const (
	DefaultRunAddress     = "localhost:8080"
	DefaultAPIBaseURL     = "https://fakestoreapi.com/"
	DefaultSessionStore   = ".storefront/session"
	DefaultRequestTimeout = 10 * time.Second
	DefaultLogLevel       = "info"
)

// Config содержит параметры конфигурации клиента витрины.
type Config struct {
	RunAddress     string        `env:"RUN_ADDRESS"`
	APIBaseURL     string        `env:"API_BASE_URL"`
	SessionStore   string        `env:"SESSION_STORE"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	LogLevel       string        `env:"LOG_LEVEL"`
	LogFile        string        `env:"LOG_FILE"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envCfg := *cfg

	flag.StringVar(&cfg.RunAddress, "a", DefaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.APIBaseURL, "b", DefaultAPIBaseURL, "catalog service base URL")
	flag.StringVar(&cfg.SessionStore, "s", DefaultSessionStore, "session store: file path, redis:// or postgres:// URL")
	flag.DurationVar(&cfg.RequestTimeout, "t", DefaultRequestTimeout, "catalog request timeout")
	flag.StringVar(&cfg.LogLevel, "l", DefaultLogLevel, "log level")
	flag.StringVar(&cfg.LogFile, "f", "", "log file path")

	flag.Parse()

	if envCfg.RunAddress != "" {
		cfg.RunAddress = envCfg.RunAddress
	}
	if envCfg.APIBaseURL != "" {
		cfg.APIBaseURL = envCfg.APIBaseURL
	}
	if envCfg.SessionStore != "" {
		cfg.SessionStore = envCfg.SessionStore
	}
	if envCfg.RequestTimeout > 0 {
		cfg.RequestTimeout = envCfg.RequestTimeout
	}
	if envCfg.LogLevel != "" {
		cfg.LogLevel = envCfg.LogLevel
	}
	if envCfg.LogFile != "" {
		cfg.LogFile = envCfg.LogFile
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = DefaultRunAddress
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}

	return cfg, nil
}
