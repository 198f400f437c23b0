// Package config loads process configuration from the environment once
// at startup. A .env file is honored in development.
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DBPath        string
	SessionSecret string
	LogLevel      string
	Env           string
}

// Production reports whether the process runs with production settings;
// it controls the Secure attribute on the session cookie.
func (c Config) Production() bool {
	return c.Env == "production"
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:          getenv("GIVEM_PORT", "8080"),
		DBPath:        getenv("GIVEM_DB_PATH", "givem.db"),
		SessionSecret: getenv("GIVEM_SESSION_SECRET", ""),
		LogLevel:      getenv("GIVEM_LOG_LEVEL", "info"),
		Env:           getenv("GIVEM_ENV", "development"),
	}

	if cfg.SessionSecret == "" {
		return Config{}, errors.New("GIVEM_SESSION_SECRET is required")
	}
	return cfg, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}
