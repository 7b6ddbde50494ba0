package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment   string
	HTTPPort      string
	DatabasePath  string
	JWTSecret     string
	FrontendDir   string
	AlertSchedule string
}

// Load reads env vars and falls back to defaults so the server can boot with zero configuration.
func Load() (Config, error) {
	cfg := Config{
		Environment:  getEnv("MERIDIAN_ENV", "development"),
		HTTPPort:     getEnv("MERIDIAN_HTTP_PORT", "8080"),
		DatabasePath: getEnv("MERIDIAN_DB_PATH", filepath.Join("data", "meridian.db")),
		JWTSecret:    getEnv("MERIDIAN_JWT_SECRET", ""),
		FrontendDir:  getEnv("MERIDIAN_FRONTEND_DIR", filepath.Clean(filepath.Join("..", "frontend", "dist"))),
		// Cron expression for the periodic compliance checks.
		AlertSchedule: getEnv("MERIDIAN_ALERT_SCHEDULE", "@hourly"),
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	if cfg.JWTSecret == "" {
		// Sessions will not survive a restart without a configured secret.
		secret, err := randomSecret()
		if err != nil {
			return Config{}, fmt.Errorf("generate session secret: %w", err)
		}
		cfg.JWTSecret = secret
	}

	return cfg, nil
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// IsProduction reports whether the server runs with production hardening.
func (c Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}
