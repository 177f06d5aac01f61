// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all server settings.
type Config struct {
	// HTTP server
	Port       string
	StaticPath string

	// Database
	DBPath string

	// Auth
	JWTSecret     string
	TokenDuration time.Duration

	// Timeline worker
	TimelineBuffer int
}

// Load populates a Config from environment variables, applying defaults
// for everything except the JWT secret.
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		StaticPath:     getEnv("STATIC_PATH", "./client/dist"),
		DBPath:         getEnv("DB_PATH", "./data/litepay.db"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		TokenDuration:  getEnvDuration("TOKEN_DURATION", 24*time.Hour),
		TimelineBuffer: getEnvInt("TIMELINE_BUFFER", 100),
	}
}

// Validate checks the configuration and returns an error describing every
// invalid setting, so startup fails fast with the full picture.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port %q: must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET must be set")
	} else if len(c.JWTSecret) < 16 {
		problems = append(problems, "JWT_SECRET must be at least 16 characters")
	}

	if c.TokenDuration <= 0 {
		problems = append(problems, "TOKEN_DURATION must be positive")
	}

	if c.TimelineBuffer < 1 {
		problems = append(problems, "TIMELINE_BUFFER must be at least 1")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
