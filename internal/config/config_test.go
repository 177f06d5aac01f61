package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Port:           "8080",
		StaticPath:     "./client/dist",
		DBPath:         "./data/litepay.db",
		JWTSecret:      "a-secret-of-adequate-length",
		TokenDuration:  24 * time.Hour,
		TimelineBuffer: 100,
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "TOKEN_DURATION", "TIMELINE_BUFFER"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.TokenDuration != 24*time.Hour {
		t.Errorf("Expected default token duration 24h, got %s", cfg.TokenDuration)
	}
	if cfg.TimelineBuffer != 100 {
		t.Errorf("Expected default timeline buffer 100, got %d", cfg.TimelineBuffer)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TOKEN_DURATION", "1h")
	t.Setenv("TIMELINE_BUFFER", "5")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Port)
	}
	if cfg.TokenDuration != time.Hour {
		t.Errorf("Expected token duration 1h, got %s", cfg.TokenDuration)
	}
	if cfg.TimelineBuffer != 5 {
		t.Errorf("Expected timeline buffer 5, got %d", cfg.TimelineBuffer)
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		if err := validConfig().Validate(); err != nil {
			t.Errorf("Expected valid config, got %v", err)
		}
	})

	t.Run("missing secret fails", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWTSecret = ""
		if err := cfg.Validate(); err == nil {
			t.Error("Expected error for missing JWT secret")
		}
	})

	t.Run("short secret fails", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWTSecret = "too-short"
		if err := cfg.Validate(); err == nil {
			t.Error("Expected error for short JWT secret")
		}
	})

	t.Run("bad port fails", func(t *testing.T) {
		cfg := validConfig()
		cfg.Port = "not-a-port"
		if err := cfg.Validate(); err == nil {
			t.Error("Expected error for non-numeric port")
		}

		cfg.Port = "70000"
		if err := cfg.Validate(); err == nil {
			t.Error("Expected error for out-of-range port")
		}
	})

	t.Run("all problems reported together", func(t *testing.T) {
		cfg := validConfig()
		cfg.Port = "abc"
		cfg.JWTSecret = ""
		cfg.TimelineBuffer = 0

		err := cfg.Validate()
		if err == nil {
			t.Fatal("Expected error")
		}
		msg := err.Error()
		for _, want := range []string{"port", "JWT_SECRET", "TIMELINE_BUFFER"} {
			if !strings.Contains(msg, want) {
				t.Errorf("Expected error to mention %s, got %q", want, msg)
			}
		}
	})
}
