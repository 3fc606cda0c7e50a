package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t, "DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_MAX_LIFETIME", "TOKEN_TTL",
		"COOKIE_NAME", "COOKIE_SECURE", "API_PREFIX", "S3_BUCKET", "ADMIN_EMAIL", "ADMIN_PASSWORD")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.MaxOpenConns != 5 || cfg.Database.MaxIdleConns != 5 {
		t.Errorf("Expected pool of 5 open and 5 idle, got %d/%d", cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	}
	if cfg.Database.MaxLifetime != 5*time.Minute {
		t.Errorf("Expected 5m connection lifetime, got %v", cfg.Database.MaxLifetime)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour || cfg.Auth.CookieName != "token" {
		t.Errorf("Unexpected auth defaults: %+v", cfg.Auth)
	}
	if !cfg.Auth.CookieSecure {
		t.Error("Expected secure cookie in production")
	}
	if cfg.App.APIPrefix != "/api" {
		t.Errorf("Expected /api prefix, got %s", cfg.App.APIPrefix)
	}
	if cfg.Storage.Enabled() || cfg.Admin.Enabled() {
		t.Error("Expected storage and admin bootstrap to be disabled by default")
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing jwt secret", map[string]string{"JWT_SECRET": ""}},
		{"admin email without password", map[string]string{"JWT_SECRET": "s", "ADMIN_EMAIL": "root@example.com", "ADMIN_PASSWORD": ""}},
		{"non-positive token ttl", map[string]string{"JWT_SECRET": "s", "TOKEN_TTL": "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("Expected Load() to fail")
			}
		})
	}
}
