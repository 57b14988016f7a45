package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.TokenTTLMinutes != 15 {
		t.Errorf("expected default token TTL 15, got %d", cfg.TokenTTLMinutes)
	}
	if cfg.DBPort != 5432 {
		t.Errorf("expected default DB port 5432, got %d", cfg.DBPort)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("expected default server port 8080, got %q", cfg.ServerPort)
	}
	if len(cfg.APICORSOrigins) != 1 || cfg.APICORSOrigins[0] != "*" {
		t.Errorf("unexpected default CORS origins: %v", cfg.APICORSOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TOKEN_TTL_MINUTES", "30")
	t.Setenv("DB_NAME", "hunt_test")
	t.Setenv("API_CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("DEBUG_MODE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.TokenTTLMinutes != 30 {
		t.Errorf("expected token TTL 30, got %d", cfg.TokenTTLMinutes)
	}
	if cfg.DBName != "hunt_test" {
		t.Errorf("expected DB name hunt_test, got %q", cfg.DBName)
	}
	if len(cfg.APICORSOrigins) != 2 {
		t.Errorf("expected 2 CORS origins, got %v", cfg.APICORSOrigins)
	}
	if !cfg.DebugMode {
		t.Error("expected debug mode enabled")
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("TOKEN_TTL_MINUTES", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.TokenTTLMinutes != 15 {
		t.Errorf("malformed value should fall back to default, got %d", cfg.TokenTTLMinutes)
	}
}
