package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RunInterval != 300*time.Second {
		t.Fatalf("RunInterval = %s", cfg.RunInterval)
	}
	if cfg.HTTPTimeout != 60*time.Second {
		t.Fatalf("HTTPTimeout = %s", cfg.HTTPTimeout)
	}
	if cfg.StorageType != "bbolt" || cfg.PublishersFile != "" {
		t.Fatalf("unexpected storage/publishers defaults: %#v", cfg)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("RUN_INTERVAL", "30")
	t.Setenv("RUN_ONCE", "true")
	t.Setenv("DEBUG", "true")
	t.Setenv("REQUESTS_FILE", "/tmp/requests.json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RunInterval != 30*time.Second || !cfg.RunOnce || !cfg.Debug {
		t.Fatalf("environment not applied: %#v", cfg)
	}
	if cfg.RequestsFile != "/tmp/requests.json" {
		t.Fatalf("RequestsFile = %q", cfg.RequestsFile)
	}
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT_SECONDS", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero http timeout")
	}
}
