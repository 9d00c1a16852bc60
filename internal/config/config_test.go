package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WORKTIME_CONFIG_PATH", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":5000" {
		t.Fatalf("expected default addr, got %q", cfg.Server.Addr)
	}
	if cfg.Server.TokenTTL != 7*24*time.Hour {
		t.Fatalf("expected 7 day ttl, got %s", cfg.Server.TokenTTL)
	}
	if cfg.Client.RequestTimeout != 10*time.Second {
		t.Fatalf("expected 10s timeout, got %s", cfg.Client.RequestTimeout)
	}
	if filepath.Base(cfg.Server.DatabasePath) != "worktime.db" || cfg.Server.DatabasePath[0] == '~' {
		t.Fatalf("expected expanded database path, got %q", cfg.Server.DatabasePath)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "worktime.yaml")
	content := []byte("server:\n  addr: \":9000\"\n  token_ttl: 1h\nclient:\n  api_url: http://api.test/\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("WORKTIME_CLIENT_REQUEST_TIMEOUT", "3s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Fatalf("expected file addr, got %q", cfg.Server.Addr)
	}
	if cfg.Server.TokenTTL != time.Hour {
		t.Fatalf("expected 1h ttl, got %s", cfg.Server.TokenTTL)
	}
	if cfg.Client.APIURL != "http://api.test" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Client.APIURL)
	}
	if cfg.Client.RequestTimeout != 3*time.Second {
		t.Fatalf("expected env override, got %s", cfg.Client.RequestTimeout)
	}
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	t.Setenv("WORKTIME_CONFIG_PATH", t.TempDir())
	t.Setenv("WORKTIME_CLIENT_REQUEST_TIMEOUT", "0s")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}
