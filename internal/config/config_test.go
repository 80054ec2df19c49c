package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Backend.Module != "api_server.server:app" {
		t.Errorf("Module = %q, want api_server.server:app", cfg.Backend.Module)
	}
	if cfg.Backend.Addr() != "127.0.0.1:8000" {
		t.Errorf("Addr() = %q, want 127.0.0.1:8000", cfg.Backend.Addr())
	}
	if cfg.Backend.WarmupSeconds != 2 {
		t.Errorf("WarmupSeconds = %d, want 2", cfg.Backend.WarmupSeconds)
	}
	if cfg.DatabaseDSN != "" {
		t.Errorf("DatabaseDSN = %q, want empty", cfg.DatabaseDSN)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	content := `{
		"backend": {"interpreter": "/opt/python/bin/python3", "port": 8100},
		"database_dsn": "mysql://user:pw@tcp(db:3306)/promethea"
	}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Backend.ResolveInterpreter() != "/opt/python/bin/python3" {
		t.Errorf("ResolveInterpreter() = %q, want the configured override", cfg.Backend.ResolveInterpreter())
	}
	if cfg.Backend.Port != 8100 {
		t.Errorf("Port = %d, want 8100", cfg.Backend.Port)
	}
	// Fields the file omits keep their defaults
	if cfg.Backend.Host != "127.0.0.1" {
		t.Errorf("Host = %q, want default 127.0.0.1", cfg.Backend.Host)
	}
	if cfg.Backend.Module != "api_server.server:app" {
		t.Errorf("Module = %q, want default", cfg.Backend.Module)
	}
	if cfg.DatabaseDSN != "mysql://user:pw@tcp(db:3306)/promethea" {
		t.Errorf("DatabaseDSN = %q, want the configured DSN", cfg.DatabaseDSN)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("Load() accepted invalid JSON")
	}
}

func TestResolveInterpreterDefault(t *testing.T) {
	b := Backend{}
	got := b.ResolveInterpreter()
	if got != "python" && got != "python3" {
		t.Errorf("ResolveInterpreter() = %q, want a platform python", got)
	}
}
