package config

import (
	"fmt"
	"os"
	"path/filepath"
	goruntime "runtime"

	"github.com/bytedance/sonic"

	"github.com/promethea-app/promethea/internal/supervisor"
)

// Backend describes how the Python API server is launched.
type Backend struct {
	// Interpreter overrides the platform default ("python" on Windows, "python3" elsewhere)
	Interpreter string `json:"interpreter,omitempty"`
	// Module is the uvicorn application path (module:attribute)
	Module string `json:"module"`
	Host   string `json:"host"`
	Port   int    `json:"port"`
	// WarmupSeconds is how long to wait after spawning before the UI comes up
	WarmupSeconds int `json:"warmup_seconds"`
}

// Config is the launcher configuration, read from config.json in the data directory.
type Config struct {
	Backend Backend `json:"backend"`
	// DatabaseDSN selects the launch log database (sqlite path, mysql:// or libpq format).
	// Empty means promethea.db inside the data directory.
	DatabaseDSN string `json:"database_dsn,omitempty"`

	// DataDir is resolved at load time, not stored in the file
	DataDir string `json:"-"`
}

// Default returns the configuration the launcher ships with.
func Default() *Config {
	return &Config{
		Backend: Backend{
			Interpreter:   "",
			Module:        "api_server.server:app",
			Host:          "127.0.0.1",
			Port:          8000,
			WarmupSeconds: 2,
		},
	}
}

// DefaultDataDir returns ~/.config/promethea, falling back to the current directory.
func DefaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, ".config", "promethea")
}

// Load reads config.json from dataDir, applying defaults for missing fields.
// A missing file is not an error; the defaults are returned as-is.
func Load(dataDir string) (*Config, error) {
	cfg := Default()
	cfg.DataDir = dataDir

	path := filepath.Join(dataDir, "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := sonic.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	// Re-apply defaults for fields the file zeroed out
	def := Default()
	if cfg.Backend.Module == "" {
		cfg.Backend.Module = def.Backend.Module
	}
	if cfg.Backend.Host == "" {
		cfg.Backend.Host = def.Backend.Host
	}
	if cfg.Backend.Port == 0 {
		cfg.Backend.Port = def.Backend.Port
	}
	if cfg.Backend.WarmupSeconds == 0 {
		cfg.Backend.WarmupSeconds = def.Backend.WarmupSeconds
	}
	return cfg, nil
}

// ResolveInterpreter returns the interpreter to launch the backend with:
// the configured override if set, otherwise the platform default.
func (b Backend) ResolveInterpreter() string {
	if b.Interpreter != "" {
		return b.Interpreter
	}
	return supervisor.InterpreterFor(goruntime.GOOS)
}

// Addr returns the host:port the backend binds to.
func (b Backend) Addr() string {
	return fmt.Sprintf("%s:%d", b.Host, b.Port)
}
