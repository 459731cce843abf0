package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xiy/reflective-mcp/internal/morphospace"
)

// Transport names accepted by the transport key.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config contains runtime configuration for reflective-mcp.
type Config struct {
	ServerName               string `yaml:"server_name"`
	DBPath                   string `yaml:"db_path"`
	LogLevel                 string `yaml:"log_level"`
	Transport                string `yaml:"transport"`
	HTTPAddr                 string `yaml:"http_addr"`
	HistoryEnabled           bool   `yaml:"history_enabled"`
	RequestLogRetentionHours int    `yaml:"request_log_retention_hours"`
	PruneIntervalSeconds     int    `yaml:"prune_interval_seconds"`
	DefaultState             string `yaml:"default_state"`
	DefaultKeyframes         int    `yaml:"default_keyframes"`
	MaxKeyframes             int    `yaml:"max_keyframes"`
	DriftSeed                int64  `yaml:"drift_seed"`
}

// Default returns a Config populated with safe defaults.
func Default() Config {
	return Config{
		ServerName:               "reflective-mcp",
		DBPath:                   filepath.Join(userHomeDir(), ".reflective-mcp", "reflective.db"),
		LogLevel:                 "info",
		Transport:                TransportStdio,
		HTTPAddr:                 "127.0.0.1:8765",
		HistoryEnabled:           true,
		RequestLogRetentionHours: 24 * 7,
		PruneIntervalSeconds:     300,
		DefaultState:             morphospace.DefaultState,
		DefaultKeyframes:         4,
		MaxKeyframes:             64,
		DriftSeed:                1618,
	}
}

// Load loads config from disk; if path does not exist, default config is returned.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks configuration sanity.
func (c *Config) Validate() error {
	if c.ServerName == "" {
		return errors.New("server_name must not be empty")
	}
	if c.DBPath == "" {
		return errors.New("db_path must not be empty")
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q must be one of debug, info, warn, error", c.LogLevel)
	}
	switch c.Transport {
	case TransportStdio:
	case TransportHTTP:
		if c.HTTPAddr == "" {
			return errors.New("http_addr must not be empty when transport is http")
		}
	default:
		return fmt.Errorf("transport %q must be stdio or http", c.Transport)
	}
	if c.RequestLogRetentionHours <= 0 {
		return errors.New("request_log_retention_hours must be > 0")
	}
	if c.PruneIntervalSeconds <= 0 {
		return errors.New("prune_interval_seconds must be > 0")
	}
	if !morphospace.States.Has(c.DefaultState) {
		return fmt.Errorf("default_state %q is not a canonical state", c.DefaultState)
	}
	if c.MaxKeyframes <= 0 {
		return errors.New("max_keyframes must be > 0")
	}
	if c.DefaultKeyframes <= 0 || c.DefaultKeyframes > c.MaxKeyframes {
		return fmt.Errorf("default_keyframes must be between 1 and max_keyframes (%d)", c.MaxKeyframes)
	}
	return nil
}

// EnsurePaths creates parent directories for config-managed paths.
func (c *Config) EnsurePaths() error {
	c.DBPath = ExpandPath(c.DBPath)
	parent := filepath.Dir(c.DBPath)
	if parent == "." {
		return nil
	}
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("create db parent dir: %w", err)
	}
	return nil
}

// ExpandPath expands "~/" to the current user's home directory.
func ExpandPath(p string) string {
	if p == "" {
		return p
	}
	if p == "~" {
		return userHomeDir()
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(userHomeDir(), p[2:])
	}
	return p
}

func userHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
