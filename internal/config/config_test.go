package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExpandPath(t *testing.T) {
	t.Parallel()
	got := ExpandPath("~/reflective.db")
	if got == "~/reflective.db" {
		t.Fatalf("expected home-expanded path, got %q", got)
	}
	if !strings.Contains(got, "reflective.db") {
		t.Fatalf("expected expanded path to contain file name, got %q", got)
	}
}

func TestDefault_IsValid(t *testing.T) {
	t.Parallel()
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ServerName != "reflective-mcp" || cfg.Transport != TransportStdio {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoad_OverridesAndValidates(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "reflective-mcp.yaml")
	body := "transport: http\nhttp_addr: 127.0.0.1:9000\ndefault_state: neon_puddle\ndefault_keyframes: 6\ndrift_seed: 42\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Transport != TransportHTTP || cfg.HTTPAddr != "127.0.0.1:9000" || cfg.DefaultState != "neon_puddle" || cfg.DriftSeed != 42 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.MaxKeyframes != Default().MaxKeyframes {
		t.Fatalf("unset keys should keep defaults, got max_keyframes=%d", cfg.MaxKeyframes)
	}
}

func TestValidate_Rejects(t *testing.T) {
	t.Parallel()
	cases := map[string]func(*Config){
		"unknown state":     func(c *Config) { c.DefaultState = "lava_lamp" },
		"bad transport":     func(c *Config) { c.Transport = "grpc" },
		"keyframes too big": func(c *Config) { c.DefaultKeyframes = c.MaxKeyframes + 1 },
		"bad log level":     func(c *Config) { c.LogLevel = "chatty" },
		"zero retention":    func(c *Config) { c.RequestLogRetentionHours = 0 },
		"http without addr": func(c *Config) { c.Transport = TransportHTTP; c.HTTPAddr = "" },
	}
	for name, mutate := range cases {
		cfg := Default()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}
