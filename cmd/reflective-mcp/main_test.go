package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "reflective-mcp.yaml")
	body := "db_path: " + filepath.Join(dir, "reflective.db") + "\ndrift_seed: 7\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	if strings.TrimSpace(out) != "reflective-mcp v1.0.0" {
		t.Fatalf("unexpected version output %q", out)
	}
}

func TestRhythmCommand(t *testing.T) {
	out, err := execute(t, "rhythm", "frost_breath", "--config", writeConfig(t), "--format", "markdown")
	if err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	if !strings.Contains(out, "mirror_still → frosted_pane (triangular, 24 steps)") {
		t.Fatalf("missing plot caption:\n%s", out)
	}

	if _, err := execute(t, "rhythm", "moon_pulse", "--config", writeConfig(t)); err == nil {
		t.Fatal("expected error for unknown preset")
	}
}

func TestTaxonomyCommandRejectsUnknownFormat(t *testing.T) {
	if _, err := execute(t, "taxonomy", "--format", "html"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
