package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DataDir != "~/.protrack" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Tracking.StaleAfterMinutes != 10 {
		t.Errorf("Tracking.StaleAfterMinutes = %d", cfg.Tracking.StaleAfterMinutes)
	}
	if cfg.Tracking.IdleCacheSeconds != 5 {
		t.Errorf("Tracking.IdleCacheSeconds = %d", cfg.Tracking.IdleCacheSeconds)
	}
}

func TestLoad_NoConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Should have expanded defaults (DataDir no longer starts with ~/)
	if strings.HasPrefix(cfg.DataDir, "~/") {
		t.Errorf("DataDir not expanded: %q", cfg.DataDir)
	}
	if !strings.HasSuffix(cfg.DataDir, ".protrack") {
		t.Errorf("DataDir = %q, want suffix .protrack", cfg.DataDir)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", t.TempDir())

	configDir := filepath.Join(xdg, "protrack")
	os.MkdirAll(configDir, 0o755)

	tomlContent := `data_dir = "/custom/data"

[tracking]
stale_after_minutes = 20
idle_cache_seconds = 2
`
	os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(tomlContent), 0o644)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DataDir != "/custom/data" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Tracking.StaleAfterMinutes != 20 {
		t.Errorf("Tracking.StaleAfterMinutes = %d", cfg.Tracking.StaleAfterMinutes)
	}
	if cfg.StaleAfterMS() != 20*60*1000 {
		t.Errorf("StaleAfterMS = %d", cfg.StaleAfterMS())
	}
	if cfg.IdleCacheMS() != 2000 {
		t.Errorf("IdleCacheMS = %d", cfg.IdleCacheMS())
	}
}

func TestLoad_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	configDir := filepath.Join(xdg, "protrack")
	os.MkdirAll(configDir, 0o755)
	os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(`data_dir = "~/timers"`), 0o644)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := filepath.Join(home, "timers")
	if cfg.DataDir != want {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, want)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", t.TempDir())

	configDir := filepath.Join(xdg, "protrack")
	os.MkdirAll(configDir, 0o755)
	os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(`data_dir = [broken`), 0o644)

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestPaths(t *testing.T) {
	cfg := Config{DataDir: "/home/user/.protrack"}

	if got := cfg.DBPath(); got != "/home/user/.protrack/data.db" {
		t.Errorf("DBPath = %q", got)
	}
	if got := cfg.ActivityLogPath(); got != "/home/user/.protrack/claude-activity.jsonl" {
		t.Errorf("ActivityLogPath = %q", got)
	}
	if got := cfg.ActivityArchivePath(); !strings.HasSuffix(got, ".jsonl.zst") {
		t.Errorf("ActivityArchivePath = %q", got)
	}
}
