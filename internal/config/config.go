package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all protrack configuration.
type Config struct {
	DataDir string `toml:"data_dir"`

	Tracking TrackingConfig `toml:"tracking"`
}

type TrackingConfig struct {
	// StaleAfterMinutes is how long an assistant session may go without
	// a hook event before an "active" classification is downgraded.
	StaleAfterMinutes int `toml:"stale_after_minutes"`
	// IdleCacheSeconds is the minimum interval between system idle-time probes.
	IdleCacheSeconds int `toml:"idle_cache_seconds"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DataDir: "~/.protrack",
		Tracking: TrackingConfig{
			StaleAfterMinutes: 10,
			IdleCacheSeconds:  5,
		},
	}
}

// Load reads config from the standard path, falling back to defaults.
func Load() (Config, error) {
	cfg := DefaultConfig()

	paths := configPaths()
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			if _, err := toml.DecodeFile(p, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", p, err)
			}
			break
		}
	}

	cfg.DataDir = expandHome(cfg.DataDir)

	return cfg, nil
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "protrack", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "protrack", "config.toml"))
	}

	return paths
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// CompressHome replaces a leading home-directory prefix with ~ for display.
func CompressHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	if strings.HasPrefix(path, home+string(filepath.Separator)) {
		return "~" + path[len(home):]
	}
	return path
}

// DBPath returns the sqlite database path inside the data directory.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "data.db")
}

// ActivityLogPath returns the hook activity log path.
func (c Config) ActivityLogPath() string {
	return filepath.Join(c.DataDir, "claude-activity.jsonl")
}

// ActivityArchivePath returns the compressed history of rotated-out log lines.
func (c Config) ActivityArchivePath() string {
	return filepath.Join(c.DataDir, "claude-activity-history.jsonl.zst")
}

// StaleAfterMS returns the session staleness cutoff in milliseconds.
func (c Config) StaleAfterMS() int64 {
	return int64(c.Tracking.StaleAfterMinutes) * 60 * 1000
}

// IdleCacheMS returns the idle-probe cache window in milliseconds.
func (c Config) IdleCacheMS() int64 {
	return int64(c.Tracking.IdleCacheSeconds) * 1000
}
