package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/johns/protrack/internal/activity"
	"github.com/johns/protrack/internal/config"
	"github.com/johns/protrack/internal/store"
	"github.com/johns/protrack/internal/track"
)

const version = "0.1.0"

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "protrack",
	Short:         "Automatic per-project time tracking for assistant-driven work",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "protrack: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads the TOML config, falling back to defaults.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// openStore opens the database under the configured data directory.
func openStore(cfg config.Config) (*store.Store, error) {
	st, err := store.Open(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// newTracker wires the tracker over a fresh store and activity cache.
// The caller closes the returned store.
func newTracker(cfg config.Config) (*track.Tracker, *store.Store, error) {
	st, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	cache := activity.NewCache(cfg.ActivityLogPath(), cfg.IdleCacheMS())
	return track.New(st, cache, cfg.StaleAfterMS(), slog.Default()), st, nil
}

// resolveProject finds a project by exact name, falling back to ID.
func resolveProject(st *store.Store, nameOrID string) (store.Project, error) {
	projects, err := st.Projects()
	if err != nil {
		return store.Project{}, err
	}
	for _, p := range projects {
		if p.Name == nameOrID {
			return p, nil
		}
	}
	for _, p := range projects {
		if p.ID == nameOrID {
			return p, nil
		}
	}
	return store.Project{}, fmt.Errorf("no project named %q (try 'protrack project list')", nameOrID)
}
