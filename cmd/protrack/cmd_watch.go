package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/johns/protrack/internal/watch"
)

var watchInterval time.Duration

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 5*time.Second, "polling interval between status passes")
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the tracker in the foreground, printing state transitions",
	Long: `Runs status passes continuously so sessions auto-start and auto-stop
without a UI polling the CLI. Activity log changes trigger an immediate
pass; a timer covers staleness downgrades, which happen without any
file change.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
		tracker, st, err := newTracker(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, ctx := errgroup.WithContext(ctx)
		passes := make(chan struct{}, 1)

		// Producer: merge file-change hints and the poll timer into one
		// pass-request stream.
		g.Go(func() error {
			defer close(passes)

			hints, err := watch.Changes(ctx, cfg.ActivityLogPath())
			if err != nil {
				slog.Warn("file watch unavailable, polling only", "error", err)
			}

			ticker := time.NewTicker(watchInterval)
			defer ticker.Stop()

			request := func() {
				select {
				case passes <- struct{}{}:
				default:
				}
			}
			request() // initial pass

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					request()
				case _, ok := <-hints:
					if !ok {
						hints = nil
						continue
					}
					request()
				}
			}
		})

		// Consumer: run status passes and report tracking transitions.
		g.Go(func() error {
			tracking := map[string]bool{}
			for range passes {
				status, err := tracker.Status()
				if err != nil {
					slog.Warn("status pass failed", "error", err)
					continue
				}
				for _, p := range status.Projects {
					if p.IsTracking == tracking[p.Name] {
						continue
					}
					tracking[p.Name] = p.IsTracking
					stamp := time.Now().Format("15:04:05")
					if p.IsTracking {
						mode := "auto"
						if p.ManualMode {
							mode = "manual"
						}
						fmt.Printf("%s  %s  tracking started (%s)\n", stamp, p.Name, mode)
					} else {
						fmt.Printf("%s  %s  tracking stopped, today %s\n", stamp, p.Name, formatMS(p.TodayTime))
					}
				}
			}
			return nil
		})

		return g.Wait()
	},
}
