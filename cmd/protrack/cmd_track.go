package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	startManual bool
	stopEnd     string
)

func init() {
	rootCmd.AddCommand(startCmd, stopCmd)
	startCmd.Flags().BoolVar(&startManual, "manual", false, "manual mode: never auto-stopped")
	stopCmd.Flags().StringVar(&stopEnd, "end", "", "end time (RFC3339 or unix ms), default now")
}

var startCmd = &cobra.Command{
	Use:   "start <project>",
	Short: "Start tracking a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		tracker, st, err := newTracker(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		project, err := resolveProject(st, args[0])
		if err != nil {
			return err
		}

		session, err := tracker.Start(project.ID, startManual)
		if err != nil {
			return err
		}
		mode := "auto"
		if session.ManualMode {
			mode = "manual"
		}
		fmt.Printf("tracking %s (%s)\n", project.Name, mode)
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop <project>",
	Short: "Stop tracking a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		tracker, st, err := newTracker(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		project, err := resolveProject(st, args[0])
		if err != nil {
			return err
		}

		var endMS *int64
		if stopEnd != "" {
			ms, err := parseTimestamp(stopEnd)
			if err != nil {
				return err
			}
			endMS = &ms
		}

		entry, err := tracker.Stop(project.ID, endMS)
		if err != nil {
			return err
		}
		if entry == nil {
			fmt.Printf("%s is not being tracked\n", project.Name)
			return nil
		}
		fmt.Printf("stopped %s, logged %s\n", project.Name, formatMS(*entry.EndTime-entry.StartTime))
		return nil
	},
}
