package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statusJSON bool

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "emit machine-readable JSON")
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show tracking state and totals for all projects",
	Args:  cobra.NoArgs,
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

		status, err := tracker.Status()
		if err != nil {
			return err
		}

		if statusJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(status)
		}

		if len(status.Projects) == 0 {
			fmt.Println("No projects. Add one with 'protrack project add <name> <path>'.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PROJECT\tSTATE\tELAPSED\tTODAY\tWEEK\tTOTAL")
		for _, p := range status.Projects {
			state := "idle"
			switch {
			case p.IsTracking && p.ManualMode:
				state = "manual"
			case p.IsTracking:
				state = "auto"
			}
			elapsed := "-"
			if p.IsTracking {
				elapsed = formatMS(p.ElapsedTime)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				p.Name, state, elapsed,
				formatMS(p.TodayTime), formatMS(p.WeekTime), formatMS(p.TotalTime))
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Printf("\ntoday %s, assistant total %s, system idle %s\n",
			formatMS(status.TodayTotal), formatMS(status.ClaudeTotal), formatMS(status.SystemIdleTime))
		return nil
	},
}

// formatMS renders a millisecond duration as compact hours/minutes.
// Sub-minute durations show seconds so short sessions stay visible.
func formatMS(ms int64) string {
	if ms <= 0 {
		return "0m"
	}
	totalSec := ms / 1000
	if totalSec < 60 {
		return fmt.Sprintf("%ds", totalSec)
	}
	minutes := totalSec / 60
	h := minutes / 60
	m := minutes % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
