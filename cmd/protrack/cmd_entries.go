package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/johns/protrack/internal/store"
)

var (
	entriesToday bool
	entryStart   string
	entryEnd     string
	entryDesc    string
)

func init() {
	rootCmd.AddCommand(entriesCmd)
	entriesCmd.AddCommand(entriesListCmd, entriesAddCmd, entriesEditCmd, entriesRemoveCmd)

	entriesListCmd.Flags().BoolVar(&entriesToday, "today", false, "only entries that started today")

	entriesAddCmd.Flags().StringVar(&entryStart, "start", "", "start time (RFC3339 or unix ms)")
	entriesAddCmd.Flags().StringVar(&entryEnd, "end", "", "end time (RFC3339 or unix ms)")
	entriesAddCmd.Flags().StringVar(&entryDesc, "desc", "", "description")
	entriesAddCmd.MarkFlagRequired("start")
	entriesAddCmd.MarkFlagRequired("end")

	entriesEditCmd.Flags().StringVar(&entryStart, "start", "", "new start time (RFC3339 or unix ms)")
	entriesEditCmd.Flags().StringVar(&entryEnd, "end", "", "new end time (RFC3339 or unix ms)")
	entriesEditCmd.MarkFlagRequired("start")
	entriesEditCmd.MarkFlagRequired("end")
}

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Inspect and edit recorded time entries",
}

var entriesListCmd = &cobra.Command{
	Use:   "list <project>",
	Short: "List a project's time entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		project, err := resolveProject(st, args[0])
		if err != nil {
			return err
		}

		var dayStart *int64
		if entriesToday {
			y, m, d := time.Now().Date()
			ms := time.Date(y, m, d, 0, 0, 0, 0, time.Local).UnixMilli()
			dayStart = &ms
		}

		entries, err := st.Entries(project.ID, dayStart)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No entries.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "START\tEND\tDURATION\tASSISTANT\tID")
		for _, e := range entries {
			end := "open"
			duration := "-"
			if e.EndTime != nil {
				end = formatStamp(*e.EndTime)
				duration = formatMS(*e.EndTime - e.StartTime)
			}
			assistant := ""
			if e.ClaudeActive {
				assistant = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", formatStamp(e.StartTime), end, duration, assistant, e.ID)
		}
		return w.Flush()
	},
}

var entriesAddCmd = &cobra.Command{
	Use:   "add <project>",
	Short: "Record a time entry by hand",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		project, err := resolveProject(st, args[0])
		if err != nil {
			return err
		}

		startMS, endMS, err := parseRange(entryStart, entryEnd)
		if err != nil {
			return err
		}

		entry := store.TimeEntry{
			ID:        uuid.NewString(),
			ProjectID: project.ID,
			StartTime: startMS,
			EndTime:   &endMS,
		}
		if entryDesc != "" {
			entry.Description = &entryDesc
		}
		if err := st.AppendEntry(entry); err != nil {
			return err
		}
		fmt.Printf("added %s entry to %s\n", formatMS(endMS-startMS), project.Name)
		return nil
	},
}

var entriesEditCmd = &cobra.Command{
	Use:   "edit <entry-id>",
	Short: "Adjust an entry's start and end times",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		startMS, endMS, err := parseRange(entryStart, entryEnd)
		if err != nil {
			return err
		}
		if err := st.UpdateEntry(args[0], startMS, endMS); err != nil {
			return err
		}
		fmt.Println("updated")
		return nil
	},
}

var entriesRemoveCmd = &cobra.Command{
	Use:   "remove <entry-id>",
	Short: "Delete a time entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DeleteEntry(args[0]); err != nil {
			return err
		}
		fmt.Println("removed")
		return nil
	},
}

// parseTimestamp accepts RFC3339 or raw unix milliseconds.
func parseTimestamp(s string) (int64, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ms, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q (want RFC3339 or unix ms)", s)
	}
	return t.UnixMilli(), nil
}

func parseRange(start, end string) (int64, int64, error) {
	startMS, err := parseTimestamp(start)
	if err != nil {
		return 0, 0, err
	}
	endMS, err := parseTimestamp(end)
	if err != nil {
		return 0, 0, err
	}
	if endMS < startMS {
		return 0, 0, fmt.Errorf("end precedes start")
	}
	return startMS, endMS, nil
}

func formatStamp(ms int64) string {
	return time.UnixMilli(ms).Format("2006-01-02 15:04")
}
