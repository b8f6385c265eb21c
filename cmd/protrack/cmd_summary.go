package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/johns/protrack/internal/summary"
)

var summaryJSON bool

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "emit machine-readable JSON")
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize the last completed week (Monday through Sunday)",
	Args:  cobra.NoArgs,
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

		sum, err := summary.LastWeek(st, time.Now())
		if err != nil {
			return err
		}

		if summaryJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(sum)
		}

		weekStart, _ := time.Parse(time.RFC3339, sum.WeekStart)
		weekEnd, _ := time.Parse(time.RFC3339, sum.WeekEnd)
		fmt.Printf("Week of %s — %s\n\n", weekStart.Format("Jan 2"), weekEnd.Format("Jan 2, 2006"))

		if len(sum.Projects) == 0 {
			fmt.Println("No tracked time.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PROJECT\tHOURS\tENTRIES\tEARNINGS")
		for _, p := range sum.Projects {
			earnings := "-"
			if p.Earnings != nil {
				earnings = fmt.Sprintf("%.2f", *p.Earnings)
			}
			fmt.Fprintf(w, "%s\t%.2f\t%d\t%s\n", p.ProjectName, p.TotalHours, p.EntryCount, earnings)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if sum.TotalEarnings > 0 {
			fmt.Printf("\ntotal earnings %.2f\n", sum.TotalEarnings)
		}
		return nil
	},
}
