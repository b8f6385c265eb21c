package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johns/protrack/internal/check"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Diagnose the protrack environment",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		report := check.Run(cfg)
		fmt.Print(report.Format())

		if report.HasFailures() {
			return fmt.Errorf("checks failed")
		}
		return nil
	},
}
