package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johns/protrack/internal/hook"
)

var hookEvent string

func init() {
	rootCmd.AddCommand(hookCmd, hooksCmd)
	hookCmd.Flags().StringVar(&hookEvent, "event", "", "override the event name from stdin")
	hooksCmd.AddCommand(hooksInstallCmd, hooksUninstallCmd, hooksStatusCmd)
}

var hookCmd = &cobra.Command{
	Use:    "hook",
	Short:  "Hook mode: read a Claude Code payload from stdin and log it",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return hook.Handle(cfg, hookEvent)
	},
}

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "Manage Claude Code hook integration",
}

var hooksInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Add protrack hooks to ~/.claude/settings.json",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return hook.Install()
	},
}

var hooksUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove protrack hooks from ~/.claude/settings.json",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return hook.Uninstall()
	},
}

var hooksStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether protrack hooks are installed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		installed, err := hook.CheckInstalled()
		if err != nil {
			return err
		}
		if installed {
			fmt.Println("installed")
			return nil
		}
		fmt.Println("not installed (run 'protrack hooks install')")
		return nil
	},
}
