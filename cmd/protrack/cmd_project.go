package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/johns/protrack/internal/config"
)

var rateClear bool

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectAddCmd, projectListCmd, projectRenameCmd, projectRateCmd, projectRemoveCmd)
	projectRateCmd.Flags().BoolVar(&rateClear, "clear", false, "remove the hourly rate")
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage tracked projects",
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name> [path]",
	Short: "Register a project directory for tracking",
	Args:  cobra.RangeArgs(1, 2),
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

		path := ""
		if len(args) == 2 {
			path = args[1]
		} else if path, err = os.Getwd(); err != nil {
			return fmt.Errorf("determine working directory: %w", err)
		}
		path, err = filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolve path: %w", err)
		}

		project, err := st.CreateProject(args[0], path, time.Now().UnixMilli())
		if err != nil {
			return err
		}
		fmt.Printf("added %s (%s)\n", project.Name, config.CompressHome(project.Path))
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all projects",
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

		projects, err := st.Projects()
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			fmt.Println("No projects.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tPATH\tRATE\tID")
		for _, p := range projects {
			rate := "-"
			if p.HourlyRate != nil {
				rate = fmt.Sprintf("%.2f/h", *p.HourlyRate)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Name, config.CompressHome(p.Path), rate, p.ID)
		}
		return w.Flush()
	},
}

var projectRenameCmd = &cobra.Command{
	Use:   "rename <project> <new-name>",
	Short: "Rename a project",
	Args:  cobra.ExactArgs(2),
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
		if err := st.RenameProject(project.ID, args[1]); err != nil {
			return err
		}
		fmt.Printf("renamed %s to %s\n", project.Name, args[1])
		return nil
	},
}

var projectRateCmd = &cobra.Command{
	Use:   "rate <project> [hourly-rate]",
	Short: "Set or clear a project's hourly rate",
	Args:  cobra.RangeArgs(1, 2),
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

		if rateClear {
			if err := st.SetProjectRate(project.ID, nil); err != nil {
				return err
			}
			fmt.Printf("cleared rate for %s\n", project.Name)
			return nil
		}

		if len(args) < 2 {
			return fmt.Errorf("provide an hourly rate or --clear")
		}
		rate, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid rate %q: %w", args[1], err)
		}
		if err := st.SetProjectRate(project.ID, &rate); err != nil {
			return err
		}
		fmt.Printf("set %s rate to %.2f/h\n", project.Name, rate)
		return nil
	},
}

var projectRemoveCmd = &cobra.Command{
	Use:   "remove <project>",
	Short: "Delete a project and all its time entries",
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
		if err := st.DeleteProject(project.ID); err != nil {
			return err
		}
		fmt.Printf("removed %s\n", project.Name)
		return nil
	},
}
