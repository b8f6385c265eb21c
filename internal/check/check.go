// Package check implements the doctor-style environment diagnostics.
package check

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/johns/protrack/internal/config"
	"github.com/johns/protrack/internal/store"
)

// Status represents the outcome of a single check.
type Status int

const (
	Pass Status = iota
	Warn
	Fail
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Warn:
		return "warn"
	case Fail:
		return "FAIL"
	default:
		return "unknown"
	}
}

// Result holds the outcome of a single check.
type Result struct {
	Name   string
	Status Status
	Detail string
}

// Report aggregates all check results.
type Report struct {
	Results []Result
}

// HasFailures returns true if any result has Fail status.
func (r Report) HasFailures() bool {
	for _, res := range r.Results {
		if res.Status == Fail {
			return true
		}
	}
	return false
}

// Format returns the human-readable report string.
func (r Report) Format() string {
	if len(r.Results) == 0 {
		return "protrack check\n\n  no checks ran\n"
	}

	// Find max name length for alignment.
	maxName := 0
	for _, res := range r.Results {
		if len(res.Name) > maxName {
			maxName = len(res.Name)
		}
	}

	var b strings.Builder
	b.WriteString("protrack check\n\n")

	var passed, warnings, failures int
	for _, res := range r.Results {
		switch res.Status {
		case Pass:
			passed++
		case Warn:
			warnings++
		case Fail:
			failures++
		}
		fmt.Fprintf(&b, "  %-4s  %-*s  %s\n", res.Status, maxName, res.Name, res.Detail)
	}

	fmt.Fprintf(&b, "\n%d passed, %d warning, %d failure\n", passed, warnings, failures)
	return b.String()
}

// CheckDataDir checks whether the data directory exists.
func CheckDataDir(dir string) Result {
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return Result{Name: "data", Status: Pass, Detail: config.CompressHome(dir)}
	}
	return Result{Name: "data", Status: Warn, Detail: config.CompressHome(dir) + " not found (created on first use)"}
}

// CheckDatabase opens the database and counts projects.
func CheckDatabase(dbPath string) Result {
	if _, err := os.Stat(dbPath); err != nil {
		return Result{Name: "database", Status: Warn, Detail: config.CompressHome(dbPath) + " not found (created on first use)"}
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return Result{Name: "database", Status: Fail, Detail: "cannot open: " + err.Error()}
	}
	defer st.Close()

	projects, err := st.Projects()
	if err != nil {
		return Result{Name: "database", Status: Fail, Detail: "query failed: " + err.Error()}
	}
	return Result{Name: "database", Status: Pass, Detail: fmt.Sprintf("%s (%d projects)", config.CompressHome(dbPath), len(projects))}
}

// CheckActivityLog reports the activity log's presence and age.
func CheckActivityLog(logPath string, now time.Time) Result {
	info, err := os.Stat(logPath)
	if err != nil {
		return Result{Name: "activity", Status: Warn, Detail: "no activity log yet (hooks installed?)"}
	}

	age := now.Sub(info.ModTime())
	detail := fmt.Sprintf("%s (last event %s ago)", config.CompressHome(logPath), formatAge(age))
	if age > 7*24*time.Hour {
		return Result{Name: "activity", Status: Warn, Detail: detail}
	}
	return Result{Name: "activity", Status: Pass, Detail: detail}
}

func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

// CheckIdleProbe verifies the platform idle-time probe is available.
func CheckIdleProbe() Result {
	tool, ok := idleProbeTool()
	if !ok {
		return Result{Name: "idle", Status: Warn, Detail: "no idle probe on this platform (idle time reports 0)"}
	}
	if _, err := execLookPath(tool); err != nil {
		return Result{Name: "idle", Status: Warn, Detail: tool + " not found (idle time reports 0)"}
	}
	return Result{Name: "idle", Status: Pass, Detail: tool + " available"}
}

// CheckHook checks whether "protrack hook" is configured in ~/.claude/settings.json.
func CheckHook() Result {
	home, err := os.UserHomeDir()
	if err != nil {
		return Result{Name: "hook", Status: Warn, Detail: "cannot determine home directory"}
	}
	path := filepath.Join(home, ".claude", "settings.json")
	return checkHookFile(path)
}

func checkHookFile(path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{Name: "hook", Status: Warn, Detail: config.CompressHome(path) + " not found"}
	}
	if strings.Contains(string(data), "protrack hook") {
		return Result{Name: "hook", Status: Pass, Detail: "protrack hook found in " + config.CompressHome(path)}
	}
	return Result{Name: "hook", Status: Fail, Detail: "protrack hook not found in " + config.CompressHome(path)}
}

// Run executes all checks against the given config and returns a report.
func Run(cfg config.Config) Report {
	var results []Result

	results = append(results, CheckDataDir(cfg.DataDir))
	results = append(results, CheckDatabase(cfg.DBPath()))
	results = append(results, CheckActivityLog(cfg.ActivityLogPath(), time.Now()))
	results = append(results, CheckIdleProbe())
	results = append(results, CheckHook())

	return Report{Results: results}
}
