// Package summary rolls completed weeks up into per-project totals and
// earnings.
package summary

import (
	"fmt"
	"math"
	"time"

	"github.com/johns/protrack/internal/store"
)

// ProjectSummary is one project's share of a weekly summary. Earnings
// are present only when the project has an hourly rate.
type ProjectSummary struct {
	ProjectID   string   `json:"projectId"`
	ProjectName string   `json:"projectName"`
	TotalMS     int64    `json:"totalMs"`
	TotalHours  float64  `json:"totalHours"`
	EntryCount  int      `json:"entryCount"`
	HourlyRate  *float64 `json:"hourlyRate"`
	Earnings    *float64 `json:"earnings"`
}

// Summary covers the last completed week (Monday through Sunday).
type Summary struct {
	WeekStart     string           `json:"weekStart"`
	WeekEnd       string           `json:"weekEnd"`
	Projects      []ProjectSummary `json:"projects"`
	TotalEarnings float64          `json:"totalEarnings"`
}

// LastWeek summarizes the previous Monday-to-Sunday week, relative to
// now. Projects with no tracked time in the window are omitted.
func LastWeek(st *store.Store, now time.Time) (*Summary, error) {
	monday, sunday := lastWeekBounds(now)

	projects, err := st.Projects()
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}

	sum := &Summary{
		WeekStart: monday.Format(time.RFC3339),
		WeekEnd:   sunday.Format(time.RFC3339),
	}

	for _, project := range projects {
		r, err := st.RangeSumForProject(project.ID, monday.UnixMilli(), sunday.UnixMilli())
		if err != nil {
			return nil, fmt.Errorf("sum project %s: %w", project.Name, err)
		}
		if r.TotalMS <= 0 {
			continue
		}

		hours := round2(float64(r.TotalMS) / 3_600_000)
		ps := ProjectSummary{
			ProjectID:   project.ID,
			ProjectName: project.Name,
			TotalMS:     r.TotalMS,
			TotalHours:  hours,
			EntryCount:  r.EntryCount,
			HourlyRate:  project.HourlyRate,
		}
		if project.HourlyRate != nil {
			earnings := round2(hours * *project.HourlyRate)
			ps.Earnings = &earnings
			sum.TotalEarnings += earnings
		}

		sum.Projects = append(sum.Projects, ps)
	}

	return sum, nil
}

// lastWeekBounds returns the previous completed week: Monday 00:00:00
// through Sunday 23:59:59, local time.
func lastWeekBounds(now time.Time) (time.Time, time.Time) {
	daysToLastSunday := int(now.Weekday())
	if daysToLastSunday == 0 {
		daysToLastSunday = 7
	}

	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	sundayDay := today.AddDate(0, 0, -daysToLastSunday)
	monday := sundayDay.AddDate(0, 0, -6)
	sunday := sundayDay.Add(23*time.Hour + 59*time.Minute + 59*time.Second)

	return monday, sunday
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
