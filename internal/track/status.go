package track

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/johns/protrack/internal/activity"
	"github.com/johns/protrack/internal/store"
)

// ProjectStatus is the per-project slice of a status response. The
// embedded project flattens into the same JSON object, matching the
// wire shape consumers already depend on.
type ProjectStatus struct {
	store.Project
	IsTracking         bool   `json:"isTracking"`
	ManualMode         bool   `json:"manualMode"`
	ElapsedTime        int64  `json:"elapsedTime"`
	TodayTime          int64  `json:"todayTime"`
	WeekTime           int64  `json:"weekTime"`
	TotalTime          int64  `json:"totalTime"`
	ClaudeState        string `json:"claudeState"`
	ClaudeSessionCount int    `json:"claudeSessionCount"`
}

// Status is the full aggregate returned per status request.
type Status struct {
	Projects       []ProjectStatus `json:"projects"`
	TodayTotal     int64           `json:"todayTotal"`
	ClaudeTotal    int64           `json:"claudeTotal"`
	SystemIdleTime int64           `json:"systemIdleTime"`
}

// Tracker orchestrates status requests: it refreshes the activity
// cache, derives per-project assistant state, reconciles session
// transitions against the store, and assembles the totals.
type Tracker struct {
	store        *store.Store
	cache        *activity.Cache
	staleAfterMS int64
	log          *slog.Logger
	now          func() time.Time
}

// New creates a Tracker over the shared store and cache.
func New(st *store.Store, cache *activity.Cache, staleAfterMS int64, log *slog.Logger) *Tracker {
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{
		store:        st,
		cache:        cache,
		staleAfterMS: staleAfterMS,
		log:          log,
		now:          time.Now,
	}
}

// Status runs one full status pass. The cache guard is released inside
// Snapshot before any store access begins; the two guards are never
// held together.
func (t *Tracker) Status() (*Status, error) {
	snap := t.cache.Snapshot()

	now := t.now()
	nowMS := now.UnixMilli()
	todayStart := dayStart(now).UnixMilli()
	weekStart := weekStart(now).UnixMilli()

	projects, err := t.store.Projects()
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	sessions, err := t.store.ActiveSessions()
	if err != nil {
		return nil, fmt.Errorf("load active sessions: %w", err)
	}
	sums, err := t.store.TimeSumsByProject(todayStart, weekStart)
	if err != nil {
		return nil, fmt.Errorf("load time sums: %w", err)
	}
	claudeTotal, err := t.store.ClaudeTotalMS(nowMS)
	if err != nil {
		return nil, fmt.Errorf("load claude total: %w", err)
	}

	status := &Status{
		Projects:       make([]ProjectStatus, 0, len(projects)),
		ClaudeTotal:    claudeTotal,
		SystemIdleTime: snap.IdleTimeMS,
	}

	for _, project := range projects {
		derived := SessionsForProject(snap.Events, project.Path, nowMS, t.staleAfterMS)
		hookActive := AnyActive(derived)

		loaded, hasSession := sessions[project.ID]
		var session *store.ActiveSession
		if hasSession {
			session = &loaded
		}

		session = t.reconcile(project, session, derived, hookActive, nowMS)

		claudeState := StateStopped
		claudeCount := 0
		if hookActive {
			claudeState = StateActive
			claudeCount = 1
		}

		ps := ProjectStatus{
			Project:            project,
			ClaudeState:        claudeState,
			ClaudeSessionCount: claudeCount,
		}
		if session != nil {
			ps.IsTracking = true
			ps.ManualMode = session.ManualMode
			ps.ElapsedTime = nowMS - session.StartTime
		}

		sum := sums[project.ID]
		ps.TodayTime, ps.WeekTime, ps.TotalTime = sum.Today, sum.Week, sum.Total
		status.TodayTotal += sum.Today

		status.Projects = append(status.Projects, ps)
	}

	return status, nil
}

// reconcile applies the tracking state machine for one project and
// returns the authoritative session. Transitions re-read the row; a
// failed write is logged and skipped — the same condition is simply
// re-evaluated on the next status pass.
func (t *Tracker) reconcile(project store.Project, session *store.ActiveSession, derived map[string]SessionState, hookActive bool, nowMS int64) *store.ActiveSession {
	changed := false

	switch {
	case hookActive && session == nil:
		// Prompt submitted with no open tracking: auto-start. Tracking
		// begins at the prompt that triggered it, not at detection time.
		err := t.store.InsertActiveSession(store.ActiveSession{
			ProjectID:      project.ID,
			StartTime:      activeSince(derived, nowMS),
			ClaudeDetected: true,
			LastCheck:      nowMS,
		})
		if err != nil {
			t.log.Warn("auto-start failed", "project", project.Name, "error", err)
		} else {
			changed = true
		}

	case session != nil && !session.ManualMode && !hookActive:
		// Hook signal stopped (including staleness downgrade) on a
		// non-manual session: close it into a time entry.
		end := nowMS
		err := t.store.CloseSession(project.ID, store.TimeEntry{
			ID:           uuid.NewString(),
			ProjectID:    project.ID,
			StartTime:    session.StartTime,
			EndTime:      &end,
			ClaudeActive: true,
		})
		if err != nil {
			t.log.Warn("auto-stop failed", "project", project.Name, "error", err)
		} else {
			changed = true
		}
	}

	if !changed {
		return session
	}

	fresh, err := t.store.ActiveSession(project.ID)
	if err != nil {
		t.log.Warn("re-read session failed", "project", project.Name, "error", err)
		return session
	}
	return fresh
}

// activeSince returns the earliest last-event timestamp among active
// sessions, falling back to nowMS when none carries one.
func activeSince(derived map[string]SessionState, nowMS int64) int64 {
	start := nowMS
	for _, sess := range derived {
		if sess.State == StateActive && sess.LastSeen < start {
			start = sess.LastSeen
		}
	}
	return start
}

// dayStart returns local midnight for now's day.
func dayStart(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// weekStart returns Monday 00:00 local of now's week.
func weekStart(now time.Time) time.Time {
	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	return dayStart(now).AddDate(0, 0, -daysSinceMonday)
}
