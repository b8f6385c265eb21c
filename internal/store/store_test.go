package store

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustCreateProject(t *testing.T, s *Store, name, path string) Project {
	t.Helper()
	p, err := s.CreateProject(name, path, 1000)
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	return p
}

func TestOpen_ReopensExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	mustCreateProject(t, s, "alpha", "/a")
	s.Close()

	// Schema init must be idempotent on an existing database.
	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	projects, err := s2.Projects()
	if err != nil {
		t.Fatalf("Projects: %v", err)
	}
	if len(projects) != 1 || projects[0].Name != "alpha" {
		t.Errorf("projects = %+v", projects)
	}
}

func TestCreateProject_ColorRotation(t *testing.T) {
	s := openTestStore(t)

	first := mustCreateProject(t, s, "a", "/a")
	second := mustCreateProject(t, s, "b", "/b")

	if first.Color == "" || second.Color == "" {
		t.Fatal("projects should get palette colors")
	}
	if first.Color == second.Color {
		t.Errorf("consecutive projects share color %q", first.Color)
	}
	if first.ID == second.ID {
		t.Error("project ids must be unique")
	}
}

func TestProjects_OrderedByName(t *testing.T) {
	s := openTestStore(t)
	mustCreateProject(t, s, "zeta", "/z")
	mustCreateProject(t, s, "alpha", "/a")

	projects, err := s.Projects()
	if err != nil {
		t.Fatalf("Projects: %v", err)
	}
	if len(projects) != 2 || projects[0].Name != "alpha" || projects[1].Name != "zeta" {
		t.Errorf("projects out of order: %+v", projects)
	}
}

func TestSetProjectRate(t *testing.T) {
	s := openTestStore(t)
	p := mustCreateProject(t, s, "a", "/a")

	rate := 95.0
	if err := s.SetProjectRate(p.ID, &rate); err != nil {
		t.Fatalf("SetProjectRate: %v", err)
	}

	projects, _ := s.Projects()
	if projects[0].HourlyRate == nil || *projects[0].HourlyRate != 95.0 {
		t.Errorf("HourlyRate = %v", projects[0].HourlyRate)
	}

	if err := s.SetProjectRate(p.ID, nil); err != nil {
		t.Fatalf("clear rate: %v", err)
	}
	projects, _ = s.Projects()
	if projects[0].HourlyRate != nil {
		t.Errorf("HourlyRate should be cleared, got %v", *projects[0].HourlyRate)
	}
}

func TestDeleteProject_Cascades(t *testing.T) {
	s := openTestStore(t)
	p := mustCreateProject(t, s, "a", "/a")

	if err := s.InsertActiveSession(ActiveSession{ProjectID: p.ID, StartTime: 1, LastCheck: 1}); err != nil {
		t.Fatal(err)
	}
	end := int64(2000)
	if err := s.AppendEntry(TimeEntry{ID: uuid.NewString(), ProjectID: p.ID, StartTime: 1000, EndTime: &end}); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteProject(p.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}

	projects, _ := s.Projects()
	if len(projects) != 0 {
		t.Errorf("projects left: %+v", projects)
	}
	sessions, _ := s.ActiveSessions()
	if len(sessions) != 0 {
		t.Errorf("sessions left: %+v", sessions)
	}
	entries, _ := s.Entries(p.ID, nil)
	if len(entries) != 0 {
		t.Errorf("entries left: %+v", entries)
	}
}

func TestActiveSession_Lifecycle(t *testing.T) {
	s := openTestStore(t)
	p := mustCreateProject(t, s, "a", "/a")

	sess, err := s.ActiveSession(p.ID)
	if err != nil {
		t.Fatalf("ActiveSession: %v", err)
	}
	if sess != nil {
		t.Fatalf("expected no session, got %+v", sess)
	}

	want := ActiveSession{ProjectID: p.ID, StartTime: 5000, ClaudeDetected: true, LastCheck: 5000}
	if err := s.InsertActiveSession(want); err != nil {
		t.Fatalf("InsertActiveSession: %v", err)
	}

	sess, err = s.ActiveSession(p.ID)
	if err != nil {
		t.Fatalf("ActiveSession: %v", err)
	}
	if sess == nil || *sess != want {
		t.Errorf("session = %+v, want %+v", sess, want)
	}

	if err := s.PromoteManual(p.ID); err != nil {
		t.Fatalf("PromoteManual: %v", err)
	}
	sess, _ = s.ActiveSession(p.ID)
	if !sess.ManualMode {
		t.Error("ManualMode should be set")
	}
	if sess.StartTime != 5000 {
		t.Errorf("StartTime changed on promote: %d", sess.StartTime)
	}

	if err := s.DeleteActiveSession(p.ID); err != nil {
		t.Fatalf("DeleteActiveSession: %v", err)
	}
	sess, _ = s.ActiveSession(p.ID)
	if sess != nil {
		t.Errorf("session survived delete: %+v", sess)
	}
}

func TestCloseSession(t *testing.T) {
	s := openTestStore(t)
	p := mustCreateProject(t, s, "a", "/a")

	if err := s.InsertActiveSession(ActiveSession{ProjectID: p.ID, StartTime: 1000, ClaudeDetected: true, LastCheck: 1000}); err != nil {
		t.Fatal(err)
	}

	end := int64(4000)
	entry := TimeEntry{
		ID: uuid.NewString(), ProjectID: p.ID,
		StartTime: 1000, EndTime: &end, ClaudeActive: true,
	}
	if err := s.CloseSession(p.ID, entry); err != nil {
		t.Fatalf("CloseSession: %v", err)
	}

	sess, _ := s.ActiveSession(p.ID)
	if sess != nil {
		t.Errorf("session should be gone, got %+v", sess)
	}
	entries, _ := s.Entries(p.ID, nil)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].StartTime != 1000 || *entries[0].EndTime != 4000 || !entries[0].ClaudeActive {
		t.Errorf("entry = %+v", entries[0])
	}
}

func TestEntries_DayFilterAndEdits(t *testing.T) {
	s := openTestStore(t)
	p := mustCreateProject(t, s, "a", "/a")

	dayStart := int64(1_000_000)
	add := func(start, end int64) TimeEntry {
		e := TimeEntry{ID: uuid.NewString(), ProjectID: p.ID, StartTime: start, EndTime: &end}
		if err := s.AppendEntry(e); err != nil {
			t.Fatal(err)
		}
		return e
	}

	inDay := add(dayStart+10, dayStart+20)
	add(dayStart-500, dayStart-100)                      // before the day
	add(dayStart+86_400_000, dayStart+86_400_000+10_000) // next day

	entries, err := s.Entries(p.ID, &dayStart)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != inDay.ID {
		t.Errorf("day filter returned %+v", entries)
	}

	if err := s.UpdateEntry(inDay.ID, dayStart+30, dayStart+60); err != nil {
		t.Fatalf("UpdateEntry: %v", err)
	}
	entries, _ = s.Entries(p.ID, &dayStart)
	if entries[0].StartTime != dayStart+30 || *entries[0].EndTime != dayStart+60 {
		t.Errorf("entry after update = %+v", entries[0])
	}

	if err := s.DeleteEntry(inDay.ID); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	entries, _ = s.Entries(p.ID, &dayStart)
	if len(entries) != 0 {
		t.Errorf("entry survived delete: %+v", entries)
	}
}

func TestTimeSumsByProject(t *testing.T) {
	s := openTestStore(t)
	p := mustCreateProject(t, s, "a", "/a")

	todayStart := int64(100_000)
	weekStart := int64(50_000)

	add := func(start, end int64, open bool) {
		e := TimeEntry{ID: uuid.NewString(), ProjectID: p.ID, StartTime: start}
		if !open {
			e.EndTime = &end
		}
		if err := s.AppendEntry(e); err != nil {
			t.Fatal(err)
		}
	}

	add(todayStart+1000, todayStart+3000, false) // today: 2000
	add(weekStart+1000, weekStart+1500, false)   // this week only: 500
	add(10_000, 11_000, false)                   // older: total only
	add(todayStart+5000, 0, true)                // open: excluded everywhere

	sums, err := s.TimeSumsByProject(todayStart, weekStart)
	if err != nil {
		t.Fatalf("TimeSumsByProject: %v", err)
	}
	got := sums[p.ID]
	if got.Today != 2000 {
		t.Errorf("Today = %d, want 2000", got.Today)
	}
	if got.Week != 2500 {
		t.Errorf("Week = %d, want 2500", got.Week)
	}
	if got.Total != 3500 {
		t.Errorf("Total = %d, want 3500", got.Total)
	}
}

func TestClaudeTotalMS(t *testing.T) {
	s := openTestStore(t)
	p := mustCreateProject(t, s, "a", "/a")

	end := int64(3000)
	s.AppendEntry(TimeEntry{ID: uuid.NewString(), ProjectID: p.ID, StartTime: 1000, EndTime: &end, ClaudeActive: true})
	s.AppendEntry(TimeEntry{ID: uuid.NewString(), ProjectID: p.ID, StartTime: 4000, ClaudeActive: true}) // open
	s.AppendEntry(TimeEntry{ID: uuid.NewString(), ProjectID: p.ID, StartTime: 1000, EndTime: &end})      // not assistant

	total, err := s.ClaudeTotalMS(10_000)
	if err != nil {
		t.Fatalf("ClaudeTotalMS: %v", err)
	}
	// closed 2000 + open counted through now (10000-4000)
	if total != 8000 {
		t.Errorf("ClaudeTotalMS = %d, want 8000", total)
	}
}

func TestRangeSumForProject(t *testing.T) {
	s := openTestStore(t)
	p := mustCreateProject(t, s, "a", "/a")

	end := int64(2000)
	s.AppendEntry(TimeEntry{ID: uuid.NewString(), ProjectID: p.ID, StartTime: 1000, EndTime: &end})
	s.AppendEntry(TimeEntry{ID: uuid.NewString(), ProjectID: p.ID, StartTime: 5000}) // open: counts 0 ms

	sum, err := s.RangeSumForProject(p.ID, 0, 10_000)
	if err != nil {
		t.Fatalf("RangeSumForProject: %v", err)
	}
	if sum.TotalMS != 1000 {
		t.Errorf("TotalMS = %d, want 1000", sum.TotalMS)
	}
	if sum.EntryCount != 2 {
		t.Errorf("EntryCount = %d, want 2", sum.EntryCount)
	}
}
