package track

import (
	"testing"

	"github.com/johns/protrack/internal/activity"
)

func TestPathWithinProject(t *testing.T) {
	tests := []struct {
		name    string
		cwd     string
		project string
		want    bool
	}{
		{"exact match", "/a/b", "/a/b", true},
		{"trailing slash on cwd", "/a/b/", "/a/b", true},
		{"trailing slash on project", "/a/b", "/a/b/", true},
		{"trailing slash on both", "/a/b/", "/a/b/", true},
		{"subfolder", "/a/b/src", "/a/b", true},
		{"deep subfolder", "/a/b/src/pkg/util", "/a/b", true},
		{"shared prefix without separator", "/a/bcd", "/a/b", false},
		{"parent directory", "/a", "/a/b", false},
		{"sibling", "/a/c", "/a/b", false},
		{"unrelated", "/x/y", "/a/b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pathWithinProject(tt.cwd, tt.project); got != tt.want {
				t.Errorf("pathWithinProject(%q, %q) = %v, want %v", tt.cwd, tt.project, got, tt.want)
			}
		})
	}
}

func TestSessionsForProject_LatestEventWins(t *testing.T) {
	events := []activity.Event{
		{Event: "UserPromptSubmit", SessionID: "s1", CWD: "/p", Timestamp: 1000},
		{Event: "Stop", SessionID: "s1", CWD: "/p", Timestamp: 1500},
	}

	sessions := SessionsForProject(events, "/p", 2000, 600_000)
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	s1 := sessions["s1"]
	if s1.State != StateStopped {
		t.Errorf("s1.State = %q, want stopped (later Stop overwrites)", s1.State)
	}
	if s1.LastSeen != 1500 {
		t.Errorf("s1.LastSeen = %d, want 1500", s1.LastSeen)
	}
}

func TestSessionsForProject_ActiveFromPrompt(t *testing.T) {
	events := []activity.Event{
		{Event: "Stop", SessionID: "s1", CWD: "/p", Timestamp: 500},
		{Event: "UserPromptSubmit", SessionID: "s1", CWD: "/p", Timestamp: 1000},
	}

	sessions := SessionsForProject(events, "/p", 2000, 600_000)
	if sessions["s1"].State != StateActive {
		t.Errorf("s1.State = %q, want active", sessions["s1"].State)
	}
	if !AnyActive(sessions) {
		t.Error("AnyActive should be true")
	}
}

func TestSessionsForProject_StalenessBoundary(t *testing.T) {
	const stale = 600_000
	event := activity.Event{Event: "UserPromptSubmit", SessionID: "s1", CWD: "/p", Timestamp: 1_000_000}

	// Exactly at the threshold: still active (boundary inclusive).
	sessions := SessionsForProject([]activity.Event{event}, "/p", 1_000_000+stale, stale)
	if sessions["s1"].State != StateActive {
		t.Errorf("at exactly %dms: State = %q, want active", stale, sessions["s1"].State)
	}

	// One past the threshold: downgraded.
	sessions = SessionsForProject([]activity.Event{event}, "/p", 1_000_000+stale+1, stale)
	if sessions["s1"].State != StateStopped {
		t.Errorf("at %dms: State = %q, want stopped", stale+1, sessions["s1"].State)
	}
}

func TestSessionsForProject_StaleStopStaysStopped(t *testing.T) {
	events := []activity.Event{
		{Event: "Stop", SessionID: "s1", CWD: "/p", Timestamp: 1000},
	}
	sessions := SessionsForProject(events, "/p", 10_000_000, 600_000)
	if sessions["s1"].State != StateStopped {
		t.Errorf("State = %q, want stopped", sessions["s1"].State)
	}
}

func TestSessionsForProject_FiltersByPath(t *testing.T) {
	events := []activity.Event{
		{Event: "UserPromptSubmit", SessionID: "mine", CWD: "/a/b/src", Timestamp: 1000},
		{Event: "UserPromptSubmit", SessionID: "other", CWD: "/a/bcd", Timestamp: 1000},
		{Event: "UserPromptSubmit", SessionID: "parent", CWD: "/a", Timestamp: 1000},
		{Event: "UserPromptSubmit", SessionID: "nocwd", CWD: "", Timestamp: 1000},
	}

	sessions := SessionsForProject(events, "/a/b", 2000, 600_000)
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1: %+v", len(sessions), sessions)
	}
	if _, ok := sessions["mine"]; !ok {
		t.Error("session under the project path should match")
	}
}

func TestSessionsForProject_IndependentSessions(t *testing.T) {
	events := []activity.Event{
		{Event: "Stop", SessionID: "s1", CWD: "/p", Timestamp: 1000},
		{Event: "UserPromptSubmit", SessionID: "s2", CWD: "/p", Timestamp: 1200},
	}

	sessions := SessionsForProject(events, "/p", 2000, 600_000)
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions["s1"].State != StateStopped || sessions["s2"].State != StateActive {
		t.Errorf("sessions = %+v", sessions)
	}
	if !AnyActive(sessions) {
		t.Error("one active session should make the project active")
	}
}
