// Package track turns hook events into per-project tracking state and
// billable time totals.
package track

import (
	"strings"

	"github.com/johns/protrack/internal/activity"
)

const (
	// StateActive labels a session whose latest event was a prompt submission.
	StateActive = "active"
	// StateStopped labels every other session.
	StateStopped = "stopped"
)

// promptEvent is the hook event that signals the assistant went to work.
const promptEvent = "UserPromptSubmit"

// SessionState is the derived classification of one assistant session.
type SessionState struct {
	State    string
	LastSeen int64
}

// pathWithinProject reports whether cwd is the project path itself or a
// strict descendant. Trailing slashes are ignored on both sides; a bare
// prefix without a separator boundary does not match, and parents of
// the project never match.
func pathWithinProject(cwd, projectPath string) bool {
	cwd = strings.TrimRight(cwd, "/")
	project := strings.TrimRight(projectPath, "/")

	if cwd == project {
		return true
	}
	return strings.HasPrefix(cwd, project+"/")
}

// SessionsForProject classifies every assistant session with events
// under projectPath. Later events overwrite earlier ones per session
// id; active sessions whose last event is more than staleAfterMS old
// are downgraded to stopped.
func SessionsForProject(events []activity.Event, projectPath string, nowMS, staleAfterMS int64) map[string]SessionState {
	sessions := make(map[string]SessionState)

	for _, ev := range events {
		if ev.CWD == "" || !pathWithinProject(ev.CWD, projectPath) {
			continue
		}
		state := StateStopped
		if ev.Event == promptEvent {
			state = StateActive
		}
		sessions[ev.SessionID] = SessionState{State: state, LastSeen: ev.Timestamp}
	}

	for id, sess := range sessions {
		if sess.State == StateActive && nowMS-sess.LastSeen > staleAfterMS {
			sess.State = StateStopped
			sessions[id] = sess
		}
	}

	return sessions
}

// AnyActive reports whether any derived session is classified active.
func AnyActive(sessions map[string]SessionState) bool {
	for _, sess := range sessions {
		if sess.State == StateActive {
			return true
		}
	}
	return false
}
