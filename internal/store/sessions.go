package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// ActiveSession is the persisted open-tracking record. At most one row
// exists per project.
type ActiveSession struct {
	ProjectID      string `json:"projectId"`
	StartTime      int64  `json:"startTime"`
	ClaudeDetected bool   `json:"claudeCodeDetected"`
	LastCheck      int64  `json:"lastClaudeCheck"`
	ManualMode     bool   `json:"manualMode"`
}

const sessionCols = `projectId, startTime, claudeCodeDetected, lastClaudeCheck, manualMode`

func scanSession(row interface{ Scan(...any) error }) (ActiveSession, error) {
	var sess ActiveSession
	var detected, manual int
	err := row.Scan(&sess.ProjectID, &sess.StartTime, &detected, &sess.LastCheck, &manual)
	if err != nil {
		return ActiveSession{}, err
	}
	sess.ClaudeDetected = detected == 1
	sess.ManualMode = manual == 1
	return sess, nil
}

// ActiveSessions returns all open sessions keyed by project id.
func (s *Store) ActiveSessions() (map[string]ActiveSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT ` + sessionCols + ` FROM active_sessions`)
	if err != nil {
		return nil, fmt.Errorf("query active sessions: %w", err)
	}
	defer rows.Close()

	sessions := make(map[string]ActiveSession)
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan active session: %w", err)
		}
		sessions[sess.ProjectID] = sess
	}
	return sessions, rows.Err()
}

// ActiveSession returns the open session for a project, or nil when
// the project is not being tracked.
func (s *Store) ActiveSession(projectID string) (*ActiveSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeSession(projectID)
}

func (s *Store) activeSession(projectID string) (*ActiveSession, error) {
	row := s.db.QueryRow(
		`SELECT `+sessionCols+` FROM active_sessions WHERE projectId = ?`, projectID)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query active session: %w", err)
	}
	return &sess, nil
}

// InsertActiveSession creates the open-tracking row for a project.
func (s *Store) InsertActiveSession(sess ActiveSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertActiveSession(sess)
}

func (s *Store) insertActiveSession(sess ActiveSession) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO active_sessions (`+sessionCols+`) VALUES (?, ?, ?, ?, ?)`,
		sess.ProjectID, sess.StartTime, boolInt(sess.ClaudeDetected), sess.LastCheck, boolInt(sess.ManualMode))
	if err != nil {
		return fmt.Errorf("insert active session: %w", err)
	}
	return nil
}

// PromoteManual flips an existing session to manual mode in place,
// leaving its start time untouched.
func (s *Store) PromoteManual(projectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(
		`UPDATE active_sessions SET manualMode = 1 WHERE projectId = ?`, projectID); err != nil {
		return fmt.Errorf("promote session to manual: %w", err)
	}
	return nil
}

// DeleteActiveSession removes a project's open-tracking row.
func (s *Store) DeleteActiveSession(projectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteActiveSession(projectID)
}

func (s *Store) deleteActiveSession(projectID string) error {
	if _, err := s.db.Exec(`DELETE FROM active_sessions WHERE projectId = ?`, projectID); err != nil {
		return fmt.Errorf("delete active session: %w", err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
