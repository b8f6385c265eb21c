package store

import (
	"fmt"
)

// TimeEntry is a closed (or externally open) tracked interval.
type TimeEntry struct {
	ID           string  `json:"id"`
	ProjectID    string  `json:"projectId"`
	StartTime    int64   `json:"startTime"`
	EndTime      *int64  `json:"endTime"`
	ClaudeActive bool    `json:"claudeCodeActive"`
	Description  *string `json:"description"`
}

const entryCols = `id, projectId, startTime, endTime, claudeCodeActive, description`

// AppendEntry inserts a time entry.
func (s *Store) AppendEntry(entry TimeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendEntry(entry)
}

func (s *Store) appendEntry(entry TimeEntry) error {
	_, err := s.db.Exec(
		`INSERT INTO time_entries (`+entryCols+`) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.ProjectID, entry.StartTime, entry.EndTime,
		boolInt(entry.ClaudeActive), entry.Description)
	if err != nil {
		return fmt.Errorf("insert time entry: %w", err)
	}
	return nil
}

// CloseSession converts a project's open session into a closed time
// entry: the entry insert and the session delete happen in one
// transaction so the at-most-one-of-each invariant holds.
func (s *Store) CloseSession(projectID string, entry TimeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin close session: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO time_entries (`+entryCols+`) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.ProjectID, entry.StartTime, entry.EndTime,
		boolInt(entry.ClaudeActive), entry.Description); err != nil {
		tx.Rollback()
		return fmt.Errorf("insert time entry: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM active_sessions WHERE projectId = ?`, projectID); err != nil {
		tx.Rollback()
		return fmt.Errorf("delete active session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit close session: %w", err)
	}
	return nil
}

// Entries returns a project's time entries, newest first. When dayStart
// is non-nil only entries starting within that local day are returned.
func (s *Store) Entries(projectID string, dayStart *int64) ([]TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `SELECT ` + entryCols + ` FROM time_entries WHERE projectId = ? ORDER BY startTime DESC`
	args := []any{projectID}
	if dayStart != nil {
		query = `SELECT ` + entryCols + ` FROM time_entries
			WHERE projectId = ? AND startTime >= ? AND startTime < ?
			ORDER BY startTime DESC`
		args = append(args, *dayStart, *dayStart+86_400_000)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query time entries: %w", err)
	}
	defer rows.Close()

	var entries []TimeEntry
	for rows.Next() {
		var e TimeEntry
		var active int
		if err := rows.Scan(&e.ID, &e.ProjectID, &e.StartTime, &e.EndTime, &active, &e.Description); err != nil {
			return nil, fmt.Errorf("scan time entry: %w", err)
		}
		e.ClaudeActive = active == 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UpdateEntry rewrites an entry's start and end times.
func (s *Store) UpdateEntry(entryID string, startMS, endMS int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(
		`UPDATE time_entries SET startTime = ?, endTime = ? WHERE id = ?`,
		startMS, endMS, entryID); err != nil {
		return fmt.Errorf("update time entry: %w", err)
	}
	return nil
}

// DeleteEntry removes a single time entry.
func (s *Store) DeleteEntry(entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM time_entries WHERE id = ?`, entryID); err != nil {
		return fmt.Errorf("delete time entry: %w", err)
	}
	return nil
}
