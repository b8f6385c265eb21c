package store

import (
	"fmt"
)

// TimeSums holds a project's closed-interval totals for the three
// status windows.
type TimeSums struct {
	Today int64
	Week  int64
	Total int64
}

// TimeSumsByProject computes today/week/all-time totals over closed
// entries for every project in one query.
func (s *Store) TimeSumsByProject(todayStartMS, weekStartMS int64) (map[string]TimeSums, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT projectId,
			COALESCE(SUM(CASE WHEN startTime >= ? THEN endTime - startTime ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN startTime >= ? THEN endTime - startTime ELSE 0 END), 0),
			COALESCE(SUM(endTime - startTime), 0)
		 FROM time_entries
		 WHERE endTime IS NOT NULL
		 GROUP BY projectId`,
		todayStartMS, weekStartMS)
	if err != nil {
		return nil, fmt.Errorf("query time sums: %w", err)
	}
	defer rows.Close()

	sums := make(map[string]TimeSums)
	for rows.Next() {
		var projectID string
		var t TimeSums
		if err := rows.Scan(&projectID, &t.Today, &t.Week, &t.Total); err != nil {
			return nil, fmt.Errorf("scan time sums: %w", err)
		}
		sums[projectID] = t
	}
	return sums, rows.Err()
}

// ClaudeTotalMS returns the global duration of assistant-active
// entries. Entries still open upstream are counted through nowMS.
func (s *Store) ClaudeTotalMS(nowMS int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(CASE WHEN endTime IS NULL THEN ? - startTime ELSE endTime - startTime END), 0)
		 FROM time_entries WHERE claudeCodeActive = 1`, nowMS).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("query claude total: %w", err)
	}
	return total, nil
}

// RangeSum holds a project's totals for an arbitrary window.
type RangeSum struct {
	TotalMS    int64
	EntryCount int
}

// RangeSumForProject totals entries whose start falls inside
// [startMS, endMS]. Entries without an end time contribute zero.
func (s *Store) RangeSumForProject(projectID string, startMS, endMS int64) (RangeSum, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum RangeSum
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(COALESCE(endTime, startTime) - startTime), 0), COUNT(*)
		 FROM time_entries
		 WHERE projectId = ? AND startTime >= ? AND startTime <= ?`,
		projectID, startMS, endMS).Scan(&sum.TotalMS, &sum.EntryCount)
	if err != nil {
		return RangeSum{}, fmt.Errorf("query range sum: %w", err)
	}
	return sum, nil
}
