// Package store persists projects, active sessions, and time entries
// in a single sqlite database. One Store exists per process; every
// access is serialized through an exclusive mutex.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// Store wraps the sqlite handle. All methods take the store guard for
// their full duration; callers must never invoke them while holding
// the activity cache guard.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// sqlite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			path TEXT NOT NULL UNIQUE,
			color TEXT NOT NULL,
			hourlyRate REAL,
			createdAt INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS time_entries (
			id TEXT PRIMARY KEY,
			projectId TEXT NOT NULL,
			startTime INTEGER NOT NULL,
			endTime INTEGER,
			claudeCodeActive INTEGER NOT NULL DEFAULT 0,
			description TEXT,
			FOREIGN KEY (projectId) REFERENCES projects(id)
		)`,
		`CREATE TABLE IF NOT EXISTS active_sessions (
			projectId TEXT PRIMARY KEY,
			startTime INTEGER NOT NULL,
			claudeCodeDetected INTEGER NOT NULL DEFAULT 0,
			lastClaudeCheck INTEGER NOT NULL,
			manualMode INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (projectId) REFERENCES projects(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_time_entries_project_start
			ON time_entries(projectId, startTime)`,
		`CREATE INDEX IF NOT EXISTS idx_time_entries_claude
			ON time_entries(claudeCodeActive)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	// Databases created before these columns existed.
	db.Exec(`ALTER TABLE active_sessions ADD COLUMN manualMode INTEGER NOT NULL DEFAULT 0`)
	db.Exec(`ALTER TABLE projects ADD COLUMN hourlyRate REAL`)

	return nil
}
