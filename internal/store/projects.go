package store

import (
	"fmt"

	"github.com/google/uuid"
)

// Project is a tracked working directory.
type Project struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Path       string   `json:"path"`
	Color      string   `json:"color"`
	HourlyRate *float64 `json:"hourlyRate"`
	CreatedAt  int64    `json:"createdAt"`
}

// projectColors is the rotating palette assigned to new projects.
var projectColors = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4",
	"#FFEAA7", "#DDA0DD", "#98D8C8", "#F7DC6F",
}

// Projects returns all projects ordered by name.
func (s *Store) Projects() ([]Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projects()
}

func (s *Store) projects() ([]Project, error) {
	rows, err := s.db.Query(
		`SELECT id, name, path, color, hourlyRate, createdAt FROM projects ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Path, &p.Color, &p.HourlyRate, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// CreateProject inserts a new project with an assigned palette color.
func (s *Store) CreateProject(name, path string, nowMS int64) (Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM projects`).Scan(&count); err != nil {
		return Project{}, fmt.Errorf("count projects: %w", err)
	}

	p := Project{
		ID:        uuid.NewString(),
		Name:      name,
		Path:      path,
		Color:     projectColors[count%len(projectColors)],
		CreatedAt: nowMS,
	}

	_, err := s.db.Exec(
		`INSERT INTO projects (id, name, path, color, hourlyRate, createdAt) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Path, p.Color, p.HourlyRate, p.CreatedAt)
	if err != nil {
		return Project{}, fmt.Errorf("insert project: %w", err)
	}

	return p, nil
}

// SetProjectRate updates a project's hourly rate (nil clears it).
func (s *Store) SetProjectRate(projectID string, rate *float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`UPDATE projects SET hourlyRate = ? WHERE id = ?`, rate, projectID); err != nil {
		return fmt.Errorf("update rate: %w", err)
	}
	return nil
}

// RenameProject updates a project's display name.
func (s *Store) RenameProject(projectID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`UPDATE projects SET name = ? WHERE id = ?`, name, projectID); err != nil {
		return fmt.Errorf("rename project: %w", err)
	}
	return nil
}

// DeleteProject removes a project and all its sessions and entries.
func (s *Store) DeleteProject(projectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Children first: the schema carries foreign keys to projects.
	if _, err := s.db.Exec(`DELETE FROM time_entries WHERE projectId = ?`, projectID); err != nil {
		return fmt.Errorf("delete time entries: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM active_sessions WHERE projectId = ?`, projectID); err != nil {
		return fmt.Errorf("delete active sessions: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM projects WHERE id = ?`, projectID); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}
