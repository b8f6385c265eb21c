package track

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/johns/protrack/internal/store"
)

// Start begins tracking a project. If a session already exists, a
// manual start promotes it to manual mode in place without touching
// its start time; otherwise the existing session is returned as-is.
func (t *Tracker) Start(projectID string, manual bool) (store.ActiveSession, error) {
	existing, err := t.store.ActiveSession(projectID)
	if err != nil {
		return store.ActiveSession{}, err
	}

	if existing != nil {
		if manual && !existing.ManualMode {
			if err := t.store.PromoteManual(projectID); err != nil {
				return store.ActiveSession{}, err
			}
			existing.ManualMode = true
		}
		return *existing, nil
	}

	nowMS := t.now().UnixMilli()
	session := store.ActiveSession{
		ProjectID:  projectID,
		StartTime:  nowMS,
		LastCheck:  nowMS,
		ManualMode: manual,
	}
	if err := t.store.InsertActiveSession(session); err != nil {
		return store.ActiveSession{}, err
	}
	return session, nil
}

// Stop closes a project's open session into a time entry ending at
// endMS (or now when endMS is nil). Returns nil when the project was
// not being tracked.
func (t *Tracker) Stop(projectID string, endMS *int64) (*store.TimeEntry, error) {
	session, err := t.store.ActiveSession(projectID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	end := t.now().UnixMilli()
	if endMS != nil {
		end = *endMS
	}

	entry := store.TimeEntry{
		ID:           uuid.NewString(),
		ProjectID:    projectID,
		StartTime:    session.StartTime,
		EndTime:      &end,
		ClaudeActive: session.ClaudeDetected,
	}
	if err := t.store.CloseSession(projectID, entry); err != nil {
		return nil, fmt.Errorf("close session: %w", err)
	}
	return &entry, nil
}
