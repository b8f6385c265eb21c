// Package hook is the collaborator side of the activity log: it
// receives Claude Code hook payloads on stdin, appends them as JSONL
// events, and manages the hook entries in the assistant's settings.
// The tracking core only ever reads the log.
package hook

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/johns/protrack/internal/activity"
	"github.com/johns/protrack/internal/config"
)

// Input is the JSON object Claude Code sends to hooks via stdin.
type Input struct {
	SessionID     string `json:"session_id"`
	HookEventName string `json:"hook_event_name"`
	ToolName      string `json:"tool_name,omitempty"`
	CWD           string `json:"cwd"`
}

// Handle reads hook input from stdin and appends it to the activity log.
func Handle(cfg config.Config, event string) error {
	input, err := readStdin()
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	// Use event override if provided (e.g., --event Stop)
	if event != "" {
		input.HookEventName = event
	}

	ev := activity.Event{
		Event:     input.HookEventName,
		SessionID: input.SessionID,
		Tool:      input.ToolName,
		CWD:       input.CWD,
		Timestamp: time.Now().UnixMilli(),
	}

	if err := appendEvent(cfg.ActivityLogPath(), ev); err != nil {
		return err
	}

	return rotate(cfg.ActivityLogPath(), cfg.ActivityArchivePath())
}

func readStdin() (*Input, error) {
	// Read all stdin with a timeout
	done := make(chan []byte, 1)
	errCh := make(chan error, 1)

	go func() {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			errCh <- err
			return
		}
		done <- data
	}()

	var data []byte
	select {
	case data = <-done:
	case err := <-errCh:
		return nil, err
	case <-time.After(2 * time.Second):
		return nil, fmt.Errorf("stdin read timeout")
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("empty stdin")
	}

	var input Input
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("parse stdin JSON: %w", err)
	}

	return &input, nil
}

func appendEvent(logPath string, ev activity.Event) error {
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open activity log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}
