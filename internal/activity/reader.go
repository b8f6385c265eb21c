package activity

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"strings"
)

// Event is one hook record from the activity log.
type Event struct {
	Event     string `json:"event"`
	SessionID string `json:"session_id"`
	Tool      string `json:"tool,omitempty"`
	CWD       string `json:"cwd"`
	Timestamp int64  `json:"timestamp"`
}

// ReadLog parses the activity log at path. A missing file yields an
// empty slice; lines that fail to parse are skipped.
func ReadLog(path string) []Event {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	return ParseLog(f)
}

// ParseLog reads newline-delimited JSON events from r.
func ParseLog(r io.Reader) []Event {
	var events []Event
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var ev Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			// Skip unparseable lines rather than failing the whole log
			continue
		}
		events = append(events, ev)
	}
	// A scanner error means a truncated tail; keep what parsed.

	return events
}
