package activity

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLog(t *testing.T) {
	input := `{"event":"UserPromptSubmit","session_id":"s1","cwd":"/p","timestamp":1000}
{"event":"Stop","session_id":"s1","tool":"none","cwd":"/p","timestamp":1500}
`
	events := ParseLog(strings.NewReader(input))
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Event != "UserPromptSubmit" || events[0].SessionID != "s1" {
		t.Errorf("events[0] = %+v", events[0])
	}
	if events[0].Timestamp != 1000 {
		t.Errorf("events[0].Timestamp = %d", events[0].Timestamp)
	}
	if events[1].Event != "Stop" || events[1].Tool != "none" {
		t.Errorf("events[1] = %+v", events[1])
	}
}

func TestParseLog_SkipsMalformedLines(t *testing.T) {
	input := `{"event":"UserPromptSubmit","session_id":"s1","cwd":"/p","timestamp":1000}
not json at all
{"event":"Stop","session_id":
{"event":"Stop","session_id":"s1","cwd":"/p","timestamp":2000}

`
	events := ParseLog(strings.NewReader(input))
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2 (malformed lines skipped)", len(events))
	}
	if events[1].Timestamp != 2000 {
		t.Errorf("events[1].Timestamp = %d", events[1].Timestamp)
	}
}

func TestParseLog_Empty(t *testing.T) {
	events := ParseLog(strings.NewReader(""))
	if len(events) != 0 {
		t.Errorf("got %d events from empty input", len(events))
	}
}

func TestReadLog_MissingFile(t *testing.T) {
	events := ReadLog(filepath.Join(t.TempDir(), "nope.jsonl"))
	if events != nil {
		t.Errorf("missing file should yield nil, got %d events", len(events))
	}
}

func TestReadLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.jsonl")
	content := `{"event":"UserPromptSubmit","session_id":"abc","cwd":"/home/dev/app","timestamp":123}` + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	events := ReadLog(path)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].CWD != "/home/dev/app" {
		t.Errorf("CWD = %q", events[0].CWD)
	}
}
