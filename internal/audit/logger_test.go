package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func decodeLines(t *testing.T, data []byte) []Event {
	t.Helper()
	var events []Event
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		var event Event
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			t.Fatalf("line is not valid JSON: %v", err)
		}
		events = append(events, event)
	}
	return events
}

func TestLoggerWritesJSONLines(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewWriterLogger(buf)

	l.LogAPICall("GET", "/collections", 200, nil)
	l.LogAPICall("POST", "/items/articles", 0, errors.New("connection refused"))
	l.LogError("dispatcher", errors.New("boom"), map[string]any{"index": 1})

	events := decodeLines(t, buf.Bytes())
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}

	first := events[0]
	if first.Type != EventAPICall || first.Result != "success" || first.Severity != SeverityInfo {
		t.Errorf("unexpected first event: %+v", first)
	}
	if first.ID == "" || first.Timestamp.IsZero() {
		t.Error("ID and timestamp not stamped")
	}

	second := events[1]
	if second.Result != "failure" || second.Severity != SeverityError || second.Error == "" {
		t.Errorf("unexpected failure event: %+v", second)
	}

	third := events[2]
	if third.Type != EventError || third.Resource != "dispatcher" {
		t.Errorf("unexpected error event: %+v", third)
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Log(Event{Type: EventStartup})
	l.LogAPICall("GET", "/x", 200, nil)
	l.LogError("x", errors.New("y"), nil)
	if err := l.Close(); err != nil {
		t.Errorf("Close() on nil logger = %v", err)
	}
}

func TestFileLoggerAppendsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit", "log.jsonl")

	l, err := NewLogger(Config{FilePath: path})
	if err != nil {
		t.Fatal(err)
	}
	l.LogSystem(EventStartup, "started", nil)
	l.Close()

	l, err = NewLogger(Config{FilePath: path})
	if err != nil {
		t.Fatal(err)
	}
	l.LogSystem(EventShutdown, "stopped", nil)
	l.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	events := decodeLines(t, data)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Type != EventStartup || events[1].Type != EventShutdown {
		t.Errorf("unexpected event order: %v, %v", events[0].Type, events[1].Type)
	}
}

func TestFileLoggerRotates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log.jsonl")

	l, err := NewLogger(Config{FilePath: path, MaxSize: 256})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		l.LogAPICall("GET", "/items/articles", 200, nil)
	}
	l.Close()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	rotated := 0
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "log.jsonl.") {
			rotated++
		}
	}
	if rotated == 0 {
		t.Error("no rotated log file found")
	}
}
