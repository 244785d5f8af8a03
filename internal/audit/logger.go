package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of audit event
type EventType string

const (
	// Remote API traffic
	EventAPICall     EventType = "API_CALL"
	EventSchemaFetch EventType = "SCHEMA_FETCH"

	// Trigger lifecycle
	EventTriggerEvent  EventType = "TRIGGER_EVENT"
	EventFlowProvision EventType = "FLOW_PROVISION"
	EventFlowDelete    EventType = "FLOW_DELETE"

	// System events
	EventStartup  EventType = "STARTUP"
	EventShutdown EventType = "SHUTDOWN"
	EventError    EventType = "ERROR"
)

// Severity represents the severity level of an audit event
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

// Event is a single audit log entry.
type Event struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Type      EventType      `json:"type"`
	Severity  Severity       `json:"severity"`
	Resource  string         `json:"resource,omitempty"`
	Action    string         `json:"action,omitempty"`
	Result    string         `json:"result"`
	Details   map[string]any `json:"details,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// Logger writes audit events as JSON lines. A nil *Logger is valid and
// discards everything, so callers never need to guard their log calls.
type Logger struct {
	mu      sync.Mutex
	w       io.Writer
	file    *os.File
	path    string
	maxSize int64
	encoder *json.Encoder
}

// Config represents logger configuration
type Config struct {
	FilePath string
	MaxSize  int64 // maximum file size in bytes before rotation, 0 disables
}

// NewLogger creates a file-backed audit logger.
func NewLogger(config Config) (*Logger, error) {
	dir := filepath.Dir(config.FilePath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create audit log directory: %w", err)
	}

	file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log file: %w", err)
	}

	return &Logger{
		w:       file,
		file:    file,
		path:    config.FilePath,
		maxSize: config.MaxSize,
		encoder: json.NewEncoder(file),
	}, nil
}

// NewWriterLogger creates a logger that writes to w. Used by tests and by the
// CLI when no log file is configured.
func NewWriterLogger(w io.Writer) *Logger {
	return &Logger{w: w, encoder: json.NewEncoder(w)}
}

// Close flushes and closes the underlying file, if any.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

// Log records one event. The ID and timestamp are filled in here.
func (l *Logger) Log(event Event) {
	if l == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	if event.Severity == "" {
		event.Severity = SeverityInfo
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.rotateLocked()
	// Encoding errors are swallowed: audit logging must never take the
	// connector down.
	_ = l.encoder.Encode(event)
}

// LogAPICall records one outbound request to the Directus instance.
func (l *Logger) LogAPICall(method, path string, status int, err error) {
	event := Event{
		Type:     EventAPICall,
		Action:   method,
		Resource: path,
		Result:   "success",
		Details:  map[string]any{"status": status},
	}
	if err != nil {
		event.Severity = SeverityError
		event.Result = "failure"
		event.Error = err.Error()
	}
	l.Log(event)
}

// LogError records a failure outside the request path.
func (l *Logger) LogError(source string, err error, details map[string]any) {
	l.Log(Event{
		Type:     EventError,
		Severity: SeverityError,
		Resource: source,
		Result:   "failure",
		Error:    err.Error(),
		Details:  details,
	})
}

// LogSystem records a lifecycle event.
func (l *Logger) LogSystem(eventType EventType, message string, details map[string]any) {
	l.Log(Event{
		Type:    eventType,
		Action:  message,
		Result:  "success",
		Details: details,
	})
}

// rotateLocked renames the current file aside once it exceeds maxSize.
// Callers must hold l.mu.
func (l *Logger) rotateLocked() {
	if l.file == nil || l.maxSize <= 0 {
		return
	}
	info, err := l.file.Stat()
	if err != nil || info.Size() < l.maxSize {
		return
	}

	backup := fmt.Sprintf("%s.%s", l.path, time.Now().UTC().Format("20060102T150405"))
	l.file.Close()
	if err := os.Rename(l.path, backup); err != nil {
		// Reopen in append mode and keep going.
		if f, openErr := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600); openErr == nil {
			l.file, l.w, l.encoder = f, f, json.NewEncoder(f)
		}
		return
	}
	if f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600); err == nil {
		l.file, l.w, l.encoder = f, f, json.NewEncoder(f)
	}
}
