// Package audit records state-changing adfctl operations.
// Events are stored as JSON Lines (JSONL) in a single journal file.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EventType classifies an operation.
type EventType string

const (
	EventInsert   EventType = "insert"
	EventEject    EventType = "eject"
	EventPatch    EventType = "patch"
	EventActivate EventType = "activate"
	EventCreate   EventType = "create"
	EventClone    EventType = "clone"
	EventError    EventType = "error"
)

// Event represents a single journal entry.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	// Target is the unit, image or config file acted on.
	Target  string `json:"target"`
	Details string `json:"details,omitempty"`
	// Source is "cli" or "web".
	Source string `json:"source,omitempty"`
}

// Logger writes and reads the journal at {stateDir}/events.jsonl.
type Logger struct {
	stateDir string
	source   string
	mu       sync.Mutex
}

// NewLogger creates a new journal rooted at stateDir.
func NewLogger(stateDir string) *Logger {
	return &Logger{stateDir: stateDir}
}

// WithSource returns a logger that stamps events with source.
func (l *Logger) WithSource(source string) *Logger {
	return &Logger{stateDir: l.stateDir, source: source}
}

// Path returns the journal file path.
func (l *Logger) Path() string {
	return filepath.Join(l.stateDir, "events.jsonl")
}

// Log appends an event to the journal.
func (l *Logger) Log(event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Source == "" {
		event.Source = l.source
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	path := l.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

// LogEvent is a convenience method that creates and logs an event.
func (l *Logger) LogEvent(eventType EventType, target, details string) error {
	return l.Log(Event{
		Timestamp: time.Now(),
		Type:      eventType,
		Target:    target,
		Details:   details,
	})
}

// Events reads all events in chronological order.
func (l *Logger) Events() ([]Event, error) {
	f, err := os.Open(l.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			continue // Skip malformed lines
		}
		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("error reading journal: %w", err)
	}

	return events, nil
}

// Tail returns the last n events. n <= 0 returns all of them.
func (l *Logger) Tail(n int) ([]Event, error) {
	events, err := l.Events()
	if n > 0 && len(events) > n {
		events = events[len(events)-n:]
	}
	return events, err
}

// Clear deletes the journal.
func (l *Logger) Clear() error {
	if err := os.Remove(l.Path()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
