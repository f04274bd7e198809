package audit

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestLogger_LogAndEvents(t *testing.T) {
	dir := t.TempDir()
	logger := NewLogger(dir)

	now := time.Now().Truncate(time.Millisecond)

	events := []Event{
		{Timestamp: now, Type: EventCreate, Target: "/adf/blank.adf", Details: "volume=BLANK"},
		{Timestamp: now.Add(time.Second), Type: EventInsert, Target: "0", Details: "/adf/blank.adf"},
		{Timestamp: now.Add(2 * time.Second), Type: EventPatch, Target: "/pistorm/default.cfg", Details: "loopcycles"},
		{Timestamp: now.Add(3 * time.Second), Type: EventEject, Target: "0"},
	}

	for _, e := range events {
		if err := logger.Log(e); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	result, err := logger.Events()
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}

	if len(result) != len(events) {
		t.Fatalf("got %d events, want %d", len(result), len(events))
	}

	for i, e := range result {
		if e.Type != events[i].Type {
			t.Errorf("event %d: type = %q, want %q", i, e.Type, events[i].Type)
		}
		if e.Target != events[i].Target {
			t.Errorf("event %d: target = %q, want %q", i, e.Target, events[i].Target)
		}
		if e.Details != events[i].Details {
			t.Errorf("event %d: details = %q, want %q", i, e.Details, events[i].Details)
		}
	}
}

func TestLogger_EventsEmpty(t *testing.T) {
	logger := NewLogger(t.TempDir())

	result, err := logger.Events()
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}

	if len(result) != 0 {
		t.Errorf("got %d events, want 0", len(result))
	}
}

func TestLogger_LogEvent(t *testing.T) {
	logger := NewLogger(t.TempDir()).WithSource("web")

	if err := logger.LogEvent(EventActivate, "a1200.cfg", ""); err != nil {
		t.Fatalf("LogEvent failed: %v", err)
	}

	events, err := logger.Events()
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	e := events[0]
	if e.Type != EventActivate || e.Target != "a1200.cfg" {
		t.Errorf("event = %+v", e)
	}
	if e.Source != "web" {
		t.Errorf("source = %q, want web", e.Source)
	}
	if e.Timestamp.IsZero() {
		t.Error("timestamp should be set automatically")
	}
}

func TestLogger_Tail(t *testing.T) {
	logger := NewLogger(t.TempDir())
	for _, target := range []string{"0", "1", "2", "3"} {
		if err := logger.LogEvent(EventEject, target, ""); err != nil {
			t.Fatal(err)
		}
	}

	events, err := logger.Tail(2)
	if err != nil {
		t.Fatalf("Tail failed: %v", err)
	}
	if len(events) != 2 || events[0].Target != "2" || events[1].Target != "3" {
		t.Errorf("Tail(2) = %+v", events)
	}

	all, _ := logger.Tail(0)
	if len(all) != 4 {
		t.Errorf("Tail(0) returned %d events, want 4", len(all))
	}
}

func TestLogger_SkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	logger := NewLogger(dir)

	content := `{"type":"insert","target":"0"}
not json

{"type":"eject","target":"0"}
`
	if err := os.WriteFile(filepath.Join(dir, "events.jsonl"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	events, err := logger.Events()
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("got %d events, want 2", len(events))
	}
}

func TestLogger_Concurrent(t *testing.T) {
	logger := NewLogger(t.TempDir())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = logger.LogEvent(EventInsert, "1", "/adf/game.adf")
		}()
	}
	wg.Wait()

	events, err := logger.Events()
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(events) != 20 {
		t.Errorf("got %d events, want 20", len(events))
	}
}

func TestLogger_Clear(t *testing.T) {
	logger := NewLogger(t.TempDir())

	_ = logger.LogEvent(EventClone, "copy.adf", "")

	if err := logger.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if err := logger.Clear(); err != nil {
		t.Errorf("Clear on missing journal failed: %v", err)
	}

	events, err := logger.Events()
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events after clear, want 0", len(events))
	}
}
