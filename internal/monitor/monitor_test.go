package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/firefly-engineering/adfctl/internal/audit"
	"github.com/firefly-engineering/adfctl/internal/diskctl"
	"github.com/firefly-engineering/adfctl/internal/diskctl/diskctltest"
)

func newFake(t *testing.T, present ...int) (*diskctltest.Units, *diskctltest.Server, *diskctl.Client) {
	t.Helper()
	units := diskctltest.NewUnits(present...)
	srv := diskctltest.NewServer(t, units.Handle)
	client := diskctl.NewClient(diskctl.Endpoint{Host: srv.Host, Port: srv.Port, Timeout: time.Second})
	return units, srv, client
}

func TestMonitor_New(t *testing.T) {
	m := New(0, diskctl.NewClient(diskctl.Endpoint{}))
	if m.interval != DefaultInterval {
		t.Errorf("interval = %v, want %v", m.interval, DefaultInterval)
	}
	if m.auditLog != nil || m.onChange != nil {
		t.Error("options should default to nil")
	}
}

func TestMonitor_Options(t *testing.T) {
	journal := audit.NewLogger(t.TempDir())
	called := false

	m := New(time.Minute, diskctl.NewClient(diskctl.Endpoint{}),
		WithAuditLogger(journal),
		WithOnChange(func(Change) { called = true }),
	)

	if m.interval != time.Minute {
		t.Errorf("interval = %v", m.interval)
	}
	if m.auditLog == nil || m.onChange == nil {
		t.Fatal("options should be set")
	}
	m.onChange(Change{})
	if !called {
		t.Error("onChange not wired")
	}
}

func TestMonitor_Poll(t *testing.T) {
	units, _, client := newFake(t, 1)
	journal := audit.NewLogger(t.TempDir())

	var seen []Change
	m := New(time.Second, client,
		WithAuditLogger(journal),
		WithOnChange(func(c Change) { seen = append(seen, c) }),
	)
	ctx := context.Background()

	if changes := m.poll(ctx); len(changes) != 0 {
		t.Errorf("first poll = %v, want baseline only", changes)
	}
	if m.Last() == nil {
		t.Fatal("Last() should hold the baseline")
	}

	units.Handle("insert 2 -rw /adf/work.adf")
	units.Handle("eject 1")

	changes := m.poll(ctx)
	if len(changes) != 2 || len(seen) != 2 {
		t.Fatalf("changes = %+v", changes)
	}
	if changes[0].Unit != 1 || changes[0].Type() != audit.EventEject {
		t.Errorf("changes[0] = %+v", changes[0])
	}
	if changes[1].Unit != 2 || changes[1].Type() != audit.EventInsert || changes[1].Details() != "observed /adf/work.adf (rw)" {
		t.Errorf("changes[1] = %+v, details %q", changes[1], changes[1].Details())
	}

	events, err := journal.Events()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || events[1].Target != "DF2" || events[1].Source != "monitor" {
		t.Errorf("events = %+v", events)
	}

	if changes := m.poll(ctx); len(changes) != 0 {
		t.Errorf("unchanged poll = %v", changes)
	}
}

func TestMonitor_Unreachable(t *testing.T) {
	_, srv, client := newFake(t)
	m := New(time.Second, client)
	ctx := context.Background()

	m.poll(ctx)
	srv.Close()

	if changes := m.poll(ctx); changes != nil {
		t.Errorf("poll while down = %v", changes)
	}
	if m.reachable {
		t.Error("reachable should be false")
	}
	if m.Last() == nil {
		t.Error("Last() should keep the previous status")
	}
}

func TestMonitor_RunStops(t *testing.T) {
	_, _, client := newFake(t)
	m := New(10*time.Millisecond, client)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := m.Run(ctx); err != context.DeadlineExceeded {
		t.Errorf("Run() = %v, want deadline exceeded", err)
	}
}

func TestDiff(t *testing.T) {
	before := &diskctl.Status{Units: []diskctl.UnitStatus{
		{Unit: 0, Present: true, Filename: "/a.adf"},
		{Unit: 1},
	}}
	after := &diskctl.Status{Units: []diskctl.UnitStatus{
		{Unit: 0, Present: true, Filename: "/a.adf", Writable: true},
		{Unit: 1},
	}}

	changes := Diff(before, after)
	if len(changes) != 1 || changes[0].Unit != 0 || !changes[0].After.Writable {
		t.Errorf("Diff() = %+v", changes)
	}
	if got := Diff(before, before); len(got) != 0 {
		t.Errorf("Diff(same) = %+v", got)
	}
}
