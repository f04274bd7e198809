// Package monitor watches the drive units for changes made outside adfctl.
package monitor

import (
	"context"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/firefly-engineering/adfctl/internal/audit"
	"github.com/firefly-engineering/adfctl/internal/diskctl"
	"github.com/firefly-engineering/adfctl/internal/logging"
)

// DefaultInterval is the default polling interval.
const DefaultInterval = 5 * time.Second

// Change is a difference in one unit between two polls.
type Change struct {
	Unit   int
	Before diskctl.UnitStatus
	After  diskctl.UnitStatus
}

// Type returns the journal event type matching the change.
func (c Change) Type() audit.EventType {
	if c.After.Present {
		return audit.EventInsert
	}
	return audit.EventEject
}

// Details describes the change for the journal.
func (c Change) Details() string {
	if !c.After.Present {
		return "observed, was " + filepath.Base(c.Before.Filename)
	}
	d := "observed " + c.After.Filename
	if c.After.Writable {
		d += " (rw)"
	}
	return d
}

// Monitor periodically polls the control service and reports unit changes.
type Monitor struct {
	interval time.Duration
	client   *diskctl.Client
	auditLog *audit.Logger
	onChange func(Change)

	mu        sync.Mutex
	last      *diskctl.Status
	reachable bool
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithAuditLogger records observed changes in the journal with source
// "monitor".
func WithAuditLogger(logger *audit.Logger) Option {
	return func(m *Monitor) {
		m.auditLog = logger.WithSource("monitor")
	}
}

// WithOnChange sets a callback run for every observed change.
func WithOnChange(fn func(Change)) Option {
	return func(m *Monitor) {
		m.onChange = fn
	}
}

// New creates a new Monitor. A non-positive interval uses DefaultInterval.
func New(interval time.Duration, client *diskctl.Client, opts ...Option) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	m := &Monitor{
		interval:  interval,
		client:    client,
		reachable: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run starts the polling loop. It blocks until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	logging.Debug("starting drive monitor", "interval", m.interval, "control", m.client.Endpoint.Address())

	// Run an immediate poll, then loop on interval.
	m.poll(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Debug("drive monitor stopping")
			return ctx.Err()
		case <-ticker.C:
			m.poll(ctx)
		}
	}
}

// Last returns the most recent status, or nil before the first
// successful poll.
func (m *Monitor) Last() *diskctl.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// poll fetches the status once and reports the changes since the previous
// successful poll. The first successful poll only sets the baseline.
func (m *Monitor) poll(ctx context.Context) []Change {
	st, ok := m.client.Status(ctx)

	m.mu.Lock()
	if !ok {
		if m.reachable {
			logging.Warn("control service unreachable", "address", m.client.Endpoint.Address())
		}
		m.reachable = false
		m.mu.Unlock()
		return nil
	}
	if !m.reachable {
		logging.Info("control service reachable again", "address", m.client.Endpoint.Address())
	}
	m.reachable = true
	prev := m.last
	m.last = st
	m.mu.Unlock()

	if prev == nil {
		return nil
	}

	changes := Diff(prev, st)
	for _, c := range changes {
		logging.Info("unit changed", "unit", c.Unit, "type", c.Type(), "filename", c.After.Filename)
		if m.auditLog != nil {
			if err := m.auditLog.LogEvent(c.Type(), "DF"+strconv.Itoa(c.Unit), c.Details()); err != nil {
				logging.Warn("failed to record change", "error", err)
			}
		}
		if m.onChange != nil {
			m.onChange(c)
		}
	}
	return changes
}

// Diff returns the units whose contents differ between two statuses, in
// unit order.
func Diff(before, after *diskctl.Status) []Change {
	var changes []Change
	for n := 0; n < diskctl.Units; n++ {
		b, _ := before.Unit(n)
		a, _ := after.Unit(n)
		b.Unit, a.Unit = n, n
		if b != a {
			changes = append(changes, Change{Unit: n, Before: b, After: a})
		}
	}
	return changes
}
