package health

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/firefly-engineering/adfctl/internal/audit"
	"github.com/firefly-engineering/adfctl/internal/config"
	"github.com/firefly-engineering/adfctl/internal/diskctl"
	"github.com/firefly-engineering/adfctl/internal/diskctl/diskctltest"
	"github.com/firefly-engineering/adfctl/internal/system"
)

func TestStatusConstants(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusHealthy, "healthy"},
		{StatusDegraded, "degraded"},
		{StatusUnreachable, "unreachable"},
	}

	for _, tt := range tests {
		if string(tt.status) != tt.want {
			t.Errorf("Status %v = %q, want %q", tt.status, tt.status, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		want     string
	}{
		{"seconds", 30 * time.Second, "30s"},
		{"one minute", 1 * time.Minute, "1m"},
		{"minutes", 45 * time.Minute, "45m"},
		{"one hour", 1 * time.Hour, "1h 0m"},
		{"hours and minutes", 2*time.Hour + 30*time.Minute, "2h 30m"},
		{"one day", 24 * time.Hour, "1d 0h"},
		{"days and hours", 3*24*time.Hour + 5*time.Hour, "3d 5h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatDuration(tt.duration)
			if got != tt.want {
				t.Errorf("formatDuration(%v) = %q, want %q", tt.duration, got, tt.want)
			}
		})
	}
}

// newSetup returns settings with an image dir holding one image and a
// writable config file.
func newSetup(t *testing.T) *config.Settings {
	t.Helper()
	dir := t.TempDir()

	s := config.Default()
	s.ImageDir = filepath.Join(dir, "adf")
	s.ConfigFile = filepath.Join(dir, "default.cfg")
	if err := os.MkdirAll(s.ImageDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(s.ImageDir, "disk.adf"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.ConfigFile, []byte("cpu 68020\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return s
}

func clientFor(srv *diskctltest.Server) *diskctl.Client {
	return diskctl.NewClient(diskctl.Endpoint{Host: srv.Host, Port: srv.Port, Timeout: time.Second})
}

func TestCheck_Healthy(t *testing.T) {
	s := newSetup(t)
	srv := diskctltest.NewUnitServer(t, 1, 3)
	journal := audit.NewLogger(t.TempDir())
	if err := journal.LogEvent(audit.EventInsert, "DF1", ""); err != nil {
		t.Fatal(err)
	}

	result := Check(context.Background(), CheckOptions{
		Settings: s,
		Client:   clientFor(srv),
		Executor: system.NewMockExecutor(),
		Audit:    journal,
	})

	if result.Status() != StatusHealthy {
		t.Errorf("Status() = %s, problems %v", result.Status(), result.Problems)
	}
	if result.UnitsOccupied != 2 || result.ImageCount != 1 || !result.ConfigWritable {
		t.Errorf("result = %+v", result)
	}
	if result.Xdftool != "/usr/bin/xdftool" {
		t.Errorf("Xdftool = %q", result.Xdftool)
	}
	if result.LastActivity == "" {
		t.Error("LastActivity should be set")
	}
}

func TestCheck_Problems(t *testing.T) {
	s := newSetup(t)
	s.ConfigFile = filepath.Join(t.TempDir(), "missing.cfg")
	s.ImageDir = filepath.Join(t.TempDir(), "nope")
	srv := diskctltest.NewUnitServer(t)

	exec := system.NewMockExecutor()
	exec.Missing = map[string]bool{"xdftool": true}

	result := Check(context.Background(), CheckOptions{Settings: s, Client: clientFor(srv), Executor: exec})

	if result.Status() != StatusDegraded {
		t.Errorf("Status() = %s", result.Status())
	}
	if len(result.Problems) != 3 {
		t.Errorf("Problems = %v, want xdftool, config and image dir", result.Problems)
	}
	if result.LastActivity != "" {
		t.Errorf("LastActivity = %q without a journal", result.LastActivity)
	}
}

func TestCheck_Unreachable(t *testing.T) {
	s := newSetup(t)
	srv := diskctltest.NewUnitServer(t)
	srv.Close()

	result := Check(context.Background(), CheckOptions{Settings: s, Client: clientFor(srv), Executor: system.NewMockExecutor()})

	if result.Status() != StatusUnreachable || result.ControlReachable {
		t.Errorf("result = %+v", result)
	}
}

func TestCheckWritable(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.cfg")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}

	if !CheckWritable(file) {
		t.Error("regular file should be writable")
	}
	if CheckWritable(dir) {
		t.Error("directory should not count as writable")
	}
	if CheckWritable(filepath.Join(dir, "missing.cfg")) {
		t.Error("missing file should not be writable")
	}
}
