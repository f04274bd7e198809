// Package testutil provides test utilities for integration tests
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/firefly-engineering/adfctl/internal/app"
	"github.com/firefly-engineering/adfctl/internal/audit"
	"github.com/firefly-engineering/adfctl/internal/config"
	"github.com/firefly-engineering/adfctl/internal/diskctl"
	"github.com/firefly-engineering/adfctl/internal/diskctl/diskctltest"
	"github.com/firefly-engineering/adfctl/internal/system"
)

// TestEnv holds the test environment
type TestEnv struct {
	T        *testing.T
	TmpDir   string
	Settings *config.Settings
	Server   *diskctltest.Server
	Units    *diskctltest.Units
	Executor *system.MockExecutor
	App      *app.App
	cleanup  func()
}

// NewTestEnv creates a test environment with an image directory, a profile
// directory holding the sample config as default.cfg, and a fake control
// service whose listed units start occupied.
func NewTestEnv(t *testing.T, present ...int) *TestEnv {
	t.Helper()

	tmpDir := t.TempDir()

	s := config.Default()
	s.ImageDir = filepath.Join(tmpDir, "adf")
	s.KickstartDir = filepath.Join(tmpDir, "kick")
	s.HDFDir = filepath.Join(tmpDir, "hdf")
	s.ConfigDir = filepath.Join(tmpDir, "pistorm")
	s.ConfigFile = filepath.Join(s.ConfigDir, "default.cfg")
	s.StateDir = filepath.Join(tmpDir, "state")
	s.Emulator.A314Conf = "/etc/a314d.conf"
	s.LockTimeout = config.Duration{Duration: time.Second}

	for _, dir := range []string{s.ImageDir, s.KickstartDir, s.HDFDir, s.ConfigDir, s.StateDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
	WriteFixture(t, "default.cfg", s.ConfigDir)

	units := diskctltest.NewUnits(present...)
	server := diskctltest.NewServer(t, units.Handle)
	s.Control.Host = server.Host
	s.Control.Port = server.Port
	s.Control.Timeout = config.Duration{Duration: time.Second}

	exec := system.NewMockExecutor()
	// xdftool "create" leaves an image behind
	exec.OnExecute = func(name string, args []string) {
		if len(args) >= 2 && args[len(args)-1] == "create" {
			_ = os.WriteFile(args[len(args)-2], make([]byte, 901120), 0644)
		}
	}

	testApp := app.New(
		app.WithSettings(s),
		app.WithClient(diskctl.NewClient(s.Endpoint())),
		app.WithExecutor(exec),
		app.WithAudit(audit.NewLogger(s.StateDir)),
	)

	// Save original default and set test app
	originalDefault := app.Default
	app.SetDefault(testApp)

	env := &TestEnv{
		T:        t,
		TmpDir:   tmpDir,
		Settings: s,
		Server:   server,
		Units:    units,
		Executor: exec,
		App:      testApp,
		cleanup: func() {
			app.SetDefault(originalDefault)
		},
	}
	t.Cleanup(env.Cleanup)

	return env
}

// Cleanup restores the original app default
func (e *TestEnv) Cleanup() {
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
}

// AddImage creates an image file below the image directory and returns
// its path.
func (e *TestEnv) AddImage(relPath string, size int) string {
	e.T.Helper()

	path := filepath.Join(e.Settings.ImageDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		e.T.Fatalf("Failed to create image directory: %v", err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
		e.T.Fatalf("Failed to write image: %v", err)
	}
	return path
}

// AddFile writes a file into dir.
func (e *TestEnv) AddFile(dir, name, content string) string {
	e.T.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		e.T.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// ReadConfig returns the active emulator config.
func (e *TestEnv) ReadConfig() string {
	e.T.Helper()

	data, err := os.ReadFile(e.Settings.ConfigFile)
	if err != nil {
		e.T.Fatalf("Failed to read config: %v", err)
	}
	return string(data)
}

// Events returns the journal.
func (e *TestEnv) Events() []audit.Event {
	e.T.Helper()

	events, err := e.App.Audit.Events()
	if err != nil {
		e.T.Fatalf("Failed to read journal: %v", err)
	}
	return events
}
