package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/firefly-engineering/adfctl/internal/errors"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write settings: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if s.Control.Host != DefaultControlHost || s.Control.Port != 23890 {
		t.Errorf("Control = %+v", s.Control)
	}
	if s.Control.Timeout.Duration != 2*time.Second {
		t.Errorf("Timeout = %v, want 2s", s.Control.Timeout)
	}
	if s.Web.Port != DefaultWebPort {
		t.Errorf("Web.Port = %d, want %d", s.Web.Port, DefaultWebPort)
	}
	if s.Emulator.Platform != "amiga" || s.Emulator.LoopCycles != 300 {
		t.Errorf("Emulator = %+v", s.Emulator)
	}
	home, _ := os.UserHomeDir()
	if home != "" && s.ConfigFile != filepath.Join(home, "pistorm64", "default.cfg") {
		t.Errorf("ConfigFile = %q, want expanded default", s.ConfigFile)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeSettings(t, `
image_dir   = "/srv/adf"
config_file = "/srv/pistorm/default.cfg"
xdftool     = "python3 -m amitools.tools.xdftool"
lock_timeout = "250ms"

[control]
host    = "10.0.0.5"
port    = 24000
timeout = "750ms"

[web]
port = 9000

[emulator]
a314_conf = "/etc/a314d.conf"
`)

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if s.ImageDir != "/srv/adf" {
		t.Errorf("ImageDir = %q", s.ImageDir)
	}
	if s.Control.Host != "10.0.0.5" || s.Control.Port != 24000 {
		t.Errorf("Control = %+v", s.Control)
	}
	if s.Control.Timeout.Duration != 750*time.Millisecond {
		t.Errorf("Timeout = %v", s.Control.Timeout)
	}
	if s.LockTimeout.Duration != 250*time.Millisecond {
		t.Errorf("LockTimeout = %v", s.LockTimeout)
	}
	if s.Web.Port != 9000 || s.Web.Host != DefaultWebHost {
		t.Errorf("Web = %+v", s.Web)
	}
	if s.Emulator.Platform != "amiga" {
		t.Errorf("unset Emulator.Platform should keep default, got %q", s.Emulator.Platform)
	}

	ep := s.Endpoint()
	if ep.Address() != "10.0.0.5:24000" || ep.Timeout != 750*time.Millisecond {
		t.Errorf("Endpoint() = %+v", ep)
	}
	if fb := s.Fallbacks(); fb.A314Conf != "/etc/a314d.conf" {
		t.Errorf("Fallbacks() = %+v", fb)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeSettings(t, `
[control]
host = "10.0.0.5"
port = 24000
`)
	t.Setenv("ADFCTL_HOST", "192.168.1.20")
	t.Setenv("ADFCTL_PORT", "25000")
	t.Setenv("ADFCTL_IMAGE_DIR", "/mnt/usb/adf")
	t.Setenv("ADFCTL_CONFIG_FILE", "/tmp/test.cfg")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if s.Control.Host != "192.168.1.20" || s.Control.Port != 25000 {
		t.Errorf("Control = %+v", s.Control)
	}
	if s.ImageDir != "/mnt/usb/adf" || s.ConfigFile != "/tmp/test.cfg" {
		t.Errorf("ImageDir = %q, ConfigFile = %q", s.ImageDir, s.ConfigFile)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{name: "bad toml", content: "image_dir = "},
		{name: "bad duration", content: "[control]\ntimeout = \"soon\""},
		{name: "port out of range", content: "[control]\nport = 70000"},
		{name: "zero timeout", content: "[control]\ntimeout = \"0s\""},
		{name: "bad env port", content: "", env: map[string]string{"ADFCTL_PORT": "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeSettings(t, tt.content))
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if code := errors.GetExitCode(err); code != errors.ExitConfigError {
				t.Errorf("exit code = %d, want %d", code, errors.ExitConfigError)
			}
		})
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("ADFCTL_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := DefaultPath(); got != filepath.Join("/xdg", "adfctl", "config.toml") {
		t.Errorf("DefaultPath() = %q", got)
	}

	t.Setenv("ADFCTL_CONFIG", "/etc/adfctl.toml")
	if got := DefaultPath(); got != "/etc/adfctl.toml" {
		t.Errorf("DefaultPath() = %q, want ADFCTL_CONFIG", got)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in, want string
	}{
		{"~", home},
		{"~/Amiga/adf", filepath.Join(home, "Amiga", "adf")},
		{"/abs/path", "/abs/path"},
		{"rel/~/path", "rel/~/path"},
	}
	for _, tt := range tests {
		if got := ExpandHome(tt.in); got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWebAddress(t *testing.T) {
	s := Default()
	if got := s.WebAddress(); got != "0.0.0.0:8088" {
		t.Errorf("WebAddress() = %q", got)
	}
}
