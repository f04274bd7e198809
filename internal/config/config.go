package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/firefly-engineering/adfctl/internal/diskctl"
	"github.com/firefly-engineering/adfctl/internal/emucfg"
	"github.com/firefly-engineering/adfctl/internal/errors"
)

const (
	DefaultControlHost = "127.0.0.1"
	DefaultWebHost     = "0.0.0.0"
	DefaultWebPort     = 8088
	DefaultXdftool     = "xdftool"
)

// Duration is a time.Duration that unmarshals from TOML strings like "2s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Settings is the adfctl settings file.
type Settings struct {
	ImageDir     string   `toml:"image_dir"`
	KickstartDir string   `toml:"kickstart_dir"`
	HDFDir       string   `toml:"hdf_dir"`
	ConfigFile   string   `toml:"config_file"` // active emulator config
	ConfigDir    string   `toml:"config_dir"`  // emulator config profiles
	StateDir     string   `toml:"state_dir"`
	Xdftool      string   `toml:"xdftool"`
	LockTimeout  Duration `toml:"lock_timeout"`

	Control  Control  `toml:"control"`
	Web      Web      `toml:"web"`
	Emulator Emulator `toml:"emulator"`
}

// Control addresses the disk control service.
type Control struct {
	Host    string   `toml:"host"`
	Port    int      `toml:"port"`
	Timeout Duration `toml:"timeout"`
}

// Web is the listen address of "adfctl serve".
type Web struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Emulator holds fallbacks for required emulator directives.
type Emulator struct {
	Platform   string `toml:"platform"`
	LoopCycles int    `toml:"loopcycles"`
	A314Conf   string `toml:"a314_conf"`
}

// Default returns the built-in settings.
func Default() *Settings {
	return &Settings{
		ImageDir:     "~/Amiga/adf",
		KickstartDir: "~/Amiga/kick",
		HDFDir:       "~/Amiga/hdf",
		ConfigFile:   "~/pistorm64/default.cfg",
		ConfigDir:    "~/pistorm64",
		StateDir:     defaultStateDir(),
		Xdftool:      DefaultXdftool,
		LockTimeout:  Duration{emucfg.DefaultLockTimeout},
		Control: Control{
			Host:    DefaultControlHost,
			Port:    diskctl.DefaultPort,
			Timeout: Duration{diskctl.DefaultTimeout},
		},
		Web: Web{
			Host: DefaultWebHost,
			Port: DefaultWebPort,
		},
		Emulator: Emulator{
			Platform:   emucfg.DefaultPlatform,
			LoopCycles: emucfg.DefaultLoopCycles,
			A314Conf:   "~/pistorm64/src/a314/files_pi/a314d.conf",
		},
	}
}

func defaultStateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "adfctl")
	}
	return "~/.local/state/adfctl"
}

// DefaultPath returns the default settings file path.
func DefaultPath() string {
	if env := os.Getenv("ADFCTL_CONFIG"); env != "" {
		return ExpandHome(env)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "adfctl", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = os.TempDir()
	}
	return filepath.Join(home, ".config", "adfctl", "config.toml")
}

// Load reads the settings file at path over the defaults and applies
// environment overrides. A missing file is not an error. Paths in the
// result have "~" expanded.
func Load(path string) (*Settings, error) {
	if path == "" {
		path = DefaultPath()
	}

	s := Default()

	if data, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(data, s); err != nil {
			return nil, errors.ConfigError(fmt.Sprintf("failed to parse %s", path), err)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.ConfigError(fmt.Sprintf("failed to read %s", path), err)
	}

	if err := s.applyEnv(); err != nil {
		return nil, err
	}

	s.expandPaths()

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) applyEnv() error {
	if host := os.Getenv("ADFCTL_HOST"); host != "" {
		s.Control.Host = host
	}
	if port := os.Getenv("ADFCTL_PORT"); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil {
			return errors.ConfigError("invalid ADFCTL_PORT", err)
		}
		s.Control.Port = n
	}
	if dir := os.Getenv("ADFCTL_IMAGE_DIR"); dir != "" {
		s.ImageDir = dir
	}
	if file := os.Getenv("ADFCTL_CONFIG_FILE"); file != "" {
		s.ConfigFile = file
	}
	return nil
}

func (s *Settings) expandPaths() {
	for _, p := range []*string{
		&s.ImageDir,
		&s.KickstartDir,
		&s.HDFDir,
		&s.ConfigFile,
		&s.ConfigDir,
		&s.StateDir,
		&s.Emulator.A314Conf,
	} {
		*p = ExpandHome(*p)
	}
}

// Validate checks that the settings are usable.
func (s *Settings) Validate() error {
	if s.Control.Port < 1 || s.Control.Port > 65535 {
		return errors.ConfigError(fmt.Sprintf("control port out of range: %d", s.Control.Port), nil)
	}
	if s.Web.Port < 1 || s.Web.Port > 65535 {
		return errors.ConfigError(fmt.Sprintf("web port out of range: %d", s.Web.Port), nil)
	}
	if s.Control.Timeout.Duration <= 0 {
		return errors.ConfigError("control timeout must be positive", nil)
	}
	if s.ConfigFile == "" {
		return errors.ConfigError("config_file is required", nil)
	}
	if strings.TrimSpace(s.Xdftool) == "" {
		return errors.ConfigError("xdftool is required", nil)
	}
	return nil
}

// Endpoint returns the control service endpoint.
func (s *Settings) Endpoint() diskctl.Endpoint {
	return diskctl.Endpoint{
		Host:    s.Control.Host,
		Port:    s.Control.Port,
		Timeout: s.Control.Timeout.Duration,
	}
}

// Fallbacks returns the emulator config fallbacks.
func (s *Settings) Fallbacks() emucfg.Fallbacks {
	return emucfg.Fallbacks{
		Platform:   s.Emulator.Platform,
		LoopCycles: s.Emulator.LoopCycles,
		A314Conf:   s.Emulator.A314Conf,
	}
}

// FileOptions returns the options for patching the emulator config.
func (s *Settings) FileOptions() emucfg.FileOptions {
	return emucfg.FileOptions{
		Fallbacks:   s.Fallbacks(),
		LockTimeout: s.LockTimeout.Duration,
	}
}

// WebAddress returns the host:port "serve" listens on.
func (s *Settings) WebAddress() string {
	return net.JoinHostPort(s.Web.Host, strconv.Itoa(s.Web.Port))
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
