package profile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/firefly-engineering/adfctl/internal/emucfg"
	"github.com/firefly-engineering/adfctl/internal/errors"
	"github.com/firefly-engineering/adfctl/internal/images"
	"github.com/firefly-engineering/adfctl/internal/logging"
	"github.com/firefly-engineering/adfctl/internal/system"
)

// Ext is the profile file extension.
const Ext = ".cfg"

// SafeName validates a profile name and returns it.
func SafeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	base := filepath.Base(name)
	if name == "" || base != name || name == Ext || !strings.HasSuffix(name, Ext) || strings.ContainsRune(name, '\\') {
		return "", errors.ValidationError(fmt.Sprintf("invalid config name: %q", name))
	}
	return base, nil
}

// Store is a profile directory together with the active config file.
type Store struct {
	Dir     string
	Active  string
	Options emucfg.FileOptions
}

// NewStore creates a Store.
func NewStore(dir, active string, opts emucfg.FileOptions) *Store {
	return &Store{Dir: dir, Active: active, Options: opts}
}

// List returns the profile names in the directory.
func (s *Store) List() ([]string, error) {
	return images.ListFiles(s.Dir, images.ProfileExts...)
}

// Path returns the path of the named profile. It does not check that the
// profile exists.
func (s *Store) Path(name string) (string, error) {
	safe, err := SafeName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.Dir, safe), nil
}

// Lookup returns the path of an existing profile.
func (s *Store) Lookup(name string) (string, error) {
	p, err := s.Path(name)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return "", errors.FileNotFound(p)
		}
		return "", err
	}
	return p, nil
}

// ActiveName returns the file name of the active config.
func (s *Store) ActiveName() string {
	return filepath.Base(s.Active)
}

// Create creates a profile as a copy of base. A missing base produces an
// empty profile.
func (s *Store) Create(name, base string) (string, error) {
	dest, err := s.Path(name)
	if err != nil {
		return "", err
	}
	src, err := s.Path(base)
	if err != nil {
		return "", errors.ValidationError(fmt.Sprintf("invalid base config: %q", base))
	}

	if _, err := os.Lstat(dest); err == nil {
		return "", errors.PathConflict(dest)
	}

	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", s.Dir, err)
	}

	if _, err := os.Stat(src); err == nil {
		if err := system.CopyFile(src, dest); err != nil {
			return "", fmt.Errorf("failed to copy %s: %w", src, err)
		}
	} else if os.IsNotExist(err) {
		if err := os.WriteFile(dest, nil, 0644); err != nil {
			return "", err
		}
	} else {
		return "", err
	}

	logging.Debug("created profile", "path", dest, "base", src)
	return dest, nil
}

// Activate copies the named profile onto the active config file. It is a
// no-op when the profile is the active file.
func (s *Store) Activate(ctx context.Context, name string) (string, error) {
	src, err := s.Lookup(name)
	if err != nil {
		return "", err
	}

	if same, err := sameFile(src, s.Active); err != nil {
		return "", err
	} else if same {
		logging.Debug("profile already active", "path", src)
		return src, nil
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", src, err)
	}
	if err := emucfg.WriteFile(ctx, s.Active, data, s.Options); err != nil {
		return "", err
	}

	logging.Debug("activated profile", "profile", src, "active", s.Active)
	return src, nil
}

func sameFile(a, b string) (bool, error) {
	ai, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	bi, err := os.Stat(b)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return os.SameFile(ai, bi), nil
}
