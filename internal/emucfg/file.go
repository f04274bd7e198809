package emucfg

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/firefly-engineering/adfctl/internal/directive"
	"github.com/firefly-engineering/adfctl/internal/errors"
	"github.com/firefly-engineering/adfctl/internal/logging"
)

// DefaultLockTimeout bounds the wait for another writer of the same file.
const DefaultLockTimeout = 5 * time.Second

// FileOptions control how a config file is patched.
type FileOptions struct {
	Fallbacks   Fallbacks
	LockTimeout time.Duration
}

// Result describes a completed file patch.
type Result struct {
	Path    string
	Changed []directive.Key
	// Written is false when the patched text equals the original.
	Written bool
}

// LoadFile parses the config file at path. A missing file parses as an
// empty one.
func LoadFile(path string, fb Fallbacks) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Parse("", fb), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(string(data), fb), nil
}

// PatchFile applies desired to the config file at path. The read, patch and
// write run under an exclusive lock on path+".lock", and the new contents
// replace the file atomically.
func PatchFile(ctx context.Context, path string, desired *State, opts FileOptions) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileNotFound(path)
		}
		return nil, fmt.Errorf("failed to stat config: %w", err)
	}

	lock, err := lockFile(ctx, path, opts.LockTimeout)
	if err != nil {
		return nil, err
	}
	defer func() { _ = lock.Unlock() }()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	before := Parse(string(data), opts.Fallbacks)

	text := Patch(string(data), desired, opts.Fallbacks)
	res := &Result{
		Path:    path,
		Changed: Changed(before, Parse(text, opts.Fallbacks)),
	}
	if text == string(data) {
		logging.Debug("config unchanged", "path", path)
		return res, nil
	}

	if err := atomicWriteFile(path, []byte(text), info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("failed to write config: %w", err)
	}
	res.Written = true

	logging.Debug("patched config", "path", path, "changed", keyNames(res.Changed))
	return res, nil
}

// WriteFile replaces the config file at path with data under the same lock
// PatchFile takes. The file mode is kept when the file exists.
func WriteFile(ctx context.Context, path string, data []byte, opts FileOptions) error {
	perm := fs.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}

	lock, err := lockFile(ctx, path, opts.LockTimeout)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Unlock() }()

	if err := atomicWriteFile(path, data, perm); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	logging.Debug("replaced config", "path", path, "bytes", len(data))
	return nil
}

func lockFile(ctx context.Context, path string, timeout time.Duration) (*flock.Flock, error) {
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	lockPath := path + ".lock"

	lock := flock.New(lockPath)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	locked, err := lock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("acquiring lock %s: %w", lockPath, err)
	}
	if !locked {
		return nil, fmt.Errorf("timeout waiting for config lock %s", lockPath)
	}
	logging.Debug("acquired config lock", "path", lockPath)
	return lock, nil
}

// atomicWriteFile writes data to a temporary file next to path and renames
// it into place.
func atomicWriteFile(path string, data []byte, perm fs.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

func keyNames(keys []directive.Key) []string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return names
}
