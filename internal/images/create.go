package images

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/adfctl/internal/errors"
	"github.com/firefly-engineering/adfctl/internal/logging"
	"github.com/firefly-engineering/adfctl/internal/system"
)

// DefaultVolume is the volume name of blank images.
const DefaultVolume = "BLANK"

// Creator creates blank ADF images with xdftool.
type Creator struct {
	Exec system.CommandExecutor
	// Tool is the xdftool command line, shell-quoted.
	Tool string
}

// NewCreator returns a Creator running tool through exec.
// A nil exec uses the OS executor.
func NewCreator(exec system.CommandExecutor, tool string) *Creator {
	if exec == nil {
		exec = system.DefaultExecutor()
	}
	return &Creator{Exec: exec, Tool: tool}
}

// argv splits the tool command line and resolves its program.
func (c *Creator) argv() ([]string, error) {
	args, err := shellquote.Split(c.Tool)
	if err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("invalid xdftool command %q", c.Tool), err)
	}
	if len(args) == 0 {
		return nil, errors.ToolUnavailable("xdftool")
	}

	resolved, err := c.Exec.LookPath(args[0])
	if err != nil {
		return nil, errors.ToolUnavailable(args[0])
	}
	args[0] = resolved
	return args, nil
}

// Path returns the resolved xdftool program.
func (c *Creator) Path() (string, error) {
	args, err := c.argv()
	if err != nil {
		return "", err
	}
	return args[0], nil
}

// CreateBlank creates and formats a blank ADF at dest. An existing dest is
// replaced only when force is set. An empty volume uses DefaultVolume.
func (c *Creator) CreateBlank(ctx context.Context, dest, volume string, force bool) error {
	if volume = strings.TrimSpace(volume); volume == "" {
		volume = DefaultVolume
	}

	exists, err := pathExists(dest)
	if err != nil {
		return err
	}
	if exists && !force {
		return errors.PathConflict(dest)
	}

	argv, err := c.argv()
	if err != nil {
		return err
	}

	if exists {
		if err := os.Remove(dest); err != nil {
			return fmt.Errorf("failed to remove %s: %w", dest, err)
		}
	}

	steps := [][]string{
		{dest, "create"},
		{dest, "format", volume},
	}
	for _, step := range steps {
		args := append(append([]string{}, argv[1:]...), step...)
		logging.Debug("running xdftool", "tool", argv[0], "args", args)

		out, err := c.Exec.Execute(ctx, argv[0], args...)
		if err != nil {
			msg := strings.TrimSpace(string(out))
			if msg == "" {
				msg = fmt.Sprintf("xdftool %s failed", step[1])
			}
			return errors.Wrap(errors.ExitGeneralError, msg, err)
		}
	}
	return nil
}

// Clone copies src to dest, keeping its mode and modification time. An
// existing dest is replaced only when force is set.
func Clone(src, dest string, force bool) error {
	ok, err := pathExists(src)
	if err != nil {
		return err
	}
	if !ok {
		return errors.FileNotFound(src)
	}

	exists, err := pathExists(dest)
	if err != nil {
		return err
	}
	if exists {
		if !force {
			return errors.PathConflict(dest)
		}
		if err := os.Remove(dest); err != nil {
			return fmt.Errorf("failed to remove %s: %w", dest, err)
		}
	}

	if err := system.CopyFile(src, dest); err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	logging.Debug("cloned image", "src", src, "dest", dest)
	return nil
}

func pathExists(p string) (bool, error) {
	_, err := os.Lstat(p)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
