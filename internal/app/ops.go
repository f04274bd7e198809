package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/firefly-engineering/adfctl/internal/audit"
	"github.com/firefly-engineering/adfctl/internal/diskctl"
	"github.com/firefly-engineering/adfctl/internal/emucfg"
	"github.com/firefly-engineering/adfctl/internal/errors"
	"github.com/firefly-engineering/adfctl/internal/images"
	"github.com/firefly-engineering/adfctl/internal/logging"
	"github.com/firefly-engineering/adfctl/internal/unit"
)

// Images lists the image directory.
func (a *App) Images() ([]images.Entry, error) {
	return images.List(a.Settings.ImageDir)
}

// ResolveImage returns the path of an existing image. Relative names are
// looked up in the image directory.
func (a *App) ResolveImage(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", errors.ValidationError("image path required")
	}
	p, err := images.Resolve(a.Settings.ImageDir, name)
	if err != nil {
		return "", errors.Wrap(errors.ExitValidation, fmt.Sprintf("invalid image path %q", name), err)
	}
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return "", errors.FileNotFound(p)
		}
		return "", err
	}
	return p, nil
}

// Status returns the live unit status.
func (a *App) Status(ctx context.Context) (*diskctl.Status, error) {
	st, ok := a.Client.Status(ctx)
	if !ok {
		return nil, errors.ConnectionFailure("status unavailable")
	}
	return st, nil
}

// InsertRequest describes an insert. A nil Unit picks the lowest free unit.
type InsertRequest struct {
	Unit     *int
	Image    string
	Writable bool
}

// InsertResult is the outcome of an insert.
type InsertResult struct {
	Unit     int    `json:"unit"`
	Path     string `json:"path"`
	Response string `json:"response"`
	// Moved is true when the requested unit was occupied.
	Moved bool `json:"moved,omitempty"`
}

// Insert mounts an image. The requested unit is used when it is free,
// otherwise the lowest free unit is.
func (a *App) Insert(ctx context.Context, req InsertRequest) (*InsertResult, error) {
	if req.Unit != nil && !unit.Valid(*req.Unit) {
		return nil, errors.ValidationError(fmt.Sprintf("invalid unit %d", *req.Unit))
	}
	if strings.ContainsAny(req.Image, "\r\n") {
		return nil, errors.ValidationError("image path contains a line break")
	}

	p, err := a.ResolveImage(req.Image)
	if err != nil {
		return nil, err
	}

	st, ok := a.Client.Status(ctx)
	if !ok {
		logging.Debug("status unavailable, trusting requested unit", "address", a.Client.Endpoint.Address())
	}

	n, ok := unit.Pick(req.Unit, st)
	if !ok {
		a.record(audit.EventError, p, "no free unit")
		return nil, errors.NoFreeUnit()
	}

	res := &InsertResult{
		Unit:  n,
		Path:  p,
		Moved: req.Unit != nil && *req.Unit != n,
	}
	res.Response = a.Client.Insert(ctx, n, p, req.Writable)
	if diskctl.IsError(res.Response) {
		a.record(audit.EventError, unitTarget(n), res.Response)
		return res, errors.ConnectionFailure(res.Response)
	}

	details := p
	if req.Writable {
		details += " (rw)"
	}
	a.record(audit.EventInsert, unitTarget(n), details)
	return res, nil
}

// Eject empties a unit and returns the service reply.
func (a *App) Eject(ctx context.Context, n int) (string, error) {
	if !unit.Valid(n) {
		return "", errors.ValidationError(fmt.Sprintf("invalid unit %d", n))
	}
	resp := a.Client.Eject(ctx, n)
	if diskctl.IsError(resp) {
		a.record(audit.EventError, unitTarget(n), resp)
		return resp, errors.ConnectionFailure(resp)
	}
	a.record(audit.EventEject, unitTarget(n), "")
	return resp, nil
}

// CreateImage creates a blank ADF named name in the image directory.
func (a *App) CreateImage(ctx context.Context, name, volume string, force bool) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", errors.ValidationError("name required")
	}
	dest, err := images.Resolve(a.Settings.ImageDir, name)
	if err != nil {
		return "", errors.Wrap(errors.ExitValidation, fmt.Sprintf("invalid image name %q", name), err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", filepath.Dir(dest), err)
	}

	if err := a.Creator().CreateBlank(ctx, dest, volume, force); err != nil {
		return "", err
	}
	a.record(audit.EventCreate, dest, "volume="+strings.TrimSpace(volume))
	return dest, nil
}

// CloneImage copies src to dest within the image directory. src may be
// absolute.
func (a *App) CloneImage(src, dest string, force bool) (string, error) {
	if strings.TrimSpace(src) == "" || strings.TrimSpace(dest) == "" {
		return "", errors.ValidationError("src and dest required")
	}
	from, err := images.Resolve(a.Settings.ImageDir, src)
	if err != nil {
		return "", errors.Wrap(errors.ExitValidation, fmt.Sprintf("invalid source %q", src), err)
	}
	to, err := images.Resolve(a.Settings.ImageDir, dest)
	if err != nil {
		return "", errors.Wrap(errors.ExitValidation, fmt.Sprintf("invalid destination %q", dest), err)
	}

	if err := images.Clone(from, to, force); err != nil {
		return "", err
	}
	a.record(audit.EventClone, to, "from "+from)
	return to, nil
}

// LoadConfig parses the emulator config at path. An empty path is the
// active config.
func (a *App) LoadConfig(path string) (*emucfg.State, error) {
	if path == "" {
		path = a.Settings.ConfigFile
	}
	return emucfg.LoadFile(path, a.Settings.Fallbacks())
}

// PatchConfig applies desired to the emulator config at path. Relative
// kickstart and PiSCSI names are resolved against their directories.
func (a *App) PatchConfig(ctx context.Context, path string, desired *emucfg.State) (*emucfg.Result, error) {
	if path == "" {
		path = a.Settings.ConfigFile
	}

	st, err := a.resolveConfigPaths(desired)
	if err != nil {
		return nil, err
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}

	res, err := emucfg.PatchFile(ctx, path, st, a.Settings.FileOptions())
	if err != nil {
		a.record(audit.EventError, path, err.Error())
		return nil, err
	}
	if res.Written {
		names := make([]string, len(res.Changed))
		for i, k := range res.Changed {
			names[i] = k.String()
		}
		a.record(audit.EventPatch, path, strings.Join(names, ","))
	}
	return res, nil
}

func (a *App) resolveConfigPaths(desired *emucfg.State) (*emucfg.State, error) {
	st := desired.Clone()

	if st.Kickstart != "" && !filepath.IsAbs(st.Kickstart) {
		p, err := images.Resolve(a.Settings.KickstartDir, st.Kickstart)
		if err != nil {
			return nil, errors.Wrap(errors.ExitValidation, "invalid kickstart", err)
		}
		st.Kickstart = p
	}
	for i, v := range st.PiSCSI {
		if v == "" || filepath.IsAbs(v) {
			continue
		}
		p, err := images.Resolve(a.Settings.HDFDir, v)
		if err != nil {
			return nil, errors.Wrap(errors.ExitValidation, fmt.Sprintf("invalid piscsi%d image", i), err)
		}
		st.PiSCSI[i] = p
	}
	return st, nil
}

// CreateProfile creates a profile from base.
func (a *App) CreateProfile(name, base string) (string, error) {
	p, err := a.Profiles().Create(name, base)
	if err != nil {
		return "", err
	}
	a.record(audit.EventCreate, p, "base="+base)
	return p, nil
}

// ActivateProfile copies a profile onto the active config.
func (a *App) ActivateProfile(ctx context.Context, name string) (string, error) {
	p, err := a.Profiles().Activate(ctx, name)
	if err != nil {
		return "", err
	}
	a.record(audit.EventActivate, name, a.Settings.ConfigFile)
	return p, nil
}

// record journals an event. Journal failures are logged and otherwise
// ignored.
func (a *App) record(t audit.EventType, target, details string) {
	if a.Audit == nil {
		return
	}
	if err := a.Audit.LogEvent(t, target, details); err != nil {
		logging.Warn("failed to record event", "type", t, "error", err)
	}
}

func unitTarget(n int) string {
	return "DF" + strconv.Itoa(n)
}
