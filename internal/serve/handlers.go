package serve

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/firefly-engineering/adfctl/internal/app"
	"github.com/firefly-engineering/adfctl/internal/emucfg"
	"github.com/firefly-engineering/adfctl/internal/health"
	"github.com/firefly-engineering/adfctl/internal/images"
	"github.com/firefly-engineering/adfctl/internal/profile"
)

type listItem struct {
	images.Entry
	HSize string `json:"hsize"`
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	entries, err := s.app.Images()
	if err != nil {
		writeErr(w, err)
		return
	}
	items := make([]listItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, listItem{Entry: e, HSize: e.HumanSize()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.app.Status(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	result := health.Check(r.Context(), health.CheckOptions{
		Settings: s.app.Settings,
		Client:   s.app.Client,
		Executor: s.app.Executor,
		Audit:    s.app.Audit,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"status": result.Status(),
		"result": result,
	})
}

func (s *Server) handleConfigs(w http.ResponseWriter, _ *http.Request) {
	store := s.app.Profiles()
	items, err := store.List()
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":    items,
		"selected": filepath.Base(s.selectedConfig()),
		"active":   store.ActiveName(),
	})
}

// configView is the selected profile with the choices the config form
// offers.
type configView struct {
	Config     *emucfg.State `json:"config"`
	Kickstarts []string      `json:"kickstarts"`
	HDFs       []string      `json:"hdfs"`
	CfgFile    string        `json:"cfg_file"`
}

func (s *Server) viewConfig(path string) (*configView, error) {
	st, err := s.app.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	kicks, err := images.ListFiles(s.app.Settings.KickstartDir, images.KickstartExts...)
	if err != nil {
		return nil, err
	}
	hdfs, err := images.ListFiles(s.app.Settings.HDFDir, images.HDFExts...)
	if err != nil {
		return nil, err
	}
	return &configView{
		Config:     st,
		Kickstarts: kicks,
		HDFs:       hdfs,
		CfgFile:    filepath.Base(path),
	}, nil
}

func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	view, err := s.viewConfig(s.selectedConfig())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handlePatchConfig(w http.ResponseWriter, r *http.Request) {
	p, err := readParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The form describes the whole config; omitted settings are off.
	desired := &emucfg.State{}
	for name, value := range p.settings() {
		if !emucfg.IsSetting(name) {
			continue
		}
		if err := desired.Set(name, value); err != nil {
			writeErr(w, err)
			return
		}
	}

	path := s.selectedConfig()
	res, err := s.app.PatchConfig(r.Context(), path, desired)
	if err != nil {
		writeErr(w, err)
		return
	}

	changed := make([]string, len(res.Changed))
	for i, k := range res.Changed {
		changed[i] = k.String()
	}
	msg := "no changes"
	if res.Written {
		msg = "updated " + filepath.Base(path)
	}
	writeJSON(w, http.StatusOK, map[string]any{"response": msg, "changed": changed})
}

func (s *Server) handleSelectConfig(w http.ResponseWriter, r *http.Request) {
	p, err := readParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	path, err := s.app.Profiles().Lookup(p.get("name", ""))
	if err != nil {
		writeErr(w, err)
		return
	}

	view, err := s.viewConfig(path)
	if err != nil {
		writeErr(w, err)
		return
	}
	s.setSelectedConfig(path)
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	p, err := readParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	name := strings.TrimSpace(p.get("name", ""))
	base := strings.TrimSpace(p.get("base", ""))
	if base == "" {
		base = filepath.Base(s.selectedConfig())
	}
	if _, err := profile.SafeName(base); err != nil {
		writeError(w, http.StatusBadRequest, "invalid base config")
		return
	}

	path, err := s.app.CreateProfile(name, base)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"response": "created " + filepath.Base(path)})
}

func (s *Server) handleActivateConfig(w http.ResponseWriter, r *http.Request) {
	p, err := readParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	name := strings.TrimSpace(p.get("name", ""))
	if _, err := s.app.ActivateProfile(r.Context(), name); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"response": "activated " + name})
}

func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	p, err := readParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := app.InsertRequest{
		Image:    p.get("path", ""),
		Writable: truthy(p.get("rw", "0")),
	}
	if raw := strings.TrimSpace(p.get("unit", "auto")); raw != "auto" && raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid unit %q", raw))
			return
		}
		req.Unit = &n
	}

	res, err := s.app.Insert(r.Context(), req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleEject(w http.ResponseWriter, r *http.Request) {
	p, err := readParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	raw := p.get("unit", "0")
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid unit %q", raw))
		return
	}

	resp, err := s.app.Eject(r.Context(), n)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"response": resp, "unit": n})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	p, err := readParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	dest, err := s.app.CreateImage(r.Context(), strings.TrimSpace(p.get("name", "")), p.get("volume", images.DefaultVolume), false)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"response": "created " + dest})
}

func (s *Server) handleClone(w http.ResponseWriter, r *http.Request) {
	p, err := readParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	dest, err := s.app.CloneImage(strings.TrimSpace(p.get("src", "")), strings.TrimSpace(p.get("dest", "")), false)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"response": "cloned to " + dest})
}
