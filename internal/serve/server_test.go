package serve_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/firefly-engineering/adfctl/internal/audit"
	"github.com/firefly-engineering/adfctl/internal/serve"
	"github.com/firefly-engineering/adfctl/internal/testutil"
)

func newTestServer(t *testing.T, present ...int) (*testutil.TestEnv, *httptest.Server) {
	t.Helper()
	env := testutil.NewTestEnv(t, present...)
	ts := httptest.NewServer(serve.New(env.App).Handler())
	t.Cleanup(ts.Close)
	return env, ts
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return body
}

func get(t *testing.T, ts *httptest.Server, path string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp.StatusCode, decode(t, resp)
}

func postJSON(t *testing.T, ts *httptest.Server, path string, body any) (int, map[string]any) {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp.StatusCode, decode(t, resp)
}

func postForm(t *testing.T, ts *httptest.Server, path string, form url.Values) (int, map[string]any) {
	t.Helper()
	resp, err := http.PostForm(ts.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp.StatusCode, decode(t, resp)
}

func TestList(t *testing.T) {
	env, ts := newTestServer(t)
	env.AddImage("Workbench.adf", 901120)
	env.AddImage("games/Lemmings.adf", 901120)

	status, body := get(t, ts, "/api/list")
	if status != http.StatusOK {
		t.Fatalf("status = %d, body %v", status, body)
	}
	items, ok := body["items"].([]any)
	if !ok || len(items) != 2 {
		t.Fatalf("items = %v", body["items"])
	}
	first := items[0].(map[string]any)
	if first["relpath"] != "Workbench.adf" || first["group"] != "root" || first["hsize"] != "880 KiB" {
		t.Errorf("first item = %v", first)
	}
}

func TestStatus(t *testing.T) {
	env, ts := newTestServer(t, 1)

	status, body := get(t, ts, "/api/status")
	if status != http.StatusOK {
		t.Fatalf("status = %d, body %v", status, body)
	}
	if units, ok := body["units"].([]any); !ok || len(units) != 4 {
		t.Errorf("units = %v", body["units"])
	}

	env.Server.Close()
	status, body = get(t, ts, "/api/status")
	if status != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", status)
	}
	if body["error"] == "" {
		t.Error("missing error message")
	}
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name       string
		present    []int
		form       url.Values
		wantStatus int
		wantUnit   float64
	}{
		{
			name:       "auto",
			present:    []int{0},
			form:       url.Values{"path": {"disk.adf"}},
			wantStatus: http.StatusOK,
			wantUnit:   1,
		},
		{
			name:       "explicit unit",
			form:       url.Values{"path": {"disk.adf"}, "unit": {"3"}, "rw": {"1"}},
			wantStatus: http.StatusOK,
			wantUnit:   3,
		},
		{
			name:       "occupied unit moves",
			present:    []int{2},
			form:       url.Values{"path": {"disk.adf"}, "unit": {"2"}},
			wantStatus: http.StatusOK,
			wantUnit:   0,
		},
		{
			name:       "bad unit",
			form:       url.Values{"path": {"disk.adf"}, "unit": {"x"}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unit out of range",
			form:       url.Values{"path": {"disk.adf"}, "unit": {"7"}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing image",
			form:       url.Values{"path": {"nope.adf"}},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "no free unit",
			present:    []int{0, 1, 2, 3},
			form:       url.Values{"path": {"disk.adf"}},
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, ts := newTestServer(t, tt.present...)
			env.AddImage("disk.adf", 10)

			status, body := postForm(t, ts, "/api/insert", tt.form)
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %v)", status, tt.wantStatus, body)
			}
			if status != http.StatusOK {
				return
			}
			if body["unit"] != tt.wantUnit || body["response"] != "OK" {
				t.Errorf("body = %v", body)
			}
		})
	}
}

func TestInsert_RecordsWebSource(t *testing.T) {
	env, ts := newTestServer(t)
	env.AddImage("disk.adf", 10)

	if status, body := postJSON(t, ts, "/api/insert", map[string]any{"path": "disk.adf", "rw": true}); status != http.StatusOK {
		t.Fatalf("status = %d, body %v", status, body)
	}
	if !env.Units.Get(0).Writable {
		t.Error("unit 0 should be writable")
	}

	events := env.Events()
	if len(events) != 1 || events[0].Type != audit.EventInsert || events[0].Source != "web" {
		t.Errorf("events = %+v", events)
	}
}

func TestEject(t *testing.T) {
	env, ts := newTestServer(t, 0, 2)

	status, body := postForm(t, ts, "/api/eject", url.Values{"unit": {"2"}})
	if status != http.StatusOK || body["response"] != "OK" {
		t.Fatalf("status = %d, body %v", status, body)
	}
	if env.Units.Get(2).Present {
		t.Error("unit 2 should be empty")
	}

	// unit defaults to 0
	if status, _ := postForm(t, ts, "/api/eject", url.Values{}); status != http.StatusOK {
		t.Errorf("status = %d", status)
	}
	if env.Units.Get(0).Present {
		t.Error("unit 0 should be empty")
	}
}

func TestCreateAndClone(t *testing.T) {
	env, ts := newTestServer(t)

	status, body := postForm(t, ts, "/api/create", url.Values{"name": {"blank.adf"}, "volume": {"Data"}})
	if status != http.StatusOK {
		t.Fatalf("create status = %d, body %v", status, body)
	}
	if _, err := os.Stat(filepath.Join(env.Settings.ImageDir, "blank.adf")); err != nil {
		t.Errorf("image not created: %v", err)
	}

	status, _ = postForm(t, ts, "/api/create", url.Values{"name": {"blank.adf"}})
	if status != http.StatusConflict {
		t.Errorf("second create status = %d, want 409", status)
	}

	status, body = postForm(t, ts, "/api/clone", url.Values{"src": {"blank.adf"}, "dest": {"copy.adf"}})
	if status != http.StatusOK {
		t.Fatalf("clone status = %d, body %v", status, body)
	}
	if status, _ := postForm(t, ts, "/api/clone", url.Values{"src": {"missing.adf"}, "dest": {"x.adf"}}); status != http.StatusNotFound {
		t.Errorf("clone missing status = %d, want 404", status)
	}
}

func TestCreate_ToolMissing(t *testing.T) {
	env, ts := newTestServer(t)
	env.Executor.Missing = map[string]bool{"xdftool": true}

	status, _ := postForm(t, ts, "/api/create", url.Values{"name": {"blank.adf"}})
	if status != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", status)
	}
}

func TestConfig(t *testing.T) {
	env, ts := newTestServer(t)
	env.AddFile(env.Settings.KickstartDir, "kick31.rom", "")
	env.AddFile(env.Settings.HDFDir, "work.hdf", "")

	status, body := get(t, ts, "/api/config")
	if status != http.StatusOK {
		t.Fatalf("status = %d, body %v", status, body)
	}
	if body["cfg_file"] != "default.cfg" {
		t.Errorf("cfg_file = %v", body["cfg_file"])
	}
	cfg := body["config"].(map[string]any)
	if cfg["cpu"] != "68020" || cfg["loopcycles"] != float64(300) {
		t.Errorf("config = %v", cfg)
	}
	if kicks := body["kickstarts"].([]any); len(kicks) != 1 || kicks[0] != "kick31.rom" {
		t.Errorf("kickstarts = %v", kicks)
	}
	if hdfs := body["hdfs"].([]any); len(hdfs) != 1 || hdfs[0] != "work.hdf" {
		t.Errorf("hdfs = %v", hdfs)
	}
}

func TestPatchConfig(t *testing.T) {
	env, ts := newTestServer(t)

	status, body := postJSON(t, ts, "/api/config", map[string]any{
		"cpu":        "68030",
		"loopcycles": 300,
		"platform":   "amiga",
		"z2_mb":      8,
		"keyboard":   map[string]any{"enabled": true, "key": "k"},
		"ignored":    "x",
	})
	if status != http.StatusOK {
		t.Fatalf("status = %d, body %v", status, body)
	}
	if body["response"] != "updated default.cfg" {
		t.Errorf("response = %v", body["response"])
	}

	text := env.ReadConfig()
	for _, want := range []string{"\ncpu 68030\n", "\nmap type=ram address=0x200000 size=8M id=z2_autoconf_fast"} {
		if !strings.Contains(text, want) {
			t.Errorf("config missing %q:\n%s", want, text)
		}
	}

	events := env.Events()
	if len(events) != 1 || events[0].Type != audit.EventPatch {
		t.Errorf("events = %+v", events)
	}
}

func TestPatchConfig_InvalidValue(t *testing.T) {
	env, ts := newTestServer(t)
	before := env.ReadConfig()

	status, _ := postForm(t, ts, "/api/config", url.Values{"z2_mb": {"lots"}})
	if status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", status)
	}
	if env.ReadConfig() != before {
		t.Error("config should be unchanged")
	}
}

func TestPatchConfig_RejectsLineBreak(t *testing.T) {
	env, ts := newTestServer(t)
	before := env.ReadConfig()

	for _, form := range []url.Values{
		{"cpu": {"68020"}, "kbfile": {"a.map\nsetvar rtg"}},
		{"cpu": {"68020"}, "kickstart": {"/roms/Kick 3.1.rom"}},
	} {
		status, body := postForm(t, ts, "/api/config", form)
		if status != http.StatusBadRequest {
			t.Errorf("POST %v status = %d, want 400 (body %v)", form, status, body)
		}
	}
	if env.ReadConfig() != before {
		t.Error("config should be unchanged")
	}
}

func TestProfiles(t *testing.T) {
	env, ts := newTestServer(t)

	status, body := postForm(t, ts, "/api/config/create", url.Values{"name": {"fast.cfg"}})
	if status != http.StatusOK {
		t.Fatalf("create status = %d, body %v", status, body)
	}

	status, body = get(t, ts, "/api/configs")
	if status != http.StatusOK {
		t.Fatalf("configs status = %d", status)
	}
	items := body["items"].([]any)
	if len(items) != 2 || body["selected"] != "default.cfg" || body["active"] != "default.cfg" {
		t.Errorf("configs = %v", body)
	}

	status, body = postForm(t, ts, "/api/config/select", url.Values{"name": {"fast.cfg"}})
	if status != http.StatusOK || body["cfg_file"] != "fast.cfg" {
		t.Fatalf("select status = %d, body %v", status, body)
	}

	// Patching now targets the selected profile
	if status, body := postForm(t, ts, "/api/config", url.Values{"cpu": {"68040"}, "loopcycles": {"300"}}); status != http.StatusOK {
		t.Fatalf("patch status = %d, body %v", status, body)
	}
	data, err := os.ReadFile(filepath.Join(env.Settings.ConfigDir, "fast.cfg"))
	if err != nil || !strings.Contains(string(data), "\ncpu 68040\n") {
		t.Errorf("fast.cfg = %q, %v", data, err)
	}
	if strings.Contains(env.ReadConfig(), "\ncpu 68040\n") {
		t.Error("active config should be untouched")
	}

	status, _ = postForm(t, ts, "/api/config/activate", url.Values{"name": {"fast.cfg"}})
	if status != http.StatusOK {
		t.Fatalf("activate status = %d", status)
	}
	if !strings.Contains(env.ReadConfig(), "\ncpu 68040\n") {
		t.Error("active config should hold the activated profile")
	}
}

func TestProfiles_Errors(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		path       string
		form       url.Values
		wantStatus int
	}{
		{"/api/config/select", url.Values{"name": {"../etc/passwd"}}, http.StatusBadRequest},
		{"/api/config/select", url.Values{"name": {"missing.cfg"}}, http.StatusNotFound},
		{"/api/config/create", url.Values{"name": {"default.cfg"}}, http.StatusConflict},
		{"/api/config/create", url.Values{"name": {"new.cfg"}, "base": {"../x.cfg"}}, http.StatusBadRequest},
		{"/api/config/activate", url.Values{"name": {"missing.cfg"}}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path+" "+tt.form.Encode(), func(t *testing.T) {
			status, body := postForm(t, ts, tt.path, tt.form)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %v)", status, tt.wantStatus, body)
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	_, ts := newTestServer(t)

	status, body := get(t, ts, "/api/nope")
	if status != http.StatusNotFound || body["error"] != "not found" {
		t.Errorf("status = %d, body %v", status, body)
	}

	status, _ = get(t, ts, "/api/insert")
	if status != http.StatusMethodNotAllowed {
		t.Errorf("GET /api/insert status = %d, want 405", status)
	}
}

func TestHealth(t *testing.T) {
	env, ts := newTestServer(t, 0)
	env.AddImage("disk.adf", 10)

	status, body := get(t, ts, "/api/health")
	if status != http.StatusOK || body["status"] != "healthy" {
		t.Fatalf("status = %d, body %v", status, body)
	}
	result := body["result"].(map[string]any)
	if result["units_occupied"] != float64(1) || result["image_count"] != float64(1) {
		t.Errorf("result = %v", result)
	}
}
