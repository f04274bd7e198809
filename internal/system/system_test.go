package system

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

func TestMockExecutor_Responses(t *testing.T) {
	m := NewMockExecutor()
	m.AddResponse("xdftool a.adf", []byte("created"), nil)
	m.AddResponse("xdftool", []byte("generic"), nil)
	m.DefaultResponse = MockResponse{Err: errors.New("unexpected")}

	ctx := context.Background()

	if out, err := m.Execute(ctx, "xdftool", "a.adf", "create"); err != nil || string(out) != "created" {
		t.Errorf("Execute(a.adf) = %q, %v", out, err)
	}
	if out, err := m.Execute(ctx, "xdftool", "b.adf", "create"); err != nil || string(out) != "generic" {
		t.Errorf("Execute(b.adf) = %q, %v", out, err)
	}
	if _, err := m.Execute(ctx, "other"); err == nil {
		t.Error("Execute(other) should use the default response")
	}

	if len(m.Commands) != 3 {
		t.Fatalf("recorded %d commands, want 3", len(m.Commands))
	}
	last, ok := m.LastCommand()
	if !ok || last.String() != "other" {
		t.Errorf("LastCommand() = %v, %v", last, ok)
	}

	m.Reset()
	if _, ok := m.LastCommand(); ok {
		t.Error("LastCommand() after Reset should be empty")
	}
}

func TestMockExecutor_LookPath(t *testing.T) {
	m := NewMockExecutor()
	m.Missing["xdftool"] = true

	if _, err := m.LookPath("xdftool"); !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("LookPath(xdftool) error = %v, want ErrNotFound", err)
	}
	if p, err := m.LookPath("python3"); err != nil || p == "" {
		t.Errorf("LookPath(python3) = %q, %v", p, err)
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.adf")
	dst := filepath.Join(dir, "dst.adf")

	if err := os.WriteFile(src, []byte("disk"), 0600); err != nil {
		t.Fatal(err)
	}
	mtime := time.Date(1992, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(src, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile() error: %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil || string(data) != "disk" {
		t.Fatalf("dst = %q, %v", data, err)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
	if !info.ModTime().Equal(mtime) {
		t.Errorf("mtime = %v, want %v", info.ModTime(), mtime)
	}
}

func TestCopyFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyFile(filepath.Join(dir, "nope"), filepath.Join(dir, "dst"))
	if !os.IsNotExist(err) {
		t.Errorf("CopyFile() error = %v, want not-exist", err)
	}
}
