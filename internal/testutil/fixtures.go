package testutil

import (
	"embed"
	"os"
	"path/filepath"
	"testing"
)

//go:embed fixtures/*
var fixturesFS embed.FS

// LoadFixture loads a fixture file by name.
func LoadFixture(name string) ([]byte, error) {
	return fixturesFS.ReadFile("fixtures/" + name)
}

// DefaultConfig returns the sample emulator config.
func DefaultConfig() string {
	data, err := LoadFixture("default.cfg")
	if err != nil {
		panic(err)
	}
	return string(data)
}

// WriteFixture copies a fixture to dir and returns its path.
func WriteFixture(t *testing.T, name, dir string) string {
	t.Helper()

	data, err := LoadFixture(name)
	if err != nil {
		t.Fatalf("Failed to load fixture %s: %v", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write fixture %s: %v", name, err)
	}
	return path
}
