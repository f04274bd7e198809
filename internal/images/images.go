package images

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/dustin/go-humanize"
)

// RootGroup is the group of images stored directly in the image directory.
const RootGroup = "root"

// Extensions recognised as disk images by List.
var imageExts = []string{".adf", ".hdf"}

// Common extension sets for ListFiles.
var (
	KickstartExts = []string{".rom", ".bin"}
	HDFExts       = []string{".hdf"}
	ProfileExts   = []string{".cfg"}
)

// Entry is a disk image found by List.
type Entry struct {
	Name    string `json:"name"`
	RelPath string `json:"relpath"`
	Group   string `json:"group"`
	Path    string `json:"path"`
	Size    int64  `json:"size"`
}

// HumanSize returns the entry size in IEC units.
func (e Entry) HumanSize() string {
	return HumanSize(e.Size)
}

// List returns the disk images below dir ordered by relative path.
// A missing dir yields an empty list.
func List(dir string) ([]Entry, error) {
	var out []Entry

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return out, nil
	}

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Files removed while walking are skipped
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !d.Type().IsRegular() || !hasExt(d.Name(), imageExts) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		out = append(out, Entry{
			Name:    d.Name(),
			RelPath: rel,
			Group:   groupOf(rel),
			Path:    p,
			Size:    info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool { return out[i].RelPath < out[j].RelPath })
	return out, nil
}

func groupOf(rel string) string {
	if first, _, ok := strings.Cut(rel, "/"); ok {
		return first
	}
	return RootGroup
}

// Groups returns the distinct groups of entries in order of first appearance.
func Groups(entries []Entry) []string {
	var groups []string
	seen := make(map[string]bool)
	for _, e := range entries {
		if !seen[e.Group] {
			seen[e.Group] = true
			groups = append(groups, e.Group)
		}
	}
	return groups
}

// ListFiles returns the sorted names of regular files directly in dir whose
// extension matches one of exts, compared case-insensitively.
func ListFiles(dir string, exts ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && hasExt(e.Name(), exts) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func hasExt(name string, exts []string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// Resolve returns the path of name within dir. Absolute names are returned
// unchanged. Relative names are confined to dir.
func Resolve(dir, name string) (string, error) {
	if filepath.IsAbs(name) {
		return filepath.Clean(name), nil
	}
	return securejoin.SecureJoin(dir, name)
}

// HumanSize formats a byte count in IEC units, e.g. "880 KiB".
func HumanSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}
