package unit

import (
	"github.com/firefly-engineering/adfctl/internal/diskctl"
)

// Unit range of the floppy drives.
const (
	Min = 0
	Max = diskctl.Units - 1
)

// Valid reports whether n is a drive unit number.
func Valid(n int) bool {
	return n >= Min && n <= Max
}

// Pick chooses the drive unit for an insert.
//
// Without status the preferred unit (or unit 0) is returned unchecked.
// With status, a free preferred unit wins; otherwise the lowest free unit
// is returned. ok is false when all units are occupied.
//
// A preferred unit outside Min..Max is treated as no preference, even
// without status. Callers reject such units with Valid before picking.
func Pick(preferred *int, status *diskctl.Status) (n int, ok bool) {
	if preferred != nil && !Valid(*preferred) {
		preferred = nil
	}

	if status == nil {
		if preferred != nil {
			return *preferred, true
		}
		return Min, true
	}

	occupied := status.Occupied()

	if preferred != nil && !occupied[*preferred] {
		return *preferred, true
	}

	for u := Min; u <= Max; u++ {
		if !occupied[u] {
			return u, true
		}
	}

	return 0, false
}
