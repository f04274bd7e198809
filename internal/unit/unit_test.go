package unit

import (
	"testing"

	"github.com/firefly-engineering/adfctl/internal/diskctl"
)

func statusWith(present ...int) *diskctl.Status {
	st := &diskctl.Status{}
	occupied := make(map[int]bool)
	for _, n := range present {
		occupied[n] = true
	}
	for n := 0; n < diskctl.Units; n++ {
		st.Units = append(st.Units, diskctl.UnitStatus{Unit: n, Present: occupied[n]})
	}
	return st
}

func intPtr(n int) *int { return &n }

func TestPick(t *testing.T) {
	tests := []struct {
		name      string
		preferred *int
		status    *diskctl.Status
		want      int
		wantOK    bool
	}{
		{"first free", nil, statusWith(0, 1), 2, true},
		{"all occupied", nil, statusWith(0, 1, 2, 3), 0, false},
		{"preferred free", intPtr(2), statusWith(0, 1, 3), 2, true},
		{"preferred over lowest free", intPtr(3), statusWith(), 3, true},
		{"preferred occupied", intPtr(0), statusWith(0, 2), 1, true},
		{"preferred occupied and all full", intPtr(1), statusWith(0, 1, 2, 3), 0, false},
		{"empty status", nil, statusWith(), 0, true},
		{"no status", nil, nil, 0, true},
		{"no status with preferred", intPtr(3), nil, 3, true},
		{"preferred out of range", intPtr(7), statusWith(0), 1, true},
		{"negative preferred without status", intPtr(-1), nil, 0, true},
		{"gap", nil, statusWith(0, 2, 3), 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Pick(tt.preferred, tt.status)
			if ok != tt.wantOK {
				t.Fatalf("Pick() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Pick() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPick_NeverReturnsOccupied(t *testing.T) {
	for mask := 0; mask < 16; mask++ {
		var present []int
		for n := 0; n < 4; n++ {
			if mask&(1<<n) != 0 {
				present = append(present, n)
			}
		}
		st := statusWith(present...)

		for pref := -1; pref < 4; pref++ {
			var p *int
			if pref >= 0 {
				p = intPtr(pref)
			}
			got, ok := Pick(p, st)
			if !ok {
				if mask != 15 {
					t.Errorf("mask %04b: Pick() failed with a free unit", mask)
				}
				continue
			}
			if st.Occupied()[got] {
				t.Errorf("mask %04b pref %d: Pick() = %d, which is occupied", mask, pref, got)
			}
		}
	}
}

func TestValid(t *testing.T) {
	for n, want := range map[int]bool{-1: false, 0: true, 3: true, 4: false} {
		if got := Valid(n); got != want {
			t.Errorf("Valid(%d) = %v, want %v", n, got, want)
		}
	}
}
