package directive

import (
	"fmt"
	"strings"
)

// Key identifies one directive in the emulator config file.
type Key int

// Keys in canonical order.
const (
	CPU Key = iota
	Kickstart
	CPUSlotRAM
	Z2Fast
	Z3Fast
	ChipRAM
	LoopCycles
	Platform
	Keyboard
	Mouse
	KbFile
	PiSCSI
	PiSCSI0
	PiSCSI1
	PiSCSI2
	PiSCSI3
	PiSCSI4
	PiSCSI5
	PiSCSI6
	RTG
	RTGDPMS
	RTGWidth
	RTGHeight
	PiAHI
	PiAHISampleRate
	CDTV
	RTCEmulation
	PiNet
	A314Conf
	A314
	MoveSlowToChip
	SwapDF0
	PhysicalZ2First
	Kick13
	NoPiStormDev

	numKeys
)

// PiSCSIUnits is the number of PiSCSI unit path directives (piscsi0..piscsi6).
const PiSCSIUnits = 7

var keyNames = [numKeys]string{
	CPU:             "cpu",
	Kickstart:       "kickstart",
	CPUSlotRAM:      "cpu_slot_ram",
	Z2Fast:          "z2_autoconf_fast",
	Z3Fast:          "z3_autoconf_fast",
	ChipRAM:         "chip_ram",
	LoopCycles:      "loopcycles",
	Platform:        "platform",
	Keyboard:        "keyboard",
	Mouse:           "mouse",
	KbFile:          "kbfile",
	PiSCSI:          "piscsi",
	PiSCSI0:         "piscsi0",
	PiSCSI1:         "piscsi1",
	PiSCSI2:         "piscsi2",
	PiSCSI3:         "piscsi3",
	PiSCSI4:         "piscsi4",
	PiSCSI5:         "piscsi5",
	PiSCSI6:         "piscsi6",
	RTG:             "rtg",
	RTGDPMS:         "rtg-dpms",
	RTGWidth:        "rtg-width",
	RTGHeight:       "rtg-height",
	PiAHI:           "pi-ahi",
	PiAHISampleRate: "pi-ahi-samplerate",
	CDTV:            "cdtv",
	RTCEmulation:    "enable_rtc_emulation",
	PiNet:           "pi-net",
	A314Conf:        "a314_conf",
	A314:            "a314",
	MoveSlowToChip:  "move-slow-to-chip",
	SwapDF0:         "swap-df0-df",
	PhysicalZ2First: "physical-z2-first",
	Kick13:          "kick13",
	NoPiStormDev:    "no-pistorm-dev",
}

// setvarKeys maps lower-cased setvar flag names to their keys. PiSCSI keys
// are matched by their own detectors and are not listed here.
var setvarKeys = func() map[string]Key {
	m := make(map[string]Key)
	for k := RTG; k < numKeys; k++ {
		m[keyNames[k]] = k
	}
	return m
}()

// String returns the directive's stable name.
func (k Key) String() string {
	if k < 0 || k >= numKeys {
		return fmt.Sprintf("Key(%d)", int(k))
	}
	return keyNames[k]
}

// Valid reports whether k is a catalogue key.
func (k Key) Valid() bool {
	return k >= 0 && k < numKeys
}

// Keys returns every key in canonical order.
func Keys() []Key {
	keys := make([]Key, 0, numKeys)
	for k := Key(0); k < numKeys; k++ {
		keys = append(keys, k)
	}
	return keys
}

// Count is the number of catalogue keys.
func Count() int {
	return int(numKeys)
}

// Lookup returns the key with the given name, case-insensitively.
func Lookup(name string) (Key, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k := Key(0); k < numKeys; k++ {
		if keyNames[k] == name {
			return k, true
		}
	}
	return 0, false
}

// IsSetvar reports whether k is written as a "setvar" line.
func (k Key) IsSetvar() bool {
	return k >= PiSCSI && k < numKeys
}

// PiSCSIUnit returns the key for PiSCSI unit n (0..6).
func PiSCSIUnit(n int) (Key, bool) {
	if n < 0 || n >= PiSCSIUnits {
		return 0, false
	}
	return PiSCSI0 + Key(n), true
}

// PiSCSIUnitIndex returns the unit number of a PiSCSI unit key.
func (k Key) PiSCSIUnitIndex() (int, bool) {
	if k < PiSCSI0 || k > PiSCSI6 {
		return 0, false
	}
	return int(k - PiSCSI0), true
}

// Companion returns the directive that must be active whenever k is.
// A314 requires its configuration path.
func Companion(k Key) (Key, bool) {
	if k == A314 {
		return A314Conf, true
	}
	return 0, false
}
