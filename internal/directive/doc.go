// Package directive is the catalogue of emulator configuration directives.
//
// The emulator reads a line-oriented file where each line is one directive
// and '#' (after optional leading whitespace) disables a line:
//
//	cpu 68030
//	map type=rom address=0xF80000 size=0x80000 file=kick.rom ovl=0 id=kickstart autodump_mem
//	loopcycles 300
//	#setvar rtg
//
// # Keys
//
// Every recognized setting has a Key. Keys() lists them in canonical order,
// which is also the order new lines are appended in.
//
// # Classification
//
// Classify matches a line body against the detectors and returns the Key
// plus the captured arguments. Detectors are tried in catalogue order and
// the first match wins. Unrecognized bodies report ok == false.
//
// # Lines
//
// Line is a parsed line with a two-state tag (Active or Disabled). The
// marker is re-derived from the tag on output; an untouched Line serializes
// to its original bytes.
package directive
