package emucfg

import (
	"strconv"
	"strings"

	"github.com/firefly-engineering/adfctl/internal/directive"
)

// Parse reads config text into a State. Lines that match no directive are
// ignored. Parse never fails: malformed values leave the field at its
// default.
func Parse(text string, fb Fallbacks) *State {
	s := &State{
		LoopCycles: fb.LoopCycles,
		Keyboard:   Keyboard{Key: DefaultKeyboardKey},
		Mouse:      Mouse{Key: DefaultMouseKey},
	}

	for _, l := range directive.SplitLines(text) {
		m, ok := l.Classify()
		if !ok {
			continue
		}
		s.apply(m, l.State == directive.Active)
	}

	s.Normalize(fb)
	return s
}

// apply records one classified line. Values carried by disabled lines are
// only taken for the input devices and the pi-ahi device, so that turning
// them off keeps their settings. Once an active line has been seen, later
// disabled lines no longer override it.
func (s *State) apply(m directive.Match, active bool) {
	switch m.Key {
	case directive.Keyboard:
		s.applyKeyboard(m.Args, active)
		return
	case directive.Mouse:
		s.applyMouse(m.Args, active)
		return
	case directive.PiAHI:
		if m.Value != "" && (active || !s.PiAHI) {
			s.PiAHIDevice = m.Value
		}
		if active {
			s.PiAHI = true
		}
		return
	}

	if !active {
		return
	}

	if n, ok := m.Key.PiSCSIUnitIndex(); ok {
		s.PiSCSI[n] = m.Value
		return
	}

	switch m.Key {
	case directive.CPU:
		s.CPU = m.Value
	case directive.Kickstart:
		if m.Value != "" {
			s.Kickstart = m.Value
		}
	case directive.CPUSlotRAM, directive.Z2Fast, directive.Z3Fast:
		s.applySize(m)
	case directive.ChipRAM:
		s.ChipRAM = true
	case directive.LoopCycles:
		setInt(&s.LoopCycles, m.Value)
	case directive.Platform:
		s.Platform = m.Value
	case directive.KbFile:
		s.KbFile = m.Value
	case directive.PiSCSI:
		s.PiSCSIEnable = true
	case directive.RTG:
		s.RTG = true
	case directive.RTGDPMS:
		s.RTGDPMS = true
	case directive.RTGWidth:
		setInt(&s.RTGWidth, m.Value)
	case directive.RTGHeight:
		setInt(&s.RTGHeight, m.Value)
	case directive.PiAHISampleRate:
		setInt(&s.PiAHISampleRate, m.Value)
	case directive.CDTV:
		s.CDTV = true
	case directive.RTCEmulation:
		var n int
		if setInt(&n, m.Value) {
			s.RTCEmulation = &n
		}
	case directive.PiNet:
		s.PiNet = true
	case directive.A314:
		s.A314 = true
	case directive.A314Conf:
		if m.Value != "" {
			s.A314Conf = m.Value
		}
	case directive.MoveSlowToChip:
		s.MoveSlowToChip = true
	case directive.SwapDF0:
		setInt(&s.SwapDF0, m.Value)
	case directive.PhysicalZ2First:
		s.PhysicalZ2First = true
	case directive.Kick13:
		s.Kick13 = true
	case directive.NoPiStormDev:
		s.NoPiStormDev = true
	}
}

// applySize records a RAM size. Zero never overwrites an earlier size.
// Only active lines reach it, so a commented mapping reads as 0 MB and a
// patch with that state leaves the line commented.
func (s *State) applySize(m directive.Match) {
	mb := directive.ParseSizeMB(m.Body)
	if mb <= 0 {
		return
	}
	switch m.Key {
	case directive.CPUSlotRAM:
		s.CPUSlotMB = mb
	case directive.Z2Fast:
		s.Z2MB = mb
	case directive.Z3Fast:
		s.Z3MB = mb
	}
}

// applyKeyboard reads "keyboard <key> [grab|nograb] [autoconnect|noautoconnect]".
// The two switches are recognized in either order.
func (s *State) applyKeyboard(args []string, active bool) {
	if len(args) == 0 || (!active && s.Keyboard.Enabled) {
		return
	}
	s.Keyboard.Key = args[0]
	for _, a := range args[1:] {
		switch strings.ToLower(a) {
		case "grab":
			s.Keyboard.Grab = true
		case "nograb":
			s.Keyboard.Grab = false
		case "autoconnect":
			s.Keyboard.Autoconnect = true
		case "noautoconnect":
			s.Keyboard.Autoconnect = false
		}
	}
	if active {
		s.Keyboard.Enabled = true
	}
}

// applyMouse reads "mouse <device> [<key>] [autoconnect|noautoconnect]".
func (s *State) applyMouse(args []string, active bool) {
	if len(args) == 0 || (!active && s.Mouse.Enabled) {
		return
	}
	s.Mouse.File = args[0]
	for _, a := range args[1:] {
		switch strings.ToLower(a) {
		case "autoconnect":
			s.Mouse.Autoconnect = true
		case "noautoconnect":
			s.Mouse.Autoconnect = false
		default:
			s.Mouse.Key = a
		}
	}
	if active {
		s.Mouse.Enabled = true
	}
}

func setInt(dst *int, v string) bool {
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return false
	}
	*dst = n
	return true
}
