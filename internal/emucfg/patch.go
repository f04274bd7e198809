package emucfg

import (
	"strconv"

	"github.com/firefly-engineering/adfctl/internal/directive"
)

type action int

const (
	disable action = iota
	enable
	// leave keeps existing lines as they are. Only RTC emulation uses it,
	// when no value is requested.
	leave
)

// plan is what a desired state asks for one directive.
type plan struct {
	action action
	// line is the canonical directive body.
	line string
	// token and value are set for map lines, which are edited in place.
	token, value string
}

type resolution int

const (
	unresolved resolution = iota
	resolvedActive
	resolvedInactive
)

// markerOnly lists the flags whose lines are only commented or uncommented.
var markerOnly = map[directive.Key]bool{
	directive.ChipRAM:         true,
	directive.PiSCSI:          true,
	directive.RTG:             true,
	directive.RTGDPMS:         true,
	directive.CDTV:            true,
	directive.PiNet:           true,
	directive.A314:            true,
	directive.MoveSlowToChip:  true,
	directive.PhysicalZ2First: true,
	directive.Kick13:          true,
	directive.NoPiStormDev:    true,
}

func flag(on bool, k directive.Key) plan {
	if !on {
		return plan{}
	}
	return plan{action: enable, line: directive.SetvarLine(k, "")}
}

func valued(v string, k directive.Key) plan {
	if v == "" {
		return plan{}
	}
	return plan{action: enable, line: directive.SetvarLine(k, v)}
}

func positive(n int, k directive.Key) plan {
	if n <= 0 {
		return plan{}
	}
	return plan{action: enable, line: directive.SetvarLine(k, strconv.Itoa(n))}
}

func sized(mb int, k directive.Key) plan {
	if mb <= 0 {
		return plan{}
	}
	return plan{action: enable, line: directive.RAMLine(k, mb), token: "size", value: directive.FormatSize(mb)}
}

// plan returns what s asks for k. s must be normalized.
func (s *State) plan(k directive.Key) plan {
	if n, ok := k.PiSCSIUnitIndex(); ok {
		return valued(s.PiSCSI[n], k)
	}

	switch k {
	case directive.CPU:
		if s.CPU == "" {
			return plan{}
		}
		return plan{action: enable, line: directive.CPULine(s.CPU)}
	case directive.Kickstart:
		if s.Kickstart == "" {
			return plan{}
		}
		return plan{action: enable, line: directive.KickstartLine(s.Kickstart), token: "file", value: s.Kickstart}
	case directive.CPUSlotRAM:
		return sized(s.CPUSlotMB, k)
	case directive.Z2Fast:
		return sized(s.Z2MB, k)
	case directive.Z3Fast:
		return sized(s.Z3MB, k)
	case directive.ChipRAM:
		if !s.ChipRAM {
			return plan{}
		}
		return plan{action: enable, line: directive.ChipRAMLine}
	case directive.LoopCycles:
		if s.LoopCycles <= 0 {
			return plan{}
		}
		return plan{action: enable, line: directive.LoopCyclesLine(s.LoopCycles)}
	case directive.Platform:
		if s.Platform == "" {
			return plan{}
		}
		return plan{action: enable, line: directive.PlatformLine(s.Platform)}
	case directive.Keyboard:
		if !s.Keyboard.Enabled {
			return plan{}
		}
		key := s.Keyboard.Key
		if key == "" {
			key = DefaultKeyboardKey
		}
		return plan{action: enable, line: directive.KeyboardLine(key, s.Keyboard.Grab, s.Keyboard.Autoconnect)}
	case directive.Mouse:
		if !s.Mouse.Enabled {
			return plan{}
		}
		file, key := s.Mouse.File, s.Mouse.Key
		if file == "" {
			file = DefaultMouseDevice
		}
		if key == "" {
			key = DefaultMouseKey
		}
		return plan{action: enable, line: directive.MouseLine(file, key, s.Mouse.Autoconnect)}
	case directive.KbFile:
		if s.KbFile == "" {
			return plan{}
		}
		return plan{action: enable, line: directive.KbFileLine(s.KbFile)}
	case directive.PiSCSI:
		return flag(s.PiSCSIEnable, k)
	case directive.RTG:
		return flag(s.RTG, k)
	case directive.RTGDPMS:
		return flag(s.RTGDPMS, k)
	case directive.RTGWidth:
		return positive(s.RTGWidth, k)
	case directive.RTGHeight:
		return positive(s.RTGHeight, k)
	case directive.PiAHI:
		if !s.PiAHI {
			return plan{}
		}
		return plan{action: enable, line: directive.SetvarLine(k, s.PiAHIDevice)}
	case directive.PiAHISampleRate:
		return positive(s.PiAHISampleRate, k)
	case directive.CDTV:
		return flag(s.CDTV, k)
	case directive.RTCEmulation:
		if s.RTCEmulation == nil {
			return plan{action: leave}
		}
		return plan{action: enable, line: directive.SetvarLine(k, strconv.Itoa(*s.RTCEmulation))}
	case directive.PiNet:
		return flag(s.PiNet, k)
	case directive.A314Conf:
		return valued(s.A314Conf, k)
	case directive.A314:
		return flag(s.A314, k)
	case directive.MoveSlowToChip:
		return flag(s.MoveSlowToChip, k)
	case directive.SwapDF0:
		return positive(s.SwapDF0, k)
	case directive.PhysicalZ2First:
		return flag(s.PhysicalZ2First, k)
	case directive.Kick13:
		return flag(s.Kick13, k)
	case directive.NoPiStormDev:
		return flag(s.NoPiStormDev, k)
	}
	return plan{}
}

// rewrite returns the body an enabled line gets.
func rewrite(k directive.Key, body string, p plan) string {
	switch {
	case p.token != "":
		return directive.SetToken(body, p.token, p.value)
	case markerOnly[k]:
		return body
	default:
		return p.line
	}
}

// Patch rewrites config text so that it matches desired, touching as little
// as possible:
//
//   - the first line of each directive is enabled and rewritten, or
//     commented out, as desired asks;
//   - any further line of a directive already handled is commented out, so
//     at most one line per directive stays active;
//   - lines that match no directive are kept byte for byte;
//   - directives desired enables that have no line at all are appended in
//     catalogue order, except cpu, which goes first.
//
// Disabled directives that have no line are never introduced. Patch is
// idempotent, and Parse of the result reports the desired values.
func Patch(text string, desired *State, fb Fallbacks) string {
	want := desired.Clone()
	want.Normalize(fb)

	lines := directive.SplitLines(text)

	present := make([]bool, directive.Count())
	for _, l := range lines {
		if m, ok := l.Classify(); ok {
			present[m.Key] = true
		}
	}

	res := make([]resolution, directive.Count())
	out := make([]directive.Line, 0, len(lines)+4)

	for _, l := range lines {
		m, ok := l.Classify()
		if !ok {
			out = append(out, l)
			continue
		}
		k := m.Key

		if res[k] != unresolved {
			l.SetState(directive.Disabled)
			out = append(out, l)
			continue
		}

		p := want.plan(k)
		switch p.action {
		case leave:
			if l.State == directive.Active {
				res[k] = resolvedActive
			}
		case enable:
			if comp, ok := directive.Companion(k); ok && !present[comp] && res[comp] == unresolved {
				if cp := want.plan(comp); cp.action == enable {
					c := directive.NewLine(cp.line)
					c.Indent = l.Indent
					if l.EOL != "" {
						c.EOL = l.EOL
					}
					out = append(out, c)
					res[comp] = resolvedActive
				}
			}
			l.SetBody(rewrite(k, l.Body, p))
			l.SetState(directive.Active)
			res[k] = resolvedActive
		default:
			l.SetState(directive.Disabled)
			res[k] = resolvedInactive
		}
		out = append(out, l)
	}

	var head, tail []directive.Line
	for _, k := range directive.Keys() {
		if res[k] != unresolved {
			continue
		}
		p := want.plan(k)
		if p.action != enable {
			continue
		}
		if k == directive.CPU {
			head = append(head, directive.NewLine(p.line))
		} else {
			tail = append(tail, directive.NewLine(p.line))
		}
		res[k] = resolvedActive
	}

	if len(tail) > 0 && len(out) > 0 {
		out[len(out)-1].Terminate()
	}

	result := make([]directive.Line, 0, len(head)+len(out)+len(tail))
	result = append(result, head...)
	result = append(result, out...)
	result = append(result, tail...)
	return directive.Join(result)
}

// Changed returns the directives whose active value differs between two
// states, in catalogue order.
func Changed(before, after *State) []directive.Key {
	var keys []directive.Key
	for _, k := range directive.Keys() {
		if before.plan(k) != after.plan(k) {
			keys = append(keys, k)
		}
	}
	return keys
}
