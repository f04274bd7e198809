package directive

import (
	"regexp"
	"strings"
)

var (
	cpuRe          = regexp.MustCompile(`(?i)^\s*cpu\s+(\S+)`)
	kickstartRe    = regexp.MustCompile(`(?i)^\s*map\s+.*\bid=kickstart\b`)
	cpuSlotRe      = regexp.MustCompile(`(?i)^\s*map\s+.*\bid=cpu_slot_ram\b`)
	z2Re           = regexp.MustCompile(`(?i)^\s*map\s+.*\bid=z2_autoconf_fast\b`)
	z3Re           = regexp.MustCompile(`(?i)^\s*map\s+.*\bid=z3_autoconf_fast\b`)
	chipRe         = regexp.MustCompile(`(?i)^\s*map\s+.*\baddress=0x0\b.*\bsize=2M\b`)
	loopCyclesRe   = regexp.MustCompile(`(?i)^\s*loopcycles\s+([0-9]+)`)
	platformRe     = regexp.MustCompile(`(?i)^\s*platform\s+(\S+)`)
	keyboardRe     = regexp.MustCompile(`(?i)^\s*keyboard\s+\S+`)
	mouseRe        = regexp.MustCompile(`(?i)^\s*mouse\s+\S+`)
	kbFileRe       = regexp.MustCompile(`(?i)^\s*kbfile\s+(\S+)`)
	piscsiEnableRe = regexp.MustCompile(`(?i)^\s*setvar\s+piscsi\b`)
	piscsiUnitRe   = regexp.MustCompile(`(?i)^\s*setvar\s+piscsi([0-6])\s+(.+)$`)
	setvarRe       = regexp.MustCompile(`(?i)^\s*setvar\s+(\S+)(?:\s+(.*?))?\s*$`)
)

// Match is the result of classifying a line body.
type Match struct {
	Key Key

	// Value is the directive's primary argument: the CPU model, kickstart
	// file, loop cycle count, platform name, kbfile path, PiSCSI unit path or
	// setvar value. Empty when the directive has none.
	Value string

	// Args holds the whitespace-separated arguments after the keyword for
	// keyboard and mouse lines.
	Args []string

	// Body is the classified text.
	Body string
}

// Classify matches body (a line with any comment marker already removed)
// against the catalogue.
func Classify(body string) (Match, bool) {
	m, ok := classify(body)
	if ok {
		m.Body = body
	}
	return m, ok
}

func classify(body string) (Match, bool) {
	if m := cpuRe.FindStringSubmatch(body); m != nil {
		return Match{Key: CPU, Value: m[1]}, true
	}
	if kickstartRe.MatchString(body) {
		file, _ := Token(body, "file")
		return Match{Key: Kickstart, Value: file}, true
	}
	if cpuSlotRe.MatchString(body) {
		return Match{Key: CPUSlotRAM}, true
	}
	if z2Re.MatchString(body) {
		return Match{Key: Z2Fast}, true
	}
	if z3Re.MatchString(body) {
		return Match{Key: Z3Fast}, true
	}
	if chipRe.MatchString(body) {
		return Match{Key: ChipRAM}, true
	}
	if m := loopCyclesRe.FindStringSubmatch(body); m != nil {
		return Match{Key: LoopCycles, Value: m[1]}, true
	}
	if m := platformRe.FindStringSubmatch(body); m != nil {
		return Match{Key: Platform, Value: m[1]}, true
	}
	if keyboardRe.MatchString(body) {
		return Match{Key: Keyboard, Args: strings.Fields(body)[1:]}, true
	}
	if mouseRe.MatchString(body) {
		return Match{Key: Mouse, Args: strings.Fields(body)[1:]}, true
	}
	if m := kbFileRe.FindStringSubmatch(body); m != nil {
		return Match{Key: KbFile, Value: m[1]}, true
	}
	if piscsiEnableRe.MatchString(body) {
		return Match{Key: PiSCSI}, true
	}
	if m := piscsiUnitRe.FindStringSubmatch(body); m != nil {
		unit := int(m[1][0] - '0')
		key, _ := PiSCSIUnit(unit)
		return Match{Key: key, Value: strings.TrimSpace(m[2])}, true
	}
	if m := setvarRe.FindStringSubmatch(body); m != nil {
		name := strings.ToLower(m[1])
		if strings.HasPrefix(name, "piscsi") {
			return Match{}, false
		}
		key, ok := setvarKeys[name]
		if !ok {
			return Match{}, false
		}
		return Match{Key: key, Value: strings.TrimSpace(m[2])}, true
	}
	return Match{}, false
}
