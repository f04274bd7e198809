package directive

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	sizeRe = regexp.MustCompile(`(?i)\bsize=([0-9]+)([KMG])\b`)

	tokenRes = map[string]*regexp.Regexp{
		"file": regexp.MustCompile(`(?i)\bfile=(\S*)`),
		"size": regexp.MustCompile(`(?i)\bsize=(\S*)`),
	}
)

func tokenRe(name string) *regexp.Regexp {
	if re, ok := tokenRes[name]; ok {
		return re
	}
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name) + `=(\S*)`)
}

// Token returns the value of the first name=value token in body.
func Token(body, name string) (string, bool) {
	m := tokenRe(name).FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// SetToken replaces every name=value token in body with name=value, or
// appends " name=value" when body has no such token.
func SetToken(body, name, value string) string {
	re := tokenRe(name)
	token := name + "=" + value
	if re.MatchString(body) {
		return re.ReplaceAllLiteralString(body, token)
	}
	return strings.TrimRight(body, " \t") + " " + token
}

// FormatSize renders a size in megabytes the way map lines spell it.
func FormatSize(mb int) string {
	return strconv.Itoa(mb) + "M"
}

// ParseSizeMB returns the size= token of body in megabytes. K sizes are
// truncated to whole megabytes. Bodies without a size in K, M or G give 0.
func ParseSizeMB(body string) int {
	m := sizeRe.FindStringSubmatch(body)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	switch strings.ToUpper(m[2]) {
	case "K":
		return n / 1024
	case "G":
		return n * 1024
	default:
		return n
	}
}

// ramAddresses holds the base address each RAM mapping is synthesized at.
var ramAddresses = map[Key]string{
	CPUSlotRAM: "0x08000000",
	Z2Fast:     "0x200000",
	Z3Fast:     "0x10000000",
}

// ChipRAMLine is the fake 2MB chip RAM mapping.
const ChipRAMLine = "map type=ram address=0x0 size=2M"

// CPULine returns "cpu <model>".
func CPULine(model string) string {
	return "cpu " + model
}

// KickstartLine returns the canonical kickstart ROM mapping for path.
func KickstartLine(path string) string {
	return fmt.Sprintf("map type=rom address=0xF80000 size=0x80000 file=%s ovl=0 id=kickstart autodump_mem", path)
}

// RAMLine returns the canonical mapping for a sized RAM key.
func RAMLine(k Key, mb int) string {
	return fmt.Sprintf("map type=ram address=%s size=%s id=%s", ramAddresses[k], FormatSize(mb), k)
}

// LoopCyclesLine returns "loopcycles <n>".
func LoopCyclesLine(n int) string {
	return "loopcycles " + strconv.Itoa(n)
}

// PlatformLine returns "platform <name>".
func PlatformLine(name string) string {
	return "platform " + name
}

// KeyboardLine returns the keyboard forwarding directive.
func KeyboardLine(key string, grab, autoconnect bool) string {
	g := "nograb"
	if grab {
		g = "grab"
	}
	return fmt.Sprintf("keyboard %s %s %s", key, g, autoconnectWord(autoconnect))
}

// MouseLine returns the mouse forwarding directive.
func MouseLine(device, key string, autoconnect bool) string {
	return fmt.Sprintf("mouse %s %s %s", device, key, autoconnectWord(autoconnect))
}

func autoconnectWord(on bool) string {
	if on {
		return "autoconnect"
	}
	return "noautoconnect"
}

// KbFileLine returns "kbfile <path>".
func KbFileLine(path string) string {
	return "kbfile " + path
}

// SetvarLine returns "setvar <k> [<value>]".
func SetvarLine(k Key, value string) string {
	if value == "" {
		return "setvar " + k.String()
	}
	return "setvar " + k.String() + " " + value
}
