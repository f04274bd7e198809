package emucfg

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/firefly-engineering/adfctl/internal/directive"
	"github.com/firefly-engineering/adfctl/internal/errors"
)

// Default values used when a config file does not say otherwise.
const (
	DefaultPlatform    = "amiga"
	DefaultLoopCycles  = 300
	DefaultKeyboardKey = "k"
	DefaultMouseKey    = "m"
	DefaultMouseDevice = "/dev/input/mice"
)

// Fallbacks are the values filled in for required settings that a config
// file leaves empty.
type Fallbacks struct {
	Platform   string
	LoopCycles int
	A314Conf   string
}

// DefaultFallbacks returns the built-in fallbacks with the given a314
// daemon config path.
func DefaultFallbacks(a314Conf string) Fallbacks {
	return Fallbacks{
		Platform:   DefaultPlatform,
		LoopCycles: DefaultLoopCycles,
		A314Conf:   a314Conf,
	}
}

// Keyboard holds the keyboard forwarding settings.
type Keyboard struct {
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	Key         string `json:"key" yaml:"key"`
	Grab        bool   `json:"grab" yaml:"grab"`
	Autoconnect bool   `json:"autoconnect" yaml:"autoconnect"`
}

// Mouse holds the mouse forwarding settings.
type Mouse struct {
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	File        string `json:"file" yaml:"file"`
	Key         string `json:"key" yaml:"key"`
	Autoconnect bool   `json:"autoconnect" yaml:"autoconnect"`
}

// State is a snapshot of the directives in a config file. The zero value of
// a field means "disabled"; it never means "delete the line".
type State struct {
	CPU        string `json:"cpu" yaml:"cpu"`
	Kickstart  string `json:"kickstart" yaml:"kickstart"`
	CPUSlotMB  int    `json:"cpu_slot_mb" yaml:"cpu_slot_mb"`
	Z2MB       int    `json:"z2_mb" yaml:"z2_mb"`
	Z3MB       int    `json:"z3_mb" yaml:"z3_mb"`
	ChipRAM    bool   `json:"chip_ram" yaml:"chip_ram"`
	LoopCycles int    `json:"loopcycles" yaml:"loopcycles"`
	Platform   string `json:"platform" yaml:"platform"`

	RTG             bool   `json:"rtg" yaml:"rtg"`
	RTGDPMS         bool   `json:"rtg_dpms" yaml:"rtg_dpms"`
	RTGWidth        int    `json:"rtg_width" yaml:"rtg_width"`
	RTGHeight       int    `json:"rtg_height" yaml:"rtg_height"`
	PiAHI           bool   `json:"pi_ahi" yaml:"pi_ahi"`
	PiAHIDevice     string `json:"pi_ahi_device" yaml:"pi_ahi_device"`
	PiAHISampleRate int    `json:"pi_ahi_samplerate" yaml:"pi_ahi_samplerate"`
	CDTV            bool   `json:"cdtv" yaml:"cdtv"`

	// RTCEmulation is nil when the file has no active setting. A nil value
	// leaves existing lines untouched when patching.
	RTCEmulation *int `json:"enable_rtc_emulation" yaml:"enable_rtc_emulation"`

	PiNet           bool   `json:"pi_net" yaml:"pi_net"`
	A314            bool   `json:"a314" yaml:"a314"`
	A314Conf        string `json:"a314_conf" yaml:"a314_conf"`
	MoveSlowToChip  bool   `json:"move_slow_to_chip" yaml:"move_slow_to_chip"`
	SwapDF0         int    `json:"swap_df0_df" yaml:"swap_df0_df"`
	PhysicalZ2First bool   `json:"physical_z2_first" yaml:"physical_z2_first"`
	Kick13          bool   `json:"kick13" yaml:"kick13"`
	NoPiStormDev    bool   `json:"no_pistorm_dev" yaml:"no_pistorm_dev"`

	Keyboard Keyboard `json:"keyboard" yaml:"keyboard"`
	KbFile   string   `json:"kbfile" yaml:"kbfile"`
	Mouse    Mouse    `json:"mouse" yaml:"mouse"`

	PiSCSIEnable bool                          `json:"piscsi_enable" yaml:"piscsi_enable"`
	PiSCSI       [directive.PiSCSIUnits]string `json:"piscsi" yaml:"piscsi"`
}

// NewState returns the state of an empty config file.
func NewState(fb Fallbacks) *State {
	s := &State{
		LoopCycles: fb.LoopCycles,
		Keyboard:   Keyboard{Key: DefaultKeyboardKey},
		Mouse:      Mouse{Key: DefaultMouseKey},
	}
	s.Normalize(fb)
	return s
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	c := *s
	if s.RTCEmulation != nil {
		v := *s.RTCEmulation
		c.RTCEmulation = &v
	}
	return &c
}

// Normalize applies the fixed policies every state is written with: empty
// fallbacks are filled, A314 is always enabled, and PiSCSI unit paths are
// dropped while PiSCSI itself is disabled.
//
// A314 cannot be turned off through adfctl. The a314 daemon is part of every
// supported setup, so a request to disable it is overridden.
func (s *State) Normalize(fb Fallbacks) {
	if s.Platform == "" {
		s.Platform = fb.Platform
	}
	if s.A314Conf == "" {
		s.A314Conf = fb.A314Conf
	}
	s.A314 = true
	if !s.PiSCSIEnable {
		s.PiSCSI = [directive.PiSCSIUnits]string{}
	}
}

// Set assigns a single setting by name, for example "z2_mb=8",
// "keyboard.grab=true" or "piscsi.0=/home/pi/hdf/work.hdf". Names are the
// JSON field names of State.
func (s *State) Set(name, value string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	value = strings.TrimSpace(value)

	if unit, ok := strings.CutPrefix(name, "piscsi."); ok {
		n, err := strconv.Atoi(unit)
		if err != nil || n < 0 || n >= directive.PiSCSIUnits {
			return errors.ValidationError(fmt.Sprintf("invalid piscsi unit: %s", unit))
		}
		if err := checkValue(name, value); err != nil {
			return err
		}
		s.PiSCSI[n] = value
		return nil
	}

	if f, ok := stringFields(s)[name]; ok {
		if err := checkValue(name, value); err != nil {
			return err
		}
		*f = value
		return nil
	}
	if f, ok := intFields(s)[name]; ok {
		n, err := parseInt(name, value)
		if err != nil {
			return err
		}
		*f = n
		return nil
	}
	if f, ok := boolFields(s)[name]; ok {
		b, err := parseBool(name, value)
		if err != nil {
			return err
		}
		*f = b
		return nil
	}

	if name == "enable_rtc_emulation" {
		if value == "" {
			s.RTCEmulation = nil
			return nil
		}
		n, err := parseInt(name, value)
		if err != nil {
			return err
		}
		s.RTCEmulation = &n
		return nil
	}

	return errors.ValidationError(fmt.Sprintf("unknown setting: %s", name))
}

// Validate checks the string settings of s the way Set does. States decoded
// from YAML or JSON bypass Set and must be validated before patching.
func (s *State) Validate() error {
	fields := stringFields(s)
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := checkValue(name, *fields[name]); err != nil {
			return err
		}
	}
	for i, p := range s.PiSCSI {
		if err := checkValue("piscsi."+strconv.Itoa(i), p); err != nil {
			return err
		}
	}
	return nil
}

// singleToken holds the string settings written as one word of a directive
// line. Parse reads them back up to the first whitespace.
var singleToken = map[string]bool{
	"cpu":          true,
	"kickstart":    true,
	"platform":     true,
	"kbfile":       true,
	"keyboard.key": true,
	"mouse.file":   true,
	"mouse.key":    true,
}

// checkValue rejects values that would not survive a write and re-read: a
// line break starts a new directive, and whitespace splits a single-token
// argument.
func checkValue(name, value string) error {
	if strings.ContainsAny(value, "\r\n") {
		return errors.ValidationError(fmt.Sprintf("%s: value contains a line break", name))
	}
	if singleToken[name] && strings.IndexFunc(value, unicode.IsSpace) >= 0 {
		return errors.ValidationError(fmt.Sprintf("%s: value must not contain whitespace: %q", name, value))
	}
	return nil
}

// Get returns a single setting by name in the form Set accepts. The
// second result is false for unknown names.
func (s *State) Get(name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))

	if unit, ok := strings.CutPrefix(name, "piscsi."); ok {
		n, err := strconv.Atoi(unit)
		if err != nil || n < 0 || n >= directive.PiSCSIUnits {
			return "", false
		}
		return s.PiSCSI[n], true
	}
	if f, ok := stringFields(s)[name]; ok {
		return *f, true
	}
	if f, ok := intFields(s)[name]; ok {
		return strconv.Itoa(*f), true
	}
	if f, ok := boolFields(s)[name]; ok {
		return strconv.FormatBool(*f), true
	}
	if name == "enable_rtc_emulation" {
		if s.RTCEmulation == nil {
			return "", true
		}
		return strconv.Itoa(*s.RTCEmulation), true
	}
	return "", false
}

// Settings returns the names Set accepts, sorted. PiSCSI units are listed
// as "piscsi.0" through "piscsi.6".
func Settings() []string {
	var s State
	names := []string{"enable_rtc_emulation"}
	for name := range stringFields(&s) {
		names = append(names, name)
	}
	for name := range intFields(&s) {
		names = append(names, name)
	}
	for name := range boolFields(&s) {
		names = append(names, name)
	}
	for i := 0; i < directive.PiSCSIUnits; i++ {
		names = append(names, "piscsi."+strconv.Itoa(i))
	}
	sort.Strings(names)
	return names
}

// IsSetting reports whether Set accepts name.
func IsSetting(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, n := range Settings() {
		if n == name {
			return true
		}
	}
	return false
}

func stringFields(s *State) map[string]*string {
	return map[string]*string{
		"cpu":           &s.CPU,
		"kickstart":     &s.Kickstart,
		"platform":      &s.Platform,
		"pi_ahi_device": &s.PiAHIDevice,
		"a314_conf":     &s.A314Conf,
		"kbfile":        &s.KbFile,
		"keyboard.key":  &s.Keyboard.Key,
		"mouse.file":    &s.Mouse.File,
		"mouse.key":     &s.Mouse.Key,
	}
}

func intFields(s *State) map[string]*int {
	return map[string]*int{
		"cpu_slot_mb":       &s.CPUSlotMB,
		"z2_mb":             &s.Z2MB,
		"z3_mb":             &s.Z3MB,
		"loopcycles":        &s.LoopCycles,
		"rtg_width":         &s.RTGWidth,
		"rtg_height":        &s.RTGHeight,
		"pi_ahi_samplerate": &s.PiAHISampleRate,
		"swap_df0_df":       &s.SwapDF0,
	}
}

func boolFields(s *State) map[string]*bool {
	return map[string]*bool{
		"chip_ram":             &s.ChipRAM,
		"rtg":                  &s.RTG,
		"rtg_dpms":             &s.RTGDPMS,
		"pi_ahi":               &s.PiAHI,
		"cdtv":                 &s.CDTV,
		"pi_net":               &s.PiNet,
		"a314":                 &s.A314,
		"move_slow_to_chip":    &s.MoveSlowToChip,
		"physical_z2_first":    &s.PhysicalZ2First,
		"kick13":               &s.Kick13,
		"no_pistorm_dev":       &s.NoPiStormDev,
		"piscsi_enable":        &s.PiSCSIEnable,
		"keyboard.enabled":     &s.Keyboard.Enabled,
		"keyboard.grab":        &s.Keyboard.Grab,
		"keyboard.autoconnect": &s.Keyboard.Autoconnect,
		"mouse.enabled":        &s.Mouse.Enabled,
		"mouse.autoconnect":    &s.Mouse.Autoconnect,
	}
}

func parseInt(name, value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.ValidationError(fmt.Sprintf("%s: not a number: %q", name, value))
	}
	return n, nil
}

func parseBool(name, value string) (bool, error) {
	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		return true, nil
	case "", "0", "false", "no", "off":
		return false, nil
	}
	return false, errors.ValidationError(fmt.Sprintf("%s: not a boolean: %q", name, value))
}
