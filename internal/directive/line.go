package directive

import "strings"

// Marker is the comment marker. It is only recognized as the first
// non-whitespace character of a line.
const Marker = '#'

// State is the comment tag of a line.
type State int

const (
	Active State = iota
	Disabled
)

func (s State) String() string {
	if s == Disabled {
		return "disabled"
	}
	return "active"
}

// Line is one line of a config document.
type Line struct {
	raw string

	// Indent is the whitespace before the marker or body.
	Indent string
	// Gap is the whitespace between the marker and the body of a disabled line.
	Gap string
	// Body is the line content without indent, marker or line ending.
	Body string
	// EOL is the line ending ("\n", "\r\n" or "" for a final unterminated line).
	EOL string

	State State

	dirty bool
}

// ParseLine splits a raw line, including its line ending, into a Line.
func ParseLine(raw string) Line {
	l := Line{raw: raw}

	content := raw
	switch {
	case strings.HasSuffix(content, "\r\n"):
		l.EOL = "\r\n"
	case strings.HasSuffix(content, "\n"):
		l.EOL = "\n"
	}
	content = content[:len(content)-len(l.EOL)]

	rest := strings.TrimLeft(content, " \t")
	l.Indent = content[:len(content)-len(rest)]

	if strings.HasPrefix(rest, string(Marker)) {
		l.State = Disabled
		after := rest[1:]
		body := strings.TrimLeft(after, " \t")
		l.Gap = after[:len(after)-len(body)]
		l.Body = body
		return l
	}

	l.Body = rest
	return l
}

// SplitLines splits text into lines, keeping line endings.
func SplitLines(text string) []Line {
	if text == "" {
		return nil
	}
	parts := strings.SplitAfter(text, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	lines := make([]Line, len(parts))
	for i, p := range parts {
		lines[i] = ParseLine(p)
	}
	return lines
}

// NewLine returns a synthesized active line terminated by "\n".
func NewLine(body string) Line {
	return Line{Body: body, EOL: "\n", State: Active, dirty: true}
}

// Classify classifies the line body.
func (l Line) Classify() (Match, bool) {
	return Classify(l.Body)
}

// SetBody replaces the line body.
func (l *Line) SetBody(body string) {
	if body != l.Body {
		l.Body = body
		l.dirty = true
	}
}

// SetState changes the comment tag.
func (l *Line) SetState(s State) {
	if s != l.State {
		l.State = s
		l.dirty = true
	}
}

// Terminate ensures the line ends with a newline.
func (l *Line) Terminate() {
	if l.EOL == "" {
		l.EOL = "\n"
		l.dirty = true
	}
}

// Changed reports whether the line differs from what was parsed.
func (l Line) Changed() bool {
	return l.dirty
}

// String serializes the line, re-deriving the marker from State. An
// unchanged line returns its original bytes.
func (l Line) String() string {
	if !l.dirty {
		return l.raw
	}
	if l.State == Disabled {
		return l.Indent + string(Marker) + l.Gap + l.Body + l.EOL
	}
	return l.Indent + l.Body + l.EOL
}

// Join serializes lines back into document text.
func Join(lines []Line) string {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l.String())
	}
	return sb.String()
}
