package diskctl

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Units is the number of floppy drive units the control service exposes.
const Units = 4

// UnitStatus describes one drive unit.
type UnitStatus struct {
	Unit     int    `json:"unit"`
	Present  bool   `json:"present"`
	Filename string `json:"filename"`
	Writable bool   `json:"writable"`
}

// Status is the reply to the "status" command.
type Status struct {
	Units []UnitStatus `json:"units"`
}

// Occupied returns the set of units that hold an image.
func (s *Status) Occupied() map[int]bool {
	occupied := make(map[int]bool, len(s.Units))
	for _, u := range s.Units {
		if u.Present {
			occupied[u.Unit] = true
		}
	}
	return occupied
}

// Unit returns the status of unit n.
func (s *Status) Unit(n int) (UnitStatus, bool) {
	for _, u := range s.Units {
		if u.Unit == n {
			return u, true
		}
	}
	return UnitStatus{}, false
}

// Client issues typed commands to one control endpoint. Every call is a
// separate connection and nothing is cached between calls.
type Client struct {
	Endpoint Endpoint
}

// NewClient returns a client for ep.
func NewClient(ep Endpoint) *Client {
	return &Client{Endpoint: ep}
}

// Send sends a raw command.
func (c *Client) Send(ctx context.Context, command string) string {
	return Send(ctx, c.Endpoint, command)
}

// Status queries the unit status. It returns false when the service is
// unreachable or the reply is not a status document.
func (c *Client) Status(ctx context.Context) (*Status, bool) {
	resp := c.Send(ctx, "status")
	if resp == "" || IsError(resp) {
		return nil, false
	}
	var st Status
	if err := json.Unmarshal([]byte(resp), &st); err != nil {
		return nil, false
	}
	return &st, true
}

// Insert mounts path in unit. The reply is returned as is. A path holding a
// line break is refused without contacting the service.
func (c *Client) Insert(ctx context.Context, unit int, path string, writable bool) string {
	if strings.ContainsAny(path, "\r\n") {
		return ErrorPrefix + " path contains a line break"
	}
	return c.Send(ctx, InsertCommand(unit, path, writable))
}

// Eject empties unit.
func (c *Client) Eject(ctx context.Context, unit int) string {
	return c.Send(ctx, EjectCommand(unit))
}

// InsertCommand formats "insert <unit> [-rw] <path>".
func InsertCommand(unit int, path string, writable bool) string {
	parts := []string{"insert", fmt.Sprint(unit)}
	if writable {
		parts = append(parts, "-rw")
	}
	parts = append(parts, path)
	return strings.Join(parts, " ")
}

// EjectCommand formats "eject <unit>".
func EjectCommand(unit int) string {
	return fmt.Sprintf("eject %d", unit)
}
