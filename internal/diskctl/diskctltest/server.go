// Package diskctltest provides a scripted control service for tests.
package diskctltest

import (
	"bufio"
	"encoding/json"
	"net"
	"strings"
	"sync"
	"testing"
	"time"
)

// Handler returns the reply for one command line.
type Handler func(command string) string

// Server is a fake control service listening on a loopback port. Each
// connection receives one command, gets the handler's reply and is closed.
type Server struct {
	Host string
	Port int

	ln       net.Listener
	handler  Handler
	holdOpen time.Duration

	mu       sync.Mutex
	commands []string
	wg       sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// WithHoldOpen keeps each connection open for d after the reply is written,
// like a service that does not close after responding.
func WithHoldOpen(d time.Duration) Option {
	return func(s *Server) {
		s.holdOpen = d
	}
}

// NewServer starts a server that answers with h. It is closed when the test
// ends.
func NewServer(t *testing.T, h Handler, opts ...Option) *Server {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	addr := ln.Addr().(*net.TCPAddr)

	s := &Server{
		Host:    "127.0.0.1",
		Port:    addr.Port,
		ln:      ln,
		handler: h,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.wg.Add(1)
	go s.serve()
	t.Cleanup(s.Close)
	return s
}

// NewUnitServer starts a server that emulates four drive units, answering
// status, insert and eject. present lists the units that start occupied.
func NewUnitServer(t *testing.T, present ...int) *Server {
	t.Helper()
	units := NewUnits(present...)
	return NewServer(t, units.Handle)
}

func (s *Server) serve() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.wg.Add(1)
		go s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer s.wg.Done()
	defer func() { _ = conn.Close() }()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return
	}
	cmd := strings.TrimRight(line, "\r\n")

	s.mu.Lock()
	s.commands = append(s.commands, cmd)
	s.mu.Unlock()

	if reply := s.handler(cmd); reply != "" {
		_, _ = conn.Write([]byte(reply))
	}
	if s.holdOpen > 0 {
		time.Sleep(s.holdOpen)
	}
}

// Commands returns the command lines received so far.
func (s *Server) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...)
}

// Close stops the server and waits for open connections.
func (s *Server) Close() {
	_ = s.ln.Close()
	s.wg.Wait()
}

// Unit is the state of one emulated drive unit.
type Unit struct {
	Present  bool
	Filename string
	Writable bool
}

// Units emulates the control service's drive units.
type Units struct {
	mu    sync.Mutex
	units [4]Unit
}

// NewUnits returns four units with the listed ones occupied.
func NewUnits(present ...int) *Units {
	u := &Units{}
	for _, n := range present {
		u.units[n] = Unit{Present: true, Filename: "occupied.adf"}
	}
	return u
}

// Get returns the state of unit n.
func (u *Units) Get(n int) Unit {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.units[n]
}

// Handle answers one command.
func (u *Units) Handle(command string) string {
	u.mu.Lock()
	defer u.mu.Unlock()

	fields := strings.Fields(command)
	if len(fields) == 0 {
		return "ERR empty command"
	}

	switch fields[0] {
	case "status":
		type unitJSON struct {
			Unit     int    `json:"unit"`
			Present  bool   `json:"present"`
			Filename string `json:"filename"`
			Writable bool   `json:"writable"`
		}
		var st struct {
			Units []unitJSON `json:"units"`
		}
		for i, un := range u.units {
			st.Units = append(st.Units, unitJSON{Unit: i, Present: un.Present, Filename: un.Filename, Writable: un.Writable})
		}
		data, _ := json.Marshal(st)
		return string(data)

	case "insert":
		if len(fields) < 3 {
			return "ERR usage: insert <unit> [-rw] <path>"
		}
		n, ok := unitIndex(fields[1])
		if !ok {
			return "ERR bad unit"
		}
		rw := fields[2] == "-rw"
		path := strings.Join(fields[2:], " ")
		if rw {
			path = strings.Join(fields[3:], " ")
		}
		u.units[n] = Unit{Present: true, Filename: path, Writable: rw}
		return "OK"

	case "eject":
		if len(fields) != 2 {
			return "ERR usage: eject <unit>"
		}
		n, ok := unitIndex(fields[1])
		if !ok {
			return "ERR bad unit"
		}
		u.units[n] = Unit{}
		return "OK"
	}
	return "ERR unknown command"
}

func unitIndex(s string) (int, bool) {
	if len(s) != 1 || s[0] < '0' || s[0] > '3' {
		return 0, false
	}
	return int(s[0] - '0'), true
}
