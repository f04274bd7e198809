package diskctl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/firefly-engineering/adfctl/internal/logging"
)

// ErrorPrefix starts every response that reports a connection-level
// failure instead of a reply from the control service.
const ErrorPrefix = "error:"

// DefaultPort is the control service's default TCP port.
const DefaultPort = 23890

// DefaultTimeout is the default per-read timeout.
const DefaultTimeout = 2 * time.Second

// Endpoint addresses the control service.
type Endpoint struct {
	Host string
	Port int
	// Timeout bounds the dial and each individual read.
	Timeout time.Duration
}

// Address returns the host:port form of the endpoint.
func (e Endpoint) Address() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

func (e Endpoint) timeout() time.Duration {
	if e.Timeout <= 0 {
		return DefaultTimeout
	}
	return e.Timeout
}

// IsError reports whether resp is a connection failure returned by Send.
func IsError(resp string) bool {
	return strings.HasPrefix(resp, ErrorPrefix)
}

func errorResponse(err error) string {
	return fmt.Sprintf("%s %v", ErrorPrefix, err)
}

// Send performs one round trip: it connects, writes command followed by a
// single newline, and reads until the service closes the connection or a
// read times out. The reply is decoded leniently and trimmed.
//
// Send never returns a Go error. Failures to dial, write, or read anything
// before the timeout come back as a string starting with ErrorPrefix.
// Bytes received before a timeout are returned as the reply.
func Send(ctx context.Context, ep Endpoint, command string) string {
	timeout := ep.timeout()
	addr := ep.Address()

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		logging.Debug("control dial failed", "addr", addr, "error", err)
		return errorResponse(err)
	}
	defer func() { _ = conn.Close() }()

	// Unblock reads when ctx is cancelled before the read timeout.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
	}
	line := strings.TrimRight(command, "\r\n") + "\n"
	if _, err := io.WriteString(conn, line); err != nil {
		logging.Debug("control write failed", "addr", addr, "error", err)
		return errorResponse(err)
	}

	var (
		reply   []byte
		buf     = make([]byte, 4096)
		readErr error
	)
	for {
		_ = conn.SetReadDeadline(readDeadline(ctx, timeout))
		n, err := conn.Read(buf)
		reply = append(reply, buf[:n]...)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				readErr = err
			}
			break
		}
	}

	logging.Debug("control command", "addr", addr, "command", strings.TrimSpace(command), "bytes", len(reply))

	if readErr != nil && len(reply) == 0 {
		return errorResponse(readErr)
	}
	return decode(reply)
}

func readDeadline(ctx context.Context, timeout time.Duration) time.Time {
	d := time.Now().Add(timeout)
	if cd, ok := ctx.Deadline(); ok && cd.Before(d) {
		return cd
	}
	return d
}

// decode converts a reply to text, replacing invalid UTF-8 sequences.
func decode(b []byte) string {
	return strings.TrimSpace(strings.ToValidUTF8(string(b), "\uFFFD"))
}
