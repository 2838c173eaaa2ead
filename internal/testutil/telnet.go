package testutil

import (
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/cory-johannsen/emporium/internal/frontend/telnet"
)

// TelnetClient is a simple Telnet test client for integration testing.
// Reads are sanitized: IAC sequences and ANSI color codes are stripped so
// assertions see the plain text a player would read. Text read past a
// match is buffered, so back-to-back server writes are never lost between
// ReadUntil calls.
type TelnetClient struct {
	conn    net.Conn
	t       *testing.T
	pending string
}

// NewTelnetClient dials the given address and returns a test client.
//
// Precondition: addr must be a valid "host:port" string with a listening server.
// Postcondition: Returns a connected TelnetClient or fails the test.
func NewTelnetClient(t *testing.T, addr string) *TelnetClient {
	t.Helper()
	start := time.Now()

	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		t.Fatalf("connecting to %s: %v [%s]", addr, err, time.Since(start))
	}

	t.Cleanup(func() {
		conn.Close()
	})

	t.Logf("telnet client connected to %s [%s]", addr, time.Since(start))
	return &TelnetClient{conn: conn, t: t}
}

// ReadUntil reads data until the specified substring is found in the
// sanitized output or the timeout expires. It returns all buffered output,
// including any text read past the match; the buffer is consumed up to the
// end of the match, so a later ReadUntil can still find text that arrived
// in the same chunk.
//
// Precondition: substr must be non-empty.
// Postcondition: Returns the accumulated output containing substr, or fails on timeout.
func (c *TelnetClient) ReadUntil(substr string, timeout time.Duration) string {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))

	tmp := make([]byte, 4096)
	for {
		if i := strings.Index(c.pending, substr); i >= 0 {
			out := c.pending
			c.pending = c.pending[i+len(substr):]
			return out
		}
		n, err := c.conn.Read(tmp)
		if n > 0 {
			c.pending += telnet.StripANSI(string(telnet.FilterIAC(tmp[:n])))
		}
		if err != nil {
			c.t.Fatalf("reading until %q: got %q, error: %v", substr, c.pending, err)
		}
	}
}

// Send writes a line of text to the server, appending \r\n.
//
// Precondition: text should not contain trailing newline characters.
// Postcondition: text + \r\n is written to the connection.
func (c *TelnetClient) Send(text string) {
	c.t.Helper()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	_, err := fmt.Fprintf(c.conn, "%s\r\n", text)
	if err != nil {
		c.t.Fatalf("sending %q: %v", text, err)
	}
}

// Close closes the underlying connection.
func (c *TelnetClient) Close() {
	c.conn.Close()
}

// DrainUntilClosed reads and discards data until the server closes the
// connection or the timeout expires.
func (c *TelnetClient) DrainUntilClosed(timeout time.Duration) {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))
	buf := make([]byte, 256)
	for {
		if _, err := c.conn.Read(buf); err != nil {
			return
		}
	}
}
