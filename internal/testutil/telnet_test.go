package testutil_test

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/emporium/internal/testutil"
)

// serveScript listens on a loopback port and answers the first connection
// with the given payloads, one Write per payload.
func serveScript(t *testing.T, payloads ...string) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		for _, p := range payloads {
			if _, err := conn.Write([]byte(p)); err != nil {
				return
			}
		}
		// Hold the connection open so reads time out rather than EOF.
		time.Sleep(5 * time.Second)
	}()
	return ln.Addr().String()
}

func TestReadUntil_BackToBackWritesSurviveAcrossCalls(t *testing.T) {
	addr := serveScript(t, "Welcome back, Tam.\r\nType 'help' for commands.\r\n")
	client := testutil.NewTelnetClient(t, addr)

	first := client.ReadUntil("Welcome back, Tam.", 2*time.Second)
	assert.Contains(t, first, "Welcome back, Tam.")

	// The second line arrived in the same chunk as the first; it must
	// still be found without another byte from the server.
	second := client.ReadUntil("Type 'help' for commands.", 2*time.Second)
	assert.Contains(t, second, "Type 'help' for commands.")
}

func TestReadUntil_ReturnsTextPastTheMatch(t *testing.T) {
	addr := serveScript(t, "Briar Glen\r\nA sleepy hamlet.\r\n")
	client := testutil.NewTelnetClient(t, addr)

	out := client.ReadUntil("Briar Glen", 2*time.Second)
	assert.Contains(t, out, "sleepy hamlet")
}

func TestReadUntil_StripsColorAndNegotiation(t *testing.T) {
	addr := serveScript(t, "\xff\xfb\x01\033[93mname>\033[0m ")
	client := testutil.NewTelnetClient(t, addr)

	out := client.ReadUntil("name>", 2*time.Second)
	assert.Equal(t, "name> ", out)
}
