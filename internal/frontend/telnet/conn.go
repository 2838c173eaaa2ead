package telnet

import (
	"bufio"
	"bytes"
	"fmt"
	"net"
	"sync"
	"time"
)

// Telnet IAC (Interpret As Command) constants per RFC 854.
const (
	IAC  byte = 255
	DONT byte = 254
	DO   byte = 253
	WONT byte = 252
	WILL byte = 251
	SB   byte = 250 // sub-negotiation begin
	GA   byte = 249 // go ahead
	NOP  byte = 241
	SE   byte = 240 // sub-negotiation end

	// Telnet options.
	OptEcho            byte = 1
	OptSuppressGoAhead byte = 3
	OptLinemode        byte = 34
)

// Conn is a Telnet-aware wrapper over a TCP connection: IAC sequences are
// stripped from input, and writes carry the configured deadline. Writes
// are serialized; ReadLine assumes a single reader.
type Conn struct {
	raw    net.Conn
	reader *bufio.Reader
	mu     sync.Mutex

	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewConn wraps an open TCP connection. Zero timeouts disable deadlines.
func NewConn(raw net.Conn, readTimeout, writeTimeout time.Duration) *Conn {
	return &Conn{
		raw:          raw,
		reader:       bufio.NewReaderSize(raw, 4096),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

func (c *Conn) armWrite() {
	if c.writeTimeout > 0 {
		_ = c.raw.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
}

// Negotiate announces our side of the Telnet option exchange: we suppress
// go-ahead and otherwise leave the client in its default line mode.
func (c *Conn) Negotiate() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.armWrite()
	_, err := c.raw.Write([]byte{IAC, WILL, OptSuppressGoAhead})
	return err
}

// ReadLine returns the next line of player input without the trailing
// newline. IAC sequences and control characters (except tab) are dropped.
//
// Postcondition: returns the line read so far alongside any error,
// including io.EOF on disconnect.
func (c *Conn) ReadLine() (string, error) {
	if c.readTimeout > 0 {
		_ = c.raw.SetReadDeadline(time.Now().Add(c.readTimeout))
	}

	var line bytes.Buffer
	for {
		b, err := c.reader.ReadByte()
		if err != nil {
			return line.String(), err
		}

		switch {
		case b == IAC:
			if err := c.skipIAC(); err != nil {
				return line.String(), err
			}
		case b == '\n':
			return line.String(), nil
		case b == '\r':
			// Swallow the \n of a \r\n pair if the client sent one.
			if next, err := c.reader.Peek(1); err == nil && len(next) > 0 && next[0] == '\n' {
				_, _ = c.reader.ReadByte()
			}
			return line.String(), nil
		case b < 32 && b != '\t':
			// control character, drop
		default:
			line.WriteByte(b)
		}
	}
}

// skipIAC consumes the remainder of an IAC sequence whose leading IAC
// byte has already been read.
func (c *Conn) skipIAC() error {
	cmd, err := c.reader.ReadByte()
	if err != nil {
		return err
	}

	switch cmd {
	case WILL, WONT, DO, DONT:
		// one option byte follows
		_, err := c.reader.ReadByte()
		return err
	case SB:
		// consume until IAC SE
		for {
			b, err := c.reader.ReadByte()
			if err != nil {
				return err
			}
			if b != IAC {
				continue
			}
			next, err := c.reader.ReadByte()
			if err != nil {
				return err
			}
			if next == SE {
				return nil
			}
		}
	default:
		// escaped 0xFF, NOP, GA: nothing further to consume
		return nil
	}
}

// WriteLine sends text followed by \r\n.
func (c *Conn) WriteLine(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.armWrite()
	_, err := fmt.Fprintf(c.raw, "%s\r\n", text)
	return err
}

// Write sends raw bytes.
func (c *Conn) Write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.armWrite()
	_, err := c.raw.Write(data)
	return err
}

// WritePrompt sends a prompt without a trailing newline so the cursor
// rests beside it.
func (c *Conn) WritePrompt(prompt string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.armWrite()
	_, err := fmt.Fprint(c.raw, prompt)
	return err
}

// Close closes the underlying TCP connection.
func (c *Conn) Close() error {
	return c.raw.Close()
}

// RemoteAddr returns the client's network address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.raw.RemoteAddr()
}

// FilterIAC strips Telnet IAC sequences from a byte slice. An escaped
// IAC (IAC IAC) yields a single literal 0xFF. Useful for test clients
// that read the raw stream.
func FilterIAC(input []byte) []byte {
	out := make([]byte, 0, len(input))
	for i := 0; i < len(input); {
		if input[i] != IAC || i+1 >= len(input) {
			out = append(out, input[i])
			i++
			continue
		}
		switch cmd := input[i+1]; cmd {
		case WILL, WONT, DO, DONT:
			i += 3
		case SB:
			j := i + 2
			for j < len(input)-1 {
				if input[j] == IAC && input[j+1] == SE {
					j += 2
					break
				}
				j++
			}
			i = j
		case IAC:
			out = append(out, IAC)
			i += 2
		default:
			i += 2
		}
	}
	return out
}
