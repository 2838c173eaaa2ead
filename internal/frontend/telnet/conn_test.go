package telnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestFilterIAC_PlainTextUntouched(t *testing.T) {
	input := []byte("buy iron dagger 2")
	assert.Equal(t, input, FilterIAC(input))
}

func TestFilterIAC_OptionNegotiations(t *testing.T) {
	cases := []struct {
		name  string
		input []byte
		want  []byte
	}{
		{"will", []byte{IAC, WILL, OptEcho, 's', 'e', 'l', 'l'}, []byte("sell")},
		{"wont", []byte{IAC, WONT, OptSuppressGoAhead, 'o', 'k'}, []byte("ok")},
		{"do mid-stream", []byte{'g', 'o', IAC, DO, OptLinemode, '!'}, []byte("go!")},
		{"dont only", []byte{IAC, DONT, OptEcho}, []byte{}},
		{"back to back", []byte{IAC, WILL, OptSuppressGoAhead, IAC, DO, OptEcho, 'h', 'i'}, []byte("hi")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FilterIAC(tc.input))
		})
	}
}

func TestFilterIAC_SubNegotiationDropped(t *testing.T) {
	input := []byte{'a', IAC, SB, 24, 0, 'x', 't', 'e', 'r', 'm', IAC, SE, 'b'}
	assert.Equal(t, []byte("ab"), FilterIAC(input))
}

func TestFilterIAC_EscapedIACSurvives(t *testing.T) {
	input := []byte{'x', IAC, IAC, 'y'}
	assert.Equal(t, []byte{'x', IAC, 'y'}, FilterIAC(input))
}

func TestFilterIAC_SoloCommandsDropped(t *testing.T) {
	assert.Equal(t, []byte("xy"), FilterIAC([]byte{'x', IAC, NOP, 'y'}))
	assert.Equal(t, []byte("xy"), FilterIAC([]byte{'x', IAC, GA, 'y'}))
}

func TestFilterIAC_TrailingIACKept(t *testing.T) {
	// A lone IAC at the end of a read has no command byte yet; it passes
	// through rather than being swallowed.
	assert.Equal(t, []byte{'a', IAC}, FilterIAC([]byte{'a', IAC}))
}

func TestFilterIAC_CleanInputPassesThrough(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		input := rapid.SliceOfN(rapid.Byte().Filter(func(b byte) bool { return b != IAC }), 0, 200).
			Draw(rt, "input")
		assert.Equal(t, input, FilterIAC(input))
	})
}

func TestFilterIAC_OutputNeverGrows(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		input := rapid.SliceOfN(rapid.Byte(), 0, 150).Draw(rt, "input")
		assert.LessOrEqual(t, len(FilterIAC(input)), len(input))
	})
}

// TestFilterIAC_StructuredStream builds a stream from known tokens (plain
// text, negotiation triples, escaped IACs) and asserts exactly the text
// and literal 0xFF bytes survive.
func TestFilterIAC_StructuredStream(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		var input, want []byte
		tokens := rapid.IntRange(0, 20).Draw(rt, "tokens")
		for i := 0; i < tokens; i++ {
			switch rapid.IntRange(0, 2).Draw(rt, "kind") {
			case 0:
				text := rapid.SliceOfN(
					rapid.Byte().Filter(func(b byte) bool { return b != IAC }), 1, 10,
				).Draw(rt, "text")
				input = append(input, text...)
				want = append(want, text...)
			case 1:
				verb := rapid.SampledFrom([]byte{WILL, WONT, DO, DONT}).Draw(rt, "verb")
				opt := rapid.SampledFrom([]byte{OptEcho, OptSuppressGoAhead, OptLinemode}).Draw(rt, "opt")
				input = append(input, IAC, verb, opt)
			case 2:
				input = append(input, IAC, IAC)
				want = append(want, IAC)
			}
		}
		assert.Equal(t, string(want), string(FilterIAC(input)))
	})
}
