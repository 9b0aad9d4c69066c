package semp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubScratch backs a toy variable-length test protocol: preamble 0xAB,
// then any run of bytes terminated by 0xFF. A well-formed frame is
// exactly 3 bytes (0xAB, one data byte, 0xFF); malformed input that never
// sees 0xFF keeps accumulating, which is what lets this stub exercise
// buffer-overflow recovery.
type stubScratch struct{}

func stubPreamble(ps *ParseState, b byte) bool {
	if b != 0xAB {
		return false
	}
	ps.Scratch = &stubScratch{}
	ps.State = 0
	return true
}

func stubStep(ps *ParseState, b byte) bool {
	if b != 0xFF {
		return true
	}
	ps.EOMCallback(ps, ps.Type)
	ps.finish()
	return true
}

func stubStateName(int) string { return "stub" }

func newStubParserTable() []*ParserDescription {
	return []*ParserDescription{{
		Name:                  "stub",
		Preamble:              stubPreamble,
		Step:                  stubStep,
		StateName:             stubStateName,
		MinimumParseAreaBytes: 3,
		ScratchPadBytes:       4,
		PayloadOffset:         0,
	}}
}

func TestBeginParserValidation(t *testing.T) {
	parsers := newStubParserTable()
	buf := make([]byte, 8)
	noop := func(*ParseState, int) {}

	_, err := BeginParser("", parsers, buf, noop)
	assert.Error(t, err)

	_, err = BeginParser("x", nil, buf, noop)
	assert.Error(t, err)

	_, err = BeginParser("x", parsers, nil, noop)
	assert.Error(t, err)

	_, err = BeginParser("x", parsers, buf, nil)
	assert.Error(t, err)

	_, err = BeginParser("x", parsers, make([]byte, 1), noop)
	assert.Error(t, err, "buffer smaller than MinimumParseAreaBytes must be rejected")

	ps, err := BeginParser("x", parsers, buf, noop)
	require.NoError(t, err)
	assert.NotNil(t, ps)
}

func TestBufferOverflowRecovery(t *testing.T) {
	// buffer_length == 3, frames are 3 bytes.
	// Feed 4 bytes of a would-be frame, then a valid 3-byte frame.
	parsers := newStubParserTable()
	buf := make([]byte, 3)

	var delivered [][]byte
	eom := func(ps *ParseState, typeIndex int) {
		frame := make([]byte, ps.Length)
		copy(frame, ps.Buffer[:ps.Length])
		delivered = append(delivered, frame)
	}

	var discardedRuns int
	ps, err := BeginParser("overflow", parsers, buf, eom, WithInvalidData(func([]byte) { discardedRuns++ }))
	require.NoError(t, err)

	// 0xAB followed by bytes that never terminate the frame before the
	// 3-byte buffer fills: the 4th byte must trigger overflow recovery.
	ParseNextBytes(ps, []byte{0xAB, 0x01, 0x02, 0x03})
	assert.GreaterOrEqual(t, discardedRuns, 1, "overflowing the 3-byte buffer must report at least once")
	assert.Empty(t, delivered, "the overflowing attempt must not deliver a frame")

	ParseNextBytes(ps, []byte{0xAB, 0x10, 0xFF})
	require.Len(t, delivered, 1)
	assert.Equal(t, []byte{0xAB, 0x10, 0xFF}, delivered[0])
}

func TestGetBufferLengthAdjustsUpward(t *testing.T) {
	parsers := newStubParserTable()
	length := GetBufferLength(parsers, 1, nil)
	assert.GreaterOrEqual(t, length, 3)
}
