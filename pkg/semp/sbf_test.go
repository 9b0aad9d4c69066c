package semp

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSBFHappyPath(t *testing.T) {
	var count int
	var id, rev int
	eom := func(ps *ParseState, typeIndex int) {
		count++
		id, rev = ps.SBFBlockID()
	}
	ps := newTestParser(t, []*ParserDescription{SBFParser}, eom)

	// ID 100, revision 2, length 12 (8 header + 4 payload), CRC-CCITT
	// (Kermit) of id/rev+length+payload = 0xc25e.
	frame, err := hex.DecodeString("24405ec264400c0011223344")
	require.NoError(t, err)

	ParseNextBytes(ps, frame)

	require.Equal(t, 1, count)
	assert.Equal(t, 100, id)
	assert.Equal(t, 2, rev)
}

func TestSBFLengthNotMultipleOfFourDiscarded(t *testing.T) {
	var count int
	var reasons []string
	eom := func(ps *ParseState, typeIndex int) { count++ }
	ps := newTestParser(t, []*ParserDescription{SBFParser}, eom, WithSBFInvalidData(func(data []byte) {
		reasons = append(reasons, string(data))
	}))

	// Same header, length field corrupted to 13 (not a multiple of 4).
	frame, err := hex.DecodeString("24405ec264400d0011223344")
	require.NoError(t, err)

	ParseNextBytes(ps, frame)

	assert.Equal(t, 0, count)
	assert.NotEmpty(t, reasons, "a malformed length field must invoke the SBF-specific discard callback")
}

func TestSBFBadCRCDiscarded(t *testing.T) {
	var count int
	var discarded int
	eom := func(ps *ParseState, typeIndex int) { count++ }
	ps := newTestParser(t, []*ParserDescription{SBFParser}, eom, WithSBFInvalidData(func([]byte) { discarded++ }))

	frame, err := hex.DecodeString("24405fc264400c0011223344") // crc byte flipped
	require.NoError(t, err)

	ParseNextBytes(ps, frame)

	assert.Equal(t, 0, count)
	assert.Equal(t, 1, discarded)
}
