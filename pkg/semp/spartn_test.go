package semp

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Minimal SPARTN frame: messageType 1, messageSubtype 3, timeTagType 0,
// eaf 0, crcType 0 (CRC-8 trailer), payloadLength 2, payload {0xAA, 0xBB}.
const spartnTestFrameHex = "7302010b30000000aabb7a"

func TestSPARTNHappyPath(t *testing.T) {
	var count int
	var messageType, messageSubtype, crcType int
	var eaf bool
	var payloadOffset int
	eom := func(ps *ParseState, typeIndex int) {
		count++
		messageType, messageSubtype, crcType, eaf = ps.SPARTNHeader()
		payloadOffset = ps.SPARTNPayloadOffset()
	}
	ps := newTestParser(t, []*ParserDescription{SPARTNParser}, eom)

	frame, err := hex.DecodeString(spartnTestFrameHex)
	require.NoError(t, err)

	ParseNextBytes(ps, frame)

	require.Equal(t, 1, count)
	assert.Equal(t, 1, messageType)
	assert.Equal(t, 3, messageSubtype)
	assert.Equal(t, 0, crcType)
	assert.False(t, eaf)
	assert.Equal(t, 8, payloadOffset)
}

func TestSPARTNHeaderCRC4MismatchRestarts(t *testing.T) {
	var count int
	var badCRCs int
	eom := func(ps *ParseState, typeIndex int) { count++ }
	ps := newTestParser(t, []*ParserDescription{SPARTNParser}, eom, WithBadCRC(func(*ParseState) bool {
		badCRCs++
		return true
	}))

	frame, err := hex.DecodeString(spartnTestFrameHex)
	require.NoError(t, err)
	frame[3] ^= 0x0F // corrupt the header CRC-4 nibble

	ParseNextBytes(ps, frame)

	assert.Equal(t, 0, count)
	assert.Equal(t, 1, badCRCs)
}

func TestSPARTNTrailingCRCMismatchRestarts(t *testing.T) {
	var count int
	var badCRCs int
	eom := func(ps *ParseState, typeIndex int) { count++ }
	ps := newTestParser(t, []*ParserDescription{SPARTNParser}, eom, WithBadCRC(func(*ParseState) bool {
		badCRCs++
		return true
	}))

	frame, err := hex.DecodeString(spartnTestFrameHex)
	require.NoError(t, err)
	frame[len(frame)-2] ^= 0x01 // flip a payload bit, trailing CRC-8 no longer matches

	ParseNextBytes(ps, frame)

	assert.Equal(t, 0, count)
	assert.Equal(t, 1, badCRCs)
}
