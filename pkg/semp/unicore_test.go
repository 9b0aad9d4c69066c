package semp

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unicoreTestFrame(t *testing.T) []byte {
	t.Helper()
	frame, err := hex.DecodeString("aa44b5000000000000040000000000000000000000000000000000010203046260f4d8")
	require.NoError(t, err)
	require.Len(t, frame, 35)
	return frame
}

func TestUnicoreBinaryHappyPath(t *testing.T) {
	var count int
	var length int
	eom := func(ps *ParseState, typeIndex int) {
		count++
		length = ps.Length
	}
	ps := newTestParser(t, []*ParserDescription{UnicoreParser}, eom)

	ParseNextBytes(ps, unicoreTestFrame(t))

	require.Equal(t, 1, count)
	assert.Equal(t, 35, length)
}

func TestUnicoreBinaryPayloadByteFlipRejected(t *testing.T) {
	var count int
	var badCRCs int
	eom := func(ps *ParseState, typeIndex int) { count++ }
	ps := newTestParser(t, []*ParserDescription{UnicoreParser}, eom, WithBadCRC(func(*ParseState) bool {
		badCRCs++
		return true
	}))

	frame := unicoreTestFrame(t)
	frame[28] ^= 0x01 // flip a bit inside the payload
	ParseNextBytes(ps, frame)

	assert.Equal(t, 0, count)
	assert.Equal(t, 1, badCRCs)
}

func TestUnicoreBinaryZeroLengthPayload(t *testing.T) {
	var count int
	eom := func(ps *ParseState, typeIndex int) { count++ }
	ps := newTestParser(t, []*ParserDescription{UnicoreParser}, eom)

	frame := unicoreTestFrame(t)
	// Rewrite the length field (header offset 6, buffer offset 9) to zero
	// and drop the payload, recomputing the trailing CRC over the
	// zero-length frame.
	header := make([]byte, 27)
	copy(header, frame[:27])
	header[9] = 0
	header[10] = 0

	crc := CRC32ReflectedUpdate(0, header[0])
	for _, b := range header[1:] {
		crc = CRC32ReflectedUpdate(crc, b)
	}
	crcBytes := []byte{byte(crc), byte(crc >> 8), byte(crc >> 16), byte(crc >> 24)}

	ParseNextBytes(ps, append(header, crcBytes...))
	assert.Equal(t, 1, count)
}
