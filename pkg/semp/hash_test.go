package semp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashVersionCRC32HappyPath(t *testing.T) {
	var name string
	var count int
	eom := func(ps *ParseState, typeIndex int) {
		count++
		name = ps.HashSentenceName()
	}
	ps := newTestParser(t, []*ParserDescription{HashParser}, eom)

	sentence := "#VERSION,40,GPS,UNKNOWN,1,1000,0,0,18,15;UM980,R4.10Build7923,HRPT00-S10C-P,2310415000001-MD22B1225023842,ff3b1e9611b3b07b,2022/09/28*b164c965\r\n"
	ParseNextBytes(ps, []byte(sentence))

	require.Equal(t, 1, count)
	assert.Equal(t, "VERSION", name)
}

func TestHashVersionSingleBitFlipRejected(t *testing.T) {
	var count int
	eom := func(ps *ParseState, typeIndex int) { count++ }
	ps := newTestParser(t, []*ParserDescription{HashParser}, eom)

	sentence := "#VERSION,40,GPS,UNKNOWN,1,1000,0,0,18,15;UM980,R4.10Build7923,HRPT00-S10C-P,2310415000001-MD22B1225023842,ff3b1e9611b3b07b,2022/09/28*b164c965\r\n"
	flipped := []byte(sentence)
	flipped[10] ^= 0x01 // flip one bit inside the body
	ParseNextBytes(ps, flipped)

	assert.Equal(t, 0, count, "a single flipped bit in the body must fail the CRC-32 check")
}

func TestHashNonVersionUsesXORChecksum(t *testing.T) {
	var count int
	var name string
	eom := func(ps *ParseState, typeIndex int) {
		count++
		name = ps.HashSentenceName()
	}
	ps := newTestParser(t, []*ParserDescription{HashParser}, eom)

	// XOR of "MODE,1" is 0x1E.
	ParseNextBytes(ps, []byte("#MODE,1*1E\r\n"))
	require.Equal(t, 1, count)
	assert.Equal(t, "MODE", name)
}
