package semp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC24QMatchesRTCMWorkedExample(t *testing.T) {
	// CRC-24Q of "D3 00 00" is the filler frame's trailing 3 bytes.
	data := []byte{0xD3, 0x00, 0x00}
	got := CRC24Q(data)
	assert.Equal(t, uint32(0x47EA4B), got)
	assert.Equal(t, CRC24QUpdate(CRC24QUpdate(CRC24QUpdate(0, data[0]), data[1]), data[2]), got)
}

func TestCRC32ReflectedMatchesHashVersionVector(t *testing.T) {
	body := []byte("VERSION,40,GPS,UNKNOWN,1,1000,0,0,18,15;UM980,R4.10Build7923,HRPT00-S10C-P,2310415000001-MD22B1225023842,ff3b1e9611b3b07b,2022/09/28")
	got := CRC32Reflected(body)
	assert.Equal(t, uint32(0xb164c965), got)
}

func TestCRCKermitZeroRoundTrip(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	crc := CRCKermit(data)
	appended := append(append([]byte{}, data...), byte(crc), byte(crc>>8))
	var running uint16
	for _, b := range appended {
		running = CRCKermitUpdate(running, b)
	}
	assert.NotEqual(t, uint16(0), crc, "sanity: nonzero data should not checksum to zero")
	assert.Equal(t, uint16(0), running, "data followed by its little-endian CRC must leave a zero register")
}

func TestFletcherKnownSequence(t *testing.T) {
	ckA, ckB := Fletcher([]byte{0x01, 0x02, 0x03})
	var wantA, wantB byte
	for _, b := range []byte{0x01, 0x02, 0x03} {
		wantA, wantB = FletcherUpdate(wantA, wantB, b)
	}
	assert.Equal(t, wantA, ckA)
	assert.Equal(t, wantB, ckB)
}

func TestCrcComputeAgainstStandardCheckValues(t *testing.T) {
	check := []byte("123456789")

	cases := []struct {
		name   string
		params crcParams
		want   uint64
	}{
		{"CRC-16/CCITT-FALSE", crcParams{width: 16, poly: 0x1021, init: 0xFFFF, xor: 0, refin: false, refout: false}, 0x29B1},
		{"CRC-32/BZIP2", crcParams{width: 32, poly: 0x04C11DB7, init: 0xFFFFFFFF, xor: 0xFFFFFFFF, refin: false, refout: false}, 0xFC891918},
		{"CRC-4/ITU", crcParams{width: 4, poly: 0x3, init: 0, xor: 0, refin: true, refout: true}, 0x7},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.params.crcCompute(check))
		})
	}
}
