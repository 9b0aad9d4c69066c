package semp

import "math"

// Typed payload accessors. All readers are side-effect free: repeated
// calls return identical values and none mutate ps. The plain
// readers (GetU8, GetU16, ...) read at ps.Buffer[offset + payload offset of the
// active protocol]; the NoOffset variants read at ps.Buffer[offset]
// directly. All integer/float readers use little-endian byte order,
// matching every protocol that defines payload accessors (NMEA/hash
// sentences are ASCII and have no typed payload accessors beyond
// GetString for the sentence body).

func (ps *ParseState) at(offset int) int {
	return offset + ps.payloadOffset()
}

func (ps *ParseState) GetU8(offset int) uint8   { return ps.Buffer[ps.at(offset)] }
func (ps *ParseState) GetU8NoOffset(offset int) uint8 { return ps.Buffer[offset] }

func (ps *ParseState) GetI8(offset int) int8 { return int8(ps.GetU8(offset)) }
func (ps *ParseState) GetI8NoOffset(offset int) int8 { return int8(ps.GetU8NoOffset(offset)) }

func le16(buf []byte, off int) uint16 {
	return uint16(buf[off]) | uint16(buf[off+1])<<8
}

func le32(buf []byte, off int) uint32 {
	return uint32(buf[off]) | uint32(buf[off+1])<<8 | uint32(buf[off+2])<<16 | uint32(buf[off+3])<<24
}

func le64(buf []byte, off int) uint64 {
	return uint64(le32(buf, off)) | uint64(le32(buf, off+4))<<32
}

func (ps *ParseState) GetU16(offset int) uint16         { return le16(ps.Buffer, ps.at(offset)) }
func (ps *ParseState) GetU16NoOffset(offset int) uint16 { return le16(ps.Buffer, offset) }
func (ps *ParseState) GetI16(offset int) int16          { return int16(ps.GetU16(offset)) }
func (ps *ParseState) GetI16NoOffset(offset int) int16  { return int16(ps.GetU16NoOffset(offset)) }

func (ps *ParseState) GetU32(offset int) uint32         { return le32(ps.Buffer, ps.at(offset)) }
func (ps *ParseState) GetU32NoOffset(offset int) uint32 { return le32(ps.Buffer, offset) }
func (ps *ParseState) GetI32(offset int) int32          { return int32(ps.GetU32(offset)) }
func (ps *ParseState) GetI32NoOffset(offset int) int32  { return int32(ps.GetU32NoOffset(offset)) }

func (ps *ParseState) GetU64(offset int) uint64         { return le64(ps.Buffer, ps.at(offset)) }
func (ps *ParseState) GetU64NoOffset(offset int) uint64 { return le64(ps.Buffer, offset) }
func (ps *ParseState) GetI64(offset int) int64          { return int64(ps.GetU64(offset)) }
func (ps *ParseState) GetI64NoOffset(offset int) int64  { return int64(ps.GetU64NoOffset(offset)) }

func (ps *ParseState) GetF32(offset int) float32 {
	return math.Float32frombits(ps.GetU32(offset))
}
func (ps *ParseState) GetF32NoOffset(offset int) float32 {
	return math.Float32frombits(ps.GetU32NoOffset(offset))
}

func (ps *ParseState) GetF64(offset int) float64 {
	return math.Float64frombits(ps.GetU64(offset))
}
func (ps *ParseState) GetF64NoOffset(offset int) float64 {
	return math.Float64frombits(ps.GetU64NoOffset(offset))
}

// GetString returns the zero-terminated string starting at offset
// (relative to the active protocol's payload offset). If no terminator
// is found before ps.Length, the remainder of the buffered frame is
// returned.
func (ps *ParseState) GetString(offset int) string {
	start := ps.at(offset)
	return ps.stringAt(start)
}

// GetStringNoOffset is the NoOffset counterpart of GetString.
func (ps *ParseState) GetStringNoOffset(offset int) string {
	return ps.stringAt(offset)
}

func (ps *ParseState) stringAt(start int) string {
	end := start
	for end < ps.Length && ps.Buffer[end] != 0 {
		end++
	}
	return string(ps.Buffer[start:end])
}
