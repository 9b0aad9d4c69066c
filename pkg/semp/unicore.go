package semp

// Unicore binary state machine: preamble AA 44 B5, 24-byte little-endian
// header, payload of messageLength bytes (header offset 6, little-
// endian), 4-byte reflected CRC-32 over everything from
// the preamble through the payload. The running CRC register includes
// the transmitted CRC bytes themselves, so a valid frame always ends
// with Crc == 0.

const (
	unicoreStateSync2 = iota
	unicoreStateSync3
	unicoreStateHeader
	unicoreStateData
	unicoreStateCRC
)

const (
	unicoreHeaderBytes       = 24
	unicoreCRCBytes          = 4
	unicoreLengthFieldOffset = 6 // within the header, little-endian uint16
	unicorePayloadOffset     = 3 + unicoreHeaderBytes
	unicoreMinimumParseArea  = unicorePayloadOffset + 4096 + unicoreCRCBytes
)

type unicoreScratch struct {
	bytesRemaining int
	savedCRC       uint32
}

// UnicoreParser is the ready-made ParserDescription for Unicore binary
// frames.
var UnicoreParser = &ParserDescription{
	Name:                  "Unicore-Binary",
	Preamble:              unicorePreamble,
	Step:                  unicoreStep,
	StateName:             unicoreStateName,
	MinimumParseAreaBytes: unicoreMinimumParseArea,
	ScratchPadBytes:       8,
	PayloadOffset:         unicorePayloadOffset,
}

func unicoreStateName(state int) string {
	switch state {
	case unicoreStateSync2:
		return "sync2"
	case unicoreStateSync3:
		return "sync3"
	case unicoreStateHeader:
		return "header"
	case unicoreStateData:
		return "data"
	case unicoreStateCRC:
		return "crc"
	default:
		return "unknown"
	}
}

func unicoreComputeCRC(ps *ParseState, b byte) uint32 {
	return CRC32ReflectedUpdate(ps.Crc, b)
}

func unicorePreamble(ps *ParseState, b byte) bool {
	if b != 0xAA {
		return false
	}
	ps.unicoreStore = unicoreScratch{}
	ps.Scratch = &ps.unicoreStore
	ps.Crc = CRC32ReflectedUpdate(0, b)
	ps.ComputeCRC = unicoreComputeCRC
	ps.State = unicoreStateSync2
	return true
}

func unicoreStep(ps *ParseState, b byte) bool {
	s := ps.Scratch.(*unicoreScratch)
	switch ps.State {
	case unicoreStateSync2:
		if b != 0x44 {
			reportFraming(ps, "unicore", "invalid second sync byte")
			return ps.restart(b)
		}
		ps.State = unicoreStateSync3
		return true

	case unicoreStateSync3:
		if b != 0xB5 {
			reportFraming(ps, "unicore", "invalid third sync byte")
			return ps.restart(b)
		}
		ps.State = unicoreStateHeader
		return true

	case unicoreStateHeader:
		if ps.Length < 3+unicoreHeaderBytes {
			return true
		}
		length := int(ps.GetU16NoOffset(3 + unicoreLengthFieldOffset))
		s.bytesRemaining = length
		reportDebug(ps, "unicore", "header accepted")
		if length == 0 {
			s.bytesRemaining = unicoreCRCBytes
			ps.State = unicoreStateCRC
			return true
		}
		ps.State = unicoreStateData
		return true

	case unicoreStateData:
		s.bytesRemaining--
		if s.bytesRemaining > 0 {
			return true
		}
		s.bytesRemaining = unicoreCRCBytes
		ps.State = unicoreStateCRC
		return true

	case unicoreStateCRC:
		s.bytesRemaining--
		if s.bytesRemaining > 0 {
			return true
		}
		if !checkCRC(ps, "unicore", ps.Crc == 0, 0, ps.Crc, 32) {
			return ps.restart(b)
		}
		ps.EOMCallback(ps, ps.Type)
		ps.finish()
		return true

	default:
		return ps.restart(b)
	}
}
