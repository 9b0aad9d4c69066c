package semp

// SBF state machine: $@ preamble (0x24 0x40), 2-byte little-endian
// expected CRC (CRC-CCITT Kermit variant), 2-byte ID/revision (13-bit
// ID + 3-bit revision, little-endian), 2-byte little-endian total
// length (must be a multiple of 4, counted over the whole block including
// the 8 header bytes), payload. The transmitted CRC covers
// ID+revision+length+payload; the running CRC restarts at 0 after the
// expected-CRC field: the generic ComputeCRC hook is installed once the
// crc2 byte has been consumed, so it folds in every byte from the ID
// field onward.

const (
	sbfStateSync2 = iota
	sbfStateCRC1
	sbfStateCRC2
	sbfStateID1
	sbfStateID2
	sbfStateLengthLSB
	sbfStateLengthMSB
	sbfStateData
)

const (
	sbfHeaderBytes      = 8 // $@ + crc(2) + id/rev(2) + length(2)
	sbfPayloadOffset    = sbfHeaderBytes
	sbfMinimumParseArea = sbfPayloadOffset + 8192
	sbfIDMask           = 0x1FFF
)

type sbfScratch struct {
	expectedCRC    uint16
	computedCRC    uint16
	sbfID          int
	sbfIDRev       int
	length         int
	bytesRemaining int
}

// SBFParser is the ready-made ParserDescription for SBF blocks.
var SBFParser = &ParserDescription{
	Name:                  "SBF",
	Preamble:              sbfPreamble,
	Step:                  sbfStep,
	StateName:             sbfStateName,
	MinimumParseAreaBytes: sbfMinimumParseArea,
	ScratchPadBytes:       16,
	PayloadOffset:         sbfPayloadOffset,
}

func sbfStateName(state int) string {
	switch state {
	case sbfStateSync2:
		return "sync2"
	case sbfStateCRC1:
		return "crc1"
	case sbfStateCRC2:
		return "crc2"
	case sbfStateID1:
		return "id1"
	case sbfStateID2:
		return "id2"
	case sbfStateLengthLSB:
		return "lengthLSB"
	case sbfStateLengthMSB:
		return "lengthMSB"
	case sbfStateData:
		return "data"
	default:
		return "unknown"
	}
}

func sbfPreamble(ps *ParseState, b byte) bool {
	if b != '$' {
		return false
	}
	ps.sbfStore = sbfScratch{}
	ps.Scratch = &ps.sbfStore
	ps.State = sbfStateSync2
	return true
}

func sbfStep(ps *ParseState, b byte) bool {
	s := ps.Scratch.(*sbfScratch)
	switch ps.State {
	case sbfStateSync2:
		if b != '@' {
			reportFraming(ps, "sbf", "invalid second sync byte")
			return ps.restart(b)
		}
		ps.State = sbfStateCRC1
		return true

	case sbfStateCRC1:
		s.expectedCRC = uint16(b)
		ps.State = sbfStateCRC2
		return true

	case sbfStateCRC2:
		s.expectedCRC |= uint16(b) << 8
		ps.Crc = 0
		ps.ComputeCRC = sbfComputeCRC
		ps.State = sbfStateID1
		return true

	case sbfStateID1:
		s.sbfID = int(b)
		ps.State = sbfStateID2
		return true

	case sbfStateID2:
		combined := s.sbfID | (int(b) << 8)
		s.sbfIDRev = combined >> 13
		s.sbfID = combined & sbfIDMask
		ps.State = sbfStateLengthLSB
		return true

	case sbfStateLengthLSB:
		s.length = int(b)
		ps.State = sbfStateLengthMSB
		return true

	case sbfStateLengthMSB:
		s.length |= int(b) << 8
		if s.length%4 != 0 {
			reportFraming(ps, "sbf", "length field not a multiple of 4")
			ps.sbfDiscard(ps.Buffer[:ps.Length])
			return ps.restart(b)
		}
		s.bytesRemaining = s.length - sbfHeaderBytes
		reportDebug(ps, "sbf", "header accepted")
		if s.bytesRemaining <= 0 {
			s.computedCRC = uint16(ps.Crc)
			if !sbfFinish(ps, s, b) {
				return ps.restart(b)
			}
			return true
		}
		ps.State = sbfStateData
		return true

	case sbfStateData:
		s.bytesRemaining--
		if s.bytesRemaining > 0 {
			return true
		}
		s.computedCRC = uint16(ps.Crc)
		if !sbfFinish(ps, s, b) {
			return ps.restart(b)
		}
		return true

	default:
		return ps.restart(b)
	}
}

func sbfComputeCRC(ps *ParseState, b byte) uint32 {
	return uint32(CRCKermitUpdate(uint16(ps.Crc), b))
}

func sbfFinish(ps *ParseState, s *sbfScratch, b byte) bool {
	ok := s.computedCRC == s.expectedCRC
	if !checkCRC(ps, "sbf", ok, uint32(s.expectedCRC), uint32(s.computedCRC), 16) {
		ps.sbfDiscard(ps.Buffer[:ps.Length])
		return false
	}
	ps.EOMCallback(ps, ps.Type)
	ps.finish()
	return true
}

// SBFBlockID returns the 13-bit block ID and 3-bit revision of the frame
// currently being delivered. Valid only from within EOMCallback while
// ps.Type identifies SBFParser.
func (ps *ParseState) SBFBlockID() (id, rev int) {
	s := ps.Scratch.(*sbfScratch)
	return s.sbfID, s.sbfIDRev
}
