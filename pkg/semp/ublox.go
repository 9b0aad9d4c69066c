package semp

// u-blox UBX state machine: sync bytes 0xB5 0x62, class, id, 2-byte
// little-endian length, payload, 8-bit Fletcher checksum over
// class+id+length+payload (ck_a, ck_b).

const (
	ubloxStateSync2 = iota
	ubloxStateClass
	ubloxStateID
	ubloxStateLength1
	ubloxStateLength2
	ubloxStateData
	ubloxStateCKA
	ubloxStateCKB
)

const (
	ubloxPayloadOffset    = 6
	ubloxMinimumParseArea = ubloxPayloadOffset + 4096 + 2
)

type ubloxScratch struct {
	bytesRemaining int
	class          byte
	id             byte
	length         int
	ckA            byte
	ckB            byte
	ckAOK          bool
}

// UbloxParser is the ready-made ParserDescription for u-blox UBX frames.
var UbloxParser = &ParserDescription{
	Name:                  "u-blox",
	Preamble:              ubloxPreamble,
	Step:                  ubloxStep,
	StateName:             ubloxStateName,
	MinimumParseAreaBytes: ubloxMinimumParseArea,
	ScratchPadBytes:       8,
	PayloadOffset:         ubloxPayloadOffset,
}

func ubloxStateName(state int) string {
	switch state {
	case ubloxStateSync2:
		return "sync2"
	case ubloxStateClass:
		return "class"
	case ubloxStateID:
		return "id"
	case ubloxStateLength1:
		return "length1"
	case ubloxStateLength2:
		return "length2"
	case ubloxStateData:
		return "data"
	case ubloxStateCKA:
		return "ckA"
	case ubloxStateCKB:
		return "ckB"
	default:
		return "unknown"
	}
}

func ubloxFletcherUpdate(s *ubloxScratch, b byte) {
	s.ckA += b
	s.ckB += s.ckA
}

func ubloxPreamble(ps *ParseState, b byte) bool {
	if b != 0xB5 {
		return false
	}
	ps.ubloxStore = ubloxScratch{}
	ps.Scratch = &ps.ubloxStore
	ps.State = ubloxStateSync2
	return true
}

func ubloxStep(ps *ParseState, b byte) bool {
	s := ps.Scratch.(*ubloxScratch)
	switch ps.State {
	case ubloxStateSync2:
		if b != 0x62 {
			reportFraming(ps, "ublox", "invalid second sync byte")
			return ps.restart(b)
		}
		ps.State = ubloxStateClass
		return true

	case ubloxStateClass:
		s.class = b
		ubloxFletcherUpdate(s, b)
		ps.State = ubloxStateID
		return true

	case ubloxStateID:
		s.id = b
		ubloxFletcherUpdate(s, b)
		ps.State = ubloxStateLength1
		return true

	case ubloxStateLength1:
		s.length = int(b)
		ubloxFletcherUpdate(s, b)
		ps.State = ubloxStateLength2
		return true

	case ubloxStateLength2:
		s.length |= int(b) << 8
		ubloxFletcherUpdate(s, b)
		s.bytesRemaining = s.length
		reportDebug(ps, "ublox", "header accepted")
		if s.bytesRemaining == 0 {
			ps.State = ubloxStateCKA
		} else {
			ps.State = ubloxStateData
		}
		return true

	case ubloxStateData:
		ubloxFletcherUpdate(s, b)
		s.bytesRemaining--
		if s.bytesRemaining <= 0 {
			ps.State = ubloxStateCKA
		}
		return true

	case ubloxStateCKA:
		s.ckAOK = b == s.ckA
		ps.State = ubloxStateCKB
		return true

	case ubloxStateCKB:
		ok := s.ckAOK && b == s.ckB
		if !checkCRC(ps, "ublox", ok, uint32(s.ckB), uint32(b), 8) {
			return ps.restart(b)
		}
		ps.EOMCallback(ps, ps.Type)
		ps.finish()
		// u-blox resets length to zero explicitly here rather than relying
		// solely on firstByte/restart's own reset.
		ps.Length = 0
		return true

	default:
		return ps.restart(b)
	}
}

// UbloxClassID returns the class and message ID of the frame currently
// being delivered. Valid only from within EOMCallback while ps.Type
// identifies UbloxParser.
func (ps *ParseState) UbloxClassID() (class, id byte) {
	s := ps.Scratch.(*ubloxScratch)
	return s.class, s.id
}
