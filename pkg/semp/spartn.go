package semp

// SPARTN state machine: preamble 0x73, a 3-byte bit-packed header
// (messageType 7 bits, payloadLength 10 bits, EAF 1 bit, crcType 2 bits,
// header CRC-4 4 bits), a TF007 byte (messageSubtype 4 bits,
// timeTagType 1 bit) that selects a 4- or 6-byte mid-header (+2 when
// EAF=1, the last of those two extension bytes carrying a 3-bit
// authentication indicator and a 3-bit embedded-application-length
// selector), the payload, an optional embedded-application segment, and a
// trailing CRC-8/16/24/32 selected by crcType over the frame excluding
// the preamble.
//
// Unlike the other protocols, SPARTN's trailing CRC is not a running
// per-byte accumulator: its width is not known until the header CRC-4 has
// validated, so it is computed once, over the buffered region, when the
// last trailing CRC byte arrives.

const (
	spartnStateHeader1 = iota
	spartnStateHeader2
	spartnStateHeader3
	spartnStateTF007
	spartnStateMidHeader
	spartnStatePayload
	spartnStateEmbedded
	spartnStateCRC
)

const (
	spartnHeaderBytes       = 3
	spartnMaxMidHeaderExtra = 6 + 2
	spartnMaxPayload        = 1023 // 10-bit length field
	spartnMaxEmbedded       = 64
	spartnMaxCRCBytes       = 4
	spartnMinimumParseArea  = 1 + spartnHeaderBytes + spartnMaxMidHeaderExtra + spartnMaxPayload + spartnMaxEmbedded + spartnMaxCRCBytes
	// spartnNominalPayloadOffset is the payload offset for the smallest
	// header shape (timeTagType 0, EAF 0); the actual offset for a given
	// frame varies and is available via ParseState.SPARTNPayloadOffset.
	spartnNominalPayloadOffset = 1 + spartnHeaderBytes + 4
)

var spartnEmbeddedLengthTable = [8]int{0, 8, 12, 16, 32, 64, 0, 0}

var spartnCRCParamsByType = [4]crcParams{spartnCRC8, spartnCRC16, spartnCRC24, spartnCRC32}

type spartnScratch struct {
	headerBytes [spartnHeaderBytes]byte

	messageType    int
	messageSubtype int
	payloadLength  int
	eaf            bool
	crcType        int
	crcBytes       int
	frameCRC       byte
	timeTagType    int

	authenticationIndicator       int
	embeddedApplicationLengthBytes int
	tf007to016                    int // total mid-header bytes after TF007

	frameCount int // generic countdown reused across mid-header/payload/embedded/crc
	headerOK   bool

	transmittedCRC uint64
}

// SPARTNParser is the ready-made ParserDescription for SPARTN frames.
var SPARTNParser = &ParserDescription{
	Name:                  "SPARTN",
	Preamble:              spartnPreamble,
	Step:                  spartnStep,
	StateName:             spartnStateName,
	MinimumParseAreaBytes: spartnMinimumParseArea,
	ScratchPadBytes:       32,
	PayloadOffset:         spartnNominalPayloadOffset,
}

func spartnStateName(state int) string {
	switch state {
	case spartnStateHeader1:
		return "header1"
	case spartnStateHeader2:
		return "header2"
	case spartnStateHeader3:
		return "header3"
	case spartnStateTF007:
		return "tf007"
	case spartnStateMidHeader:
		return "midHeader"
	case spartnStatePayload:
		return "payload"
	case spartnStateEmbedded:
		return "embedded"
	case spartnStateCRC:
		return "crc"
	default:
		return "unknown"
	}
}

func spartnPreamble(ps *ParseState, b byte) bool {
	if b != 0x73 {
		return false
	}
	ps.spartnStore = spartnScratch{}
	ps.Scratch = &ps.spartnStore
	ps.State = spartnStateHeader1
	return true
}

func spartnStep(ps *ParseState, b byte) bool {
	s := ps.Scratch.(*spartnScratch)
	switch ps.State {
	case spartnStateHeader1:
		s.headerBytes[0] = b
		ps.State = spartnStateHeader2
		return true

	case spartnStateHeader2:
		s.headerBytes[1] = b
		ps.State = spartnStateHeader3
		return true

	case spartnStateHeader3:
		s.headerBytes[2] = b
		return spartnValidateHeader(ps, s, b)

	case spartnStateTF007:
		s.messageSubtype = int(b>>4) & 0xF
		s.timeTagType = int(b>>3) & 0x1
		extra := 3
		if s.timeTagType != 0 {
			extra = 5
		}
		if s.eaf {
			extra += 2
		}
		s.tf007to016 = extra + 1
		s.frameCount = extra
		reportDebug(ps, "spartn", "header accepted")
		if s.frameCount <= 0 {
			return spartnEnterPayload(ps, s)
		}
		ps.State = spartnStateMidHeader
		return true

	case spartnStateMidHeader:
		s.frameCount--
		if s.frameCount > 0 {
			return true
		}
		if s.eaf {
			s.authenticationIndicator = int(b>>3) & 0x7
			selector := int(b) & 0x7
			s.embeddedApplicationLengthBytes = spartnEmbeddedLengthTable[selector]
		}
		return spartnEnterPayload(ps, s)

	case spartnStatePayload:
		s.frameCount--
		if s.frameCount > 0 {
			return true
		}
		return spartnEnterEmbedded(ps, s)

	case spartnStateEmbedded:
		s.frameCount--
		if s.frameCount > 0 {
			return true
		}
		return spartnEnterCRC(ps, s)

	case spartnStateCRC:
		s.transmittedCRC = (s.transmittedCRC << 8) | uint64(b)
		s.frameCount--
		if s.frameCount > 0 {
			return true
		}
		return spartnFinish(ps, s, b)

	default:
		return ps.restart(b)
	}
}

func spartnValidateHeader(ps *ParseState, s *spartnScratch, b byte) bool {
	combined := uint32(s.headerBytes[0])<<16 | uint32(s.headerBytes[1])<<8 | uint32(s.headerBytes[2])
	s.messageType = int(combined>>17) & 0x7F
	s.payloadLength = int(combined>>7) & 0x3FF
	s.eaf = (combined>>6)&0x1 != 0
	s.crcType = int(combined>>4) & 0x3
	s.frameCRC = byte(combined & 0xF)
	s.crcBytes = s.crcType + 1

	check := [spartnHeaderBytes]byte{s.headerBytes[0], s.headerBytes[1], s.headerBytes[2] & 0xF0}
	computed := uint32(spartnHeaderCRC4.crcCompute(check[:]))
	if !checkCRC(ps, "spartn", computed == uint32(s.frameCRC), uint32(s.frameCRC), computed, 4) {
		return ps.restart(b)
	}
	s.headerOK = true
	ps.State = spartnStateTF007
	return true
}

func spartnEnterPayload(ps *ParseState, s *spartnScratch) bool {
	s.frameCount = s.payloadLength
	if s.frameCount <= 0 {
		return spartnEnterEmbedded(ps, s)
	}
	ps.State = spartnStatePayload
	return true
}

func spartnEnterEmbedded(ps *ParseState, s *spartnScratch) bool {
	s.frameCount = s.embeddedApplicationLengthBytes
	if s.frameCount <= 0 {
		return spartnEnterCRC(ps, s)
	}
	ps.State = spartnStateEmbedded
	return true
}

func spartnEnterCRC(ps *ParseState, s *spartnScratch) bool {
	s.transmittedCRC = 0
	s.frameCount = s.crcBytes
	ps.State = spartnStateCRC
	return true
}

func spartnFinish(ps *ParseState, s *spartnScratch, b byte) bool {
	params := spartnCRCParamsByType[s.crcType]
	body := ps.Buffer[1 : ps.Length-s.crcBytes]
	computed := params.crcCompute(body)
	ok := computed == s.transmittedCRC
	if !checkCRC(ps, "spartn", ok, uint32(s.transmittedCRC), uint32(computed), s.crcBytes*8) {
		return ps.restart(b)
	}
	ps.EOMCallback(ps, ps.Type)
	ps.finish()
	return true
}

// SPARTNPayloadOffset returns the actual payload offset for the frame
// currently being delivered, which varies with timeTagType and EAF.
// Valid only from within EOMCallback while ps.Type identifies
// SPARTNParser.
func (ps *ParseState) SPARTNPayloadOffset() int {
	s := ps.Scratch.(*spartnScratch)
	return 1 + spartnHeaderBytes + s.tf007to016
}

// SPARTNHeader exposes the decoded header fields of the frame currently
// being delivered. Valid only from within EOMCallback while ps.Type
// identifies SPARTNParser.
func (ps *ParseState) SPARTNHeader() (messageType, messageSubtype, crcType int, eaf bool) {
	s := ps.Scratch.(*spartnScratch)
	return s.messageType, s.messageSubtype, s.crcType, s.eaf
}
