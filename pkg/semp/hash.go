package semp

// Unicore "hash" sentence state machine:
// #NAME,...*HH<CR><LF> (2-nibble XOR checksum, identical arithmetic to
// NMEA) or #NAME,...*HHHHHHHH<CR><LF> (8-nibble reflected CRC-32 over
// everything between '#' and '*' exclusive) when the sentence name is
// exactly "VERSION" (case-insensitive exact match against the full
// sentence name, not a substring test).

const (
	hashStateFindFirstComma = iota
	hashStateFindAsterisk
	hashStateChecksum
	hashStateTrailer1
	hashStateTrailer2
)

const (
	hashMaxNameLen        = 15
	hashMinimumParseArea  = 145
	hashTrailerReserveXOR = 6  // "*HH\r\n\0"
	hashTrailerReserveCRC = 12 // "*HHHHHHHH\r\n\0"
)

type hashScratch struct {
	name           [hashMaxNameLen + 1]byte
	nameLen        int
	checksumBytes  int // 2 (XOR) or 8 (CRC-32)
	bytesRemaining int
	checksumHex    uint32
	bodyStart      int  // index into ps.Buffer of the first byte after '#'
	trailerFirst   byte
}

// HashParser is the ready-made ParserDescription for Unicore hash
// sentences.
var HashParser = &ParserDescription{
	Name:                  "Unicore-Hash",
	Preamble:              hashPreamble,
	Step:                  hashStep,
	StateName:             hashStateName,
	MinimumParseAreaBytes: hashMinimumParseArea,
	ScratchPadBytes:       20,
	PayloadOffset:         0,
}

func hashStateName(state int) string {
	switch state {
	case hashStateFindFirstComma:
		return "findFirstComma"
	case hashStateFindAsterisk:
		return "findAsterisk"
	case hashStateChecksum:
		return "checksum"
	case hashStateTrailer1:
		return "trailer1"
	case hashStateTrailer2:
		return "trailer2"
	default:
		return "unknown"
	}
}

func hashPreamble(ps *ParseState, b byte) bool {
	if b != '#' {
		return false
	}
	ps.hashStore = hashScratch{bodyStart: ps.Length}
	ps.Scratch = &ps.hashStore
	ps.State = hashStateFindFirstComma
	return true
}

func hashIsVersion(name []byte) bool {
	if len(name) != len("VERSION") {
		return false
	}
	for i, c := range []byte("VERSION") {
		got := name[i]
		if got >= 'a' && got <= 'z' {
			got -= 'a' - 'A'
		}
		if got != c {
			return false
		}
	}
	return true
}

func hashStep(ps *ParseState, b byte) bool {
	s := ps.Scratch.(*hashScratch)
	switch ps.State {
	case hashStateFindFirstComma:
		if b == ',' {
			if s.nameLen == 0 {
				reportFraming(ps, "hash", "empty sentence name")
				return ps.restart(b)
			}
			if hashIsVersion(s.name[:s.nameLen]) {
				s.checksumBytes = 8
			} else {
				s.checksumBytes = 2
			}
			ps.Crc ^= uint32(b)
			ps.State = hashStateFindAsterisk
			return true
		}
		if !isAlnum(b) {
			reportFraming(ps, "hash", "invalid character in sentence name")
			return ps.restart(b)
		}
		if s.nameLen >= hashMaxNameLen {
			reportFraming(ps, "hash", "sentence name too long")
			return ps.restart(b)
		}
		s.name[s.nameLen] = b
		s.nameLen++
		ps.Crc ^= uint32(b)
		return true

	case hashStateFindAsterisk:
		if b == '*' {
			s.bytesRemaining = s.checksumBytes
			s.checksumHex = 0
			ps.State = hashStateChecksum
			return true
		}
		if ps.HashAbortOnNonprintable && !isPrintable(b) {
			reportFraming(ps, "hash", "non-printable byte in sentence body")
			return ps.restart(b)
		}
		reserve := hashTrailerReserveXOR
		if s.checksumBytes == 8 {
			reserve = hashTrailerReserveCRC
		}
		if len(ps.Buffer)-ps.Length < reserve {
			reportFraming(ps, "hash", "sentence too long for buffer")
			return ps.restart(b)
		}
		ps.Crc ^= uint32(b)
		return true

	case hashStateChecksum:
		v, ok := hexNibble(b)
		if !ok {
			reportFraming(ps, "hash", "invalid checksum hex digit")
			return ps.restart(b)
		}
		s.checksumHex = s.checksumHex<<4 | uint32(v)
		s.bytesRemaining--
		if s.bytesRemaining > 0 {
			return true
		}
		var ok2 bool
		var expected uint32
		var bits int
		if s.checksumBytes == 8 {
			bodyEnd := ps.Length - 1 - 8 // index of '*'
			expected = CRC32Reflected(ps.Buffer[s.bodyStart:bodyEnd])
			ok2 = expected == s.checksumHex
			bits = 32
		} else {
			expected = ps.Crc & 0xFF
			ok2 = expected == s.checksumHex
			bits = 8
		}
		if !checkCRC(ps, "hash", ok2, expected, s.checksumHex, bits) {
			return ps.restart(b)
		}
		hashAccept(ps)
		ps.State = hashStateTrailer1
		return true

	case hashStateTrailer1:
		if b != '\r' && b != '\n' {
			return ps.restart(b)
		}
		s.trailerFirst = b
		ps.State = hashStateTrailer2
		return true

	case hashStateTrailer2:
		complement := byte('\n')
		if s.trailerFirst == '\n' {
			complement = '\r'
		}
		if b == complement {
			ps.finish()
			return true
		}
		return ps.restart(b)

	default:
		return ps.restart(b)
	}
}

func hashAccept(ps *ParseState) {
	ps.Buffer[ps.Length] = '\r'
	ps.Buffer[ps.Length+1] = '\n'
	ps.Buffer[ps.Length+2] = 0
	ps.Length += 2
	ps.EOMCallback(ps, ps.Type)
	ps.Length = 0
}

// HashSentenceName returns the sentence name of the frame currently being
// delivered. Valid only from within EOMCallback while ps.Type identifies
// HashParser.
func (ps *ParseState) HashSentenceName() string {
	s := ps.Scratch.(*hashScratch)
	return string(s.name[:s.nameLen])
}
