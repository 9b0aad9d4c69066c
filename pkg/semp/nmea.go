package semp

// NMEA state machine: $NAME,...*HH<CR><LF>, XOR checksum of every byte
// strictly between '$' and '*'. Name is up to 15 [A-Za-z0-9] characters
// terminated by the first comma.

const (
	nmeaStateFindFirstComma = iota
	nmeaStateFindAsterisk
	nmeaStateChecksum1
	nmeaStateChecksum2
	nmeaStateTrailer1
	nmeaStateTrailer2
)

const (
	nmeaMaxNameLen         = 15
	nmeaMinimumParseArea   = 82
	nmeaTrailerReserveBytes = 6 // room for "*HH\r\n\0" from the current byte onward
)

type nmeaScratch struct {
	name         [nmeaMaxNameLen + 1]byte
	nameLen      int
	checksumHi   byte
	trailerFirst byte
}

// NMEAParser is the ready-made ParserDescription for NMEA sentences.
var NMEAParser = &ParserDescription{
	Name:                   "NMEA",
	Preamble:               nmeaPreamble,
	Step:                   nmeaStep,
	StateName:              nmeaStateName,
	MinimumParseAreaBytes:  nmeaMinimumParseArea,
	ScratchPadBytes:        18,
	PayloadOffset:          0,
}

func nmeaStateName(state int) string {
	switch state {
	case nmeaStateFindFirstComma:
		return "findFirstComma"
	case nmeaStateFindAsterisk:
		return "findAsterisk"
	case nmeaStateChecksum1:
		return "checksum1"
	case nmeaStateChecksum2:
		return "checksum2"
	case nmeaStateTrailer1:
		return "trailer1"
	case nmeaStateTrailer2:
		return "trailer2"
	default:
		return "unknown"
	}
}

func nmeaPreamble(ps *ParseState, b byte) bool {
	if b != '$' {
		return false
	}
	ps.nmeaStore = nmeaScratch{}
	ps.Scratch = &ps.nmeaStore
	ps.State = nmeaStateFindFirstComma
	return true
}

func nmeaStep(ps *ParseState, b byte) bool {
	s := ps.Scratch.(*nmeaScratch)
	switch ps.State {
	case nmeaStateFindFirstComma:
		if b == ',' {
			if s.nameLen == 0 {
				reportFraming(ps, "nmea", "empty sentence name")
				return ps.restart(b)
			}
			ps.Crc ^= uint32(b)
			ps.State = nmeaStateFindAsterisk
			return true
		}
		if !isAlnum(b) {
			reportFraming(ps, "nmea", "invalid character in sentence name")
			return ps.restart(b)
		}
		if s.nameLen >= nmeaMaxNameLen {
			reportFraming(ps, "nmea", "sentence name too long")
			return ps.restart(b)
		}
		s.name[s.nameLen] = b
		s.nameLen++
		ps.Crc ^= uint32(b)
		return true

	case nmeaStateFindAsterisk:
		if b == '*' {
			ps.State = nmeaStateChecksum1
			return true
		}
		if ps.NMEAAbortOnNonprintable && !isPrintable(b) {
			reportFraming(ps, "nmea", "non-printable byte in sentence body")
			return ps.restart(b)
		}
		if len(ps.Buffer)-ps.Length < nmeaTrailerReserveBytes {
			reportFraming(ps, "nmea", "sentence too long for buffer")
			return ps.restart(b)
		}
		ps.Crc ^= uint32(b)
		return true

	case nmeaStateChecksum1:
		v, ok := hexNibble(b)
		if !ok {
			reportFraming(ps, "nmea", "invalid checksum hex digit")
			return ps.restart(b)
		}
		s.checksumHi = v
		ps.State = nmeaStateChecksum2
		return true

	case nmeaStateChecksum2:
		v, ok := hexNibble(b)
		if !ok {
			reportFraming(ps, "nmea", "invalid checksum hex digit")
			return ps.restart(b)
		}
		checksum := uint32(s.checksumHi<<4 | v)
		if !checkCRC(ps, "nmea", checksum == (ps.Crc&0xFF), ps.Crc&0xFF, checksum, 8) {
			return ps.restart(b)
		}
		nmeaAccept(ps)
		ps.State = nmeaStateTrailer1
		return true

	case nmeaStateTrailer1:
		if b != '\r' && b != '\n' {
			return ps.restart(b)
		}
		s.trailerFirst = b
		ps.State = nmeaStateTrailer2
		return true

	case nmeaStateTrailer2:
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

// nmeaAccept synthesizes the CRLF trailer (capacity for which is
// guaranteed by the nmeaTrailerReserveBytes lookahead check above),
// invokes EOMCallback, then resets Length to 0 rather than routing
// through firstByte: subsequent CR/LF bytes are counted into a fresh,
// otherwise-empty buffer.
func nmeaAccept(ps *ParseState) {
	ps.Buffer[ps.Length] = '\r'
	ps.Buffer[ps.Length+1] = '\n'
	ps.Buffer[ps.Length+2] = 0
	ps.Length += 2
	ps.EOMCallback(ps, ps.Type)
	ps.Length = 0
}

// NMEASentenceName returns the sentence name (e.g. "GPRMC") of the frame
// currently being delivered. Valid only from within EOMCallback while
// ps.Type identifies NMEAParser.
func (ps *ParseState) NMEASentenceName() string {
	s := ps.Scratch.(*nmeaScratch)
	return string(s.name[:s.nameLen])
}
