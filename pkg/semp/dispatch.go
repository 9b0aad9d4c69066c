package semp

import "fmt"

// ComputeBufferOverhead returns the sizing hints BeginParser and
// GetBufferLength use to validate/compute a caller buffer: overhead (the
// bytes a parser-state-plus-scratch-pad carving would cost in a
// C struct layout), the largest MinimumParseAreaBytes across
// parsers, the largest PayloadOffset, and the largest ScratchPadBytes.
//
// This Go realization allocates ParseState and its scratch value on the
// Go heap rather than carving both out of the caller's parse-area slice,
// so overhead is always 0: the buffer BeginParser receives is exactly the
// parse area.
func ComputeBufferOverhead(parsers []*ParserDescription) (overhead, parseAreaMin, payloadOffsetMax, scratchBytes int) {
	for _, p := range parsers {
		if p.MinimumParseAreaBytes > parseAreaMin {
			parseAreaMin = p.MinimumParseAreaBytes
		}
		if p.PayloadOffset > payloadOffsetMax {
			payloadOffsetMax = p.PayloadOffset
		}
		if p.ScratchPadBytes > scratchBytes {
			scratchBytes = p.ScratchPadBytes
		}
	}
	return 0, parseAreaMin, payloadOffsetMax, scratchBytes
}

// GetBufferLength returns the buffer length BeginParser needs to hold
// desiredParseArea bytes of payload, clamped up to whatever the parser
// table itself requires (its largest frame, or its largest payload
// offset, whichever is larger), plus an error diagnostic sink for
// reporting an upward adjustment.
func GetBufferLength(parsers []*ParserDescription, desiredParseArea int, printError CharSink) int {
	overhead, parseAreaMin, payloadOffsetMax, _ := ComputeBufferOverhead(parsers)
	area := desiredParseArea
	if parseAreaMin > area {
		reportAdjustment(printError, "parse area", area, parseAreaMin)
		area = parseAreaMin
	}
	if payloadOffsetMax > area {
		reportAdjustment(printError, "parse area", area, payloadOffsetMax)
		area = payloadOffsetMax
	}
	if area < 1 {
		area = 1
	}
	return overhead + area
}

func reportAdjustment(sink CharSink, what string, from, to int) {
	if sink == nil {
		return
	}
	PrintString(sink, "semp: adjusting "+what+" up from ")
	PrintDec(sink, from)
	PrintString(sink, " to ")
	PrintDec(sink, to)
	PrintString(sink, "\n")
}

// BeginParser validates its arguments, allocates a ParseState backed by
// buffer (used verbatim as the parse area; see ComputeBufferOverhead),
// and leaves it ready to scan for a preamble.
func BeginParser(name string, parsers []*ParserDescription, buffer []byte, eomCB EOMCallback, opts ...Option) (*ParseState, error) {
	if name == "" {
		return nil, fmt.Errorf("semp: parser name must not be empty")
	}
	if len(parsers) == 0 {
		return nil, fmt.Errorf("semp: parser table must not be empty")
	}
	if buffer == nil {
		return nil, fmt.Errorf("semp: buffer must not be nil")
	}
	if eomCB == nil {
		return nil, fmt.Errorf("semp: eom callback must not be nil")
	}

	_, parseAreaMin, payloadOffsetMax, _ := ComputeBufferOverhead(parsers)
	minLen := parseAreaMin
	if payloadOffsetMax+1 > minLen {
		minLen = payloadOffsetMax + 1
	}
	if minLen < 1 {
		minLen = 1
	}
	if len(buffer) < minLen {
		return nil, fmt.Errorf("semp: buffer too small: need at least %d bytes (got %d)", minLen, len(buffer))
	}

	for i := range buffer {
		buffer[i] = 0
	}

	ps := &ParseState{
		ParserName:  name,
		Parsers:     parsers,
		Buffer:      buffer,
		EOMCallback: eomCB,
		Type:        len(parsers),
	}
	for _, opt := range opts {
		opt(ps)
	}
	return ps, nil
}

// StopParser detaches the caller's handle. Storage ownership of the
// buffer passed to BeginParser remains with the caller.
func StopParser(ps **ParseState) {
	*ps = nil
}

// ParseNextByte pushes one byte through the parser: buffer-overflow
// recovery, per-byte buffering, CRC bookkeeping, and dispatch into
// either preamble search or the active protocol's Step function.
func ParseNextByte(ps *ParseState, b byte) {
	if ps.searching() {
		firstByte(ps, b)
		return
	}

	if ps.Length == len(ps.Buffer) {
		reportTooLong(ps.PrintError, ps.Length)
		ps.discard(ps.Buffer[:ps.Length])
		firstByte(ps, b)
		return
	}

	ps.Buffer[ps.Length] = b
	ps.Length++
	if ps.ComputeCRC != nil {
		ps.Crc = ps.ComputeCRC(ps, b)
	}
	ps.active().Step(ps, b)
}

// ParseNextBytes pushes a run of bytes through the parser in order.
func ParseNextBytes(ps *ParseState, data []byte) {
	for _, b := range data {
		ParseNextByte(ps, b)
	}
}

func reportTooLong(sink CharSink, length int) {
	if sink == nil {
		return
	}
	PrintString(sink, "semp: message too long at ")
	PrintDec(sink, length)
	PrintString(sink, " bytes, discarding\n")
}

// firstByte resets all per-message state and offers b to every parser's
// preamble in table order, stopping at the first acceptance. It is both
// the initial state (ParseState.Type == len(Parsers)) and the direct
// recovery entry point called by ParseState.restart, so it must be fully
// self-contained: it does not assume the generic per-byte bookkeeping in
// ParseNextByte already ran for b.
func firstByte(ps *ParseState, b byte) bool {
	ps.Crc = 0
	ps.ComputeCRC = nil
	ps.Length = 0
	ps.Buffer[0] = b
	ps.Length = 1

	for i, p := range ps.Parsers {
		ps.Type = i
		if p.Preamble(ps, b) {
			return true
		}
	}

	ps.discard(ps.Buffer[:ps.Length])
	ps.Type = len(ps.Parsers)
	return false
}
