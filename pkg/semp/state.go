// Package semp implements a streaming, byte-at-a-time multi-protocol
// message parser for GNSS-oriented serial data: NMEA, Unicore "hash"
// sentences, Unicore binary, RTCM, u-blox, SBF, and SPARTN.
//
// A ParseState is fed one byte at a time via ParseNextByte. Serial I/O,
// memory allocation of the working buffer, and interpretation of payload
// fields are left to the caller; this package only identifies message
// boundaries, validates framing and checksums, and invokes EOMCallback
// once per accepted frame.
package semp

// EOMCallback is invoked exactly once per accepted frame. It may read
// ps.Buffer[0:ps.Length] and the protocol-specific scratch pad; it must
// not mutate ps and must not call ParseNextByte/ParseNextBytes on ps.
type EOMCallback func(ps *ParseState, typeIndex int)

// BadCRCCallback overrides a failed checksum/CRC validation. Returning
// true honors the failure (the frame is dropped); returning false accepts
// the frame despite the mismatch.
type BadCRCCallback func(ps *ParseState) bool

// InvalidDataCallback receives every stretch of bytes the core discards.
type InvalidDataCallback func(data []byte)

// CharSink is a single-character output sink. Diagnostic formatting in
// print.go composes atop it.
type CharSink func(b byte)

// ComputeCRCFunc is invoked on every buffered byte once a protocol has
// accepted its preamble; it returns the updated running CRC/checksum.
type ComputeCRCFunc func(ps *ParseState, b byte) uint32

// StepFunc drives a protocol's state machine for one byte once that
// protocol owns the parse (ps.Type == the protocol's index). The core
// itself ignores the bool result, but a Step may consult it when
// chaining into another state on the same byte.
type StepFunc func(ps *ParseState, b byte) bool

// PreambleFunc attempts to accept b as the first byte of this protocol
// during preamble search. It must set ps.State to the protocol's initial
// post-preamble state and return true on acceptance.
type PreambleFunc func(ps *ParseState, b byte) bool

// ParserDescription is an immutable record describing one protocol: its
// preamble-accepting entry point, its state-name resolver (diagnostics
// only), and the sizing hints BeginParser uses to validate the caller's
// buffer.
type ParserDescription struct {
	Name      string
	Preamble  PreambleFunc
	Step      StepFunc
	StateName func(state int) string

	// MinimumParseAreaBytes is the largest valid frame this protocol can
	// produce; BeginParser rejects buffers smaller than this.
	MinimumParseAreaBytes int
	// ScratchPadBytes documents the size a C scratch-pad union member for
	// this protocol would need. This Go realization allocates scratch as a
	// Go value inside ParseState rather than carving it from the caller's
	// buffer (see ComputeBufferOverhead), so this field is informational/
	// diagnostic only.
	ScratchPadBytes int
	// PayloadOffset is the byte distance from the start of the buffered
	// frame to the first payload byte, used by the typed accessors.
	PayloadOffset int
}

// ParseState is the sole mutable aggregate owned by one parser instance.
// It is created by BeginParser, mutated only by ParseNextByte/
// ParseNextBytes, and detached by StopParser. A single ParseState must
// never be driven concurrently by more than one goroutine.
type ParseState struct {
	ParserName string
	Parsers    []*ParserDescription

	// State is the current state within the protocol identified by Type.
	// Its numeric meaning is private to that protocol; the core never
	// interprets it.
	State int
	// Type is the index into Parsers of the protocol currently driving
	// the state machine, or len(Parsers) while searching for a preamble.
	Type int

	// Buffer accumulates the frame currently under construction. Length
	// counts the bytes currently held; Length <= len(Buffer) always.
	Buffer []byte
	Length int

	// Scratch holds a pointer to exactly one of the per-protocol scratch
	// structs (nmeaScratch, hashScratch, rtcmScratch, ubloxScratch,
	// unicoreScratch, sbfScratch, spartnScratch), selected and interpreted
	// solely via Type. The core never reads it.
	//
	// The structs themselves live inline below as value fields, allocated
	// once as part of ParseState by BeginParser; a protocol's Preamble
	// just points Scratch at its own field and resets it, so accepting a
	// new frame never allocates.
	Scratch interface{}

	nmeaStore    nmeaScratch
	hashStore    hashScratch
	rtcmStore    rtcmScratch
	ubloxStore   ubloxScratch
	unicoreStore unicoreScratch
	sbfStore     sbfScratch
	spartnStore  spartnScratch

	// Crc is the running CRC/checksum accumulator, reset to 0 whenever
	// the core returns to preamble search. Its bit-width meaning (8, 16,
	// 24, or 32 significant bits) is protocol-specific.
	Crc        uint32
	ComputeCRC ComputeCRCFunc

	EOMCallback EOMCallback
	BadCRC      BadCRCCallback
	InvalidData InvalidDataCallback

	// SBFInvalidData is a per-protocol override that exists independently
	// of InvalidData: SBF calls it directly on a
	// length-field violation or CRC mismatch, in addition to (not instead
	// of) whatever the global InvalidData sink sees once recovery falls
	// back through firstByte.
	SBFInvalidData InvalidDataCallback

	DebugOutput CharSink
	PrintError  CharSink

	NMEAAbortOnNonprintable bool
	HashAbortOnNonprintable bool
	VerboseDebug            bool
}

// Option configures optional ParseState behavior at BeginParser time.
type Option func(ps *ParseState)

// WithPrintError installs the error-diagnostic sink.
func WithPrintError(sink CharSink) Option {
	return func(ps *ParseState) { ps.PrintError = sink }
}

// WithDebugOutput installs the verbose-debug sink.
func WithDebugOutput(sink CharSink) Option {
	return func(ps *ParseState) { ps.DebugOutput = sink }
}

// WithBadCRC installs the bad-CRC override callback.
func WithBadCRC(cb BadCRCCallback) Option {
	return func(ps *ParseState) { ps.BadCRC = cb }
}

// WithInvalidData installs the global invalid-data sink.
func WithInvalidData(cb InvalidDataCallback) Option {
	return func(ps *ParseState) { ps.InvalidData = cb }
}

// WithNMEAAbortOnNonprintable enables aborting an NMEA sentence body on
// any byte outside 0x20-0x7E.
func WithNMEAAbortOnNonprintable() Option {
	return func(ps *ParseState) { ps.NMEAAbortOnNonprintable = true }
}

// WithHashAbortOnNonprintable is the hash-sentence equivalent of
// WithNMEAAbortOnNonprintable.
func WithHashAbortOnNonprintable() Option {
	return func(ps *ParseState) { ps.HashAbortOnNonprintable = true }
}

// WithVerboseDebug enables per-frame header-accepted diagnostics in
// SPARTN, Unicore binary, and RTCM.
func WithVerboseDebug() Option {
	return func(ps *ParseState) { ps.VerboseDebug = true }
}

// WithSBFInvalidData installs the SBF-specific invalid-data override.
func WithSBFInvalidData(cb InvalidDataCallback) Option {
	return func(ps *ParseState) { ps.SBFInvalidData = cb }
}

// searching reports whether the core is currently scanning for a
// preamble rather than driving a protocol's state machine.
func (ps *ParseState) searching() bool {
	return ps.Type == len(ps.Parsers)
}

// active returns the ParserDescription currently driving the state
// machine. It must only be called when !ps.searching().
func (ps *ParseState) active() *ParserDescription {
	return ps.Parsers[ps.Type]
}

// payloadOffset returns the active protocol's declared payload offset.
func (ps *ParseState) payloadOffset() int {
	if ps.searching() {
		return 0
	}
	return ps.active().PayloadOffset
}

// finish drops back to preamble search after a successfully delivered
// binary frame, without re-offering the frame's final (already-consumed)
// byte to preamble search the way restart does on failure.
func (ps *ParseState) finish() {
	ps.Type = len(ps.Parsers)
}

// restart drops back to preamble search and re-offers b to it: recovery
// resumes scanning on the current byte rather than the next one. It is
// the only way protocol Step/Preamble code should abandon a frame in
// progress.
func (ps *ParseState) restart(b byte) bool {
	ps.Type = len(ps.Parsers)
	firstByte(ps, b)
	return false
}

// discard hands off bytes the core is dropping to the global sink only.
// The SBF-specific override is fired separately, by sbfDiscard.
func (ps *ParseState) discard(data []byte) {
	if ps.InvalidData != nil {
		ps.InvalidData(data)
	}
}

// sbfDiscard fires the SBF-specific override, independently of discard.
func (ps *ParseState) sbfDiscard(data []byte) {
	if ps.SBFInvalidData != nil {
		ps.SBFInvalidData(data)
	}
}
