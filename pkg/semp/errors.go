package semp

// Error taxonomy: configuration errors are returned from
// BeginParser as Go errors (see dispatch.go). Everything below is
// in-stream and is never fatal — it is reported to PrintError (when set)
// and the parser recovers by dropping back to preamble search. These
// helpers are the shared vocabulary the protocol state machines (nmea.go,
// hash.go, rtcm.go, ublox.go, unicore.go, sbf.go, spartn.go) report
// through.

func reportFraming(ps *ParseState, protocol, reason string) {
	if ps.PrintError == nil {
		return
	}
	PrintString(ps.PrintError, "semp: ")
	PrintString(ps.PrintError, protocol)
	PrintString(ps.PrintError, ": ")
	PrintString(ps.PrintError, reason)
	PrintString(ps.PrintError, "\n")
}

func reportCRCMismatch(ps *ParseState, protocol string, expected, got uint32, bits int) {
	if ps.PrintError == nil {
		return
	}
	digits := bits / 4
	PrintString(ps.PrintError, "semp: ")
	PrintString(ps.PrintError, protocol)
	PrintString(ps.PrintError, ": bad crc, expected 0x")
	PrintHex(ps.PrintError, expected, digits)
	PrintString(ps.PrintError, " got 0x")
	PrintHex(ps.PrintError, got, digits)
	PrintString(ps.PrintError, "\n")
}

func reportDebug(ps *ParseState, protocol, reason string) {
	if !ps.VerboseDebug || ps.DebugOutput == nil {
		return
	}
	PrintString(ps.DebugOutput, "semp: ")
	PrintString(ps.DebugOutput, protocol)
	PrintString(ps.DebugOutput, ": ")
	PrintString(ps.DebugOutput, reason)
	PrintString(ps.DebugOutput, "\n")
}

// checkCRC applies the shared "validate before eom_callback, honor
// BadCRC override" rule. It returns true when the frame should be
// delivered.
func checkCRC(ps *ParseState, protocol string, ok bool, expected, got uint32, bits int) bool {
	if ok {
		return true
	}
	reportCRCMismatch(ps, protocol, expected, got, bits)
	if ps.BadCRC != nil {
		return !ps.BadCRC(ps)
	}
	return false
}
