package semp

// Diagnostic formatting helpers over a caller-supplied single-character
// output sink. None of these allocate; all are no-ops when sink is nil.
// Used only for diagnostics (PrintError/DebugOutput), never on the
// accept path.

const hexDigits = "0123456789ABCDEF"

// PrintString writes s one byte at a time.
func PrintString(sink CharSink, s string) {
	if sink == nil {
		return
	}
	for i := 0; i < len(s); i++ {
		sink(s[i])
	}
}

// PrintHex writes v as exactly digits uppercase hex nibbles, zero-padded.
func PrintHex(sink CharSink, v uint32, digits int) {
	if sink == nil {
		return
	}
	for i := digits - 1; i >= 0; i-- {
		nibble := (v >> uint(i*4)) & 0xF
		sink(hexDigits[nibble])
	}
}

// PrintDec writes v in decimal, no leading zeros, with a leading '-' for
// negative values.
func PrintDec(sink CharSink, v int) {
	if sink == nil {
		return
	}
	if v < 0 {
		sink('-')
		v = -v
	}
	if v == 0 {
		sink('0')
		return
	}
	var digits [20]byte
	n := 0
	for v > 0 {
		digits[n] = byte('0' + v%10)
		v /= 10
		n++
	}
	for i := n - 1; i >= 0; i-- {
		sink(digits[i])
	}
}
