package semp

// Shared helpers for the two ASCII framings, NMEA ($NAME,...*HH\r\n) and
// Unicore hash sentences (#NAME,...*HH\r\n or #NAME,...*HHHHHHHH\r\n).

func isAlnum(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isPrintable(b byte) bool {
	return b >= 0x20 && b <= 0x7E
}

func hexNibble(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	default:
		return 0, false
	}
}
