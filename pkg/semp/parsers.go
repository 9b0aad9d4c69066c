package semp

// DefaultParsers returns the standard seven-protocol table, in the order
// BeginParser's preamble search tries them. Only NMEA and SBF share a
// preamble byte ('$'); NMEA comes first, so it claims every '$'.
func DefaultParsers() []*ParserDescription {
	return []*ParserDescription{
		NMEAParser,
		HashParser,
		RTCMParser,
		UbloxParser,
		SBFParser,
		UnicoreParser,
		SPARTNParser,
	}
}
