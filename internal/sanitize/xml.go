package sanitize

import "strings"

// XML drops runes that are not allowed in XML 1.0 character data.
// Tab, LF and CR are kept.
func XML(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t', r == '\n', r == '\r':
			return r
		case r < 0x20:
			return -1
		case r == 0xFFFE, r == 0xFFFF:
			return -1
		}

		return r
	}, s)
}
