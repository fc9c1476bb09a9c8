// README: Control-character sanitization for extracted PDF text.
package pdfdoc

import "strings"

// SanitizeText removes NUL and other C0 control characters from extracted
// text, keeping tab/newline/carriage return. The persistence layer rejects
// NUL bytes, so this must run before anything downstream sees the text.
func SanitizeText(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\n', '\r':
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
