// https://drafts.csswg.org/cssom/#common-serializing-idioms
package css

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Unescape resolves CSS backslash escapes (\26, \€, ...) in identifiers and
// strings.
func Unescape(escaped string) (unescaped string) {
	for i := 0; i < len(escaped); {
		r, w := utf8.DecodeRuneInString(escaped[i:])
		i += w
		switch {
		case r == '\uFFFD':
			unescaped += string('\u0000')
		case r == '\\' && i < len(escaped) && !isHexDigit(rune(escaped[i])):
			unescaped += string(escaped[i])
			i++
		case r == '\\' && i < len(escaped):
			j := i
			for ; j < i+6 && j < len(escaped) && isHexDigit(rune(escaped[j])); j++ {
			}
			r, err := strconv.ParseUint(escaped[i:j], 16, 64)
			if err != nil {
				panic(err)
			}
			unescaped, i = unescaped+string(rune(r)), j
			if i < len(escaped) && unicode.IsSpace(rune(escaped[i])) {
				i++
			}
		default:
			unescaped += string(r)
		}
	}
	return unescaped
}
