package macro

import (
	"strings"
	"time"

	"github.com/vjeantet/jodaTime"
)

// FormatDate renders t with a joda-style pattern such as "yyyy_MM_dd" or "EEE, d MMM yyyy HH:mm".
// Text between single quotes is copied literally and '' outside a literal stands for a quote.
// An unterminated literal runs to the end of the pattern.
func FormatDate(t time.Time, pattern string) string {
	return jodaTime.Format(closeLiteral(pattern), t)
}

// closeLiteral terminates a trailing open literal, which jodaTime would read past the end of the pattern.
func closeLiteral(pattern string) string {
	for idx := 0; idx < len(pattern); idx++ {
		if pattern[idx] != '\'' {
			continue
		}

		if idx == len(pattern)-1 {
			return pattern[:idx]
		}

		if pattern[idx+1] == '\'' {
			idx++

			continue
		}

		end := strings.IndexByte(pattern[idx+1:], '\'')
		if end < 0 {
			return pattern + "'"
		}

		idx += end + 1
	}

	return pattern
}
