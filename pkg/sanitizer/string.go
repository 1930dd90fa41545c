package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims the string and collapses every whitespace run to a
// single space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeName collapses whitespace, tabs and newlines included, then drops
// the remaining control runes.
func NormalizeName(name string) string {
	return TrimAndNormalize(dropControl(TrimAndNormalize(name)))
}
