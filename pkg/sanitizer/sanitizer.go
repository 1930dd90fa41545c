package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var reInvalidIDChars = regexp.MustCompile(`[^0-9A-Za-z_\-.:]+`)

func dropControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// SanitizeID trims an identifier and strips characters that never appear in
// unit, class, extra or reservation ids. Case is preserved.
func SanitizeID(input string) string {
	p := Pipeline{
		dropControl,
		strings.TrimSpace,
		func(s string) string { return reInvalidIDChars.ReplaceAllString(s, "") },
	}
	return p.Apply(input)
}

func SanitizeSlice(values []string, strategy Strategy) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, v := range values {
		s := strategy(v)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}
