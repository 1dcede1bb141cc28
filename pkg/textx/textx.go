// Package textx provides small text utilities used across the project.
package textx

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases s, strips combining diacritical marks, collapses
// runs of whitespace to single spaces and trims. It is idempotent and is
// the canonical form every matcher compares against.
func Normalize(s string) string {
	s = strings.ToLower(s)
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}
	return strings.Join(strings.Fields(s), " ")
}

// SanitizeText removes control characters except tab/newline/CR and trims spaces.
func SanitizeText(s string) string {
	// strip control chars outside tab/newline/carriage return
	var b strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || (r >= 32 && r != 127) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// WordCount reports the number of whitespace-separated words in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
