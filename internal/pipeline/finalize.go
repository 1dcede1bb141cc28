package pipeline

import (
	"regexp"
	"strings"
)

// PersonaSubject is the third-person subject substituted for first-person
// forms the generator may leak despite its instructions.
const PersonaSubject = "Cristina"

// TruncationMarker is appended when the word cap cuts an answer short.
const TruncationMarker = " …"

// personRewrites are applied in order; longer forms first so "I am" is
// not mangled by the bare "I" rule.
var personRewrites = []struct {
	re          *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)\bI am\b`), PersonaSubject + " is"},
	{regexp.MustCompile(`(?i)\bI'm\b`), PersonaSubject + " is"},
	{regexp.MustCompile(`(?i)\bI have\b`), "she has"},
	{regexp.MustCompile(`(?i)\bI've\b`), "she has"},
	{regexp.MustCompile(`(?i)\bI was\b`), "she was"},
	{regexp.MustCompile(`(?i)\bI will\b`), "she will"},
	{regexp.MustCompile(`(?i)\bI'll\b`), "she will"},
	{regexp.MustCompile(`(?i)\bmyself\b`), "herself"},
	{regexp.MustCompile(`(?i)\bmine\b`), "hers"},
	{regexp.MustCompile(`(?i)\bmy\b`), "her"},
	{regexp.MustCompile(`\bI\b`), "she"},
	{regexp.MustCompile(`(?i)\bme\b`), "her"},
}

// Finalize applies the two output-normalization passes: third-person
// enforcement and the hard word cap. Both are pure string transforms;
// text already within maxWords and free of first-person forms passes
// through unchanged apart from trimming.
func Finalize(text string, maxWords int) string {
	return capWords(enforceThirdPerson(strings.TrimSpace(text)), maxWords)
}

func enforceThirdPerson(text string) string {
	for _, r := range personRewrites {
		text = r.re.ReplaceAllString(text, r.replacement)
	}
	return text
}

func capWords(text string, maxWords int) string {
	if maxWords <= 0 {
		return text
	}
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return text
	}
	return strings.Join(words[:maxWords], " ") + TruncationMarker
}
