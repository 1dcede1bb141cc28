package pipeline

import (
	"strings"

	"github.com/cristinamerisoiu/cv-chatbot/internal/domain"
	"github.com/cristinamerisoiu/cv-chatbot/pkg/textx"
)

// Language-distinctive characters. Checked on the raw (not yet
// diacritic-stripped) text, so this stage must run before any matcher
// that consumes the normalized form.
var (
	germanChars   = []rune{'ä', 'ö', 'ü', 'ß'}
	romanianChars = []rune{'ă', 'â', 'î', 'ș', 'ț', 'ş', 'ţ'}
)

// High-frequency function words that do not collide across the three
// supported languages. Matched against diacritic-free lowercase tokens.
var (
	germanWords = map[string]struct{}{
		"und": {}, "ist": {}, "nicht": {}, "wie": {}, "wo": {}, "welche": {},
		"wann": {}, "warum": {}, "hat": {}, "haben": {}, "sind": {}, "kann": {},
		"fur": {}, "uber": {}, "bitte": {}, "ihre": {}, "sie": {}, "erzahl": {},
	}
	romanianWords = map[string]struct{}{
		"este": {}, "sunt": {}, "unde": {}, "care": {}, "cand": {}, "cat": {},
		"cati": {}, "ani": {}, "despre": {}, "lucrat": {}, "vorbeste": {},
		"ce": {}, "cum": {}, "are": {}, "experienta": {}, "spune": {},
	}
)

// ClassifyLanguage determines the query language from the closed set
// {en, de, ro} with a deterministic lexical heuristic: distinctive
// diacritics first, then curated function words, defaulting to English
// when no signal fires. Total; never returns an unsupported value.
func ClassifyLanguage(text string) domain.Lang {
	lowered := strings.ToLower(text)
	for _, r := range lowered {
		for _, g := range germanChars {
			if r == g {
				return domain.LangDE
			}
		}
		for _, ro := range romanianChars {
			if r == ro {
				return domain.LangRO
			}
		}
	}

	deHits, roHits := 0, 0
	for _, tok := range tokens(textx.Normalize(text)) {
		if _, ok := germanWords[tok]; ok {
			deHits++
		}
		if _, ok := romanianWords[tok]; ok {
			roHits++
		}
	}
	switch {
	case deHits > roHits && deHits > 0:
		return domain.LangDE
	case roHits > deHits && roHits > 0:
		return domain.LangRO
	default:
		return domain.LangEN
	}
}

// tokens splits lowered text into words, trimming punctuation.
func tokens(lowered string) []string {
	fields := strings.FieldsFunc(lowered, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
	return fields
}
