package pipeline

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristinamerisoiu/cv-chatbot/internal/domain"
	"github.com/cristinamerisoiu/cv-chatbot/pkg/textx"
)

func TestBoundaryMatcher_AgeQuestionDeflects(t *testing.T) {
	m := NewBoundaryMatcher(DefaultBoundaryRules(), 1)
	answer, ok := m.Match(textx.Normalize("How old is she?"), domain.LangEN)
	require.True(t, ok)
	assert.NotEmpty(t, answer)
}

func TestBoundaryMatcher_PerLanguagePatterns(t *testing.T) {
	m := NewBoundaryMatcher(DefaultBoundaryRules(), 1)
	cases := []struct {
		raw  string
		lang domain.Lang
	}{
		{"Wie alt ist sie?", domain.LangDE},
		{"Câți ani are?", domain.LangRO},
		{"Ist sie verheiratet?", domain.LangDE},
		{"What is her salary?", domain.LangEN},
		{"Hat sie Kinder?", domain.LangDE},
		{"Care este numărul de telefon?", domain.LangRO},
	}
	for _, tc := range cases {
		answer, ok := m.Match(textx.Normalize(tc.raw), tc.lang)
		assert.True(t, ok, tc.raw)
		assert.NotEmpty(t, answer, tc.raw)
	}
}

func TestBoundaryMatcher_NoMatchPassesThrough(t *testing.T) {
	m := NewBoundaryMatcher(DefaultBoundaryRules(), 1)
	for _, raw := range []string{
		"What did she do at Endava?",
		"Which tools does she use?",
		"Tell me about her education.",
	} {
		_, ok := m.Match(textx.Normalize(raw), domain.LangEN)
		assert.False(t, ok, raw)
	}
}

// The rules must be mutually exclusive so that rule order never decides
// the outcome. Each probe below targets one topic and must match exactly
// one rule across the whole set.
func TestBoundaryRules_MutuallyExclusive(t *testing.T) {
	m := NewBoundaryMatcher(DefaultBoundaryRules(), 1)
	probes := map[string]struct {
		raw  string
		lang domain.Lang
	}{
		"age":          {"how old is she", domain.LangEN},
		"family":       {"is she married", domain.LangEN},
		"children":     {"does she have kids", domain.LangEN},
		"compensation": {"what salary does she expect", domain.LangEN},
		"contact":      {"what is her phone number", domain.LangEN},
	}
	for want, probe := range probes {
		normalized := textx.Normalize(probe.raw)
		matched := []string{}
		for _, rule := range m.Rules() {
			patterns := rule.Patterns[probe.lang]
			for _, re := range patterns {
				if re.MatchString(normalized) {
					matched = append(matched, rule.Name)
					break
				}
			}
		}
		require.Equal(t, []string{want}, matched, "probe %q", probe.raw)
	}
}

func TestBoundaryMatcher_FallsBackToBaselinePool(t *testing.T) {
	rules := []BoundaryRule{{
		Name:      "age",
		Patterns:  map[domain.Lang][]*regexp.Regexp{domain.LangEN: compile(`\bhow old\b`)},
		Responses: map[domain.Lang][]string{domain.LangEN: {"deflected"}},
	}}
	m := NewBoundaryMatcher(rules, 1)
	// German query, rule has neither German patterns nor a German pool:
	// baseline patterns and the baseline pool apply.
	answer, ok := m.Match("how old is she", domain.LangDE)
	require.True(t, ok)
	assert.Equal(t, "deflected", answer)
}
