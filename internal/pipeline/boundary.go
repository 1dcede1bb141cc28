package pipeline

import (
	"math/rand"
	"regexp"
	"sync"

	"github.com/cristinamerisoiu/cv-chatbot/internal/domain"
)

// BoundaryRule pairs sensitive-topic patterns with a per-language pool of
// deflection answers. Patterns are evaluated against the normalized
// (lowercase, diacritic-free) query text.
type BoundaryRule struct {
	Name      string
	Patterns  map[domain.Lang][]*regexp.Regexp
	Responses map[domain.Lang][]string
}

// BoundaryMatcher short-circuits the pipeline when a query touches a
// personal topic the persona does not discuss. The first matching rule
// wins; rules are designed to be mutually exclusive so ordering stays
// irrelevant in practice (covered by tests, not assumed).
type BoundaryMatcher struct {
	rules []BoundaryRule

	mu  sync.Mutex
	rng *rand.Rand
}

// NewBoundaryMatcher builds a matcher over the given rules with a seeded
// random source for answer-pool sampling.
func NewBoundaryMatcher(rules []BoundaryRule, seed int64) *BoundaryMatcher {
	return &BoundaryMatcher{rules: rules, rng: rand.New(rand.NewSource(seed))}
}

// Match returns a deflection answer for the first rule matching the
// normalized query, or ok=false when no sensitive topic is touched.
func (m *BoundaryMatcher) Match(normalized string, lang domain.Lang) (string, bool) {
	for _, rule := range m.rules {
		patterns := rule.Patterns[lang]
		if len(patterns) == 0 {
			patterns = rule.Patterns[domain.LangEN]
		}
		for _, re := range patterns {
			if re.MatchString(normalized) {
				return m.pick(rule.Responses, lang), true
			}
		}
	}
	return "", false
}

// Rules exposes the rule list for exclusivity tests.
func (m *BoundaryMatcher) Rules() []BoundaryRule { return m.rules }

func (m *BoundaryMatcher) pick(pools map[domain.Lang][]string, lang domain.Lang) string {
	pool := pools[lang]
	if len(pool) == 0 {
		pool = pools[domain.LangEN]
	}
	if len(pool) == 0 {
		return ""
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return pool[m.rng.Intn(len(pool))]
}

// DefaultBoundaryRules covers age, family status, children, compensation
// and contact information for all three languages.
func DefaultBoundaryRules() []BoundaryRule {
	return []BoundaryRule{
		{
			Name: "age",
			Patterns: map[domain.Lang][]*regexp.Regexp{
				domain.LangEN: compile(`\bhow old\b`, `\b(her|your) age\b`, `\byear of birth\b`, `\bborn in\b`),
				domain.LangDE: compile(`\bwie alt\b`, `\bgeburtsjahr\b`, `\bgeboren\b`),
				domain.LangRO: compile(`\bce varsta\b`, `\bcati ani are\b`, `\bvarsta ei\b`, `\bnascuta\b`),
			},
			Responses: map[domain.Lang][]string{
				domain.LangEN: {
					"Cristina keeps details like age out of professional conversations. Ask about her skills or experience instead.",
					"That one stays private. Her professional background is the interesting part anyway.",
				},
				domain.LangDE: {
					"Solche persönlichen Angaben behält Cristina für sich. Fragen Sie gern nach ihrer Berufserfahrung.",
				},
				domain.LangRO: {
					"Cristina păstrează astfel de detalii personale private. Întrebați despre experiența ei profesională.",
				},
			},
		},
		{
			Name: "family",
			Patterns: map[domain.Lang][]*regexp.Regexp{
				domain.LangEN: compile(`\bmarried\b`, `\bsingle\b`, `\brelationship\b`, `\bhusband\b`, `\bboyfriend\b`),
				domain.LangDE: compile(`\bverheiratet\b`, `\bledig\b`, `\bbeziehung\b`, `\behemann\b`, `\bfreund\b`),
				domain.LangRO: compile(`\bcasatorita\b`, `\bmaritata\b`, `\brelatie\b`, `\bsotul\b`, `\biubit\b`),
			},
			Responses: map[domain.Lang][]string{
				domain.LangEN: {
					"Family status is not something Cristina shares here. Her work history is fair game, though.",
				},
				domain.LangDE: {
					"Zum Familienstand sagt Cristina hier nichts. Zu ihrer Arbeit beantworte ich gern alles.",
				},
				domain.LangRO: {
					"Starea civilă rămâne privată. Despre munca ei vă pot răspunde oricând.",
				},
			},
		},
		{
			Name: "children",
			Patterns: map[domain.Lang][]*regexp.Regexp{
				domain.LangEN: compile(`\bchildren\b`, `\bkids\b`, `\bchild\b`),
				domain.LangDE: compile(`\bkinder\b`, `\bkind\b`),
				domain.LangRO: compile(`\bcopii\b`, `\bcopil\b`),
			},
			Responses: map[domain.Lang][]string{
				domain.LangEN: {
					"Questions about children are off the table. Happy to cover anything professional.",
				},
				domain.LangDE: {
					"Fragen zu Kindern bleiben außen vor. Beruflich beantworte ich gern alles.",
				},
				domain.LangRO: {
					"Întrebările despre copii rămân în afara discuției. Profesional, vă stau la dispoziție.",
				},
			},
		},
		{
			Name: "compensation",
			Patterns: map[domain.Lang][]*regexp.Regexp{
				domain.LangEN: compile(`\bsalary\b`, `\bcompensation\b`, `\bearn\b`, `\bwage\b`, `\bpaid\b`),
				domain.LangDE: compile(`\bgehalt\b`, `\bverdien\w*\b`, `\blohn\b`),
				domain.LangRO: compile(`\bsalariu\b`, `\bcastiga\b`, `\bplatita\b`),
			},
			Responses: map[domain.Lang][]string{
				domain.LangEN: {
					"Compensation is discussed directly with Cristina, not through me.",
					"Salary talk goes straight to Cristina. I can tell you what she brings to a team instead.",
				},
				domain.LangDE: {
					"Über Gehalt spricht Cristina direkt, nicht über mich.",
				},
				domain.LangRO: {
					"Despre salariu se discută direct cu Cristina, nu prin mine.",
				},
			},
		},
		{
			Name: "contact",
			Patterns: map[domain.Lang][]*regexp.Regexp{
				domain.LangEN: compile(`\bphone number\b`, `\bhome address\b`, `\bprivate email\b`, `\bwhere does she live\b`),
				domain.LangDE: compile(`\btelefonnummer\b`, `\bprivatadresse\b`, `\bwo wohnt\b`),
				domain.LangRO: compile(`\bnumar\w* de telefon\b`, `\badresa de acasa\b`, `\bunde locuieste\b`),
			},
			Responses: map[domain.Lang][]string{
				domain.LangEN: {
					"Private contact details are not shared here. Reach out via her LinkedIn profile instead.",
				},
				domain.LangDE: {
					"Private Kontaktdaten gibt es hier nicht. Am besten über ihr LinkedIn-Profil melden.",
				},
				domain.LangRO: {
					"Datele de contact private nu se dau aici. Cel mai simplu o găsiți pe LinkedIn.",
				},
			},
		},
	}
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(e))
	}
	return out
}
