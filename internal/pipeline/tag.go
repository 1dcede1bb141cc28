package pipeline

import (
	"strings"

	"github.com/cristinamerisoiu/cv-chatbot/internal/domain"
)

// tagRule maps lexical cues to one tag. Cues are diacritic-free
// lowercase fragments tested by containment against the normalized query.
type tagRule struct {
	tag  domain.Tag
	cues []string
}

// Entity rules come first: a query about one specific engagement must be
// scoped to it even when it also mentions a section word. Within each
// group the first matching rule wins.
var tagRules = []tagRule{
	{domain.TagEndava, []string{"endava"}},
	{domain.TagTelekom, []string{"telekom"}},
	{domain.TagSkills, []string{"skill", "technolog", "tehnologi", "tools", "stack", "fahigkeiten", "kenntnisse", "competente"}},
	{domain.TagEducation, []string{"education", "degree", "university", "studied", "studium", "ausbildung", "universitat", "facultate", "studii", "educatie"}},
	{domain.TagCertifications, []string{"certif", "zertifi", "course", "kurs", "training"}},
	{domain.TagExperience, []string{"experience", "career", "worked", "jobs", "employer", "erfahrung", "karriere", "gearbeitet", "arbeitgeber", "experienta", "cariera", "lucrat"}},
	{domain.TagSummary, []string{"who is", "about her", "summary", "profile", "wer ist", "cine este", "despre ea"}},
}

// DetectTag classifies the normalized query into one tag from the closed
// set, or ok=false for open scope (retrieval unrestricted).
func DetectTag(normalized string) (domain.Tag, bool) {
	for _, rule := range tagRules {
		for _, cue := range rule.cues {
			if strings.Contains(normalized, cue) {
				return rule.tag, true
			}
		}
	}
	return domain.TagNone, false
}
