package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cristinamerisoiu/cv-chatbot/internal/domain"
	"github.com/cristinamerisoiu/cv-chatbot/pkg/textx"
)

func TestDetectTag_Sections(t *testing.T) {
	cases := map[string]domain.Tag{
		"Which tools and technologies does she know?": domain.TagSkills,
		"Where did she go to university?":             domain.TagEducation,
		"Does she hold any certifications?":           domain.TagCertifications,
		"Tell me about her work experience":           domain.TagExperience,
		"Who is Cristina? Give me a summary":          domain.TagSummary,
		"Welche Fähigkeiten hat sie?":                 domain.TagSkills,
		"Unde a studiat? La ce facultate?":            domain.TagEducation,
	}
	for raw, want := range cases {
		got, ok := DetectTag(textx.Normalize(raw))
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestDetectTag_EntityBeatsSection(t *testing.T) {
	// A query naming an engagement is scoped to it even when section
	// cues are present too.
	got, ok := DetectTag(textx.Normalize("What skills did she use at Endava?"))
	assert.True(t, ok)
	assert.Equal(t, domain.TagEndava, got)

	got, ok = DetectTag(textx.Normalize("Wie war ihre Erfahrung bei der Telekom?"))
	assert.True(t, ok)
	assert.Equal(t, domain.TagTelekom, got)
}

func TestDetectTag_OpenScope(t *testing.T) {
	got, ok := DetectTag(textx.Normalize("What makes her a good colleague?"))
	assert.False(t, ok)
	assert.Equal(t, domain.TagNone, got)
}
