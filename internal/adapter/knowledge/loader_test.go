package knowledge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristinamerisoiu/cv-chatbot/internal/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoadCorpus_Valid(t *testing.T) {
	p := writeFile(t, "knowledge.json", `[
		{"id":"c1","tag":"skills","text":"Go, Kubernetes","embedding":[0.1,0.2]},
		{"id":"c2","tag":"endava","text":"Backend work at Endava","embedding":[0.3,0.4]}
	]`)

	chunks, err := LoadCorpus(p)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, domain.TagSkills, chunks[0].Tag)
	assert.Equal(t, "c2", chunks[1].ID)
}

func TestLoadCorpus_MissingFileIsNotFound(t *testing.T) {
	_, err := LoadCorpus(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLoadCorpus_RejectsBadData(t *testing.T) {
	cases := map[string]string{
		"unknown tag":  `[{"id":"c1","tag":"hobbies","text":"x","embedding":[0.1]}]`,
		"empty text":   `[{"id":"c1","tag":"skills","text":"","embedding":[0.1]}]`,
		"no embedding": `[{"id":"c1","tag":"skills","text":"x","embedding":[]}]`,
		"missing id":   `[{"tag":"skills","text":"x","embedding":[0.1]}]`,
		"duplicate id": `[{"id":"c1","tag":"skills","text":"x","embedding":[0.1]},{"id":"c1","tag":"skills","text":"y","embedding":[0.2]}]`,
		"not json":     `{{`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadCorpus(writeFile(t, "kb.json", body))
			assert.ErrorIs(t, err, domain.ErrDataIntegrity)
		})
	}
}

func TestLoadClusters_Valid(t *testing.T) {
	p := writeFile(t, "clusters.yaml", `
clusters:
  - name: strengths
    triggers:
      en: ["greatest strength"]
      de: ["groesste staerke"]
    answers:
      en: ["Cristina's greatest strength is structured problem solving."]
      de: ["Cristinas groesste Staerke ist strukturiertes Problemloesen."]
`)

	clusters, err := LoadClusters(p)
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.Equal(t, "strengths", clusters[0].Name)
	assert.Len(t, clusters[0].Triggers[domain.LangDE], 1)
}

func TestLoadClusters_MissingFileIsNotFound(t *testing.T) {
	_, err := LoadClusters(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLoadClusters_TriggerWithoutAnswersFails(t *testing.T) {
	p := writeFile(t, "clusters.yaml", `
clusters:
  - name: broken
    triggers:
      ro: ["punct forte"]
    answers:
      en: ["only english here"]
`)

	_, err := LoadClusters(p)
	assert.ErrorIs(t, err, domain.ErrDataIntegrity)
}
