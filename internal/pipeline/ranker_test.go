package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristinamerisoiu/cv-chatbot/internal/domain"
)

func TestCosineSim_SelfAndNegation(t *testing.T) {
	v := []float32{0.3, -1.2, 2.5, 0.01}
	assert.InDelta(t, 1.0, CosineSim(v, v), 1e-9)

	neg := make([]float32, len(v))
	for i := range v {
		neg[i] = -v[i]
	}
	assert.InDelta(t, -1.0, CosineSim(v, neg), 1e-9)
}

func TestCosineSim_ZeroVectorScoresZero(t *testing.T) {
	zero := []float32{0, 0, 0}
	assert.InDelta(t, 0.0, CosineSim(zero, []float32{1, 2, 3}), 1e-9)
}

func rankerCorpus() []domain.KnowledgeChunk {
	return []domain.KnowledgeChunk{
		{ID: "k1", Tag: domain.TagSkills, Embedding: []float32{1, 0, 0}},
		{ID: "k2", Tag: domain.TagEndava, Embedding: []float32{0.9, 0.1, 0}},
		{ID: "k3", Tag: domain.TagSkills, Embedding: []float32{0, 1, 0}},
		{ID: "k4", Tag: domain.TagEndava, Embedding: []float32{0.5, 0.5, 0}},
		{ID: "k5", Tag: domain.TagEducation, Embedding: []float32{0, 0, 1}},
	}
}

func TestRank_TagFilterRestrictsBeforeScoring(t *testing.T) {
	got, err := Rank([]float32{1, 0, 0}, rankerCorpus(), domain.TagEndava, 3)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, sc := range got {
		assert.Equal(t, domain.TagEndava, sc.Chunk.Tag)
	}
	// Highest score first.
	assert.Equal(t, "k2", got[0].Chunk.ID)
	assert.Equal(t, "k4", got[1].Chunk.ID)
}

func TestRank_FilteredIsSubsetOfUnrestricted(t *testing.T) {
	q := []float32{1, 0.2, 0}
	unrestricted, err := Rank(q, rankerCorpus(), domain.TagNone, 0)
	require.NoError(t, err)
	inUnrestricted := map[string]bool{}
	for _, sc := range unrestricted {
		inUnrestricted[sc.Chunk.ID] = true
	}
	filtered, err := Rank(q, rankerCorpus(), domain.TagSkills, 3)
	require.NoError(t, err)
	for _, sc := range filtered {
		assert.True(t, inUnrestricted[sc.Chunk.ID])
		assert.Equal(t, domain.TagSkills, sc.Chunk.Tag)
	}
}

func TestRank_EmptyScopeIsExplicitOutcome(t *testing.T) {
	got, err := Rank([]float32{1, 0, 0}, rankerCorpus(), domain.TagTelekom, 3)
	require.ErrorIs(t, err, ErrScopeEmpty)
	assert.Nil(t, got)
}

func TestRank_TopKAndStableTies(t *testing.T) {
	corpus := []domain.KnowledgeChunk{
		{ID: "a", Tag: domain.TagSkills, Embedding: []float32{1, 0}},
		{ID: "b", Tag: domain.TagSkills, Embedding: []float32{1, 0}},
		{ID: "c", Tag: domain.TagSkills, Embedding: []float32{2, 0}},
		{ID: "d", Tag: domain.TagSkills, Embedding: []float32{0, 1}},
	}
	got, err := Rank([]float32{1, 0}, corpus, domain.TagNone, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	// a, b and c all score 1.0: stable sort keeps corpus order.
	assert.Equal(t, "a", got[0].Chunk.ID)
	assert.Equal(t, "b", got[1].Chunk.ID)
	assert.Equal(t, "c", got[2].Chunk.ID)
}
