package pipeline

import (
	"errors"
	"math"
	"sort"

	"github.com/cristinamerisoiu/cv-chatbot/internal/domain"
)

// ErrScopeEmpty is the explicit out-of-scope outcome: a tag filter was
// requested and the corpus holds no chunk with that tag. Callers must
// never fall back to unrestricted retrieval on this error: once a query
// is recognized as being about one entity or section, answers must not
// leak content from other entities or sections.
var ErrScopeEmpty = errors.New("no chunks in scope")

// simEpsilon floors the cosine denominator so degenerate all-zero
// vectors score 0 instead of dividing by zero.
const simEpsilon = 1e-9

// CosineSim returns the cosine of the angle between a and b in [-1, 1].
// Vectors of unequal length are compared over their common prefix.
func CosineSim(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	denom := math.Sqrt(na) * math.Sqrt(nb)
	if denom < simEpsilon {
		denom = simEpsilon
	}
	return dot / denom
}

// Rank scores every corpus chunk against the query embedding and returns
// the topK highest-scoring chunks, ties broken by corpus order. When
// tagFilter is set the corpus is restricted BEFORE scoring; an empty
// restricted set yields ErrScopeEmpty.
func Rank(queryVec []float32, corpus []domain.KnowledgeChunk, tagFilter domain.Tag, topK int) ([]ScoredChunk, error) {
	scope := corpus
	if tagFilter != domain.TagNone {
		scope = make([]domain.KnowledgeChunk, 0, len(corpus))
		for _, c := range corpus {
			if c.Tag == tagFilter {
				scope = append(scope, c)
			}
		}
		if len(scope) == 0 {
			return nil, ErrScopeEmpty
		}
	}

	scored := make([]ScoredChunk, 0, len(scope))
	for _, c := range scope {
		scored = append(scored, ScoredChunk{Chunk: c, Score: CosineSim(queryVec, c.Embedding)})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if topK > 0 && len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}
