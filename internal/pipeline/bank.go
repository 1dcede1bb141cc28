package pipeline

import (
	"math/rand"
	"strings"
	"sync"

	"github.com/cristinamerisoiu/cv-chatbot/internal/domain"
	"github.com/cristinamerisoiu/cv-chatbot/pkg/textx"
)

// AnswerBank matches queries against the canned interview clusters and
// serves one candidate answer at random on a hit, bypassing retrieval.
//
// Policy (applied uniformly): when a cluster matches but the detected
// language's answer pool is empty, the baseline-language pool is used.
// The answer language never switches silently otherwise.
type AnswerBank struct {
	clusters []domain.InterviewCluster
	// triggers normalized once per cluster and language at build time
	normalized []map[domain.Lang][]string

	mu  sync.Mutex
	rng *rand.Rand
}

// NewAnswerBank builds a bank over the loaded clusters with a seeded
// random source for answer sampling. A nil/empty cluster list yields a
// bank that never matches, which is the degraded mode for a missing
// cluster file.
func NewAnswerBank(clusters []domain.InterviewCluster, seed int64) *AnswerBank {
	normalized := make([]map[domain.Lang][]string, len(clusters))
	for i, c := range clusters {
		byLang := make(map[domain.Lang][]string, len(c.Triggers))
		for lang, triggers := range c.Triggers {
			ts := make([]string, 0, len(triggers))
			for _, t := range triggers {
				if n := textx.Normalize(t); n != "" {
					ts = append(ts, n)
				}
			}
			byLang[lang] = ts
		}
		normalized[i] = byLang
	}
	return &AnswerBank{
		clusters:   clusters,
		normalized: normalized,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// Match tests substring containment between the normalized query and
// every trigger of the detected language; if nothing matches, a second
// lower-confidence pass runs against baseline-language triggers. Returns
// ok=false when no cluster matches, letting retrieval proceed.
func (b *AnswerBank) Match(normalized string, lang domain.Lang) (string, bool) {
	if i := b.findCluster(normalized, lang); i >= 0 {
		return b.pick(i, lang), true
	}
	if lang != domain.LangEN {
		if i := b.findCluster(normalized, domain.LangEN); i >= 0 {
			return b.pick(i, lang), true
		}
	}
	return "", false
}

func (b *AnswerBank) findCluster(normalized string, lang domain.Lang) int {
	for i := range b.clusters {
		for _, trigger := range b.normalized[i][lang] {
			if strings.Contains(normalized, trigger) {
				return i
			}
		}
	}
	return -1
}

func (b *AnswerBank) pick(cluster int, lang domain.Lang) string {
	pool := b.clusters[cluster].Answers[lang]
	if len(pool) == 0 {
		pool = b.clusters[cluster].Answers[domain.LangEN]
	}
	if len(pool) == 0 {
		return ""
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return pool[b.rng.Intn(len(pool))]
}
