package pipeline

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/cristinamerisoiu/cv-chatbot/internal/domain"
)

// defaultStylePool is the fixed ordered pool of output-format
// instructions. Rotation walks it in order so repeated identical
// questions do not look templated.
var defaultStylePool = []string{
	"Answer in two compact sentences.",
	"Answer as one short paragraph with a relaxed, conversational tone.",
	"Answer with a short lead sentence followed by up to three brief bullet points.",
	"Answer in at most three sentences, starting with the most concrete fact.",
}

const entityStyleSuffix = " Keep the answer strictly about the engagement the question names."

// StyleSelector rotates through the style pool per distinct normalized
// question. This is scheduling, not randomness: given call order the
// selection is deterministic. Counters live in a TTL cache so the
// per-question map cannot grow without bound.
type StyleSelector struct {
	pool     []string
	counters *gocache.Cache
	mu       sync.Mutex
}

// NewStyleSelector builds a selector with the default pool. Counters
// idle longer than ttl are evicted; rotation for such a question simply
// restarts at the first variant.
func NewStyleSelector(ttl time.Duration) *StyleSelector {
	return &StyleSelector{
		pool:     defaultStylePool,
		counters: gocache.New(ttl, 2*ttl),
	}
}

// Next increments the rotation counter for the normalized question key
// and returns the corresponding directive. For pool size P, call P+1
// returns the same directive as call 1.
func (s *StyleSelector) Next(normalizedKey string, entity bool) domain.StyleDirective {
	s.mu.Lock()
	n := 1
	if v, ok := s.counters.Get(normalizedKey); ok {
		n = v.(int) + 1
	}
	s.counters.SetDefault(normalizedKey, n)
	s.mu.Unlock()

	variant := (n - 1) % len(s.pool)
	instruction := s.pool[variant]
	if entity {
		instruction += entityStyleSuffix
	}
	return domain.StyleDirective{Variant: variant, Instruction: instruction}
}

// PoolSize reports the number of distinct style variants.
func (s *StyleSelector) PoolSize() int { return len(s.pool) }
