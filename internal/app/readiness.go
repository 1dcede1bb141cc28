package app

import (
	"context"
	"sync"
	"time"

	"github.com/cristinamerisoiu/cv-chatbot/internal/domain"
)

// aiCheckCacheTTL bounds how often the readiness probe actually hits the
// embeddings endpoint. /readyz polling must not turn into AI traffic.
const aiCheckCacheTTL = 5 * time.Minute

// BuildAICheck returns a readiness probe for the AI backend: a one-word
// embed call whose success is cached for aiCheckCacheTTL. Failures are
// never cached, so a recovered backend is picked up on the next poll.
func BuildAICheck(aicl domain.AIClient) func(context.Context) error {
	var mu sync.Mutex
	var lastOK time.Time
	return func(ctx context.Context) error {
		mu.Lock()
		defer mu.Unlock()
		if !lastOK.IsZero() && time.Since(lastOK) < aiCheckCacheTTL {
			return nil
		}
		if _, err := aicl.Embed(ctx, []string{"ping"}); err != nil {
			return err
		}
		lastOK = time.Now()
		return nil
	}
}
