// Package tokencount provides token counting for prompt budgeting.
//
// It uses tiktoken-go, a Go port of OpenAI's tiktoken, so that the
// context handed to the generator can be capped by real token counts
// instead of character heuristics.
package tokencount

import (
	"strings"
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Counter provides thread-safe token counting for LLM models.
type Counter struct {
	encodingCache map[string]*tiktoken.Tiktoken
	mu            sync.RWMutex
}

// NewCounter creates a new token counter instance.
func NewCounter() *Counter {
	return &Counter{encodingCache: make(map[string]*tiktoken.Tiktoken)}
}

// DefaultCounter is a global token counter instance.
var DefaultCounter = NewCounter()

func (c *Counter) getEncodingForModel(model string) (*tiktoken.Tiktoken, error) {
	normalized := normalizeModelName(model)

	c.mu.RLock()
	if enc, ok := c.encodingCache[normalized]; ok {
		c.mu.RUnlock()
		return enc, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if enc, ok := c.encodingCache[normalized]; ok {
		return enc, nil
	}
	enc, err := tiktoken.EncodingForModel(normalized)
	if err != nil {
		// cl100k_base covers GPT-4 era models and is a sane approximation
		// for everything else.
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, err
		}
	}
	c.encodingCache[normalized] = enc
	return enc, nil
}

// normalizeModelName strips provider prefixes and maps model families to
// tiktoken-compatible names.
func normalizeModelName(model string) string {
	model = strings.ToLower(model)
	if strings.Contains(model, "/") {
		parts := strings.Split(model, "/")
		model = parts[len(parts)-1]
	}
	switch {
	case strings.Contains(model, "gpt-4"):
		return "gpt-4"
	case strings.Contains(model, "gpt-3.5"):
		return "gpt-3.5-turbo"
	default:
		return "gpt-4"
	}
}

// CountTokens counts the tokens in text for the given model. On encoder
// failure it falls back to the rough ~4 chars per token estimate rather
// than erroring: budgeting must never fail a request.
func (c *Counter) CountTokens(text, model string) int {
	enc, err := c.getEncodingForModel(model)
	if err != nil {
		return len(text) / 4
	}
	return len(enc.Encode(text, nil, nil))
}

// CapBlocks drops blocks from the tail until the total token count fits
// the budget. The head of the list (the highest-ranked context) always
// survives, even if it alone exceeds the budget.
func (c *Counter) CapBlocks(blocks []string, model string, budget int) []string {
	if budget <= 0 || len(blocks) == 0 {
		return blocks
	}
	total := 0
	for i, b := range blocks {
		total += c.CountTokens(b, model)
		if total > budget && i > 0 {
			return blocks[:i]
		}
	}
	return blocks
}
