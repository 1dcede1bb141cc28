// Package ai provides the deterministic offline AI client used in dev
// and tests when AI_PROVIDER=mock is selected.
package ai

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"strings"

	"github.com/cristinamerisoiu/cv-chatbot/internal/domain"
)

// MockClient implements domain.AIClient deterministically: identical
// inputs always produce identical vectors and answers, which keeps
// offline runs and tests reproducible.
type MockClient struct {
	// Dims is the embedding size; defaults to 256 when zero.
	Dims int
}

// NewMockClient constructs the deterministic mock AI client.
func NewMockClient() *MockClient { return &MockClient{} }

// Embed returns a unit-norm vector derived from each text's hash.
func (m *MockClient) Embed(_ domain.Context, texts []string) ([][]float32, error) {
	dims := m.Dims
	if dims <= 0 {
		dims = 256
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = embedDeterministic(t, dims)
	}
	return out, nil
}

// Generate composes a short answer from the first context block, or a
// fixed fallback when no context was retrieved. The style directive is
// echoed as a parenthetical so rotation stays observable offline.
func (m *MockClient) Generate(_ domain.Context, req domain.GenerateRequest) (string, error) {
	var b strings.Builder
	if len(req.ContextBlocks) > 0 {
		b.WriteString(req.ContextBlocks[0])
	} else {
		b.WriteString("Cristina can tell you more about that in person.")
	}
	if req.Style.Instruction != "" {
		b.WriteString(" (style: ")
		b.WriteString(req.Style.Instruction)
		b.WriteString(")")
	}
	return b.String(), nil
}

// embedDeterministic expands the text hash into a stable unit vector.
func embedDeterministic(text string, dims int) []float32 {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(text))))
	v := make([]float32, dims)
	var norm float64
	for i := 0; i < dims; i++ {
		seed := binary.BigEndian.Uint32(sum[(i*4)%(len(sum)-4):])
		// simple xorshift over the hash-derived seed
		x := seed ^ uint32(i*2654435761)
		x ^= x << 13
		x ^= x >> 17
		x ^= x << 5
		f := float64(int32(x)) / math.MaxInt32
		v[i] = float32(f)
		norm += f * f
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range v {
			v[i] = float32(float64(v[i]) / norm)
		}
	}
	return v
}
