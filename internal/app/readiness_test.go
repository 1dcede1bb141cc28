package app

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristinamerisoiu/cv-chatbot/internal/domain"
)

type countingAI struct {
	calls atomic.Int32
	err   error
}

func (c *countingAI) Embed(_ domain.Context, texts []string) ([][]float32, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1}
	}
	return out, nil
}

func (c *countingAI) Generate(_ domain.Context, _ domain.GenerateRequest) (string, error) {
	return "", nil
}

func TestBuildAICheck_CachesSuccess(t *testing.T) {
	ai := &countingAI{}
	check := BuildAICheck(ai)

	require.NoError(t, check(context.Background()))
	require.NoError(t, check(context.Background()))
	require.NoError(t, check(context.Background()))
	assert.Equal(t, int32(1), ai.calls.Load())
}

func TestBuildAICheck_FailuresAreNotCached(t *testing.T) {
	ai := &countingAI{err: domain.ErrUpstreamFailure}
	check := BuildAICheck(ai)

	assert.ErrorIs(t, check(context.Background()), domain.ErrUpstreamFailure)
	assert.ErrorIs(t, check(context.Background()), domain.ErrUpstreamFailure)
	assert.Equal(t, int32(2), ai.calls.Load())

	// Backend recovers: the next poll probes again and succeeds.
	ai.err = nil
	require.NoError(t, check(context.Background()))
	assert.Equal(t, int32(3), ai.calls.Load())
}
