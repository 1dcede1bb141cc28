// Package pipeline implements the layered query-routing stages that
// decide what context, if any, reaches the text generator: language
// classification, personal-boundary deflection, canned-answer matching,
// tag detection, tag-scoped similarity ranking, response-style rotation
// and output normalization.
//
// Every stage is a pure function of the query (plus an injectable random
// source where a stage samples from an answer pool), evaluated in a fixed
// order until one yields a result.
package pipeline

import (
	"github.com/cristinamerisoiu/cv-chatbot/internal/domain"
)

// Query is the per-request view of one user message. Derived fields are
// pure functions of Raw and are never cached across requests.
type Query struct {
	Raw        string
	Normalized string
	Lang       domain.Lang
	Tag        domain.Tag
}

// ScoredChunk pairs a corpus chunk with its cosine similarity to the
// query embedding. It exists only for the duration of ranking one query.
type ScoredChunk struct {
	Chunk domain.KnowledgeChunk
	Score float64
}
