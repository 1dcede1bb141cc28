// Package domain holds the core types and ports of the profile chat pipeline.
package domain

import (
	"context"
	"errors"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	ErrRateLimited       = errors.New("rate limited")
	ErrUpstreamTimeout   = errors.New("upstream timeout")
	ErrUpstreamRateLimit = errors.New("upstream rate limit")
	ErrUpstreamFailure   = errors.New("upstream failure")
	ErrDataIntegrity     = errors.New("data integrity")
	ErrInternal          = errors.New("internal error")
)

// Lang is one of the closed set of supported query languages.
type Lang string

// Supported languages. LangEN is the baseline every fallback resolves to.
const (
	LangEN Lang = "en"
	LangDE Lang = "de"
	LangRO Lang = "ro"
)

// Languages lists every supported language in a stable order.
func Languages() []Lang { return []Lang{LangEN, LangDE, LangRO} }

// Valid reports whether l is one of the supported languages.
func (l Lang) Valid() bool {
	return l == LangEN || l == LangDE || l == LangRO
}

// Tag scopes retrieval to one entity (a specific engagement) or one CV
// section. The set is closed; corpus chunks carrying an unknown tag are
// rejected at load time.
type Tag string

// Entity tags identify a single organization the profile worked with.
const (
	TagEndava  Tag = "endava"
	TagTelekom Tag = "telekom"
)

// Section tags identify an enumerable category of profile information.
const (
	TagSkills         Tag = "skills"
	TagExperience     Tag = "experience"
	TagEducation      Tag = "education"
	TagCertifications Tag = "certifications"
	TagSummary        Tag = "summary"
)

// TagNone means open scope: retrieval runs over the whole corpus.
const TagNone Tag = ""

// IsEntity reports whether t names a specific organization.
func (t Tag) IsEntity() bool { return t == TagEndava || t == TagTelekom }

// Valid reports whether t belongs to the closed tag set.
func (t Tag) Valid() bool {
	switch t {
	case TagEndava, TagTelekom, TagSkills, TagExperience, TagEducation, TagCertifications, TagSummary:
		return true
	}
	return false
}

// KnowledgeChunk is one retrievable unit of profile text with its
// precomputed embedding. Chunks are loaded once at startup and never
// mutated.
type KnowledgeChunk struct {
	ID        string    `json:"id"`
	Tag       Tag       `json:"tag"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
}

// InterviewCluster is a predefined topic with trigger phrases and a pool
// of candidate answers per language. A cluster match bypasses retrieval
// entirely.
//
// Invariant: a language with a non-empty trigger list must have a
// non-empty answer list. Violations fail the load.
type InterviewCluster struct {
	Name     string            `yaml:"name"`
	Triggers map[Lang][]string `yaml:"triggers"`
	Answers  map[Lang][]string `yaml:"answers"`
}

// Validate checks the per-language trigger/answer invariant.
func (c InterviewCluster) Validate() error {
	for lang, triggers := range c.Triggers {
		if !lang.Valid() {
			return errors.New("cluster " + c.Name + ": unknown language " + string(lang))
		}
		if len(triggers) > 0 && len(c.Answers[lang]) == 0 {
			return errors.New("cluster " + c.Name + ": language " + string(lang) + " has triggers but no answers")
		}
	}
	return nil
}

// Turn is one conversation entry kept in session history.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// StyleDirective instructs the generator on the desired output shape for
// one answer. Directives rotate deterministically per distinct question.
type StyleDirective struct {
	Variant     int
	Instruction string
}

// GenerateRequest carries everything the text generator needs for one
// answer: the persona instructions, retrieved context, bounded history,
// the user question and the rotated style directive.
type GenerateRequest struct {
	SystemInstructions string
	ContextBlocks      []string
	History            []Turn
	UserQuestion       string
	Style              StyleDirective
	MaxTokens          int
}

// AIClient is the port to the external embedding and generation services.
// Both calls block from the caller's perspective and are the only two
// suspension points of the pipeline.
type AIClient interface {
	// Embed returns one embedding vector per input text.
	Embed(ctx Context, texts []string) ([][]float32, error)
	// Generate returns persona-consistent answer text. Its output must
	// not be trusted to obey length/person/language constraints.
	Generate(ctx Context, req GenerateRequest) (string, error)
}

// Context is an alias so the domain package stays decoupled from call
// sites; adapters and usecases pass context.Context straight through.
type Context = context.Context
