// Package usecase wires the routing pipeline into a single Chat
// operation: normalize, classify, short-circuit on boundary and canned
// answers, then retrieve, generate and finalize.
package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cristinamerisoiu/cv-chatbot/internal/adapter/ai/tokencount"
	"github.com/cristinamerisoiu/cv-chatbot/internal/adapter/observability"
	"github.com/cristinamerisoiu/cv-chatbot/internal/config"
	"github.com/cristinamerisoiu/cv-chatbot/internal/domain"
	"github.com/cristinamerisoiu/cv-chatbot/internal/pipeline"
	"github.com/cristinamerisoiu/cv-chatbot/internal/session"
	"github.com/cristinamerisoiu/cv-chatbot/pkg/textx"
)

// Outcome labels for metrics and the debug payload.
const (
	OutcomeBoundary   = "boundary"
	OutcomeCanned     = "canned"
	OutcomeOutOfScope = "out_of_scope"
	OutcomeNoContext  = "no_context"
	OutcomeEmptyInput = "empty_input"
	OutcomeGenerated  = "generated"
)

// Fixed responses per language. These never go through the generator.
var (
	emptyInputAnswers = map[domain.Lang]string{
		domain.LangEN: "Please type a question about Cristina's professional background and I'll do my best to answer.",
		domain.LangDE: "Bitte stellen Sie eine Frage zu Cristinas beruflichem Werdegang.",
		domain.LangRO: "Va rog sa scrieti o intrebare despre experienta profesionala a Cristinei.",
	}
	outOfScopeAnswers = map[domain.Lang]string{
		domain.LangEN: "That topic isn't covered in Cristina's profile. Try asking about her skills, experience, education or certifications.",
		domain.LangDE: "Dieses Thema ist in Cristinas Profil nicht abgedeckt. Fragen Sie nach ihren Faehigkeiten, ihrer Erfahrung oder Ausbildung.",
		domain.LangRO: "Acest subiect nu este acoperit in profilul Cristinei. Intrebati despre competente, experienta sau educatie.",
	}
	noContextAnswers = map[domain.Lang]string{
		domain.LangEN: "Cristina's profile data isn't available right now, so I can't answer that. Please try again later.",
		domain.LangDE: "Cristinas Profildaten sind momentan nicht verfuegbar. Bitte versuchen Sie es spaeter erneut.",
		domain.LangRO: "Datele de profil ale Cristinei nu sunt disponibile momentan. Incercati din nou mai tarziu.",
	}
)

func fixedAnswer(pool map[domain.Lang]string, lang domain.Lang) string {
	if a, ok := pool[lang]; ok {
		return a
	}
	return pool[domain.LangEN]
}

// personaInstructions is the system prompt sent on every generation. The
// finalizer re-enforces third person afterwards; the model's output is
// never trusted to obey this on its own.
const personaInstructions = "You are the assistant on Cristina Merisoiu's CV website. " +
	"Answer questions about Cristina strictly in the third person, using only the profile excerpts provided as context. " +
	"If the context does not cover the question, say so briefly instead of inventing details. " +
	"Answer in the language of the question. Keep answers concise."

// UsedChunk describes one retrieved chunk on the debug surface: its tag,
// its cosine score and a short text preview instead of the full chunk.
type UsedChunk struct {
	Tag     domain.Tag
	Score   float64
	Preview string
}

// previewRunes caps the chunk text carried in debug payloads.
const previewRunes = 80

func chunkPreview(text string) string {
	r := []rune(text)
	if len(r) <= previewRunes {
		return text
	}
	return strings.TrimSpace(string(r[:previewRunes])) + "…"
}

// Reply is the result of one chat turn, including the routing metadata
// exposed on the debug surface.
type Reply struct {
	Answer       string
	SessionID    string
	Lang         domain.Lang
	Tag          domain.Tag
	StyleVariant int
	UsedChunks   []UsedChunk
	Outcome      string
}

// ChatService orchestrates one user message through the full pipeline.
// Stages run in a fixed order; boundary and bank matches short-circuit
// before any model call is made.
type ChatService struct {
	cfg      config.Config
	ai       domain.AIClient
	boundary *pipeline.BoundaryMatcher
	bank     *pipeline.AnswerBank
	styles   *pipeline.StyleSelector
	history  *session.Store
	tokens   *tokencount.Counter
	corpus   []domain.KnowledgeChunk
}

// NewChatService builds the service. A nil or empty corpus puts the
// retrieval stage into degraded mode; a nil-cluster bank never matches.
func NewChatService(
	cfg config.Config,
	ai domain.AIClient,
	boundary *pipeline.BoundaryMatcher,
	bank *pipeline.AnswerBank,
	styles *pipeline.StyleSelector,
	history *session.Store,
	corpus []domain.KnowledgeChunk,
) *ChatService {
	return &ChatService{
		cfg:      cfg,
		ai:       ai,
		boundary: boundary,
		bank:     bank,
		styles:   styles,
		history:  history,
		tokens:   tokencount.NewCounter(),
		corpus:   corpus,
	}
}

// Chat answers one message. The only error returns are upstream AI
// failures; every in-pipeline terminal state is a normal Reply with its
// outcome label set.
func (s *ChatService) Chat(ctx domain.Context, message, sessionID string) (Reply, error) {
	log := observability.LoggerFromContext(ctx)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	reply := Reply{SessionID: sessionID, Lang: domain.LangEN}

	normalized := textx.Normalize(textx.SanitizeText(message))
	if normalized == "" {
		reply.Answer = fixedAnswer(emptyInputAnswers, reply.Lang)
		reply.Outcome = OutcomeEmptyInput
		observability.CountOutcome(reply.Outcome)
		return reply, nil
	}

	// Language runs on the raw text: normalization strips the
	// diacritics the classifier keys on.
	start := time.Now()
	reply.Lang = pipeline.ClassifyLanguage(message)
	observability.ObserveStage("classify", start)

	if answer, ok := s.boundary.Match(normalized, reply.Lang); ok {
		return s.complete(ctx, reply, message, answer, OutcomeBoundary), nil
	}
	if answer, ok := s.bank.Match(normalized, reply.Lang); ok {
		return s.complete(ctx, reply, message, answer, OutcomeCanned), nil
	}

	if tag, ok := pipeline.DetectTag(normalized); ok {
		reply.Tag = tag
	}

	if len(s.corpus) == 0 {
		log.Warn("retrieval disabled, answering without context")
		return s.complete(ctx, reply, message, fixedAnswer(noContextAnswers, reply.Lang), OutcomeNoContext), nil
	}

	start = time.Now()
	vecs, err := s.ai.Embed(ctx, []string{normalized})
	observability.ObserveStage("embed", start)
	if err != nil {
		return Reply{}, fmt.Errorf("op=chat.embed session_id=%s: %w", sessionID, err)
	}
	if len(vecs) != 1 {
		return Reply{}, fmt.Errorf("op=chat.embed: %w: got %d vectors for one input", domain.ErrUpstreamFailure, len(vecs))
	}

	start = time.Now()
	ranked, err := pipeline.Rank(vecs[0], s.corpus, reply.Tag, s.cfg.TopK)
	observability.ObserveStage("rank", start)
	if err != nil {
		if !errors.Is(err, pipeline.ErrScopeEmpty) {
			return Reply{}, fmt.Errorf("op=chat.rank session_id=%s: %w", sessionID, err)
		}
		// Scoped retrieval over an empty tag slice is a normal
		// outcome, never a fallback to the full corpus.
		log.Info("query out of scope", "tag", string(reply.Tag))
		return s.complete(ctx, reply, message, fixedAnswer(outOfScopeAnswers, reply.Lang), OutcomeOutOfScope), nil
	}
	observability.RetrievedChunks.Observe(float64(len(ranked)))

	blocks := make([]string, 0, len(ranked))
	for _, sc := range ranked {
		reply.UsedChunks = append(reply.UsedChunks, UsedChunk{
			Tag:     sc.Chunk.Tag,
			Score:   sc.Score,
			Preview: chunkPreview(sc.Chunk.Text),
		})
		blocks = append(blocks, sc.Chunk.Text)
	}
	blocks = s.tokens.CapBlocks(blocks, s.cfg.ChatModel, s.cfg.ContextTokenBudget)
	if len(blocks) < len(reply.UsedChunks) {
		reply.UsedChunks = reply.UsedChunks[:len(blocks)]
	}

	style := s.styles.Next(normalized, reply.Tag.IsEntity())
	reply.StyleVariant = style.Variant

	start = time.Now()
	raw, err := s.ai.Generate(ctx, domain.GenerateRequest{
		SystemInstructions: personaInstructions,
		ContextBlocks:      blocks,
		History:            s.history.Get(sessionID),
		UserQuestion:       strings.TrimSpace(message),
		Style:              style,
		MaxTokens:          s.cfg.GenerateMaxTokens,
	})
	observability.ObserveStage("generate", start)
	if err != nil {
		return Reply{}, fmt.Errorf("op=chat.generate session_id=%s: %w", sessionID, err)
	}

	start = time.Now()
	answer := pipeline.Finalize(raw, s.cfg.MaxAnswerWords)
	observability.ObserveStage("finalize", start)
	return s.complete(ctx, reply, message, answer, OutcomeGenerated), nil
}

// complete records the turn in history, counts the outcome and fills the
// terminal fields of the reply.
func (s *ChatService) complete(ctx domain.Context, reply Reply, message, answer, outcome string) Reply {
	reply.Answer = answer
	reply.Outcome = outcome
	s.history.Append(reply.SessionID,
		domain.Turn{Role: domain.RoleUser, Content: strings.TrimSpace(message)},
		domain.Turn{Role: domain.RoleAssistant, Content: answer},
	)
	observability.CountOutcome(outcome)
	observability.LoggerFromContext(ctx).Info("chat turn completed",
		"session_id", reply.SessionID,
		"lang", string(reply.Lang),
		"outcome", outcome,
		"tag", string(reply.Tag),
		"style_variant", reply.StyleVariant,
		"used_chunks", len(reply.UsedChunks),
	)
	return reply
}
