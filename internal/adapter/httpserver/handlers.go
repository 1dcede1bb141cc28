package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/cristinamerisoiu/cv-chatbot/internal/config"
	"github.com/cristinamerisoiu/cv-chatbot/internal/domain"
	"github.com/cristinamerisoiu/cv-chatbot/internal/usecase"
)

// ChatExecutor is the slice of the chat use case the HTTP layer needs.
type ChatExecutor interface {
	Chat(ctx domain.Context, message, sessionID string) (usecase.Reply, error)
}

// Server bundles the handlers with their dependencies.
type Server struct {
	cfg     config.Config
	chat    ChatExecutor
	aiCheck func(domain.Context) error

	// Readiness facts gathered at startup. A missing corpus or cluster
	// file degrades the pipeline but does not make the service unready.
	corpusLoaded bool
	bankLoaded   bool
}

// NewServer builds the handler set. A nil aiCheck means there is no
// external AI backend to probe (mock mode) and readiness treats it as up.
func NewServer(cfg config.Config, chat ChatExecutor, aiCheck func(domain.Context) error, corpusLoaded, bankLoaded bool) *Server {
	return &Server{cfg: cfg, chat: chat, aiCheck: aiCheck, corpusLoaded: corpusLoaded, bankLoaded: bankLoaded}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() { validate = validator.New() })
	return validate
}

type chatRequest struct {
	Message   string `json:"message" validate:"required,max=2000"`
	SessionID string `json:"session_id" validate:"omitempty,max=128"`
}

type usedChunkDebug struct {
	Tag     string  `json:"tag"`
	Score   float64 `json:"score"`
	Preview string  `json:"preview"`
}

type chatDebug struct {
	Lang         string           `json:"lang"`
	Tag          string           `json:"tag"`
	StyleVariant int              `json:"style_variant"`
	Outcome      string           `json:"outcome"`
	UsedChunks   []usedChunkDebug `json:"used_chunks"`
}

type chatResponse struct {
	Answer    string     `json:"answer"`
	SessionID string     `json:"session_id"`
	Debug     *chatDebug `json:"debug,omitempty"`
}

// ChatHandler answers one user message. Debug routing metadata is
// attached when requested with ?debug=1 or in dev mode.
func (s *Server) ChatHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid JSON body", domain.ErrInvalidArgument), nil)
			return
		}
		if err := getValidator().Struct(req); err != nil {
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
			return
		}

		reply, err := s.chat.Chat(r.Context(), req.Message, req.SessionID)
		if err != nil {
			LoggerFrom(r).Error("chat failed", "error", err)
			writeError(w, r, err, nil)
			return
		}

		resp := chatResponse{Answer: reply.Answer, SessionID: reply.SessionID}
		if s.cfg.IsDev() || r.URL.Query().Get("debug") == "1" {
			used := make([]usedChunkDebug, 0, len(reply.UsedChunks))
			for _, c := range reply.UsedChunks {
				used = append(used, usedChunkDebug{
					Tag:     string(c.Tag),
					Score:   c.Score,
					Preview: c.Preview,
				})
			}
			resp.Debug = &chatDebug{
				Lang:         string(reply.Lang),
				Tag:          string(reply.Tag),
				StyleVariant: reply.StyleVariant,
				Outcome:      reply.Outcome,
				UsedChunks:   used,
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// ReadyzHandler probes the AI backend and reports readiness plus the
// degraded-mode facts. An unreachable backend makes the service unready;
// missing data files only show up as facts.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		aiOK := true
		if s.aiCheck != nil {
			if err := s.aiCheck(r.Context()); err != nil {
				LoggerFrom(r).Warn("ai readiness probe failed", "error", err)
				aiOK = false
			}
		}
		status := http.StatusOK
		statusText := "ready"
		if !aiOK {
			status = http.StatusServiceUnavailable
			statusText = "unready"
		}
		writeJSON(w, status, map[string]any{
			"status":          statusText,
			"ai_ok":           aiOK,
			"corpus_loaded":   s.corpusLoaded,
			"clusters_loaded": s.bankLoaded,
		})
	}
}
