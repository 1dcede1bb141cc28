package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristinamerisoiu/cv-chatbot/internal/config"
	"github.com/cristinamerisoiu/cv-chatbot/internal/domain"
	"github.com/cristinamerisoiu/cv-chatbot/internal/usecase"
)

type stubChat struct {
	reply usecase.Reply
	err   error
	gotMessage string
}

func (s *stubChat) Chat(_ domain.Context, message, _ string) (usecase.Reply, error) {
	s.gotMessage = message
	if s.err != nil {
		return usecase.Reply{}, s.err
	}
	return s.reply, nil
}

func doChat(t *testing.T, srv *Server, body string, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ChatHandler()(rec, req)
	return rec
}

func TestChatHandler_Success(t *testing.T) {
	stub := &stubChat{reply: usecase.Reply{
		Answer:    "Cristina works with Go.",
		SessionID: "s-1",
		Outcome:   usecase.OutcomeGenerated,
	}}
	srv := NewServer(config.Config{AppEnv: "prod"}, stub, nil, true, true)

	rec := doChat(t, srv, `{"message":"What are her skills?"}`, "/v1/chat")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Cristina works with Go.", resp.Answer)
	assert.Equal(t, "s-1", resp.SessionID)
	assert.Nil(t, resp.Debug)
	assert.Equal(t, "What are her skills?", stub.gotMessage)
}

func TestChatHandler_DebugPayload(t *testing.T) {
	stub := &stubChat{reply: usecase.Reply{
		Answer:    "That topic isn't covered in Cristina's profile.",
		SessionID: "s-1",
		Lang:      domain.LangEN,
		Tag:       domain.TagTelekom,
		Outcome:   usecase.OutcomeOutOfScope,
	}}
	srv := NewServer(config.Config{AppEnv: "prod"}, stub, nil, true, true)

	rec := doChat(t, srv, `{"message":"Telekom?"}`, "/v1/chat?debug=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Debug)
	assert.Equal(t, "telekom", resp.Debug.Tag)
	assert.Equal(t, usecase.OutcomeOutOfScope, resp.Debug.Outcome)
	assert.NotNil(t, resp.Debug.UsedChunks)
	assert.Empty(t, resp.Debug.UsedChunks)
}

func TestChatHandler_DebugUsedChunksAreObjects(t *testing.T) {
	stub := &stubChat{reply: usecase.Reply{
		Answer:    "Cristina works with Go.",
		SessionID: "s-1",
		Lang:      domain.LangEN,
		Tag:       domain.TagSkills,
		Outcome:   usecase.OutcomeGenerated,
		UsedChunks: []usecase.UsedChunk{
			{Tag: domain.TagSkills, Score: 0.93, Preview: "Cristina's core stack is Go"},
		},
	}}
	srv := NewServer(config.Config{AppEnv: "prod"}, stub, nil, true, true)

	rec := doChat(t, srv, `{"message":"skills?"}`, "/v1/chat?debug=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Debug struct {
			UsedChunks []struct {
				Tag     string  `json:"tag"`
				Score   float64 `json:"score"`
				Preview string  `json:"preview"`
			} `json:"used_chunks"`
		} `json:"debug"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Debug.UsedChunks, 1)
	assert.Equal(t, "skills", resp.Debug.UsedChunks[0].Tag)
	assert.InDelta(t, 0.93, resp.Debug.UsedChunks[0].Score, 1e-9)
	assert.Contains(t, resp.Debug.UsedChunks[0].Preview, "core stack")
}

func TestChatHandler_InvalidBody(t *testing.T) {
	srv := NewServer(config.Config{AppEnv: "prod"}, &stubChat{}, nil, true, true)

	for name, body := range map[string]string{
		"not json":        `{{`,
		"missing message": `{"session_id":"s"}`,
		"oversize":        `{"message":"` + strings.Repeat("a", 2001) + `"}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := doChat(t, srv, body, "/v1/chat")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "INVALID_ARGUMENT")
		})
	}
}

func TestChatHandler_UpstreamErrorMapping(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		codeStr string
	}{
		{domain.ErrUpstreamRateLimit, http.StatusServiceUnavailable, "UPSTREAM_RATE_LIMIT"},
		{domain.ErrUpstreamTimeout, http.StatusServiceUnavailable, "UPSTREAM_TIMEOUT"},
		{domain.ErrUpstreamFailure, http.StatusServiceUnavailable, "UPSTREAM_FAILURE"},
	}
	for _, tc := range cases {
		srv := NewServer(config.Config{AppEnv: "prod"}, &stubChat{err: tc.err}, nil, true, true)
		rec := doChat(t, srv, `{"message":"hi"}`, "/v1/chat")
		assert.Equal(t, tc.status, rec.Code)
		assert.Contains(t, rec.Body.String(), tc.codeStr)
	}
}

func TestReadyzHandler_ReportsDegradedFacts(t *testing.T) {
	srv := NewServer(config.Config{}, &stubChat{}, nil, false, true)
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	srv.ReadyzHandler()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
	assert.Equal(t, true, body["ai_ok"])
	assert.Equal(t, false, body["corpus_loaded"])
	assert.Equal(t, true, body["clusters_loaded"])
}

func TestReadyzHandler_UnreachableAIIsUnready(t *testing.T) {
	aiCheck := func(domain.Context) error { return domain.ErrUpstreamFailure }
	srv := NewServer(config.Config{}, &stubChat{}, aiCheck, true, true)
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	srv.ReadyzHandler()(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unready", body["status"])
	assert.Equal(t, false, body["ai_ok"])
}
