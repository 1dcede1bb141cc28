// Package openai implements the AI client against any OpenAI-compatible
// API (embeddings and chat completions).
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/cristinamerisoiu/cv-chatbot/internal/adapter/observability"
	"github.com/cristinamerisoiu/cv-chatbot/internal/config"
	"github.com/cristinamerisoiu/cv-chatbot/internal/domain"
)

// Client implements domain.AIClient over HTTP.
type Client struct {
	cfg     config.Config
	chatHC  *http.Client
	embedHC *http.Client
}

// New constructs a client with per-operation timeouts from config.
func New(cfg config.Config) *Client {
	return &Client{
		cfg:     cfg,
		chatHC:  &http.Client{Timeout: cfg.GenerateTimeout},
		embedHC: &http.Client{Timeout: cfg.EmbedTimeout},
	}
}

// Embed calls the embeddings endpoint and returns one vector per text.
func (c *Client) Embed(ctx domain.Context, texts []string) ([][]float32, error) {
	if c.cfg.OpenAIAPIKey == "" || c.cfg.EmbeddingsModel == "" {
		// Do not log secrets; only indicate presence
		slog.Error("AI embed config missing", slog.Bool("has_api_key", c.cfg.OpenAIAPIKey != ""), slog.String("model", c.cfg.EmbeddingsModel))
		return nil, fmt.Errorf("%w: OPENAI_API_KEY or EMBEDDINGS_MODEL missing", domain.ErrInvalidArgument)
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.EmbedTimeout)
	defer cancel()

	body := map[string]any{
		"model": c.cfg.EmbeddingsModel,
		"input": texts,
	}
	b, _ := json.Marshal(body)
	var out struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	if err := c.do(ctx, c.embedHC, "/embeddings", b, "embed", &out); err != nil {
		return nil, err
	}
	if len(out.Data) == 0 {
		return nil, fmt.Errorf("%w: empty embeddings data", domain.ErrUpstreamFailure)
	}
	res := make([][]float32, len(out.Data))
	for i := range out.Data {
		v := make([]float32, len(out.Data[i].Embedding))
		for j := range out.Data[i].Embedding {
			v[j] = float32(out.Data[i].Embedding[j])
		}
		res[i] = v
	}
	return res, nil
}

// Generate calls chat completions with the assembled persona prompt,
// retrieved context, bounded history and the rotated style directive.
func (c *Client) Generate(ctx domain.Context, req domain.GenerateRequest) (string, error) {
	if c.cfg.OpenAIAPIKey == "" || c.cfg.ChatModel == "" {
		slog.Error("AI chat config missing", slog.Bool("has_api_key", c.cfg.OpenAIAPIKey != ""), slog.String("model", c.cfg.ChatModel))
		return "", fmt.Errorf("%w: OPENAI_API_KEY or CHAT_MODEL missing", domain.ErrInvalidArgument)
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.GenerateTimeout)
	defer cancel()

	messages := buildMessages(req)
	body := map[string]any{
		"model":       c.cfg.ChatModel,
		"temperature": 0.4,
		"max_tokens":  req.MaxTokens,
		"messages":    messages,
	}
	b, _ := json.Marshal(body)
	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := c.do(ctx, c.chatHC, "/chat/completions", b, "chat", &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", domain.ErrUpstreamFailure)
	}
	return out.Choices[0].Message.Content, nil
}

// buildMessages flattens the generate request into the chat message list:
// system persona + context, prior turns, then the question with its style
// directive attached.
func buildMessages(req domain.GenerateRequest) []map[string]string {
	var sys strings.Builder
	sys.WriteString(req.SystemInstructions)
	if len(req.ContextBlocks) > 0 {
		sys.WriteString("\n\nUse only the following profile facts as source of truth:\n")
		for _, block := range req.ContextBlocks {
			sys.WriteString("- ")
			sys.WriteString(block)
			sys.WriteString("\n")
		}
	}
	messages := make([]map[string]string, 0, len(req.History)+2)
	messages = append(messages, map[string]string{"role": "system", "content": sys.String()})
	for _, t := range req.History {
		messages = append(messages, map[string]string{"role": t.Role, "content": t.Content})
	}
	question := req.UserQuestion
	if req.Style.Instruction != "" {
		question += "\n\n(" + req.Style.Instruction + ")"
	}
	messages = append(messages, map[string]string{"role": "user", "content": question})
	return messages
}

// do runs one upstream call under bounded exponential backoff. 429 and
// 5xx are retried; other 4xx are permanent. The returned error always
// wraps one of the domain upstream sentinels so callers can classify the
// failure without string matching.
func (c *Client) do(ctx context.Context, hc *http.Client, path string, body []byte, op string, out any) error {
	var rateLimited bool
	call := func() error {
		start := time.Now()
		// Recreate request each attempt to avoid reusing consumed bodies
		r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.OpenAIBaseURL+path, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		r.Header.Set("Authorization", "Bearer "+c.cfg.OpenAIAPIKey)
		r.Header.Set("Content-Type", "application/json")
		resp, err := hc.Do(r)
		observability.AIRequestsTotal.WithLabelValues("openai", op).Inc()
		observability.AIRequestDuration.WithLabelValues("openai", op).Observe(time.Since(start).Seconds())
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			rateLimited = true
			slog.Warn("ai provider rate limited", slog.String("op", op), slog.Int("status", resp.StatusCode), slog.String("x_request_id", resp.Header.Get("X-Request-Id")))
			return fmt.Errorf("rate limited: 429")
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			snippet := readSnippet(resp.Body, 512)
			slog.Warn("ai provider 4xx", slog.String("op", op), slog.Int("status", resp.StatusCode), slog.String("endpoint", c.cfg.OpenAIBaseURL+path), slog.String("body", snippet))
			return backoff.Permanent(fmt.Errorf("%s status %d", op, resp.StatusCode))
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			snippet := readSnippet(resp.Body, 512)
			slog.Error("ai provider non-2xx", slog.String("op", op), slog.Int("status", resp.StatusCode), slog.String("endpoint", c.cfg.OpenAIBaseURL+path), slog.String("body", snippet))
			return fmt.Errorf("%s status %d", op, resp.StatusCode)
		}
		rateLimited = false
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			slog.Error("ai provider decode error", slog.String("op", op), slog.Any("error", err))
			return err
		}
		return nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.MaxElapsedTime, expo.InitialInterval, expo.MaxInterval, expo.Multiplier = c.cfg.GetAIBackoffConfig()
	if err := backoff.Retry(call, backoff.WithContext(expo, ctx)); err != nil {
		return classify(err, op, rateLimited)
	}
	return nil
}

// classify maps a final upstream failure to the domain taxonomy.
func classify(err error, op string, rateLimited bool) error {
	switch {
	case rateLimited:
		return fmt.Errorf("%w: %s: %v", domain.ErrUpstreamRateLimit, op, err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s: %v", domain.ErrUpstreamTimeout, op, err)
	default:
		return fmt.Errorf("%w: %s: %v", domain.ErrUpstreamFailure, op, err)
	}
}

func readSnippet(r io.Reader, n int) string {
	b, _ := io.ReadAll(io.LimitReader(r, int64(n)))
	return string(b)
}
