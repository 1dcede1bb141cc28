// Command kbseed embeds the plain-text knowledge chunks and writes the
// corpus file the server loads at startup. Run it whenever the profile
// text changes or the embedding model is switched.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/cristinamerisoiu/cv-chatbot/internal/adapter/ai"
	"github.com/cristinamerisoiu/cv-chatbot/internal/adapter/ai/openai"
	"github.com/cristinamerisoiu/cv-chatbot/internal/adapter/observability"
	"github.com/cristinamerisoiu/cv-chatbot/internal/config"
	"github.com/cristinamerisoiu/cv-chatbot/internal/domain"
)

// seedChunk is the input shape: a corpus chunk before embedding.
type seedChunk struct {
	ID   string     `json:"id"`
	Tag  domain.Tag `json:"tag"`
	Text string     `json:"text"`
}

func main() {
	in := flag.String("in", "configs/profile/chunks.json", "plain chunk file to embed")
	out := flag.String("out", "configs/profile/knowledge.json", "corpus file to write")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	slog.SetDefault(observability.SetupLogger(cfg))

	if err := run(context.Background(), cfg, *in, *out); err != nil {
		slog.Error("seeding failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, in, out string) error {
	b, err := os.ReadFile(in) // #nosec G304 -- path comes from a flag
	if err != nil {
		return fmt.Errorf("read %s: %w", in, err)
	}
	var seeds []seedChunk
	if err := json.Unmarshal(b, &seeds); err != nil {
		return fmt.Errorf("parse %s: %w", in, err)
	}
	if len(seeds) == 0 {
		return fmt.Errorf("%w: no chunks in %s", domain.ErrInvalidArgument, in)
	}

	texts := make([]string, len(seeds))
	for i, s := range seeds {
		if !s.Tag.Valid() {
			return fmt.Errorf("%w: chunk %q has unknown tag %q", domain.ErrDataIntegrity, s.ID, s.Tag)
		}
		texts[i] = s.Text
	}

	var aicl domain.AIClient
	if cfg.MockAI() {
		aicl = ai.NewMockClient()
	} else {
		aicl = openai.New(cfg)
	}

	vecs, err := aicl.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}
	if len(vecs) != len(seeds) {
		return fmt.Errorf("%w: got %d vectors for %d chunks", domain.ErrUpstreamFailure, len(vecs), len(seeds))
	}

	chunks := make([]domain.KnowledgeChunk, len(seeds))
	for i, s := range seeds {
		chunks[i] = domain.KnowledgeChunk{ID: s.ID, Tag: s.Tag, Text: s.Text, Embedding: vecs[i]}
	}
	data, err := json.MarshalIndent(chunks, "", "  ")
	if err != nil {
		return fmt.Errorf("encode corpus: %w", err)
	}
	if err := os.WriteFile(out, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	slog.Info("corpus written", slog.Int("chunks", len(chunks)), slog.String("path", out))
	return nil
}
