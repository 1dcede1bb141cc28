// Command server starts the CV chatbot HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cristinamerisoiu/cv-chatbot/internal/adapter/ai"
	"github.com/cristinamerisoiu/cv-chatbot/internal/adapter/ai/openai"
	httpserver "github.com/cristinamerisoiu/cv-chatbot/internal/adapter/httpserver"
	"github.com/cristinamerisoiu/cv-chatbot/internal/adapter/knowledge"
	"github.com/cristinamerisoiu/cv-chatbot/internal/adapter/observability"
	"github.com/cristinamerisoiu/cv-chatbot/internal/app"
	"github.com/cristinamerisoiu/cv-chatbot/internal/config"
	"github.com/cristinamerisoiu/cv-chatbot/internal/domain"
	"github.com/cristinamerisoiu/cv-chatbot/internal/pipeline"
	"github.com/cristinamerisoiu/cv-chatbot/internal/session"
	"github.com/cristinamerisoiu/cv-chatbot/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	// Profile data. Absence of either file degrades the pipeline
	// instead of failing startup.
	corpus, err := knowledge.LoadCorpus(cfg.KnowledgePath)
	switch {
	case err == nil:
		slog.Info("knowledge corpus loaded", slog.Int("chunks", len(corpus)), slog.String("path", cfg.KnowledgePath))
	case errors.Is(err, domain.ErrNotFound):
		slog.Warn("knowledge corpus missing, retrieval disabled", slog.String("path", cfg.KnowledgePath))
	default:
		slog.Error("knowledge corpus invalid", slog.Any("error", err))
		os.Exit(1)
	}

	clusters, err := knowledge.LoadClusters(cfg.ClustersPath)
	switch {
	case err == nil:
		slog.Info("answer clusters loaded", slog.Int("clusters", len(clusters)), slog.String("path", cfg.ClustersPath))
	case errors.Is(err, domain.ErrNotFound):
		slog.Warn("answer clusters missing, canned stage disabled", slog.String("path", cfg.ClustersPath))
	default:
		slog.Error("answer clusters invalid", slog.Any("error", err))
		os.Exit(1)
	}

	var aicl domain.AIClient
	if cfg.MockAI() {
		aicl = ai.NewMockClient()
		slog.Info("using deterministic mock AI client")
	} else {
		aicl = openai.New(cfg)
	}

	seed := time.Now().UnixNano()
	chatSvc := usecase.NewChatService(cfg, aicl,
		pipeline.NewBoundaryMatcher(pipeline.DefaultBoundaryRules(), seed),
		pipeline.NewAnswerBank(clusters, seed),
		pipeline.NewStyleSelector(cfg.StyleCounterTTL),
		session.New(cfg.HistoryMaxEntries, cfg.SessionTTL, cfg.SessionPurgeInterval),
		corpus,
	)

	var aiCheck func(domain.Context) error
	if !cfg.MockAI() {
		aiCheck = app.BuildAICheck(aicl)
	}
	srv := httpserver.NewServer(cfg, chatSvc, aiCheck, len(corpus) > 0, len(clusters) > 0)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
