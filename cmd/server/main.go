package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dgallion1/filingqa/internal/analyzer"
	"github.com/dgallion1/filingqa/internal/answer"
	"github.com/dgallion1/filingqa/internal/api"
	"github.com/dgallion1/filingqa/internal/config"
)

func main() {
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := analyzer.New(cfg, newAnswerClient(cfg), log)
	if err != nil {
		log.Error("configure analyzer", "error", err)
		os.Exit(1)
	}

	// Preload the document before serving so the first request is fast. A
	// failure here is not fatal: the analyzer retries on the first question.
	if err := a.Load(); err != nil {
		log.Warn("document preload failed", "path", cfg.DocumentPath, "error", err)
	}

	if cfg.WatchDocument {
		if err := a.Watch(ctx); err != nil {
			log.Warn("document watcher unavailable", "error", err)
		}
	}

	srv := api.NewServer(a, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting filingqa", "port", cfg.Port, "document", cfg.DocumentPath)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func newAnswerClient(cfg config.Config) answer.Client {
	var client answer.Client
	switch cfg.AnswerProvider {
	case config.ProviderOpenAI:
		client = answer.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.MaxAnswerTokens)
	default:
		client = answer.NewClaudeClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.MaxAnswerTokens, cfg.AnswerTimeout)
	}
	return answer.WithRetry(client)
}
