// Package main provides the tutor's HTTP serving binary.
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

	"github.com/slidetutor/slidetutor/internal/answer"
	"github.com/slidetutor/slidetutor/internal/api"
	"github.com/slidetutor/slidetutor/internal/chat"
	"github.com/slidetutor/slidetutor/internal/config"
	"github.com/slidetutor/slidetutor/internal/embedding"
	"github.com/slidetutor/slidetutor/internal/retrieval"
	"github.com/slidetutor/slidetutor/internal/speech"
	"github.com/slidetutor/slidetutor/internal/vectorstore"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	// .env is for local development; absent in production.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := vectorstore.New(cfg.QdrantHost, cfg.QdrantPort, cfg.CollectionAlias)
	if err != nil {
		log.Error("failed to connect to Qdrant", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// A serving alias with no index behind it means ingestion never ran.
	hasIndex, err := store.HasIndex(ctx)
	if err != nil {
		log.Error("failed to check index", "error", err)
		os.Exit(1)
	}
	if !hasIndex {
		log.Error("no index behind serving alias; run `ingest split` and `ingest index` first",
			"alias", cfg.CollectionAlias)
		os.Exit(1)
	}

	client, err := embedding.NewClient()
	if err != nil {
		log.Error("failed to create OpenAI client", "error", err)
		os.Exit(1)
	}

	embedder := embedding.NewEmbedder(client, cfg.EmbeddingModel, 0)
	retriever := retrieval.New(embedder, store, cfg.TopK, cfg.MinScore, log)
	synthesizer := answer.NewSynthesizer(answer.NewOpenAICompleter(client.Client(), cfg.ChatModel), log)
	orchestrator := chat.New(retriever, synthesizer, log)

	transcriber := speech.NewOpenAITranscriber(client.Client())
	speaker := speech.NewOpenAISpeaker(client.Client(), cfg.TTSVoice)

	srv := api.NewServer(orchestrator, transcriber, speaker, store, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Info("shutting down...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting tutor server", "port", cfg.Port, "alias", cfg.CollectionAlias)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
