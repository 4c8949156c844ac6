// Package api exposes the tutor over HTTP: a JSON question endpoint, a
// voice endpoint that wraps it in speech-to-text and text-to-speech, and
// static serving for generated audio.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/slidetutor/slidetutor/internal/chat"
	"github.com/slidetutor/slidetutor/internal/config"
	"github.com/slidetutor/slidetutor/internal/corpus"
	"github.com/slidetutor/slidetutor/internal/speech"
)

// Answerer is the conversation orchestrator boundary.
type Answerer interface {
	Answer(ctx context.Context, question string, history []corpus.ConversationTurn) chat.Result
}

// HealthChecker reports vector store connectivity.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Server is the HTTP API server.
type Server struct {
	router      chi.Router
	answerer    Answerer
	transcriber speech.Transcriber
	speaker     speech.Speaker
	health      HealthChecker
	log         *slog.Logger
	cfg         config.Config
}

// NewServer creates and configures the HTTP server. Transcriber and speaker
// may be nil; the voice endpoint then reports itself unavailable.
func NewServer(answerer Answerer, transcriber speech.Transcriber, speaker speech.Speaker,
	health HealthChecker, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		answerer:    answerer,
		transcriber: transcriber,
		speaker:     speaker,
		health:      health,
		log:         log,
		cfg:         cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Post("/ask", s.handleAsk)
	r.Post("/ask/voice", s.handleAskVoice)

	// Generated answer audio.
	fileServer := http.StripPrefix("/audio/", http.FileServer(http.Dir(s.cfg.AudioDir)))
	r.Get("/audio/*", fileServer.ServeHTTP)

	s.router = r
}
