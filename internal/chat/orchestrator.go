// Package chat drives one question through the answer state machine:
// greeting check, retrieval, synthesis, fallback arbitration.
package chat

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/slidetutor/slidetutor/internal/corpus"
	"github.com/slidetutor/slidetutor/internal/lang"
)

// Retriever selects grounding chunks for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]corpus.RetrievalHit, error)
}

// Synthesizer produces the grounded answer and citation text.
type Synthesizer interface {
	Synthesize(ctx context.Context, hits []corpus.RetrievalHit, question string,
		history []corpus.ConversationTurn, target lang.Language) (string, string, error)
}

// Result is the outcome of one question. Citation is newline-separated
// "- <source>" lines, empty when the answer has no grounding.
type Result struct {
	Answer   string
	Citation string
	Language lang.Language
}

// Orchestrator is stateless across requests: all conversation history is
// supplied by the caller per request.
type Orchestrator struct {
	retriever   Retriever
	synthesizer Synthesizer
	logger      *slog.Logger
}

// New creates an Orchestrator. A nil logger falls back to slog.Default().
func New(retriever Retriever, synthesizer Synthesizer, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		retriever:   retriever,
		synthesizer: synthesizer,
		logger:      logger,
	}
}

// Answer runs the state machine for one question. Capability failures are
// converted into a degraded but valid answer in the detected language; a
// raw error never reaches the caller as an answer.
func (o *Orchestrator) Answer(ctx context.Context, question string, history []corpus.ConversationTurn) Result {
	detected := lang.Detect(question)

	if lang.IsGreeting(question) {
		o.logger.Info("greeting short-circuit", "language", detected.String())
		return Result{
			Answer:   lang.GreetingReply(detected),
			Language: detected,
		}
	}

	hits, err := o.retriever.Retrieve(ctx, question)
	if err != nil {
		o.logger.Error("retrieval failed", "error", err)
		return Result{Answer: lang.Fallback(detected), Language: detected}
	}

	answer, citation, err := o.synthesizer.Synthesize(ctx, hits, question, history, detected)
	if err != nil {
		o.logger.Error("answer synthesis failed", "error", err)
		return Result{Answer: lang.Fallback(detected), Language: detected}
	}

	return Result{
		Answer:   answer,
		Citation: citation,
		Language: detected,
	}
}

// ParseHistory decodes caller-supplied history. Malformed history degrades
// to an empty conversation rather than failing the turn; turns with an
// unknown role or empty text are dropped.
func ParseHistory(raw json.RawMessage) []corpus.ConversationTurn {
	if len(raw) == 0 {
		return nil
	}
	var turns []corpus.ConversationTurn
	if err := json.Unmarshal(raw, &turns); err != nil {
		return nil
	}
	valid := turns[:0]
	for _, t := range turns {
		if t.Text == "" {
			continue
		}
		if t.Role != corpus.RoleUser && t.Role != corpus.RoleAssistant {
			continue
		}
		valid = append(valid, t)
	}
	return valid
}
