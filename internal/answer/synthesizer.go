// Package answer turns retrieved chunks into a grounded tutor answer with
// a citation trail.
package answer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/slidetutor/slidetutor/internal/corpus"
	"github.com/slidetutor/slidetutor/internal/lang"
)

// Completer is the language-model text-completion capability.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Synthesizer assembles the grounded prompt, invokes the completion
// capability once per request, and derives the citation list.
type Synthesizer struct {
	completer Completer
	logger    *slog.Logger
}

// NewSynthesizer creates a Synthesizer. A nil logger falls back to
// slog.Default().
func NewSynthesizer(completer Completer, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synthesizer{completer: completer, logger: logger}
}

// Synthesize returns the answer and newline-separated citation text for the
// retrieved hits. With no hits the completion capability is never invoked:
// the fixed fallback for the target language comes back with an empty
// citation.
func (s *Synthesizer) Synthesize(
	ctx context.Context,
	hits []corpus.RetrievalHit,
	question string,
	history []corpus.ConversationTurn,
	target lang.Language,
) (string, string, error) {
	if len(hits) == 0 {
		return lang.Fallback(target), "", nil
	}

	prompt := buildPrompt(hits, question, history, target)
	s.logger.Debug("invoking completion", "prompt_bytes", len(prompt), "chunks", len(hits))

	raw, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		return "", "", fmt.Errorf("completion: %w", err)
	}

	return strings.TrimSpace(raw), Citations(hits), nil
}

// Citations renders the deduplicated provenance of the hits as
// "- <source>" lines. Order is first-seen; duplicates are dropped by exact
// string equality only.
func Citations(hits []corpus.RetrievalHit) string {
	seen := make(map[string]struct{})
	var ordered []string
	for _, h := range hits {
		for _, src := range h.Chunk.Metadata.Provenance() {
			src = strings.TrimSpace(src)
			if src == "" {
				continue
			}
			if _, ok := seen[src]; ok {
				continue
			}
			seen[src] = struct{}{}
			ordered = append(ordered, src)
		}
	}

	if len(ordered) == 0 {
		return ""
	}
	lines := make([]string, len(ordered))
	for i, src := range ordered {
		lines[i] = "- " + src
	}
	return strings.Join(lines, "\n")
}
