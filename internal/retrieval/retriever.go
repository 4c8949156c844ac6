// Package retrieval answers "which chunks ground this query": embed the
// query, ask the vector store for the nearest points, filter by score.
package retrieval

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/slidetutor/slidetutor/internal/corpus"
	"github.com/slidetutor/slidetutor/internal/embedding"
	"github.com/slidetutor/slidetutor/internal/vectorstore"
)

// Searcher is the nearest-neighbor capability of the vector store.
type Searcher interface {
	SearchWithScores(ctx context.Context, vector []float32, limit int) ([]vectorstore.ScoredPoint, error)
}

// Retriever embeds queries with the same model used at build time and
// filters hits below MinScore. Scores are cosine similarity: higher is
// better, so the filter keeps hits at or above the threshold.
type Retriever struct {
	embedder embedding.Provider
	searcher Searcher
	topK     int
	minScore float64
	logger   *slog.Logger
}

// New creates a Retriever. topK below 1 defaults to 3.
func New(embedder embedding.Provider, searcher Searcher, topK int, minScore float64, logger *slog.Logger) *Retriever {
	if topK < 1 {
		topK = 3
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{
		embedder: embedder,
		searcher: searcher,
		topK:     topK,
		minScore: minScore,
		logger:   logger,
	}
}

// Retrieve returns the qualifying chunks for a query in descending
// similarity order. An empty result is not an error: it means no grounding
// is available and the caller applies its fallback.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]corpus.RetrievalHit, error) {
	vectors, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embed query: no vector returned")
	}

	points, err := r.searcher.SearchWithScores(ctx, vectors[0], r.topK)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits := make([]corpus.RetrievalHit, 0, len(points))
	for _, p := range points {
		if p.Score < r.minScore {
			continue
		}
		hits = append(hits, corpus.RetrievalHit{
			Chunk: chunkFromPayload(p.Payload),
			Score: p.Score,
		})
	}
	r.logger.Debug("retrieved chunks", "requested", r.topK, "qualifying", len(hits))
	return hits, nil
}

// chunkFromPayload rebuilds a chunk from the sanitized point payload,
// splitting the comma-joined sources back into the provenance list.
func chunkFromPayload(payload map[string]any) corpus.Chunk {
	c := corpus.Chunk{
		Content:       asString(payload["content"]),
		SequenceIndex: asInt(payload["sequence_index"]),
	}
	if joined := asString(payload["sources"]); joined != "" {
		c.Metadata.Sources = vectorstore.SplitSources(joined)
	} else {
		c.Metadata.Source = asString(payload["source"])
		c.Metadata.Page = asInt(payload["page"])
	}
	return c
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
