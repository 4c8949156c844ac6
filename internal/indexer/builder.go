// Package indexer builds the vector index from persisted chunks: sanitize
// metadata, embed, upsert, swap the serving alias.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/slidetutor/slidetutor/internal/corpus"
	"github.com/slidetutor/slidetutor/internal/embedding"
	"github.com/slidetutor/slidetutor/internal/vectorstore"
)

// ErrNoChunks means the chunk store holds nothing to index: a configuration
// error, the split step has not run.
var ErrNoChunks = errors.New("no persisted chunks to index")

// ChunkSource loads the persisted chunks of one ingestion run.
type ChunkSource interface {
	LoadAll() ([]corpus.Chunk, error)
}

// VectorIndex is the index side of the build: a two-phase rebuild over the
// vector store.
type VectorIndex interface {
	BeginRebuild(ctx context.Context) (string, error)
	UpsertPoints(ctx context.Context, collection string, points []vectorstore.Point) error
	CommitRebuild(ctx context.Context, staging string) error
	AbortRebuild(ctx context.Context, staging string) error
}

// Builder orchestrates one full index build.
type Builder struct {
	chunks   ChunkSource
	embedder embedding.Provider
	index    VectorIndex
	logger   *slog.Logger
}

// NewBuilder creates a Builder. A nil logger falls back to slog.Default().
func NewBuilder(chunks ChunkSource, embedder embedding.Provider, index VectorIndex, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		chunks:   chunks,
		embedder: embedder,
		index:    index,
		logger:   logger,
	}
}

// Result contains statistics about an index build.
type Result struct {
	Chunks     int
	Collection string
	Duration   time.Duration
}

// Build loads every persisted chunk, embeds all contents and writes one
// point per chunk into a fresh generation, then commits the alias swap.
// Any embedding or upsert failure aborts the whole build and drops the
// staging collection: a partial index would understate recall without
// signaling it, so no partial index is ever committed.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()

	chunks, err := b.chunks.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}
	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}
	b.logger.Info("loaded persisted chunks", "count", len(chunks))

	staging, err := b.index.BeginRebuild(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin rebuild: %w", err)
	}
	b.logger.Info("staging collection created", "collection", staging)

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	vectors, err := b.embedder.Embed(ctx, texts)
	if err != nil {
		b.abort(ctx, staging)
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		b.abort(ctx, staging)
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	points := make([]vectorstore.Point, len(chunks))
	for i, c := range chunks {
		points[i] = vectorstore.Point{
			ID:      uuid.New().String(),
			Vector:  vectors[i],
			Payload: chunkPayload(c),
		}
	}

	if err := b.index.UpsertPoints(ctx, staging, points); err != nil {
		b.abort(ctx, staging)
		return nil, fmt.Errorf("store points: %w", err)
	}

	// Destructive step: the previous generation is dropped once the alias
	// points at the new one.
	if err := b.index.CommitRebuild(ctx, staging); err != nil {
		return nil, fmt.Errorf("commit rebuild: %w", err)
	}
	b.logger.Info("index committed, previous generation dropped",
		"collection", staging,
		"chunks", len(chunks),
	)

	return &Result{
		Chunks:     len(chunks),
		Collection: staging,
		Duration:   time.Since(start),
	}, nil
}

func (b *Builder) abort(ctx context.Context, staging string) {
	if err := b.index.AbortRebuild(ctx, staging); err != nil {
		b.logger.Warn("failed to drop staging collection", "collection", staging, "error", err)
	}
}

// chunkPayload flattens a chunk into the primitive-only payload shape the
// vector store accepts.
func chunkPayload(c corpus.Chunk) map[string]any {
	payload := map[string]any{
		"content":        c.Content,
		"sequence_index": c.SequenceIndex,
	}
	if len(c.Metadata.Sources) > 0 {
		payload["sources"] = c.Metadata.Sources
	} else {
		payload["source"] = c.Metadata.Source
		payload["page"] = c.Metadata.Page
	}
	return vectorstore.Sanitize(payload)
}
