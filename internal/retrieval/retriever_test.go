package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidetutor/slidetutor/internal/vectorstore"
)

type fakeEmbedder struct {
	calls int
	err   error
	empty bool // return no vectors with a nil error
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.empty {
		return nil, nil
	}
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = make([]float32, vectorstore.VectorDimension)
	}
	return out, nil
}

type fakeSearcher struct {
	points []vectorstore.ScoredPoint
	err    error
	limit  int
}

func (f *fakeSearcher) SearchWithScores(ctx context.Context, vector []float32, limit int) ([]vectorstore.ScoredPoint, error) {
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.points) {
		return f.points[:limit], nil
	}
	return f.points, nil
}

func scoredPoints() []vectorstore.ScoredPoint {
	return []vectorstore.ScoredPoint{
		{Payload: map[string]any{"content": "ratio test", "sources": "doc.pdf (page 2)", "sequence_index": int64(3)}, Score: 0.91},
		{Payload: map[string]any{"content": "intro", "sources": "doc.pdf (page 1), doc.pdf (page 2)", "sequence_index": int64(0)}, Score: 0.55},
		{Payload: map[string]any{"content": "slide", "source": "cnn.pptx", "page": int64(4)}, Score: 0.31},
	}
}

func TestRetrieve_FiltersByMinScore(t *testing.T) {
	r := New(&fakeEmbedder{}, &fakeSearcher{points: scoredPoints()}, 5, 0.5, nil)

	hits, err := r.Retrieve(context.Background(), "what is the ratio test")
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "ratio test", hits[0].Chunk.Content)
	assert.Greater(t, hits[0].Score, hits[1].Score, "descending similarity order")
}

// Raising minScore never grows the result set.
func TestRetrieve_MonotonicInMinScore(t *testing.T) {
	prev := -1
	for _, minScore := range []float64{0, 0.3, 0.5, 0.9, 1.0} {
		r := New(&fakeEmbedder{}, &fakeSearcher{points: scoredPoints()}, 5, minScore, nil)
		hits, err := r.Retrieve(context.Background(), "q")
		require.NoError(t, err)
		if prev >= 0 && len(hits) > prev {
			t.Errorf("minScore %g returned %d hits, more than %d at a lower threshold", minScore, len(hits), prev)
		}
		prev = len(hits)
	}
}

func TestRetrieve_EmptyResultIsNotError(t *testing.T) {
	r := New(&fakeEmbedder{}, &fakeSearcher{}, 3, 0.5, nil)
	hits, err := r.Retrieve(context.Background(), "q")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestRetrieve_PayloadDecoding(t *testing.T) {
	r := New(&fakeEmbedder{}, &fakeSearcher{points: scoredPoints()}, 5, 0, nil)
	hits, err := r.Retrieve(context.Background(), "q")
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, []string{"doc.pdf (page 1)", "doc.pdf (page 2)"}, hits[1].Chunk.Metadata.Sources)
	assert.Equal(t, 3, hits[0].Chunk.SequenceIndex)

	assert.Equal(t, "cnn.pptx", hits[2].Chunk.Metadata.Source)
	assert.Equal(t, 4, hits[2].Chunk.Metadata.Page)
	assert.Equal(t, []string{"cnn.pptx (page 4)"}, hits[2].Chunk.Metadata.Provenance())
}

func TestRetrieve_EmbedErrorPropagates(t *testing.T) {
	r := New(&fakeEmbedder{err: errors.New("rate limited")}, &fakeSearcher{}, 3, 0, nil)
	_, err := r.Retrieve(context.Background(), "q")
	assert.Error(t, err)
}

// A provider returning no vectors with a nil error must surface as an error,
// not a panic.
func TestRetrieve_NoQueryVectorIsError(t *testing.T) {
	r := New(&fakeEmbedder{empty: true}, &fakeSearcher{points: scoredPoints()}, 3, 0, nil)
	_, err := r.Retrieve(context.Background(), "q")
	assert.Error(t, err)
}

func TestRetrieve_UsesConfiguredTopK(t *testing.T) {
	searcher := &fakeSearcher{points: scoredPoints()}
	r := New(&fakeEmbedder{}, searcher, 2, 0, nil)
	hits, err := r.Retrieve(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, 2, searcher.limit)
	assert.Len(t, hits, 2)
}
