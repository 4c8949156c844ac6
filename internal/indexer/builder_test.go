package indexer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidetutor/slidetutor/internal/corpus"
	"github.com/slidetutor/slidetutor/internal/vectorstore"
)

type fakeChunkSource struct {
	chunks []corpus.Chunk
	err    error
}

func (f *fakeChunkSource) LoadAll() ([]corpus.Chunk, error) {
	return f.chunks, f.err
}

type fakeEmbedder struct {
	err   error
	short bool // return one vector fewer than requested
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	n := len(texts)
	if f.short && n > 0 {
		n--
	}
	out := make([][]float32, n)
	for i := range out {
		out[i] = make([]float32, vectorstore.VectorDimension)
	}
	return out, nil
}

type fakeIndex struct {
	began     int
	aborted   []string
	committed []string
	upserted  []vectorstore.Point
	upsertErr error
	commitErr error
	beginErr  error
}

func (f *fakeIndex) BeginRebuild(ctx context.Context) (string, error) {
	f.began++
	if f.beginErr != nil {
		return "", f.beginErr
	}
	return "staging_1", nil
}

func (f *fakeIndex) UpsertPoints(ctx context.Context, collection string, points []vectorstore.Point) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, points...)
	return nil
}

func (f *fakeIndex) CommitRebuild(ctx context.Context, staging string) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.committed = append(f.committed, staging)
	return nil
}

func (f *fakeIndex) AbortRebuild(ctx context.Context, staging string) error {
	f.aborted = append(f.aborted, staging)
	return nil
}

func testChunks() []corpus.Chunk {
	return []corpus.Chunk{
		{Content: "first", Metadata: corpus.Metadata{Sources: []string{"a.pdf (page 1)", "a.pdf (page 2)"}}, SequenceIndex: 0},
		{Content: "second", Metadata: corpus.Metadata{Source: "b.pptx", Page: 3}, SequenceIndex: 1},
	}
}

func TestBuild_Success(t *testing.T) {
	index := &fakeIndex{}
	b := NewBuilder(&fakeChunkSource{chunks: testChunks()}, &fakeEmbedder{}, index, nil)

	res, err := b.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Chunks)
	assert.Equal(t, "staging_1", res.Collection)
	assert.Equal(t, []string{"staging_1"}, index.committed)
	assert.Empty(t, index.aborted)
	require.Len(t, index.upserted, 2)

	p := index.upserted[0]
	assert.NotEmpty(t, p.ID)
	assert.Len(t, p.Vector, vectorstore.VectorDimension)
	assert.Equal(t, "first", p.Payload["content"])
	assert.Equal(t, "a.pdf (page 1), a.pdf (page 2)", p.Payload["sources"], "list provenance flattened for the store")

	assert.Equal(t, "b.pptx", index.upserted[1].Payload["source"])
	assert.Equal(t, 3, index.upserted[1].Payload["page"])
}

func TestBuild_EmptyStore(t *testing.T) {
	index := &fakeIndex{}
	b := NewBuilder(&fakeChunkSource{}, &fakeEmbedder{}, index, nil)

	_, err := b.Build(context.Background())
	require.ErrorIs(t, err, ErrNoChunks)
	assert.Zero(t, index.began, "no staging collection for an empty store")
}

func TestBuild_EmbedFailureAborts(t *testing.T) {
	index := &fakeIndex{}
	b := NewBuilder(&fakeChunkSource{chunks: testChunks()}, &fakeEmbedder{err: errors.New("quota exceeded")}, index, nil)

	_, err := b.Build(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"staging_1"}, index.aborted)
	assert.Empty(t, index.committed, "a failed build must not swap the alias")
	assert.Empty(t, index.upserted)
}

func TestBuild_VectorCountMismatchAborts(t *testing.T) {
	index := &fakeIndex{}
	b := NewBuilder(&fakeChunkSource{chunks: testChunks()}, &fakeEmbedder{short: true}, index, nil)

	_, err := b.Build(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"staging_1"}, index.aborted)
	assert.Empty(t, index.committed)
}

func TestBuild_UpsertFailureAborts(t *testing.T) {
	index := &fakeIndex{upsertErr: errors.New("connection reset")}
	b := NewBuilder(&fakeChunkSource{chunks: testChunks()}, &fakeEmbedder{}, index, nil)

	_, err := b.Build(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"staging_1"}, index.aborted)
	assert.Empty(t, index.committed)
}

func TestBuild_LoadFailure(t *testing.T) {
	index := &fakeIndex{}
	b := NewBuilder(&fakeChunkSource{err: errors.New("bad record")}, &fakeEmbedder{}, index, nil)

	_, err := b.Build(context.Background())
	require.Error(t, err)
	assert.Zero(t, index.began)
}
