package embedder

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbedding returns a deterministic vector per input and records the
// texts it was asked to embed.
type fakeEmbedding struct {
	mu    sync.Mutex
	calls int
	texts []string
	err   error
}

func (p *fakeEmbedding) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.texts = append(p.texts, texts...)
	if p.err != nil {
		return nil, p.err
	}
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vectors[i] = []float64{float64(len(text)), 1, 2}
	}
	return vectors, nil
}

func (p *fakeEmbedding) Dimensions() int { return 3 }

func segmentsWithTokens(tokens ...int) []*DocumentSegment {
	segments := make([]*DocumentSegment, len(tokens))
	for i, n := range tokens {
		segments[i] = &DocumentSegment{Text: "segment", TokenCount: n, Index: i}
	}
	return segments
}

func TestAssembleBatchesRespectsTokenCeiling(t *testing.T) {
	batches := assembleBatches(segmentsWithTokens(4000, 4000, 4000, 2000))

	for _, batch := range batches {
		require.NotEmpty(t, batch.Segments)
		if len(batch.Segments) > 1 {
			assert.LessOrEqual(t, batch.TokenCount, maxBatchTokens)
		}
	}

	total := 0
	for _, batch := range batches {
		total += len(batch.Segments)
	}
	assert.Equal(t, 4, total)
}

func TestAssembleBatchesGreedyFromTail(t *testing.T) {
	batches := assembleBatches(segmentsWithTokens(10, 20, 30))

	require.Len(t, batches, 1)
	assert.Equal(t, 60, batches[0].TokenCount)
	assert.Len(t, batches[0].Segments, 3)
	// Tail first.
	assert.Equal(t, 2, batches[0].Segments[0].Index)
}

func TestAssembleBatchesOversizeSegmentGetsOwnBatch(t *testing.T) {
	batches := assembleBatches(segmentsWithTokens(100, 9000, 100))

	require.Len(t, batches, 3)
	for _, batch := range batches {
		assert.Len(t, batch.Segments, 1)
	}
}

func TestEmbedDocumentsAssignsVectors(t *testing.T) {
	provider := &fakeEmbedding{}
	pipeline := NewPipeline(provider, wordCount, nil)

	docs := []*Document{
		{URI: "a", Text: "alpha beta gamma"},
		{URI: "b", Text: "delta epsilon"},
	}
	require.NoError(t, pipeline.EmbedDocuments(context.Background(), docs, nil))

	for _, doc := range docs {
		require.NotEmpty(t, doc.Segments)
		for _, segment := range doc.Segments {
			assert.Len(t, segment.Embedding, 3)
		}
	}
}

func TestEmbedDocumentsZeroTokenBatchSkipsBackend(t *testing.T) {
	provider := &fakeEmbedding{}
	pipeline := NewPipeline(provider, func(string) int { return 0 }, nil)

	docs := []*Document{{URI: "a", Text: "whatever"}}
	require.NoError(t, pipeline.EmbedDocuments(context.Background(), docs, nil))

	assert.Equal(t, 0, provider.calls)
	require.Len(t, docs[0].Segments, 1)
	assert.Equal(t, []float64{0, 0, 0}, docs[0].Segments[0].Embedding)
}

func TestEmbedDocumentsStops(t *testing.T) {
	provider := &fakeEmbedding{}
	pipeline := NewPipeline(provider, wordCount, nil)

	docs := []*Document{{URI: "a", Text: "some words here"}}
	err := pipeline.EmbedDocuments(context.Background(), docs, func(ctx context.Context) (bool, error) {
		return true, nil
	})

	assert.ErrorIs(t, err, ErrStopped)
}

func TestEmbedDocumentsBackendErrorPropagates(t *testing.T) {
	provider := &fakeEmbedding{err: errors.New("quota exceeded")}
	pipeline := NewPipeline(provider, wordCount, nil)

	docs := []*Document{{URI: "a", Text: "some words here"}}
	err := pipeline.EmbedDocuments(context.Background(), docs, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestEmbedDocumentsLogsProgress(t *testing.T) {
	provider := &fakeEmbedding{}
	var lines []string
	pipeline := NewPipeline(provider, wordCount, func(message string) {
		lines = append(lines, message)
	})

	docs := []*Document{{URI: "a", Text: "alpha beta"}}
	require.NoError(t, pipeline.EmbedDocuments(context.Background(), docs, nil))

	assert.NotEmpty(t, lines)
}
