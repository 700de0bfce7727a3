package rag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docuchat-be/pkg/embedder"
	"docuchat-be/pkg/vector"
)

// fakeStore serves canned hits per source id.
type fakeStore struct {
	hits map[string][]vector.Hit
}

func (s *fakeStore) Update(ctx context.Context, sourceID string, docs []*embedder.Document, log embedder.Logger) error {
	return nil
}

func (s *fakeStore) Query(ctx context.Context, sourceID string, queryVector []float64, k int) ([]vector.Hit, error) {
	return s.hits[sourceID], nil
}

func (s *fakeStore) GetDocuments(ctx context.Context, sourceID string, offset, limit int) ([]vector.Document, error) {
	return nil, nil
}

func (s *fakeStore) DeleteSource(ctx context.Context, sourceID string) error {
	return nil
}

func makeDoc(uri string, texts ...string) *embedder.Document {
	doc := &embedder.Document{URI: uri, Title: "title of " + uri}
	for i, text := range texts {
		doc.Segments = append(doc.Segments, &embedder.DocumentSegment{
			Text:  text,
			Index: i,
			Doc:   doc,
		})
	}
	return doc
}

func TestCollectionQueryResolvesSegmentIDs(t *testing.T) {
	store := &fakeStore{hits: map[string][]vector.Hit{
		"src": {
			{ID: "doc-a|1", Distance: 0.2},
			{ID: "doc-b|0", Distance: 0.5},
		},
	}}
	collection := NewCollection("src", store, []*embedder.Document{
		makeDoc("doc-a", "a0", "a1"),
		makeDoc("doc-b", "b0"),
	})

	segments, err := collection.Query(context.Background(), []float64{0.1}, 10)
	require.NoError(t, err)

	require.Len(t, segments, 2)
	assert.Equal(t, "a1", segments[0].Segment.Text)
	assert.Equal(t, 0.2, segments[0].Distance)
	assert.Equal(t, "b0", segments[1].Segment.Text)
}

func TestCollectionQuerySkipsStaleAndMalformedIDs(t *testing.T) {
	store := &fakeStore{hits: map[string][]vector.Hit{
		"src": {
			{ID: "gone-doc|0", Distance: 0.1},  // document no longer loaded
			{ID: "doc-a|7", Distance: 0.2},     // segment index out of range
			{ID: "no-separator", Distance: 0.3},
			{ID: "doc-a|notanumber", Distance: 0.4},
			{ID: "doc-a|0", Distance: 0.5},
		},
	}}
	collection := NewCollection("src", store, []*embedder.Document{
		makeDoc("doc-a", "a0"),
	})

	segments, err := collection.Query(context.Background(), []float64{0.1}, 10)
	require.NoError(t, err)

	require.Len(t, segments, 1)
	assert.Equal(t, "a0", segments[0].Segment.Text)
}

func TestQueryAllMergesSortedByDistance(t *testing.T) {
	store := &fakeStore{hits: map[string][]vector.Hit{
		"src1": {
			{ID: "d1|0", Distance: 0.9},
			{ID: "d1|1", Distance: 0.2},
		},
		"src2": {
			{ID: "d2|0", Distance: 0.5},
		},
	}}
	collections := []*Collection{
		NewCollection("src1", store, []*embedder.Document{makeDoc("d1", "x0", "x1")}),
		NewCollection("src2", store, []*embedder.Document{makeDoc("d2", "y0")}),
	}

	merged, err := QueryAll(context.Background(), collections, []float64{0.1}, 10)
	require.NoError(t, err)

	require.Len(t, merged, 3)
	assert.Equal(t, []float64{0.2, 0.5, 0.9}, []float64{merged[0].Distance, merged[1].Distance, merged[2].Distance})
	assert.Equal(t, "x1", merged[0].Segment.Text)
	assert.Equal(t, "y0", merged[1].Segment.Text)
	assert.Equal(t, "x0", merged[2].Segment.Text)
}

func TestQueryAllEmptyCollections(t *testing.T) {
	merged, err := QueryAll(context.Background(), nil, []float64{0.1}, 10)
	require.NoError(t, err)
	assert.Empty(t, merged)
}
