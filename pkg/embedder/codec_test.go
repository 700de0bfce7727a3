package embedder

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func corpusFixture() []*Document {
	docA := &Document{URI: "docs/a.md", Title: "Doc A"}
	docA.Segments = []*DocumentSegment{
		{Text: "first segment", TokenCount: 3, Embedding: []float64{1, 2, 3}, Index: 0, Doc: docA},
		{Text: "second segment", TokenCount: 4, Embedding: []float64{3, 4, 5}, Index: 1, Doc: docA},
	}
	docB := &Document{URI: "docs/b.md", Title: "Doc B, ümlauts"}
	docB.Segments = []*DocumentSegment{
		{Text: "", TokenCount: 0, Embedding: []float64{0.5, -0.5, 0.25}, Index: 0, Doc: docB},
	}
	return []*Document{docA, docB}
}

func TestCodecRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.bin")
	require.NoError(t, WriteDocuments(path, corpusFixture()))

	docs, err := ReadDocuments(path)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "docs/a.md", docs[0].URI)
	assert.Equal(t, "Doc A", docs[0].Title)
	require.Len(t, docs[0].Segments, 2)
	assert.Equal(t, "first segment", docs[0].Segments[0].Text)
	assert.Equal(t, 3, docs[0].Segments[0].TokenCount)
	assert.Equal(t, []float64{1, 2, 3}, docs[0].Segments[0].Embedding)
	assert.Equal(t, 1, docs[0].Segments[1].Index)
	assert.Same(t, docs[0], docs[0].Segments[1].Doc)

	assert.Equal(t, "Doc B, ümlauts", docs[1].Title)
}

func TestCodecRecomputesMeanEmbeddingOnLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.bin")
	require.NoError(t, WriteDocuments(path, corpusFixture()))

	docs, err := ReadDocuments(path)
	require.NoError(t, err)

	assert.Equal(t, []float64{2, 3, 4}, docs[0].Embedding)
	assert.Equal(t, []float64{0.5, -0.5, 0.25}, docs[1].Embedding)
}

func TestCodecTruncatedFileIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.bin")
	require.NoError(t, WriteDocuments(path, corpusFixture()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data[:len(data)-5], 0o644))

	_, err = ReadDocuments(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading past end of file")
}

func TestCodecNegativeCountsAreErrors(t *testing.T) {
	putInt32 := func(values ...int32) []byte {
		data := make([]byte, 0, 4*len(values))
		for _, v := range values {
			var buf [4]byte
			binary.BigEndian.PutUint32(buf[:], uint32(v))
			data = append(data, buf[:]...)
		}
		return data
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"negative doc count", putInt32(-1)},
		{"negative uri length", putInt32(1, -16)},
		{"negative segment count", append(putInt32(1, 0), append(putInt32(0), putInt32(-3)...)...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "corpus.bin")
			require.NoError(t, os.WriteFile(path, tt.data, 0o644))

			_, err := ReadDocuments(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "corrupt")

			_, err = ReadDocumentsInMemory(path)
			require.Error(t, err)
		})
	}
}

func TestCodecEmptyCorpus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.bin")
	require.NoError(t, WriteDocuments(path, nil))

	docs, err := ReadDocuments(path)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestReadDocumentsInMemoryMatchesStreaming(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.bin")
	require.NoError(t, WriteDocuments(path, corpusFixture()))

	streamed, err := ReadDocuments(path)
	require.NoError(t, err)
	inMemory, err := ReadDocumentsInMemory(path)
	require.NoError(t, err)

	require.Len(t, inMemory, len(streamed))
	for i := range streamed {
		assert.Equal(t, streamed[i].URI, inMemory[i].URI)
		assert.Equal(t, streamed[i].Embedding, inMemory[i].Embedding)
		require.Len(t, inMemory[i].Segments, len(streamed[i].Segments))
		for j := range streamed[i].Segments {
			assert.Equal(t, streamed[i].Segments[j].Text, inMemory[i].Segments[j].Text)
			assert.Equal(t, streamed[i].Segments[j].Embedding, inMemory[i].Segments[j].Embedding)
		}
	}
}
