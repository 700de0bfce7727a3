package embedder

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wordCount(text string) int {
	return len(strings.Fields(text))
}

func TestSplitDocumentShortTextSingleSegment(t *testing.T) {
	doc := &Document{URI: "u", Text: "a short paragraph"}
	SplitDocument(doc, wordCount)

	require.Len(t, doc.Segments, 1)
	assert.Equal(t, "a short paragraph", doc.Segments[0].Text)
	assert.Equal(t, 3, doc.Segments[0].TokenCount)
	assert.Equal(t, 0, doc.Segments[0].Index)
	assert.Same(t, doc, doc.Segments[0].Doc)
}

func TestSplitDocumentEmptyText(t *testing.T) {
	doc := &Document{URI: "u", Text: ""}
	SplitDocument(doc, wordCount)

	assert.Empty(t, doc.Segments)
}

func TestSplitDocumentRespectsMaxLength(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 100; i++ {
		b.WriteString("This is sentence number whatever, padding out the paragraph. ")
		if i%5 == 4 {
			b.WriteString("\n\n")
		}
	}
	doc := &Document{URI: "u", Text: b.String()}
	SplitDocument(doc, wordCount)

	require.NotEmpty(t, doc.Segments)
	for _, segment := range doc.Segments {
		assert.LessOrEqual(t, len(segment.Text), maxSegmentLength)
	}
}

func TestSplitDocumentLosesNoText(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("Paragraph body with several words in it.\n\nAnother line here. ")
	}
	doc := &Document{URI: "u", Text: b.String()}
	SplitDocument(doc, wordCount)

	var joined strings.Builder
	for _, segment := range doc.Segments {
		joined.WriteString(segment.Text)
	}
	assert.Equal(t, b.String(), joined.String())
}

func TestSplitDocumentPrefersParagraphBoundaries(t *testing.T) {
	para := strings.Repeat("word ", 60) // ~300 chars
	doc := &Document{URI: "u", Text: para + "\n\n" + para + "\n\n" + para}
	SplitDocument(doc, wordCount)

	// Each paragraph fits on its own but no two fit together, so the
	// splitter must cut exactly at the blank lines.
	require.Len(t, doc.Segments, 3)
	assert.True(t, strings.HasSuffix(doc.Segments[0].Text, "\n\n"))
	assert.True(t, strings.HasSuffix(doc.Segments[1].Text, "\n\n"))
}

func TestSplitDocumentHardCutOnRuneBoundaries(t *testing.T) {
	// No separator anywhere, multi-byte runes throughout.
	doc := &Document{URI: "u", Text: strings.Repeat("ä", 1200)}
	SplitDocument(doc, wordCount)

	require.Len(t, doc.Segments, 3)
	for _, segment := range doc.Segments {
		assert.True(t, utf8.ValidString(segment.Text))
		assert.LessOrEqual(t, utf8.RuneCountInString(segment.Text), maxSegmentLength)
	}
}

func TestSplitDocumentAssignsSequentialIndices(t *testing.T) {
	doc := &Document{URI: "u", Text: strings.Repeat("Some sentence here. ", 200)}
	SplitDocument(doc, wordCount)

	require.Greater(t, len(doc.Segments), 1)
	for i, segment := range doc.Segments {
		assert.Equal(t, i, segment.Index)
		assert.Same(t, doc, segment.Doc)
	}
}
