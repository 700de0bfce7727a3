package embedder

import "strings"

// maxSegmentLength bounds segment size in characters. Chosen so a segment
// stays well under the embedding model's input limit even for token-dense
// languages.
const maxSegmentLength = 512

// TokenCounter reports the model token count of a text. Injected so the
// splitter and pipeline can be tested without a real tokenizer.
type TokenCounter func(text string) int

// separators in order of preference. The splitter recurses from coarse to
// fine boundaries and only falls back to a hard character cut when a piece
// has no boundary at all.
var separators = []string{"\n\n", "\n", ". ", " "}

// SplitDocument splits the document text into segments of at most
// maxSegmentLength characters with no overlap, assigns token counts, and
// mutates the document in place.
func SplitDocument(doc *Document, countTokens TokenCounter) {
	chunks := split(doc.Text, separators)
	segments := make([]*DocumentSegment, 0, len(chunks))
	for i, chunk := range chunks {
		segments = append(segments, &DocumentSegment{
			Text:       chunk,
			TokenCount: countTokens(chunk),
			Index:      i,
			Doc:        doc,
		})
	}
	doc.Segments = segments
}

func split(text string, seps []string) []string {
	if len(text) == 0 {
		return nil
	}
	if len(text) <= maxSegmentLength {
		return []string{text}
	}
	if len(seps) == 0 {
		// No boundary left, hard cut on rune boundaries.
		runes := []rune(text)
		var chunks []string
		for len(runes) > 0 {
			end := maxSegmentLength
			if end > len(runes) {
				end = len(runes)
			}
			chunks = append(chunks, string(runes[:end]))
			runes = runes[end:]
		}
		return chunks
	}

	sep := seps[0]
	parts := strings.Split(text, sep)
	var chunks []string
	current := ""
	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, current)
			current = ""
		}
	}
	for i, part := range parts {
		piece := part
		if i < len(parts)-1 {
			piece += sep
		}
		if len(piece) > maxSegmentLength {
			flush()
			chunks = append(chunks, split(piece, seps[1:])...)
			continue
		}
		if len(current)+len(piece) > maxSegmentLength {
			flush()
		}
		current += piece
	}
	flush()
	return chunks
}
