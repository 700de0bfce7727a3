package rag

import (
	"fmt"
	"strings"
)

// TokenCounter counts model tokens in a piece of text.
type TokenCounter func(text string) int

// BuildContextCandidates renders ranked segments as "###context-<n>"
// sections and counts their tokens, producing the candidate list fed to
// the packer. Section numbers are positions in the ranked list, so a
// packed prefix keeps its numbering.
func BuildContextCandidates(segments []ScoredSegment, countTokens TokenCounter) []Candidate {
	candidates := make([]Candidate, len(segments))
	for i, segment := range segments {
		text := fmt.Sprintf("###context-%d\n%s\n%s", i, segment.Segment.Doc.Title, segment.Segment.Text)
		candidates[i] = Candidate{
			Text:   text,
			Tokens: countTokens(text),
		}
	}
	return candidates
}

// BuildUserMessage assembles the user message submitted to the model: the
// question followed by the packed context sections.
func BuildUserMessage(question string, contexts []Candidate) string {
	var b strings.Builder
	b.WriteString("###question\n")
	b.WriteString(question)
	for _, candidate := range contexts {
		b.WriteString("\n\n")
		b.WriteString(candidate.Text)
	}
	return b.String()
}
