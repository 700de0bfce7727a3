package rag

import (
	"context"
	"fmt"
	"strings"

	"docuchat-be/pkg/llm"
)

const expanderSystemPrompt = `You are a query expansion system for an information retrieval assistant that uses text embeddings to find relevant documents.

Your input is the raw natural language query of the user, optionally followed by the conversation history between the user and the assistant, delimited by ###history. The history lines are prefixed with the speaker role.

Resolve pronouns and references in the query against the history. If the user changed topic with respect to the history, ignore the history and work from the query alone.

Output five paraphrases of the resolved query, one per line, without numbering, quotes, or other formatting. The paraphrases will be combined with the user query and used to retrieve relevant documents.`

// Expansion is the outcome of one query expansion call: the model's
// paraphrases and the serialized history that was submitted, kept for
// debugging.
type Expansion struct {
	Query   string
	History string
}

// QueryExpander rewrites a raw user question into retrieval-friendly
// paraphrases, resolving references against the conversation so far.
type QueryExpander struct {
	provider llm.Provider
	model    string
}

func NewQueryExpander(provider llm.Provider, model string) *QueryExpander {
	return &QueryExpander{provider: provider, model: model}
}

// Expand asks the completion model for five paraphrases of question given
// the prior conversation. history is passed in order and may include the
// system message, which is dropped. Errors propagate; there is no retry
// at this layer.
func (e *QueryExpander) Expand(ctx context.Context, history []llm.Message, question string) (*Expansion, error) {
	serialized := SerializeHistory(history)
	userContent := question
	if serialized != "" {
		userContent += "\n\n###history\n" + serialized
	}

	result, err := e.provider.Chat(ctx,
		[]llm.Message{
			{Role: llm.RoleSystem, Content: expanderSystemPrompt},
			{Role: llm.RoleUser, Content: userContent},
		},
		llm.WithModel(e.model),
		llm.WithTemperature(0),
	)
	if err != nil {
		return nil, fmt.Errorf("expand query: %w", err)
	}

	return &Expansion{
		Query:   result.Content,
		History: serialized,
	}, nil
}

// SerializeHistory renders a conversation as role-prefixed lines, one
// message per line, excluding system messages.
func SerializeHistory(history []llm.Message) string {
	var b strings.Builder
	for _, message := range history {
		if message.Role == llm.RoleSystem {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(message.Role)
		b.WriteString(": ")
		b.WriteString(strings.ReplaceAll(message.Content, "\n", " "))
	}
	return b.String()
}
