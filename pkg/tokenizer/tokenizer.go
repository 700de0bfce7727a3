// Package tokenizer provides token counting for prompt budget accounting.
// It wraps the cl100k_base encoding used by the OpenAI embedding and chat
// models this service talks to.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

type Tokenizer struct {
	encoding *tiktoken.Tiktoken
}

func New() (*Tokenizer, error) {
	encoding, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("load cl100k_base encoding: %w", err)
	}
	return &Tokenizer{encoding: encoding}, nil
}

// Count returns the number of tokens in text.
func (t *Tokenizer) Count(text string) int {
	return len(t.encoding.Encode(text, nil, nil))
}

// Encode returns the raw token ids for text.
func (t *Tokenizer) Encode(text string) []int {
	return t.encoding.Encode(text, nil, nil)
}
