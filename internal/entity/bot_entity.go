package entity

import (
	"time"

	"github.com/google/uuid"
)

// Bot is the configuration of one chat assistant. It is immutable during
// a single completion call; only the admin layer mutates it.
type Bot struct {
	Id              uuid.UUID
	Name            string
	SystemPrompt    string
	WelcomeMessage  string
	ChatModel       string
	AnswerModel     string
	ChatMaxTokens   int
	AnswerMaxTokens int
	UseRerank       bool
	SourceIds       []string
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}
