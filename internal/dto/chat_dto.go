package dto

import "github.com/google/uuid"

type CreateSessionRequest struct {
	BotId uuid.UUID `json:"botId" validate:"required"`
}

type CreateSessionResponse struct {
	SessionId uuid.UUID `json:"sessionId"`
}

type CompleteRequest struct {
	SessionId uuid.UUID `json:"sessionId" validate:"required"`
	Message   string    `json:"message" validate:"required"`
}

type AnswerRequest struct {
	BotId    uuid.UUID `json:"botId" validate:"required"`
	Question string    `json:"question" validate:"required"`
}

// CompletionDebug is streamed to the caller as a debug chunk when debug
// mode is active for the session. It is never persisted.
type CompletionDebug struct {
	Query             string           `json:"query"`
	ExpandedQuery     string           `json:"expandedQuery"`
	RagQuery          string           `json:"ragQuery"`
	RagHistory        string           `json:"ragHistory"`
	SubmittedMessages []DebugMessage   `json:"submittedMessages"`
	Response          string           `json:"response"`
	TokensIn          int              `json:"tokensIn"`
	TokensOut         int              `json:"tokensOut"`
}

type DebugMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
