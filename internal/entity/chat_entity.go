package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id           uuid.UUID
	BotId        uuid.UUID
	DebugEnabled bool
	// SourceIds is the session's active source set, snapshotted from the
	// bot at creation time so later bot edits do not change a running
	// conversation's retrieval scope.
	SourceIds    []string
	CreatedAt    time.Time
	LastModified time.Time
}

// ChatMessage is one entry of the full prompt-engineering log: user
// entries carry the question plus packed context sections, assistant
// entries the raw model response including the summary section.
// Seq is assigned by the database and gives a total insert order even
// when timestamps tie.
type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Seq           int64
	Role          string
	Content       string
	CreatedAt     time.Time
}

// ChatMessageRaw is one entry of the compact history: unembellished user
// questions and short assistant summaries. This log is the source of
// truth for expanding future queries and rebuilding budget-limited
// history.
type ChatMessageRaw struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Seq           int64
	Role          string
	Content       string
	CreatedAt     time.Time
}
