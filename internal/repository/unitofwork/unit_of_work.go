package unitofwork

import (
	"context"

	"docuchat-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	BotRepository() contract.BotRepository
	SourceRepository() contract.SourceRepository
	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	ChatMessageRawRepository() contract.ChatMessageRawRepository
	ProcessingJobRepository() contract.ProcessingJobRepository
}
