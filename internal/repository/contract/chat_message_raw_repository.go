package contract

import (
	"context"

	"docuchat-be/internal/entity"
	"docuchat-be/internal/repository/specification"
)

type ChatMessageRawRepository interface {
	Create(ctx context.Context, message *entity.ChatMessageRaw) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessageRaw, error)
}
