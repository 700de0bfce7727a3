package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatSession struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BotId        uuid.UUID      `gorm:"type:uuid;not null;index"`
	DebugEnabled bool           `gorm:"not null;default:false"`
	SourceIds    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	LastModified time.Time      `gorm:"not null"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
