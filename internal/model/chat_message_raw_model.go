package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessageRaw struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatSessionId uuid.UUID `gorm:"type:uuid;not null;index"`
	Seq           int64     `gorm:"autoIncrement;uniqueIndex"`
	Role          string    `gorm:"type:text;not null"`
	Content       string    `gorm:"type:text;not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (ChatMessageRaw) TableName() string {
	return "chat_messages_raw"
}
