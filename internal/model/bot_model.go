package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Bot struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name            string         `gorm:"type:text;not null"`
	SystemPrompt    string         `gorm:"type:text;not null"`
	WelcomeMessage  string         `gorm:"type:text;not null"`
	ChatModel       string         `gorm:"type:text;not null"`
	AnswerModel     string         `gorm:"type:text;not null"`
	ChatMaxTokens   int            `gorm:"not null"`
	AnswerMaxTokens int            `gorm:"not null"`
	UseRerank       bool           `gorm:"not null;default:false"`
	SourceIds       datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
}

func (Bot) TableName() string {
	return "bots"
}
