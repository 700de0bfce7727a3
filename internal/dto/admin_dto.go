package dto

import (
	"time"

	"github.com/google/uuid"

	"docuchat-be/internal/entity"
)

type BotRequest struct {
	Name            string   `json:"name" validate:"required"`
	SystemPrompt    string   `json:"systemPrompt" validate:"required"`
	WelcomeMessage  string   `json:"welcomeMessage" validate:"required"`
	ChatModel       string   `json:"chatModel" validate:"required"`
	AnswerModel     string   `json:"answerModel" validate:"required"`
	ChatMaxTokens   int      `json:"chatMaxTokens" validate:"required,min=1"`
	AnswerMaxTokens int      `json:"answerMaxTokens" validate:"required,min=1"`
	UseRerank       bool     `json:"useRerank"`
	SourceIds       []string `json:"sourceIds"`
}

type BotResponse struct {
	Id              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	SystemPrompt    string     `json:"systemPrompt"`
	WelcomeMessage  string     `json:"welcomeMessage"`
	ChatModel       string     `json:"chatModel"`
	AnswerModel     string     `json:"answerModel"`
	ChatMaxTokens   int        `json:"chatMaxTokens"`
	AnswerMaxTokens int        `json:"answerMaxTokens"`
	UseRerank       bool       `json:"useRerank"`
	SourceIds       []string   `json:"sourceIds"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

func BotResponseFromEntity(bot *entity.Bot) *BotResponse {
	if bot == nil {
		return nil
	}
	return &BotResponse{
		Id:              bot.Id,
		Name:            bot.Name,
		SystemPrompt:    bot.SystemPrompt,
		WelcomeMessage:  bot.WelcomeMessage,
		ChatModel:       bot.ChatModel,
		AnswerModel:     bot.AnswerModel,
		ChatMaxTokens:   bot.ChatMaxTokens,
		AnswerMaxTokens: bot.AnswerMaxTokens,
		UseRerank:       bot.UseRerank,
		SourceIds:       bot.SourceIds,
		CreatedAt:       bot.CreatedAt,
		UpdatedAt:       bot.UpdatedAt,
	}
}

type SourceRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type SourceResponse struct {
	Id          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

func SourceResponseFromEntity(source *entity.Source) *SourceResponse {
	if source == nil {
		return nil
	}
	return &SourceResponse{
		Id:          source.Id,
		Name:        source.Name,
		Description: source.Description,
		CreatedAt:   source.CreatedAt,
		UpdatedAt:   source.UpdatedAt,
	}
}
