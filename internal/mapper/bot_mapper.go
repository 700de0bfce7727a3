package mapper

import (
	"encoding/json"
	"time"

	"docuchat-be/internal/entity"
	"docuchat-be/internal/model"
)

type BotMapper struct{}

func NewBotMapper() *BotMapper {
	return &BotMapper{}
}

func (m *BotMapper) BotToEntity(b *model.Bot) *entity.Bot {
	if b == nil {
		return nil
	}

	var sourceIds []string
	if len(b.SourceIds) > 0 {
		// Malformed JSON leaves the list empty rather than failing the read.
		_ = json.Unmarshal(b.SourceIds, &sourceIds)
	}

	var updatedAt *time.Time
	if !b.UpdatedAt.IsZero() {
		t := b.UpdatedAt
		updatedAt = &t
	}

	return &entity.Bot{
		Id:              b.Id,
		Name:            b.Name,
		SystemPrompt:    b.SystemPrompt,
		WelcomeMessage:  b.WelcomeMessage,
		ChatModel:       b.ChatModel,
		AnswerModel:     b.AnswerModel,
		ChatMaxTokens:   b.ChatMaxTokens,
		AnswerMaxTokens: b.AnswerMaxTokens,
		UseRerank:       b.UseRerank,
		SourceIds:       sourceIds,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *BotMapper) BotToModel(b *entity.Bot) *model.Bot {
	if b == nil {
		return nil
	}

	sourceIds, _ := json.Marshal(b.SourceIds)

	var updatedAt time.Time
	if b.UpdatedAt != nil {
		updatedAt = *b.UpdatedAt
	}

	return &model.Bot{
		Id:              b.Id,
		Name:            b.Name,
		SystemPrompt:    b.SystemPrompt,
		WelcomeMessage:  b.WelcomeMessage,
		ChatModel:       b.ChatModel,
		AnswerModel:     b.AnswerModel,
		ChatMaxTokens:   b.ChatMaxTokens,
		AnswerMaxTokens: b.AnswerMaxTokens,
		UseRerank:       b.UseRerank,
		SourceIds:       sourceIds,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *BotMapper) SourceToEntity(s *model.Source) *entity.Source {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.Source{
		Id:          s.Id,
		Name:        s.Name,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *BotMapper) SourceToModel(s *entity.Source) *model.Source {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.Source{
		Id:          s.Id,
		Name:        s.Name,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}
