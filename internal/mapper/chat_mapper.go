package mapper

import (
	"encoding/json"

	"docuchat-be/internal/entity"
	"docuchat-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Session Mappers

func (m *ChatMapper) ChatSessionToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}

	var sourceIds []string
	if len(s.SourceIds) > 0 {
		// Malformed JSON leaves the list empty rather than failing the read.
		_ = json.Unmarshal(s.SourceIds, &sourceIds)
	}

	return &entity.ChatSession{
		Id:           s.Id,
		BotId:        s.BotId,
		DebugEnabled: s.DebugEnabled,
		SourceIds:    sourceIds,
		CreatedAt:    s.CreatedAt,
		LastModified: s.LastModified,
	}
}

func (m *ChatMapper) ChatSessionToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}

	sourceIds, _ := json.Marshal(s.SourceIds)

	return &model.ChatSession{
		Id:           s.Id,
		BotId:        s.BotId,
		DebugEnabled: s.DebugEnabled,
		SourceIds:    sourceIds,
		CreatedAt:    s.CreatedAt,
		LastModified: s.LastModified,
	}
}

// Message Mappers

func (m *ChatMapper) ChatMessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}
	return &entity.ChatMessage{
		Id:            msg.Id,
		ChatSessionId: msg.ChatSessionId,
		Seq:           msg.Seq,
		Role:          msg.Role,
		Content:       msg.Content,
		CreatedAt:     msg.CreatedAt,
	}
}

func (m *ChatMapper) ChatMessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}
	return &model.ChatMessage{
		Id:            msg.Id,
		ChatSessionId: msg.ChatSessionId,
		Seq:           msg.Seq,
		Role:          msg.Role,
		Content:       msg.Content,
		CreatedAt:     msg.CreatedAt,
	}
}

// Raw Message Mappers

func (m *ChatMapper) ChatMessageRawToEntity(msg *model.ChatMessageRaw) *entity.ChatMessageRaw {
	if msg == nil {
		return nil
	}
	return &entity.ChatMessageRaw{
		Id:            msg.Id,
		ChatSessionId: msg.ChatSessionId,
		Seq:           msg.Seq,
		Role:          msg.Role,
		Content:       msg.Content,
		CreatedAt:     msg.CreatedAt,
	}
}

func (m *ChatMapper) ChatMessageRawToModel(msg *entity.ChatMessageRaw) *model.ChatMessageRaw {
	if msg == nil {
		return nil
	}
	return &model.ChatMessageRaw{
		Id:            msg.Id,
		ChatSessionId: msg.ChatSessionId,
		Seq:           msg.Seq,
		Role:          msg.Role,
		Content:       msg.Content,
		CreatedAt:     msg.CreatedAt,
	}
}
