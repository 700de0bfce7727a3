package mapper

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"docuchat-be/internal/entity"
	"docuchat-be/internal/model"
)

func TestChatSessionSourceIdsRoundTrip(t *testing.T) {
	m := NewChatMapper()

	session := &entity.ChatSession{
		Id:           uuid.New(),
		BotId:        uuid.New(),
		DebugEnabled: true,
		SourceIds:    []string{"docs", "faq"},
		CreatedAt:    time.Now(),
		LastModified: time.Now(),
	}

	dbModel := m.ChatSessionToModel(session)
	require.NotNil(t, dbModel)
	assert.JSONEq(t, `["docs","faq"]`, string(dbModel.SourceIds))

	back := m.ChatSessionToEntity(dbModel)
	require.NotNil(t, back)
	assert.Equal(t, session.Id, back.Id)
	assert.Equal(t, session.BotId, back.BotId)
	assert.Equal(t, session.DebugEnabled, back.DebugEnabled)
	assert.Equal(t, []string{"docs", "faq"}, back.SourceIds)
}

func TestChatSessionMalformedSourceIdsAreIgnored(t *testing.T) {
	m := NewChatMapper()

	back := m.ChatSessionToEntity(&model.ChatSession{
		Id:        uuid.New(),
		SourceIds: datatypes.JSON("not valid json"),
	})
	require.NotNil(t, back)
	assert.Empty(t, back.SourceIds)
}

func TestChatMessageSeqRoundTrip(t *testing.T) {
	m := NewChatMapper()

	message := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: uuid.New(),
		Seq:           42,
		Role:          "user",
		Content:       "hello",
	}
	back := m.ChatMessageToEntity(m.ChatMessageToModel(message))
	require.NotNil(t, back)
	assert.Equal(t, int64(42), back.Seq)

	raw := &entity.ChatMessageRaw{
		Id:            uuid.New(),
		ChatSessionId: uuid.New(),
		Seq:           7,
		Role:          "assistant",
		Content:       "short summary",
	}
	rawBack := m.ChatMessageRawToEntity(m.ChatMessageRawToModel(raw))
	require.NotNil(t, rawBack)
	assert.Equal(t, int64(7), rawBack.Seq)
}

func TestChatMapperNilGuards(t *testing.T) {
	m := NewChatMapper()

	assert.Nil(t, m.ChatSessionToEntity(nil))
	assert.Nil(t, m.ChatSessionToModel(nil))
	assert.Nil(t, m.ChatMessageToEntity(nil))
	assert.Nil(t, m.ChatMessageToModel(nil))
	assert.Nil(t, m.ChatMessageRawToEntity(nil))
	assert.Nil(t, m.ChatMessageRawToModel(nil))
}
