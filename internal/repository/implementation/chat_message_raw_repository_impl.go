package implementation

import (
	"context"

	"docuchat-be/internal/entity"
	"docuchat-be/internal/mapper"
	"docuchat-be/internal/model"
	"docuchat-be/internal/repository/contract"
	"docuchat-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ChatMessageRawRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatMessageRawRepository(db *gorm.DB) contract.ChatMessageRawRepository {
	return &ChatMessageRawRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatMessageRawRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatMessageRawRepositoryImpl) Create(ctx context.Context, message *entity.ChatMessageRaw) error {
	m := r.mapper.ChatMessageRawToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.ChatMessageRawToEntity(m)
	return nil
}

func (r *ChatMessageRawRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessageRaw, error) {
	var models []*model.ChatMessageRaw
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ChatMessageRaw, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ChatMessageRawToEntity(m)
	}
	return entities, nil
}
