package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BySourceID struct {
	SourceID uuid.UUID
}

func (s BySourceID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("source_id = ?", s.SourceID)
}

type ByJobState struct {
	State string
}

func (s ByJobState) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("state = ?", s.State)
}
