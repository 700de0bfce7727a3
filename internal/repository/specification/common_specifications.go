package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByID struct {
	ID uuid.UUID
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

type OrderBy struct {
	Field     string
	Direction string // "asc" or "desc"
}

func (s OrderBy) Apply(db *gorm.DB) *gorm.DB {
	direction := s.Direction
	if direction != "desc" {
		direction = "asc"
	}
	return db.Order(s.Field + " " + direction)
}

type Pagination struct {
	Offset int
	Limit  int
}

func (s Pagination) Apply(db *gorm.DB) *gorm.DB {
	return db.Offset(s.Offset).Limit(s.Limit)
}
