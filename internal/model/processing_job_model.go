package model

import "github.com/google/uuid"

type ProcessingJob struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SourceId   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	CreatedAt  int64     `gorm:"not null"`
	StartedAt  int64     `gorm:"not null;default:-1"`
	FinishedAt int64     `gorm:"not null;default:-1"`
	Log        string    `gorm:"type:text;not null;default:''"`
	State      string    `gorm:"type:text;not null;index"`
}

func (ProcessingJob) TableName() string {
	return "processing_jobs"
}
