package dto

import (
	"docuchat-be/internal/entity"

	"github.com/google/uuid"
)

type JobResponse struct {
	Id         uuid.UUID       `json:"id"`
	SourceId   uuid.UUID       `json:"sourceId"`
	CreatedAt  int64           `json:"createdAt"`
	StartedAt  int64           `json:"startedAt"`
	FinishedAt int64           `json:"finishedAt"`
	Log        string          `json:"log"`
	State      entity.JobState `json:"state"`
}

func JobResponseFromEntity(job *entity.ProcessingJob) *JobResponse {
	if job == nil {
		return nil
	}
	return &JobResponse{
		Id:         job.Id,
		SourceId:   job.SourceId,
		CreatedAt:  job.CreatedAt,
		StartedAt:  job.StartedAt,
		FinishedAt: job.FinishedAt,
		Log:        job.Log,
		State:      job.State,
	}
}

type ListDocumentsRequest struct {
	Offset int `query:"offset" validate:"min=0"`
	Limit  int `query:"limit" validate:"min=0,max=200"`
}

type QueryDocumentsRequest struct {
	Query string `json:"query" validate:"required"`
	K     int    `json:"k" validate:"min=0,max=100"`
}
