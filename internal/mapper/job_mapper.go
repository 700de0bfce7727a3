package mapper

import (
	"docuchat-be/internal/entity"
	"docuchat-be/internal/model"
)

type JobMapper struct{}

func NewJobMapper() *JobMapper {
	return &JobMapper{}
}

func (m *JobMapper) JobToEntity(j *model.ProcessingJob) *entity.ProcessingJob {
	if j == nil {
		return nil
	}
	return &entity.ProcessingJob{
		Id:         j.Id,
		SourceId:   j.SourceId,
		CreatedAt:  j.CreatedAt,
		StartedAt:  j.StartedAt,
		FinishedAt: j.FinishedAt,
		Log:        j.Log,
		State:      entity.JobState(j.State),
	}
}

func (m *JobMapper) JobToModel(j *entity.ProcessingJob) *model.ProcessingJob {
	if j == nil {
		return nil
	}
	return &model.ProcessingJob{
		Id:         j.Id,
		SourceId:   j.SourceId,
		CreatedAt:  j.CreatedAt,
		StartedAt:  j.StartedAt,
		FinishedAt: j.FinishedAt,
		Log:        j.Log,
		State:      string(j.State),
	}
}
