package service

import (
	"context"
	"time"

	"docuchat-be/internal/entity"
	"docuchat-be/internal/pkg/serverutils"
	"docuchat-be/internal/repository/specification"
	"docuchat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IJobService interface {
	// StartJob queues an ingestion run for a source. An already waiting or
	// running job is returned unchanged; a finished job is reset and
	// queued again.
	StartJob(ctx context.Context, sourceId uuid.UUID) (*entity.ProcessingJob, error)

	// StopJob requests a stop of the source's active job. It returns nil
	// when there is no waiting or running job.
	StopJob(ctx context.Context, sourceId uuid.UUID) (*entity.ProcessingJob, error)

	GetJob(ctx context.Context, sourceId uuid.UUID) (*entity.ProcessingJob, error)
}

type jobService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewJobService(uowFactory unitofwork.RepositoryFactory) IJobService {
	return &jobService{uowFactory: uowFactory}
}

func (s *jobService) StartJob(ctx context.Context, sourceId uuid.UUID) (*entity.ProcessingJob, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	source, err := uow.SourceRepository().FindOne(ctx, specification.ByID{ID: sourceId})
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, serverutils.NotFound("source does not exist")
	}

	jobs := uow.ProcessingJobRepository()
	job, err := jobs.FindOne(ctx, specification.BySourceID{SourceID: sourceId})
	if err != nil {
		return nil, err
	}

	if job != nil {
		if job.State.Active() {
			return job, nil
		}
		job.Log = ""
		job.CreatedAt = time.Now().UnixMilli()
		job.StartedAt = -1
		job.FinishedAt = -1
		job.State = entity.JobWaiting
		if err := jobs.Update(ctx, job); err != nil {
			return nil, err
		}
		return job, nil
	}

	job = &entity.ProcessingJob{
		SourceId:   sourceId,
		CreatedAt:  time.Now().UnixMilli(),
		StartedAt:  -1,
		FinishedAt: -1,
		State:      entity.JobWaiting,
	}
	if err := jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *jobService) StopJob(ctx context.Context, sourceId uuid.UUID) (*entity.ProcessingJob, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	jobs := uow.ProcessingJobRepository()

	job, err := jobs.FindOne(ctx, specification.BySourceID{SourceID: sourceId})
	if err != nil {
		return nil, err
	}
	if job == nil || !job.State.Active() {
		return nil, nil
	}

	job.State = entity.JobStopped
	job.FinishedAt = time.Now().UnixMilli()
	if err := jobs.SetState(ctx, job.Id, job.State, job.FinishedAt); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *jobService) GetJob(ctx context.Context, sourceId uuid.UUID) (*entity.ProcessingJob, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ProcessingJobRepository().FindOne(ctx, specification.BySourceID{SourceID: sourceId})
}
