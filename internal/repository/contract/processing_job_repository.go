package contract

import (
	"context"

	"docuchat-be/internal/entity"
	"docuchat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ProcessingJobRepository interface {
	Create(ctx context.Context, job *entity.ProcessingJob) error
	Update(ctx context.Context, job *entity.ProcessingJob) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ProcessingJob, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProcessingJob, error)

	// ClaimNext atomically transitions the oldest waiting job to running
	// and returns it, or nil when no job is waiting.
	ClaimNext(ctx context.Context, startedAt int64) (*entity.ProcessingJob, error)

	// GetState reads just the current state of a job. Job bodies use this
	// for cooperative stop checks.
	GetState(ctx context.Context, id uuid.UUID) (entity.JobState, error)

	// AppendLog appends one line to the job's log.
	AppendLog(ctx context.Context, id uuid.UUID, line string) error

	// SetState transitions a job without touching its log, which may be
	// appended to concurrently.
	SetState(ctx context.Context, id uuid.UUID, state entity.JobState, finishedAt int64) error

	// ResetRunning moves every running job to the given terminal state,
	// stamping its finish time. Called once at startup to clear stale
	// jobs from a previous run.
	ResetRunning(ctx context.Context, to entity.JobState, finishedAt int64) error
}
