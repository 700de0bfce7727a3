package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docuchat-be/internal/entity"
	"docuchat-be/internal/repository/contract"
	"docuchat-be/internal/repository/specification"
	"docuchat-be/internal/repository/unitofwork"
)

// fakeJobRepository keeps at most one job per source in memory, which is
// all the job service ever deals with. Guarded by a mutex so concurrent
// claimers behave like they would against the database.
type fakeJobRepository struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*entity.ProcessingJob
}

func newFakeJobRepository() *fakeJobRepository {
	return &fakeJobRepository{jobs: make(map[uuid.UUID]*entity.ProcessingJob)}
}

func (r *fakeJobRepository) find(specs []specification.Specification) *entity.ProcessingJob {
	for _, spec := range specs {
		if bySource, ok := spec.(specification.BySourceID); ok {
			return r.jobs[bySource.SourceID]
		}
	}
	return nil
}

func (r *fakeJobRepository) Create(ctx context.Context, job *entity.ProcessingJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job.Id = uuid.New()
	copied := *job
	r.jobs[job.SourceId] = &copied
	return nil
}

func (r *fakeJobRepository) Update(ctx context.Context, job *entity.ProcessingJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *job
	r.jobs[job.SourceId] = &copied
	return nil
}

func (r *fakeJobRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ProcessingJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job := r.find(specs)
	if job == nil {
		return nil, nil
	}
	copied := *job
	return &copied, nil
}

func (r *fakeJobRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProcessingJob, error) {
	return nil, nil
}

func (r *fakeJobRepository) ClaimNext(ctx context.Context, startedAt int64) (*entity.ProcessingJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, job := range r.jobs {
		if job.State == entity.JobWaiting {
			job.State = entity.JobRunning
			job.StartedAt = startedAt
			copied := *job
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeJobRepository) GetState(ctx context.Context, id uuid.UUID) (entity.JobState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, job := range r.jobs {
		if job.Id == id {
			return job.State, nil
		}
	}
	return "", nil
}

func (r *fakeJobRepository) AppendLog(ctx context.Context, id uuid.UUID, line string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, job := range r.jobs {
		if job.Id == id {
			job.Log += line + "\n"
		}
	}
	return nil
}

func (r *fakeJobRepository) SetState(ctx context.Context, id uuid.UUID, state entity.JobState, finishedAt int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, job := range r.jobs {
		if job.Id == id {
			job.State = state
			job.FinishedAt = finishedAt
		}
	}
	return nil
}

func (r *fakeJobRepository) ResetRunning(ctx context.Context, to entity.JobState, finishedAt int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, job := range r.jobs {
		if job.State == entity.JobRunning {
			job.State = to
			job.FinishedAt = finishedAt
		}
	}
	return nil
}

// fakeSourceRepository knows a fixed set of source ids.
type fakeSourceRepository struct {
	sources map[uuid.UUID]*entity.Source
}

func (r *fakeSourceRepository) Create(ctx context.Context, source *entity.Source) error { return nil }
func (r *fakeSourceRepository) Update(ctx context.Context, source *entity.Source) error { return nil }
func (r *fakeSourceRepository) Delete(ctx context.Context, id uuid.UUID) error          { return nil }

func (r *fakeSourceRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Source, error) {
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			return r.sources[byID.ID], nil
		}
	}
	return nil, nil
}

func (r *fakeSourceRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Source, error) {
	return nil, nil
}

// fakeUnitOfWork hands out the fakes above; transactions are no-ops.
type fakeUnitOfWork struct {
	jobs    *fakeJobRepository
	sources *fakeSourceRepository
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) BotRepository() contract.BotRepository                 { return nil }
func (u *fakeUnitOfWork) SourceRepository() contract.SourceRepository           { return u.sources }
func (u *fakeUnitOfWork) ChatSessionRepository() contract.ChatSessionRepository { return nil }
func (u *fakeUnitOfWork) ChatMessageRepository() contract.ChatMessageRepository { return nil }
func (u *fakeUnitOfWork) ChatMessageRawRepository() contract.ChatMessageRawRepository {
	return nil
}
func (u *fakeUnitOfWork) ProcessingJobRepository() contract.ProcessingJobRepository {
	return u.jobs
}

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

func newJobServiceFixture() (IJobService, *fakeJobRepository, uuid.UUID) {
	sourceId := uuid.New()
	jobs := newFakeJobRepository()
	sources := &fakeSourceRepository{sources: map[uuid.UUID]*entity.Source{
		sourceId: {Id: sourceId, Name: "docs"},
	}}
	service := NewJobService(&fakeFactory{uow: &fakeUnitOfWork{jobs: jobs, sources: sources}})
	return service, jobs, sourceId
}

func TestStartJobCreatesWaitingJob(t *testing.T) {
	service, _, sourceId := newJobServiceFixture()

	job, err := service.StartJob(context.Background(), sourceId)
	require.NoError(t, err)

	assert.Equal(t, sourceId, job.SourceId)
	assert.Equal(t, entity.JobWaiting, job.State)
	assert.Equal(t, int64(-1), job.StartedAt)
	assert.Equal(t, int64(-1), job.FinishedAt)
	assert.InDelta(t, time.Now().UnixMilli(), job.CreatedAt, 5000)
}

func TestStartJobUnknownSource(t *testing.T) {
	service, _, _ := newJobServiceFixture()

	_, err := service.StartJob(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source does not exist")
}

func TestStartJobReturnsActiveJobUnchanged(t *testing.T) {
	service, jobs, sourceId := newJobServiceFixture()

	first, err := service.StartJob(context.Background(), sourceId)
	require.NoError(t, err)
	jobs.jobs[sourceId].State = entity.JobRunning
	jobs.jobs[sourceId].Log = "already doing work\n"

	second, err := service.StartJob(context.Background(), sourceId)
	require.NoError(t, err)

	assert.Equal(t, first.Id, second.Id)
	assert.Equal(t, entity.JobRunning, second.State)
	assert.Equal(t, "already doing work\n", jobs.jobs[sourceId].Log)
}

func TestStartJobResetsFinishedJob(t *testing.T) {
	service, jobs, sourceId := newJobServiceFixture()

	first, err := service.StartJob(context.Background(), sourceId)
	require.NoError(t, err)
	jobs.jobs[sourceId].State = entity.JobFailed
	jobs.jobs[sourceId].Log = "something broke\n"
	jobs.jobs[sourceId].StartedAt = 100
	jobs.jobs[sourceId].FinishedAt = 200

	second, err := service.StartJob(context.Background(), sourceId)
	require.NoError(t, err)

	assert.Equal(t, first.Id, second.Id)
	assert.Equal(t, entity.JobWaiting, second.State)
	assert.Equal(t, "", second.Log)
	assert.Equal(t, int64(-1), second.StartedAt)
	assert.Equal(t, int64(-1), second.FinishedAt)
}

func TestStopJobStopsActiveJob(t *testing.T) {
	service, jobs, sourceId := newJobServiceFixture()

	_, err := service.StartJob(context.Background(), sourceId)
	require.NoError(t, err)

	stopped, err := service.StopJob(context.Background(), sourceId)
	require.NoError(t, err)

	require.NotNil(t, stopped)
	assert.Equal(t, entity.JobStopped, stopped.State)
	assert.Equal(t, entity.JobStopped, jobs.jobs[sourceId].State)
	assert.Greater(t, jobs.jobs[sourceId].FinishedAt, int64(0))
}

func TestStopJobWithoutActiveJob(t *testing.T) {
	service, jobs, sourceId := newJobServiceFixture()

	// No job at all.
	stopped, err := service.StopJob(context.Background(), sourceId)
	require.NoError(t, err)
	assert.Nil(t, stopped)

	// A finished job is not stoppable either.
	_, err = service.StartJob(context.Background(), sourceId)
	require.NoError(t, err)
	jobs.jobs[sourceId].State = entity.JobSucceeded

	stopped, err = service.StopJob(context.Background(), sourceId)
	require.NoError(t, err)
	assert.Nil(t, stopped)
	assert.Equal(t, entity.JobSucceeded, jobs.jobs[sourceId].State)
}

func TestGetJob(t *testing.T) {
	service, _, sourceId := newJobServiceFixture()

	job, err := service.GetJob(context.Background(), sourceId)
	require.NoError(t, err)
	assert.Nil(t, job)

	created, err := service.StartJob(context.Background(), sourceId)
	require.NoError(t, err)

	job, err = service.GetJob(context.Background(), sourceId)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, created.Id, job.Id)
}
