package implementation

import (
	"context"
	"errors"

	"docuchat-be/internal/entity"
	"docuchat-be/internal/mapper"
	"docuchat-be/internal/model"
	"docuchat-be/internal/repository/contract"
	"docuchat-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProcessingJobRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.JobMapper
}

func NewProcessingJobRepository(db *gorm.DB) contract.ProcessingJobRepository {
	return &ProcessingJobRepositoryImpl{
		db:     db,
		mapper: mapper.NewJobMapper(),
	}
}

func (r *ProcessingJobRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ProcessingJobRepositoryImpl) Create(ctx context.Context, job *entity.ProcessingJob) error {
	m := r.mapper.JobToModel(job)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*job = *r.mapper.JobToEntity(m)
	return nil
}

func (r *ProcessingJobRepositoryImpl) Update(ctx context.Context, job *entity.ProcessingJob) error {
	m := r.mapper.JobToModel(job)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*job = *r.mapper.JobToEntity(m)
	return nil
}

func (r *ProcessingJobRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ProcessingJob, error) {
	var m model.ProcessingJob
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.JobToEntity(&m), nil
}

func (r *ProcessingJobRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProcessingJob, error) {
	var models []*model.ProcessingJob
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ProcessingJob, len(models))
	for i, m := range models {
		entities[i] = r.mapper.JobToEntity(m)
	}
	return entities, nil
}

func (r *ProcessingJobRepositoryImpl) ClaimNext(ctx context.Context, startedAt int64) (*entity.ProcessingJob, error) {
	var m model.ProcessingJob
	// The subselect plus SKIP LOCKED makes the waiting→running transition
	// atomic even with multiple scheduler processes on one database.
	result := r.db.WithContext(ctx).Raw(`
		UPDATE processing_jobs
		SET state = ?, started_at = ?
		WHERE id = (
			SELECT id FROM processing_jobs
			WHERE state = ?
			ORDER BY created_at ASC
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING *`,
		string(entity.JobRunning), startedAt, string(entity.JobWaiting),
	).Scan(&m)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return r.mapper.JobToEntity(&m), nil
}

func (r *ProcessingJobRepositoryImpl) GetState(ctx context.Context, id uuid.UUID) (entity.JobState, error) {
	var state string
	err := r.db.WithContext(ctx).
		Model(&model.ProcessingJob{}).
		Select("state").
		Where("id = ?", id).
		Scan(&state).Error
	if err != nil {
		return "", err
	}
	if state == "" {
		return "", errors.New("job not found")
	}
	return entity.JobState(state), nil
}

func (r *ProcessingJobRepositoryImpl) AppendLog(ctx context.Context, id uuid.UUID, line string) error {
	return r.db.WithContext(ctx).
		Model(&model.ProcessingJob{}).
		Where("id = ?", id).
		Update("log", gorm.Expr("log || ?", line+"\n")).Error
}

func (r *ProcessingJobRepositoryImpl) SetState(ctx context.Context, id uuid.UUID, state entity.JobState, finishedAt int64) error {
	return r.db.WithContext(ctx).
		Model(&model.ProcessingJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"state":       string(state),
			"finished_at": finishedAt,
		}).Error
}

func (r *ProcessingJobRepositoryImpl) ResetRunning(ctx context.Context, to entity.JobState, finishedAt int64) error {
	return r.db.WithContext(ctx).
		Model(&model.ProcessingJob{}).
		Where("state = ?", string(entity.JobRunning)).
		Updates(map[string]interface{}{
			"state":       string(to),
			"finished_at": finishedAt,
		}).Error
}
