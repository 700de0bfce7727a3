package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"docuchat-be/internal/entity"
	"docuchat-be/internal/pkg/logger"
	"docuchat-be/internal/repository/specification"
	"docuchat-be/internal/repository/unitofwork"
	"docuchat-be/pkg/embedder"
	"docuchat-be/pkg/embedding"
	"docuchat-be/pkg/vector"
)

const pollInterval = 1 * time.Second

// DocumentLoader turns a source into its raw documents. The concrete
// ingestion adapters (crawlers, importers) live behind this boundary.
type DocumentLoader interface {
	Load(ctx context.Context, source *entity.Source, log embedder.Logger) ([]*embedder.Document, error)
}

type IProcessorService interface {
	// Run polls for waiting jobs and processes them until ctx is
	// cancelled. It never returns on job failures, only on ctx.
	Run(ctx context.Context) error
}

type processorService struct {
	uowFactory        unitofwork.RepositoryFactory
	loader            DocumentLoader
	embeddingProvider embedding.Provider
	countTokens       embedder.TokenCounter
	store             vector.Store
	collections       ICollectionService
	logger            logger.ILogger
}

func NewProcessorService(
	uowFactory unitofwork.RepositoryFactory,
	loader DocumentLoader,
	embeddingProvider embedding.Provider,
	countTokens embedder.TokenCounter,
	store vector.Store,
	collections ICollectionService,
	log logger.ILogger,
) IProcessorService {
	return &processorService{
		uowFactory:        uowFactory,
		loader:            loader,
		embeddingProvider: embeddingProvider,
		countTokens:       countTokens,
		store:             store,
		collections:       collections,
		logger:            log,
	}
}

func (s *processorService) Run(ctx context.Context) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Jobs left running by a previous process cannot make progress
	// anymore; move them to stopped before accepting new work.
	if err := uow.ProcessingJobRepository().ResetRunning(ctx, entity.JobStopped, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("reset stale jobs: %w", err)
	}

	for {
		job, err := uow.ProcessingJobRepository().ClaimNext(ctx, time.Now().UnixMilli())
		if err != nil {
			s.logger.Error("processor", "failed to claim next job", map[string]interface{}{
				"error": err.Error(),
			})
		} else if job != nil {
			s.processJob(ctx, job)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// processJob runs one claimed job to a terminal state. Every error is
// captured into the job's own log and turns the job failed; nothing
// escapes to crash the scheduler loop.
func (s *processorService) processJob(ctx context.Context, job *entity.ProcessingJob) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	jobs := uow.ProcessingJobRepository()

	jobLog := func(message string) {
		s.logger.Info("processor", message, map[string]interface{}{
			"jobId":    job.Id.String(),
			"sourceId": job.SourceId.String(),
		})
		if err := jobs.AppendLog(ctx, job.Id, message); err != nil {
			s.logger.Error("processor", "failed to append job log", map[string]interface{}{
				"jobId": job.Id.String(),
				"error": err.Error(),
			})
		}
	}

	fail := func(err error) {
		jobLog(err.Error())
		if updateErr := jobs.SetState(ctx, job.Id, entity.JobFailed, time.Now().UnixMilli()); updateErr != nil {
			s.logger.Error("processor", "failed to mark job failed", map[string]interface{}{
				"jobId": job.Id.String(),
				"error": updateErr.Error(),
			})
		}
	}

	defer func() {
		if r := recover(); r != nil {
			fail(fmt.Errorf("panic while processing job: %v", r))
		}
	}()

	jobLog("Starting processing")

	source, err := uow.SourceRepository().FindOne(ctx, specification.ByID{ID: job.SourceId})
	if err != nil {
		fail(fmt.Errorf("load source: %w", err))
		return
	}
	if source == nil {
		fail(errors.New("source does not exist"))
		return
	}

	docs, err := s.loader.Load(ctx, source, jobLog)
	if err != nil {
		fail(fmt.Errorf("load documents: %w", err))
		return
	}
	jobLog(fmt.Sprintf("Loaded %d documents", len(docs)))

	// The job body re-reads its own state between units of work so a
	// stop request takes effect at the next check.
	shouldStop := func(ctx context.Context) (bool, error) {
		state, err := jobs.GetState(ctx, job.Id)
		if err != nil {
			return false, err
		}
		return state == entity.JobStopped, nil
	}

	pipeline := embedder.NewPipeline(s.embeddingProvider, s.countTokens, jobLog)
	if err := pipeline.EmbedDocuments(ctx, docs, shouldStop); err != nil {
		if errors.Is(err, embedder.ErrStopped) {
			jobLog("Processing aborted: " + err.Error())
			return
		}
		fail(fmt.Errorf("embed documents: %w", err))
		return
	}

	corpusPath := s.collections.CorpusPath(job.SourceId.String())
	if err := os.MkdirAll(filepath.Dir(corpusPath), 0o755); err != nil {
		fail(fmt.Errorf("create data dir: %w", err))
		return
	}
	if err := embedder.WriteDocuments(corpusPath, docs); err != nil {
		fail(fmt.Errorf("write corpus file: %w", err))
		return
	}
	jobLog("Wrote corpus file " + corpusPath)

	if err := s.store.Update(ctx, job.SourceId.String(), docs, jobLog); err != nil {
		fail(fmt.Errorf("update vector store: %w", err))
		return
	}
	s.collections.Invalidate(job.SourceId.String())

	if err := jobs.SetState(ctx, job.Id, entity.JobSucceeded, time.Now().UnixMilli()); err != nil {
		s.logger.Error("processor", "failed to mark job succeeded", map[string]interface{}{
			"jobId": job.Id.String(),
			"error": err.Error(),
		})
		return
	}
	jobLog("Processing succeeded")
}
