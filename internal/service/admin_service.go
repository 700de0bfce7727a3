package service

import (
	"context"
	"os"

	"docuchat-be/internal/dto"
	"docuchat-be/internal/entity"
	"docuchat-be/internal/pkg/logger"
	"docuchat-be/internal/pkg/serverutils"
	"docuchat-be/internal/repository/specification"
	"docuchat-be/internal/repository/unitofwork"
	"docuchat-be/pkg/vector"

	"github.com/google/uuid"
)

// IAdminService covers the thin bot/source management surface behind the
// admin token.
type IAdminService interface {
	CreateBot(ctx context.Context, req *dto.BotRequest) (*entity.Bot, error)
	UpdateBot(ctx context.Context, id uuid.UUID, req *dto.BotRequest) (*entity.Bot, error)
	DeleteBot(ctx context.Context, id uuid.UUID) error
	GetBot(ctx context.Context, id uuid.UUID) (*entity.Bot, error)
	ListBots(ctx context.Context) ([]*entity.Bot, error)

	CreateSource(ctx context.Context, req *dto.SourceRequest) (*entity.Source, error)
	UpdateSource(ctx context.Context, id uuid.UUID, req *dto.SourceRequest) (*entity.Source, error)
	// DeleteSource removes the source row together with its vectors, its
	// corpus file, and its cached collection.
	DeleteSource(ctx context.Context, id uuid.UUID) error
	GetSource(ctx context.Context, id uuid.UUID) (*entity.Source, error)
	ListSources(ctx context.Context) ([]*entity.Source, error)
}

type adminService struct {
	uowFactory  unitofwork.RepositoryFactory
	store       vector.Store
	collections ICollectionService
	logger      logger.ILogger
}

func NewAdminService(
	uowFactory unitofwork.RepositoryFactory,
	store vector.Store,
	collections ICollectionService,
	log logger.ILogger,
) IAdminService {
	return &adminService{
		uowFactory:  uowFactory,
		store:       store,
		collections: collections,
		logger:      log,
	}
}

func applyBotRequest(bot *entity.Bot, req *dto.BotRequest) {
	bot.Name = req.Name
	bot.SystemPrompt = req.SystemPrompt
	bot.WelcomeMessage = req.WelcomeMessage
	bot.ChatModel = req.ChatModel
	bot.AnswerModel = req.AnswerModel
	bot.ChatMaxTokens = req.ChatMaxTokens
	bot.AnswerMaxTokens = req.AnswerMaxTokens
	bot.UseRerank = req.UseRerank
	bot.SourceIds = req.SourceIds
}

func (s *adminService) CreateBot(ctx context.Context, req *dto.BotRequest) (*entity.Bot, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	bot := &entity.Bot{}
	applyBotRequest(bot, req)
	if err := uow.BotRepository().Create(ctx, bot); err != nil {
		return nil, err
	}
	return bot, nil
}

func (s *adminService) UpdateBot(ctx context.Context, id uuid.UUID, req *dto.BotRequest) (*entity.Bot, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	bot, err := uow.BotRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if bot == nil {
		return nil, serverutils.NotFound("bot does not exist")
	}

	applyBotRequest(bot, req)
	if err := uow.BotRepository().Update(ctx, bot); err != nil {
		return nil, err
	}
	return bot, nil
}

func (s *adminService) DeleteBot(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	bot, err := uow.BotRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if bot == nil {
		return serverutils.NotFound("bot does not exist")
	}
	return uow.BotRepository().Delete(ctx, id)
}

func (s *adminService) GetBot(ctx context.Context, id uuid.UUID) (*entity.Bot, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	bot, err := uow.BotRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if bot == nil {
		return nil, serverutils.NotFound("bot does not exist")
	}
	return bot, nil
}

func (s *adminService) ListBots(ctx context.Context) ([]*entity.Bot, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.BotRepository().FindAll(ctx, specification.OrderBy{Field: "created_at", Direction: "asc"})
}

func (s *adminService) CreateSource(ctx context.Context, req *dto.SourceRequest) (*entity.Source, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	source := &entity.Source{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := uow.SourceRepository().Create(ctx, source); err != nil {
		return nil, err
	}
	return source, nil
}

func (s *adminService) UpdateSource(ctx context.Context, id uuid.UUID, req *dto.SourceRequest) (*entity.Source, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	source, err := uow.SourceRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, serverutils.NotFound("source does not exist")
	}

	source.Name = req.Name
	source.Description = req.Description
	if err := uow.SourceRepository().Update(ctx, source); err != nil {
		return nil, err
	}
	return source, nil
}

func (s *adminService) DeleteSource(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	source, err := uow.SourceRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if source == nil {
		return serverutils.NotFound("source does not exist")
	}

	job, err := uow.ProcessingJobRepository().FindOne(ctx, specification.BySourceID{SourceID: id})
	if err != nil {
		return err
	}
	if job != nil && job.State.Active() {
		return serverutils.BadRequest("source has an active processing job")
	}

	if err := uow.SourceRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteSource(ctx, id.String()); err != nil {
		return err
	}
	s.collections.Invalidate(id.String())

	corpusPath := s.collections.CorpusPath(id.String())
	if err := os.Remove(corpusPath); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("admin", "could not remove corpus file", map[string]interface{}{
			"sourceId": id.String(),
			"path":     corpusPath,
			"error":    err.Error(),
		})
	}
	return nil
}

func (s *adminService) GetSource(ctx context.Context, id uuid.UUID) (*entity.Source, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	source, err := uow.SourceRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, serverutils.NotFound("source does not exist")
	}
	return source, nil
}

func (s *adminService) ListSources(ctx context.Context) ([]*entity.Source, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.SourceRepository().FindAll(ctx, specification.OrderBy{Field: "created_at", Direction: "asc"})
}
