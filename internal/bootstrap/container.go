package bootstrap

import (
	"docuchat-be/internal/config"
	"docuchat-be/internal/controller"
	"docuchat-be/internal/pkg/logger"
	"docuchat-be/internal/pkg/serverutils"
	"docuchat-be/internal/repository/memory"
	"docuchat-be/internal/repository/unitofwork"
	"docuchat-be/internal/service"
	embeddingopenai "docuchat-be/pkg/embedding/openai"
	llmopenai "docuchat-be/pkg/llm/openai"
	"docuchat-be/pkg/rag"
	"docuchat-be/pkg/tokenizer"
	"docuchat-be/pkg/vector"

	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController   controller.IChatController
	SourceController controller.ISourceController
	AdminController  controller.IAdminController

	// Background services (exposed for main.go to run)
	ProcessorService service.IProcessorService

	// Shared infrastructure
	VectorStore *vector.PgStore
	Logger      logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	tk, err := tokenizer.New()
	if err != nil {
		return nil, err
	}

	// 2. AI backends
	llmProvider := llmopenai.NewProvider(cfg.Keys.OpenAI, cfg.Ai.CompletionBaseURL, cfg.Ai.DefaultModel)
	embeddingProvider := embeddingopenai.NewProvider(
		cfg.Keys.OpenAI,
		cfg.Ai.EmbeddingModel,
		cfg.Ai.EmbeddingDimensions,
	)
	var reranker rag.Reranker
	if cfg.Keys.Jina != "" {
		reranker = rag.NewHTTPReranker(cfg.Keys.Jina, cfg.Ai.RerankerBaseURL, cfg.Ai.RerankerModel)
	}

	// 3. Retrieval infrastructure
	store := vector.NewPgStore(db)
	collections := service.NewCollectionService(cfg.App.DataDir, store, sysLogger)
	sessionLocks := memory.NewSessionLockRepository()

	// 4. Services
	chatService := service.NewChatService(
		uowFactory,
		llmProvider,
		embeddingProvider,
		collections,
		reranker,
		tk,
		sessionLocks,
		sysLogger,
	)
	jobService := service.NewJobService(uowFactory)
	adminService := service.NewAdminService(uowFactory, store, collections, sysLogger)
	processorService := service.NewProcessorService(
		uowFactory,
		service.NewFileDocumentLoader(cfg.App.DataDir),
		embeddingProvider,
		tk.Count,
		store,
		collections,
		sysLogger,
	)

	// 5. Controllers
	adminGuard := serverutils.NewAdminTokenMiddleware(cfg.App.AdminToken)
	return &Container{
		ChatController:   controller.NewChatController(chatService),
		SourceController: controller.NewSourceController(jobService, store, embeddingProvider, collections, adminGuard),
		AdminController:  controller.NewAdminController(adminService, adminGuard),
		ProcessorService: processorService,
		VectorStore:      store,
		Logger:           sysLogger,
	}, nil
}
