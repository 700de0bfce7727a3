package controller

import (
	"docuchat-be/internal/dto"
	"docuchat-be/internal/pkg/serverutils"
	"docuchat-be/internal/service"
	"docuchat-be/pkg/embedding"
	"docuchat-be/pkg/vector"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	defaultDocumentPageSize = 25
	defaultQueryK           = 10
)

type ISourceController interface {
	RegisterRoutes(r fiber.Router)
	GetJob(ctx *fiber.Ctx) error
	Process(ctx *fiber.Ctx) error
	StopProcessing(ctx *fiber.Ctx) error
	ListDocuments(ctx *fiber.Ctx) error
	QueryDocuments(ctx *fiber.Ctx) error
}

type sourceController struct {
	jobService        service.IJobService
	store             vector.Store
	embeddingProvider embedding.Provider
	collections       service.ICollectionService
	adminGuard        fiber.Handler
}

func NewSourceController(
	jobService service.IJobService,
	store vector.Store,
	embeddingProvider embedding.Provider,
	collections service.ICollectionService,
	adminGuard fiber.Handler,
) ISourceController {
	return &sourceController{
		jobService:        jobService,
		store:             store,
		embeddingProvider: embeddingProvider,
		collections:       collections,
		adminGuard:        adminGuard,
	}
}

func (c *sourceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/source/v1")
	h.Use(c.adminGuard)
	h.Get(":id/job", c.GetJob)
	h.Get(":id/process", c.Process)
	h.Get(":id/stopprocessing", c.StopProcessing)
	h.Get(":id/documents", c.ListDocuments)
	h.Post(":id/documents/query", c.QueryDocuments)
}

func (c *sourceController) GetJob(ctx *fiber.Ctx) error {
	sourceId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.BadRequest("invalid source id")
	}

	job, err := c.jobService.GetJob(ctx.Context(), sourceId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get job", dto.JobResponseFromEntity(job)))
}

func (c *sourceController) Process(ctx *fiber.Ctx) error {
	sourceId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.BadRequest("invalid source id")
	}

	job, err := c.jobService.StartJob(ctx.Context(), sourceId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success start job", dto.JobResponseFromEntity(job)))
}

func (c *sourceController) StopProcessing(ctx *fiber.Ctx) error {
	sourceId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.BadRequest("invalid source id")
	}

	job, err := c.jobService.StopJob(ctx.Context(), sourceId)
	if err != nil {
		return err
	}
	if job == nil {
		return serverutils.BadRequest("no active job for source")
	}
	return ctx.JSON(serverutils.SuccessResponse("Success stop job", dto.JobResponseFromEntity(job)))
}

func (c *sourceController) ListDocuments(ctx *fiber.Ctx) error {
	sourceId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.BadRequest("invalid source id")
	}

	req := dto.ListDocumentsRequest{Limit: defaultDocumentPageSize}
	if err := ctx.QueryParser(&req); err != nil {
		return serverutils.BadRequest("invalid query parameters")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	docs, err := c.store.GetDocuments(ctx.Context(), sourceId.String(), req.Offset, req.Limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list documents", docs))
}

// QueryDocuments runs an ad-hoc similarity search against one source's
// corpus, for inspecting what retrieval would surface for a query.
func (c *sourceController) QueryDocuments(ctx *fiber.Ctx) error {
	sourceId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.BadRequest("invalid source id")
	}

	req := dto.QueryDocumentsRequest{K: defaultQueryK}
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	if req.K == 0 {
		req.K = defaultQueryK
	}

	vectors, err := c.embeddingProvider.Embed(ctx.Context(), []string{req.Query})
	if err != nil {
		return err
	}
	collection, err := c.collections.Collection(ctx.Context(), sourceId.String())
	if err != nil {
		return err
	}
	segments, err := collection.Query(ctx.Context(), vectors[0], req.K)
	if err != nil {
		return err
	}

	results := make([]vector.Document, len(segments))
	for i, segment := range segments {
		results[i] = vector.Document{
			SourceID:   sourceId.String(),
			DocURI:     segment.Segment.Doc.URI,
			DocTitle:   segment.Segment.Doc.Title,
			Index:      segment.Segment.Index,
			Text:       segment.Segment.Text,
			TokenCount: segment.Segment.TokenCount,
			Distance:   segment.Distance,
		}
	}
	return ctx.JSON(serverutils.SuccessResponse("Success query documents", results))
}
