package controller

import (
	"docuchat-be/internal/dto"
	"docuchat-be/internal/pkg/serverutils"
	"docuchat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	CreateBot(ctx *fiber.Ctx) error
	ListBots(ctx *fiber.Ctx) error
	GetBot(ctx *fiber.Ctx) error
	UpdateBot(ctx *fiber.Ctx) error
	DeleteBot(ctx *fiber.Ctx) error
	CreateSource(ctx *fiber.Ctx) error
	ListSources(ctx *fiber.Ctx) error
	GetSource(ctx *fiber.Ctx) error
	UpdateSource(ctx *fiber.Ctx) error
	DeleteSource(ctx *fiber.Ctx) error
}

type adminController struct {
	adminService service.IAdminService
	adminGuard   fiber.Handler
}

func NewAdminController(adminService service.IAdminService, adminGuard fiber.Handler) IAdminController {
	return &adminController{
		adminService: adminService,
		adminGuard:   adminGuard,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1")
	h.Use(c.adminGuard)

	h.Post("bots", c.CreateBot)
	h.Get("bots", c.ListBots)
	h.Get("bots/:id", c.GetBot)
	h.Put("bots/:id", c.UpdateBot)
	h.Delete("bots/:id", c.DeleteBot)

	h.Post("sources", c.CreateSource)
	h.Get("sources", c.ListSources)
	h.Get("sources/:id", c.GetSource)
	h.Put("sources/:id", c.UpdateSource)
	h.Delete("sources/:id", c.DeleteSource)
}

func parseID(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, serverutils.BadRequest("invalid id")
	}
	return id, nil
}

func (c *adminController) CreateBot(ctx *fiber.Ctx) error {
	var req dto.BotRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	bot, err := c.adminService.CreateBot(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success create bot", dto.BotResponseFromEntity(bot)))
}

func (c *adminController) ListBots(ctx *fiber.Ctx) error {
	bots, err := c.adminService.ListBots(ctx.Context())
	if err != nil {
		return err
	}
	responses := make([]*dto.BotResponse, len(bots))
	for i, bot := range bots {
		responses[i] = dto.BotResponseFromEntity(bot)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list bots", responses))
}

func (c *adminController) GetBot(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}
	bot, err := c.adminService.GetBot(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get bot", dto.BotResponseFromEntity(bot)))
}

func (c *adminController) UpdateBot(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}
	var req dto.BotRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	bot, err := c.adminService.UpdateBot(ctx.Context(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update bot", dto.BotResponseFromEntity(bot)))
}

func (c *adminController) DeleteBot(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}
	if err := c.adminService.DeleteBot(ctx.Context(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success delete bot", nil))
}

func (c *adminController) CreateSource(ctx *fiber.Ctx) error {
	var req dto.SourceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	source, err := c.adminService.CreateSource(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success create source", dto.SourceResponseFromEntity(source)))
}

func (c *adminController) ListSources(ctx *fiber.Ctx) error {
	sources, err := c.adminService.ListSources(ctx.Context())
	if err != nil {
		return err
	}
	responses := make([]*dto.SourceResponse, len(sources))
	for i, source := range sources {
		responses[i] = dto.SourceResponseFromEntity(source)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list sources", responses))
}

func (c *adminController) GetSource(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}
	source, err := c.adminService.GetSource(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get source", dto.SourceResponseFromEntity(source)))
}

func (c *adminController) UpdateSource(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}
	var req dto.SourceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	source, err := c.adminService.UpdateSource(ctx.Context(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update source", dto.SourceResponseFromEntity(source)))
}

func (c *adminController) DeleteSource(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}
	if err := c.adminService.DeleteSource(ctx.Context(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success delete source", nil))
}
