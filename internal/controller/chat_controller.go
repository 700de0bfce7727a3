package controller

import (
	"bufio"
	"context"
	"errors"

	"docuchat-be/internal/dto"
	"docuchat-be/internal/pkg/serverutils"
	"docuchat-be/internal/service"
	"docuchat-be/pkg/wire"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	Complete(ctx *fiber.Ctx) error
	Answer(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("sessions", c.CreateSession)
	h.Post("complete", c.Complete)
	h.Post("answer", c.Answer)
}

func (c *chatController) CreateSession(ctx *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	session, err := c.chatService.CreateSession(ctx.Context(), req.BotId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create session", dto.CreateSessionResponse{
		SessionId: session.Id,
	}))
}

func (c *chatController) Complete(ctx *fiber.Ctx) error {
	var req dto.CompleteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	c.stream(ctx, func(streamCtx context.Context, out *wire.Encoder) error {
		return c.chatService.Complete(streamCtx, req.SessionId, req.Message, out)
	}, "Sorry, I could not get a completion.")
	return nil
}

func (c *chatController) Answer(ctx *fiber.Ctx) error {
	var req dto.AnswerRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	c.stream(ctx, func(streamCtx context.Context, out *wire.Encoder) error {
		return c.chatService.Answer(streamCtx, req.BotId, req.Question, out)
	}, "Sorry, I could not get an answer.")
	return nil
}

// stream runs a turn inside a chunked response body. There is no end
// marker on the wire; closing the body tells the client the turn is
// done. Failures surface as a generic text chunk so upstream error
// internals never reach the caller.
func (c *chatController) stream(ctx *fiber.Ctx, run func(context.Context, *wire.Encoder) error, failure string) {
	ctx.Set(fiber.HeaderContentType, "application/octet-stream")
	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		// The fiber request context dies when the handler returns; the
		// turn runs on its own context for the lifetime of the stream.
		out := wire.NewEncoder(w)
		if err := run(context.Background(), out); err != nil {
			message := failure
			var appErr *serverutils.AppError
			if errors.As(err, &appErr) {
				message = appErr.Message
			}
			_ = out.WriteText(message)
		}
		_ = w.Flush()
	}))
}
