package serverutils

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// NewAdminTokenMiddleware guards corpus management endpoints with the
// static bearer token configured at startup. An empty token disables
// admin access entirely.
func NewAdminTokenMiddleware(token string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if token == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("admin access is not configured"))
		}

		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("missing token"))
		}
		if subtle.ConstantTimeCompare([]byte(authHeader[7:]), []byte(token)) != 1 {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("invalid token"))
		}
		return ctx.Next()
	}
}
