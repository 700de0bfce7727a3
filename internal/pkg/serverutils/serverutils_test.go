package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testApp(handler fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/handler", handler)
	return app
}

func decodeResponse(t *testing.T, body io.Reader) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func TestErrorHandlerAppError(t *testing.T) {
	app := testApp(func(ctx *fiber.Ctx) error {
		return NotFound("bot does not exist")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/handler", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	body := decodeResponse(t, resp.Body)
	assert.False(t, body.Success)
	assert.Equal(t, "bot does not exist", body.Message)
}

func TestErrorHandlerHidesUnknownErrors(t *testing.T) {
	app := testApp(func(ctx *fiber.Ctx) error {
		return errors.New("pq: connection refused on 10.0.0.3")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/handler", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body := decodeResponse(t, resp.Body)
	assert.Equal(t, "internal server error", body.Message)
}

func TestErrorHandlerPassesSuccessThrough(t *testing.T) {
	app := testApp(func(ctx *fiber.Ctx) error {
		return ctx.JSON(SuccessResponse("ok", fiber.Map{"value": 1}))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/handler", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeResponse(t, resp.Body)
	assert.True(t, body.Success)
}

func TestValidateRequest(t *testing.T) {
	type request struct {
		BotId string `validate:"required"`
	}

	err := ValidateRequest(request{})
	require.Error(t, err)
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, fiber.StatusBadRequest, appErr.Status)
	assert.Contains(t, appErr.Message, "BotId")

	assert.NoError(t, ValidateRequest(request{BotId: "some-id"}))
}

func adminApp(token string) *fiber.App {
	app := fiber.New()
	app.Get("/admin", NewAdminTokenMiddleware(token), func(ctx *fiber.Ctx) error {
		return ctx.JSON(SuccessResponse("ok", nil))
	})
	return app
}

func TestAdminTokenMiddleware(t *testing.T) {
	app := adminApp("secret-token")

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid token", "Bearer secret-token", fiber.StatusOK},
		{"wrong token", "Bearer wrong", fiber.StatusUnauthorized},
		{"missing header", "", fiber.StatusUnauthorized},
		{"not bearer", "Basic secret-token", fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestAdminTokenMiddlewareUnconfigured(t *testing.T) {
	app := adminApp("")

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer anything")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
