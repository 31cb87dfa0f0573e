package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestWithBodyLimit(t *testing.T) {
	app := fiber.New()
	app.Use(WithBodyLimit(8, "/upload"))
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }
	app.Post("/post", ok)
	app.Post("/upload", ok)

	send := func(path, body string) int {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		resp, err := app.Test(req, -1)
		require.Nil(t, err)
		return resp.StatusCode
	}

	t.Run(`small body passes`, func(t *testing.T) {
		require.Equal(t, fiber.StatusOK, send("/post", "{}"))
	})
	t.Run(`large body is rejected`, func(t *testing.T) {
		require.Equal(t, fiber.StatusRequestEntityTooLarge, send("/post", `{"data": "too long"}`))
	})
	t.Run(`skipped path`, func(t *testing.T) {
		require.Equal(t, fiber.StatusOK, send("/upload", `{"data": "too long"}`))
	})
}
