package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	apimodels "bbs-backend/models/api"
)

func TestErrNotify(t *testing.T) {
	received := make(chan errNotification, 1)
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var n errNotification
		_ = json.NewDecoder(r.Body).Decode(&n)
		received <- n
	}))
	defer hook.Close()

	app := fiber.New()
	app.Use(ErrNotify(hook.URL))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/fail", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusInternalServerError).JSON(apimodels.NewUpstreamError("failed to read records", "quota exceeded"))
	})

	t.Run(`success is not reported`, func(t *testing.T) {
		_, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil), -1)
		require.Nil(t, err)
		select {
		case <-received:
			t.Fatal("unexpected notification")
		case <-time.After(100 * time.Millisecond):
		}
	})

	t.Run(`server error is reported`, func(t *testing.T) {
		_, err := app.Test(httptest.NewRequest(http.MethodGet, "/fail", nil), -1)
		require.Nil(t, err)
		select {
		case n := <-received:
			require.Equal(t, fiber.StatusInternalServerError, n.Code)
			require.Equal(t, "/fail", n.Path)
			require.Equal(t, "failed to read records", n.Error)
			require.Equal(t, "quota exceeded", n.Detail)
		case <-time.After(5 * time.Second):
			t.Fatal("notification not sent")
		}
	})
}
