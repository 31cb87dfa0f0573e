package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	apimodels "bbs-backend/models/api"
)

type errNotification struct {
	Code   int    `json:"code"`
	Method string `json:"method"`
	Path   string `json:"path"`
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// ErrNotify posts every 5xx response to addr. An empty addr disables the middleware.
func ErrNotify(addr string) fiber.Handler {
	client := &http.Client{Timeout: 5 * time.Second}
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if addr == "" {
			return err
		}
		statusCode := c.Response().StatusCode()
		if statusCode < fiber.StatusInternalServerError {
			return err
		}

		var data apimodels.Response
		if unmErr := json.Unmarshal(c.Response().Body(), &data); unmErr != nil {
			log.WithError(unmErr).Warn("error unmarshalling response body in middleware")
		}
		notification := errNotification{
			Code:   statusCode,
			Method: c.Method(),
			Path:   c.OriginalURL(),
			Error:  data.Message,
			Detail: data.Error,
		}
		if r := c.Route(); r != nil {
			notification.Path = r.Path
		}
		if notification.Error == "" {
			notification.Error = string(c.Response().Body())
		}

		go func() {
			payload, marshalErr := json.Marshal(notification)
			if marshalErr != nil {
				return
			}
			resp, reqErr := client.Post(addr, fiber.MIMEApplicationJSON, bytes.NewReader(payload))
			if reqErr != nil {
				log.WithError(reqErr).Warn("error sending error notification")
				return
			}
			_ = resp.Body.Close()
		}()
		return err
	}
}
