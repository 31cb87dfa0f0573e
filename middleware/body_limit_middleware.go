package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	apimodels "bbs-backend/models/api"
)

// WithBodyLimit rejects requests whose declared Content-Length exceeds limit. Paths with
// one of skipSuffixes are not checked.
func WithBodyLimit(limit int64, skipSuffixes ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, suffix := range skipSuffixes {
			if strings.HasSuffix(c.Path(), suffix) {
				return c.Next()
			}
		}
		contentLength := c.Get(fiber.HeaderContentLength)
		if contentLength != "" && contentLength != "0" {
			size, err := strconv.ParseInt(contentLength, 10, 64)
			if err == nil && size > limit {
				return c.Status(fiber.StatusRequestEntityTooLarge).JSON(
					apimodels.NewError(fmt.Sprintf("request body too large, maximum allowed: %d bytes", limit)))
			}
		}
		return c.Next()
	}
}
