package controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"bbs-backend/lib/apperrors"
	apimodels "bbs-backend/models/api"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("failed to parse request body")
		return errors.New("invalid request body")
	}
	return nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path()).
		WithField("request_id", ctx.Get(fiber.HeaderXRequestID))
}

// GetIntParam reads a positive integer from the route params or the query string.
func (c *BaseAPIController) GetIntParam(ctx *fiber.Ctx, key string) (int, error) {
	value := ctx.Params(key)
	if value == "" {
		value = ctx.Query(key)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, errors.Errorf("%s is required", key)
	}
	id, err := strconv.Atoi(value)
	if err != nil || id <= 0 {
		return 0, errors.Errorf("%s must be a positive integer", key)
	}
	return id, nil
}

// SendError maps a provider error to its status code. 5xx bodies carry the upstream error.
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, message string) error {
	status := apperrors.StatusCode(err)
	appMessage, detail := apperrors.Message(err)
	if status >= fiber.StatusInternalServerError {
		logger.WithError(err).Error(message)
		return ctx.Status(status).JSON(apimodels.NewUpstreamError(message, detail))
	}
	logger.WithError(err).Debug(message)
	return ctx.Status(status).JSON(apimodels.NewError(appMessage))
}
