package apiv1

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"bbs-backend/controllers"
	approvalhandler "bbs-backend/lib/approval"
	apimodels "bbs-backend/models/api"
)

type approvalApiController struct {
	controllers.BaseAPIController
}

func InitApprovalApiRouters(app fiber.Router) {
	controller := approvalApiController{}
	app.Route("approve", func(router fiber.Router) {
		router.Post("", controller.decide)
		router.Get("", controller.status)
	})
}

// @Summary Approve, reject or reset an observation
// @Tags Approval
// @Description Writes status, adminNote, approvedDate and approvedBy of the observation row
// @Param	body	body	apimodels.ApprovalRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=apimodels.ApprovalDecision}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/approve [post]
func (c *approvalApiController) decide(ctx *fiber.Ctx) error {
	var payload apimodels.ApprovalRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := approvalhandler.Instance.Decide(ctx.UserContext(), payload, time.Now())
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("record_id", payload.RecordID), err, "failed to save decision")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Observation approval status
// @Tags Approval
// @Description Observation approval status
// @Param   recordId	query	string	true	"record ID"
// @Success 200 {object} apimodels.Response{data=apimodels.ApprovalStatusView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/approve [get]
func (c *approvalApiController) status(ctx *fiber.Ctx) error {
	recordID := ctx.Query("recordId")
	result, err := approvalhandler.Instance.Status(ctx.UserContext(), recordID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("record_id", recordID), err, "failed to fetch approval status")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}
