package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"bbs-backend/controllers"
	pdfexport "bbs-backend/lib/export/pdf"
	xlsexport "bbs-backend/lib/export/xls"
	observationhandler "bbs-backend/lib/observation"
	apimodels "bbs-backend/models/api"
)

type dashboardApiController struct {
	controllers.BaseAPIController
}

func InitDashboardApiRouters(app fiber.Router) {
	controller := dashboardApiController{}
	app.Get("dashboard", controller.dashboard)
	app.Route("export", func(router fiber.Router) {
		router.Get("xlsx", controller.exportXlsx)
		router.Get("pdf", controller.exportPdf)
	})
}

// @Summary Dashboard
// @Tags Dashboard
// @Description Observations with category names plus the category tables
// @Param   status	query	string	false	"pending|approved|rejected"
// @Success 200 {object} apimodels.Response{data=apimodels.DashboardView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/dashboard [get]
func (c *dashboardApiController) dashboard(ctx *fiber.Ctx) error {
	result, err := observationhandler.Instance.Dashboard(ctx.UserContext(), ctx.Query("status"))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to fetch dashboard")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Export observations to xlsx
// @Tags Dashboard
// @Description Export observations to xlsx
// @Param   status	query	string	false	"pending|approved|rejected"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/export/xlsx [get]
func (c *dashboardApiController) exportXlsx(ctx *fiber.Ctx) error {
	logger := c.GetLogger(ctx)
	view, err := observationhandler.Instance.Dashboard(ctx.UserContext(), ctx.Query("status"))
	if err != nil {
		return c.SendError(ctx, logger, err, "failed to fetch observations")
	}
	buf, err := xlsexport.Instance.ExportObservationList(view.Records)
	if err != nil {
		return c.SendError(ctx, logger, err, "failed to export observations")
	}
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="observations.xlsx"`)
	return ctx.Status(fiber.StatusOK).Send(buf.Bytes())
}

// @Summary Observation report
// @Tags Dashboard
// @Description Single observation as pdf
// @Param   recordId	query	string	true	"record ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/export/pdf [get]
func (c *dashboardApiController) exportPdf(ctx *fiber.Ctx) error {
	recordID := ctx.Query("recordId")
	logger := c.GetLogger(ctx).WithField("record_id", recordID)
	rec, err := observationhandler.Instance.Get(ctx.UserContext(), recordID)
	if err != nil {
		return c.SendError(ctx, logger, err, "failed to fetch observation")
	}
	data, err := pdfexport.GenerateObservationReport(rec)
	if err != nil {
		return c.SendError(ctx, logger, err, "failed to render report")
	}
	ctx.Set(fiber.HeaderContentType, "application/pdf")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+rec.RecordID+`.pdf"`)
	return ctx.Status(fiber.StatusOK).Send(data)
}
