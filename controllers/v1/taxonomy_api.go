package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"bbs-backend/controllers"
	taxonomyhandler "bbs-backend/lib/taxonomy"
	apimodels "bbs-backend/models/api"
)

type taxonomyApiController struct {
	controllers.BaseAPIController
}

func InitTaxonomyApiRouters(app fiber.Router) {
	controller := taxonomyApiController{}
	app.Route("taxonomy/:type", func(router fiber.Router) {
		router.Post("", controller.create)
		router.Put(":id", controller.update)
	})
}

// @Summary Create a taxonomy entry
// @Tags Taxonomy
// @Description The id is one more than the largest id of the table
// @Param   type	path	string					true	"category|subcategory|department|group|option"
// @Param	body	body	apimodels.TaxonomyData	true	"request body"
// @Success 201 {object} apimodels.Response{data=apimodels.TaxonomyResult}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/taxonomy/{type} [post]
func (c *taxonomyApiController) create(ctx *fiber.Ctx) error {
	var payload apimodels.TaxonomyData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	typeName := ctx.Params("type")
	result, err := taxonomyhandler.Instance.Create(ctx.UserContext(), typeName, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("type", typeName), err, "failed to create "+typeName)
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewResponse(result))
}

// @Summary Update a taxonomy entry
// @Tags Taxonomy
// @Description Update a taxonomy entry
// @Param   type	path	string					true	"category|subcategory|department|group|option"
// @Param   id		path	int						true	"entry id"
// @Param	body	body	apimodels.TaxonomyData	true	"request body"
// @Success 200 {object} apimodels.Response{data=apimodels.TaxonomyResult}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/taxonomy/{type}/{id} [put]
func (c *taxonomyApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetIntParam(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload apimodels.TaxonomyData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	typeName := ctx.Params("type")
	result, err := taxonomyhandler.Instance.Update(ctx.UserContext(), typeName, id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("type", typeName), err, "failed to update "+typeName)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}
