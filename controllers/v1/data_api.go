package apiv1

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"bbs-backend/controllers"
	employeehandler "bbs-backend/lib/employee"
	observationhandler "bbs-backend/lib/observation"
	taxonomyhandler "bbs-backend/lib/taxonomy"
	apimodels "bbs-backend/models/api"
	sheetmodels "bbs-backend/models/sheet"
)

type dataApiController struct {
	controllers.BaseAPIController
}

func InitDataApiRouters(app fiber.Router) {
	controller := dataApiController{}
	app.Get("get", controller.get)
	app.Post("post", controller.post)
	app.Put("put", controller.put)
	app.Delete("delete", controller.delete)
}

// listTypes maps the type query value to a schema name.
var listTypes = map[string]string{
	"record":         sheetmodels.SchemaRecord,
	"she_violations": sheetmodels.SchemaSheViolation,
	"she_violation":  sheetmodels.SchemaSheViolation,
	"employee":       sheetmodels.SchemaEmployee,
	"category":       sheetmodels.SchemaCategory,
	"subcategory":    sheetmodels.SchemaSubCategory,
	"department":     sheetmodels.SchemaDepartment,
	"group":          sheetmodels.SchemaGroup,
	"option":         sheetmodels.SchemaOption,
}

// @Summary List records of a table
// @Tags Data
// @Description List records of a table
// @Param   type	query	string	true	"record|employee|category|subcategory|department|group|option|she_violations"
// @Param   status	query	string	false	"observation status filter"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/get [get]
func (c *dataApiController) get(ctx *fiber.Ctx) error {
	typeName := strings.TrimSpace(ctx.Query("type"))
	if typeName == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("type is required"))
	}
	schemaName, ok := listTypes[typeName]
	if !ok {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("unknown type " + typeName))
	}
	logger := c.GetLogger(ctx).WithField("type", schemaName)

	var (
		result any
		err    error
	)
	switch schemaName {
	case sheetmodels.SchemaRecord, sheetmodels.SchemaSheViolation:
		schema, _ := sheetmodels.ByName(schemaName)
		result, err = observationhandler.Instance.List(ctx.UserContext(), schema, ctx.Query("status"))
	case sheetmodels.SchemaEmployee:
		result, err = employeehandler.Instance.List(ctx.UserContext())
	default:
		result, err = taxonomyhandler.Instance.List(ctx.UserContext(), schemaName)
	}
	if err != nil {
		return c.SendError(ctx, logger, err, "failed to fetch data")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Create an employee or submit an observation
// @Tags Data
// @Description {"type":"employee","data":{...}} creates an employee, any other body is an observation
// @Param	body	body	apimodels.ObservationSubmit	true	"request body"
// @Success 201 {object} apimodels.Response{data=apimodels.SubmitResult}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/post [post]
func (c *dataApiController) post(ctx *fiber.Ctx) error {
	var envelope apimodels.TypedRequest
	if err := c.BodyParser(ctx, &envelope); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if envelope.Type == sheetmodels.SchemaEmployee && len(envelope.Data) != 0 {
		return c.createEmployee(ctx, envelope.Data)
	}

	var payload apimodels.ObservationSubmit
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := observationhandler.Instance.Submit(ctx.UserContext(), payload, time.Now())
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to submit observation")
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewResponse(result))
}

func (c *dataApiController) createEmployee(ctx *fiber.Ctx, raw json.RawMessage) error {
	var payload apimodels.EmployeeData
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("invalid employee data"))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := employeehandler.Instance.Create(ctx.UserContext(), payload, time.Now()); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to create employee")
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewResponse(nil))
}

// @Summary Update an employee
// @Tags Data
// @Description Overwrites the employee row located by id
// @Param	body	body	apimodels.TypedRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=apimodels.EmployeeView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/put [put]
func (c *dataApiController) put(ctx *fiber.Ctx) error {
	var envelope apimodels.TypedRequest
	if err := c.BodyParser(ctx, &envelope); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if envelope.Type != sheetmodels.SchemaEmployee {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("only type employee can be updated"))
	}
	if strings.TrimSpace(envelope.ID) == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("id is required"))
	}
	var payload apimodels.EmployeeData
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("invalid employee data"))
	}
	result, err := employeehandler.Instance.Update(ctx.UserContext(), envelope.ID, payload, time.Now())
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to update employee")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Delete an employee or a taxonomy entry
// @Tags Data
// @Description Delete an employee or a taxonomy entry
// @Param   type	query	string	true	"employee|category|subcategory|department|group|option"
// @Param   id		query	string	true	"employeeId or taxonomy id"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/delete [delete]
func (c *dataApiController) delete(ctx *fiber.Ctx) error {
	typeName := strings.TrimSpace(ctx.Query("type"))
	logger := c.GetLogger(ctx).WithField("type", typeName)
	switch {
	case typeName == sheetmodels.SchemaEmployee:
		if err := employeehandler.Instance.Delete(ctx.UserContext(), ctx.Query("id")); err != nil {
			return c.SendError(ctx, logger, err, "failed to delete employee")
		}
	case taxonomyhandler.IsTaxonomy(typeName):
		id, err := c.GetIntParam(ctx, "id")
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
		if err = taxonomyhandler.Instance.Delete(ctx.UserContext(), typeName, id); err != nil {
			return c.SendError(ctx, logger, err, "failed to delete "+typeName)
		}
	default:
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("unknown type " + typeName))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
