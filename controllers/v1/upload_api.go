package apiv1

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"bbs-backend/controllers"
	filestorage "bbs-backend/lib/file-storage"
	apimodels "bbs-backend/models/api"
)

type uploadApiController struct {
	controllers.BaseAPIController
}

func InitUploadApiRouters(app fiber.Router) {
	controller := uploadApiController{}
	app.Post("upload", controller.upload)
	app.Get("files/*", controller.file)
}

// @Summary Upload an attachment
// @Tags Upload
// @Description Stores the file and returns a reference for uploadedFiles
// @Param   file		formData	file	true	"file"
// @Param   filename	formData	string	false	"stored file name"
// @Param   folderId	formData	string	false	"target folder"
// @Success 201 {object} apimodels.Response{data=apimodels.UploadedFile}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/upload [post]
func (c *uploadApiController) upload(ctx *fiber.Ctx) error {
	header, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("file is required"))
	}
	file, err := header.Open()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("failed to read file"))
	}
	defer file.Close()

	fileName := ctx.FormValue("filename")
	if fileName == "" {
		fileName = header.Filename
	}
	result, err := filestorage.Instance.Upload(ctx.UserContext(), filestorage.UploadRequest{
		FileName:    fileName,
		FolderID:    ctx.FormValue("folderId"),
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Size:        header.Size,
		Reader:      file,
	})
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("file_name", fileName), err, "failed to upload file")
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewResponse(result))
}

// @Summary Open an attachment
// @Tags Upload
// @Description Redirects to a short lived download URL of the stored file
// @Param   id	path	string	true	"file id returned by upload"
// @Success 307
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/files/{id} [get]
func (c *uploadApiController) file(ctx *fiber.Ctx) error {
	objectName, err := url.PathUnescape(ctx.Params("*"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("invalid file id"))
	}
	link, err := filestorage.Instance.Link(ctx.UserContext(), objectName)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("file_id", objectName), err, "failed to open file")
	}
	return ctx.Redirect(link, fiber.StatusTemporaryRedirect)
}
