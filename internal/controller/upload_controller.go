package controller

import (
	"io"

	"snochat-be/internal/pkg/apperr"
	"snochat-be/internal/pkg/serverutils"
	"snochat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IUploadController interface {
	RegisterRoutes(r fiber.Router)
	UploadImage(ctx *fiber.Ctx) error
}

type uploadController struct {
	attachmentService service.IAttachmentService
}

func NewUploadController(attachmentService service.IAttachmentService) IUploadController {
	return &uploadController{
		attachmentService: attachmentService,
	}
}

func (c *uploadController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/upload/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("image", c.UploadImage)
}

func (c *uploadController) UploadImage(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return apperr.Validation("missing file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apperr.Validation("failed to open file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return apperr.Storage("failed to read file", err)
	}

	res, err := c.attachmentService.UploadImage(
		ctx.Context(),
		userId,
		fileHeader.Filename,
		data,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Image analyzed", res))
}
