package controller

import (
	"snochat-be/internal/dto"
	"snochat-be/internal/pkg/apperr"
	"snochat-be/internal/pkg/serverutils"
	"snochat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPaymentController interface {
	RegisterRoutes(r fiber.Router)
	GetPlans(ctx *fiber.Ctx) error
	Checkout(ctx *fiber.Ctx) error
	Webhook(ctx *fiber.Ctx) error
	GetPurchases(ctx *fiber.Ctx) error
}

type paymentController struct {
	paymentService service.IPaymentService
}

func NewPaymentController(paymentService service.IPaymentService) IPaymentController {
	return &paymentController{
		paymentService: paymentService,
	}
}

func (c *paymentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/payment/v1")
	h.Get("plans", c.GetPlans)
	// Webhook is called by midtrans, not by a logged-in user.
	h.Post("webhook", c.Webhook)
	h.Post("checkout", serverutils.JwtMiddleware, c.Checkout)
	h.Get("purchases", serverutils.JwtMiddleware, c.GetPurchases)
}

func (c *paymentController) GetPlans(ctx *fiber.Ctx) error {
	res, err := c.paymentService.GetPlans(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get plans", res))
}

func (c *paymentController) Checkout(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CheckoutRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.paymentService.Checkout(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Checkout created", res))
}

func (c *paymentController) Webhook(ctx *fiber.Ctx) error {
	var req dto.MidtransNotification
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("invalid notification body")
	}

	if err := c.paymentService.HandleNotification(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("OK", nil))
}

func (c *paymentController) GetPurchases(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.paymentService.GetPurchases(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get purchases", res))
}
