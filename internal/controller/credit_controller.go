package controller

import (
	"snochat-be/internal/dto"
	"snochat-be/internal/pkg/serverutils"
	"snochat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ICreditController interface {
	RegisterRoutes(r fiber.Router)
	GetCredits(ctx *fiber.Ctx) error
}

type creditController struct {
	creditService service.ICreditService
}

func NewCreditController(creditService service.ICreditService) ICreditController {
	return &creditController{
		creditService: creditService,
	}
}

func (c *creditController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/credit/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.GetCredits)
}

func (c *creditController) GetCredits(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	balances, err := c.creditService.GetBalances(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get credits", dto.GetCreditsResponse{
		Credits: balances,
	}))
}
