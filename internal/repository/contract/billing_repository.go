package contract

import (
	"context"

	"snochat-be/internal/entity"
	"snochat-be/internal/repository/specification"
)

type CreditPlanRepository interface {
	Create(ctx context.Context, plan *entity.CreditPlan) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CreditPlan, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditPlan, error)
}

type CreditPurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.CreditPurchase) error
	Update(ctx context.Context, purchase *entity.CreditPurchase) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CreditPurchase, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditPurchase, error)
}
