package contract

import (
	"context"

	"snochat-be/internal/entity"
	"snochat-be/internal/repository/specification"
)

type CreditTransactionRepository interface {
	Create(ctx context.Context, transaction *entity.CreditTransaction) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditTransaction, error)
}
