package contract

import (
	"context"

	"snochat-be/internal/entity"
	"snochat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type CreditRepository interface {
	Create(ctx context.Context, credit *entity.CreditBalance) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CreditBalance, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditBalance, error)
	// TryDeduct atomically subtracts amount if the balance covers it.
	// Returns false when the balance is short; the row is left untouched.
	TryDeduct(ctx context.Context, userId uuid.UUID, service string, amount int) (bool, error)
	// Add credits the balance unconditionally.
	Add(ctx context.Context, userId uuid.UUID, service string, amount int) error
}
