package unitofwork

import (
	"context"

	"snochat-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository

	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository

	CreditRepository() contract.CreditRepository
	CreditTransactionRepository() contract.CreditTransactionRepository
	CreditPlanRepository() contract.CreditPlanRepository
	CreditPurchaseRepository() contract.CreditPurchaseRepository
}
