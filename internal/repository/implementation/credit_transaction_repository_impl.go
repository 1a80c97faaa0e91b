package implementation

import (
	"context"

	"snochat-be/internal/entity"
	"snochat-be/internal/mapper"
	"snochat-be/internal/model"
	"snochat-be/internal/repository/contract"
	"snochat-be/internal/repository/specification"

	"gorm.io/gorm"
)

type CreditTransactionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CreditMapper
}

func NewCreditTransactionRepository(db *gorm.DB) contract.CreditTransactionRepository {
	return &CreditTransactionRepositoryImpl{
		db:     db,
		mapper: mapper.NewCreditMapper(),
	}
}

func (r *CreditTransactionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CreditTransactionRepositoryImpl) Create(ctx context.Context, transaction *entity.CreditTransaction) error {
	m := r.mapper.TransactionToModel(transaction)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*transaction = *r.mapper.TransactionToEntity(m)
	return nil
}

func (r *CreditTransactionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditTransaction, error) {
	var models []*model.AiCreditTransaction
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.CreditTransaction, len(models))
	for i, m := range models {
		entities[i] = r.mapper.TransactionToEntity(m)
	}
	return entities, nil
}
