package implementation

import (
	"context"
	"errors"

	"snochat-be/internal/entity"
	"snochat-be/internal/mapper"
	"snochat-be/internal/model"
	"snochat-be/internal/repository/contract"
	"snochat-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreditRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CreditMapper
}

func NewCreditRepository(db *gorm.DB) contract.CreditRepository {
	return &CreditRepositoryImpl{
		db:     db,
		mapper: mapper.NewCreditMapper(),
	}
}

func (r *CreditRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CreditRepositoryImpl) Create(ctx context.Context, credit *entity.CreditBalance) error {
	m := r.mapper.BalanceToModel(credit)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*credit = *r.mapper.BalanceToEntity(m)
	return nil
}

func (r *CreditRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CreditBalance, error) {
	var m model.UserCredit
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.BalanceToEntity(&m), nil
}

func (r *CreditRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditBalance, error) {
	var models []*model.UserCredit
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.CreditBalance, len(models))
	for i, m := range models {
		entities[i] = r.mapper.BalanceToEntity(m)
	}
	return entities, nil
}

// TryDeduct runs a single conditional UPDATE so two concurrent spends can
// never both succeed on an insufficient balance. RowsAffected == 0 means
// either the row is missing or the balance does not cover the amount.
func (r *CreditRepositoryImpl) TryDeduct(ctx context.Context, userId uuid.UUID, service string, amount int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.UserCredit{}).
		Where("user_id = ? AND service = ? AND amount >= ?", userId, service, amount).
		Update("amount", gorm.Expr("amount - ?", amount))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *CreditRepositoryImpl) Add(ctx context.Context, userId uuid.UUID, service string, amount int) error {
	return r.db.WithContext(ctx).
		Model(&model.UserCredit{}).
		Where("user_id = ? AND service = ?", userId, service).
		Update("amount", gorm.Expr("amount + ?", amount)).Error
}
