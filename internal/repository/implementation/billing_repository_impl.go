package implementation

import (
	"context"
	"errors"

	"snochat-be/internal/entity"
	"snochat-be/internal/mapper"
	"snochat-be/internal/model"
	"snochat-be/internal/repository/contract"
	"snochat-be/internal/repository/specification"

	"gorm.io/gorm"
)

type CreditPlanRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BillingMapper
}

func NewCreditPlanRepository(db *gorm.DB) contract.CreditPlanRepository {
	return &CreditPlanRepositoryImpl{
		db:     db,
		mapper: mapper.NewBillingMapper(),
	}
}

func (r *CreditPlanRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CreditPlanRepositoryImpl) Create(ctx context.Context, plan *entity.CreditPlan) error {
	m := r.mapper.PlanToModel(plan)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*plan = *r.mapper.PlanToEntity(m)
	return nil
}

func (r *CreditPlanRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CreditPlan, error) {
	var m model.CreditPlan
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.PlanToEntity(&m), nil
}

func (r *CreditPlanRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditPlan, error) {
	var models []*model.CreditPlan
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.CreditPlan, len(models))
	for i, m := range models {
		entities[i] = r.mapper.PlanToEntity(m)
	}
	return entities, nil
}

type CreditPurchaseRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BillingMapper
}

func NewCreditPurchaseRepository(db *gorm.DB) contract.CreditPurchaseRepository {
	return &CreditPurchaseRepositoryImpl{
		db:     db,
		mapper: mapper.NewBillingMapper(),
	}
}

func (r *CreditPurchaseRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CreditPurchaseRepositoryImpl) Create(ctx context.Context, purchase *entity.CreditPurchase) error {
	m := r.mapper.PurchaseToModel(purchase)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*purchase = *r.mapper.PurchaseToEntity(m)
	return nil
}

func (r *CreditPurchaseRepositoryImpl) Update(ctx context.Context, purchase *entity.CreditPurchase) error {
	m := r.mapper.PurchaseToModel(purchase)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*purchase = *r.mapper.PurchaseToEntity(m)
	return nil
}

func (r *CreditPurchaseRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CreditPurchase, error) {
	var m model.CreditPurchase
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.PurchaseToEntity(&m), nil
}

func (r *CreditPurchaseRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditPurchase, error) {
	var models []*model.CreditPurchase
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.CreditPurchase, len(models))
	for i, m := range models {
		entities[i] = r.mapper.PurchaseToEntity(m)
	}
	return entities, nil
}
