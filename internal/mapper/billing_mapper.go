package mapper

import (
	"snochat-be/internal/entity"
	"snochat-be/internal/model"
)

type BillingMapper struct{}

func NewBillingMapper() *BillingMapper {
	return &BillingMapper{}
}

func (m *BillingMapper) PlanToEntity(p *model.CreditPlan) *entity.CreditPlan {
	if p == nil {
		return nil
	}

	return &entity.CreditPlan{
		Id:           p.Id,
		Name:         p.Name,
		Slug:         p.Slug,
		Service:      p.Service,
		CreditAmount: p.CreditAmount,
		Price:        p.Price,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
	}
}

func (m *BillingMapper) PlanToModel(p *entity.CreditPlan) *model.CreditPlan {
	if p == nil {
		return nil
	}

	return &model.CreditPlan{
		Id:           p.Id,
		Name:         p.Name,
		Slug:         p.Slug,
		Service:      p.Service,
		CreditAmount: p.CreditAmount,
		Price:        p.Price,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
	}
}

func (m *BillingMapper) PurchaseToEntity(p *model.CreditPurchase) *entity.CreditPurchase {
	if p == nil {
		return nil
	}

	return &entity.CreditPurchase{
		Id:          p.Id,
		UserId:      p.UserId,
		PlanId:      p.PlanId,
		OrderId:     p.OrderId,
		GrossAmount: p.GrossAmount,
		Status:      entity.PurchaseStatus(p.Status),
		PaymentURL:  p.PaymentURL,
		CreatedAt:   p.CreatedAt,
		PaidAt:      p.PaidAt,
	}
}

func (m *BillingMapper) PurchaseToModel(p *entity.CreditPurchase) *model.CreditPurchase {
	if p == nil {
		return nil
	}

	return &model.CreditPurchase{
		Id:          p.Id,
		UserId:      p.UserId,
		PlanId:      p.PlanId,
		OrderId:     p.OrderId,
		GrossAmount: p.GrossAmount,
		Status:      string(p.Status),
		PaymentURL:  p.PaymentURL,
		CreatedAt:   p.CreatedAt,
		PaidAt:      p.PaidAt,
	}
}
