package mapper

import (
	"time"

	"snochat-be/internal/entity"
	"snochat-be/internal/model"
)

type CreditMapper struct{}

func NewCreditMapper() *CreditMapper {
	return &CreditMapper{}
}

func (m *CreditMapper) BalanceToEntity(c *model.UserCredit) *entity.CreditBalance {
	if c == nil {
		return nil
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.CreditBalance{
		UserId:    c.UserId,
		Service:   c.Service,
		Amount:    c.Amount,
		CreatedAt: c.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *CreditMapper) BalanceToModel(c *entity.CreditBalance) *model.UserCredit {
	if c == nil {
		return nil
	}

	out := &model.UserCredit{
		UserId:    c.UserId,
		Service:   c.Service,
		Amount:    c.Amount,
		CreatedAt: c.CreatedAt,
	}
	if c.UpdatedAt != nil {
		out.UpdatedAt = *c.UpdatedAt
	}
	return out
}

func (m *CreditMapper) TransactionToEntity(t *model.AiCreditTransaction) *entity.CreditTransaction {
	if t == nil {
		return nil
	}

	return &entity.CreditTransaction{
		Id:        t.Id,
		UserId:    t.UserId,
		Type:      entity.CreditTransactionType(t.TransactionType),
		Service:   t.Service,
		Amount:    t.Amount,
		RelatedId: t.RelatedId,
		Notes:     t.Notes,
		CreatedAt: t.CreatedAt,
	}
}

func (m *CreditMapper) TransactionToModel(t *entity.CreditTransaction) *model.AiCreditTransaction {
	if t == nil {
		return nil
	}

	return &model.AiCreditTransaction{
		Id:              t.Id,
		UserId:          t.UserId,
		TransactionType: string(t.Type),
		Service:         t.Service,
		Amount:          t.Amount,
		RelatedId:       t.RelatedId,
		Notes:           t.Notes,
		CreatedAt:       t.CreatedAt,
	}
}
