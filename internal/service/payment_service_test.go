package service

import (
	"context"
	"crypto/sha512"
	"fmt"
	"testing"
	"time"

	"snochat-be/internal/config"
	"snochat-be/internal/constant"
	"snochat-be/internal/dto"
	"snochat-be/internal/entity"
	"snochat-be/internal/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testServerKey = "SB-Mid-server-test"

func newPaymentServiceForTest(uow *fakeUow) IPaymentService {
	credit := NewCreditService(uow, testCreditConfig(), &recordingPublisher{}, nil, nil, nopLogger{})
	return NewPaymentService(uow, credit, config.PaymentConfig{
		MidtransServerKey: testServerKey,
	}, nopLogger{})
}

func seedPlan(uow *fakeUow, slug string, service string, credits int, price float64, active bool) *entity.CreditPlan {
	plan := &entity.CreditPlan{
		Id:           uuid.New(),
		Name:         slug,
		Slug:         slug,
		Service:      service,
		CreditAmount: credits,
		Price:        price,
		IsActive:     active,
	}
	uow.plans.plans = append(uow.plans.plans, plan)
	return plan
}

func seedPurchase(uow *fakeUow, userId uuid.UUID, plan *entity.CreditPlan, status entity.PurchaseStatus) *entity.CreditPurchase {
	purchase := &entity.CreditPurchase{
		Id:          uuid.New(),
		UserId:      userId,
		PlanId:      plan.Id,
		OrderId:     fmt.Sprintf("credits-%s", uuid.NewString()),
		GrossAmount: plan.Price,
		Status:      status,
		CreatedAt:   time.Now(),
	}
	uow.purchases.purchases = append(uow.purchases.purchases, purchase)
	return purchase
}

func signNotification(n *dto.MidtransNotification) {
	input := n.OrderId + n.StatusCode + n.GrossAmount + testServerKey
	n.SignatureKey = fmt.Sprintf("%x", sha512.Sum512([]byte(input)))
}

func TestGetPlans_ActiveOnlyCheapestFirst(t *testing.T) {
	uow := newFakeUow()
	seedPlan(uow, "chat-power", constant.ServiceChat, 400, 99000, true)
	seedPlan(uow, "chat-starter", constant.ServiceChat, 40, 15000, true)
	seedPlan(uow, "retired", constant.ServiceChat, 10, 1000, false)

	svc := newPaymentServiceForTest(uow)

	plans, err := svc.GetPlans(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "chat-starter", plans[0].Slug)
	assert.Equal(t, "chat-power", plans[1].Slug)
}

func TestHandleNotification_BadSignatureRejected(t *testing.T) {
	uow := newFakeUow()
	svc := newPaymentServiceForTest(uow)

	err := svc.HandleNotification(context.Background(), &dto.MidtransNotification{
		OrderId:      "credits-abc",
		StatusCode:   "200",
		GrossAmount:  "15000.00",
		SignatureKey: "forged",
	})
	assert.True(t, apperr.HasCode(err, apperr.CodeAuthorization), "got %v", err)
}

func TestHandleNotification_SettlementGrantsCredits(t *testing.T) {
	uow := newFakeUow()
	svc := newPaymentServiceForTest(uow)
	userId := uuid.New()

	plan := seedPlan(uow, "chat-regular", constant.ServiceChat, 120, 39000, true)
	purchase := seedPurchase(uow, userId, plan, entity.PurchaseStatusPending)
	uow.credits.set(userId, constant.ServiceChat, 2)

	notification := &dto.MidtransNotification{
		OrderId:           purchase.OrderId,
		StatusCode:        "200",
		GrossAmount:       "39000.00",
		TransactionStatus: "settlement",
	}
	signNotification(notification)

	require.NoError(t, svc.HandleNotification(context.Background(), notification))

	assert.Equal(t, entity.PurchaseStatusSuccess, purchase.Status)
	assert.NotNil(t, purchase.PaidAt)
	assert.Equal(t, 122, uow.credits.balances[balanceKey{userId, constant.ServiceChat}])

	// Midtrans retries the webhook; the grant must not double up.
	require.NoError(t, svc.HandleNotification(context.Background(), notification))
	assert.Equal(t, 122, uow.credits.balances[balanceKey{userId, constant.ServiceChat}])
}

func TestHandleNotification_CaptureWithFraudChallengeIgnored(t *testing.T) {
	uow := newFakeUow()
	svc := newPaymentServiceForTest(uow)
	userId := uuid.New()

	plan := seedPlan(uow, "chat-regular", constant.ServiceChat, 120, 39000, true)
	purchase := seedPurchase(uow, userId, plan, entity.PurchaseStatusPending)

	notification := &dto.MidtransNotification{
		OrderId:           purchase.OrderId,
		StatusCode:        "200",
		GrossAmount:       "39000.00",
		TransactionStatus: "capture",
		FraudStatus:       "challenge",
	}
	signNotification(notification)

	require.NoError(t, svc.HandleNotification(context.Background(), notification))

	// Stays pending until midtrans reports an accept or a failure.
	assert.Equal(t, entity.PurchaseStatusPending, purchase.Status)
	assert.Equal(t, 0, uow.credits.balances[balanceKey{userId, constant.ServiceChat}])
}

func TestHandleNotification_FailureStatuses(t *testing.T) {
	for _, status := range []string{"deny", "cancel", "expire", "failure"} {
		t.Run(status, func(t *testing.T) {
			uow := newFakeUow()
			svc := newPaymentServiceForTest(uow)

			plan := seedPlan(uow, "chat-regular", constant.ServiceChat, 120, 39000, true)
			purchase := seedPurchase(uow, uuid.New(), plan, entity.PurchaseStatusPending)

			notification := &dto.MidtransNotification{
				OrderId:           purchase.OrderId,
				StatusCode:        "202",
				GrossAmount:       "39000.00",
				TransactionStatus: status,
			}
			signNotification(notification)

			require.NoError(t, svc.HandleNotification(context.Background(), notification))
			assert.Equal(t, entity.PurchaseStatusFailed, purchase.Status)
		})
	}
}

func TestHandleNotification_UnknownOrder(t *testing.T) {
	uow := newFakeUow()
	svc := newPaymentServiceForTest(uow)

	notification := &dto.MidtransNotification{
		OrderId:           "credits-missing",
		StatusCode:        "200",
		GrossAmount:       "15000.00",
		TransactionStatus: "settlement",
	}
	signNotification(notification)

	err := svc.HandleNotification(context.Background(), notification)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound), "got %v", err)
}

func TestGetPurchases_NewestFirstOwnOnly(t *testing.T) {
	uow := newFakeUow()
	svc := newPaymentServiceForTest(uow)
	userId := uuid.New()

	plan := seedPlan(uow, "chat-regular", constant.ServiceChat, 120, 39000, true)
	older := seedPurchase(uow, userId, plan, entity.PurchaseStatusSuccess)
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := seedPurchase(uow, userId, plan, entity.PurchaseStatusPending)
	seedPurchase(uow, uuid.New(), plan, entity.PurchaseStatusPending)

	purchases, err := svc.GetPurchases(context.Background(), userId)
	require.NoError(t, err)
	require.Len(t, purchases, 2)
	assert.Equal(t, newer.OrderId, purchases[0].OrderId)
	assert.Equal(t, older.OrderId, purchases[1].OrderId)
}
