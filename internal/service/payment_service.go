package service

import (
	"context"
	"crypto/sha512"
	"fmt"
	"time"

	"snochat-be/internal/config"
	"snochat-be/internal/dto"
	"snochat-be/internal/entity"
	"snochat-be/internal/pkg/apperr"
	"snochat-be/internal/pkg/logger"
	"snochat-be/internal/repository/specification"
	"snochat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

type IPaymentService interface {
	GetPlans(ctx context.Context) ([]*dto.CreditPlanDTO, error)
	Checkout(ctx context.Context, userId uuid.UUID, request *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	HandleNotification(ctx context.Context, notification *dto.MidtransNotification) error
	GetPurchases(ctx context.Context, userId uuid.UUID) ([]*dto.PurchaseDTO, error)
}

type paymentService struct {
	uowFactory    unitofwork.RepositoryFactory
	creditService ICreditService
	paymentCfg    config.PaymentConfig
	logger        logger.ILogger
}

func NewPaymentService(
	uowFactory unitofwork.RepositoryFactory,
	creditService ICreditService,
	paymentCfg config.PaymentConfig,
	log logger.ILogger,
) IPaymentService {
	return &paymentService{
		uowFactory:    uowFactory,
		creditService: creditService,
		paymentCfg:    paymentCfg,
		logger:        log,
	}
}

func (s *paymentService) GetPlans(ctx context.Context) ([]*dto.CreditPlanDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	plans, err := uow.CreditPlanRepository().FindAll(ctx,
		specification.ActivePlans{},
		specification.OrderBy{Field: "price", Desc: false},
	)
	if err != nil {
		return nil, apperr.Storage("failed to load plans", err)
	}

	res := make([]*dto.CreditPlanDTO, 0, len(plans))
	for _, p := range plans {
		res = append(res, &dto.CreditPlanDTO{
			Id:           p.Id,
			Name:         p.Name,
			Slug:         p.Slug,
			Service:      p.Service,
			CreditAmount: p.CreditAmount,
			Price:        p.Price,
		})
	}
	return res, nil
}

func (s *paymentService) Checkout(ctx context.Context, userId uuid.UUID, request *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	plan, err := uow.CreditPlanRepository().FindOne(ctx,
		specification.BySlug{Slug: request.PlanSlug},
		specification.ActivePlans{},
	)
	if err != nil {
		return nil, apperr.Storage("failed to load plan", err)
	}
	if plan == nil {
		return nil, apperr.NotFound("plan not found")
	}

	orderId := fmt.Sprintf("credits-%s", uuid.NewString())

	var sClient snap.Client
	env := midtrans.Sandbox
	if s.paymentCfg.Production {
		env = midtrans.Production
	}
	sClient.New(s.paymentCfg.MidtransServerKey, env)

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderId,
			GrossAmt: int64(plan.Price),
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    plan.Slug,
				Name:  plan.Name,
				Price: int64(plan.Price),
				Qty:   1,
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapRes, midErr := sClient.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, apperr.Storage(fmt.Sprintf("midtrans error: %v", midErr.GetMessage()), midErr)
	}

	purchase := entity.CreditPurchase{
		Id:          uuid.New(),
		UserId:      userId,
		PlanId:      plan.Id,
		OrderId:     orderId,
		GrossAmount: plan.Price,
		Status:      entity.PurchaseStatusPending,
		PaymentURL:  &snapRes.RedirectURL,
		CreatedAt:   time.Now(),
	}
	if err := uow.CreditPurchaseRepository().Create(ctx, &purchase); err != nil {
		return nil, apperr.Storage("failed to record purchase", err)
	}

	return &dto.CheckoutResponse{
		OrderId:    orderId,
		PaymentURL: snapRes.RedirectURL,
	}, nil
}

func (s *paymentService) HandleNotification(ctx context.Context, notification *dto.MidtransNotification) error {
	// Signature check keeps forged webhooks out; the key never leaves the server.
	signatureInput := notification.OrderId + notification.StatusCode + notification.GrossAmount + s.paymentCfg.MidtransServerKey
	expectedSignature := fmt.Sprintf("%x", sha512.Sum512([]byte(signatureInput)))
	if notification.SignatureKey != expectedSignature {
		return apperr.Authorization("invalid webhook signature")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	purchase, err := uow.CreditPurchaseRepository().FindOne(ctx,
		specification.ByOrderID{OrderID: notification.OrderId},
	)
	if err != nil {
		return apperr.Storage("failed to load purchase", err)
	}
	if purchase == nil {
		return apperr.NotFound("purchase not found")
	}
	if purchase.Status != entity.PurchaseStatusPending {
		// Already settled or failed; midtrans retries are idempotent here.
		return nil
	}

	switch notification.TransactionStatus {
	case "capture", "settlement":
		if notification.FraudStatus != "" && notification.FraudStatus != "accept" {
			return nil
		}

		plan, err := uow.CreditPlanRepository().FindOne(ctx, specification.ByID{ID: purchase.PlanId})
		if err != nil {
			return apperr.Storage("failed to load plan", err)
		}
		if plan == nil {
			return apperr.Storage("plan missing for settled purchase", nil)
		}

		now := time.Now()
		purchase.Status = entity.PurchaseStatusSuccess
		purchase.PaidAt = &now
		if err := uow.CreditPurchaseRepository().Update(ctx, purchase); err != nil {
			return apperr.Storage("failed to update purchase", err)
		}

		if err := s.creditService.Grant(ctx, purchase.UserId, plan.Service, plan.CreditAmount,
			fmt.Sprintf("purchase %s", purchase.OrderId)); err != nil {
			return err
		}

		s.logger.Info("PaymentService", "purchase settled", map[string]interface{}{
			"order_id": purchase.OrderId,
			"user_id":  purchase.UserId.String(),
			"credits":  plan.CreditAmount,
		})

	case "deny", "cancel", "expire", "failure":
		purchase.Status = entity.PurchaseStatusFailed
		if err := uow.CreditPurchaseRepository().Update(ctx, purchase); err != nil {
			return apperr.Storage("failed to update purchase", err)
		}
	}

	return nil
}

func (s *paymentService) GetPurchases(ctx context.Context, userId uuid.UUID) ([]*dto.PurchaseDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	purchases, err := uow.CreditPurchaseRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, apperr.Storage("failed to load purchases", err)
	}

	res := make([]*dto.PurchaseDTO, 0, len(purchases))
	for _, p := range purchases {
		res = append(res, &dto.PurchaseDTO{
			Id:          p.Id,
			OrderId:     p.OrderId,
			GrossAmount: p.GrossAmount,
			Status:      string(p.Status),
			CreatedAt:   p.CreatedAt,
			PaidAt:      p.PaidAt,
		})
	}
	return res, nil
}
