package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"snochat-be/internal/config"
	"snochat-be/internal/constant"
	"snochat-be/internal/dto"
	"snochat-be/internal/entity"
	"snochat-be/internal/pkg/apperr"
	"snochat-be/internal/pkg/logger"
	"snochat-be/internal/repository/specification"
	"snochat-be/internal/repository/unitofwork"
	"snochat-be/pkg/events"
	pktNats "snochat-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type ICreditService interface {
	// EnsureDefaults creates the per-service balance rows for a user
	// that does not have them yet, seeded from config.
	EnsureDefaults(ctx context.Context, userId uuid.UUID) error
	GetBalances(ctx context.Context, userId uuid.UUID) (map[string]int, error)
	GetBalance(ctx context.Context, userId uuid.UUID, service string) (int, error)
	// Deduct spends amount from a service balance. Returns the remaining
	// balance, or an insufficient_credit error when the balance is short.
	Deduct(ctx context.Context, userId uuid.UUID, service string, amount int, relatedId *uuid.UUID, notes string) (int, error)
	Grant(ctx context.Context, userId uuid.UUID, service string, amount int, notes string) error
}

type creditService struct {
	uowFactory       unitofwork.RepositoryFactory
	creditCfg        config.CreditConfig
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	rdb              *redis.Client
	logger           logger.ILogger
}

const balanceCacheTTL = 60 * time.Second

func NewCreditService(
	uowFactory unitofwork.RepositoryFactory,
	creditCfg config.CreditConfig,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	rdb *redis.Client,
	log logger.ILogger,
) ICreditService {
	return &creditService{
		uowFactory:       uowFactory,
		creditCfg:        creditCfg,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		rdb:              rdb,
		logger:           log,
	}
}

func (s *creditService) defaults() map[string]int {
	return map[string]int{
		constant.ServiceChat:      s.creditCfg.DefaultChat,
		constant.ServiceEmbedding: s.creditCfg.DefaultEmbedding,
		constant.ServicePanorama:  s.creditCfg.DefaultPanorama,
		constant.ServiceEye2D:     s.creditCfg.DefaultEye2D,
	}
}

func (s *creditService) EnsureDefaults(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.CreditRepository().FindAll(ctx, specification.OwnedBy{UserID: userId})
	if err != nil {
		return apperr.Storage("failed to load credit balances", err)
	}

	have := make(map[string]bool, len(existing))
	for _, balance := range existing {
		have[balance.Service] = true
	}

	seeded := make([]entity.CreditBalance, 0, len(s.defaults()))
	for svc, amount := range s.defaults() {
		if have[svc] {
			continue
		}
		seeded = append(seeded, entity.CreditBalance{
			UserId:    userId,
			Service:   svc,
			Amount:    amount,
			CreatedAt: time.Now(),
		})
	}
	if len(seeded) == 0 {
		return nil
	}

	// The service buckets appear together or not at all; a user with only
	// half the rows would dodge the lazy-seed check forever.
	if err := uow.Begin(ctx); err != nil {
		return apperr.Storage("failed to seed credit balances", err)
	}
	for i := range seeded {
		if err := uow.CreditRepository().Create(ctx, &seeded[i]); err != nil {
			_ = uow.Rollback()
			return apperr.Storage("failed to seed credit balance", err)
		}
	}
	if err := uow.Commit(); err != nil {
		return apperr.Storage("failed to seed credit balances", err)
	}

	for _, balance := range seeded {
		s.audit(ctx, dto.CreditAuditMessage{
			UserId:     userId,
			Type:       string(entity.CreditTransactionGrant),
			Service:    balance.Service,
			Amount:     balance.Amount,
			Notes:      "default grant",
			OccurredAt: time.Now(),
		})
	}

	s.invalidateCache(ctx, userId)
	return nil
}

func (s *creditService) GetBalances(ctx context.Context, userId uuid.UUID) (map[string]int, error) {
	if cached, ok := s.cachedBalances(ctx, userId); ok {
		return cached, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	balances, err := uow.CreditRepository().FindAll(ctx, specification.OwnedBy{UserID: userId})
	if err != nil {
		return nil, apperr.Storage("failed to load credit balances", err)
	}

	// Balance rows are created lazily; a user seen for the first time (or
	// predating a newly added service) gets the default allotment here.
	if len(balances) < len(s.defaults()) {
		if err := s.EnsureDefaults(ctx, userId); err != nil {
			return nil, err
		}
		balances, err = uow.CreditRepository().FindAll(ctx, specification.OwnedBy{UserID: userId})
		if err != nil {
			return nil, apperr.Storage("failed to load credit balances", err)
		}
	}

	result := make(map[string]int, len(balances))
	for _, balance := range balances {
		result[balance.Service] = balance.Amount
	}

	s.cacheBalances(ctx, userId, result)
	return result, nil
}

func (s *creditService) GetBalance(ctx context.Context, userId uuid.UUID, service string) (int, error) {
	balances, err := s.GetBalances(ctx, userId)
	if err != nil {
		return 0, err
	}
	return balances[service], nil
}

func (s *creditService) Deduct(ctx context.Context, userId uuid.UUID, service string, amount int, relatedId *uuid.UUID, notes string) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	ok, err := uow.CreditRepository().TryDeduct(ctx, userId, service, amount)
	if err != nil {
		return 0, apperr.Storage("failed to deduct credits", err)
	}
	if !ok {
		return 0, apperr.InsufficientCredit(fmt.Sprintf("not enough %s credits", service))
	}

	s.invalidateCache(ctx, userId)

	s.audit(ctx, dto.CreditAuditMessage{
		UserId:     userId,
		Type:       string(entity.CreditTransactionSpend),
		Service:    service,
		Amount:     amount,
		RelatedId:  relatedId,
		Notes:      notes,
		OccurredAt: time.Now(),
	})

	if s.eventPublisher != nil {
		evt := events.NewCreditSpent(userId, service, amount, relatedId, notes)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("CreditService", "failed to publish credit event", map[string]interface{}{
				"user_id": userId.String(),
				"error":   err.Error(),
			})
		}
	}

	remaining, err := s.freshBalance(ctx, userId, service)
	if err != nil {
		// Deduction already happened; report it even if the re-read failed.
		s.logger.Warn("CreditService", "failed to re-read balance after deduct", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
		return 0, nil
	}
	return remaining, nil
}

func (s *creditService) Grant(ctx context.Context, userId uuid.UUID, service string, amount int, notes string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.CreditRepository().Add(ctx, userId, service, amount); err != nil {
		return apperr.Storage("failed to grant credits", err)
	}

	s.invalidateCache(ctx, userId)

	s.audit(ctx, dto.CreditAuditMessage{
		UserId:     userId,
		Type:       string(entity.CreditTransactionGrant),
		Service:    service,
		Amount:     amount,
		Notes:      notes,
		OccurredAt: time.Now(),
	})

	if s.eventPublisher != nil {
		evt := events.NewCreditGranted(userId, service, amount, notes)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("CreditService", "failed to publish credit event", map[string]interface{}{
				"user_id": userId.String(),
				"error":   err.Error(),
			})
		}
	}

	return nil
}

func (s *creditService) freshBalance(ctx context.Context, userId uuid.UUID, service string) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	balance, err := uow.CreditRepository().FindOne(ctx,
		specification.OwnedBy{UserID: userId},
		specification.ByService{Service: service},
	)
	if err != nil {
		return 0, err
	}
	if balance == nil {
		return 0, nil
	}
	return balance.Amount, nil
}

// audit ships the mutation to the in-process bus. Losing an audit row is
// logged but never fails the business operation.
func (s *creditService) audit(ctx context.Context, msg dto.CreditAuditMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("CreditService", "failed to marshal audit message", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Error("CreditService", "failed to publish audit message", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *creditService) cacheKey(userId uuid.UUID) string {
	return fmt.Sprintf("credits:%s", userId.String())
}

func (s *creditService) cachedBalances(ctx context.Context, userId uuid.UUID) (map[string]int, bool) {
	if s.rdb == nil {
		return nil, false
	}
	raw, err := s.rdb.Get(ctx, s.cacheKey(userId)).Result()
	if err != nil {
		return nil, false
	}
	var balances map[string]int
	if err := json.Unmarshal([]byte(raw), &balances); err != nil {
		return nil, false
	}
	return balances, true
}

func (s *creditService) cacheBalances(ctx context.Context, userId uuid.UUID, balances map[string]int) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(balances)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, s.cacheKey(userId), raw, balanceCacheTTL).Err(); err != nil {
		s.logger.Warn("CreditService", "failed to cache balances", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *creditService) invalidateCache(ctx context.Context, userId uuid.UUID) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, s.cacheKey(userId)).Err(); err != nil {
		s.logger.Warn("CreditService", "failed to invalidate balance cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
