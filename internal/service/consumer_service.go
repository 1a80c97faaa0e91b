package service

import (
	"context"
	"encoding/json"

	"snochat-be/internal/dto"
	"snochat-be/internal/entity"
	"snochat-be/internal/pkg/logger"
	"snochat-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the credit audit topic and persists one
// transaction row per balance mutation. Runs for the process lifetime.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.CreditAuditMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "failed to unmarshal audit message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	notes := payload.Notes
	transaction := entity.CreditTransaction{
		Id:        uuid.New(),
		UserId:    payload.UserId,
		Type:      entity.CreditTransactionType(payload.Type),
		Service:   payload.Service,
		Amount:    payload.Amount,
		RelatedId: payload.RelatedId,
		CreatedAt: payload.OccurredAt,
	}
	if notes != "" {
		transaction.Notes = &notes
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.CreditTransactionRepository().Create(ctx, &transaction); err != nil {
		cs.logger.Error("ConsumerService", "failed to persist audit row", map[string]interface{}{
			"user_id": payload.UserId.String(),
			"error":   err.Error(),
		})
		msg.Nack() // Nack for retriable errors
		return
	}

	msg.Ack()
}
