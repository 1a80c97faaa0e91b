package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"snochat-be/internal/config"
	"snochat-be/internal/constant"
	"snochat-be/internal/dto"
	"snochat-be/internal/entity"
	"snochat-be/internal/pkg/apperr"
	"snochat-be/internal/pkg/logger"
	"snochat-be/internal/repository/specification"
	"snochat-be/internal/repository/unitofwork"
	"snochat-be/pkg/ai"

	"github.com/google/uuid"
)

type IChatService interface {
	SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	CreateSession(ctx context.Context, userId uuid.UUID, request *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error)
	GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	RenameSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, title string) error
	DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
}

// sessionTarget is the resolved form of the request's session_id field:
// either an existing session or a fresh one named from the first message.
type sessionTarget struct {
	existingId uuid.UUID
	autoCreate bool
	titleHint  string
}

type chatService struct {
	uowFactory    unitofwork.RepositoryFactory
	provider      ai.Provider
	creditService ICreditService
	creditCfg     config.CreditConfig
	logger        logger.ILogger

	// sleep is swapped out in tests to observe backoff without waiting.
	sleep func(time.Duration)
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	provider ai.Provider,
	creditService ICreditService,
	creditCfg config.CreditConfig,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:    uowFactory,
		provider:      provider,
		creditService: creditService,
		creditCfg:     creditCfg,
		logger:        log,
		sleep:         time.Sleep,
	}
}

func (cs *chatService) SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	text := strings.TrimSpace(request.Message)
	attachmentSummary := strings.TrimSpace(request.AttachmentSummary)

	if text == "" && attachmentSummary == "" {
		return nil, apperr.Validation("message must contain text or an attachment")
	}
	if utf8.RuneCountInString(text) > cs.creditCfg.MaxChatLength {
		return nil, apperr.Validation("message is too long")
	}

	target, err := cs.resolveTarget(request.SessionId, text, attachmentSummary)
	if err != nil {
		return nil, err
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	var session *entity.ChatSession
	if !target.autoCreate {
		session, err = uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: target.existingId})
		if err != nil {
			return nil, apperr.Storage("failed to load session", err)
		}
		if session == nil {
			return nil, apperr.NotFound("session not found")
		}
		if session.UserId != userId {
			return nil, apperr.Authorization("session belongs to another user")
		}

		count, err := uow.ChatMessageRepository().Count(ctx,
			specification.ByChatSessionID{ChatSessionID: session.Id},
		)
		if err != nil {
			return nil, apperr.Storage("failed to count messages", err)
		}
		if count >= int64(cs.creditCfg.SessionMessageLimit) {
			return nil, apperr.MessageLimitReached("session message limit reached")
		}
	}

	// Balance gate before anything is written. The actual spend happens
	// after the reply is stored, so a crash in between leaves the user
	// uncharged rather than charged for nothing.
	balance, err := cs.creditService.GetBalance(ctx, userId, constant.ServiceChat)
	if err != nil {
		return nil, err
	}
	if balance < constant.CreditCostPerExchange {
		return nil, apperr.InsufficientCredit("not enough chat credits")
	}

	// History is read before the new message is written so the provider
	// call can fold in the attachment annotation without re-querying.
	var history []ai.Message
	if session != nil {
		prior, err := uow.ChatMessageRepository().FindAll(ctx,
			specification.ByChatSessionID{ChatSessionID: session.Id},
			specification.MessagesChronological{},
		)
		if err != nil {
			return nil, apperr.Storage("failed to load history", err)
		}
		history = toProviderHistory(prior)
	}

	providerText := foldAttachment(text, attachmentSummary)
	history = append(history, ai.Message{Role: constant.ProviderRoleUser, Content: providerText})

	now := time.Now()
	if session == nil {
		session = &entity.ChatSession{
			Id:        uuid.New(),
			UserId:    userId,
			Title:     target.titleHint,
			CreatedAt: now,
		}
		if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
			return nil, apperr.Storage("failed to create session", err)
		}
	}

	storedText := text
	if storedText == "" {
		storedText = constant.StoredImagePlaceholder
	}

	userMessage := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		SenderType:    constant.ChatSenderUser,
		Content:       storedText,
		CreatedAt:     now,
	}
	if request.AttachmentPath != "" {
		userMessage.Attachment = &entity.Attachment{
			Path: request.AttachmentPath,
		}
	}
	if attachmentSummary != "" {
		userMessage.AttachmentSummary = &attachmentSummary
	}

	// The user turn is stored before the provider call. If the provider
	// fails, the orphaned message stays; that is the accepted tradeoff
	// over losing user input.
	if err := uow.ChatMessageRepository().Create(ctx, &userMessage); err != nil {
		return nil, apperr.Storage("failed to store message", err)
	}

	reply, err := cs.converseWithRetry(ctx, history)
	if err != nil {
		return nil, err
	}

	assistantMessage := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		SenderType:    constant.ChatSenderAssistant,
		Content:       reply,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, &assistantMessage); err != nil {
		return nil, apperr.Storage("failed to store reply", err)
	}

	sessionId := session.Id
	remaining, err := cs.creditService.Deduct(ctx, userId, constant.ServiceChat,
		constant.CreditCostPerExchange, &sessionId, "chat exchange")
	if err != nil {
		return nil, err
	}

	// Best effort; a stale updated_at only affects list ordering.
	if err := uow.ChatSessionRepository().Touch(ctx, session.Id); err != nil {
		cs.logger.Warn("ChatService", "failed to touch session", map[string]interface{}{
			"session_id": session.Id.String(),
			"error":      err.Error(),
		})
	}

	return &dto.SendChatResponse{
		SessionId:        session.Id,
		Title:            session.Title,
		Reply:            reply,
		RemainingCredits: remaining,
	}, nil
}

func (cs *chatService) resolveTarget(sessionId, text, attachmentSummary string) (sessionTarget, error) {
	if sessionId == constant.AutoSessionSentinel {
		return sessionTarget{
			autoCreate: true,
			titleHint:  deriveTitle(text, attachmentSummary),
		}, nil
	}

	id, err := uuid.Parse(sessionId)
	if err != nil {
		return sessionTarget{}, apperr.Validation("session_id must be a UUID or \"auto\"")
	}
	return sessionTarget{existingId: id}, nil
}

// deriveTitle names a fresh session from its first message. Long text is
// cut at a fixed prefix; image-only messages get a fixed title.
func deriveTitle(text, attachmentSummary string) string {
	if text == "" {
		if attachmentSummary != "" {
			return constant.AutoTitleImageOnly
		}
		return constant.AutoTitleDefault
	}
	runes := []rune(text)
	if len(runes) <= constant.AutoTitlePrefixLen {
		return text
	}
	return string(runes[:constant.AutoTitlePrefixLen]) + constant.AutoTitleEllipsis
}

// foldAttachment merges the extracted image content into the text the
// provider sees. The stored message keeps the user's original words.
func foldAttachment(text, attachmentSummary string) string {
	if attachmentSummary == "" {
		return text
	}
	if text == "" {
		return fmt.Sprintf(constant.AttachmentAnnotationFormat, attachmentSummary)
	}
	return fmt.Sprintf(constant.AttachmentAnnotationWithTextFormat, attachmentSummary, text)
}

func toProviderHistory(messages []*entity.ChatMessage) []ai.Message {
	history := make([]ai.Message, 0, len(messages))
	for _, msg := range messages {
		role := constant.ProviderRoleUser
		if msg.SenderType == constant.ChatSenderAssistant {
			role = constant.ProviderRoleModel
		}
		content := msg.Content
		if msg.AttachmentSummary != nil {
			content = foldAttachment(msg.Content, *msg.AttachmentSummary)
		}
		history = append(history, ai.Message{Role: role, Content: content})
	}
	return history
}

// converseWithRetry calls the provider, retrying only transient overloads.
// Backoff grows linearly: 2s, then 4s, then the final attempt.
func (cs *chatService) converseWithRetry(ctx context.Context, history []ai.Message) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= constant.AiMaxRetries; attempt++ {
		reply, err := cs.provider.Converse(ctx, history)
		if err == nil {
			if strings.TrimSpace(reply) == "" {
				return "", apperr.AiFailure("provider returned an empty reply", nil)
			}
			return reply, nil
		}

		if !ai.IsOverloaded(err) {
			return "", mapProviderError(err)
		}

		lastErr = err
		if attempt < constant.AiMaxRetries {
			wait := time.Duration(attempt) * constant.AiRetryBaseWait
			cs.logger.Warn("ChatService", "provider overloaded, retrying", map[string]interface{}{
				"attempt": attempt,
				"wait":    wait.String(),
			})
			cs.sleep(wait)
		}
	}
	return "", apperr.AiOverloaded("provider is overloaded", lastErr)
}

func mapProviderError(err error) error {
	switch ai.CategoryOf(err) {
	case ai.CategoryAuth:
		return apperr.AiConfig("provider rejected the configured key", err)
	case ai.CategoryRateLimit:
		return apperr.AiRateLimit("provider rate limit hit", err)
	case ai.CategoryQuota:
		return apperr.AiQuota("provider quota exhausted", err)
	case ai.CategoryOverloaded:
		return apperr.AiOverloaded("provider is overloaded", err)
	default:
		return apperr.AiFailure("provider call failed", err)
	}
}

func (cs *chatService) CreateSession(ctx context.Context, userId uuid.UUID, request *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	title := strings.TrimSpace(request.Title)
	if title == "" {
		return nil, apperr.Validation("title must not be empty")
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session := &entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     title,
		CreatedAt: time.Now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, apperr.Storage("failed to create session", err)
	}

	return &dto.CreateSessionResponse{
		Id:        session.Id,
		Title:     session.Title,
		CreatedAt: session.CreatedAt,
	}, nil
}

func (cs *chatService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.SessionsByRecency{},
	)
	if err != nil {
		return nil, apperr.Storage("failed to list sessions", err)
	}

	response := make([]*dto.GetAllSessionsResponse, 0, len(sessions))
	for _, s := range sessions {
		response = append(response, &dto.GetAllSessionsResponse{
			Id:        s.Id,
			Title:     s.Title,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		})
	}
	return response, nil
}

func (cs *chatService) GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := cs.ownedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: session.Id},
		specification.MessagesChronological{},
	)
	if err != nil {
		return nil, apperr.Storage("failed to load history", err)
	}

	response := make([]*dto.GetChatHistoryResponse, 0, len(messages))
	for _, msg := range messages {
		item := &dto.GetChatHistoryResponse{
			Id:                msg.Id,
			Sender:            msg.SenderType,
			Message:           msg.Content,
			AttachmentSummary: msg.AttachmentSummary,
			CreatedAt:         msg.CreatedAt,
		}
		if msg.Attachment != nil {
			item.Attachment = &dto.AttachmentDTO{
				Path:     msg.Attachment.Path,
				MimeType: msg.Attachment.MimeType,
			}
		}
		response = append(response, item)
	}
	return response, nil
}

func (cs *chatService) RenameSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, title string) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := cs.ownedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return err
	}

	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return apperr.Validation("title must not be empty")
	}
	session.Title = trimmed
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return apperr.Storage("failed to rename session", err)
	}
	return nil
}

func (cs *chatService) DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := cs.ownedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return err
	}

	if err := uow.ChatSessionRepository().Delete(ctx, session.Id); err != nil {
		return apperr.Storage("failed to delete session", err)
	}
	return nil
}

// ownedSession loads a live session and enforces ownership. Soft-deleted
// sessions are invisible here, so they fail closed as not found.
func (cs *chatService) ownedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, apperr.Storage("failed to load session", err)
	}
	if session == nil {
		return nil, apperr.NotFound("session not found")
	}
	if session.UserId != userId {
		return nil, apperr.Authorization("session belongs to another user")
	}
	return session, nil
}
