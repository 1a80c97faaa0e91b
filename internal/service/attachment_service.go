package service

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"snochat-be/internal/constant"
	"snochat-be/internal/dto"
	"snochat-be/internal/pkg/apperr"
	"snochat-be/internal/pkg/logger"
	"snochat-be/pkg/ai"
	"snochat-be/pkg/storage"

	"github.com/google/uuid"
)

type IAttachmentService interface {
	// UploadImage stores an image, runs it through the vision model, and
	// charges one analysis credit. The returned summary is what the chat
	// endpoint later folds into the conversation.
	UploadImage(ctx context.Context, userId uuid.UUID, filename string, data []byte, mimeType string) (*dto.UploadImageResponse, error)
}

type attachmentService struct {
	store         storage.Store
	provider      ai.Provider
	creditService ICreditService
	logger        logger.ILogger
}

func NewAttachmentService(
	store storage.Store,
	provider ai.Provider,
	creditService ICreditService,
	log logger.ILogger,
) IAttachmentService {
	return &attachmentService{
		store:         store,
		provider:      provider,
		creditService: creditService,
		logger:        log,
	}
}

func (s *attachmentService) UploadImage(ctx context.Context, userId uuid.UUID, filename string, data []byte, mimeType string) (*dto.UploadImageResponse, error) {
	if len(data) == 0 {
		return nil, apperr.Validation("file is empty")
	}
	if len(data) > constant.MaxUploadBytes {
		return nil, apperr.Validation("file exceeds the 10MB limit")
	}

	mimeType = normalizeMime(mimeType, filename)
	if !constant.AllowedUploadMimeTypes[mimeType] {
		return nil, apperr.Validation("unsupported file type")
	}

	balance, err := s.creditService.GetBalance(ctx, userId, constant.ServiceChat)
	if err != nil {
		return nil, err
	}
	if balance < constant.CreditCostPerImageAnalysis {
		return nil, apperr.InsufficientCredit("not enough chat credits")
	}

	summary, err := s.provider.DescribeImage(ctx, data, mimeType)
	if err != nil {
		return nil, mapProviderError(err)
	}
	if strings.TrimSpace(summary) == "" {
		return nil, apperr.AiFailure("provider returned an empty image description", nil)
	}

	key := fmt.Sprintf("%s/%s%s", userId.String(), uuid.NewString(), extensionFor(mimeType, filename))
	path, err := s.store.Put(ctx, key, bytes.NewReader(data), mimeType)
	if err != nil {
		return nil, apperr.Storage("failed to store upload", err)
	}

	remaining, err := s.creditService.Deduct(ctx, userId, constant.ServiceChat,
		constant.CreditCostPerImageAnalysis, nil, "image analysis")
	if err != nil {
		return nil, err
	}

	return &dto.UploadImageResponse{
		Path:             path,
		MimeType:         mimeType,
		Summary:          summary,
		RemainingCredits: remaining,
	}, nil
}

func normalizeMime(mimeType, filename string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if mimeType != "" && mimeType != "application/octet-stream" {
		return mimeType
	}
	if guessed := mime.TypeByExtension(filepath.Ext(filename)); guessed != "" {
		return strings.ToLower(guessed)
	}
	return mimeType
}

func extensionFor(mimeType, filename string) string {
	if ext := filepath.Ext(filename); ext != "" {
		return strings.ToLower(ext)
	}
	switch mimeType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ""
}
