package sms

import (
	"context"

	"snochat-be/internal/pkg/logger"
)

// ISender delivers a verification code to a phone number.
type ISender interface {
	SendVerificationCode(ctx context.Context, phone, code string) error
}

// LogSender writes the code to the application log instead of sending it.
// Used in development and anywhere no SMS gateway is configured.
type LogSender struct {
	logger logger.ILogger
}

func NewLogSender(l logger.ILogger) *LogSender {
	return &LogSender{logger: l}
}

func (s *LogSender) SendVerificationCode(ctx context.Context, phone, code string) error {
	s.logger.Info("SmsSender", "verification code issued", map[string]interface{}{
		"phone": phone,
		"code":  code,
	})
	return nil
}
