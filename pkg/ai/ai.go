package ai

import (
	"context"
	"errors"
	"fmt"
)

// Message is one turn of a conversation handed to the provider.
type Message struct {
	Role    string // "user" or "model"
	Content string
}

// Provider is the upstream AI contract. Implementations translate their
// own failure modes into *ProviderError so callers can branch on category.
type Provider interface {
	Converse(ctx context.Context, history []Message) (string, error)
	DescribeImage(ctx context.Context, data []byte, mimeType string) (string, error)
}

type ErrorCategory string

const (
	CategoryAuth       ErrorCategory = "auth"
	CategoryRateLimit  ErrorCategory = "rate_limit"
	CategoryQuota      ErrorCategory = "quota"
	CategoryOverloaded ErrorCategory = "overloaded"
	CategoryGeneric    ErrorCategory = "generic"
)

type ProviderError struct {
	Category ErrorCategory
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ai provider: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("ai provider: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsOverloaded reports whether err is a transient overload worth retrying.
func IsOverloaded(err error) bool {
	return categoryOf(err) == CategoryOverloaded
}

func CategoryOf(err error) ErrorCategory {
	return categoryOf(err)
}

func categoryOf(err error) ErrorCategory {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Category
	}
	return CategoryGeneric
}
