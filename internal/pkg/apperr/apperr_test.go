package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestHasCode(t *testing.T) {
	err := InsufficientCredit("not enough sno credits")

	if !HasCode(err, CodeInsufficientCredit) {
		t.Error("expected insufficient_credit code")
	}
	if HasCode(err, CodeNotFound) {
		t.Error("unexpected not_found match")
	}

	wrapped := fmt.Errorf("send chat: %w", err)
	if !HasCode(wrapped, CodeInsufficientCredit) {
		t.Error("expected code to survive wrapping")
	}

	if HasCode(errors.New("plain"), CodeInternal) {
		t.Error("plain errors carry no code")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Storage("failed to load session", cause)

	if !errors.Is(err, cause) {
		t.Error("expected cause in the chain")
	}

	ae, ok := As(fmt.Errorf("outer: %w", err))
	if !ok {
		t.Fatal("expected *Error in the chain")
	}
	if ae.Status != 500 {
		t.Errorf("Status = %d, want 500", ae.Status)
	}
}
