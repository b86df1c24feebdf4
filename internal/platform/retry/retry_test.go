package retry

import (
	"context"
	"fmt"
	"testing"
	"time"

	apperrors "github.com/sandlotlabs/dugout/internal/platform/errors"
)

func fastPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
		Jitter:      0,
		Timeout:     time.Second,
	}
}

func TestDoRetriesTransientFailures(t *testing.T) {
	calls := 0
	v, err := Do(context.Background(), fastPolicy(), func() (string, error) {
		calls++
		if calls < 3 {
			return "", fmt.Errorf("transient failure %d", calls)
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if v != "ok" {
		t.Fatalf("expected %q, got %q", "ok", v)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestDoStopsOnBusinessError(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastPolicy(), func() (int, error) {
		calls++
		return 0, apperrors.New(apperrors.CodeSessionNotWaiting, "game already started")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("business errors must not be retried, got %d attempts", calls)
	}
	if apperrors.CodeOf(err) != apperrors.CodeSessionNotWaiting {
		t.Fatalf("expected domain code to survive the policy, got %v", apperrors.CodeOf(err))
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastPolicy(), func() (int, error) {
		calls++
		return 0, fmt.Errorf("still failing")
	})
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestDoVoid(t *testing.T) {
	calls := 0
	err := DoVoid(context.Background(), fastPolicy(), func() error {
		calls++
		if calls == 1 {
			return fmt.Errorf("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
}
