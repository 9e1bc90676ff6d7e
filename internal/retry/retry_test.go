package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/conflictlab/micrag/internal/core/domain"
)

func fastPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
	}
}

func TestDo_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(), func(ctx context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDo_RetriesTransientThenSucceeds(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return fmt.Errorf("embed: %w", domain.ErrRetrievalUnavailable)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(), func(ctx context.Context) error {
		calls++
		return fmt.Errorf("llm: %w", domain.ErrGeneration)
	})
	if !errors.Is(err, domain.ErrGeneration) {
		t.Errorf("expected last error returned, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDo_PermanentErrorNotRetried(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(), func(ctx context.Context) error {
		calls++
		return fmt.Errorf("bad k: %w", domain.ErrInvalidInput)
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected permanent error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDo_ContextCancelledBetweenAttempts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	policy := Policy{MaxAttempts: 5, BaseDelay: 50 * time.Millisecond}
	err := Do(ctx, policy, func(ctx context.Context) error {
		calls++
		cancel()
		return fmt.Errorf("down: %w", domain.ErrRetrievalUnavailable)
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDo_CustomRetryIf(t *testing.T) {
	sentinel := errors.New("flaky")
	calls := 0

	policy := fastPolicy()
	policy.RetryIf = func(err error) bool { return errors.Is(err, sentinel) }

	err := Do(context.Background(), policy, func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return sentinel
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestPolicy_DelayCapped(t *testing.T) {
	p := Policy{BaseDelay: time.Second, MaxDelay: 2 * time.Second}
	if d := p.delay(0); d != time.Second {
		t.Errorf("expected 1s, got %v", d)
	}
	if d := p.delay(5); d != 2*time.Second {
		t.Errorf("expected cap at 2s, got %v", d)
	}
}
