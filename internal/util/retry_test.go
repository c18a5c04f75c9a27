package util

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	tests := []struct {
		name      string
		maxTries  int
		failUntil int
		wantCalls int
		wantErr   bool
	}{
		{"SuccessImmediate", 3, 0, 1, false},
		{"SuccessAfterRetries", 3, 2, 3, false},
		{"PersistentFailure", 3, 10, 3, true},
		{"ZeroTries", 0, 10, 1, true},
		{"NegativeTries", -2, 10, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			got, err := Retry(tt.maxTries, func() (int, error) {
				calls++
				if calls <= tt.failUntil {
					return 0, errors.New("transient")
				}
				return 42, nil
			})
			if calls != tt.wantCalls {
				t.Fatalf("expected %d calls, got %d", tt.wantCalls, calls)
			}
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected nil error, got %v", err)
			}
			if got != 42 {
				t.Fatalf("expected 42, got %d", got)
			}
		})
	}
}

func TestRetryErr_ReturnsLastError(t *testing.T) {
	calls := 0
	err := RetryErr(2, func() error {
		calls++
		if calls == 1 {
			return errors.New("first")
		}
		return errors.New("second")
	})
	if err == nil || err.Error() != "second" {
		t.Fatalf("expected last error 'second', got %v", err)
	}
}

func TestRetryWithContext_CanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := RetryWithContext(ctx, 3, 0, func(context.Context) (int, error) {
		calls++
		return 0, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no calls, got %d", calls)
	}
}

func TestRetryWithContext_DoesNotRetryContextErrors(t *testing.T) {
	calls := 0
	err := RetryErrWithContext(context.Background(), 5, 0, func(context.Context) error {
		calls++
		return context.DeadlineExceeded
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestRetryWithContext_CancelDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	calls := 0
	err := RetryErrWithContext(ctx, 5, time.Hour, func(context.Context) error {
		calls++
		return errors.New("transient")
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call before backoff was interrupted, got %d", calls)
	}
}
