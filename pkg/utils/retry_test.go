package utils

import (
	"errors"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	errBoom := errors.New("boom")
	errSkip := errors.New("not found")

	cfg := RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, Multiplier: 2}

	t.Run("succeeds on second attempt", func(t *testing.T) {
		calls := 0
		err := Retry(cfg, func() error {
			calls++
			if calls < 2 {
				return errBoom
			}
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if calls != 2 {
			t.Errorf("expected 2 calls, got %d", calls)
		}
	})

	t.Run("returns last error after exhausting attempts", func(t *testing.T) {
		calls := 0
		err := Retry(cfg, func() error {
			calls++
			return errBoom
		})
		if !errors.Is(err, errBoom) {
			t.Fatalf("expected %v, got %v", errBoom, err)
		}
		if calls != 3 {
			t.Errorf("expected 3 calls, got %d", calls)
		}
	})

	t.Run("skip errors are not retried", func(t *testing.T) {
		calls := 0
		err := Retry(cfg, func() error {
			calls++
			return errSkip
		}, errSkip)
		if !errors.Is(err, errSkip) {
			t.Fatalf("expected %v, got %v", errSkip, err)
		}
		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
	})
}
