package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"
)

func stubSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var slept []time.Duration
	orig := sleepFunc
	sleepFunc = func(d time.Duration) { slept = append(slept, d) }
	t.Cleanup(func() { sleepFunc = orig })
	return &slept
}

func TestWithRetry_SucceedsAfterFailures(t *testing.T) {
	slept := stubSleep(t)

	calls := 0
	got, err := withRetry(context.Background(), 3, 100*time.Millisecond,
		func(ctx context.Context) (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("transient")
			}
			return "ok", nil
		})

	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if got != "ok" {
		t.Errorf("Expected %q, got %q", "ok", got)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}
	if len(*slept) != len(want) {
		t.Fatalf("Expected %d sleeps, got %v", len(want), *slept)
	}
	for i, d := range want {
		if (*slept)[i] != d {
			t.Errorf("Sleep %d: expected %v, got %v", i, d, (*slept)[i])
		}
	}
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	stubSleep(t)

	wantErr := errors.New("permanent")
	calls := 0
	_, err := withRetry(context.Background(), 3, time.Millisecond,
		func(ctx context.Context) (int, error) {
			calls++
			return 0, wantErr
		})

	if !errors.Is(err, wantErr) {
		t.Errorf("Expected last error returned, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestWithRetry_ContextCancelled(t *testing.T) {
	stubSleep(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := withRetry(ctx, 3, time.Millisecond,
		func(ctx context.Context) (int, error) {
			calls++
			return 0, errors.New("never reached")
		})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Errorf("Expected no calls on cancelled context, got %d", calls)
	}
}

func TestWithRetry_MinimumOneAttempt(t *testing.T) {
	stubSleep(t)

	calls := 0
	got, err := withRetry(context.Background(), 0, time.Millisecond,
		func(ctx context.Context) (string, error) {
			calls++
			return "once", nil
		})

	if err != nil || got != "once" || calls != 1 {
		t.Errorf("Expected exactly one attempt, got calls=%d result=%q err=%v", calls, got, err)
	}
}
