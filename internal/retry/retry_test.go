package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{"nil", nil, ClassFatal},
		{"rate limit text", errors.New("Rate limit exceeded, slow down"), ClassRateLimited},
		{"quota", errors.New("quota exhausted for project"), ClassRateLimited},
		{"http 429", errors.New("googleapi: Error 429: too many requests"), ClassRateLimited},
		{"resource exhausted", errors.New("rpc error: RESOURCE EXHAUSTED"), ClassRateLimited},
		{"timeout", errors.New("request timeout after 30s"), ClassTransient},
		{"connection refused text", errors.New("connection refused"), ClassTransient},
		{"http 503", errors.New("503 service unavailable"), ClassTransient},
		{"server error", errors.New("internal server error"), ClassTransient},
		{"context deadline", context.DeadlineExceeded, ClassTransient},
		{"wrapped deadline", fmt.Errorf("call failed: %w", context.DeadlineExceeded), ClassTransient},
		{"auth failure", errors.New("API key is invalid"), ClassFatal},
		{"unknown model", errors.New("model not found"), ClassFatal},
		{"garbage", errors.New("something odd happened"), ClassFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

// Rate-limit classification wins even when transient markers are present.
func TestClassifyRateLimitPriority(t *testing.T) {
	err := errors.New("server error: rate limit exceeded")
	if got := Classify(err); got != ClassRateLimited {
		t.Errorf("expected ClassRateLimited, got %v", got)
	}
}

// newTestPolicy returns a policy with instantaneous sleeps and fixed jitter.
func newTestPolicy(maxRetries int) (*Policy, *[]time.Duration) {
	sleeps := &[]time.Duration{}
	p := New(maxRetries, time.Second, 60*time.Second)
	p.sleep = func(ctx context.Context, d time.Duration) error {
		*sleeps = append(*sleeps, d)
		return nil
	}
	p.randFloat = func() float64 { return 0.5 } // midpoint: factor 1.0 for both classes
	return p, sleeps
}

func TestDoSucceedsFirstTry(t *testing.T) {
	p, sleeps := newTestPolicy(3)
	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 || len(*sleeps) != 0 {
		t.Errorf("expected 1 call and no sleeps, got %d calls, %d sleeps", calls, len(*sleeps))
	}
}

func TestDoExactlyMaxRetriesPlusOneAttempts(t *testing.T) {
	p, _ := newTestPolicy(3)
	calls := 0
	permanent := errors.New("connection reset by peer network failure")
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return permanent
	})
	if calls != 4 {
		t.Errorf("expected exactly 4 attempts with maxRetries=3, got %d", calls)
	}
	if !errors.Is(err, permanent) {
		t.Errorf("expected last error surfaced unchanged, got %v", err)
	}
}

func TestDoFatalNotRetried(t *testing.T) {
	p, sleeps := newTestPolicy(3)
	calls := 0
	fatal := errors.New("API key not valid")
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return fatal
	})
	if calls != 1 {
		t.Errorf("fatal errors must not be retried, got %d attempts", calls)
	}
	if len(*sleeps) != 0 {
		t.Errorf("expected no backoff sleeps, got %v", *sleeps)
	}
	if !errors.Is(err, fatal) {
		t.Errorf("expected fatal error surfaced, got %v", err)
	}
}

func TestDoRecoversAfterTransientFailures(t *testing.T) {
	p, sleeps := newTestPolicy(3)
	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("network unreachable")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 || len(*sleeps) != 2 {
		t.Errorf("expected 3 calls with 2 sleeps, got %d calls, %d sleeps", calls, len(*sleeps))
	}
}

func TestDoNegativeRetriesSingleAttempt(t *testing.T) {
	p, _ := newTestPolicy(-5)
	calls := 0
	p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errors.New("timeout")
	})
	if calls != 1 {
		t.Errorf("negative retry budget should mean one attempt, got %d", calls)
	}
}

func TestDoSleepHonorsContextCancellation(t *testing.T) {
	p := New(3, time.Hour, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := p.Do(ctx, func(ctx context.Context) error {
		calls++
		return errors.New("timeout")
	})
	if calls != 1 {
		t.Errorf("expected sleep to abort after first attempt, got %d calls", calls)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRateLimitBaseDelaySequence(t *testing.T) {
	p := New(10, time.Second, 60*time.Second)

	want := []time.Duration{
		60 * time.Second,
		120 * time.Second,
		240 * time.Second,
		480 * time.Second,
		600 * time.Second, // capped
		600 * time.Second,
	}
	for attempt, d := range want {
		if got := p.baseDelay(ClassRateLimited, attempt); got != d {
			t.Errorf("attempt %d: baseDelay = %v, want %v", attempt, got, d)
		}
	}
}

func TestTransientBaseDelaySequence(t *testing.T) {
	p := New(10, time.Second, 60*time.Second)

	want := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		32 * time.Second,
		60 * time.Second, // capped
	}
	for attempt, d := range want {
		if got := p.baseDelay(ClassTransient, attempt); got != d {
			t.Errorf("attempt %d: baseDelay = %v, want %v", attempt, got, d)
		}
	}
}

func TestBaseDelayHugeAttemptDoesNotOverflow(t *testing.T) {
	p := New(1000, time.Second, 60*time.Second)
	if got := p.baseDelay(ClassTransient, 500); got != 60*time.Second {
		t.Errorf("expected cap at 60s for huge attempt, got %v", got)
	}
}

func TestDelayJitterBounds(t *testing.T) {
	p := New(3, time.Second, 60*time.Second)
	for _, r := range []float64{0, 0.25, 0.5, 0.75, 1} {
		r := r
		p.randFloat = func() float64 { return r }

		d := p.delay(ClassTransient, 0)
		if d < 500*time.Millisecond || d > 1500*time.Millisecond {
			t.Errorf("transient jitter out of [0.5s, 1.5s]: %v (rand=%v)", d, r)
		}

		d = p.delay(ClassRateLimited, 0)
		if d < 48*time.Second || d > 72*time.Second {
			t.Errorf("rate-limit jitter out of [48s, 72s]: %v (rand=%v)", d, r)
		}
	}
}

func TestDoOnRetryCallback(t *testing.T) {
	p, _ := newTestPolicy(2)

	type retryEvent struct {
		attempt int
		class   Class
	}
	var events []retryEvent
	p.OnRetry = func(attempt int, class Class, wait time.Duration, err error) {
		events = append(events, retryEvent{attempt, class})
	}

	calls := 0
	p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("rate limit hit")
		}
		return errors.New("timeout")
	})

	if len(events) != 2 {
		t.Fatalf("expected 2 retry events, got %d", len(events))
	}
	if events[0] != (retryEvent{1, ClassRateLimited}) {
		t.Errorf("unexpected first event %+v", events[0])
	}
	if events[1] != (retryEvent{2, ClassTransient}) {
		t.Errorf("unexpected second event %+v", events[1])
	}
}
