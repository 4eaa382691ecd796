// Package retry classifies model-call failures and drives re-invocation with
// exponential backoff. Rate-limit failures get a longer, more conservative
// schedule than ordinary transient failures; anything else is fatal and
// surfaces immediately.
//
// Classification leans on typed checks (net.Error timeouts, context
// deadlines, connection syscall errors) where Go makes them available, but
// the substring markers below are part of the contract: provider SDKs wrap
// HTTP failures into message text, and those messages are the only signal
// for several failure modes.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"strings"
	"syscall"
	"time"
)

// Class is the retry classification of one failure.
type Class int

const (
	// ClassFatal failures are never retried (auth errors, unknown models,
	// malformed requests).
	ClassFatal Class = iota
	// ClassTransient failures (network, timeout, 5xx) retry on the standard
	// schedule.
	ClassTransient
	// ClassRateLimited failures retry on the long schedule.
	ClassRateLimited
)

func (c Class) String() string {
	switch c {
	case ClassTransient:
		return "transient"
	case ClassRateLimited:
		return "rate_limited"
	default:
		return "fatal"
	}
}

// Backoff caps. Transient retries stay tight; rate-limit retries back off
// for up to ten minutes.
const (
	transientMaxDelay = 60 * time.Second
	rateLimitMaxDelay = 600 * time.Second

	// Jitter multiplier ranges, drawn uniformly.
	transientJitterLow  = 0.5
	transientJitterHigh = 1.5
	rateLimitJitterLow  = 0.8
	rateLimitJitterHigh = 1.2
)

var rateLimitMarkers = []string{
	"rate limit", "quota", "429", "resource exhausted",
}

var transientMarkers = []string{
	"timeout", "connection", "network", "server error",
	"internal error", "service unavailable", "500", "502", "503", "504",
}

// Classify assigns a retry class to a failure. Rate-limit markers win over
// transient ones; unrecognized failures are fatal.
func Classify(err error) Class {
	if err == nil {
		return ClassFatal
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return ClassRateLimited
		}
	}

	if isNetworkError(err) {
		return ClassTransient
	}
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return ClassTransient
		}
	}

	return ClassFatal
}

func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE)
}

// Policy drives retried invocations. The zero value is not usable; construct
// with New. Policies are safe to reuse across calls but not across
// goroutines (the batch pipeline is single-threaded by design).
type Policy struct {
	// MaxRetries is the number of retries after the initial attempt.
	// Negative values behave as zero.
	MaxRetries int
	// RetryBase is the transient backoff base (default 1s).
	RetryBase time.Duration
	// RateLimitBase is the rate-limit backoff base (default 60s).
	RateLimitBase time.Duration
	// OnRetry, when set, is called before each backoff sleep.
	OnRetry func(attempt int, class Class, wait time.Duration, err error)

	sleep     func(ctx context.Context, d time.Duration) error
	randFloat func() float64
}

// New returns a Policy with the given retry budget and backoff bases.
// Non-positive bases fall back to the defaults (1s transient, 60s
// rate-limit).
func New(maxRetries int, retryBase, rateLimitBase time.Duration) *Policy {
	if retryBase <= 0 {
		retryBase = time.Second
	}
	if rateLimitBase <= 0 {
		rateLimitBase = 60 * time.Second
	}
	return &Policy{
		MaxRetries:    maxRetries,
		RetryBase:     retryBase,
		RateLimitBase: rateLimitBase,
		sleep:         sleepContext,
		randFloat:     rand.Float64,
	}
}

// Do invokes op until it succeeds, fails fatally, or the retry budget is
// exhausted, sleeping the classified backoff between attempts. The total
// attempt count is MaxRetries+1. On exhaustion the last observed failure is
// returned unchanged. This is the single point in the pipeline that suspends
// execution between attempts; the sleep honors ctx cancellation.
func (p *Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	retries := p.MaxRetries
	if retries < 0 {
		retries = 0
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		class := Classify(err)
		if class == ClassFatal || attempt == retries {
			break
		}

		wait := p.delay(class, attempt)
		if p.OnRetry != nil {
			p.OnRetry(attempt+1, class, wait, err)
		}
		if err := p.sleep(ctx, wait); err != nil {
			return err
		}
	}
	return lastErr
}

// delay computes the jittered backoff for the given attempt (0-based).
func (p *Policy) delay(class Class, attempt int) time.Duration {
	d := p.baseDelay(class, attempt)

	low, high := transientJitterLow, transientJitterHigh
	if class == ClassRateLimited {
		low, high = rateLimitJitterLow, rateLimitJitterHigh
	}
	factor := low + p.randFloat()*(high-low)
	return time.Duration(float64(d) * factor)
}

// baseDelay is the unjittered exponential backoff: base * 2^attempt, capped
// per class.
func (p *Policy) baseDelay(class Class, attempt int) time.Duration {
	base, maxDelay := p.RetryBase, transientMaxDelay
	if class == ClassRateLimited {
		base, maxDelay = p.RateLimitBase, rateLimitMaxDelay
	}

	shift := attempt
	if shift > 30 {
		shift = 30
	}
	if shift < 0 {
		shift = 0
	}
	d := base << uint(shift)
	if d > maxDelay || d < 0 {
		d = maxDelay
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
