// Package ratelimit provides request pacing for external API calls.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter implements token bucket rate limiting. A nil Limiter allows
// everything, so callers can leave pacing unconfigured.
type Limiter struct {
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	mu         sync.Mutex
}

// New creates a limiter allowing ratePerSec sustained requests with a
// burst of burstSize. Non-positive arguments fall back to 1.
func New(ratePerSec float64, burstSize int) *Limiter {
	if ratePerSec <= 0 {
		ratePerSec = 1
	}
	if burstSize <= 0 {
		burstSize = 1
	}
	return &Limiter{
		tokens:     float64(burstSize),
		maxTokens:  float64(burstSize),
		refillRate: ratePerSec,
		lastRefill: time.Now(),
	}
}

// Allow consumes a token if one is available. On refusal it returns
// the duration until the next token.
func (l *Limiter) Allow() (bool, time.Duration) {
	if l == nil {
		return true, 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(l.lastRefill).Seconds()
	l.tokens += elapsed * l.refillRate
	if l.tokens > l.maxTokens {
		l.tokens = l.maxTokens
	}
	l.lastRefill = now

	if l.tokens >= 1 {
		l.tokens--
		return true, 0
	}

	wait := time.Duration((1 - l.tokens) / l.refillRate * float64(time.Second))
	return false, wait
}

// Wait blocks until a token is available or the context is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	for {
		ok, wait := l.Allow()
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}
