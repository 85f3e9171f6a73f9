package transactionvalidator

import (
	"sync"
	"time"
)

// FeeRateLimiter is a token bucket permitting a bounded number of
// below-floor-fee transactions per unit time (spec §3, §4.8). The
// tokenization policy is per-process, not per-peer; a single mutex over
// the state is acceptable since holders never await (spec §5).
type FeeRateLimiter struct {
	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
	capacity   float64
	refillRate float64 // tokens per second
}

// NewFeeRateLimiter returns a FeeRateLimiter with the given capacity and
// refill rate (tokens/second), starting full.
func NewFeeRateLimiter(capacity, refillRate float64) *FeeRateLimiter {
	return &FeeRateLimiter{
		tokens:     capacity,
		lastRefill: time.Now(),
		capacity:   capacity,
		refillRate: refillRate,
	}
}

// CheckRateLimit refills tokens proportional to the elapsed time since
// the last call, then deducts one token and reports true if the bucket
// had at least one token available. now is accepted explicitly so
// callers (and tests) control the clock.
func (l *FeeRateLimiter) CheckRateLimit(now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	elapsed := now.Sub(l.lastRefill).Seconds()
	if elapsed > 0 {
		l.tokens += elapsed * l.refillRate
		if l.tokens > l.capacity {
			l.tokens = l.capacity
		}
		l.lastRefill = now
	}

	if l.tokens < 1 {
		return false
	}
	l.tokens--
	return true
}
