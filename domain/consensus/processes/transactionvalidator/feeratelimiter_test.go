package transactionvalidator

import (
	"testing"
	"time"
)

func TestFeeRateLimiterStartsFull(t *testing.T) {
	l := NewFeeRateLimiter(3, 1)
	now := time.Now()
	for i := 0; i < 3; i++ {
		if !l.CheckRateLimit(now) {
			t.Fatalf("token %d should have been available from a full bucket", i)
		}
	}
	if l.CheckRateLimit(now) {
		t.Error("bucket should be exhausted after capacity tokens are consumed")
	}
}

func TestFeeRateLimiterRefills(t *testing.T) {
	l := NewFeeRateLimiter(1, 1) // 1 token/sec
	now := time.Now()
	if !l.CheckRateLimit(now) {
		t.Fatal("first token should be available")
	}
	if l.CheckRateLimit(now) {
		t.Fatal("bucket should be empty immediately after spending its only token")
	}
	if !l.CheckRateLimit(now.Add(2 * time.Second)) {
		t.Error("bucket should have refilled after 2 seconds at 1 token/sec")
	}
}

func TestFeeRateLimiterRefillCapsAtCapacity(t *testing.T) {
	l := NewFeeRateLimiter(2, 100)
	now := time.Now()
	l.CheckRateLimit(now)
	l.CheckRateLimit(now)
	// A long idle period should not let tokens accumulate past capacity.
	later := now.Add(time.Hour)
	if !l.CheckRateLimit(later) {
		t.Fatal("expected a token after refill")
	}
	if !l.CheckRateLimit(later) {
		t.Fatal("expected a second token after refill")
	}
	if l.CheckRateLimit(later) {
		t.Error("bucket should not exceed its capacity of 2 even after a long idle period")
	}
}
