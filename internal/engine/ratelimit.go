package engine

import (
	"context"

	"golang.org/x/time/rate"
)

// hashWindow is how much of a mapped file is fed to the hasher at a time.
const hashWindow = 1 << 20

// NewBWLimiter creates a rate.Limiter that caps aggregate hashing throughput
// to bytesPerSec. The burst is one hash window so unthrottled-size windows
// pass without splitting. Returns nil for a non-positive rate.
func NewBWLimiter(bytesPerSec int64) *rate.Limiter {
	if bytesPerSec <= 0 {
		return nil
	}
	burst := hashWindow
	if bytesPerSec < int64(burst) {
		burst = int(bytesPerSec)
	}
	return rate.NewLimiter(rate.Limit(bytesPerSec), burst)
}

// windowSize returns the largest window that a single WaitN on limiter can
// admit.
func windowSize(limiter *rate.Limiter) int {
	if limiter == nil || limiter.Burst() >= hashWindow {
		return hashWindow
	}
	return max(limiter.Burst(), 1)
}

// throttle blocks until limiter admits n bytes. A nil limiter never blocks.
func throttle(ctx context.Context, limiter *rate.Limiter, n int) error {
	if limiter == nil || n == 0 {
		return nil
	}
	return limiter.WaitN(ctx, n)
}
