package downloader

import "time"

// RateLimiter spaces out sequential downloads so the image hosts are not
// hammered. Call Wait before each operation and Stop when done.
type RateLimiter struct {
	ticker   *time.Ticker
	interval time.Duration
}

// NewRateLimiter creates a rate limiter ticking at the given interval.
func NewRateLimiter(interval time.Duration) *RateLimiter {
	return &RateLimiter{
		ticker:   time.NewTicker(interval),
		interval: interval,
	}
}

// Wait blocks until the next tick.
func (rl *RateLimiter) Wait() {
	<-rl.ticker.C
}

// Stop releases the underlying ticker.
func (rl *RateLimiter) Stop() {
	rl.ticker.Stop()
}
