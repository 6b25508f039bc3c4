package fetcher

import (
	"time"

	"golang.org/x/time/rate"
)

// NewLimiter returns a limiter that lets one request through per delay.
// The first request is not delayed. A zero or negative delay never waits.
func NewLimiter(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}
