package infra

import (
	"golang.org/x/time/rate"
)

// --- Rate limiter ---

// PerSecond creates a token-bucket limiter allowing n events per second
// with a burst of n. Each WebSocket client gets its own. n < 1 means 1.
func PerSecond(n int) *rate.Limiter {
	if n < 1 {
		n = 1
	}
	return rate.NewLimiter(rate.Limit(n), n)
}
