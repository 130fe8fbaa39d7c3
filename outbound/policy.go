package outbound

import (
	"math"
	"time"
)

/* Policy configures the retry loop
 * Defaults mirror the dispatch contract: 3 attempts total, 10s per
 * attempt, exponential backoff base*2^(attempt-1) giving 1s then 2s
 */
type Policy struct {
	MaxAttempts    int
	AttemptTimeout time.Duration
	BaseDelay      time.Duration
	MaxDelay       time.Duration
	Multiplier     float64

	/* StopOnClientError makes non-429 4xx responses terminal instead of
	 * retried. Off by default: the baseline behavior retries every
	 * non-2xx status
	 */
	StopOnClientError bool
}

// DefaultPolicy returns the default retry policy
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    3,
		AttemptTimeout: 10 * time.Second,
		BaseDelay:      1 * time.Second,
		MaxDelay:       30 * time.Second,
		Multiplier:     2.0,
	}
}

// withDefaults fills zero values so a partially built policy stays sane
func (p Policy) withDefaults() Policy {
	def := DefaultPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = def.MaxAttempts
	}
	if p.AttemptTimeout <= 0 {
		p.AttemptTimeout = def.AttemptTimeout
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = def.BaseDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = def.MaxDelay
	}
	if p.Multiplier <= 1.0 {
		p.Multiplier = def.Multiplier
	}
	return p
}

// NextDelay calculates the backoff delay after the given 1-based attempt
func (p Policy) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		return p.BaseDelay
	}

	delay := float64(p.BaseDelay) * math.Pow(p.Multiplier, float64(attempt-1))
	if delay > float64(p.MaxDelay) {
		return p.MaxDelay
	}
	return time.Duration(delay)
}

// ShouldRetry reports whether another attempt may follow the given one
func (p Policy) ShouldRetry(attempt int, status *int) bool {
	if attempt >= p.MaxAttempts {
		return false
	}
	if p.StopOnClientError && status != nil {
		if *status >= 400 && *status < 500 && *status != 429 {
			return false
		}
	}
	return true
}
