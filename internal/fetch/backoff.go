package fetch

import "time"

// BackoffFunc maps a zero-indexed attempt number to the wait before the
// next attempt.
type BackoffFunc func(attempt int) time.Duration

// Exponential doubles the base per attempt: base, 2*base, 4*base, ...
func Exponential(base time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		return base << uint(attempt)
	}
}
