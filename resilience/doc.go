// Package resilience provides the fault-tolerance primitives used by the
// HTTP clients and the slideshow rotator: retry with exponential backoff,
// a circuit breaker and a token-bucket rate limiter.
//
//	err := resilience.RetryFunc(ctx, resilience.RetryConfig{MaxAttempts: 4}, func() error {
//	    return preload(ctx, url)
//	})
package resilience
