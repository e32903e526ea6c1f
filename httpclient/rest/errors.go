package rest

import "github.com/kbukum/slideshow/httpclient"

// Convenience re-exports of httpclient's error classification.

func IsNotFound(err error) bool  { return httpclient.IsNotFound(err) }
func IsAuth(err error) bool      { return httpclient.IsAuth(err) }
func IsRateLimit(err error) bool { return httpclient.IsRateLimit(err) }
func IsRetryable(err error) bool { return httpclient.IsRetryable(err) }
