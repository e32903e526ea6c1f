// Package errors provides the structured error type shared by the listing
// endpoint, the storage backends and the image sources. Errors carry a
// machine-readable code, an HTTP status and a retryable flag.
package errors
