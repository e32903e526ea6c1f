package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Availability errors (retryable)
const (
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeTimeout            ErrorCode = "TIMEOUT"
	ErrCodeRateLimited        ErrorCode = "RATE_LIMITED"
)

// Request errors
const (
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeInvalidInput     ErrorCode = "INVALID_INPUT"
	ErrCodeInvalidPrefix    ErrorCode = "INVALID_PREFIX"
	ErrCodeUnsupportedMedia ErrorCode = "UNSUPPORTED_MEDIA"
)

// Gallery errors
const (
	// ErrCodeEmptyGallery indicates a source yielded no displayable images.
	ErrCodeEmptyGallery ErrorCode = "EMPTY_GALLERY"
	// ErrCodePreloadFailed indicates an image could not be fetched or decoded.
	ErrCodePreloadFailed ErrorCode = "PRELOAD_FAILED"
)

// Internal errors
const (
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
	ErrCodeStorage         ErrorCode = "STORAGE_ERROR"
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable: true,
	ErrCodeTimeout:            true,
	ErrCodeRateLimited:        true,
	ErrCodeStorage:            true,
	ErrCodeExternalService:    true,
	ErrCodePreloadFailed:      true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
