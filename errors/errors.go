package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error.
	Cause error `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Is matches any AppError carrying the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// WithCause sets the underlying cause and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Constructors ---

func ServiceUnavailable(service string) *AppError {
	return &AppError{
		Code: ErrCodeServiceUnavailable, Message: fmt.Sprintf("The %s is temporarily unavailable.", service),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"service": service},
	}
}

func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: fmt.Sprintf("%s timed out.", operation),
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"operation": operation},
	}
}

func RateLimited(service string) *AppError {
	return &AppError{
		Code: ErrCodeRateLimited, Message: fmt.Sprintf("Rate limit reached for %s.", service),
		HTTPStatus: http.StatusTooManyRequests, Retryable: true,
		Details: map[string]any{"service": service},
	}
}

// NotFound creates an error for a missing resource. id may be empty.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Details: details,
	}
}

func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Details: details,
	}
}

// InvalidPrefix rejects a listing prefix that escapes or is not served.
func InvalidPrefix(prefix, reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidPrefix, Message: fmt.Sprintf("Invalid prefix %q: %s", prefix, reason),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"prefix": prefix},
	}
}

func UnsupportedMedia(name string) *AppError {
	return &AppError{
		Code: ErrCodeUnsupportedMedia, Message: fmt.Sprintf("%s is not a supported image.", name),
		HTTPStatus: http.StatusUnsupportedMediaType,
		Details:    map[string]any{"name": name},
	}
}

// EmptyGallery reports a source that produced no images.
func EmptyGallery(source string) *AppError {
	return &AppError{
		Code: ErrCodeEmptyGallery, Message: fmt.Sprintf("No images found in %s.", source),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"source": source},
	}
}

func PreloadFailed(url string, cause error) *AppError {
	return &AppError{
		Code: ErrCodePreloadFailed, Message: "Image failed to load.",
		HTTPStatus: http.StatusBadGateway, Retryable: true,
		Details: map[string]any{"url": url}, Cause: cause,
	}
}

func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}

// StorageError wraps a failure from a storage backend.
func StorageError(provider string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeStorage, Message: fmt.Sprintf("Unable to read from %s storage.", provider),
		HTTPStatus: http.StatusInternalServerError, Retryable: true,
		Details: map[string]any{"provider": provider}, Cause: cause,
	}
}

func ExternalServiceError(service string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeExternalService, Message: fmt.Sprintf("The %s service returned an error.", service),
		HTTPStatus: http.StatusBadGateway, Retryable: true,
		Details: map[string]any{"service": service}, Cause: cause,
	}
}
