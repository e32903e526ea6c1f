package errors

import (
	stderrors "errors"
)

// FailureResponse is the body the listing endpoint returns on error.
type FailureResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Code    ErrorCode `json:"code,omitempty"`
}

// ToResponse converts an AppError to a failure body.
func (e *AppError) ToResponse() FailureResponse {
	return FailureResponse{Success: false, Message: e.Message, Code: e.Code}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// From returns err as an AppError, wrapping unknown errors as Internal.
func From(err error) *AppError {
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}
