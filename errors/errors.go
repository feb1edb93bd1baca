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
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithRetryable overrides the retryable flag and returns the receiver.
func (e *AppError) WithRetryable(retryable bool) *AppError {
	e.Retryable = retryable
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

// stageError builds a stage failure whose retryable flag follows the cause.
func stageError(code ErrorCode, message string, status int, cause error) *AppError {
	e := &AppError{Code: code, Message: message, HTTPStatus: status, Cause: cause}
	if app, ok := AsAppError(cause); ok {
		e.Retryable = app.Retryable
	}
	return e
}

// Extraction wraps a decode or demux failure of the input media.
func Extraction(cause error) *AppError {
	return stageError(ErrCodeExtractionFailed, "Audio could not be extracted from the media file.",
		http.StatusUnprocessableEntity, cause)
}

// Chunking wraps a failure while splitting audio into segments.
func Chunking(cause error) *AppError {
	return stageError(ErrCodeChunkingFailed, "Audio could not be split into segments.",
		http.StatusInternalServerError, cause)
}

// Transcription wraps a speech-to-text failure.
func Transcription(cause error) *AppError {
	return stageError(ErrCodeTranscriptionFailed, "Speech-to-text failed.",
		http.StatusBadGateway, cause)
}

// UnsupportedLanguage reports a target language outside the supported table.
func UnsupportedLanguage(code string) *AppError {
	return &AppError{
		Code: ErrCodeUnsupportedLanguage, Message: fmt.Sprintf("Language %q is not supported.", code),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"language": code},
	}
}

// Translation wraps a translation service failure.
func Translation(cause error) *AppError {
	return stageError(ErrCodeTranslationFailed, "Translation failed.",
		http.StatusBadGateway, cause)
}

// Persona wraps a persona generation failure.
func Persona(cause error) *AppError {
	return stageError(ErrCodePersonaFailed, "Persona generation failed.",
		http.StatusBadGateway, cause)
}

// Persistence wraps a store failure.
func Persistence(cause error) *AppError {
	return stageError(ErrCodePersistenceFailed, "A database error occurred.",
		http.StatusInternalServerError, cause)
}

// ServiceUnavailable reports a backend that answered with a transient failure.
func ServiceUnavailable(service string) *AppError {
	return &AppError{
		Code: ErrCodeServiceUnavailable, Message: fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"service": service},
	}
}

// ConnectionFailed reports a backend that could not be reached.
func ConnectionFailed(service string) *AppError {
	return &AppError{
		Code: ErrCodeConnectionFailed, Message: fmt.Sprintf("Unable to connect to %s. Please verify the service is running.", service),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"service": service},
	}
}

// Timeout reports an operation that exceeded its deadline.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: "The request took too long. Please try again.",
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"operation": operation},
	}
}

// Canceled reports a run stopped by its caller.
func Canceled(cause error) *AppError {
	return &AppError{
		Code: ErrCodeCanceled, Message: "The operation was canceled.",
		HTTPStatus: 499, Retryable: false, Cause: cause,
	}
}

// NotFound reports a missing resource.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Retryable: false, Details: details,
	}
}

// Conflict reports a request that clashes with current state.
func Conflict(reason string) *AppError {
	return &AppError{
		Code: ErrCodeConflict, Message: reason,
		HTTPStatus: http.StatusConflict, Retryable: false,
	}
}

// InvalidInput reports a malformed request field.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// TooLarge reports a request body over limit.
func TooLarge(limit string) *AppError {
	return &AppError{
		Code: ErrCodeTooLarge, Message: fmt.Sprintf("Request body exceeds %s.", limit),
		HTTPStatus: http.StatusRequestEntityTooLarge, Retryable: false,
		Details: map[string]any{"limit": limit},
	}
}

// Internal reports an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

// ExternalService reports a non-transient error returned by a backend.
func ExternalService(service string, status int, cause error) *AppError {
	e := &AppError{
		Code: ErrCodeExternalService, Message: fmt.Sprintf("The %s service returned an error.", service),
		HTTPStatus: http.StatusBadGateway, Cause: cause,
		Details: map[string]any{"service": service},
	}
	if status > 0 {
		e.Details["status"] = status
	}
	// 4xx responses will not change on retry.
	e.Retryable = status == 0 || status >= 500 || status == http.StatusTooManyRequests
	return e
}
