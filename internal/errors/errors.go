package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
)

// ErrorType represents different types of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeConflict   ErrorType = "conflict"
	ErrorTypeDatabase   ErrorType = "database"
	ErrorTypeInternal   ErrorType = "internal"
	ErrorTypeRateLimit  ErrorType = "rate_limit"
	ErrorTypeTimeout    ErrorType = "timeout"
)

// AppError represents an application error with additional context
type AppError struct {
	Type     ErrorType
	Message  string
	Code     string
	Internal error
	Context  map[string]interface{}
	Source   string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the internal error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is checks if the error matches the target
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return errors.Is(e.Internal, target)
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// HTTPStatus maps the error type onto a response status.
func (e *AppError) HTTPStatus() int {
	switch e.Type {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeRateLimit:
		return http.StatusTooManyRequests
	case ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// LogFields returns structured logging fields
func (e *AppError) LogFields() []interface{} {
	fields := []interface{}{
		"error_type", e.Type,
		"error_code", e.Code,
		"error_message", e.Message,
		"source", e.Source,
	}

	if e.Internal != nil {
		fields = append(fields, "internal_error", e.Internal.Error())
	}

	for k, v := range e.Context {
		fields = append(fields, k, v)
	}

	return fields
}

// New creates a new AppError
func New(errorType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Source:  caller(2),
		Context: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error into AppError
func Wrap(err error, errorType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:     errorType,
		Code:     code,
		Message:  message,
		Internal: err,
		Source:   caller(2),
		Context:  make(map[string]interface{}),
	}
}

func caller(skip int) string {
	_, file, line, _ := runtime.Caller(skip)
	return fmt.Sprintf("%s:%d", file, line)
}

// As extracts an AppError from err. Errors that are not AppErrors are
// reported as timeouts or internal errors so callers always get a status and
// a code.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(err, ErrorTypeTimeout, "TIMEOUT", "Request timed out")
	}
	return Wrap(err, ErrorTypeInternal, "INTERNAL", "Internal server error")
}

// Handler provides error handling strategies
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates a new error handler
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle processes an error according to its type
func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		h.handleAppError(ctx, appErr)
	} else {
		h.logger.ErrorContext(ctx, "Unhandled error", "error", err.Error())
	}
}

func (h *Handler) handleAppError(ctx context.Context, err *AppError) {
	switch err.Type {
	case ErrorTypeValidation:
		h.logger.WarnContext(ctx, "Validation error", err.LogFields()...)
	case ErrorTypeNotFound, ErrorTypeConflict:
		h.logger.WarnContext(ctx, "Request rejected", err.LogFields()...)
	case ErrorTypeRateLimit:
		h.logger.WarnContext(ctx, "Rate limit error", err.LogFields()...)
	case ErrorTypeDatabase, ErrorTypeInternal, ErrorTypeTimeout:
		h.logger.ErrorContext(ctx, "Critical error", err.LogFields()...)
	default:
		h.logger.ErrorContext(ctx, "Unknown error type", err.LogFields()...)
	}
}

// Predefined errors
var (
	ErrInvalidInput      = New(ErrorTypeValidation, "INVALID_INPUT", "Invalid input provided")
	ErrUserNotFound      = New(ErrorTypeNotFound, "USER_NOT_FOUND", "User not found")
	ErrDuplicateEmail    = New(ErrorTypeConflict, "DUPLICATE_EMAIL", "A user with this email already exists")
	ErrDatabaseError     = New(ErrorTypeDatabase, "DB_ERROR", "Database operation failed")
	ErrRateLimitExceeded = New(ErrorTypeRateLimit, "RATE_LIMIT", "Rate limit exceeded")
	ErrTimeout           = New(ErrorTypeTimeout, "TIMEOUT", "Request timed out")
	ErrInternalServer    = New(ErrorTypeInternal, "INTERNAL", "Internal server error")
)

// Convenience functions for common errors
func NewValidationError(message string) *AppError {
	return New(ErrorTypeValidation, "VALIDATION", message)
}

// NewInvalidInputError reports a request body or parameter that could not be
// decoded.
func NewInvalidInputError(err error) *AppError {
	return Wrap(err, ErrorTypeValidation, "INVALID_INPUT", "Invalid input provided")
}

func NewDuplicateEmailError(email string) *AppError {
	return New(ErrorTypeConflict, "DUPLICATE_EMAIL", "A user with this email already exists").
		WithContext("email", email)
}

func NewUserNotFoundError(userID uint) *AppError {
	return New(ErrorTypeNotFound, "USER_NOT_FOUND", "User not found").
		WithContext("user_id", userID)
}

func NewDatabaseError(err error) *AppError {
	return Wrap(err, ErrorTypeDatabase, "DB_ERROR", "Database operation failed")
}

func NewRateLimitError(key string) *AppError {
	return New(ErrorTypeRateLimit, "RATE_LIMIT", "Rate limit exceeded").
		WithContext("client", key)
}
