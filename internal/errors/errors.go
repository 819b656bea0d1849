package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const statusError = "error"

// Base error kinds. Service-level sentinels wrap one of these so the HTTP
// layer can classify them with errors.Is.
var (
	ErrBadRequest         = errors.New("bad request")
	ErrNotFound           = errors.New("not found")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrConflict           = errors.New("conflict")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// FieldError is a single validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError returns a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// Add appends a field error.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// OrNil returns nil when no field was recorded.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// APIError is the error envelope returned to clients.
type APIError struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(message string) *APIError {
	return &APIError{Status: statusError, Message: message}
}

func NewAPIErrorWithFields(message string, fields []FieldError) *APIError {
	return &APIError{Status: statusError, Message: message, Errors: fields}
}

// RespondWithError sends an error response and aborts the handler chain.
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.AbortWithStatusJSON(statusCode, err)
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Unauthenticated"
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(message))
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	RespondWithError(c, http.StatusForbidden, NewAPIError(message))
}

func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(message))
}

func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(message))
}

func MethodNotAllowed(c *gin.Context) {
	RespondWithError(c, http.StatusMethodNotAllowed, NewAPIError("Method not allowed"))
}

func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "Resource conflict"
	}
	RespondWithError(c, http.StatusConflict, NewAPIError(message))
}

// ValidationFailed sends a 422 response listing every failing field.
func ValidationFailed(c *gin.Context, fields []FieldError) {
	RespondWithError(c, http.StatusUnprocessableEntity, NewAPIErrorWithFields("Validation failed", fields))
}

func TooManyRequests(c *gin.Context) {
	RespondWithError(c, http.StatusTooManyRequests, NewAPIError("Too many requests"))
}

// InternalError sends a 500 response. The cause is only exposed while gin
// runs in debug mode.
func InternalError(c *gin.Context, err error) {
	message := "Internal server error"
	if err != nil {
		_ = c.Error(err)
		if gin.IsDebugging() {
			message = err.Error()
		}
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(message))
}

func ServiceUnavailable(c *gin.Context, message string) {
	if message == "" {
		message = "Service temporarily unavailable"
	}
	RespondWithError(c, http.StatusServiceUnavailable, NewAPIError(message))
}
