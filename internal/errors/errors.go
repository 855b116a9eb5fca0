package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Error codes
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeBadGateway         = "BAD_GATEWAY"
)

// APIError represents a standardized API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// NewAPIErrorWithDetails creates a new APIError with details
func NewAPIErrorWithDetails(code, message string, details any) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// RespondWithError aborts the request with an error response
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.AbortWithStatusJSON(statusCode, err)
}

func respond(c *gin.Context, statusCode int, code, message, fallback string) {
	if message == "" {
		message = fallback
	}
	RespondWithError(c, statusCode, NewAPIError(code, message))
}

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	respond(c, http.StatusUnauthorized, ErrCodeUnauthorized, message, "Authentication required")
}

// InvalidCredentials sends a 401 response for a failed login
func InvalidCredentials(c *gin.Context, message string) {
	respond(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, message, "Incorrect username or password")
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	respond(c, http.StatusForbidden, ErrCodeForbidden, message, "Access denied")
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	respond(c, http.StatusNotFound, ErrCodeNotFound, message, "Resource not found")
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	respond(c, http.StatusBadRequest, ErrCodeInvalidInput, message, "Invalid request")
}

// BadRequestWithDetails sends a 400 response with details
func BadRequestWithDetails(c *gin.Context, message string, details any) {
	RespondWithError(c, http.StatusBadRequest, NewAPIErrorWithDetails(ErrCodeInvalidInput, message, details))
}

// ValidationDetails maps each failed field of a binding error to the rule it
// broke, e.g. {"title": "max=200"}. It returns nil for any other error.
func ValidationDetails(err error) any {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return nil
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		details[fe.Field()] = rule
	}
	return details
}

// Conflict sends a 409 response
func Conflict(c *gin.Context, message string) {
	respond(c, http.StatusConflict, ErrCodeConflict, message, "Resource conflict")
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	respond(c, http.StatusInternalServerError, ErrCodeInternalError, message, "Internal server error")
}

// BadGateway sends a 502 response
func BadGateway(c *gin.Context, message string) {
	respond(c, http.StatusBadGateway, ErrCodeBadGateway, message, "Upstream service failed")
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *gin.Context, message string) {
	respond(c, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, message, "Service temporarily unavailable")
}
