package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorCode represents standardized error codes for the API
type ErrorCode string

const (
	// Client Error Codes (4xx)
	ErrorCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	ErrorCodeCollectionNotFound ErrorCode = "COLLECTION_NOT_FOUND"
	ErrorCodeCollectionExists   ErrorCode = "COLLECTION_ALREADY_EXISTS"
	ErrorCodeInvalidRequest     ErrorCode = "INVALID_REQUEST"
	ErrorCodeInvalidJSON        ErrorCode = "INVALID_JSON"
	ErrorCodeInvalidQuery       ErrorCode = "INVALID_QUERY"
	ErrorCodeSameName           ErrorCode = "SAME_NAME_PROVIDED"

	// Server Error Codes (5xx)
	ErrorCodeInternalError ErrorCode = "INTERNAL_ERROR"
	ErrorCodeMatchFailed   ErrorCode = "MATCH_FAILED"
)

// ErrorDetail provides additional context for an error
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// APIError represents a standardized API error response
type APIError struct {
	Error     string        `json:"error"`
	Code      ErrorCode     `json:"code"`
	Message   string        `json:"message"`
	Details   []ErrorDetail `json:"details,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	RequestID string        `json:"request_id,omitempty"`
}

// APIErrorResponse creates a standardized error response
func APIErrorResponse(code ErrorCode, message string, details ...ErrorDetail) *APIError {
	return &APIError{
		Error:     "Request failed",
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
}

// SendError sends a standardized error response
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...ErrorDetail) {
	errorResponse := APIErrorResponse(code, message, details...)

	if requestID, exists := c.Get(requestIDKey); exists {
		if id, ok := requestID.(string); ok {
			errorResponse.RequestID = id
		}
	}

	c.JSON(statusCode, errorResponse)
}

// SendValidationError sends a validation error with one detail per problem
func SendValidationError(c *gin.Context, result *ValidationResult) {
	details := make([]ErrorDetail, len(result.Errors))
	for i, err := range result.Errors {
		details[i] = ErrorDetail{
			Field:   err.Field,
			Message: err.Message,
			Code:    "VALIDATION_ERROR",
		}
	}

	SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Request validation failed", details...)
}

// SendCollectionNotFoundError sends a standardized collection not found error
func SendCollectionNotFoundError(c *gin.Context, name string) {
	SendError(c, http.StatusNotFound, ErrorCodeCollectionNotFound,
		"Collection '"+name+"' not found")
}

// SendCollectionExistsError sends a standardized collection already exists error
func SendCollectionExistsError(c *gin.Context, name string) {
	SendError(c, http.StatusConflict, ErrorCodeCollectionExists,
		"Collection '"+name+"' already exists")
}

// SendSameNameError sends a standardized same name error
func SendSameNameError(c *gin.Context, name string) {
	SendError(c, http.StatusBadRequest, ErrorCodeSameName,
		"New name '"+name+"' is the same as the current name")
}

// SendInvalidJSONError sends a standardized invalid JSON error
func SendInvalidJSONError(c *gin.Context, err error) {
	SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON,
		"Invalid JSON in request body: "+err.Error())
}

// SendInternalError sends a standardized internal server error
func SendInternalError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeInternalError,
		"Internal error during "+operation+": "+err.Error())
}

// SendMatchError sends a standardized match error
func SendMatchError(c *gin.Context, name string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeMatchFailed,
		"Match failed on collection '"+name+"': "+err.Error())
}
