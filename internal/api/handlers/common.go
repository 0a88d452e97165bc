package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coinfolio/coinfolio_service/internal/domain/entities"
	apperrors "github.com/coinfolio/coinfolio_service/pkg/errors"
)

// getUserID extracts the authenticated user from the request context
func getUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// parseUUIDParam parses a path parameter as a UUID
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, http.StatusBadRequest, apperrors.ErrCodeInvalidInput, "invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

// respondOK sends a success response with data
func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, entities.APIResponse{Success: true, Data: data})
}

// respondCreated sends a created response with data
func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, entities.APIResponse{Success: true, Data: data})
}

// respondMessage sends a success response with just a message
func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, entities.APIResponse{Success: true, Message: message})
}

// respondError sends a standardized error response
func respondError(c *gin.Context, status int, code apperrors.ErrorCode, message string, details map[string]interface{}) {
	c.JSON(status, entities.ErrorResponse{
		Success: false,
		Code:    string(code),
		Message: message,
		Details: details,
	})
}

// respondAppError maps a service error to its HTTP response. Unknown
// errors become an opaque 500.
func respondAppError(c *gin.Context, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		respondError(c, appErr.StatusCode, appErr.Code, appErr.Message, appErr.Details)
		return
	}
	respondError(c, http.StatusInternalServerError, apperrors.ErrCodeInternal, "internal server error", nil)
}

// respondBadRequest sends a validation error
func respondBadRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, apperrors.ErrCodeInvalidInput, message, nil)
}

// respondUnauthorized sends an unauthorized error
func respondUnauthorized(c *gin.Context) {
	respondError(c, http.StatusUnauthorized, apperrors.ErrCodeUnauthorized, "authentication required", nil)
}
