package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"xmlprocessor/internal/models"
)

// RespondWithError sends a standardized JSON error response.
func RespondWithError(c *gin.Context, httpStatus int, appErrorCode string, message string, details interface{}) {
	errResp := models.APIError{
		Code:    appErrorCode,
		Message: message,
		Details: details,
	}
	c.JSON(httpStatus, errResp)
}

// RespondWithSuccess sends a standardized JSON success response.
// For 204 No Content, pass nil data and no body is sent.
func RespondWithSuccess(c *gin.Context, httpStatus int, data interface{}) {
	if data != nil {
		c.JSON(httpStatus, data)
	} else {
		c.Status(httpStatus)
	}
}

// isUniqueViolation reports whether err is a unique-constraint violation from
// postgres or sqlite.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" // PostgreSQL unique_violation
	}
	if err == nil {
		return false
	}
	// sqlite reports constraint failures as plain strings via the gorm driver
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
