package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hotelcapital/raise-engine/internal/errors"
)

// respondError renders err as {"error", "code"} with the status its AppError
// code maps to. Anything that is not an AppError is reported as an internal
// error without leaking its text.
func respondError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}

	appErr, ok := errors.As(err)
	if !ok || status >= http.StatusInternalServerError {
		code := errors.ErrCodeInternalError
		if ok {
			code = appErr.Code
		}
		c.JSON(status, gin.H{"error": "Internal server error", "code": code})
		return
	}

	c.JSON(status, gin.H{"error": appErr.Message, "code": appErr.Code})
}

// respondBindError reports a request that failed binding or validation
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Validation failed",
		"code":    errors.ErrCodeValidationError,
		"details": err.Error(),
	})
}

// pathUUID parses the named path parameter, responding 400 when it is not a UUID
func pathUUID(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + label + " ID",
			"code":  errors.ErrCodeInvalidInput,
		})
		return uuid.Nil, false
	}
	return id, true
}
