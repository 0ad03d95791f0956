package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"smartband-store/internal/domain"
	"smartband-store/internal/logging"
	"smartband-store/internal/validation"
)

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func abortError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// writeValidation reports per-field messages with 422.
func writeValidation(c *gin.Context, fe validation.FieldErrors) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": fe})
}

// writeServiceError maps common errors; anything unknown is a 500 and gets
// logged with the request logger.
func (h *handlers) writeServiceError(c *gin.Context, err error) {
	var fe validation.FieldErrors
	switch {
	case errors.As(err, &fe):
		writeValidation(c, fe)
	case errors.Is(err, domain.ErrNotFound):
		writeError(c, http.StatusNotFound, "not found")
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		writeError(c, http.StatusRequestTimeout, "request cancelled")
	default:
		_ = c.Error(err)
		logging.From(c, h.logger).Error("request failed", "err", err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
