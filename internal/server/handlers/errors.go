package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/shopledger/internal/domain/models"
)

// respondError maps domain errors to HTTP statuses. Anything unrecognized is
// logged and reported as a 500 without leaking details.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrItemNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrInsufficientStock):
		status = http.StatusConflict
	case errors.Is(err, models.ErrInvalidName),
		errors.Is(err, models.ErrInvalidCategory),
		errors.Is(err, models.ErrInvalidPrice),
		errors.Is(err, models.ErrInvalidStock),
		errors.Is(err, models.ErrInvalidQuantity),
		errors.Is(err, models.ErrInvalidWindow),
		errors.Is(err, models.ErrInvalidSort):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
