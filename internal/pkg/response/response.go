package response

import (
	"context"
	"errors"
	"net/http"

	"hotelbooking/internal/domain"

	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// Paged wraps a list with its paging metadata.
func Paged(c *gin.Context, items any, total int64, page, perPage int) {
	Success(c, http.StatusOK, gin.H{
		"items":    items,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

// FromError writes the envelope for a service error. Unknown errors are
// attached to the gin context so ErrorLogger records them.
func FromError(c *gin.Context, err error) {
	var te *domain.TransitionError
	switch {
	case errors.As(err, &te):
		ErrorWithDetails(c, http.StatusUnprocessableEntity, "INVALID_STATUS_TRANSITION", te.Error(),
			gin.H{"from": te.From, "to": te.To})
	case errors.Is(err, domain.ErrValidation):
		Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		Error(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, domain.ErrRoomNotAvailable):
		Error(c, http.StatusConflict, "ROOM_NOT_AVAILABLE", "Room is not available for the selected dates")
	case errors.Is(err, domain.ErrAlreadyCancelled):
		Error(c, http.StatusConflict, "ALREADY_CANCELLED", "Reservation is already cancelled")
	case errors.Is(err, domain.ErrNotCancellable):
		Error(c, http.StatusConflict, "NOT_CANCELLABLE", "Reservation can no longer be cancelled")
	case errors.Is(err, domain.ErrConflict):
		Error(c, http.StatusConflict, "CONFLICT", "Concurrent update, please retry")
	case errors.Is(err, context.DeadlineExceeded):
		_ = c.Error(err)
		Error(c, http.StatusGatewayTimeout, "TIMEOUT", "Request timed out")
	default:
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
