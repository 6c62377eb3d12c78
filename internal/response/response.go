package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hanco-rental/service-booking/internal/domain"
)

// Success writes a 200 response with the given payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// Created writes a 201 response with the given payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"data": data})
}

// Paginated writes a 200 response with items and paging metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, gin.H{
		"data":  items,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// BadRequest writes a 400 response with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// Error maps a domain error to its HTTP status. Unknown errors become 500
// without leaking internals; infrastructure errors become 503 and are marked
// retryable so the caller knows to re-run the full flow.
func Error(c *gin.Context, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	switch de.Kind {
	case domain.KindValidation, domain.KindInvalidState:
		c.JSON(http.StatusBadRequest, gin.H{"error": de.Message})
	case domain.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": de.Message})
	case domain.KindConflict:
		c.JSON(http.StatusConflict, gin.H{"error": de.Message})
	case domain.KindForbidden:
		c.JSON(http.StatusForbidden, gin.H{"error": de.Message})
	case domain.KindInfrastructure:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": de.Message, "retryable": true})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
