package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/strytechcompany/time2cart/internal/domain"
	cartsvc "github.com/strytechcompany/time2cart/internal/service/cart"
	ordersvc "github.com/strytechcompany/time2cart/internal/service/order"
	paymentsvc "github.com/strytechcompany/time2cart/internal/service/payment"
	reviewsvc "github.com/strytechcompany/time2cart/internal/service/review"
)

// respondError maps service errors onto HTTP statuses. Anything unmapped is a
// 500 with a generic body so internals do not leak.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, cartsvc.ErrInvalidVariant),
		errors.Is(err, paymentsvc.ErrUnsupportedMethod),
		errors.Is(err, ordersvc.ErrIntentInvalid),
		errors.Is(err, ordersvc.ErrIntentAmountMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, reviewsvc.ErrNotPurchased):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, ordersvc.ErrAlreadyConfirmed),
		errors.Is(err, reviewsvc.ErrAlreadyReviewed),
		errors.Is(err, ordersvc.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
