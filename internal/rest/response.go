package rest

import (
	"errors"
	"net/http"

	"fulfillment-be/internal/delivery"
	"fulfillment-be/internal/order"
	"fulfillment-be/internal/seller"

	"github.com/gin-gonic/gin"
)

// Every response carries the same envelope so the dashboard can treat all
// endpoints uniformly.
func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFromError(err), gin.H{"success": false, "message": err.Error()})
}

func respondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msg})
}

// statusFromError maps the domain error taxonomy onto HTTP statuses.
// Conflicts cover illegal transitions, repeated method assignment, missing
// proof and compare-and-swap misses; everything unrecognized is a 500.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, order.ErrValidation), errors.Is(err, delivery.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, order.ErrUnauthorized), errors.Is(err, delivery.ErrUnauthorized),
		errors.Is(err, seller.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, order.ErrOrderNotFound), errors.Is(err, delivery.ErrDeliveryNotFound),
		errors.Is(err, seller.ErrSellerNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrIllegalTransition), errors.Is(err, delivery.ErrIllegalTransition),
		errors.Is(err, delivery.ErrMethodAlreadyAssigned), errors.Is(err, delivery.ErrMissingProof),
		errors.Is(err, delivery.ErrProofNotAllowed),
		errors.Is(err, order.ErrStatusConflict), errors.Is(err, delivery.ErrStatusConflict),
		errors.Is(err, seller.ErrEmailExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
