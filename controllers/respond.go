package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/secure-trade/api-go/services"
)

// statusFor maps the service error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is an unexpected failure and stays opaque.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, services.ErrAccountDisabled),
		errors.Is(err, services.ErrWrongCurrentPassword),
		errors.Is(err, services.ErrNotOwner),
		errors.Is(err, services.ErrNotBuyer),
		errors.Is(err, services.ErrCannotActOnAdmin),
		errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrDuplicate),
		errors.Is(err, services.ErrAlreadySold),
		errors.Is(err, services.ErrNotReserved),
		errors.Is(err, services.ErrAlreadyReported):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidPrice),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrSelfPurchase),
		errors.Is(err, services.ErrSelfReport):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(status, gin.H{"error": "Something went wrong", "success": false})
		return
	}
	c.JSON(status, gin.H{"error": err.Error(), "success": false})
}
