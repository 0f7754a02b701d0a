package api

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"smokey-backend/internal/services"
)

// VerifyPaymentSession lets the success page confirm payment without
// waiting for the webhook
func VerifyPaymentSession(c *gin.Context) {
	paymentService, exists := c.Get("paymentService")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Payment service not available",
		})
		return
	}

	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "session_id is required",
		})
		return
	}

	order, err := paymentService.(*services.PaymentService).VerifySession(sessionID)
	if err != nil {
		log.Printf("Failed to verify payment session: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   "Failed to verify payment session",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// StripeWebhook receives payment events. A bad signature is rejected with
// 400 before anything is touched; a processing failure returns 500 so
// Stripe redelivers.
func StripeWebhook(c *gin.Context) {
	paymentService, exists := c.Get("paymentService")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Payment service not available",
		})
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Failed to read request body",
		})
		return
	}

	err = paymentService.(*services.PaymentService).HandleWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidSignature) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Invalid signature",
			})
			return
		}
		log.Printf("Failed to process webhook: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to process event",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}
