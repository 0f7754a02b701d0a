package api

import (
	"database/sql"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"smokey-backend/config"
	"smokey-backend/internal/models"
	"smokey-backend/internal/services"
)

// Checkout turns the session cart into an order and starts payment
func Checkout(c *gin.Context) {
	sessionID, ok := cartSession(c)
	if !ok {
		return
	}

	db, exists := c.Get("db")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Database connection not available",
		})
		return
	}
	cfg, exists := c.Get("config")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Configuration not available",
		})
		return
	}
	paymentService, exists := c.Get("paymentService")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Payment service not available",
		})
		return
	}

	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request format: " + err.Error(),
		})
		return
	}

	conf := cfg.(*config.Config)
	sqlDB := db.(*sql.DB)

	var events services.OrderEventPublisher
	if ws, exists := c.Get("wsService"); exists {
		events = ws.(*services.WebSocketService)
	}

	checkoutService := services.NewCheckoutService(
		sqlDB,
		services.NewCartService(services.NewSQLiteCartPersister(sqlDB)),
		services.NewPayNowService(conf.PayNowUEN, conf.PayNowRecipient),
		paymentService.(*services.PaymentService),
		events,
	)

	result, err := checkoutService.Checkout(sessionID, &req)
	if err != nil {
		if err.Error() == "cart is empty" {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Cart is empty",
			})
			return
		}
		if strings.HasPrefix(err.Error(), "invalid event date") {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   err.Error(),
			})
			return
		}
		log.Printf("Checkout failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to place order",
		})
		return
	}

	// Order confirmation email is best effort
	if emailService, exists := c.Get("emailService"); exists {
		go func(order *models.Order) {
			if err := emailService.(*services.EmailService).SendOrderConfirmation(order); err != nil {
				log.Printf("Failed to send order confirmation: %v", err)
			}
		}(result.Order)
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result,
	})
}
