package api

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"smokey-backend/internal/models"
	"smokey-backend/internal/services"
)

// Cart handlers. The storefront identifies its cart with an opaque session
// id it generates on first visit and sends in the X-Session-ID header.

func cartSession(c *gin.Context) (string, bool) {
	sessionID := c.GetHeader("X-Session-ID")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "X-Session-ID header required",
		})
		return "", false
	}
	return sessionID, true
}

func cartServiceFor(c *gin.Context) (*services.CartService, bool) {
	db, exists := c.Get("db")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Database connection not available",
		})
		return nil, false
	}
	return services.NewCartService(services.NewSQLiteCartPersister(db.(*sql.DB))), true
}

func cartResponse(cart *models.Cart) gin.H {
	return gin.H{
		"success": true,
		"data": gin.H{
			"items":      cart.Items,
			"totalItems": cart.TotalItems(),
			"totalPrice": cart.TotalPrice(),
		},
	}
}

func GetCart(c *gin.Context) {
	sessionID, ok := cartSession(c)
	if !ok {
		return
	}
	cartService, ok := cartServiceFor(c)
	if !ok {
		return
	}

	cart, err := cartService.GetCart(sessionID)
	if err != nil {
		log.Printf("Failed to get cart: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to retrieve cart",
		})
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart))
}

func AddCartItem(c *gin.Context) {
	sessionID, ok := cartSession(c)
	if !ok {
		return
	}
	cartService, ok := cartServiceFor(c)
	if !ok {
		return
	}

	var item models.CartItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request format: " + err.Error(),
		})
		return
	}
	if item.ProductID == "" || item.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "productId and name are required",
		})
		return
	}

	cart, err := cartService.AddItem(sessionID, item)
	if err != nil {
		log.Printf("Failed to add cart item: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to update cart",
		})
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart))
}

func UpdateCartItem(c *gin.Context) {
	sessionID, ok := cartSession(c)
	if !ok {
		return
	}
	cartService, ok := cartServiceFor(c)
	if !ok {
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request format: " + err.Error(),
		})
		return
	}

	cart, err := cartService.SetQuantity(sessionID, c.Param("lineKey"), req.Quantity)
	if err != nil {
		if err.Error() == "cart item not found" {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Cart item not found",
			})
			return
		}
		log.Printf("Failed to update cart item: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to update cart",
		})
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart))
}

func RemoveCartItem(c *gin.Context) {
	sessionID, ok := cartSession(c)
	if !ok {
		return
	}
	cartService, ok := cartServiceFor(c)
	if !ok {
		return
	}

	cart, err := cartService.RemoveItem(sessionID, c.Param("lineKey"))
	if err != nil {
		if err.Error() == "cart item not found" {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Cart item not found",
			})
			return
		}
		log.Printf("Failed to remove cart item: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to update cart",
		})
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart))
}

func ClearCart(c *gin.Context) {
	sessionID, ok := cartSession(c)
	if !ok {
		return
	}
	cartService, ok := cartServiceFor(c)
	if !ok {
		return
	}

	if err := cartService.ClearCart(sessionID); err != nil {
		log.Printf("Failed to clear cart: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to clear cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Cart cleared",
	})
}
