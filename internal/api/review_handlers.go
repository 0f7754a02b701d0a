package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"smokey-backend/internal/models"
	"smokey-backend/internal/services"
)

// SubmitReview accepts a customer review for moderation
func SubmitReview(c *gin.Context) {
	reviewService, exists := c.Get("reviewService")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Review service not available",
		})
		return
	}

	var req models.TestimonialCreation
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request format: " + err.Error(),
		})
		return
	}

	testimonial, err := reviewService.(*services.ReviewService).SubmitReview(&req)
	if err != nil {
		log.Printf("Failed to store review: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to submit review",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    testimonial,
		"message": "Thanks! Your review is awaiting approval.",
	})
}
