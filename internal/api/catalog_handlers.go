package api

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"smokey-backend/internal/services"
)

// Storefront catalog handlers. These endpoints never fail: catalog reads
// fall back to a static dataset so the site keeps rendering through
// database trouble.

func GetMenu(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Database connection not available",
		})
		return
	}

	catalogService := services.NewCatalogService(db.(*sql.DB))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    catalogService.GetMenu(),
	})
}

func GetProducts(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Database connection not available",
		})
		return
	}

	catalogService := services.NewCatalogService(db.(*sql.DB))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    catalogService.GetProducts(false),
	})
}

func GetProduct(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Database connection not available",
		})
		return
	}

	catalogService := services.NewCatalogService(db.(*sql.DB))

	product, err := catalogService.GetProductByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Product not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

func GetCategories(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Database connection not available",
		})
		return
	}

	catalogService := services.NewCatalogService(db.(*sql.DB))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    catalogService.GetCategories(false),
	})
}

func GetTestimonials(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Database connection not available",
		})
		return
	}

	catalogService := services.NewCatalogService(db.(*sql.DB))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    catalogService.GetTestimonials(),
	})
}
