package api

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"smokey-backend/internal/models"
	"smokey-backend/internal/services"
)

// Back-office handlers. All routes here sit behind AdminRequired except
// AdminLogin.

func AdminLogin(c *gin.Context) {
	authService, exists := c.Get("authService")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Auth service not available",
		})
		return
	}

	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Password is required",
		})
		return
	}

	token, err := authService.(*services.AuthService).Login(req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Invalid password",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"token": token,
		},
	})
}

func catalogServiceFor(c *gin.Context) (*services.CatalogService, bool) {
	db, exists := c.Get("db")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Database connection not available",
		})
		return nil, false
	}
	return services.NewCatalogService(db.(*sql.DB)), true
}

func orderServiceFor(c *gin.Context) (*services.OrderService, bool) {
	db, exists := c.Get("db")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Database connection not available",
		})
		return nil, false
	}
	var events services.OrderEventPublisher
	if ws, exists := c.Get("wsService"); exists {
		events = ws.(*services.WebSocketService)
	}
	return services.NewOrderService(db.(*sql.DB), events), true
}

// notFoundOrServerError maps a service error to 404 or 500 based on the
// conventional "x not found" message
func notFoundOrServerError(c *gin.Context, err error, action string) {
	switch err.Error() {
	case "product not found", "category not found", "testimonial not found", "order not found":
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   err.Error(),
		})
	default:
		log.Printf("Failed to %s: %v", action, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to " + action,
		})
	}
}

// Product management

func AdminListProducts(c *gin.Context) {
	catalogService, ok := catalogServiceFor(c)
	if !ok {
		return
	}

	products, err := catalogService.ListProducts()
	if err != nil {
		log.Printf("Failed to list products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to retrieve products",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
	})
}

func AdminCreateProduct(c *gin.Context) {
	catalogService, ok := catalogServiceFor(c)
	if !ok {
		return
	}

	var req models.ProductCreation
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request format: " + err.Error(),
		})
		return
	}

	product, err := catalogService.CreateProduct(&req)
	if err != nil {
		notFoundOrServerError(c, err, "create product")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    product,
	})
}

func AdminUpdateProduct(c *gin.Context) {
	catalogService, ok := catalogServiceFor(c)
	if !ok {
		return
	}

	var req models.ProductCreation
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request format: " + err.Error(),
		})
		return
	}

	product, err := catalogService.UpdateProduct(c.Param("id"), &req)
	if err != nil {
		notFoundOrServerError(c, err, "update product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

func AdminDeleteProduct(c *gin.Context) {
	catalogService, ok := catalogServiceFor(c)
	if !ok {
		return
	}

	if err := catalogService.DeleteProduct(c.Param("id")); err != nil {
		notFoundOrServerError(c, err, "delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product deleted",
	})
}

// Category management

func AdminListCategories(c *gin.Context) {
	catalogService, ok := catalogServiceFor(c)
	if !ok {
		return
	}

	categories, err := catalogService.ListCategories()
	if err != nil {
		log.Printf("Failed to list categories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to retrieve categories",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    categories,
	})
}

func AdminCreateCategory(c *gin.Context) {
	catalogService, ok := catalogServiceFor(c)
	if !ok {
		return
	}

	var req models.CategoryCreation
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request format: " + err.Error(),
		})
		return
	}

	category, err := catalogService.CreateCategory(&req)
	if err != nil {
		notFoundOrServerError(c, err, "create category")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    category,
	})
}

func AdminUpdateCategory(c *gin.Context) {
	catalogService, ok := catalogServiceFor(c)
	if !ok {
		return
	}

	var req models.CategoryCreation
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request format: " + err.Error(),
		})
		return
	}

	category, err := catalogService.UpdateCategory(c.Param("id"), &req)
	if err != nil {
		notFoundOrServerError(c, err, "update category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    category,
	})
}

func AdminDeleteCategory(c *gin.Context) {
	catalogService, ok := catalogServiceFor(c)
	if !ok {
		return
	}

	if err := catalogService.DeleteCategory(c.Param("id")); err != nil {
		notFoundOrServerError(c, err, "delete category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Category deleted",
	})
}

// Testimonial management

func AdminListTestimonials(c *gin.Context) {
	catalogService, ok := catalogServiceFor(c)
	if !ok {
		return
	}

	testimonials, err := catalogService.ListTestimonials()
	if err != nil {
		log.Printf("Failed to list testimonials: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to retrieve testimonials",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    testimonials,
	})
}

func AdminCreateTestimonial(c *gin.Context) {
	catalogService, ok := catalogServiceFor(c)
	if !ok {
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

	testimonial, err := catalogService.CreateTestimonial(&req)
	if err != nil {
		notFoundOrServerError(c, err, "create testimonial")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    testimonial,
	})
}

func AdminUpdateTestimonial(c *gin.Context) {
	catalogService, ok := catalogServiceFor(c)
	if !ok {
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

	testimonial, err := catalogService.UpdateTestimonial(c.Param("id"), &req)
	if err != nil {
		notFoundOrServerError(c, err, "update testimonial")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    testimonial,
	})
}

func AdminDeleteTestimonial(c *gin.Context) {
	catalogService, ok := catalogServiceFor(c)
	if !ok {
		return
	}

	if err := catalogService.DeleteTestimonial(c.Param("id")); err != nil {
		notFoundOrServerError(c, err, "delete testimonial")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Testimonial deleted",
	})
}

// Order management

func AdminListOrders(c *gin.Context) {
	orderService, ok := orderServiceFor(c)
	if !ok {
		return
	}

	status := c.Query("status")
	if status != "" && !models.ValidOrderStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid status filter",
		})
		return
	}
	paymentStatus := c.Query("paymentStatus")
	if paymentStatus != "" && !models.ValidPaymentStatus(paymentStatus) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid paymentStatus filter",
		})
		return
	}

	orders, err := orderService.GetOrders(status, paymentStatus)
	if err != nil {
		log.Printf("Failed to list orders: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to retrieve orders",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

func AdminGetOrder(c *gin.Context) {
	orderService, ok := orderServiceFor(c)
	if !ok {
		return
	}

	order, err := orderService.GetOrderByID(c.Param("id"))
	if err != nil {
		notFoundOrServerError(c, err, "retrieve order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

func AdminUpdateOrderStatus(c *gin.Context) {
	orderService, ok := orderServiceFor(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Status is required",
		})
		return
	}
	if !models.ValidOrderStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid order status",
		})
		return
	}

	order, err := orderService.UpdateOrderStatus(c.Param("id"), models.OrderStatus(req.Status))
	if err != nil {
		notFoundOrServerError(c, err, "update order status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

func AdminUpdatePaymentStatus(c *gin.Context) {
	orderService, ok := orderServiceFor(c)
	if !ok {
		return
	}

	var req struct {
		PaymentStatus string `json:"paymentStatus" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "paymentStatus is required",
		})
		return
	}
	if !models.ValidPaymentStatus(req.PaymentStatus) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid payment status",
		})
		return
	}

	order, err := orderService.UpdatePaymentStatus(c.Param("id"), models.PaymentStatus(req.PaymentStatus))
	if err != nil {
		notFoundOrServerError(c, err, "update payment status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}
