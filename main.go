package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"smokey-backend/config"
	"smokey-backend/database"
	"smokey-backend/internal/api"
	"smokey-backend/internal/middleware"
	"smokey-backend/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	// Run database migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// CORS middleware. The storefront and back office are separate deploys,
	// so every route answers preflights.
	router.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowedOrigin := ""
		if origin != "" {
			for _, allowed := range cfg.AllowedOrigins {
				if origin == allowed {
					allowedOrigin = origin
					break
				}
			}
		}
		if allowedOrigin == "" && cfg.AllowAllOrigins {
			allowedOrigin = "*"
		}
		if allowedOrigin == "" && cfg.Environment == "production" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Origin not allowed",
			})
			return
		}

		c.Header("Access-Control-Allow-Origin", allowedOrigin)
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Session-ID")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		c.Header("Access-Control-Expose-Headers", "Content-Length, Content-Disposition")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	securityConfig := middleware.DefaultSecurityConfig()
	securityConfig.MaxRequestSize = cfg.MaxFileSize + 1024*1024
	securityConfig.RateLimitRequests = cfg.RateLimitRequests
	securityConfig.RateLimitWindow = time.Duration(cfg.RateLimitWindow) * time.Second
	router.Use(middleware.SecurityMiddleware(securityConfig))
	router.Use(middleware.SuspiciousRequestMiddleware())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Smokey's API is running",
			"version": "1.0.0",
		})
	})

	// Initialize services
	authService, err := services.NewAuthService(cfg.JWTSecret, cfg.AdminPassword, cfg.JWTExpiration)
	if err != nil {
		log.Fatal("Failed to initialize auth service:", err)
	}
	authMiddleware := middleware.NewAuthMiddleware(authService)
	wsService := services.NewWebSocketService(authService)
	emailService := services.NewEmailService(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort), cfg.SMTPUsername, cfg.SMTPPassword)
	reviewService := services.NewReviewService(
		services.NewCatalogService(db), emailService,
		cfg.ReviewNotifyEmail, cfg.ReviewWebhookURL,
	)
	mediaService := services.NewMediaService(cfg.MediaEndpoint(), cfg.MediaUploadPreset, cfg.MaxFileSize, cfg.AllowedFileTypes)

	successURL := cfg.CheckoutSuccessURL
	if successURL == "" {
		successURL = cfg.BaseURL + "/checkout/success"
	}
	cancelURL := cfg.CheckoutCancelURL
	if cancelURL == "" {
		cancelURL = cfg.BaseURL + "/checkout/cancel"
	}
	paymentService := services.NewPaymentService(
		cfg.StripeSecretKey, cfg.StripeWebhookSecret,
		successURL, cancelURL,
		services.NewOrderService(db, wsService),
	)

	// Context middleware
	dbMiddleware := func(c *gin.Context) {
		c.Set("db", db)
		c.Next()
	}
	configMiddleware := func(c *gin.Context) {
		c.Set("config", cfg)
		c.Next()
	}
	wsMiddleware := func(c *gin.Context) {
		c.Set("wsService", wsService)
		c.Next()
	}
	paymentMiddleware := func(c *gin.Context) {
		c.Set("paymentService", paymentService)
		c.Next()
	}
	emailMiddleware := func(c *gin.Context) {
		c.Set("emailService", emailService)
		c.Next()
	}

	// API routes
	apiGroup := router.Group("/api/v1")
	{
		// Public storefront
		public := apiGroup.Group("/")
		public.Use(dbMiddleware)
		{
			public.GET("/menu", api.GetMenu)
			public.GET("/products", api.GetProducts)
			public.GET("/products/:id", api.GetProduct)
			public.GET("/categories", api.GetCategories)
			public.GET("/testimonials", api.GetTestimonials)

			// Session cart
			public.GET("/cart", api.GetCart)
			public.POST("/cart/items", api.AddCartItem)
			public.PUT("/cart/items/:lineKey", api.UpdateCartItem)
			public.DELETE("/cart/items/:lineKey", api.RemoveCartItem)
			public.DELETE("/cart", api.ClearCart)

			// Reviews
			reviews := public.Group("/")
			reviews.Use(func(c *gin.Context) {
				c.Set("reviewService", reviewService)
				c.Next()
			})
			reviews.POST("/reviews", api.SubmitReview)
		}

		// Checkout and payments
		payments := apiGroup.Group("/")
		payments.Use(dbMiddleware)
		payments.Use(configMiddleware)
		payments.Use(wsMiddleware)
		payments.Use(paymentMiddleware)
		payments.Use(emailMiddleware)
		{
			payments.POST("/checkout", api.Checkout)
			payments.GET("/payments/verify", api.VerifyPaymentSession)
			payments.POST("/payments/webhook", api.StripeWebhook)
		}

		// Back office
		admin := apiGroup.Group("/admin")
		admin.Use(dbMiddleware)
		admin.Use(wsMiddleware)
		{
			login := admin.Group("/")
			login.Use(middleware.LoginRateLimitMiddleware())
			login.Use(func(c *gin.Context) {
				c.Set("authService", authService)
				c.Next()
			})
			login.POST("/login", api.AdminLogin)

			// Live order feed authenticates with a token query parameter
			admin.GET("/ws", wsService.HandleWebSocket)

			protected := admin.Group("/")
			protected.Use(authMiddleware.AdminRequired())
			{
				protected.GET("/products", api.AdminListProducts)
				protected.POST("/products", api.AdminCreateProduct)
				protected.PUT("/products/:id", api.AdminUpdateProduct)
				protected.DELETE("/products/:id", api.AdminDeleteProduct)

				protected.GET("/categories", api.AdminListCategories)
				protected.POST("/categories", api.AdminCreateCategory)
				protected.PUT("/categories/:id", api.AdminUpdateCategory)
				protected.DELETE("/categories/:id", api.AdminDeleteCategory)

				protected.GET("/testimonials", api.AdminListTestimonials)
				protected.POST("/testimonials", api.AdminCreateTestimonial)
				protected.PUT("/testimonials/:id", api.AdminUpdateTestimonial)
				protected.DELETE("/testimonials/:id", api.AdminDeleteTestimonial)

				protected.GET("/orders", api.AdminListOrders)
				protected.GET("/orders/:id", api.AdminGetOrder)
				protected.PUT("/orders/:id/status", api.AdminUpdateOrderStatus)
				protected.PUT("/orders/:id/payment-status", api.AdminUpdatePaymentStatus)

				protected.GET("/export/products", api.AdminExportProducts)
				protected.GET("/export/categories", api.AdminExportCategories)
				protected.POST("/import/:entity/preview", api.AdminImportPreview)
				protected.POST("/import/:entity", api.AdminImport)

				media := protected.Group("/")
				media.Use(func(c *gin.Context) {
					c.Set("mediaService", mediaService)
					c.Next()
				})
				media.POST("/media", api.AdminUploadMedia)
			}
		}
	}

	// Start server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Smokey's API server starting on port %s", cfg.ServerPort())

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start:", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server shutdown complete")
}
