package middleware

import (
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// SecurityConfig holds security middleware configuration
type SecurityConfig struct {
	MaxRequestSize    int64
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// DefaultSecurityConfig returns default security configuration
func DefaultSecurityConfig() *SecurityConfig {
	return &SecurityConfig{
		MaxRequestSize:    26 * 1024 * 1024, // admin media uploads cap at 25MB
		RateLimitRequests: 1000,
		RateLimitWindow:   time.Minute,
	}
}

// SecurityMiddleware applies request size limits, per-IP rate limiting and
// standard security headers
func SecurityMiddleware(config *SecurityConfig) gin.HandlerFunc {
	if config == nil {
		config = DefaultSecurityConfig()
	}

	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	return func(c *gin.Context) {
		if c.Request.ContentLength > config.MaxRequestSize {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"success": false,
				"error":   "Request body too large",
			})
			c.Abort()
			return
		}

		if os.Getenv("DISABLE_RATE_LIMITING") != "true" {
			clientIP := c.ClientIP()
			mu.Lock()
			limiter, exists := limiters[clientIP]
			if !exists {
				limiter = rate.NewLimiter(rate.Every(config.RateLimitWindow/time.Duration(config.RateLimitRequests)), config.RateLimitRequests)
				limiters[clientIP] = limiter
			}
			mu.Unlock()

			if !limiter.Allow() {
				log.Printf("Rate limit exceeded for IP %s: %s %s", clientIP, c.Request.Method, c.Request.URL.Path)
				c.JSON(http.StatusTooManyRequests, gin.H{
					"success": false,
					"error":   "Rate limit exceeded",
				})
				c.Abort()
				return
			}
		}

		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		c.Next()
	}
}

// LoginRateLimitMiddleware applies stricter rate limiting to the admin
// login endpoint
func LoginRateLimitMiddleware() gin.HandlerFunc {
	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	return func(c *gin.Context) {
		if os.Getenv("DISABLE_RATE_LIMITING") == "true" {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		mu.Lock()
		limiter, exists := limiters[clientIP]
		if !exists {
			// 10 attempts per minute per IP
			limiter = rate.NewLimiter(rate.Every(time.Minute/10), 10)
			limiters[clientIP] = limiter
		}
		mu.Unlock()

		if !limiter.Allow() {
			log.Printf("Login rate limit exceeded for IP %s", clientIP)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "Too many login attempts. Please try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// SuspiciousRequestMiddleware blocks obviously malicious URL patterns
func SuspiciousRequestMiddleware() gin.HandlerFunc {
	suspiciousPatterns := []string{
		"../", "..\\", "<script", "javascript:", "vbscript:",
		"onload=", "onerror=", "eval(", "expression(",
	}

	return func(c *gin.Context) {
		requestURI := strings.ToLower(c.Request.RequestURI)
		for _, pattern := range suspiciousPatterns {
			if strings.Contains(requestURI, pattern) {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error":   "Suspicious request pattern detected",
				})
				c.Abort()
				return
			}
		}

		c.Next()
	}
}
