package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	Environment   string
	Port          string
	DatabaseURL   string
	BaseURL       string
	JWTSecret     string
	JWTExpiration int

	// Admin back-office
	AdminPassword string

	// Stripe Configuration
	StripeSecretKey     string
	StripeWebhookSecret string
	CheckoutSuccessURL  string
	CheckoutCancelURL   string

	// PayNow Configuration
	PayNowUEN       string
	PayNowRecipient string

	// Media CDN Configuration
	MediaCloudName    string
	MediaUploadPreset string
	MediaUploadURL    string

	// Email Configuration
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string
	ReviewNotifyEmail string

	// Review webhook fan-out
	ReviewWebhookURL string

	// File Upload Configuration
	MaxFileSize      int64
	AllowedFileTypes []string

	// Rate Limiting Configuration
	RateLimitRequests int
	RateLimitWindow   int

	// CORS Configuration
	AllowedOrigins  []string
	AllowAllOrigins bool
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Environment:   getEnv("ENVIRONMENT", "development"),
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   getEnv("DATABASE_URL", "smokey.db"),
		BaseURL:       getEnv("BASE_URL", "http://localhost:8080"),
		JWTSecret:     getEnv("JWT_SECRET", "change-me-in-production"),
		JWTExpiration: getEnvAsInt("JWT_EXPIRATION", 24*60*60), // 24 hours in seconds

		AdminPassword: getEnv("ADMIN_PASSWORD", "smokey-admin"),

		// Stripe Configuration
		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		CheckoutSuccessURL:  getEnv("CHECKOUT_SUCCESS_URL", ""),
		CheckoutCancelURL:   getEnv("CHECKOUT_CANCEL_URL", ""),

		// PayNow Configuration
		PayNowUEN:       getEnv("PAYNOW_UEN", ""),
		PayNowRecipient: getEnv("PAYNOW_RECIPIENT", "Smokey's Catering"),

		// Media CDN Configuration
		MediaCloudName:    getEnv("MEDIA_CLOUD_NAME", ""),
		MediaUploadPreset: getEnv("MEDIA_UPLOAD_PRESET", ""),
		MediaUploadURL:    getEnv("MEDIA_UPLOAD_URL", ""),

		// Email Configuration
		SMTPHost:          getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:          getEnvAsInt("SMTP_PORT", 587),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
		ReviewNotifyEmail: getEnv("REVIEW_NOTIFY_EMAIL", ""),

		ReviewWebhookURL: getEnv("REVIEW_WEBHOOK_URL", ""),

		// File Upload Configuration
		MaxFileSize:      getEnvAsInt64("MAX_FILE_SIZE", 25*1024*1024), // 25MB, videos included
		AllowedFileTypes: []string{"image/jpeg", "image/png", "image/webp", "video/mp4"},

		// Rate Limiting Configuration
		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   getEnvAsInt("RATE_LIMIT_WINDOW", 60),

		// CORS Configuration
		AllowedOrigins:  getEnvAsStringSlice("ALLOWED_ORIGINS", []string{}),
		AllowAllOrigins: getEnvAsBool("ALLOW_ALL_ORIGINS", true), // Default to true for development
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

// ServerPort returns the server port
func (c *Config) ServerPort() string {
	return c.Port
}

// MediaEndpoint returns the full upload URL for the media CDN. An explicit
// MEDIA_UPLOAD_URL wins over the cloud-name derived default.
func (c *Config) MediaEndpoint() string {
	if c.MediaUploadURL != "" {
		return c.MediaUploadURL
	}
	if c.MediaCloudName == "" {
		return ""
	}
	return fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/auto/upload", c.MediaCloudName)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("database URL is required")
	}
	if c.AdminPassword == "" {
		return fmt.Errorf("admin password is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}

	return nil
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Environment: %s, Port: %s, DatabaseURL: %s}", c.Environment, c.Port, c.DatabaseURL)
}
