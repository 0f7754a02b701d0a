package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"smokey-backend/internal/models"
)

// ReviewService accepts customer reviews and relays them to the owner.
// Submissions land unpublished; an admin activates them before they show
// on the storefront.
type ReviewService struct {
	catalog     *CatalogService
	email       *EmailService
	notifyEmail string
	webhookURL  string
	client      *http.Client
}

// NewReviewService creates a new review service
func NewReviewService(catalog *CatalogService, email *EmailService, notifyEmail, webhookURL string) *ReviewService {
	return &ReviewService{
		catalog:     catalog,
		email:       email,
		notifyEmail: notifyEmail,
		webhookURL:  webhookURL,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// SubmitReview stores a review for moderation and notifies the owner.
// Relay failures are logged, never surfaced: the customer's submission
// succeeded the moment it was stored.
func (s *ReviewService) SubmitReview(input *models.TestimonialCreation) (*models.Testimonial, error) {
	input.IsActive = false
	testimonial, err := s.catalog.CreateTestimonial(input)
	if err != nil {
		return nil, err
	}

	go s.relay(testimonial)

	return testimonial, nil
}

func (s *ReviewService) relay(testimonial *models.Testimonial) {
	if s.notifyEmail != "" {
		if err := s.email.SendReviewNotification(s.notifyEmail, testimonial); err != nil {
			log.Printf("Failed to send review notification email: %v", err)
		}
	}

	if s.webhookURL != "" {
		if err := s.postWebhook(testimonial); err != nil {
			log.Printf("Failed to post review webhook: %v", err)
		}
	}
}

func (s *ReviewService) postWebhook(testimonial *models.Testimonial) error {
	payload, err := json.Marshal(map[string]interface{}{
		"type":        "review_submitted",
		"testimonial": testimonial,
	})
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	resp, err := s.client.Post(s.webhookURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
