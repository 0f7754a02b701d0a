package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/webhook"

	"smokey-backend/internal/models"
)

// ErrInvalidSignature is returned when a webhook payload fails signature
// verification
var ErrInvalidSignature = errors.New("invalid webhook signature")

// PaymentService handles Stripe checkout sessions and webhooks
type PaymentService struct {
	webhookSecret string
	successURL    string
	cancelURL     string
	orders        *OrderService
}

// NewPaymentService creates a new payment service and sets the global
// Stripe API key
func NewPaymentService(secretKey, webhookSecret, successURL, cancelURL string, orders *OrderService) *PaymentService {
	stripe.Key = secretKey
	return &PaymentService{
		webhookSecret: webhookSecret,
		successURL:    successURL,
		cancelURL:     cancelURL,
		orders:        orders,
	}
}

// CreateCheckoutSession creates a hosted checkout session for an order and
// returns the session id and redirect URL
func (s *PaymentService) CreateCheckoutSession(order *models.Order) (string, string, error) {
	var lineItems []*stripe.CheckoutSessionLineItemParams
	for _, item := range order.Items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String("sgd"),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
				UnitAmount: stripe.Int64(toCents(item.Price)),
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
		for _, addon := range item.Addons {
			lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("sgd"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(item.Name + " + " + addon.Name),
					},
					UnitAmount: stripe.Int64(toCents(addon.Price)),
				},
				Quantity: stripe.Int64(int64(addon.Quantity)),
			})
		}
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripe.String(s.successURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(s.cancelURL),
	}
	params.AddMetadata("order_id", order.ID)
	if order.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(order.CustomerEmail)
	}

	sess, err := session.New(params)
	if err != nil {
		return "", "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	return sess.ID, sess.URL, nil
}

// VerifySession checks a checkout session against Stripe and, when paid,
// marks the order accordingly. Used by the success page so a customer who
// returns before the webhook lands still sees a paid order.
func (s *PaymentService) VerifySession(sessionID string) (*models.Order, error) {
	sess, err := session.Get(sessionID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get checkout session: %w", err)
	}

	orderID := sess.Metadata["order_id"]
	if orderID == "" {
		return nil, fmt.Errorf("session has no order reference")
	}

	order, err := s.orders.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}

	if sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid &&
		order.PaymentStatus != models.PaymentStatusPaid {
		return s.orders.UpdatePaymentStatus(orderID, models.PaymentStatusPaid)
	}

	return order, nil
}

// HandleWebhook verifies and processes a Stripe webhook delivery.
// A signature failure returns ErrInvalidSignature and mutates nothing.
// Event types we do not handle are acknowledged without action so Stripe
// stops retrying them.
func (s *PaymentService) HandleWebhook(payload []byte, signatureHeader string) error {
	event, err := webhook.ConstructEvent(payload, signatureHeader, s.webhookSecret)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	switch event.Type {
	case "checkout.session.completed":
		return s.handleSessionEvent(event, models.PaymentStatusPaid)
	case "checkout.session.expired":
		return s.handleSessionEvent(event, models.PaymentStatusExpired)
	default:
		log.Printf("Ignoring webhook event %s", event.Type)
		return nil
	}
}

func (s *PaymentService) handleSessionEvent(event stripe.Event, paymentStatus models.PaymentStatus) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return fmt.Errorf("failed to decode session event: %w", err)
	}

	orderID := sess.Metadata["order_id"]
	if orderID == "" {
		log.Printf("Webhook session %s carries no order reference", sess.ID)
		return nil
	}

	order, err := s.orders.GetOrderByID(orderID)
	if err != nil {
		return err
	}
	// Deliveries can repeat; a settled order is left alone
	if order.PaymentStatus == paymentStatus {
		return nil
	}

	if _, err := s.orders.UpdatePaymentStatus(orderID, paymentStatus); err != nil {
		return err
	}
	return nil
}

// toCents converts a dollar amount to integer cents
func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
