package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v80"

	"smokey-backend/internal/models"
)

const testWebhookSecret = "whsec_test_secret"

// signWebhook produces a Stripe-Signature header the way Stripe signs
// deliveries: HMAC-SHA256 over "<timestamp>.<payload>"
func signWebhook(payload []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func sessionEvent(eventType, orderID string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_test_1",
		"type": %q,
		"api_version": %q,
		"data": {
			"object": {
				"id": "cs_test_webhook",
				"object": "checkout.session",
				"metadata": {"order_id": %q}
			}
		}
	}`, eventType, stripe.APIVersion, orderID))
}

func insertTestOrder(t *testing.T, db *sql.DB, id string) {
	t.Helper()

	now := time.Now()
	_, err := db.Exec(`
		INSERT INTO orders (id, customer_name, customer_email, customer_phone,
			event_date, event_time, event_address, notes, total_amount,
			payment_method, status, payment_status, stripe_session_id,
			created_at, updated_at)
		VALUES (?, 'Rachel Tan', '', '+6591234567', '2026-09-12', '', '12 Example Ave',
			'', 143.0, 'card', 'pending', 'pending', 'cs_test_webhook', ?, ?)
	`, id, now, now)
	require.NoError(t, err)
}

func orderState(t *testing.T, db *sql.DB, id string) (status, paymentStatus string) {
	t.Helper()
	require.NoError(t, db.QueryRow(
		"SELECT status, payment_status FROM orders WHERE id = ?", id,
	).Scan(&status, &paymentStatus))
	return status, paymentStatus
}

func TestHandleWebhook(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderService(db, nil)
	payments := NewPaymentService("sk_test_x", testWebhookSecret, "http://localhost/success", "http://localhost/cancel", orders)

	t.Run("CompletedMarksPaidAndConfirms", func(t *testing.T) {
		insertTestOrder(t, db, "order-paid")

		payload := sessionEvent("checkout.session.completed", "order-paid")
		err := payments.HandleWebhook(payload, signWebhook(payload, testWebhookSecret, time.Now()))
		require.NoError(t, err)

		status, paymentStatus := orderState(t, db, "order-paid")
		assert.Equal(t, string(models.PaymentStatusPaid), paymentStatus)
		assert.Equal(t, string(models.OrderStatusConfirmed), status)
	})

	t.Run("RedeliveryIsIdempotent", func(t *testing.T) {
		payload := sessionEvent("checkout.session.completed", "order-paid")
		err := payments.HandleWebhook(payload, signWebhook(payload, testWebhookSecret, time.Now()))
		require.NoError(t, err)

		_, paymentStatus := orderState(t, db, "order-paid")
		assert.Equal(t, string(models.PaymentStatusPaid), paymentStatus)
	})

	t.Run("ExpiredMarksExpired", func(t *testing.T) {
		insertTestOrder(t, db, "order-expired")

		payload := sessionEvent("checkout.session.expired", "order-expired")
		err := payments.HandleWebhook(payload, signWebhook(payload, testWebhookSecret, time.Now()))
		require.NoError(t, err)

		status, paymentStatus := orderState(t, db, "order-expired")
		assert.Equal(t, string(models.PaymentStatusExpired), paymentStatus)
		// Expiry never touches the fulfilment status
		assert.Equal(t, string(models.OrderStatusPending), status)
	})

	t.Run("BadSignatureRejectedWithoutMutation", func(t *testing.T) {
		insertTestOrder(t, db, "order-untouched")

		payload := sessionEvent("checkout.session.completed", "order-untouched")
		err := payments.HandleWebhook(payload, signWebhook(payload, "whsec_wrong_secret", time.Now()))
		require.ErrorIs(t, err, ErrInvalidSignature)

		status, paymentStatus := orderState(t, db, "order-untouched")
		assert.Equal(t, string(models.OrderStatusPending), status)
		assert.Equal(t, string(models.PaymentStatusPending), paymentStatus)
	})

	t.Run("StaleTimestampRejected", func(t *testing.T) {
		payload := sessionEvent("checkout.session.completed", "order-untouched")
		err := payments.HandleWebhook(payload, signWebhook(payload, testWebhookSecret, time.Now().Add(-time.Hour)))
		require.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("UnknownEventTypeAcknowledged", func(t *testing.T) {
		payload := []byte(fmt.Sprintf(`{"id": "evt_test_2", "type": "invoice.created", "api_version": %q, "data": {"object": {}}}`, stripe.APIVersion))
		err := payments.HandleWebhook(payload, signWebhook(payload, testWebhookSecret, time.Now()))
		assert.NoError(t, err)
	})
}
