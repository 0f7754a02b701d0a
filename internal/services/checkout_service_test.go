package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smokey-backend/internal/models"
)

type fakePaymentProvider struct {
	sessionID string
	url       string
	err       error
	calls     int
}

func (f *fakePaymentProvider) CreateCheckoutSession(order *models.Order) (string, string, error) {
	f.calls++
	if f.err != nil {
		return "", "", f.err
	}
	return f.sessionID, f.url, nil
}

type recordingPublisher struct {
	events []string
}

func (r *recordingPublisher) PublishOrderEvent(event string, order *models.Order) {
	r.events = append(r.events, event)
}

func seedCart(t *testing.T, carts *CartService, sessionID string) {
	t.Helper()

	_, err := carts.AddItem(sessionID, models.CartItem{
		ProductID: "p1",
		Name:      "Smoked Brisket",
		Price:     models.Price(45),
		Quantity:  2,
		Addons: []models.CartAddon{
			{ID: "a1", Name: "Extra Sauce", Price: models.Price(5), Quantity: 1},
		},
	})
	require.NoError(t, err)
	_, err = carts.AddItem(sessionID, models.CartItem{
		ProductID:  "p2",
		OptionID:   "large",
		OptionName: "Large Tray",
		Name:       "Mac and Cheese",
		Price:      models.Price(48),
		Quantity:   1,
	})
	require.NoError(t, err)
}

func TestCheckoutPayNow(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(NewSQLiteCartPersister(db))
	paynow := NewPayNowService("201912345K", "Smokey's Catering")
	provider := &fakePaymentProvider{}
	publisher := &recordingPublisher{}
	checkout := NewCheckoutService(db, carts, paynow, provider, publisher)

	seedCart(t, carts, "sess-1")

	result, err := checkout.Checkout("sess-1", &models.CheckoutRequest{
		CustomerName:  "Rachel Tan",
		CustomerPhone: "91234567",
		EventDate:     "2026-09-12",
		EventAddress:  "12 Example Ave",
		PaymentMethod: "paynow",
	})
	require.NoError(t, err)

	t.Run("OrderMatchesCart", func(t *testing.T) {
		order := result.Order
		// 2x45 + 5 addon + 48
		assert.Equal(t, 143.0, order.TotalAmount)
		assert.Equal(t, models.OrderStatusPending, order.Status)
		assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
		require.Len(t, order.Items, 2)
		assert.Equal(t, "Mac and Cheese (Large Tray)", order.Items[1].Name)
		require.Len(t, order.Items[0].Addons, 1)
		assert.Equal(t, "Extra Sauce", order.Items[0].Addons[0].Name)
	})

	t.Run("PayNowDetailsReturned", func(t *testing.T) {
		require.NotNil(t, result.PayNow)
		assert.Empty(t, result.RedirectURL)
		assert.Equal(t, 143.0, result.PayNow.Amount)
		assert.True(t, strings.HasPrefix(result.PayNow.Reference, "SMK-"))
		assert.Contains(t, result.PayNow.Payload, "201912345K")
		assert.Zero(t, provider.calls)
	})

	t.Run("OrderIsPersistedWithLines", func(t *testing.T) {
		orders := NewOrderService(db, nil)
		stored, err := orders.GetOrderByID(result.Order.ID)
		require.NoError(t, err)
		assert.Equal(t, 143.0, stored.TotalAmount)
		assert.Len(t, stored.Items, 2)
		assert.Equal(t, "+6591234567", stored.CustomerPhone)
	})

	t.Run("CartIsCleared", func(t *testing.T) {
		cart, err := carts.GetCart("sess-1")
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
	})

	t.Run("OrderCreatedEventPublished", func(t *testing.T) {
		assert.Equal(t, []string{"order_created"}, publisher.events)
	})
}

func TestCheckoutCard(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(NewSQLiteCartPersister(db))
	paynow := NewPayNowService("201912345K", "Smokey's Catering")

	t.Run("SessionSavedAndRedirectReturned", func(t *testing.T) {
		provider := &fakePaymentProvider{sessionID: "cs_test_123", url: "https://checkout.stripe.com/pay/cs_test_123"}
		checkout := NewCheckoutService(db, carts, paynow, provider, nil)

		seedCart(t, carts, "sess-2")
		result, err := checkout.Checkout("sess-2", &models.CheckoutRequest{
			CustomerName:  "Marcus Lim",
			CustomerPhone: "98765432",
			EventDate:     "2026-10-01",
			EventAddress:  "1 Office Park",
			PaymentMethod: "card",
		})
		require.NoError(t, err)

		assert.Nil(t, result.PayNow)
		assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_123", result.RedirectURL)
		assert.Equal(t, 1, provider.calls)

		var stored string
		require.NoError(t, db.QueryRow("SELECT stripe_session_id FROM orders WHERE id = ?", result.Order.ID).Scan(&stored))
		assert.Equal(t, "cs_test_123", stored)
	})

	t.Run("ProviderFailureCancelsOrder", func(t *testing.T) {
		provider := &fakePaymentProvider{err: fmt.Errorf("stripe unreachable")}
		checkout := NewCheckoutService(db, carts, paynow, provider, nil)

		seedCart(t, carts, "sess-3")
		_, err := checkout.Checkout("sess-3", &models.CheckoutRequest{
			CustomerName:  "Marcus Lim",
			CustomerPhone: "98765432",
			EventDate:     "2026-10-01",
			EventAddress:  "1 Office Park",
			PaymentMethod: "card",
		})
		require.Error(t, err)

		var cancelled int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM orders WHERE status = ?", models.OrderStatusCancelled).Scan(&cancelled))
		assert.Equal(t, 1, cancelled)

		// The customer keeps their cart to retry with
		cart, err := carts.GetCart("sess-3")
		require.NoError(t, err)
		assert.NotEmpty(t, cart.Items)
	})
}

func TestCheckoutBadEventDate(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(NewSQLiteCartPersister(db))
	checkout := NewCheckoutService(db, carts, NewPayNowService("", ""), &fakePaymentProvider{}, nil)

	seedCart(t, carts, "sess-4")
	_, err := checkout.Checkout("sess-4", &models.CheckoutRequest{
		CustomerName:  "Rachel Tan",
		CustomerPhone: "91234567",
		EventDate:     "next saturday",
		EventAddress:  "12 Example Ave",
		PaymentMethod: "paynow",
	})
	require.Error(t, err)
	assert.Equal(t, "invalid event date: next saturday", err.Error())

	// Nothing was written and the cart survives for a corrected retry
	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM orders").Scan(&count))
	assert.Zero(t, count)

	cart, err := carts.GetCart("sess-4")
	require.NoError(t, err)
	assert.NotEmpty(t, cart.Items)
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(NewSQLiteCartPersister(db))
	checkout := NewCheckoutService(db, carts, NewPayNowService("", ""), &fakePaymentProvider{}, nil)

	_, err := checkout.Checkout("nobody", &models.CheckoutRequest{
		CustomerName:  "Ghost",
		CustomerPhone: "90000000",
		EventDate:     "2026-01-01",
		EventAddress:  "Nowhere",
		PaymentMethod: "paynow",
	})
	require.Error(t, err)
	assert.Equal(t, "cart is empty", err.Error())

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM orders").Scan(&count))
	assert.Zero(t, count)
}
