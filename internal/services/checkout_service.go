package services

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"smokey-backend/internal/models"
	"smokey-backend/internal/utils"
)

// PaymentProvider creates hosted payment sessions for card orders
type PaymentProvider interface {
	CreateCheckoutSession(order *models.Order) (sessionID, redirectURL string, err error)
}

// OrderEventPublisher pushes order lifecycle events to connected
// back-office dashboards
type OrderEventPublisher interface {
	PublishOrderEvent(event string, order *models.Order)
}

// CheckoutService turns a session cart into an order
type CheckoutService struct {
	db       *sql.DB
	carts    *CartService
	paynow   *PayNowService
	payments PaymentProvider
	events   OrderEventPublisher
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(db *sql.DB, carts *CartService, paynow *PayNowService, payments PaymentProvider, events OrderEventPublisher) *CheckoutService {
	return &CheckoutService{
		db:       db,
		carts:    carts,
		paynow:   paynow,
		payments: payments,
		events:   events,
	}
}

// Checkout places an order from the session cart. The order, its lines and
// their add-ons are written in a single transaction; a failure anywhere
// leaves no partial order behind. Line prices are taken from the cart as-is,
// so the amount the customer saw is the amount charged.
func (s *CheckoutService) Checkout(sessionID string, req *models.CheckoutRequest) (*models.CheckoutResult, error) {
	cart, err := s.carts.GetCart(sessionID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}
	if _, err := utils.ParseDate(req.EventDate); err != nil {
		return nil, fmt.Errorf("invalid event date: %s", req.EventDate)
	}

	now := time.Now()
	order := &models.Order{
		ID:            uuid.New().String(),
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: utils.FormatPhoneNumber(req.CustomerPhone),
		EventDate:     req.EventDate,
		EventTime:     req.EventTime,
		EventAddress:  req.EventAddress,
		Notes:         req.Notes,
		TotalAmount:   utils.RoundToDecimalPlaces(cart.TotalPrice(), 2),
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.insertOrder(order, cart); err != nil {
		return nil, err
	}

	result := &models.CheckoutResult{Order: order}

	switch order.PaymentMethod {
	case models.PaymentMethodPayNow:
		result.PayNow = s.paynow.BuildQR(order.TotalAmount, orderReference(order.ID))

	case models.PaymentMethodCard:
		sessionID, redirectURL, err := s.payments.CreateCheckoutSession(order)
		if err != nil {
			// The order is already committed; cancel it so it does not
			// linger as payable
			if cancelErr := s.cancelOrder(order.ID); cancelErr != nil {
				log.Printf("Failed to cancel order %s after session error: %v", order.ID, cancelErr)
			}
			return nil, fmt.Errorf("failed to create payment session: %w", err)
		}
		order.StripeSessionID = sessionID
		result.RedirectURL = redirectURL
		if err := s.saveStripeSession(order.ID, sessionID); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unsupported payment method: %s", order.PaymentMethod)
	}

	if err := s.carts.ClearCart(sessionID); err != nil {
		// The order stands; losing the clear only leaves a stale cart
		log.Printf("Failed to clear cart for session %s: %v", sessionID, err)
	}

	if s.events != nil {
		s.events.PublishOrderEvent("order_created", order)
	}

	return result, nil
}

func (s *CheckoutService) insertOrder(order *models.Order, cart *models.Cart) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO orders (id, customer_name, customer_email, customer_phone,
			event_date, event_time, event_address, notes, total_amount,
			payment_method, status, payment_status, stripe_session_id,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		order.ID, order.CustomerName, order.CustomerEmail, order.CustomerPhone,
		order.EventDate, order.EventTime, order.EventAddress, order.Notes,
		order.TotalAmount, order.PaymentMethod, order.Status,
		order.PaymentStatus, order.StripeSessionID, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	for _, cartItem := range cart.Items {
		item := models.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			ProductID: cartItem.ProductID,
			Name:      orderItemName(&cartItem),
			Price:     cartItem.Price.Amount(),
			Quantity:  cartItem.Quantity,
		}

		_, err = tx.Exec(`
			INSERT INTO order_items (id, order_id, product_id, name, price, quantity)
			VALUES (?, ?, ?, ?, ?, ?)
		`, item.ID, item.OrderID, item.ProductID, item.Name, item.Price, item.Quantity)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}

		for _, cartAddon := range cartItem.Addons {
			qty := cartAddon.Quantity
			if qty <= 0 {
				qty = 1
			}
			addon := models.OrderItemAddon{
				ID:          uuid.New().String(),
				OrderItemID: item.ID,
				Name:        cartAddon.Name,
				Price:       cartAddon.Price.Amount(),
				Quantity:    qty,
			}
			_, err = tx.Exec(`
				INSERT INTO order_item_addons (id, order_item_id, name, price, quantity)
				VALUES (?, ?, ?, ?, ?)
			`, addon.ID, addon.OrderItemID, addon.Name, addon.Price, addon.Quantity)
			if err != nil {
				return fmt.Errorf("failed to create order item add-on: %w", err)
			}
			item.Addons = append(item.Addons, addon)
		}

		order.Items = append(order.Items, item)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	return nil
}

func (s *CheckoutService) saveStripeSession(orderID, stripeSessionID string) error {
	_, err := s.db.Exec(
		"UPDATE orders SET stripe_session_id = ?, updated_at = ? WHERE id = ?",
		stripeSessionID, time.Now(), orderID,
	)
	if err != nil {
		return fmt.Errorf("failed to save payment session: %w", err)
	}
	return nil
}

func (s *CheckoutService) cancelOrder(orderID string) error {
	_, err := s.db.Exec(
		"UPDATE orders SET status = ?, updated_at = ? WHERE id = ?",
		models.OrderStatusCancelled, time.Now(), orderID,
	)
	return err
}

// orderReference derives the short reference customers quote on transfers
func orderReference(orderID string) string {
	ref := strings.ToUpper(strings.ReplaceAll(orderID, "-", ""))
	if len(ref) > 8 {
		ref = ref[:8]
	}
	return "SMK-" + ref
}

// orderItemName renders the line name including the selected option
func orderItemName(item *models.CartItem) string {
	if item.OptionName != "" {
		return item.Name + " (" + item.OptionName + ")"
	}
	return item.Name
}
