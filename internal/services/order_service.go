package services

import (
	"database/sql"
	"fmt"
	"time"

	"smokey-backend/internal/models"
)

// OrderService handles back-office order management
type OrderService struct {
	db     *sql.DB
	events OrderEventPublisher
}

// NewOrderService creates a new order service
func NewOrderService(db *sql.DB, events OrderEventPublisher) *OrderService {
	return &OrderService{db: db, events: events}
}

// GetOrders retrieves orders newest first, optionally filtered by status
// and payment status
func (s *OrderService) GetOrders(status, paymentStatus string) ([]*models.Order, error) {
	query := `
		SELECT id, customer_name, customer_email, customer_phone, event_date,
			   event_time, event_address, notes, total_amount, payment_method,
			   status, payment_status, stripe_session_id, created_at, updated_at
		FROM orders
	`
	var conditions []string
	var args []interface{}
	if status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, status)
	}
	if paymentStatus != "" {
		conditions = append(conditions, "payment_status = ?")
		args = append(args, paymentStatus)
	}
	for i, condition := range conditions {
		if i == 0 {
			query += " WHERE " + condition
		} else {
			query += " AND " + condition
		}
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		err := rows.Scan(
			&order.ID, &order.CustomerName, &order.CustomerEmail, &order.CustomerPhone,
			&order.EventDate, &order.EventTime, &order.EventAddress, &order.Notes,
			&order.TotalAmount, &order.PaymentMethod, &order.Status,
			&order.PaymentStatus, &order.StripeSessionID, &order.CreatedAt, &order.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}

	return orders, nil
}

// GetOrderByID retrieves an order with its items and add-ons
func (s *OrderService) GetOrderByID(orderID string) (*models.Order, error) {
	order := &models.Order{}
	err := s.db.QueryRow(`
		SELECT id, customer_name, customer_email, customer_phone, event_date,
			   event_time, event_address, notes, total_amount, payment_method,
			   status, payment_status, stripe_session_id, created_at, updated_at
		FROM orders WHERE id = ?
	`, orderID).Scan(
		&order.ID, &order.CustomerName, &order.CustomerEmail, &order.CustomerPhone,
		&order.EventDate, &order.EventTime, &order.EventAddress, &order.Notes,
		&order.TotalAmount, &order.PaymentMethod, &order.Status,
		&order.PaymentStatus, &order.StripeSessionID, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("order not found")
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if err := s.loadItems(order); err != nil {
		return nil, err
	}

	return order, nil
}

// GetOrderByStripeSession retrieves the order a checkout session belongs to
func (s *OrderService) GetOrderByStripeSession(stripeSessionID string) (*models.Order, error) {
	var orderID string
	err := s.db.QueryRow("SELECT id FROM orders WHERE stripe_session_id = ?", stripeSessionID).Scan(&orderID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("order not found")
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return s.GetOrderByID(orderID)
}

func (s *OrderService) loadItems(order *models.Order) error {
	rows, err := s.db.Query(`
		SELECT id, order_id, product_id, name, price, quantity
		FROM order_items WHERE order_id = ?
	`, order.ID)
	if err != nil {
		return fmt.Errorf("failed to get order items: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*models.OrderItem)
	for rows.Next() {
		item := models.OrderItem{}
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.Price, &item.Quantity)
		if err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
		byID[item.ID] = &order.Items[len(order.Items)-1]
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read order items: %w", err)
	}

	addonRows, err := s.db.Query(`
		SELECT a.id, a.order_item_id, a.name, a.price, a.quantity
		FROM order_item_addons a
		JOIN order_items i ON i.id = a.order_item_id
		WHERE i.order_id = ?
	`, order.ID)
	if err != nil {
		return fmt.Errorf("failed to get order item add-ons: %w", err)
	}
	defer addonRows.Close()

	for addonRows.Next() {
		addon := models.OrderItemAddon{}
		err := addonRows.Scan(&addon.ID, &addon.OrderItemID, &addon.Name, &addon.Price, &addon.Quantity)
		if err != nil {
			return fmt.Errorf("failed to scan order item add-on: %w", err)
		}
		if item, ok := byID[addon.OrderItemID]; ok {
			item.Addons = append(item.Addons, addon)
		}
	}
	return addonRows.Err()
}

// UpdateOrderStatus updates the fulfilment status of an order
func (s *OrderService) UpdateOrderStatus(orderID string, status models.OrderStatus) (*models.Order, error) {
	if !models.ValidOrderStatus(string(status)) {
		return nil, fmt.Errorf("invalid order status: %s", status)
	}

	result, err := s.db.Exec(
		"UPDATE orders SET status = ?, updated_at = ? WHERE id = ?",
		status, time.Now(), orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("order not found")
	}

	order, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.PublishOrderEvent("status_update", order)
	}

	return order, nil
}

// UpdatePaymentStatus updates the payment status of an order. Moving to paid
// also confirms a still-pending order.
func (s *OrderService) UpdatePaymentStatus(orderID string, paymentStatus models.PaymentStatus) (*models.Order, error) {
	if !models.ValidPaymentStatus(string(paymentStatus)) {
		return nil, fmt.Errorf("invalid payment status: %s", paymentStatus)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		"UPDATE orders SET payment_status = ?, updated_at = ? WHERE id = ?",
		paymentStatus, time.Now(), orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("order not found")
	}

	if paymentStatus == models.PaymentStatusPaid {
		_, err = tx.Exec(
			"UPDATE orders SET status = ?, updated_at = ? WHERE id = ? AND status = ?",
			models.OrderStatusConfirmed, time.Now(), orderID, models.OrderStatusPending,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to confirm order: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit payment status: %w", err)
	}

	order, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.PublishOrderEvent("payment_update", order)
	}

	return order, nil
}
