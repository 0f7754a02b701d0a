package models

import "time"

// OrderStatus represents order fulfilment status
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is a known order status
func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusReady, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// PaymentStatus represents payment status
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusExpired PaymentStatus = "expired"
)

// ValidPaymentStatus reports whether s is a known payment status
func ValidPaymentStatus(s string) bool {
	switch PaymentStatus(s) {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusExpired:
		return true
	}
	return false
}

// PaymentMethod represents how the customer chose to pay
type PaymentMethod string

const (
	PaymentMethodPayNow PaymentMethod = "paynow"
	PaymentMethodCard   PaymentMethod = "card"
)

// OrderItemAddon is an add-on captured on an order line at order time
type OrderItemAddon struct {
	ID          string  `json:"id" db:"id"`
	OrderItemID string  `json:"orderItemId" db:"order_item_id"`
	Name        string  `json:"name" db:"name"`
	Price       float64 `json:"price" db:"price"`
	Quantity    int     `json:"quantity" db:"quantity"`
}

// OrderItem is a product line captured on an order at order time. Name and
// price are snapshots; later catalog edits do not touch placed orders.
type OrderItem struct {
	ID        string           `json:"id" db:"id"`
	OrderID   string           `json:"orderId" db:"order_id"`
	ProductID string           `json:"productId" db:"product_id"`
	Name      string           `json:"name" db:"name"`
	Price     float64          `json:"price" db:"price"`
	Quantity  int              `json:"quantity" db:"quantity"`
	Addons    []OrderItemAddon `json:"addons,omitempty"`
}

// Order represents a customer order
type Order struct {
	ID              string        `json:"id" db:"id"`
	CustomerName    string        `json:"customerName" db:"customer_name"`
	CustomerEmail   string        `json:"customerEmail" db:"customer_email"`
	CustomerPhone   string        `json:"customerPhone" db:"customer_phone"`
	EventDate       string        `json:"eventDate" db:"event_date"`
	EventTime       string        `json:"eventTime" db:"event_time"`
	EventAddress    string        `json:"eventAddress" db:"event_address"`
	Notes           string        `json:"notes" db:"notes"`
	TotalAmount     float64       `json:"totalAmount" db:"total_amount"`
	PaymentMethod   PaymentMethod `json:"paymentMethod" db:"payment_method"`
	Status          OrderStatus   `json:"status" db:"status"`
	PaymentStatus   PaymentStatus `json:"paymentStatus" db:"payment_status"`
	StripeSessionID string        `json:"stripeSessionId,omitempty" db:"stripe_session_id"`
	CreatedAt       time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time     `json:"updatedAt" db:"updated_at"`

	Items []OrderItem `json:"items,omitempty"`
}

// CheckoutRequest is the payload for placing an order
type CheckoutRequest struct {
	CustomerName  string `json:"customerName" binding:"required"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone" binding:"required"`
	EventDate     string `json:"eventDate" binding:"required"`
	EventTime     string `json:"eventTime"`
	EventAddress  string `json:"eventAddress" binding:"required"`
	Notes         string `json:"notes"`
	PaymentMethod string `json:"paymentMethod" binding:"required,oneof=paynow card"`
}

// PayNowDetails carries what the customer needs to complete a PayNow
// transfer: the QR payload to render and the reference to quote.
type PayNowDetails struct {
	Payload   string  `json:"payload"`
	UEN       string  `json:"uen"`
	Recipient string  `json:"recipient"`
	Reference string  `json:"reference"`
	Amount    float64 `json:"amount"`
}

// CheckoutResult is returned by order placement. Exactly one of PayNow or
// RedirectURL is set depending on the payment method.
type CheckoutResult struct {
	Order       *Order         `json:"order"`
	PayNow      *PayNowDetails `json:"paynow,omitempty"`
	RedirectURL string         `json:"redirectUrl,omitempty"`
}
