package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"smokey-backend/internal/models"
)

// CartPersister stores cart blobs keyed by storefront session id
type CartPersister interface {
	Load(sessionID string) ([]byte, error)
	Save(sessionID string, data []byte) error
	Delete(sessionID string) error
}

// CartService handles session carts. Carts are stored as a single JSON blob
// per session; a blob that fails to decode is treated as an empty cart
// rather than surfaced as an error.
type CartService struct {
	persister CartPersister
}

// NewCartService creates a new cart service
func NewCartService(persister CartPersister) *CartService {
	return &CartService{persister: persister}
}

// GetCart retrieves the cart for a session, empty if none exists
func (s *CartService) GetCart(sessionID string) (*models.Cart, error) {
	data, err := s.persister.Load(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	cart := &models.Cart{Items: []models.CartItem{}}
	if len(data) == 0 {
		return cart, nil
	}

	if err := json.Unmarshal(data, &cart.Items); err != nil {
		// Corrupt blob: reset to empty rather than locking the session out
		log.Printf("Discarding malformed cart for session %s: %v", sessionID, err)
		cart.Items = []models.CartItem{}
	}

	return cart, nil
}

// AddItem adds an item to the cart, merging with an existing line when the
// product, option and add-on set all match
func (s *CartService) AddItem(sessionID string, item models.CartItem) (*models.Cart, error) {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}

	cart, err := s.GetCart(sessionID)
	if err != nil {
		return nil, err
	}

	key := item.LineKey()
	merged := false
	for i := range cart.Items {
		if cart.Items[i].LineKey() == key {
			cart.Items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, item)
	}

	if err := s.save(sessionID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// SetQuantity sets the quantity of a cart line. Zero or negative removes
// the line.
func (s *CartService) SetQuantity(sessionID, lineKey string, quantity int) (*models.Cart, error) {
	cart, err := s.GetCart(sessionID)
	if err != nil {
		return nil, err
	}

	found := false
	items := cart.Items[:0]
	for _, item := range cart.Items {
		if item.LineKey() == lineKey {
			found = true
			if quantity <= 0 {
				continue
			}
			item.Quantity = quantity
		}
		items = append(items, item)
	}
	cart.Items = items

	if !found {
		return nil, fmt.Errorf("cart item not found")
	}

	if err := s.save(sessionID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem removes a cart line
func (s *CartService) RemoveItem(sessionID, lineKey string) (*models.Cart, error) {
	return s.SetQuantity(sessionID, lineKey, 0)
}

// ClearCart empties the cart for a session
func (s *CartService) ClearCart(sessionID string) error {
	if err := s.persister.Delete(sessionID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (s *CartService) save(sessionID string, cart *models.Cart) error {
	data, err := json.Marshal(cart.Items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.persister.Save(sessionID, data); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// SQLiteCartPersister stores cart blobs in the carts table
type SQLiteCartPersister struct {
	db *sql.DB
}

// NewSQLiteCartPersister creates a persister backed by the carts table
func NewSQLiteCartPersister(db *sql.DB) *SQLiteCartPersister {
	return &SQLiteCartPersister{db: db}
}

// Load returns the stored blob for a session, nil if none exists
func (p *SQLiteCartPersister) Load(sessionID string) ([]byte, error) {
	var items string
	err := p.db.QueryRow("SELECT items FROM carts WHERE session_id = ?", sessionID).Scan(&items)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return []byte(items), nil
}

// Save upserts the blob for a session
func (p *SQLiteCartPersister) Save(sessionID string, data []byte) error {
	_, err := p.db.Exec(`
		INSERT INTO carts (session_id, items, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET items = excluded.items, updated_at = excluded.updated_at
	`, sessionID, string(data), time.Now())
	return err
}

// Delete removes the stored cart for a session
func (p *SQLiteCartPersister) Delete(sessionID string) error {
	_, err := p.db.Exec("DELETE FROM carts WHERE session_id = ?", sessionID)
	return err
}
