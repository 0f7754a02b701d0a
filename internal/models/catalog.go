package models

import "time"

// Category represents a menu category. Products reference categories by name
// rather than by id; a renamed or deleted category leaves its products
// grouped under "Uncategorized".
type Category struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	DisplayOrder int       `json:"displayOrder" db:"display_order"`
	IsActive     bool      `json:"isActive" db:"is_active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// ProductOption represents a selectable variant of a product (e.g. a larger
// pack size) with its own price.
type ProductOption struct {
	ID            string   `json:"id" db:"id"`
	ProductID     string   `json:"productId" db:"product_id"`
	Name          string   `json:"name" db:"name"`
	Price         float64  `json:"price" db:"price"`
	OriginalPrice *float64 `json:"originalPrice,omitempty" db:"original_price"`
	DisplayOrder  int      `json:"displayOrder" db:"display_order"`
	IsDefault     bool     `json:"isDefault" db:"is_default"`
}

// ProductAddon represents an optional extra attachable to a product,
// priced independently.
type ProductAddon struct {
	ID           string  `json:"id" db:"id"`
	ProductID    string  `json:"productId" db:"product_id"`
	Name         string  `json:"name" db:"name"`
	Price        float64 `json:"price" db:"price"`
	DisplayOrder int     `json:"displayOrder" db:"display_order"`
}

// Product represents a catalog item
type Product struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	Category    string    `json:"category" db:"category"`
	ImageURL    string    `json:"imageUrl" db:"image_url"`
	MinPax      int       `json:"minPax" db:"min_pax"`
	IsPopular   bool      `json:"isPopular" db:"is_popular"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	Unit        string    `json:"unit" db:"unit"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	// Nested collections (populated when needed)
	Options []ProductOption `json:"options,omitempty"`
	Addons  []ProductAddon  `json:"addons,omitempty"`
}

// Testimonial represents a customer review shown in the public carousel
// once an admin activates it.
type Testimonial struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Event     string    `json:"event" db:"event"`
	Quote     string    `json:"quote" db:"quote"`
	Rating    int       `json:"rating" db:"rating"`
	IsActive  bool      `json:"isActive" db:"is_active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// MenuSection groups active products under a category name for the public menu
type MenuSection struct {
	Category string     `json:"category"`
	Products []*Product `json:"products"`
}

// UncategorizedSection is where products whose category no longer matches an
// existing category name end up.
const UncategorizedSection = "Uncategorized"

// ProductOptionInput is the nested option payload for product create/update
type ProductOptionInput struct {
	Name          string   `json:"name" binding:"required"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"originalPrice"`
	DisplayOrder  int      `json:"displayOrder"`
	IsDefault     bool     `json:"isDefault"`
}

// ProductAddonInput is the nested add-on payload for product create/update
type ProductAddonInput struct {
	Name         string  `json:"name" binding:"required"`
	Price        float64 `json:"price"`
	DisplayOrder int     `json:"displayOrder"`
}

// ProductCreation is the payload for creating or updating a product
type ProductCreation struct {
	Name        string               `json:"name" binding:"required"`
	Description string               `json:"description"`
	Price       float64              `json:"price"`
	Category    string               `json:"category"`
	ImageURL    string               `json:"imageUrl"`
	MinPax      int                  `json:"minPax"`
	IsPopular   bool                 `json:"isPopular"`
	IsActive    *bool                `json:"isActive"`
	Unit        string               `json:"unit"`
	Options     []ProductOptionInput `json:"options"`
	Addons      []ProductAddonInput  `json:"addons"`
}

// Active reports the requested active flag, defaulting to true
func (c *ProductCreation) Active() bool {
	if c.IsActive == nil {
		return true
	}
	return *c.IsActive
}

// CategoryCreation is the payload for creating or updating a category
type CategoryCreation struct {
	Name         string `json:"name" binding:"required"`
	DisplayOrder int    `json:"displayOrder"`
	IsActive     *bool  `json:"isActive"`
}

// Active reports the requested active flag, defaulting to true
func (c *CategoryCreation) Active() bool {
	if c.IsActive == nil {
		return true
	}
	return *c.IsActive
}

// TestimonialCreation is the payload for creating or updating a testimonial
type TestimonialCreation struct {
	Name     string `json:"name" binding:"required"`
	Event    string `json:"event"`
	Quote    string `json:"quote" binding:"required"`
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	IsActive bool   `json:"isActive"`
}
