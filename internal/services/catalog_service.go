package services

import (
	"database/sql"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"smokey-backend/internal/models"
)

// CatalogService handles products, categories and testimonials
type CatalogService struct {
	db *sql.DB
}

// NewCatalogService creates a new catalog service
func NewCatalogService(db *sql.DB) *CatalogService {
	return &CatalogService{db: db}
}

// GetProducts retrieves products with their options and add-ons. Public
// callers pass includeInactive=false and never see an error: a failed or
// empty read falls back to the static dataset so the storefront always has
// a menu to render.
func (s *CatalogService) GetProducts(includeInactive bool) []*models.Product {
	products, err := s.queryProducts(includeInactive)
	if err != nil {
		log.Printf("Failed to load products, serving fallback: %v", err)
		return models.FallbackProducts()
	}
	if len(products) == 0 {
		return models.FallbackProducts()
	}
	return products
}

// ListProducts retrieves all products for the back office, errors included
func (s *CatalogService) ListProducts() ([]*models.Product, error) {
	return s.queryProducts(true)
}

func (s *CatalogService) queryProducts(includeInactive bool) ([]*models.Product, error) {
	query := `
		SELECT id, name, description, price, category, image_url, min_pax,
			   is_popular, is_active, unit, created_at, updated_at
		FROM products
	`
	if !includeInactive {
		query += " WHERE is_active = 1"
	}
	query += " ORDER BY price ASC, name ASC"

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	byID := make(map[string]*models.Product)
	for rows.Next() {
		product := &models.Product{}
		err := rows.Scan(
			&product.ID, &product.Name, &product.Description, &product.Price,
			&product.Category, &product.ImageURL, &product.MinPax,
			&product.IsPopular, &product.IsActive, &product.Unit,
			&product.CreatedAt, &product.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
		byID[product.ID] = product
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}

	if err := s.attachOptions(byID); err != nil {
		return nil, err
	}
	if err := s.attachAddons(byID); err != nil {
		return nil, err
	}

	return products, nil
}

func (s *CatalogService) attachOptions(products map[string]*models.Product) error {
	rows, err := s.db.Query(`
		SELECT id, product_id, name, price, original_price, display_order, is_default
		FROM product_options ORDER BY display_order ASC, name ASC
	`)
	if err != nil {
		return fmt.Errorf("failed to get product options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		option := models.ProductOption{}
		err := rows.Scan(
			&option.ID, &option.ProductID, &option.Name, &option.Price,
			&option.OriginalPrice, &option.DisplayOrder, &option.IsDefault,
		)
		if err != nil {
			return fmt.Errorf("failed to scan product option: %w", err)
		}
		if product, ok := products[option.ProductID]; ok {
			product.Options = append(product.Options, option)
		}
	}
	return rows.Err()
}

func (s *CatalogService) attachAddons(products map[string]*models.Product) error {
	rows, err := s.db.Query(`
		SELECT id, product_id, name, price, display_order
		FROM product_addons ORDER BY display_order ASC, name ASC
	`)
	if err != nil {
		return fmt.Errorf("failed to get product add-ons: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		addon := models.ProductAddon{}
		err := rows.Scan(&addon.ID, &addon.ProductID, &addon.Name, &addon.Price, &addon.DisplayOrder)
		if err != nil {
			return fmt.Errorf("failed to scan product add-on: %w", err)
		}
		if product, ok := products[addon.ProductID]; ok {
			product.Addons = append(product.Addons, addon)
		}
	}
	return rows.Err()
}

// GetProductByID retrieves a single product with options and add-ons
func (s *CatalogService) GetProductByID(productID string) (*models.Product, error) {
	query := `
		SELECT id, name, description, price, category, image_url, min_pax,
			   is_popular, is_active, unit, created_at, updated_at
		FROM products WHERE id = ?
	`

	product := &models.Product{}
	err := s.db.QueryRow(query, productID).Scan(
		&product.ID, &product.Name, &product.Description, &product.Price,
		&product.Category, &product.ImageURL, &product.MinPax,
		&product.IsPopular, &product.IsActive, &product.Unit,
		&product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("product not found")
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	byID := map[string]*models.Product{product.ID: product}
	if err := s.attachOptions(byID); err != nil {
		return nil, err
	}
	if err := s.attachAddons(byID); err != nil {
		return nil, err
	}

	return product, nil
}

// GetCategories retrieves categories for the public storefront, falling back
// to the static dataset when the live list is empty or unreadable
func (s *CatalogService) GetCategories(includeInactive bool) []*models.Category {
	categories, err := s.queryCategories(includeInactive)
	if err != nil {
		log.Printf("Failed to load categories, serving fallback: %v", err)
		return models.FallbackCategories()
	}
	if len(categories) == 0 {
		return models.FallbackCategories()
	}
	return categories
}

// ListCategories retrieves all categories for the back office
func (s *CatalogService) ListCategories() ([]*models.Category, error) {
	return s.queryCategories(true)
}

func (s *CatalogService) queryCategories(includeInactive bool) ([]*models.Category, error) {
	query := `
		SELECT id, name, display_order, is_active, created_at, updated_at
		FROM categories
	`
	if !includeInactive {
		query += " WHERE is_active = 1"
	}
	query += " ORDER BY display_order ASC, name ASC"

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category := &models.Category{}
		err := rows.Scan(
			&category.ID, &category.Name, &category.DisplayOrder,
			&category.IsActive, &category.CreatedAt, &category.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}

	return categories, nil
}

// GetMenu groups active products under active categories in display order.
// Products whose category name matches no active category are collected in
// a trailing "Uncategorized" section.
func (s *CatalogService) GetMenu() []*models.MenuSection {
	products := s.GetProducts(false)
	categories := s.GetCategories(false)

	sections := make([]*models.MenuSection, 0, len(categories))
	index := make(map[string]*models.MenuSection, len(categories))
	for _, category := range categories {
		section := &models.MenuSection{Category: category.Name, Products: []*models.Product{}}
		sections = append(sections, section)
		index[category.Name] = section
	}

	var orphans []*models.Product
	for _, product := range products {
		if section, ok := index[product.Category]; ok {
			section.Products = append(section.Products, product)
		} else {
			orphans = append(orphans, product)
		}
	}

	if len(orphans) > 0 {
		sort.Slice(orphans, func(i, j int) bool { return orphans[i].Name < orphans[j].Name })
		sections = append(sections, &models.MenuSection{
			Category: models.UncategorizedSection,
			Products: orphans,
		})
	}

	return sections
}

// GetTestimonials retrieves approved testimonials, newest first, with the
// static fallback when none are approved yet
func (s *CatalogService) GetTestimonials() []*models.Testimonial {
	testimonials, err := s.queryTestimonials(false)
	if err != nil {
		log.Printf("Failed to load testimonials, serving fallback: %v", err)
		return models.FallbackTestimonials()
	}
	if len(testimonials) == 0 {
		return models.FallbackTestimonials()
	}
	return testimonials
}

// ListTestimonials retrieves all testimonials for the back office,
// pending ones included
func (s *CatalogService) ListTestimonials() ([]*models.Testimonial, error) {
	return s.queryTestimonials(true)
}

func (s *CatalogService) queryTestimonials(includeInactive bool) ([]*models.Testimonial, error) {
	query := `
		SELECT id, name, event, quote, rating, is_active, created_at
		FROM testimonials
	`
	if !includeInactive {
		query += " WHERE is_active = 1"
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get testimonials: %w", err)
	}
	defer rows.Close()

	var testimonials []*models.Testimonial
	for rows.Next() {
		testimonial := &models.Testimonial{}
		err := rows.Scan(
			&testimonial.ID, &testimonial.Name, &testimonial.Event,
			&testimonial.Quote, &testimonial.Rating, &testimonial.IsActive,
			&testimonial.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan testimonial: %w", err)
		}
		testimonials = append(testimonials, testimonial)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read testimonials: %w", err)
	}

	return testimonials, nil
}

// CreateProduct creates a product together with its options and add-ons
func (s *CatalogService) CreateProduct(input *models.ProductCreation) (*models.Product, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	product := &models.Product{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		ImageURL:    input.ImageURL,
		MinPax:      input.MinPax,
		IsPopular:   input.IsPopular,
		IsActive:    input.Active(),
		Unit:        input.Unit,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err = tx.Exec(`
		INSERT INTO products (id, name, description, price, category, image_url,
			min_pax, is_popular, is_active, unit, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		product.ID, product.Name, product.Description, product.Price,
		product.Category, product.ImageURL, product.MinPax, product.IsPopular,
		product.IsActive, product.Unit, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	if err := s.insertNested(tx, product, input.Options, input.Addons); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit product: %w", err)
	}

	return product, nil
}

// UpdateProduct updates a product and replaces its options and add-ons with
// the supplied sets
func (s *CatalogService) UpdateProduct(productID string, input *models.ProductCreation) (*models.Product, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	result, err := tx.Exec(`
		UPDATE products SET name = ?, description = ?, price = ?, category = ?,
			image_url = ?, min_pax = ?, is_popular = ?, is_active = ?, unit = ?,
			updated_at = ?
		WHERE id = ?
	`,
		input.Name, input.Description, input.Price, input.Category,
		input.ImageURL, input.MinPax, input.IsPopular, input.Active(),
		input.Unit, now, productID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("product not found")
	}

	// Options and add-ons are replaced wholesale on every update
	if _, err := tx.Exec("DELETE FROM product_options WHERE product_id = ?", productID); err != nil {
		return nil, fmt.Errorf("failed to clear product options: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM product_addons WHERE product_id = ?", productID); err != nil {
		return nil, fmt.Errorf("failed to clear product add-ons: %w", err)
	}

	product := &models.Product{
		ID:          productID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		ImageURL:    input.ImageURL,
		MinPax:      input.MinPax,
		IsPopular:   input.IsPopular,
		IsActive:    input.Active(),
		Unit:        input.Unit,
		UpdatedAt:   now,
	}

	if err := s.insertNested(tx, product, input.Options, input.Addons); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit product update: %w", err)
	}

	return product, nil
}

func (s *CatalogService) insertNested(tx *sql.Tx, product *models.Product, options []models.ProductOptionInput, addons []models.ProductAddonInput) error {
	for i, input := range options {
		option := models.ProductOption{
			ID:            uuid.New().String(),
			ProductID:     product.ID,
			Name:          input.Name,
			Price:         input.Price,
			OriginalPrice: input.OriginalPrice,
			DisplayOrder:  input.DisplayOrder,
			IsDefault:     input.IsDefault,
		}
		if option.DisplayOrder == 0 {
			option.DisplayOrder = i
		}
		_, err := tx.Exec(`
			INSERT INTO product_options (id, product_id, name, price, original_price, display_order, is_default)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, option.ID, option.ProductID, option.Name, option.Price, option.OriginalPrice, option.DisplayOrder, option.IsDefault)
		if err != nil {
			return fmt.Errorf("failed to create product option: %w", err)
		}
		product.Options = append(product.Options, option)
	}

	for i, input := range addons {
		addon := models.ProductAddon{
			ID:           uuid.New().String(),
			ProductID:    product.ID,
			Name:         input.Name,
			Price:        input.Price,
			DisplayOrder: input.DisplayOrder,
		}
		if addon.DisplayOrder == 0 {
			addon.DisplayOrder = i
		}
		_, err := tx.Exec(`
			INSERT INTO product_addons (id, product_id, name, price, display_order)
			VALUES (?, ?, ?, ?, ?)
		`, addon.ID, addon.ProductID, addon.Name, addon.Price, addon.DisplayOrder)
		if err != nil {
			return fmt.Errorf("failed to create product add-on: %w", err)
		}
		product.Addons = append(product.Addons, addon)
	}

	return nil
}

// DeleteProduct removes a product; options and add-ons cascade
func (s *CatalogService) DeleteProduct(productID string) error {
	result, err := s.db.Exec("DELETE FROM products WHERE id = ?", productID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("product not found")
	}
	return nil
}

// CreateCategory creates a new category
func (s *CatalogService) CreateCategory(input *models.CategoryCreation) (*models.Category, error) {
	now := time.Now()
	category := &models.Category{
		ID:           uuid.New().String(),
		Name:         input.Name,
		DisplayOrder: input.DisplayOrder,
		IsActive:     input.Active(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := s.db.Exec(`
		INSERT INTO categories (id, name, display_order, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, category.ID, category.Name, category.DisplayOrder, category.IsActive, category.CreatedAt, category.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// UpdateCategory updates a category. Renaming does not touch products; their
// category string keeps its old value and they fall out of the menu grouping
// until re-assigned.
func (s *CatalogService) UpdateCategory(categoryID string, input *models.CategoryCreation) (*models.Category, error) {
	now := time.Now()
	result, err := s.db.Exec(`
		UPDATE categories SET name = ?, display_order = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`, input.Name, input.DisplayOrder, input.Active(), now, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("category not found")
	}

	return &models.Category{
		ID:           categoryID,
		Name:         input.Name,
		DisplayOrder: input.DisplayOrder,
		IsActive:     input.Active(),
		UpdatedAt:    now,
	}, nil
}

// DeleteCategory removes a category, leaving its products uncategorized
func (s *CatalogService) DeleteCategory(categoryID string) error {
	result, err := s.db.Exec("DELETE FROM categories WHERE id = ?", categoryID)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("category not found")
	}
	return nil
}

// CreateTestimonial stores a testimonial with the given activation state
func (s *CatalogService) CreateTestimonial(input *models.TestimonialCreation) (*models.Testimonial, error) {
	testimonial := &models.Testimonial{
		ID:        uuid.New().String(),
		Name:      input.Name,
		Event:     input.Event,
		Quote:     input.Quote,
		Rating:    input.Rating,
		IsActive:  input.IsActive,
		CreatedAt: time.Now(),
	}

	_, err := s.db.Exec(`
		INSERT INTO testimonials (id, name, event, quote, rating, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, testimonial.ID, testimonial.Name, testimonial.Event, testimonial.Quote, testimonial.Rating, testimonial.IsActive, testimonial.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create testimonial: %w", err)
	}

	return testimonial, nil
}

// UpdateTestimonial updates a testimonial, including its activation flag
func (s *CatalogService) UpdateTestimonial(testimonialID string, input *models.TestimonialCreation) (*models.Testimonial, error) {
	result, err := s.db.Exec(`
		UPDATE testimonials SET name = ?, event = ?, quote = ?, rating = ?, is_active = ?
		WHERE id = ?
	`, input.Name, input.Event, input.Quote, input.Rating, input.IsActive, testimonialID)
	if err != nil {
		return nil, fmt.Errorf("failed to update testimonial: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update testimonial: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("testimonial not found")
	}

	return &models.Testimonial{
		ID:       testimonialID,
		Name:     input.Name,
		Event:    input.Event,
		Quote:    input.Quote,
		Rating:   input.Rating,
		IsActive: input.IsActive,
	}, nil
}

// DeleteTestimonial removes a testimonial
func (s *CatalogService) DeleteTestimonial(testimonialID string) error {
	result, err := s.db.Exec("DELETE FROM testimonials WHERE id = ?", testimonialID)
	if err != nil {
		return fmt.Errorf("failed to delete testimonial: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete testimonial: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("testimonial not found")
	}
	return nil
}
