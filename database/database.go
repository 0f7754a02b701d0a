package database

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Initialize creates and returns a database connection
func Initialize(databaseURL string) (*sql.DB, error) {
	// Add SQLite-specific parameters for better concurrent access
	if !strings.Contains(databaseURL, "?") {
		databaseURL += "?_busy_timeout=30000&_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=1"
	}

	db, err := sql.Open("sqlite3", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 30000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA temp_store = memory",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			log.Printf("Warning: failed to set pragma %s: %v", pragma, err)
		}
	}

	return db, nil
}

// Migrate runs database migrations
func Migrate(db *sql.DB) error {
	migrations := []string{
		createCategoriesTable,
		createProductsTable,
		createProductOptionsTable,
		createProductAddonsTable,
		createOrdersTable,
		createOrderItemsTable,
		createOrderItemAddonsTable,
		createTestimonialsTable,
		createCartsTable,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)",
		"CREATE INDEX IF NOT EXISTS idx_products_active ON products(is_active)",
		"CREATE INDEX IF NOT EXISTS idx_product_options_product ON product_options(product_id)",
		"CREATE INDEX IF NOT EXISTS idx_product_addons_product ON product_addons(product_id)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_session ON orders(stripe_session_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_item_addons_item ON order_item_addons(order_item_id)",
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return fmt.Errorf("index creation failed: %w", err)
		}
	}

	return nil
}

const createCategoriesTable = `
CREATE TABLE IF NOT EXISTS categories (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	display_order INTEGER NOT NULL DEFAULT 0,
	is_active BOOLEAN NOT NULL DEFAULT 1,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

const createProductsTable = `
CREATE TABLE IF NOT EXISTS products (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price REAL NOT NULL,
	category TEXT NOT NULL DEFAULT '',
	image_url TEXT NOT NULL DEFAULT '',
	min_pax INTEGER NOT NULL DEFAULT 0,
	is_popular BOOLEAN NOT NULL DEFAULT 0,
	is_active BOOLEAN NOT NULL DEFAULT 1,
	unit TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

const createProductOptionsTable = `
CREATE TABLE IF NOT EXISTS product_options (
	id TEXT PRIMARY KEY,
	product_id TEXT NOT NULL,
	name TEXT NOT NULL,
	price REAL NOT NULL,
	original_price REAL,
	display_order INTEGER NOT NULL DEFAULT 0,
	is_default BOOLEAN NOT NULL DEFAULT 0,
	FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE
)`

const createProductAddonsTable = `
CREATE TABLE IF NOT EXISTS product_addons (
	id TEXT PRIMARY KEY,
	product_id TEXT NOT NULL,
	name TEXT NOT NULL,
	price REAL NOT NULL,
	display_order INTEGER NOT NULL DEFAULT 0,
	FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE
)`

const createOrdersTable = `
CREATE TABLE IF NOT EXISTS orders (
	id TEXT PRIMARY KEY,
	customer_name TEXT NOT NULL,
	customer_email TEXT NOT NULL DEFAULT '',
	customer_phone TEXT NOT NULL DEFAULT '',
	event_date TEXT NOT NULL DEFAULT '',
	event_time TEXT NOT NULL DEFAULT '',
	event_address TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	total_amount REAL NOT NULL DEFAULT 0,
	payment_method TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending',
	payment_status TEXT NOT NULL DEFAULT 'pending',
	stripe_session_id TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

const createOrderItemsTable = `
CREATE TABLE IF NOT EXISTS order_items (
	id TEXT PRIMARY KEY,
	order_id TEXT NOT NULL,
	product_id TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL,
	price REAL NOT NULL,
	quantity INTEGER NOT NULL,
	FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
)`

const createOrderItemAddonsTable = `
CREATE TABLE IF NOT EXISTS order_item_addons (
	id TEXT PRIMARY KEY,
	order_item_id TEXT NOT NULL,
	name TEXT NOT NULL,
	price REAL NOT NULL,
	quantity INTEGER NOT NULL DEFAULT 1,
	FOREIGN KEY (order_item_id) REFERENCES order_items(id) ON DELETE CASCADE
)`

const createTestimonialsTable = `
CREATE TABLE IF NOT EXISTS testimonials (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	event TEXT NOT NULL DEFAULT '',
	quote TEXT NOT NULL,
	rating INTEGER NOT NULL DEFAULT 5,
	is_active BOOLEAN NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL
)`

const createCartsTable = `
CREATE TABLE IF NOT EXISTS carts (
	session_id TEXT PRIMARY KEY,
	items TEXT NOT NULL DEFAULT '[]',
	updated_at TIMESTAMP NOT NULL
)`
