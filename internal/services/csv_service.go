package services

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"smokey-backend/internal/models"
)

// CSVService handles catalog export and bulk import through CSV files
type CSVService struct {
	db *sql.DB
}

// NewCSVService creates a new CSV service
func NewCSVService(db *sql.DB) *CSVService {
	return &CSVService{db: db}
}

// productColumns is the fixed export column order for products
var productColumns = []string{"name", "description", "price", "category", "image_url", "min_pax", "is_popular", "is_active", "unit"}

// categoryColumns is the fixed export column order for categories
var categoryColumns = []string{"name", "display_order", "is_active"}

// ParseCSV splits CSV text into rows of fields. Quoted fields may contain
// commas, doubled quotes and embedded newlines. Both \n and \r\n line
// endings are accepted.
func ParseCSV(data string) [][]string {
	var rows [][]string
	var row []string
	var field strings.Builder
	inQuotes := false
	fieldStarted := false

	endField := func() {
		row = append(row, field.String())
		field.Reset()
		fieldStarted = false
	}
	endRow := func() {
		endField()
		rows = append(rows, row)
		row = nil
	}

	runes := []rune(data)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		if inQuotes {
			if ch == '"' {
				if i+1 < len(runes) && runes[i+1] == '"' {
					// Doubled quote inside a quoted field
					field.WriteRune('"')
					i++
				} else {
					inQuotes = false
				}
			} else {
				field.WriteRune(ch)
			}
			continue
		}

		switch ch {
		case '"':
			if !fieldStarted && field.Len() == 0 {
				inQuotes = true
				fieldStarted = true
			} else {
				field.WriteRune(ch)
			}
		case ',':
			endField()
		case '\r':
			// Swallowed; the \n that follows ends the row
		case '\n':
			endRow()
		default:
			field.WriteRune(ch)
			fieldStarted = true
		}
	}

	// Trailing row without a final newline
	if field.Len() > 0 || len(row) > 0 {
		endRow()
	}

	return rows
}

// escapeCSV quotes a field when it contains a comma, quote or newline
func escapeCSV(field string) string {
	if strings.ContainsAny(field, ",\"\n\r") {
		return "\"" + strings.ReplaceAll(field, "\"", "\"\"") + "\""
	}
	return field
}

func writeCSVRow(b *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(escapeCSV(field))
	}
	b.WriteString("\n")
}

func formatBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

// parseBool accepts the spellings spreadsheets produce for truthy cells
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "active":
		return true
	}
	return false
}

// ExportProducts renders the product catalog as CSV
func (s *CSVService) ExportProducts() ([]byte, error) {
	rows, err := s.db.Query(`
		SELECT name, description, price, category, image_url, min_pax, is_popular, is_active, unit
		FROM products ORDER BY category ASC, name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to export products: %w", err)
	}
	defer rows.Close()

	var b strings.Builder
	writeCSVRow(&b, productColumns)

	for rows.Next() {
		var name, description, category, imageURL, unit string
		var price float64
		var minPax int
		var isPopular, isActive bool
		err := rows.Scan(&name, &description, &price, &category, &imageURL, &minPax, &isPopular, &isActive, &unit)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		writeCSVRow(&b, []string{
			name, description, strconv.FormatFloat(price, 'f', 2, 64), category,
			imageURL, strconv.Itoa(minPax), formatBool(isPopular), formatBool(isActive), unit,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to export products: %w", err)
	}

	return []byte(b.String()), nil
}

// ExportCategories renders the category list as CSV
func (s *CSVService) ExportCategories() ([]byte, error) {
	rows, err := s.db.Query(`
		SELECT name, display_order, is_active FROM categories ORDER BY display_order ASC, name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to export categories: %w", err)
	}
	defer rows.Close()

	var b strings.Builder
	writeCSVRow(&b, categoryColumns)

	for rows.Next() {
		var name string
		var displayOrder int
		var isActive bool
		if err := rows.Scan(&name, &displayOrder, &isActive); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		writeCSVRow(&b, []string{name, strconv.Itoa(displayOrder), formatBool(isActive)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to export categories: %w", err)
	}

	return []byte(b.String()), nil
}

// ImportRowResult reports what happened to one data row
type ImportRowResult struct {
	Row    int    `json:"row"`
	Name   string `json:"name"`
	Action string `json:"action"` // created, updated, skipped, error
	Error  string `json:"error,omitempty"`
}

// ImportSummary is the outcome of a committed import
type ImportSummary struct {
	Created int               `json:"created"`
	Updated int               `json:"updated"`
	Failed  int               `json:"failed"`
	Rows    []ImportRowResult `json:"rows"`
}

// ImportPreview describes what an import would do without writing anything.
// Columns is the header index each logical column was bound to, so the admin
// can correct a bad guess and resubmit the mapping with the import.
type ImportPreview struct {
	Headers []string          `json:"headers"`
	Columns map[string]int    `json:"columns"`
	Total   int               `json:"total"`
	Rows    []ImportRowResult `json:"rows"`
}

// sniffColumns maps logical column names to header indexes by substring
// match, so exports from spreadsheets with decorated headers ("Price (S$)")
// still line up
func sniffColumns(headers []string, hints map[string][]string) map[string]int {
	index := make(map[string]int)
	for column, substrings := range hints {
		for i, header := range headers {
			h := strings.ToLower(strings.TrimSpace(header))
			for _, sub := range substrings {
				if strings.Contains(h, sub) {
					if _, taken := index[column]; !taken {
						index[column] = i
					}
				}
			}
		}
	}
	return index
}

var productColumnHints = map[string][]string{
	"name":        {"name", "product", "item"},
	"description": {"desc"},
	"price":       {"price", "cost"},
	"category":    {"categ"},
	"image_url":   {"image", "photo", "url"},
	"min_pax":     {"pax", "minimum"},
	"is_popular":  {"popular", "featured"},
	"is_active":   {"active", "status", "enabled"},
	"unit":        {"unit", "per"},
}

var categoryColumnHints = map[string][]string{
	"name":          {"name", "categ"},
	"display_order": {"order", "position", "sort"},
	"is_active":     {"active", "status", "enabled"},
}

// resolveColumns binds logical columns to header indexes. An explicit
// mapping confirmed by the admin wins; otherwise the headers are sniffed.
func resolveColumns(headers []string, hints map[string][]string, mapping map[string]int) (map[string]int, error) {
	if len(mapping) == 0 {
		return sniffColumns(headers, hints), nil
	}

	columns := make(map[string]int, len(mapping))
	for column, i := range mapping {
		if _, known := hints[column]; !known {
			return nil, fmt.Errorf("unknown column %q in mapping", column)
		}
		if i < 0 || i >= len(headers) {
			return nil, fmt.Errorf("column %q mapped to index %d, file has %d columns", column, i, len(headers))
		}
		columns[column] = i
	}
	return columns, nil
}

type productRow struct {
	line  int
	name  string
	input models.ProductCreation
	err   error
}

func (s *CSVService) parseProductRows(data string, mapping map[string]int) ([]string, map[string]int, []productRow, error) {
	records := ParseCSV(data)
	if len(records) < 2 {
		return nil, nil, nil, fmt.Errorf("file has no data rows")
	}

	headers := records[0]
	columns, err := resolveColumns(headers, productColumnHints, mapping)
	if err != nil {
		return nil, nil, nil, err
	}
	if _, ok := columns["name"]; !ok {
		return nil, nil, nil, fmt.Errorf("could not find a name column in the header row")
	}

	cell := func(record []string, column string) string {
		i, ok := columns[column]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []productRow
	for i, record := range records[1:] {
		line := i + 2
		name := cell(record, "name")
		row := productRow{line: line, name: name}

		// Name, price and category are all required; a row missing any
		// of them is reported, not imported
		rawPrice := cell(record, "price")
		category := cell(record, "category")
		switch {
		case name == "":
			row.err = fmt.Errorf("missing name")
		case rawPrice == "":
			row.err = fmt.Errorf("missing price")
		case !strings.ContainsAny(rawPrice, "0123456789"):
			row.err = fmt.Errorf("invalid price: %s", rawPrice)
		case category == "":
			row.err = fmt.Errorf("missing category")
		}
		if row.err != nil {
			rows = append(rows, row)
			continue
		}

		active := parseBool(cell(record, "is_active"))
		if cell(record, "is_active") == "" {
			active = true
		}
		minPax := 0
		if raw := cell(record, "min_pax"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil {
				minPax = parsed
			}
		}
		row.input = models.ProductCreation{
			Name:        name,
			Description: cell(record, "description"),
			Price:       models.ParsePrice(rawPrice),
			Category:    category,
			ImageURL:    cell(record, "image_url"),
			MinPax:      minPax,
			IsPopular:   parseBool(cell(record, "is_popular")),
			IsActive:    &active,
			Unit:        cell(record, "unit"),
		}
		rows = append(rows, row)
	}

	return headers, columns, rows, nil
}

// productNameIndex maps existing product names to ids for overwrite
// detection
func (s *CSVService) productNameIndex() (map[string]string, error) {
	rows, err := s.db.Query("SELECT id, name FROM products")
	if err != nil {
		return nil, fmt.Errorf("failed to index products: %w", err)
	}
	defer rows.Close()

	index := make(map[string]string)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to index products: %w", err)
		}
		index[strings.ToLower(name)] = id
	}
	return index, rows.Err()
}

// PreviewProducts parses an upload and reports what an import would do,
// flagging rows that would overwrite existing products. A nil mapping means
// the columns are sniffed from the headers.
func (s *CSVService) PreviewProducts(data string, mapping map[string]int) (*ImportPreview, error) {
	headers, columns, rows, err := s.parseProductRows(data, mapping)
	if err != nil {
		return nil, err
	}

	index, err := s.productNameIndex()
	if err != nil {
		return nil, err
	}

	preview := &ImportPreview{Headers: headers, Columns: columns, Total: len(rows)}
	for _, row := range rows {
		result := ImportRowResult{Row: row.line, Name: row.name}
		switch {
		case row.err != nil:
			result.Action = "error"
			result.Error = row.err.Error()
		case index[strings.ToLower(row.name)] != "":
			result.Action = "updated"
		default:
			result.Action = "created"
		}
		preview.Rows = append(preview.Rows, result)
	}

	return preview, nil
}

// ImportProducts upserts products from an upload. The mapping is the
// admin-confirmed column binding from the preview; nil falls back to
// sniffing. All rows commit in one transaction; rows that fail validation
// are skipped and reported, they do not abort the batch.
func (s *CSVService) ImportProducts(data string, mapping map[string]int) (*ImportSummary, error) {
	_, _, rows, err := s.parseProductRows(data, mapping)
	if err != nil {
		return nil, err
	}

	index, err := s.productNameIndex()
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	summary := &ImportSummary{}
	now := time.Now()
	for _, row := range rows {
		result := ImportRowResult{Row: row.line, Name: row.name}

		if row.err != nil {
			result.Action = "error"
			result.Error = row.err.Error()
			summary.Failed++
			summary.Rows = append(summary.Rows, result)
			continue
		}

		input := row.input
		if existingID := index[strings.ToLower(row.name)]; existingID != "" {
			_, err = tx.Exec(`
				UPDATE products SET description = ?, price = ?, category = ?,
					image_url = ?, min_pax = ?, is_popular = ?, is_active = ?,
					unit = ?, updated_at = ?
				WHERE id = ?
			`, input.Description, input.Price, input.Category, input.ImageURL,
				input.MinPax, input.IsPopular, input.Active(), input.Unit, now, existingID)
			result.Action = "updated"
		} else {
			newID := uuid.New().String()
			_, err = tx.Exec(`
				INSERT INTO products (id, name, description, price, category, image_url,
					min_pax, is_popular, is_active, unit, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, newID, input.Name, input.Description, input.Price, input.Category,
				input.ImageURL, input.MinPax, input.IsPopular, input.Active(), input.Unit, now, now)
			index[strings.ToLower(row.name)] = newID
			result.Action = "created"
		}
		if err != nil {
			result.Action = "error"
			result.Error = err.Error()
			summary.Failed++
			summary.Rows = append(summary.Rows, result)
			continue
		}

		if result.Action == "updated" {
			summary.Updated++
		} else {
			summary.Created++
		}
		summary.Rows = append(summary.Rows, result)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit import: %w", err)
	}

	return summary, nil
}

type categoryRow struct {
	line  int
	name  string
	input models.CategoryCreation
	err   error
}

func (s *CSVService) parseCategoryRows(data string, mapping map[string]int) ([]string, map[string]int, []categoryRow, error) {
	records := ParseCSV(data)
	if len(records) < 2 {
		return nil, nil, nil, fmt.Errorf("file has no data rows")
	}

	headers := records[0]
	columns, err := resolveColumns(headers, categoryColumnHints, mapping)
	if err != nil {
		return nil, nil, nil, err
	}
	if _, ok := columns["name"]; !ok {
		return nil, nil, nil, fmt.Errorf("could not find a name column in the header row")
	}

	cell := func(record []string, column string) string {
		i, ok := columns[column]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []categoryRow
	for i, record := range records[1:] {
		line := i + 2
		name := cell(record, "name")
		row := categoryRow{line: line, name: name}

		if name == "" {
			row.err = fmt.Errorf("missing name")
			rows = append(rows, row)
			continue
		}

		active := parseBool(cell(record, "is_active"))
		if cell(record, "is_active") == "" {
			active = true
		}
		displayOrder := 0
		if raw := cell(record, "display_order"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil {
				displayOrder = parsed
			}
		}
		row.input = models.CategoryCreation{
			Name:         name,
			DisplayOrder: displayOrder,
			IsActive:     &active,
		}
		rows = append(rows, row)
	}

	return headers, columns, rows, nil
}

func (s *CSVService) categoryNameIndex() (map[string]string, error) {
	rows, err := s.db.Query("SELECT id, name FROM categories")
	if err != nil {
		return nil, fmt.Errorf("failed to index categories: %w", err)
	}
	defer rows.Close()

	index := make(map[string]string)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to index categories: %w", err)
		}
		index[strings.ToLower(name)] = id
	}
	return index, rows.Err()
}

// PreviewCategories parses an upload and reports what an import would do
func (s *CSVService) PreviewCategories(data string, mapping map[string]int) (*ImportPreview, error) {
	headers, columns, rows, err := s.parseCategoryRows(data, mapping)
	if err != nil {
		return nil, err
	}

	index, err := s.categoryNameIndex()
	if err != nil {
		return nil, err
	}

	preview := &ImportPreview{Headers: headers, Columns: columns, Total: len(rows)}
	for _, row := range rows {
		result := ImportRowResult{Row: row.line, Name: row.name}
		switch {
		case row.err != nil:
			result.Action = "error"
			result.Error = row.err.Error()
		case index[strings.ToLower(row.name)] != "":
			result.Action = "updated"
		default:
			result.Action = "created"
		}
		preview.Rows = append(preview.Rows, result)
	}

	return preview, nil
}

// ImportCategories upserts categories from an upload in one transaction.
// The mapping is the admin-confirmed column binding from the preview.
func (s *CSVService) ImportCategories(data string, mapping map[string]int) (*ImportSummary, error) {
	_, _, rows, err := s.parseCategoryRows(data, mapping)
	if err != nil {
		return nil, err
	}

	index, err := s.categoryNameIndex()
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	summary := &ImportSummary{}
	now := time.Now()
	for _, row := range rows {
		result := ImportRowResult{Row: row.line, Name: row.name}

		if row.err != nil {
			result.Action = "error"
			result.Error = row.err.Error()
			summary.Failed++
			summary.Rows = append(summary.Rows, result)
			continue
		}

		input := row.input
		if existingID := index[strings.ToLower(row.name)]; existingID != "" {
			_, err = tx.Exec(`
				UPDATE categories SET display_order = ?, is_active = ?, updated_at = ?
				WHERE id = ?
			`, input.DisplayOrder, input.Active(), now, existingID)
			result.Action = "updated"
		} else {
			newID := uuid.New().String()
			_, err = tx.Exec(`
				INSERT INTO categories (id, name, display_order, is_active, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?)
			`, newID, input.Name, input.DisplayOrder, input.Active(), now, now)
			index[strings.ToLower(row.name)] = newID
			result.Action = "created"
		}
		if err != nil {
			result.Action = "error"
			result.Error = err.Error()
			summary.Failed++
			summary.Rows = append(summary.Rows, result)
			continue
		}

		if result.Action == "updated" {
			summary.Updated++
		} else {
			summary.Created++
		}
		summary.Rows = append(summary.Rows, result)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit import: %w", err)
	}

	return summary, nil
}
