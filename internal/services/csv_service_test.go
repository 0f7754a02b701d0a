package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	t.Run("SimpleRows", func(t *testing.T) {
		rows := ParseCSV("a,b,c\nd,e,f\n")
		require.Len(t, rows, 2)
		assert.Equal(t, []string{"a", "b", "c"}, rows[0])
		assert.Equal(t, []string{"d", "e", "f"}, rows[1])
	})

	t.Run("QuotedCommasAndDoubledQuotes", func(t *testing.T) {
		rows := ParseCSV(`"Smokey, Original",12.50,"He said ""great""!"`)
		require.Len(t, rows, 1)
		require.Len(t, rows[0], 3)
		assert.Equal(t, "Smokey, Original", rows[0][0])
		assert.Equal(t, "12.50", rows[0][1])
		assert.Equal(t, `He said "great"!`, rows[0][2])
	})

	t.Run("EmbeddedNewlineInsideQuotes", func(t *testing.T) {
		rows := ParseCSV("name,description\nBrisket,\"slow smoked\nover oak\"\n")
		require.Len(t, rows, 2)
		assert.Equal(t, "slow smoked\nover oak", rows[1][1])
	})

	t.Run("CRLFLineEndings", func(t *testing.T) {
		rows := ParseCSV("a,b\r\nc,d\r\n")
		require.Len(t, rows, 2)
		assert.Equal(t, []string{"c", "d"}, rows[1])
	})

	t.Run("MissingTrailingNewline", func(t *testing.T) {
		rows := ParseCSV("a,b\nc,d")
		require.Len(t, rows, 2)
	})

	t.Run("EmptyFields", func(t *testing.T) {
		rows := ParseCSV("a,,c\n")
		require.Len(t, rows, 1)
		assert.Equal(t, []string{"a", "", "c"}, rows[0])
	})
}

func TestEscapeCSV(t *testing.T) {
	t.Run("RoundTripsThroughParser", func(t *testing.T) {
		tricky := []string{"plain", "with, comma", `with "quotes"`, "with\nnewline"}

		var b strings.Builder
		writeCSVRow(&b, tricky)

		rows := ParseCSV(b.String())
		require.Len(t, rows, 1)
		assert.Equal(t, tricky, rows[0])
	})
}

func TestParseBool(t *testing.T) {
	for _, truthy := range []string{"true", "TRUE", "1", "yes", "Active", " y "} {
		assert.True(t, parseBool(truthy), truthy)
	}
	for _, falsy := range []string{"false", "0", "no", "", "inactive"} {
		assert.False(t, parseBool(falsy), falsy)
	}
}

func TestImportProducts(t *testing.T) {
	db := newTestDB(t)
	csvService := NewCSVService(db)
	catalog := NewCatalogService(db)

	t.Run("CreatesFromDecoratedHeaders", func(t *testing.T) {
		data := "Product Name,Price (S$),Category,Min Pax,Popular\n" +
			"Smoked Brisket,\"$45.00\",Smoked Meats,10,yes\n" +
			"\"Ribs, St. Louis\",38,Smoked Meats,10,\n"

		summary, err := csvService.ImportProducts(data, nil)
		require.NoError(t, err)

		assert.Equal(t, 2, summary.Created)
		assert.Equal(t, 0, summary.Updated)
		assert.Equal(t, 0, summary.Failed)

		products, err := catalog.ListProducts()
		require.NoError(t, err)
		require.Len(t, products, 2)

		byName := map[string]float64{}
		for _, p := range products {
			byName[p.Name] = p.Price
		}
		assert.Equal(t, 45.0, byName["Smoked Brisket"])
		assert.Equal(t, 38.0, byName["Ribs, St. Louis"])
	})

	t.Run("ReimportUpdatesByName", func(t *testing.T) {
		data := "name,price,category\nSmoked Brisket,48.00,Smoked Meats\n"

		summary, err := csvService.ImportProducts(data, nil)
		require.NoError(t, err)

		assert.Equal(t, 0, summary.Created)
		assert.Equal(t, 1, summary.Updated)

		products, err := catalog.ListProducts()
		require.NoError(t, err)
		require.Len(t, products, 2)
	})

	t.Run("BadRowIsReportedAndRestCommits", func(t *testing.T) {
		data := "name,price,category\n,10.00,Sides\nCorn Ribs,32,Sides\n"

		summary, err := csvService.ImportProducts(data, nil)
		require.NoError(t, err)

		assert.Equal(t, 1, summary.Created)
		assert.Equal(t, 1, summary.Failed)
		require.Len(t, summary.Rows, 2)
		assert.Equal(t, "error", summary.Rows[0].Action)
		assert.Equal(t, 2, summary.Rows[0].Row)
		assert.Equal(t, "created", summary.Rows[1].Action)
	})

	t.Run("RowsMissingPriceOrCategoryAreBlocked", func(t *testing.T) {
		summary, err := csvService.ImportProducts("name\nMystery Dish\n", nil)
		require.NoError(t, err)
		assert.Equal(t, 0, summary.Created)
		assert.Equal(t, 1, summary.Failed)
		require.Len(t, summary.Rows, 1)
		assert.Equal(t, "missing price", summary.Rows[0].Error)

		summary, err = csvService.ImportProducts("name,price,category\nMystery Dish,12.50,\nFree Dish,gratis,Sides\n", nil)
		require.NoError(t, err)
		assert.Equal(t, 0, summary.Created)
		assert.Equal(t, 2, summary.Failed)
		assert.Equal(t, "missing category", summary.Rows[0].Error)
		assert.Equal(t, "invalid price: gratis", summary.Rows[1].Error)

		var count int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM products WHERE name IN ('Mystery Dish', 'Free Dish')").Scan(&count))
		assert.Zero(t, count)
	})

	t.Run("ExplicitMappingOverridesSniffing", func(t *testing.T) {
		// "Item Description" sniffs as the name column; the confirmed
		// mapping points name at the right header instead
		data := "Item Description,Name of Dish,Price,Category\n" +
			"A rich smoky platter,Brisket Platter,52,Smoked Meats\n"
		mapping := map[string]int{"description": 0, "name": 1, "price": 2, "category": 3}

		summary, err := csvService.ImportProducts(data, mapping)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Created)

		var description string
		require.NoError(t, db.QueryRow("SELECT description FROM products WHERE name = 'Brisket Platter'").Scan(&description))
		assert.Equal(t, "A rich smoky platter", description)
	})

	t.Run("MappingOutOfRangeIsRejected", func(t *testing.T) {
		_, err := csvService.ImportProducts("name,price,category\nDish,10,Sides\n", map[string]int{"name": 7})
		assert.Error(t, err)

		_, err = csvService.ImportProducts("name,price,category\nDish,10,Sides\n", map[string]int{"flavour": 0})
		assert.Error(t, err)
	})

	t.Run("NoNameColumnIsRejected", func(t *testing.T) {
		_, err := csvService.ImportProducts("foo,bar\n1,2\n", nil)
		assert.Error(t, err)
	})
}

func TestPreviewProducts(t *testing.T) {
	db := newTestDB(t)
	csvService := NewCSVService(db)

	_, err := csvService.ImportProducts("name,price,category\nExisting Dish,10,Sides\n", nil)
	require.NoError(t, err)

	preview, err := csvService.PreviewProducts("name,price,category\nExisting Dish,12,Sides\nNew Dish,15,Sides\n", nil)
	require.NoError(t, err)

	assert.Equal(t, 2, preview.Total)
	require.Len(t, preview.Rows, 2)
	assert.Equal(t, "updated", preview.Rows[0].Action)
	assert.Equal(t, "created", preview.Rows[1].Action)

	// The sniffed binding comes back so the admin can confirm or correct it
	assert.Equal(t, map[string]int{"name": 0, "price": 1, "category": 2}, preview.Columns)

	// Preview must not write
	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM products").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestImportCategories(t *testing.T) {
	db := newTestDB(t)
	csvService := NewCSVService(db)

	summary, err := csvService.ImportCategories("Category Name,Sort Order,Status\nSides,3,active\nParty Sets,2,true\n", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Created)

	summary, err = csvService.ImportCategories("name,display_order\nSides,5\n", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Updated)

	var order int
	require.NoError(t, db.QueryRow("SELECT display_order FROM categories WHERE name = 'Sides'").Scan(&order))
	assert.Equal(t, 5, order)
}

func TestExportRoundTrip(t *testing.T) {
	db := newTestDB(t)
	csvService := NewCSVService(db)

	_, err := csvService.ImportProducts("name,description,price,category\n\"Dish, Special\",\"line one\nline two\",19.90,Specials\n", nil)
	require.NoError(t, err)

	data, err := csvService.ExportProducts()
	require.NoError(t, err)

	rows := ParseCSV(string(data))
	require.Len(t, rows, 2)
	assert.Equal(t, productColumns, rows[0])
	assert.Equal(t, "Dish, Special", rows[1][0])
	assert.Equal(t, "line one\nline two", rows[1][1])
	assert.Equal(t, "19.90", rows[1][2])
}
