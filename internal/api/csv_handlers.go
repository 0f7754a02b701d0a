package api

import (
	"database/sql"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"smokey-backend/internal/services"
)

// CSV export and import handlers for the back office

func csvServiceFor(c *gin.Context) (*services.CSVService, bool) {
	db, exists := c.Get("db")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Database connection not available",
		})
		return nil, false
	}
	return services.NewCSVService(db.(*sql.DB)), true
}

func AdminExportProducts(c *gin.Context) {
	csvService, ok := csvServiceFor(c)
	if !ok {
		return
	}

	data, err := csvService.ExportProducts()
	if err != nil {
		log.Printf("Failed to export products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to export products",
		})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=products.csv")
	c.Data(http.StatusOK, "text/csv", data)
}

func AdminExportCategories(c *gin.Context) {
	csvService, ok := csvServiceFor(c)
	if !ok {
		return
	}

	data, err := csvService.ExportCategories()
	if err != nil {
		log.Printf("Failed to export categories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to export categories",
		})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=categories.csv")
	c.Data(http.StatusOK, "text/csv", data)
}

// readImportFile accepts the CSV either as a multipart "file" field or as
// the raw request body
func readImportFile(c *gin.Context) (string, bool) {
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Failed to open uploaded file",
			})
			return "", false
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Failed to read uploaded file",
			})
			return "", false
		}
		return string(data), true
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil || len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "No CSV data provided",
		})
		return "", false
	}
	return string(data), true
}

// readColumnMapping reads the admin-confirmed column mapping, a JSON object
// of logical column name to header index, from the "mapping" form field (or
// query parameter for raw-body uploads). Absent means sniff the headers.
func readColumnMapping(c *gin.Context) (map[string]int, bool) {
	raw := c.PostForm("mapping")
	if raw == "" {
		raw = c.Query("mapping")
	}
	if raw == "" {
		return nil, true
	}

	var mapping map[string]int
	if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid column mapping: " + err.Error(),
		})
		return nil, false
	}
	return mapping, true
}

func AdminImportPreview(c *gin.Context) {
	csvService, ok := csvServiceFor(c)
	if !ok {
		return
	}
	data, ok := readImportFile(c)
	if !ok {
		return
	}
	mapping, ok := readColumnMapping(c)
	if !ok {
		return
	}

	var preview *services.ImportPreview
	var err error
	switch c.Param("entity") {
	case "products":
		preview, err = csvService.PreviewProducts(data, mapping)
	case "categories":
		preview, err = csvService.PreviewCategories(data, mapping)
	default:
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Unknown import entity",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    preview,
	})
}

func AdminImport(c *gin.Context) {
	csvService, ok := csvServiceFor(c)
	if !ok {
		return
	}
	data, ok := readImportFile(c)
	if !ok {
		return
	}
	mapping, ok := readColumnMapping(c)
	if !ok {
		return
	}

	var summary *services.ImportSummary
	var err error
	switch c.Param("entity") {
	case "products":
		summary, err = csvService.ImportProducts(data, mapping)
	case "categories":
		summary, err = csvService.ImportCategories(data, mapping)
	default:
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Unknown import entity",
		})
		return
	}
	if err != nil {
		// Parse failures are the caller's problem, commit failures ours
		log.Printf("Import failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    summary,
	})
}
