package utils

import (
	"fmt"
	"log"
	"math"
	"regexp"
	"strings"
	"time"
)

// Singapore Time timezone
var SGTLocation *time.Location

func init() {
	// Load Singapore timezone (UTC+8)
	var err error
	SGTLocation, err = time.LoadLocation("Asia/Singapore")
	if err != nil {
		// Fallback to fixed offset if timezone data is not available
		SGTLocation = time.FixedZone("SGT", 8*60*60) // UTC+8
		log.Printf("Warning: Could not load Asia/Singapore timezone, using fixed offset: %v", err)
	}
}

// FormatTimeSGT formats a time in SGT with the given layout
func FormatTimeSGT(t time.Time, layout string) string {
	return t.In(SGTLocation).Format(layout)
}

// FormatCurrency formats a number as Singapore Dollar currency
func FormatCurrency(amount float64) string {
	return fmt.Sprintf("S$%.2f", amount)
}

// FormatPhoneNumber formats a phone number to international format
func FormatPhoneNumber(phone string) string {
	// Remove all non-digit characters
	cleaned := regexp.MustCompile(`\D`).ReplaceAllString(phone, "")

	// Handle different formats
	if strings.HasPrefix(cleaned, "65") && len(cleaned) == 10 {
		return "+" + cleaned
	} else if len(cleaned) == 8 {
		return "+65" + cleaned
	}

	// Return as-is if format is unclear
	return phone
}

// RoundToDecimalPlaces rounds a float to specified decimal places
func RoundToDecimalPlaces(value float64, places int) float64 {
	multiplier := math.Pow(10, float64(places))
	return math.Round(value*multiplier) / multiplier
}

// ParseDate parses a date string in various formats
func ParseDate(dateStr string) (time.Time, error) {
	formats := []string{
		"2006-01-02",
		"02/01/2006",
		"02-01-2006",
		"2006-01-02 15:04:05",
		"02/01/2006 15:04",
		time.RFC3339,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// Contains checks if a slice contains a specific item
func Contains[T comparable](slice []T, item T) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
