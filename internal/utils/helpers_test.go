package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("AcceptedFormats", func(t *testing.T) {
		for _, input := range []string{
			"2026-09-12",
			"12/09/2026",
			"12-09-2026",
		} {
			parsed, err := ParseDate(input)
			require.NoError(t, err, input)
			assert.Equal(t, 2026, parsed.Year())
			assert.Equal(t, time.September, parsed.Month())
			assert.Equal(t, 12, parsed.Day())
		}
	})

	t.Run("WithTime", func(t *testing.T) {
		parsed, err := ParseDate("2026-09-12 18:30:00")
		require.NoError(t, err)
		assert.Equal(t, 18, parsed.Hour())
	})

	t.Run("Rejected", func(t *testing.T) {
		for _, input := range []string{"", "next saturday", "12 Sep 2026"} {
			_, err := ParseDate(input)
			assert.Error(t, err, input)
		}
	})
}

func TestFormatPhoneNumber(t *testing.T) {
	assert.Equal(t, "+6591234567", FormatPhoneNumber("9123 4567"))
	assert.Equal(t, "+6591234567", FormatPhoneNumber("6591234567"))
	assert.Equal(t, "+6591234567", FormatPhoneNumber("+65 9123-4567"))
	// Unrecognised shapes pass through untouched
	assert.Equal(t, "12345", FormatPhoneNumber("12345"))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "S$143.00", FormatCurrency(143))
	assert.Equal(t, "S$9.90", FormatCurrency(9.9))
}

func TestFormatTimeSGT(t *testing.T) {
	// 10:00 UTC is 18:00 in Singapore
	utc := time.Date(2026, 9, 12, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "12 Sep 2026 6:00 PM", FormatTimeSGT(utc, "2 Jan 2006 3:04 PM"))
}

func TestRoundToDecimalPlaces(t *testing.T) {
	assert.Equal(t, 143.0, RoundToDecimalPlaces(142.999999999, 2))
	assert.Equal(t, 19.9, RoundToDecimalPlaces(19.904, 2))
}
