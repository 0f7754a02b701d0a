package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceParsing(t *testing.T) {
	t.Run("NumberAndFormattedStringNormalizeEqually", func(t *testing.T) {
		var fromNumber, fromString CartItem

		require.NoError(t, json.Unmarshal([]byte(`{"productId":"p1","name":"Brisket","price":45,"quantity":1}`), &fromNumber))
		require.NoError(t, json.Unmarshal([]byte(`{"productId":"p1","name":"Brisket","price":"$45.00","quantity":1}`), &fromString))

		assert.Equal(t, fromNumber.Price, fromString.Price)
		assert.Equal(t, 45.0, fromString.Price.Amount())
	})

	t.Run("DecimalString", func(t *testing.T) {
		var item CartItem
		require.NoError(t, json.Unmarshal([]byte(`{"productId":"p1","name":"Ribs","price":"S$12.50","quantity":2}`), &item))
		assert.Equal(t, 12.5, item.Price.Amount())
	})

	t.Run("UnparseableStringYieldsZero", func(t *testing.T) {
		assert.Equal(t, 0.0, ParsePrice("market price"))
		assert.Equal(t, 0.0, ParsePrice(""))
	})

	t.Run("MarshalEmitsNumber", func(t *testing.T) {
		data, err := json.Marshal(Price(45))
		require.NoError(t, err)
		assert.Equal(t, "45", string(data))
	})
}

func TestCartItemLineKey(t *testing.T) {
	t.Run("SameProductDifferentAddonsAreDistinctLines", func(t *testing.T) {
		plain := CartItem{ProductID: "p1", OptionID: "o1"}
		withAddon := CartItem{ProductID: "p1", OptionID: "o1", Addons: []CartAddon{{ID: "a1"}}}

		assert.NotEqual(t, plain.LineKey(), withAddon.LineKey())
	})

	t.Run("AddonOrderDoesNotMatter", func(t *testing.T) {
		first := CartItem{ProductID: "p1", Addons: []CartAddon{{ID: "a1"}, {ID: "a2"}}}
		second := CartItem{ProductID: "p1", Addons: []CartAddon{{ID: "a2"}, {ID: "a1"}}}

		assert.Equal(t, first.LineKey(), second.LineKey())
	})

	t.Run("OptionChangesTheLine", func(t *testing.T) {
		small := CartItem{ProductID: "p1", OptionID: "small"}
		large := CartItem{ProductID: "p1", OptionID: "large"}

		assert.NotEqual(t, small.LineKey(), large.LineKey())
	})
}

func TestCartTotals(t *testing.T) {
	t.Run("LineTotalIncludesAddons", func(t *testing.T) {
		item := CartItem{
			ProductID: "p1",
			Price:     Price(45),
			Quantity:  2,
			Addons: []CartAddon{
				{ID: "a1", Price: Price(5), Quantity: 2},
				{ID: "a2", Price: Price(3)}, // quantity omitted, counts once
			},
		}

		assert.Equal(t, 2*45.0+2*5.0+3.0, item.LineTotal())
	})

	t.Run("CartTotalsSumLines", func(t *testing.T) {
		cart := Cart{Items: []CartItem{
			{ProductID: "p1", Price: Price(45), Quantity: 2},
			{ProductID: "p2", Price: Price(12.5), Quantity: 1},
		}}

		assert.Equal(t, 3, cart.TotalItems())
		assert.Equal(t, 102.5, cart.TotalPrice())
	})

	t.Run("EmptyCartIsZero", func(t *testing.T) {
		cart := Cart{}
		assert.Equal(t, 0, cart.TotalItems())
		assert.Equal(t, 0.0, cart.TotalPrice())
	})
}
