package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smokey-backend/internal/models"
)

func TestCartService(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(NewSQLiteCartPersister(db))

	brisket := models.CartItem{
		ProductID: "p1",
		Name:      "Smoked Brisket",
		Price:     models.Price(45),
		Quantity:  1,
	}

	t.Run("EmptyCartForNewSession", func(t *testing.T) {
		cart, err := carts.GetCart("fresh")
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
		assert.Zero(t, cart.TotalItems())
	})

	t.Run("AddMergesMatchingLines", func(t *testing.T) {
		_, err := carts.AddItem("s1", brisket)
		require.NoError(t, err)
		cart, err := carts.AddItem("s1", brisket)
		require.NoError(t, err)

		require.Len(t, cart.Items, 1)
		assert.Equal(t, 2, cart.Items[0].Quantity)
	})

	t.Run("DifferentOptionIsANewLine", func(t *testing.T) {
		withOption := brisket
		withOption.OptionID = "half"
		withOption.OptionName = "Half Slab"

		cart, err := carts.AddItem("s1", withOption)
		require.NoError(t, err)
		assert.Len(t, cart.Items, 2)
	})

	t.Run("CartSurvivesReload", func(t *testing.T) {
		reloaded := NewCartService(NewSQLiteCartPersister(db))
		cart, err := reloaded.GetCart("s1")
		require.NoError(t, err)
		assert.Len(t, cart.Items, 2)
		assert.Equal(t, 3, cart.TotalItems())
	})

	t.Run("SetQuantity", func(t *testing.T) {
		cart, err := carts.SetQuantity("s1", brisket.LineKey(), 5)
		require.NoError(t, err)
		assert.Equal(t, 5, cart.Items[0].Quantity)
	})

	t.Run("SetQuantityZeroRemovesLine", func(t *testing.T) {
		cart, err := carts.SetQuantity("s1", brisket.LineKey(), 0)
		require.NoError(t, err)
		assert.Len(t, cart.Items, 1)
	})

	t.Run("SetQuantityNegativeRemovesLine", func(t *testing.T) {
		_, err := carts.AddItem("s1", brisket)
		require.NoError(t, err)
		cart, err := carts.SetQuantity("s1", brisket.LineKey(), -3)
		require.NoError(t, err)
		assert.Len(t, cart.Items, 1)
	})

	t.Run("UnknownLineKey", func(t *testing.T) {
		_, err := carts.SetQuantity("s1", "no-such-line", 1)
		require.Error(t, err)
		assert.Equal(t, "cart item not found", err.Error())
	})

	t.Run("ClearCart", func(t *testing.T) {
		require.NoError(t, carts.ClearCart("s1"))
		cart, err := carts.GetCart("s1")
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
	})

	t.Run("MalformedBlobResetsToEmpty", func(t *testing.T) {
		_, err := db.Exec(
			"INSERT INTO carts (session_id, items, updated_at) VALUES (?, ?, ?)",
			"corrupt", "{not json", time.Now(),
		)
		require.NoError(t, err)

		cart, err := carts.GetCart("corrupt")
		require.NoError(t, err)
		assert.Empty(t, cart.Items)

		// The session stays usable after the reset
		cart, err = carts.AddItem("corrupt", brisket)
		require.NoError(t, err)
		assert.Len(t, cart.Items, 1)
	})
}
