package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Price is a monetary amount that tolerates both representations the
// storefront sends: a raw number (45) or a currency-formatted string
// ("$45.00"). It is normalized to a float on unmarshal so the rest of the
// code deals with a single numeric type.
type Price float64

// UnmarshalJSON accepts a JSON number or a formatted string
func (p *Price) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*p = Price(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("invalid price: %s", string(b))
	}
	*p = Price(ParsePrice(s))
	return nil
}

// MarshalJSON emits the normalized number
func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(p))
}

// Amount returns the price as a float64
func (p Price) Amount() float64 {
	return float64(p)
}

// ParsePrice extracts a numeric amount from a currency-formatted string by
// stripping every non-numeric character. Unparseable input yields 0.
func ParsePrice(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return f
}

// CartAddon is a selected add-on attached to a cart line
type CartAddon struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    Price  `json:"price"`
	Quantity int    `json:"quantity"`
}

// CartItem is a single line in a cart. Line identity is the product id plus
// the selected option and the sorted add-on ids, so the same product with
// different add-on sets coexists as distinct lines.
type CartItem struct {
	ProductID     string      `json:"productId"`
	OptionID      string      `json:"optionId,omitempty"`
	OptionName    string      `json:"optionName,omitempty"`
	Name          string      `json:"name"`
	Price         Price       `json:"price"`
	OriginalPrice *Price      `json:"originalPrice,omitempty"`
	Quantity      int         `json:"quantity"`
	Addons        []CartAddon `json:"addons,omitempty"`
}

// LineKey returns the identity key for this cart line
func (i *CartItem) LineKey() string {
	addonIDs := make([]string, 0, len(i.Addons))
	for _, a := range i.Addons {
		addonIDs = append(addonIDs, a.ID)
	}
	sort.Strings(addonIDs)
	return i.ProductID + "|" + i.OptionID + "|" + strings.Join(addonIDs, ",")
}

// LineTotal returns quantity x price plus the line's add-on totals
func (i *CartItem) LineTotal() float64 {
	total := float64(i.Quantity) * i.Price.Amount()
	for _, a := range i.Addons {
		qty := a.Quantity
		if qty <= 0 {
			qty = 1
		}
		total += float64(qty) * a.Price.Amount()
	}
	return total
}

// Cart holds the lines of one storefront session
type Cart struct {
	Items []CartItem `json:"items"`
}

// TotalItems returns the summed quantity across all lines
func (c *Cart) TotalItems() int {
	total := 0
	for i := range c.Items {
		total += c.Items[i].Quantity
	}
	return total
}

// TotalPrice returns the summed line totals
func (c *Cart) TotalPrice() float64 {
	total := 0.0
	for i := range c.Items {
		total += c.Items[i].LineTotal()
	}
	return total
}
