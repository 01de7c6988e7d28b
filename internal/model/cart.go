package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CartItem is a snapshot of a Product taken when it was first added to the
// cart, plus the quantity. Later product edits do not touch it.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

func NewCartItem(p Product) CartItem {
	return CartItem{Product: p, Quantity: 1}
}

// UnmarshalJSON is needed because the embedded Product decoder would
// otherwise swallow the quantity.
func (i *CartItem) UnmarshalJSON(b []byte) error {
	if err := i.Product.UnmarshalJSON(b); err != nil {
		return err
	}
	var q struct {
		Quantity int `json:"quantity"`
	}
	if err := json.Unmarshal(b, &q); err != nil {
		return err
	}
	i.Quantity = q.Quantity
	return nil
}

// Subtotal is price × quantity, unrounded.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Decimal.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
