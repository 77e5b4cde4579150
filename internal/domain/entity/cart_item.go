package entity

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// El almacenamiento heredado guarda los precios como números JSON.
	decimal.MarshalJSONWithoutQuotes = true
}

// CartItem línea del carrito. Como mucho una línea por identidad de producto.
type CartItem struct {
	ID       string          `json:"id,omitempty"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency,omitempty"`
	Category string          `json:"category,omitempty"`
	Quantity int             `json:"quantity"`
}

// Identity clave de unicidad dentro del carrito: id si existe, si no el nombre.
func (c CartItem) Identity() string {
	if id := strings.TrimSpace(c.ID); id != "" {
		return id
	}
	return strings.TrimSpace(c.Name)
}

// LineTotal precio × cantidad.
func (c CartItem) LineTotal() decimal.Decimal {
	return c.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// UnmarshalJSON acepta además el campo heredado qty del checkout antiguo.
func (c *CartItem) UnmarshalJSON(data []byte) error {
	type alias CartItem
	var raw struct {
		alias
		Qty *int `json:"qty,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = CartItem(raw.alias)
	if c.Quantity == 0 && raw.Qty != nil {
		c.Quantity = *raw.Qty
	}
	return nil
}
