package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/liberty-store/internal/domain/entity"
)

// AddCartItemRequest añade una línea. Con ProductID el precio sale del catálogo;
// si no, se usan Name/Price/Currency tal cual.
type AddCartItemRequest struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	Category  string          `json:"category"`
	Quantity  int             `json:"quantity"`
}

// CartResponse contenido del carrito con totales.
type CartResponse struct {
	Items []entity.CartItem `json:"items"`
	Count int               `json:"count"`
	Total decimal.Decimal   `json:"total"`
}

// LinkResponse enlace de confirmación por mensajería.
type LinkResponse struct {
	URL string `json:"url"`
}
