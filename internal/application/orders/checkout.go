package orders

import (
	"github.com/jhoicas/liberty-store/internal/application/ports"
	"github.com/jhoicas/liberty-store/internal/domain"
	"github.com/jhoicas/liberty-store/internal/domain/entity"
)

// ConfirmationLink enlace de confirmación humana del pedido a partir del carrito actual.
func ConfirmationLink(m ports.Messenger, items []entity.CartItem, currency string) (string, error) {
	if len(items) == 0 {
		return "", domain.ErrEmptyCart
	}
	return m.OrderLink(items, currency), nil
}
