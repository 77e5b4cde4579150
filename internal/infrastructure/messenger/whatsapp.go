// Package messenger construye enlaces de confirmación de pedidos por mensajería.
package messenger

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jhoicas/liberty-store/internal/application/cart"
	"github.com/jhoicas/liberty-store/internal/application/ports"
	"github.com/jhoicas/liberty-store/internal/domain/entity"
)

var _ ports.Messenger = (*WhatsApp)(nil)

var currencySymbols = map[string]string{"EUR": "€", "USD": "$"}

// WhatsApp genera enlaces https://wa.me/<teléfono>?text=<mensaje>.
type WhatsApp struct {
	phone    string
	business string
}

// NewWhatsApp construye el adaptador. phone sin "+" ni espacios.
func NewWhatsApp(phone, business string) *WhatsApp {
	return &WhatsApp{phone: strings.TrimPrefix(strings.ReplaceAll(phone, " ", ""), "+"), business: business}
}

// OrderLink mensaje con una línea por producto y el total.
func (w *WhatsApp) OrderLink(items []entity.CartItem, currency string) string {
	symbol, ok := currencySymbols[strings.ToUpper(currency)]
	if !ok {
		symbol = currency + " "
	}
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%dx %s (%s%s)", it.Quantity, it.Name, symbol, it.LineTotal().StringFixed(2)))
	}
	msg := fmt.Sprintf("Hola %s! 👋\n\nQuiero realizar el siguiente pedido:\n\n%s\n\n*Total: %s%s*",
		w.business, strings.Join(lines, "\n"), symbol, cart.Total(items).StringFixed(2))
	return "https://wa.me/" + w.phone + "?text=" + strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")
}
