package entity

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Estados de pago de un pedido.
const (
	PaymentPending   = "pendiente"
	PaymentCompleted = "completado"
	PaymentCancelled = "cancelado"
)

// ValidPaymentStatus indica si s es un estado de pago admitido.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentCancelled:
		return true
	}
	return false
}

// Order pedido finalizado. El libro de pedidos es solo-anexar; solo PaymentStatus y AdminNotes cambian.
//
// ID y User son campos heredados (checkout antiguo y liberty_orders); se conservan tal cual.
type Order struct {
	OrderID       string            `json:"orderId,omitempty"`
	ID            LegacyID          `json:"id,omitempty"`
	Items         []CartItem        `json:"items"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	Tax           decimal.Decimal   `json:"tax"`
	Amount        decimal.Decimal   `json:"amount"`
	UserName      string            `json:"userName,omitempty"`
	UserEmail     string            `json:"userEmail,omitempty"`
	User          string            `json:"user,omitempty"`
	OrderDate     string            `json:"orderDate,omitempty"`
	PaymentStatus string            `json:"paymentStatus,omitempty"`
	AdminNotes    string            `json:"adminNotes"`
	Customer      map[string]string `json:"customer,omitempty"`
}

// Reference identificador visible del pedido (orderId, o id en registros heredados).
func (o *Order) Reference() string {
	if o.OrderID != "" {
		return o.OrderID
	}
	return string(o.ID)
}

// OwnerEmail email del comprador (userEmail, o user en registros heredados).
func (o *Order) OwnerEmail() string {
	if o.UserEmail != "" {
		return o.UserEmail
	}
	return o.User
}

// Signature firma compuesta usada para deduplicar al fusionar pedidos heredados:
// referencia|email|importe (amount, si es cero subtotal, si no 0).
func (o *Order) Signature() string {
	amount := o.Amount
	if amount.IsZero() {
		amount = o.Subtotal
	}
	return strings.Join([]string{o.Reference(), o.OwnerEmail(), amount.String()}, "|")
}

// LegacyID id de pedidos heredados: texto, o número en los que guardaba Date.now().
type LegacyID string

// UnmarshalJSON acepta cadena o número.
func (id *LegacyID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = LegacyID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = LegacyID(n.String())
	return nil
}

// CustomerInfo datos del formulario de checkout.
type CustomerInfo map[string]string
