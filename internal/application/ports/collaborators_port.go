package ports

import (
	"context"

	"github.com/jhoicas/liberty-store/internal/domain/entity"
)

// VerificationEmail parámetros de la plantilla de verificación.
type VerificationEmail struct {
	ToEmail          string
	VerificationCode string
	UserName         string
	CodeExpiry       string
}

// EmailSender define el puerto de salida para el envío del código de verificación.
// Cualquier adaptador (SMTP, proveedor transaccional, mock) debe implementar esta interfaz.
// El contexto lleva el timeout; un error hace que el código se muestre en pantalla.
type EmailSender interface {
	Send(ctx context.Context, msg VerificationEmail) error
}

// Messenger construye el enlace de confirmación humana del pedido (p. ej. WhatsApp).
type Messenger interface {
	OrderLink(items []entity.CartItem, currency string) string
}

// AnalyticsSink recibe los eventos de analítica. Envío sin confirmación: los errores solo se registran.
type AnalyticsSink interface {
	Publish(ctx context.Context, ev entity.AnalyticsEvent) error
}

// ReceiptGenerator genera el comprobante PDF de un pedido.
type ReceiptGenerator interface {
	GenerateOrderReceipt(ctx context.Context, order *entity.Order, business string) ([]byte, error)
}
