package orders

import (
	"context"
	"fmt"

	"github.com/jhoicas/liberty-store/internal/application/permission"
	"github.com/jhoicas/liberty-store/internal/application/ports"
	"github.com/jhoicas/liberty-store/internal/domain"
	"github.com/jhoicas/liberty-store/internal/domain/entity"
)

// ReceiptUseCase genera el comprobante PDF de un pedido.
type ReceiptUseCase struct {
	ledger    *Ledger
	generator ports.ReceiptGenerator
	business  string
}

// NewReceiptUseCase construye el caso de uso inyectando el generador.
func NewReceiptUseCase(ledger *Ledger, generator ports.ReceiptGenerator, business string) *ReceiptUseCase {
	return &ReceiptUseCase{ledger: ledger, generator: generator, business: business}
}

// DownloadReceipt devuelve el PDF y su nombre de archivo.
//
// Retorna:
//   - domain.ErrUnauthenticated  sin sesión.
//   - domain.ErrNotFound         si el pedido no existe.
//   - domain.ErrForbidden        si el pedido no es del usuario y no tiene acceso al panel.
func (uc *ReceiptUseCase) DownloadReceipt(ctx context.Context, session *entity.User, grant permission.Grant, ref string) ([]byte, string, error) {
	if session == nil {
		return nil, "", domain.ErrUnauthenticated
	}
	order, err := uc.ledger.Get(ctx, ref)
	if err != nil {
		return nil, "", err
	}
	if entity.NormalizeEmail(order.OwnerEmail()) != entity.NormalizeEmail(session.Email) && !grant.Has(permission.CapDashboard) {
		return nil, "", domain.ErrForbidden
	}
	pdf, err := uc.generator.GenerateOrderReceipt(ctx, order, uc.business)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: generación fallida: %w", err)
	}
	return pdf, fmt.Sprintf("pedido_%s.pdf", order.Reference()), nil
}
