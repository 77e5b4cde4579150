// Package orders implementa el libro de pedidos (solo-anexar), el checkout guiado
// y el comprobante PDF de un pedido.
package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/liberty-store/internal/application/cart"
	"github.com/jhoicas/liberty-store/internal/application/permission"
	"github.com/jhoicas/liberty-store/internal/application/ports"
	"github.com/jhoicas/liberty-store/internal/application/records"
	"github.com/jhoicas/liberty-store/internal/domain"
	"github.com/jhoicas/liberty-store/internal/domain/entity"
)

// DefaultTaxRate impuesto aplicado al subtotal.
var DefaultTaxRate = decimal.RequireFromString("0.21")

// SummarySource agregador externo de pedidos (p. ej. consulta SQL sobre el documento).
type SummarySource interface {
	Summarize(ctx context.Context, key string) (int, map[string]decimal.Decimal, error)
}

// Summary resumen de pedidos para el panel.
type Summary struct {
	Count    int                        `json:"count"`
	ByStatus map[string]decimal.Decimal `json:"byStatus"`
	Total    decimal.Decimal            `json:"total"`
}

// Ledger libro de pedidos de un cliente.
type Ledger struct {
	docs       ports.DocumentStore
	taxRate    decimal.Decimal
	now        func() time.Time
	log        zerolog.Logger
	summary    SummarySource
	summaryKey string
}

// Option configura el Ledger.
type Option func(*Ledger)

// WithTaxRate fija el impuesto.
func WithTaxRate(rate decimal.Decimal) Option {
	return func(l *Ledger) { l.taxRate = rate }
}

// WithClock sustituye el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithSummarySource delega Summary en src; key es la clave completa del libro en el backend.
func WithSummarySource(src SummarySource, key string) Option {
	return func(l *Ledger) {
		l.summary = src
		l.summaryKey = key
	}
}

// NewLedger construye el libro.
func NewLedger(docs ports.DocumentStore, log zerolog.Logger, opts ...Option) *Ledger {
	l := &Ledger{docs: docs, taxRate: DefaultTaxRate, now: time.Now, log: log}
	for _, o := range opts {
		o(l)
	}
	return l
}

// decodeOrder lee un elemento del libro; false si no tiene forma de pedido.
func decodeOrder(raw json.RawMessage) (entity.Order, bool) {
	var o entity.Order
	if err := json.Unmarshal(raw, &o); err != nil {
		return entity.Order{}, false
	}
	return o, true
}

// decode pedidos legibles de raws. Los ilegibles siguen en el almacén, pero no se listan.
func (l *Ledger) decode(raws []json.RawMessage) []entity.Order {
	out := make([]entity.Order, 0, len(raws))
	for i, raw := range raws {
		o, ok := decodeOrder(raw)
		if !ok {
			l.log.Warn().Int("index", i).Msg("pedido ilegible en el libro, se omite")
			continue
		}
		out = append(out, o)
	}
	return out
}

// nextOrderID ORD-NNN con secuencia count+1; si ya existe se avanza hasta un hueco libre.
func nextOrderID(count int, orders []entity.Order) string {
	used := make(map[string]struct{}, len(orders))
	for i := range orders {
		used[orders[i].Reference()] = struct{}{}
	}
	for seq := count + 1; ; seq++ {
		id := fmt.Sprintf("ORD-%03d", seq)
		if _, taken := used[id]; !taken {
			return id
		}
	}
}

// PlaceOrder cierra el carrito en un pedido pendiente de pago. El pedido se anexa sin
// reescribir los anteriores y el carrito solo se vacía cuando quedó persistido.
func (l *Ledger) PlaceOrder(ctx context.Context, c *cart.Store, customer entity.CustomerInfo, session *entity.User) (*entity.Order, error) {
	if session == nil || strings.TrimSpace(session.Email) == "" || c == nil {
		return nil, domain.ErrUnauthenticated
	}
	items := c.Items(ctx)
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	raws, err := records.Load(ctx, l.docs, entity.KeyOrders)
	if err != nil {
		return nil, err
	}

	subtotal := cart.Total(items)
	tax := subtotal.Mul(l.taxRate).Round(2)
	order := entity.Order{
		OrderID:       nextOrderID(len(raws), l.decode(raws)),
		Items:         items,
		Subtotal:      subtotal,
		Tax:           tax,
		Amount:        subtotal.Add(tax),
		UserName:      session.Name,
		UserEmail:     session.Email,
		OrderDate:     l.now().UTC().Format(time.RFC3339),
		PaymentStatus: entity.PaymentPending,
		Customer:      customer,
	}
	if raws, err = records.Append(raws, order); err != nil {
		return nil, fmt.Errorf("codificar pedido: %w", err)
	}
	if err := records.Save(ctx, l.docs, entity.KeyOrders, raws); err != nil {
		return nil, err
	}
	if err := c.Clear(ctx); err != nil {
		l.log.Warn().Err(err).Str("order_id", order.OrderID).Msg("pedido guardado pero el carrito no se pudo vaciar")
	}
	l.log.Info().Str("order_id", order.OrderID).Str("amount", order.Amount.StringFixed(2)).Msg("pedido registrado")
	return &order, nil
}

// ledger elementos crudos del libro canónico. Si está vacío y existe el libro heredado,
// lo copia tal cual. Un libro canónico ilegible no se sustituye.
func (l *Ledger) ledger(ctx context.Context) ([]json.RawMessage, error) {
	raws, err := records.Load(ctx, l.docs, entity.KeyOrders)
	if err != nil || len(raws) > 0 {
		return raws, err
	}
	legacy, err := records.Load(ctx, l.docs, entity.KeyLegacyOrders)
	if err != nil || len(legacy) == 0 {
		return nil, nil
	}
	if err := records.Save(ctx, l.docs, entity.KeyOrders, legacy); err != nil {
		l.log.Warn().Int("orders", len(legacy)).Msg("no se pudo sincronizar el libro heredado")
	}
	return legacy, nil
}

// All devuelve los pedidos legibles del libro canónico, sincronizando el heredado si hace falta.
func (l *Ledger) All(ctx context.Context) []entity.Order {
	raws, err := l.ledger(ctx)
	if err != nil {
		l.log.Warn().Err(err).Msg("libro de pedidos ilegible")
		return []entity.Order{}
	}
	return l.decode(raws)
}

// OrdersForUser pedidos cuyo comprador coincide con email tras normalizar.
func (l *Ledger) OrdersForUser(ctx context.Context, email string) []entity.Order {
	email = entity.NormalizeEmail(email)
	out := []entity.Order{}
	if email == "" {
		return out
	}
	for _, o := range l.All(ctx) {
		if entity.NormalizeEmail(o.OwnerEmail()) == email {
			out = append(out, o)
		}
	}
	return out
}

// Get busca un pedido por referencia.
func (l *Ledger) Get(ctx context.Context, ref string) (*entity.Order, error) {
	for _, o := range l.All(ctx) {
		if o.Reference() == ref {
			o := o
			return &o, nil
		}
	}
	return nil, domain.ErrNotFound
}

// UpdatePayment cambia el estado de pago y, si notes no es nil, las notas de administración.
// Son los únicos campos mutables de un pedido: solo se reescriben esos dos campos del
// elemento afectado. Exige la capacidad payments.
func (l *Ledger) UpdatePayment(ctx context.Context, grant permission.Grant, ref, status string, notes *string) (*entity.Order, error) {
	if !grant.Has(permission.CapPayments) {
		return nil, domain.ErrForbidden
	}
	if !entity.ValidPaymentStatus(status) {
		return nil, fmt.Errorf("estado de pago %q: %w", status, domain.ErrInvalidInput)
	}
	raws, err := l.ledger(ctx)
	if err != nil {
		return nil, err
	}
	for i, raw := range raws {
		o, ok := decodeOrder(raw)
		if !ok || o.Reference() != ref {
			continue
		}
		fields := map[string]any{"paymentStatus": status}
		if notes != nil {
			fields["adminNotes"] = *notes
		}
		patched, err := records.Patch(raw, fields)
		if err != nil {
			return nil, err
		}
		raws[i] = patched
		if err := records.Save(ctx, l.docs, entity.KeyOrders, raws); err != nil {
			return nil, err
		}
		updated, _ := decodeOrder(patched)
		return &updated, nil
	}
	return nil, domain.ErrNotFound
}

// Summary cuenta los pedidos y suma importes por estado de pago.
func (l *Ledger) Summary(ctx context.Context) (*Summary, error) {
	if l.summary != nil {
		l.All(ctx)
		count, byStatus, err := l.summary.Summarize(ctx, l.summaryKey)
		if err != nil {
			return nil, fmt.Errorf("resumen de pedidos: %w", err)
		}
		return newSummary(count, byStatus), nil
	}
	orders := l.All(ctx)
	byStatus := make(map[string]decimal.Decimal)
	for _, o := range orders {
		status := o.PaymentStatus
		if status == "" {
			status = entity.PaymentPending
		}
		byStatus[status] = byStatus[status].Add(o.Amount)
	}
	return newSummary(len(orders), byStatus), nil
}

func newSummary(count int, byStatus map[string]decimal.Decimal) *Summary {
	total := decimal.Zero
	for _, v := range byStatus {
		total = total.Add(v)
	}
	return &Summary{Count: count, ByStatus: byStatus, Total: total}
}
