package orders_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/liberty-store/internal/application/cart"
	"github.com/jhoicas/liberty-store/internal/application/orders"
	"github.com/jhoicas/liberty-store/internal/application/permission"
	"github.com/jhoicas/liberty-store/internal/application/ports"
	"github.com/jhoicas/liberty-store/internal/domain"
	"github.com/jhoicas/liberty-store/internal/domain/entity"
	"github.com/jhoicas/liberty-store/internal/infrastructure/kvstore"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var fixedNow = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }

var (
	buyer = &entity.User{Name: "Ana", Email: "ana@gmail.com"}
	owner = permission.Grant{Role: entity.RoleOwner, Capabilities: permission.AllCapabilities}
	staff = permission.Grant{Role: entity.RoleStaff, Capabilities: []permission.Capability{permission.CapDashboard}}
	guest = permission.Grant{Role: entity.RoleViewer, Capabilities: []permission.Capability{}}
)

func newDocs() ports.DocumentStore {
	return kvstore.NewStore(kvstore.NewMemory(0), zerolog.Nop())
}

func newLedger(docs ports.DocumentStore, opts ...orders.Option) *orders.Ledger {
	opts = append([]orders.Option{orders.WithClock(fixedNow)}, opts...)
	return orders.NewLedger(docs, zerolog.Nop(), opts...)
}

func fillCart(t *testing.T, docs ports.DocumentStore, session *entity.User, lines ...entity.CartItem) *cart.Store {
	t.Helper()
	c, err := cart.Open(docs, session)
	require.NoError(t, err)
	for _, l := range lines {
		_, err := c.Add(context.Background(), l, l.Quantity)
		require.NoError(t, err)
	}
	return c
}

func storedOrders(t *testing.T, docs ports.DocumentStore) []json.RawMessage {
	t.Helper()
	raw, ok := docs.GetRaw(context.Background(), entity.KeyOrders)
	require.True(t, ok)
	var elems []json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &elems))
	return elems
}

func line(name, price string, qty int) entity.CartItem {
	return entity.CartItem{Name: name, Price: decimal.RequireFromString(price), Currency: "EUR", Quantity: qty}
}

// ──────────────────────────────────────────────────────────────────────────────
// PlaceOrder
// ──────────────────────────────────────────────────────────────────────────────

func TestPlaceOrder_CierraCarrito(t *testing.T) {
	ctx := context.Background()
	docs := newDocs()
	l := newLedger(docs)
	c := fillCart(t, docs, buyer, line("Web Básica", "100", 3))

	order, err := l.PlaceOrder(ctx, c, entity.CustomerInfo{"phone": "600000000"}, buyer)
	require.NoError(t, err)

	assert.Equal(t, "ORD-001", order.OrderID)
	assert.Equal(t, "300.00", order.Subtotal.StringFixed(2))
	assert.Equal(t, "63.00", order.Tax.StringFixed(2))
	assert.Equal(t, "363.00", order.Amount.StringFixed(2))
	assert.Equal(t, entity.PaymentPending, order.PaymentStatus)
	assert.Equal(t, "2026-03-14T12:00:00Z", order.OrderDate)
	assert.Equal(t, "600000000", order.Customer["phone"])
	assert.Empty(t, c.Items(ctx), "el carrito se vacía tras el pedido")

	c = fillCart(t, docs, buyer, line("Logo", "50", 1))
	second, err := l.PlaceOrder(ctx, c, nil, buyer)
	require.NoError(t, err)
	assert.Equal(t, "ORD-002", second.OrderID)
	assert.Len(t, l.All(ctx), 2)
}

func TestPlaceOrder_ImpuestoConfigurable(t *testing.T) {
	ctx := context.Background()
	docs := newDocs()
	l := newLedger(docs, orders.WithTaxRate(decimal.Zero))
	order, err := l.PlaceOrder(ctx, fillCart(t, docs, buyer, line("A", "10", 1)), nil, buyer)
	require.NoError(t, err)
	assert.True(t, order.Tax.IsZero())
	assert.True(t, order.Amount.Equal(order.Subtotal))
}

func TestPlaceOrder_CarritoVacio(t *testing.T) {
	docs := newDocs()
	c, err := cart.Open(docs, buyer)
	require.NoError(t, err)
	_, err = newLedger(docs).PlaceOrder(context.Background(), c, nil, buyer)
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestPlaceOrder_SinSesion(t *testing.T) {
	docs := newDocs()
	c := fillCart(t, docs, buyer, line("A", "10", 1))
	_, err := newLedger(docs).PlaceOrder(context.Background(), c, nil, nil)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestPlaceOrder_SaltaReferenciasOcupadas(t *testing.T) {
	ctx := context.Background()
	docs := newDocs()
	require.True(t, docs.SetJSON(ctx, entity.KeyOrders, []entity.Order{{OrderID: "ORD-002"}}))
	order, err := newLedger(docs).PlaceOrder(ctx, fillCart(t, docs, buyer, line("A", "10", 1)), nil, buyer)
	require.NoError(t, err)
	assert.Equal(t, "ORD-003", order.OrderID)
}

func TestPlaceOrder_LibroIlegibleNoSeSustituye(t *testing.T) {
	ctx := context.Background()
	docs := newDocs()
	require.True(t, docs.SetRaw(ctx, entity.KeyOrders, []byte(`{"roto":true}`)))
	c := fillCart(t, docs, buyer, line("A", "10", 1))

	_, err := newLedger(docs).PlaceOrder(ctx, c, nil, buyer)
	assert.ErrorIs(t, err, domain.ErrStorage)

	raw, ok := docs.GetRaw(ctx, entity.KeyOrders)
	require.True(t, ok)
	assert.JSONEq(t, `{"roto":true}`, string(raw))
	assert.Equal(t, 1, c.Count(ctx), "el carrito se conserva")
}

func TestPlaceOrder_AnexaSinReescribirPedidosAnteriores(t *testing.T) {
	ctx := context.Background()
	docs := newDocs()
	previous := `{"id":1700000000,"user":"luis@gmail.com","amount":40,"items":[{"name":"Logo","image":"logo.png","price":40,"quantity":1}]}`
	require.True(t, docs.SetRaw(ctx, entity.KeyOrders, []byte("["+previous+"]")))

	order, err := newLedger(docs).PlaceOrder(ctx, fillCart(t, docs, buyer, line("A", "10", 1)), nil, buyer)
	require.NoError(t, err)
	assert.Equal(t, "ORD-002", order.OrderID)

	elems := storedOrders(t, docs)
	require.Len(t, elems, 2)
	assert.JSONEq(t, previous, string(elems[0]))
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas
// ──────────────────────────────────────────────────────────────────────────────

func TestAll_SincronizaLibroHeredado(t *testing.T) {
	ctx := context.Background()
	docs := newDocs()
	legacy := []entity.Order{{ID: "L-1", User: "luis@gmail.com", Amount: decimal.NewFromInt(40)}}
	require.True(t, docs.SetJSON(ctx, entity.KeyLegacyOrders, legacy))

	all := newLedger(docs).All(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, "L-1", all[0].Reference())

	var canonical []entity.Order
	require.True(t, docs.GetJSON(ctx, entity.KeyOrders, &canonical))
	assert.Len(t, canonical, 1)
}

func TestOrdersForUser_FiltraPorEmailNormalizado(t *testing.T) {
	ctx := context.Background()
	docs := newDocs()
	require.True(t, docs.SetJSON(ctx, entity.KeyOrders, []entity.Order{
		{OrderID: "ORD-001", UserEmail: "ANA@gmail.com"},
		{OrderID: "ORD-002", UserEmail: "luis@gmail.com"},
		{ID: "ORD-003", User: " ana@gmail.com"},
	}))
	mine := newLedger(docs).OrdersForUser(ctx, "ana@gmail.com")
	require.Len(t, mine, 2)
	assert.Equal(t, "ORD-001", mine[0].Reference())
	assert.Equal(t, "ORD-003", mine[1].Reference())
	assert.Empty(t, newLedger(docs).OrdersForUser(ctx, ""))
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdatePayment y Summary
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdatePayment(t *testing.T) {
	ctx := context.Background()
	docs := newDocs()
	l := newLedger(docs)
	_, err := l.PlaceOrder(ctx, fillCart(t, docs, buyer, line("A", "100", 1)), nil, buyer)
	require.NoError(t, err)

	_, err = l.UpdatePayment(ctx, staff, "ORD-001", entity.PaymentCompleted, nil)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = l.UpdatePayment(ctx, owner, "ORD-001", "pagado", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = l.UpdatePayment(ctx, owner, "ORD-999", entity.PaymentCompleted, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	notes := "transferencia recibida"
	updated, err := l.UpdatePayment(ctx, owner, "ORD-001", entity.PaymentCompleted, &notes)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentCompleted, updated.PaymentStatus)
	assert.Equal(t, notes, updated.AdminNotes)

	stored, err := l.Get(ctx, "ORD-001")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentCompleted, stored.PaymentStatus)
	assert.True(t, stored.Amount.Equal(updated.Amount), "el importe no cambia")
}

func TestUpdatePayment_SoloCambiaElPedidoAfectado(t *testing.T) {
	ctx := context.Background()
	docs := newDocs()
	first := `{"orderId":"ORD-001","userEmail":"ana@gmail.com","amount":121,"paymentStatus":"pendiente",` +
		`"items":[{"name":"Logo","image":"logo.png","price":100,"quantity":1}]}`
	second := `{"id":1700000000,"user":"luis@gmail.com","amount":40,"extra":{"canal":"web"}}`
	require.True(t, docs.SetRaw(ctx, entity.KeyOrders, []byte("["+first+","+second+"]")))
	l := newLedger(docs)

	notes := "transferencia recibida"
	updated, err := l.UpdatePayment(ctx, owner, "ORD-001", entity.PaymentCompleted, &notes)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentCompleted, updated.PaymentStatus)

	elems := storedOrders(t, docs)
	require.Len(t, elems, 2)
	assert.JSONEq(t, second, string(elems[1]), "el resto del libro no se reescribe")

	var patched map[string]any
	require.NoError(t, json.Unmarshal(elems[0], &patched))
	assert.Equal(t, entity.PaymentCompleted, patched["paymentStatus"])
	assert.Equal(t, notes, patched["adminNotes"])
	assert.NotContains(t, patched, "subtotal", "no se añaden campos que el pedido no tenía")
	item := patched["items"].([]any)[0].(map[string]any)
	assert.Equal(t, "logo.png", item["image"])

	legacy, err := l.UpdatePayment(ctx, owner, "1700000000", entity.PaymentCancelled, nil)
	require.NoError(t, err, "los ids numéricos heredados se encuentran por referencia")
	assert.Equal(t, entity.PaymentCancelled, legacy.PaymentStatus)
}

func TestSummary_ImporteEntreComillasYEstadoVacio(t *testing.T) {
	ctx := context.Background()
	docs := newDocs()
	require.True(t, docs.SetRaw(ctx, entity.KeyOrders, []byte(
		`[{"orderId":"ORD-001","amount":"12.50","paymentStatus":""},{"orderId":"ORD-002","amount":7.5}]`)))
	s, err := newLedger(docs).Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, "20", s.ByStatus[entity.PaymentPending].String())
	assert.NotContains(t, s.ByStatus, "")
}

func TestSummary_AgrupaPorEstado(t *testing.T) {
	ctx := context.Background()
	docs := newDocs()
	require.True(t, docs.SetJSON(ctx, entity.KeyOrders, []entity.Order{
		{OrderID: "ORD-001", Amount: decimal.NewFromInt(100), PaymentStatus: entity.PaymentCompleted},
		{OrderID: "ORD-002", Amount: decimal.NewFromInt(50)},
		{OrderID: "ORD-003", Amount: decimal.NewFromInt(25), PaymentStatus: entity.PaymentPending},
	}))
	s, err := newLedger(docs).Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, "75", s.ByStatus[entity.PaymentPending].String())
	assert.Equal(t, "100", s.ByStatus[entity.PaymentCompleted].String())
	assert.Equal(t, "175", s.Total.String())
}

type stubSummary struct {
	key string
	err error
}

func (s *stubSummary) Summarize(_ context.Context, key string) (int, map[string]decimal.Decimal, error) {
	s.key = key
	if s.err != nil {
		return 0, nil, s.err
	}
	return 2, map[string]decimal.Decimal{entity.PaymentPending: decimal.NewFromInt(10)}, nil
}

func TestSummary_DelegaEnFuenteExterna(t *testing.T) {
	ctx := context.Background()
	src := &stubSummary{}
	s, err := newLedger(newDocs(), orders.WithSummarySource(src, "client:x:orders")).Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, "client:x:orders", src.key)
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, "10", s.Total.String())

	src.err = errors.New("conexión rechazada")
	_, err = newLedger(newDocs(), orders.WithSummarySource(src, "k")).Summary(ctx)
	assert.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Enlace y comprobante
// ──────────────────────────────────────────────────────────────────────────────

type fakeMessenger struct{}

func (fakeMessenger) OrderLink(items []entity.CartItem, _ string) string {
	return "https://wa.me/x?n=" + items[0].Name
}

func TestConfirmationLink(t *testing.T) {
	_, err := orders.ConfirmationLink(fakeMessenger{}, nil, "EUR")
	assert.ErrorIs(t, err, domain.ErrEmptyCart)

	link, err := orders.ConfirmationLink(fakeMessenger{}, []entity.CartItem{line("A", "1", 1)}, "EUR")
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/x?n=A", link)
}

type fakeReceipts struct{ business string }

func (f *fakeReceipts) GenerateOrderReceipt(_ context.Context, o *entity.Order, business string) ([]byte, error) {
	f.business = business
	return []byte("%PDF-" + o.Reference()), nil
}

func TestDownloadReceipt_Acceso(t *testing.T) {
	ctx := context.Background()
	docs := newDocs()
	l := newLedger(docs)
	_, err := l.PlaceOrder(ctx, fillCart(t, docs, buyer, line("A", "10", 1)), nil, buyer)
	require.NoError(t, err)

	gen := &fakeReceipts{}
	uc := orders.NewReceiptUseCase(l, gen, "Liberty")

	pdf, name, err := uc.DownloadReceipt(ctx, buyer, guest, "ORD-001")
	require.NoError(t, err)
	assert.Equal(t, "pedido_ORD-001.pdf", name)
	assert.Equal(t, "%PDF-ORD-001", string(pdf))
	assert.Equal(t, "Liberty", gen.business)

	other := &entity.User{Email: "luis@gmail.com"}
	_, _, err = uc.DownloadReceipt(ctx, other, guest, "ORD-001")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, _, err = uc.DownloadReceipt(ctx, other, staff, "ORD-001")
	assert.NoError(t, err, "con acceso al panel se ve cualquier pedido")

	_, _, err = uc.DownloadReceipt(ctx, nil, guest, "ORD-001")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, _, err = uc.DownloadReceipt(ctx, buyer, guest, "ORD-404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
