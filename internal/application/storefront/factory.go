// Package storefront compone, para cada cliente (navegador o dispositivo), los servicios
// de la tienda sobre su espacio de nombres del almacén compartido.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/liberty-store/internal/application/analytics"
	"github.com/jhoicas/liberty-store/internal/application/auth"
	"github.com/jhoicas/liberty-store/internal/application/cart"
	"github.com/jhoicas/liberty-store/internal/application/catalog"
	"github.com/jhoicas/liberty-store/internal/application/migration"
	"github.com/jhoicas/liberty-store/internal/application/orders"
	"github.com/jhoicas/liberty-store/internal/application/permission"
	"github.com/jhoicas/liberty-store/internal/application/ports"
	"github.com/jhoicas/liberty-store/internal/application/verification"
	"github.com/jhoicas/liberty-store/internal/domain"
	"github.com/jhoicas/liberty-store/internal/domain/entity"
)

// Backend almacén compartido del que se abre el espacio de cada cliente.
type Backend interface {
	Open(clientID string) ports.DocumentStore
	PhysicalKey(clientID, key string) string
}

// Settings parámetros de negocio comunes a todos los clientes.
type Settings struct {
	Auth              auth.Options
	EmailVerification bool
	SendTimeout       time.Duration
	TaxRate           decimal.Decimal
	Currency          string
	Business          string
	LocalHosts        []string
}

// Deps colaboradores compartidos. Sender, Sink, Summary y Receipts son opcionales.
type Deps struct {
	Backend   Backend
	Catalog   *catalog.Catalog
	Sender    ports.EmailSender
	Sink      ports.AnalyticsSink
	Messenger ports.Messenger
	Receipts  ports.ReceiptGenerator
	Summary   orders.SummarySource
	Settings  Settings
	Log       zerolog.Logger
	Now       func() time.Time
}

// Factory construye los servicios de cada cliente.
type Factory struct {
	deps   Deps
	owners *permission.OwnerPolicy
}

// NewFactory valida las dependencias y fija la política de dueños.
// El email del acceso maestro solo es dueño si el acceso está habilitado.
func NewFactory(deps Deps) (*Factory, error) {
	if deps.Backend == nil {
		return nil, errors.New("storefront: backend obligatorio")
	}
	if deps.Catalog == nil {
		return nil, errors.New("storefront: catálogo obligatorio")
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Settings.TaxRate.IsZero() {
		deps.Settings.TaxRate = orders.DefaultTaxRate
	}
	var extra []string
	if deps.Settings.Auth.MasterBypass {
		extra = append(extra, deps.Settings.Auth.MasterEmail)
	}
	return &Factory{deps: deps, owners: permission.NewOwnerPolicy(extra...)}, nil
}

// Catalog catálogo compartido.
func (f *Factory) Catalog() *catalog.Catalog { return f.deps.Catalog }

// Messenger destino del enlace de confirmación.
func (f *Factory) Messenger() ports.Messenger { return f.deps.Messenger }

// Currency moneda por defecto del checkout.
func (f *Factory) Currency() string { return f.deps.Settings.Currency }

// Client servicios de un cliente concreto.
type Client struct {
	ID        string
	Docs      ports.DocumentStore
	Directory *auth.Directory
	Codes     *verification.Ledger
	Orders    *orders.Ledger
	Receipts  *orders.ReceiptUseCase
	Staff     *permission.StaffService
	Migrator  *migration.Migrator
	Tracker   *analytics.Tracker
	Dashboard *analytics.DashboardUseCase
}

// For abre el espacio de clientID y compone sus servicios. No toca el almacén.
func (f *Factory) For(clientID string) *Client {
	d := f.deps
	log := d.Log.With().Str("client_id", clientID).Logger()
	docs := d.Backend.Open(clientID)

	var codes *verification.Ledger
	if d.Settings.EmailVerification {
		codes = verification.NewLedger(docs, d.Sender, log.With().Str("component", "verification").Logger(),
			verification.WithClock(d.Now), verification.WithSendTimeout(d.Settings.SendTimeout))
	}
	dir := auth.NewDirectory(docs, f.owners, codes, d.Settings.Auth, log.With().Str("component", "auth").Logger()).
		WithClock(d.Now)

	orderOpts := []orders.Option{orders.WithTaxRate(d.Settings.TaxRate), orders.WithClock(d.Now)}
	if d.Summary != nil {
		orderOpts = append(orderOpts, orders.WithSummarySource(d.Summary, d.Backend.PhysicalKey(clientID, entity.KeyOrders)))
	}
	ledger := orders.NewLedger(docs, log.With().Str("component", "orders").Logger(), orderOpts...)
	staff := permission.NewStaffService(docs, f.owners, d.Now)
	tracker := analytics.NewTracker(docs, d.Sink, d.Settings.LocalHosts, log.With().Str("component", "analytics").Logger()).
		WithClock(d.Now)

	c := &Client{
		ID:        clientID,
		Docs:      docs,
		Directory: dir,
		Codes:     codes,
		Orders:    ledger,
		Staff:     staff,
		Migrator:  migration.NewMigrator(docs, log.With().Str("component", "migration").Logger()),
		Tracker:   tracker,
		Dashboard: analytics.NewDashboardUseCase(ledger, dir, staff, tracker).WithClock(d.Now),
	}
	if d.Receipts != nil {
		c.Receipts = orders.NewReceiptUseCase(ledger, d.Receipts, d.Settings.Business)
	}
	return c
}

// Prepare deja el espacio listo para atender una petición: migra datos heredados y siembra
// el usuario demo. Devuelve la sesión actual o nil si no hay.
func (c *Client) Prepare(ctx context.Context) (*entity.User, error) {
	session, err := c.Directory.CurrentSession(ctx)
	if err != nil && !errors.Is(err, domain.ErrUnauthenticated) {
		return nil, err
	}
	if _, err := c.Migrator.Run(ctx, migration.Env{Session: session}); err != nil {
		return nil, fmt.Errorf("migración: %w", err)
	}
	if _, err := c.Directory.Bootstrap(ctx); err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	// La limpieza de auth de la primera migración puede haber cerrado la sesión.
	session, err = c.Directory.CurrentSession(ctx)
	if errors.Is(err, domain.ErrUnauthenticated) {
		return nil, nil
	}
	return session, err
}

// Cart carrito de la sesión.
func (c *Client) Cart(session *entity.User) (*cart.Store, error) {
	return cart.Open(c.Docs, session)
}

// Grant permisos efectivos de la sesión (nil = invitado).
func (c *Client) Grant(ctx context.Context, session *entity.User) permission.Grant {
	return c.Staff.GrantFor(ctx, session)
}
