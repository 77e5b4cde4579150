package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/liberty-store/internal/application/orders"
	"github.com/jhoicas/liberty-store/internal/domain/entity"
)

const dashboardRecentEvents = 10 // eventos en el widget del panel

// OrderSummarizer fuente del resumen de pedidos.
type OrderSummarizer interface {
	Summary(ctx context.Context) (*orders.Summary, error)
}

// UserLister fuente del listado de usuarios.
type UserLister interface {
	ListUsers(ctx context.Context) []*entity.User
}

// RosterReader fuente de la plantilla de staff.
type RosterReader interface {
	Roster(ctx context.Context) []entity.StaffMember
}

// Dashboard resumen del panel de administración.
type Dashboard struct {
	Orders       *orders.Summary         `json:"orders"`
	Users        int                     `json:"users"`
	ActiveStaff  int                     `json:"activeStaff"`
	RecentEvents []entity.AnalyticsEvent `json:"recentEvents"`
	DateLabel    string                  `json:"dateLabel"`
}

// DashboardUseCase genera el resumen del panel.
type DashboardUseCase struct {
	orders  OrderSummarizer
	users   UserLister
	roster  RosterReader
	tracker *Tracker
	now     func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(orders OrderSummarizer, users UserLister, roster RosterReader, tracker *Tracker) *DashboardUseCase {
	return &DashboardUseCase{orders: orders, users: users, roster: roster, tracker: tracker, now: time.Now}
}

// WithClock sustituye el reloj de la etiqueta del mes.
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary construye el resumen. El resumen de pedidos puede ir a la base de datos,
// así que corre en paralelo con las lecturas del almacén.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*Dashboard, error) {
	type summaryResult struct {
		summary *orders.Summary
		err     error
	}
	summaryCh := make(chan summaryResult, 1)
	go func() {
		s, err := uc.orders.Summary(ctx)
		summaryCh <- summaryResult{s, err}
	}()

	users := uc.users.ListUsers(ctx)
	active := 0
	for _, m := range uc.roster.Roster(ctx) {
		if m.Status == entity.StaffActive {
			active++
		}
	}
	events := uc.tracker.Recent(ctx)
	if len(events) > dashboardRecentEvents {
		events = events[len(events)-dashboardRecentEvents:]
	}

	res := <-summaryCh
	if res.err != nil {
		return nil, fmt.Errorf("dashboard: resumen de pedidos: %w", res.err)
	}
	return &Dashboard{
		Orders:       res.summary,
		Users:        len(users),
		ActiveStaff:  active,
		RecentEvents: events,
		DateLabel:    monthLabel(uc.now()),
	}, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
