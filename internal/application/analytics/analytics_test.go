package analytics_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/liberty-store/internal/application/analytics"
	"github.com/jhoicas/liberty-store/internal/application/orders"
	"github.com/jhoicas/liberty-store/internal/application/ports"
	"github.com/jhoicas/liberty-store/internal/domain/entity"
	"github.com/jhoicas/liberty-store/internal/infrastructure/kvstore"
)

// chanSink publica en un canal para poder esperar al envío asíncrono.
type chanSink chan entity.AnalyticsEvent

func (s chanSink) Publish(_ context.Context, ev entity.AnalyticsEvent) error {
	s <- ev
	return nil
}

func newDocs() ports.DocumentStore {
	return kvstore.NewStore(kvstore.NewMemory(0), zerolog.Nop())
}

// ──────────────────────────────────────────────────────────────────────────────
// Tracker
// ──────────────────────────────────────────────────────────────────────────────

func TestEvent_ConservaLosUltimos(t *testing.T) {
	ctx := context.Background()
	tr := analytics.NewTracker(newDocs(), nil, nil, zerolog.Nop())
	for i := 0; i < analytics.MaxStoredEvents+5; i++ {
		tr.Event(ctx, "cart", "add", fmt.Sprintf("p%d", i), "")
	}
	events := tr.Recent(ctx)
	require.Len(t, events, analytics.MaxStoredEvents)
	assert.Equal(t, "p5", events[0].Label)
	assert.Equal(t, fmt.Sprintf("p%d", analytics.MaxStoredEvents+4), events[len(events)-1].Label)
}

func TestEvent_NormalizaYFecha(t *testing.T) {
	tr := analytics.NewTracker(newDocs(), nil, nil, zerolog.Nop()).
		WithClock(func() time.Time { return time.Date(2026, 5, 1, 8, 30, 0, 0, time.UTC) })
	ev := tr.Event(context.Background(), " auth ", " login ", "", "https://liberty.shop/")
	assert.Equal(t, "auth", ev.Category)
	assert.Equal(t, "login", ev.Action)
	assert.Equal(t, "2026-05-01T08:30:00Z", ev.Timestamp)
}

func TestEvent_PublicaFueraDeLocal(t *testing.T) {
	sink := make(chanSink, 1)
	tr := analytics.NewTracker(newDocs(), sink, nil, zerolog.Nop())
	tr.Event(context.Background(), "order", "place", "ORD-001", "https://liberty.shop/checkout")

	select {
	case ev := <-sink:
		assert.Equal(t, "ORD-001", ev.Label)
	case <-time.After(time.Second):
		t.Fatal("el evento no llegó al sink")
	}
}

func TestEvent_NoPublicaEnLocal(t *testing.T) {
	sink := make(chanSink, 3)
	tr := analytics.NewTracker(newDocs(), sink, []string{"localhost", "dev.liberty"}, zerolog.Nop())
	ctx := context.Background()
	tr.Event(ctx, "a", "b", "", "http://localhost:3000/")
	tr.Event(ctx, "a", "b", "", "file:///index.html")
	tr.Event(ctx, "a", "b", "", "http://DEV.liberty/x")

	select {
	case ev := <-sink:
		t.Fatalf("no debía publicarse: %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
	assert.Len(t, tr.Recent(ctx), 3, "se guardan igualmente")
}

// ──────────────────────────────────────────────────────────────────────────────
// Dashboard
// ──────────────────────────────────────────────────────────────────────────────

type stubOrders struct{ err error }

func (s stubOrders) Summary(context.Context) (*orders.Summary, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &orders.Summary{Count: 2, Total: decimal.NewFromInt(90)}, nil
}

type stubUsers int

func (n stubUsers) ListUsers(context.Context) []*entity.User {
	return make([]*entity.User, int(n))
}

type stubRoster []entity.StaffMember

func (r stubRoster) Roster(context.Context) []entity.StaffMember { return r }

func TestGetSummary(t *testing.T) {
	ctx := context.Background()
	tr := analytics.NewTracker(newDocs(), nil, nil, zerolog.Nop())
	for i := 0; i < 15; i++ {
		tr.Event(ctx, "c", "a", fmt.Sprint(i), "")
	}
	roster := stubRoster{
		{Email: "a@gmail.com", Status: entity.StaffActive},
		{Email: "b@gmail.com", Status: entity.StaffInactive},
	}
	clock := func() time.Time { return time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC) }
	d, err := analytics.NewDashboardUseCase(stubOrders{}, stubUsers(4), roster, tr).WithClock(clock).GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Orders.Count)
	assert.Equal(t, 4, d.Users)
	assert.Equal(t, 1, d.ActiveStaff)
	require.Len(t, d.RecentEvents, 10)
	assert.Equal(t, "14", d.RecentEvents[9].Label)
	assert.Equal(t, "Febrero 2026", d.DateLabel)
}

func TestGetSummary_ErrorDeResumen(t *testing.T) {
	tr := analytics.NewTracker(newDocs(), nil, nil, zerolog.Nop())
	_, err := analytics.NewDashboardUseCase(stubOrders{err: assert.AnError}, stubUsers(0), stubRoster(nil), tr).GetSummary(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}
