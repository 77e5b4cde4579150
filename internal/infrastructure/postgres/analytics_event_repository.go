package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/liberty-store/internal/application/ports"
	"github.com/jhoicas/liberty-store/internal/domain/entity"
)

var _ ports.AnalyticsSink = (*AnalyticsEventRepo)(nil)

// AnalyticsEventRepo guarda los eventos de analítica en la tabla analytics_events.
// Se usa como sink cuando no hay broker configurado y el backend es PostgreSQL.
type AnalyticsEventRepo struct {
	q Querier
}

// NewAnalyticsEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAnalyticsEventRepository(q Querier) *AnalyticsEventRepo {
	return &AnalyticsEventRepo{q: q}
}

// Publish inserta el evento. Un timestamp ilegible se sustituye por la hora actual.
func (r *AnalyticsEventRepo) Publish(ctx context.Context, ev entity.AnalyticsEvent) error {
	at, err := time.Parse(time.RFC3339, ev.Timestamp)
	if err != nil {
		at = time.Now().UTC()
	}
	query := `
		INSERT INTO analytics_events (category, action, label, url, occurred_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.Exec(ctx, query, ev.Category, ev.Action, ev.Label, ev.URL, at); err != nil {
		return fmt.Errorf("insert analytics event: %w", err)
	}
	return nil
}
