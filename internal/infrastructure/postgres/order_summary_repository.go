package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// OrderSummaryRepo agrega los pedidos guardados como documento JSON en kv_entries.doc.
type OrderSummaryRepo struct {
	q Querier
}

// NewOrderSummaryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderSummaryRepository(q Querier) *OrderSummaryRepo {
	return &OrderSummaryRepo{q: q}
}

// orderSummaryQuery agrupa como Ledger.Summary en memoria: estado vacío o ausente es
// pendiente; amount vale como número o como texto numérico, si no cuenta 0.
const orderSummaryQuery = `
	SELECT COALESCE(NULLIF(o->>'paymentStatus', ''), 'pendiente') AS status,
	       COUNT(*),
	       COALESCE(SUM(CASE
	           WHEN jsonb_typeof(o->'amount') = 'number' THEN (o->>'amount')::numeric
	           WHEN jsonb_typeof(o->'amount') = 'string' AND o->>'amount' ~ '^-?[0-9]+(\.[0-9]+)?$'
	                THEN (o->>'amount')::numeric
	           ELSE 0 END), 0)
	FROM kv_entries e
	CROSS JOIN LATERAL jsonb_array_elements(
		CASE WHEN jsonb_typeof(e.doc) = 'array' THEN e.doc ELSE '[]'::jsonb END
	) AS o
	WHERE e.key = $1 AND jsonb_typeof(o) = 'object'
	GROUP BY 1`

// Summarize cuenta los pedidos del documento en key y suma su importe por estado de pago.
func (r *OrderSummaryRepo) Summarize(ctx context.Context, key string) (count int, totals map[string]decimal.Decimal, err error) {
	rows, err := r.q.Query(ctx, orderSummaryQuery, key)
	if err != nil {
		return 0, nil, fmt.Errorf("summarize orders: %w", err)
	}
	defer rows.Close()

	totals = make(map[string]decimal.Decimal)
	for rows.Next() {
		var (
			status string
			n      int
			amount decimal.Decimal
		)
		if err := rows.Scan(&status, &n, &amount); err != nil {
			return 0, nil, fmt.Errorf("scan order summary: %w", err)
		}
		count += n
		totals[status] = amount
	}
	return count, totals, rows.Err()
}
