// Package analytics registra los eventos de uso de la tienda y compone el resumen
// del panel de administración.
package analytics

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/liberty-store/internal/application/ports"
	"github.com/jhoicas/liberty-store/internal/domain/entity"
)

// MaxStoredEvents eventos conservados en analytics-events.
const MaxStoredEvents = 100

// DefaultLocalHosts hosts de desarrollo en los que no se envía nada al sink.
var DefaultLocalHosts = []string{"localhost", "127.0.0.1"}

// Tracker guarda los últimos eventos y los reenvía al sink.
type Tracker struct {
	docs       ports.DocumentStore
	sink       ports.AnalyticsSink
	localHosts []string
	timeout    time.Duration
	now        func() time.Time
	log        zerolog.Logger
}

// NewTracker construye el tracker. sink puede ser nil (solo almacenamiento local).
func NewTracker(docs ports.DocumentStore, sink ports.AnalyticsSink, localHosts []string, log zerolog.Logger) *Tracker {
	if len(localHosts) == 0 {
		localHosts = DefaultLocalHosts
	}
	return &Tracker{docs: docs, sink: sink, localHosts: localHosts, timeout: 3 * time.Second, now: time.Now, log: log}
}

// WithClock sustituye el reloj (tests).
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// Event registra un evento. El envío al sink no bloquea ni devuelve error.
func (t *Tracker) Event(ctx context.Context, category, action, label, pageURL string) entity.AnalyticsEvent {
	ev := entity.AnalyticsEvent{
		Category:  strings.TrimSpace(category),
		Action:    strings.TrimSpace(action),
		Label:     strings.TrimSpace(label),
		Timestamp: t.now().UTC().Format(time.RFC3339),
		URL:       pageURL,
	}

	events := t.Recent(ctx)
	events = append(events, ev)
	if len(events) > MaxStoredEvents {
		events = events[len(events)-MaxStoredEvents:]
	}
	if !t.docs.SetJSON(ctx, entity.KeyAnalyticsEvents, events) {
		t.log.Warn().Str("action", ev.Action).Msg("no se pudo guardar el evento de analítica")
	}

	if t.sink != nil && !t.isLocal(pageURL) {
		go t.publish(ev)
	}
	return ev
}

func (t *Tracker) publish(ev entity.AnalyticsEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()
	if err := t.sink.Publish(ctx, ev); err != nil {
		t.log.Warn().Err(err).Str("category", ev.Category).Str("action", ev.Action).Msg("envío de analítica fallido")
	}
}

// Recent eventos guardados, del más antiguo al más reciente.
func (t *Tracker) Recent(ctx context.Context) []entity.AnalyticsEvent {
	var events []entity.AnalyticsEvent
	t.docs.GetJSON(ctx, entity.KeyAnalyticsEvents, &events)
	return events
}

// isLocal indica si la página es de desarrollo (host local o archivo).
func (t *Tracker) isLocal(pageURL string) bool {
	if strings.HasPrefix(pageURL, "file:") {
		return true
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return false
	}
	host := u.Hostname()
	for _, h := range t.localHosts {
		if strings.EqualFold(host, h) {
			return true
		}
	}
	return false
}
