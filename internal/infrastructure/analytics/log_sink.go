package analytics

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/liberty-store/internal/application/ports"
	"github.com/jhoicas/liberty-store/internal/domain/entity"
)

var _ ports.AnalyticsSink = LogSink{}

// LogSink escribe los eventos en el log (sin broker configurado).
type LogSink struct {
	Log zerolog.Logger
}

func (s LogSink) Publish(_ context.Context, ev entity.AnalyticsEvent) error {
	s.Log.Info().
		Str("category", ev.Category).
		Str("action", ev.Action).
		Str("label", ev.Label).
		Str("url", ev.URL).
		Msg("evento de analítica")
	return nil
}
