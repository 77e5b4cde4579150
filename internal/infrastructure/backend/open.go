// Package backend selecciona y conecta el almacenamiento físico según STORE_BACKEND.
package backend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/liberty-store/internal/application/orders"
	"github.com/jhoicas/liberty-store/internal/application/ports"
	"github.com/jhoicas/liberty-store/internal/domain/repository"
	"github.com/jhoicas/liberty-store/internal/infrastructure/kvstore"
	"github.com/jhoicas/liberty-store/internal/infrastructure/postgres"
	"github.com/jhoicas/liberty-store/pkg/config"
)

// Backends admitidos.
const (
	Memory   = "memory"
	Redis    = "redis"
	Postgres = "postgres"
)

// Backend almacenamiento conectado. Summary y Events solo existen con PostgreSQL.
type Backend struct {
	Name    string
	Raw     repository.RawStorage
	Summary orders.SummarySource
	Events  ports.AnalyticsSink
	closers []func()
}

// Close libera las conexiones en orden inverso.
func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// Open conecta el backend configurado. Con PostgreSQL aplica antes las migraciones de esquema.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Backend, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	switch name {
	case "", Memory:
		log.Warn().Msg("backend en memoria: los datos se pierden al reiniciar")
		return &Backend{Name: Memory, Raw: kvstore.NewMemory(cfg.Store.QuotaBytes)}, nil

	case Redis:
		client, err := kvstore.ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("conexión a Redis: %w", err)
		}
		return &Backend{
			Name:    Redis,
			Raw:     kvstore.NewRedis(client, cfg.Redis.Prefix),
			closers: []func(){func() { _ = client.Close() }},
		}, nil

	case Postgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if err := postgres.Migrate(pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migraciones de esquema: %w", err)
		}
		return &Backend{
			Name:    Postgres,
			Raw:     postgres.NewKVRepository(pool),
			Summary: postgres.NewOrderSummaryRepository(pool),
			Events:  postgres.NewAnalyticsEventRepository(pool),
			closers: []func(){pool.Close},
		}, nil
	}
	return nil, fmt.Errorf("STORE_BACKEND %q no soportado (memory, redis, postgres)", cfg.Store.Backend)
}

// ClientIDs identificadores de cliente con al menos una clave en el backend, ordenados.
func ClientIDs(ctx context.Context, raw repository.RawStorage) ([]string, error) {
	keys, err := raw.Keys(ctx, kvstore.ClientKeyPrefix)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	for _, k := range keys {
		rest := strings.TrimPrefix(k, kvstore.ClientKeyPrefix)
		if id, _, ok := strings.Cut(rest, ":"); ok && id != "" {
			seen[id] = struct{}{}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
