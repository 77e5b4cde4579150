// migrate aplica las migraciones de datos heredados a todos los clientes del backend configurado
// (y, con PostgreSQL, antes el esquema kv_entries).
//
// Uso: go run ./cmd/migrate [-dry-run]
// Con -dry-run solo informa la versión de esquema de cada cliente.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/liberty-store/internal/application/migration"
	"github.com/jhoicas/liberty-store/internal/domain/entity"
	"github.com/jhoicas/liberty-store/internal/infrastructure/backend"
	"github.com/jhoicas/liberty-store/internal/infrastructure/kvstore"
	"github.com/jhoicas/liberty-store/pkg/config"
	"github.com/jhoicas/liberty-store/pkg/logger"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "solo informar versiones, sin escribir")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	store, err := backend.Open(ctx, cfg, log.Component("kvstore"))
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer store.Close()

	ids, err := backend.ClientIDs(ctx, store.Raw)
	if err != nil {
		log.Fatal().Err(err).Msg("listar clientes")
	}
	shared := kvstore.NewShared(store.Raw, log.Component("kvstore"))

	var migrated, failed int
	for _, id := range ids {
		docs := shared.Open(id)
		m := migration.NewMigrator(docs, log.Component("migration").With().Str("client_id", id).Logger())
		if *dryRun {
			fmt.Printf("%s\tversión %d/%d\n", id, m.Version(ctx), migration.LatestVersion())
			continue
		}
		// Sin sesión: la migración del carrito heredado espera al próximo acceso del cliente.
		var session *entity.User
		var current entity.User
		if docs.GetJSON(ctx, entity.KeySession, &current) && current.Email != "" {
			session = &current
		}
		report, err := m.Run(ctx, migration.Env{Session: session})
		if err != nil {
			failed++
			log.Error().Err(err).Str("client_id", id).Msg("migración fallida")
			continue
		}
		if report.Changed() {
			migrated++
		}
	}
	log.Info().Int("clients", len(ids)).Int("migrated", migrated).Int("failed", failed).Msg("migración completada")
	if failed > 0 {
		os.Exit(1)
	}
}
