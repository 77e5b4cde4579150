package migration

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/liberty-store/internal/application/ports"
	"github.com/jhoicas/liberty-store/internal/domain"
	"github.com/jhoicas/liberty-store/internal/domain/entity"
)

// Report resumen de una ejecución.
type Report struct {
	FromVersion int      `json:"fromVersion"`
	ToVersion   int      `json:"toVersion"`
	Applied     []string `json:"applied"`
	Written     []string `json:"written"`
	Deleted     []string `json:"deleted"`
}

// Changed indica si la ejecución escribió algo.
func (r *Report) Changed() bool {
	return len(r.Written) > 0 || len(r.Deleted) > 0 || r.FromVersion != r.ToVersion
}

// Migrator aplica los pasos sobre el almacén de documentos de un cliente.
type Migrator struct {
	docs  ports.DocumentStore
	steps []Step
	runs  []RunStep
	log   zerolog.Logger
}

// NewMigrator construye el migrador con la tabla de pasos por defecto.
func NewMigrator(docs ports.DocumentStore, log zerolog.Logger) *Migrator {
	return &Migrator{docs: docs, steps: Steps, runs: RunSteps, log: log}
}

// Version versión de esquema registrada (0 si falta o es ilegible).
func (m *Migrator) Version(ctx context.Context) int {
	raw, ok := m.docs.GetRaw(ctx, entity.KeySchemaVersion)
	if !ok {
		return 0
	}
	v, err := strconv.Atoi(strings.Trim(strings.TrimSpace(string(raw)), `"`))
	if err != nil {
		return 0
	}
	return v
}

func (m *Migrator) snapshot(ctx context.Context, keys []string) Snapshot {
	snap := make(Snapshot, len(keys))
	for _, k := range keys {
		if raw, ok := m.docs.GetRaw(ctx, k); ok {
			snap[k] = raw
		}
	}
	return snap
}

// Run aplica los pasos versionados pendientes y después los pasos por ejecución.
// Idempotente: una segunda ejecución no cambia nada.
func (m *Migrator) Run(ctx context.Context, env Env) (*Report, error) {
	from := m.Version(ctx)
	report := &Report{FromVersion: from, ToVersion: from}

	var pending []Step
	for _, s := range m.steps {
		if s.Version > from {
			pending = append(pending, s)
		}
	}

	var before Snapshot
	if len(pending) > 0 {
		before = m.snapshot(ctx, m.docs.Keys(ctx, ""))
	} else {
		var keys []string
		for _, r := range m.runs {
			keys = append(keys, r.Reads(env)...)
		}
		before = m.snapshot(ctx, keys)
	}

	after := before
	for _, s := range pending {
		after = s.Apply(after, env)
		report.Applied = append(report.Applied, s.Name)
		if s.Version > report.ToVersion {
			report.ToVersion = s.Version
		}
	}
	for _, r := range m.runs {
		after = r.Apply(after, env)
	}

	sets, deletes := Diff(before, after)
	if err := m.write(ctx, after, sets, deletes, report); err != nil {
		return report, err
	}
	if report.ToVersion != from {
		if !m.docs.SetRaw(ctx, entity.KeySchemaVersion, json.RawMessage(strconv.Itoa(report.ToVersion))) {
			return report, domain.ErrStorage
		}
	}
	if report.Changed() {
		m.log.Info().
			Int("from", report.FromVersion).
			Int("to", report.ToVersion).
			Strs("applied", report.Applied).
			Int("written", len(report.Written)).
			Int("deleted", len(report.Deleted)).
			Msg("migración de datos heredados")
	}
	return report, nil
}

// write escribe primero las altas y después las bajas. Si una alta falla no se borra nada
// ni se avanza el marcador.
func (m *Migrator) write(ctx context.Context, after Snapshot, sets, deletes []string, report *Report) error {
	for _, k := range sets {
		if !m.docs.SetRaw(ctx, k, after[k]) {
			report.ToVersion = report.FromVersion
			return domain.ErrStorage
		}
		report.Written = append(report.Written, k)
	}
	for _, k := range deletes {
		m.docs.Remove(ctx, k)
		report.Deleted = append(report.Deleted, k)
	}
	return nil
}
