package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/liberty-store/internal/domain/repository"
)

var _ repository.RawStorage = (*KVRepo)(nil)

// KVRepo implementación del puerto RawStorage sobre la tabla kv_entries.
// value guarda los bytes tal cual (pueden ser JSON corrupto heredado); doc solo se rellena
// cuando el contenido es JSON válido, para consultas agregadas.
type KVRepo struct {
	q Querier
}

// NewKVRepository construye el adaptador clave/valor. Pasar pool o tx (Querier).
func NewKVRepository(q Querier) *KVRepo {
	return &KVRepo{q: q}
}

// Get obtiene el valor de una clave.
func (r *KVRepo) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := r.q.QueryRow(ctx, `SELECT value FROM kv_entries WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrKeyNotFound
		}
		return nil, fmt.Errorf("get kv entry: %w", err)
	}
	return []byte(value), nil
}

// Set inserta o reemplaza una clave.
func (r *KVRepo) Set(ctx context.Context, key string, value []byte) error {
	var doc any
	if json.Valid(value) {
		doc = string(value)
	}
	query := `
		INSERT INTO kv_entries (key, value, doc, updated_at)
		VALUES ($1, $2, $3::jsonb, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, doc = EXCLUDED.doc, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, key, string(value), doc); err != nil {
		if isDiskFull(err) {
			return repository.ErrQuotaExceeded
		}
		return fmt.Errorf("upsert kv entry: %w", err)
	}
	return nil
}

// Delete elimina una clave.
func (r *KVRepo) Delete(ctx context.Context, key string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM kv_entries WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete kv entry: %w", err)
	}
	return nil
}

// Keys lista las claves por prefijo (LIKE con comodines escapados).
func (r *KVRepo) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := r.q.Query(ctx,
		`SELECT key FROM kv_entries WHERE key LIKE $1 ESCAPE '\' ORDER BY key`,
		escapeLike(prefix)+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("list kv keys: %w", err)
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan kv key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
