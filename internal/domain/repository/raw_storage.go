package repository

import (
	"context"
	"errors"
)

// ErrKeyNotFound la clave no existe en el backend.
var ErrKeyNotFound = errors.New("clave no encontrada")

// ErrQuotaExceeded el backend rechazó la escritura por falta de espacio.
var ErrQuotaExceeded = errors.New("cuota de almacenamiento excedida")

// RawStorage define el puerto de persistencia clave/valor de bajo nivel (DIP).
// Los valores son bytes opacos; la capa superior los interpreta como JSON.
// Implementaciones: memoria, Redis y PostgreSQL.
type RawStorage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Keys lista las claves con el prefijo dado (vacío = todas).
	Keys(ctx context.Context, prefix string) ([]string, error)
}
