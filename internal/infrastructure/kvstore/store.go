// Package kvstore implementa el almacén de documentos JSON sobre backends clave/valor
// (memoria, Redis) y el envoltorio seguro que nunca propaga errores al caso de uso.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"

	"github.com/rs/zerolog"

	"github.com/jhoicas/liberty-store/internal/application/ports"
	"github.com/jhoicas/liberty-store/internal/domain/repository"
)

var _ ports.DocumentStore = (*Store)(nil)

// Store envoltorio JSON seguro sobre un RawStorage.
type Store struct {
	raw repository.RawStorage
	log zerolog.Logger
}

// NewStore construye el almacén de documentos.
func NewStore(raw repository.RawStorage, log zerolog.Logger) *Store {
	return &Store{raw: raw, log: log}
}

// GetJSON decodifica la clave en dst, que debe ser un puntero no nil. Devuelve false si
// falta o está corrupta; en ese caso dst no se toca. Se decodifica en un valor nuevo porque
// json.Unmarshal deja dst a medio rellenar cuando falla en un campo.
func (s *Store) GetJSON(ctx context.Context, key string, dst any) bool {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		s.log.Error().Str("key", key).Msg("GetJSON requiere un puntero no nil")
		return false
	}
	raw, ok := s.GetRaw(ctx, key)
	if !ok {
		return false
	}
	fresh := reflect.New(rv.Elem().Type())
	if err := json.Unmarshal(raw, fresh.Interface()); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("contenido JSON inválido, se usa el valor por defecto")
		return false
	}
	rv.Elem().Set(fresh.Elem())
	return true
}

// SetJSON serializa v y lo escribe. Devuelve false si no se pudo persistir.
func (s *Store) SetJSON(ctx context.Context, key string, v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("serializar valor")
		return false
	}
	return s.SetRaw(ctx, key, data)
}

// Remove elimina la clave; los errores solo se registran.
func (s *Store) Remove(ctx context.Context, key string) {
	if err := s.raw.Delete(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("eliminar clave")
	}
}

// GetRaw devuelve el contenido sin decodificar si existe.
func (s *Store) GetRaw(ctx context.Context, key string) (json.RawMessage, bool) {
	data, err := s.raw.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repository.ErrKeyNotFound) {
			s.log.Warn().Err(err).Str("key", key).Msg("leer clave")
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}
	return json.RawMessage(data), true
}

// SetRaw escribe bytes ya codificados.
func (s *Store) SetRaw(ctx context.Context, key string, raw json.RawMessage) bool {
	if err := s.raw.Set(ctx, key, raw); err != nil {
		s.log.Error().Err(err).Str("key", key).Int("bytes", len(raw)).Msg("escritura rechazada por el almacenamiento")
		return false
	}
	return true
}

// Keys lista claves por prefijo; ante error devuelve lista vacía.
func (s *Store) Keys(ctx context.Context, prefix string) []string {
	keys, err := s.raw.Keys(ctx, prefix)
	if err != nil {
		s.log.Warn().Err(err).Str("prefix", prefix).Msg("listar claves")
		return nil
	}
	return keys
}
