package ports

import (
	"context"
	"encoding/json"
)

// DocumentStore define el puerto del almacén de documentos JSON que usan los casos de uso.
// Ninguna operación lanza error: la lectura devuelve false si la clave falta o el contenido
// está corrupto (dst queda intacto, actuando como valor por defecto) y la escritura devuelve
// false si el backend la rechaza. El adaptador registra el diagnóstico.
type DocumentStore interface {
	GetJSON(ctx context.Context, key string, dst any) bool
	SetJSON(ctx context.Context, key string, v any) bool
	Remove(ctx context.Context, key string)

	// Acceso crudo para migraciones.
	GetRaw(ctx context.Context, key string) (json.RawMessage, bool)
	SetRaw(ctx context.Context, key string, raw json.RawMessage) bool
	Keys(ctx context.Context, prefix string) []string
}
