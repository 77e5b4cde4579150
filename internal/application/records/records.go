// Package records lee y modifica documentos JSON de tipo arreglo elemento a elemento.
// Los elementos que no cambian se vuelven a escribir byte a byte, con los campos
// que el servicio no conoce incluidos.
package records

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/liberty-store/internal/application/ports"
	"github.com/jhoicas/liberty-store/internal/domain"
)

// Load elementos crudos de key. Una clave ausente es un arreglo vacío; una clave
// presente que no es un arreglo JSON devuelve ErrStorage.
func Load(ctx context.Context, docs ports.DocumentStore, key string) ([]json.RawMessage, error) {
	raw, ok := docs.GetRaw(ctx, key)
	if !ok {
		return nil, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("%s ilegible: %w", key, domain.ErrStorage)
	}
	return elems, nil
}

// Save escribe el arreglo completo.
func Save(ctx context.Context, docs ports.DocumentStore, key string, elems []json.RawMessage) error {
	if elems == nil {
		elems = []json.RawMessage{}
	}
	data, err := json.Marshal(elems)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if !docs.SetRaw(ctx, key, data) {
		return domain.ErrStorage
	}
	return nil
}

// Append añade v codificado al final de elems.
func Append(elems []json.RawMessage, v any) ([]json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(elems, data), nil
}

// Patch sustituye solo los campos indicados de un elemento objeto; el resto se conserva.
func Patch(elem json.RawMessage, fields map[string]any) (json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(elem, &obj); err != nil || obj == nil {
		return nil, fmt.Errorf("elemento no es un objeto: %w", domain.ErrInvalidInput)
	}
	for k, v := range fields {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		obj[k] = data
	}
	return json.Marshal(obj)
}
