// Package migration pliega los esquemas de claves heredados al esquema canónico.
//
// Cada paso es una función pura Snapshot -> Snapshot; el Migrator calcula la diferencia
// y la escribe en orden seguro (altas, luego bajas, luego marcador de versión), de modo
// que una interrupción deja un estado válido y re-ejecutable.
package migration

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/jhoicas/liberty-store/internal/domain/entity"
)

// Snapshot vista en memoria de las claves del cliente.
type Snapshot map[string]json.RawMessage

// Clone copia superficial; los valores crudos no se mutan nunca en sitio.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Env datos del contexto de ejecución que no viven en el snapshot.
type Env struct {
	Session *entity.User
}

// Diff claves a escribir y a borrar para pasar de before a after.
func Diff(before, after Snapshot) (sets []string, deletes []string) {
	for k, v := range after {
		if old, ok := before[k]; !ok || !bytes.Equal(old, v) {
			sets = append(sets, k)
		}
	}
	for k := range before {
		if _, ok := after[k]; !ok {
			deletes = append(deletes, k)
		}
	}
	sort.Strings(sets)
	sort.Strings(deletes)
	return sets, deletes
}

func (s Snapshot) flagOn(key string) bool {
	raw, ok := s[key]
	return ok && entity.IsFlagOn(raw)
}

// array decodifica la clave como arreglo JSON conservando cada elemento crudo.
// ok=false si la clave falta o no es un arreglo.
func (s Snapshot) array(key string) ([]json.RawMessage, bool) {
	raw, present := s[key]
	if !present {
		return nil, false
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil {
		return nil, false
	}
	return arr, true
}

func (s Snapshot) setJSON(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	s[key] = data
}

func (s Snapshot) removePrefix(prefixes ...string) {
	for k := range s {
		for _, p := range prefixes {
			if strings.HasPrefix(k, p) {
				delete(s, k)
				break
			}
		}
	}
}
