package migration

import (
	"encoding/json"

	"github.com/jhoicas/liberty-store/internal/application/cart"
	"github.com/jhoicas/liberty-store/internal/domain/entity"
)

// Step paso versionado; se aplica una sola vez, en orden de Version.
type Step struct {
	Version int
	Name    string
	Apply   func(Snapshot, Env) Snapshot
}

// RunStep paso que depende de la sesión y se evalúa en cada ejecución; debe ser idempotente.
// Reads declara las claves que necesita cuando no hace falta el snapshot completo.
type RunStep struct {
	Name  string
	Reads func(Env) []string
	Apply func(Snapshot, Env) Snapshot
}

// Steps tabla de migraciones versionadas.
var Steps = []Step{
	{Version: 1, Name: "auth_cleanup_v1", Apply: authCleanup},
	{Version: 2, Name: "merge_legacy_orders", Apply: mergeLegacyOrders},
	{Version: 3, Name: "normalize_verified", Apply: normalizeVerified},
}

// RunSteps pasos por ejecución.
var RunSteps = []RunStep{
	{Name: "migrate_legacy_cart", Reads: legacyCartReads, Apply: migrateLegacyCart},
}

// LatestVersion versión del esquema tras aplicar todos los pasos.
func LatestVersion() int {
	v := 0
	for _, s := range Steps {
		if s.Version > v {
			v = s.Version
		}
	}
	return v
}

// authCleanup elimina sesión, códigos y pendientes antiguos una sola vez en la vida del almacén.
func authCleanup(in Snapshot, _ Env) Snapshot {
	out := in.Clone()
	if out.flagOn(entity.KeyAuthCleanupDone) {
		return out
	}
	delete(out, entity.KeySession)
	out.removePrefix(entity.PrefixVerification, entity.PrefixPending)
	out.setJSON(entity.KeyAuthCleanupDone, entity.FlagOn)
	return out
}

// orderSignature firma de deduplicación; si el elemento no decodifica como pedido se usa su texto.
func orderSignature(raw json.RawMessage) string {
	var o entity.Order
	if err := json.Unmarshal(raw, &o); err != nil {
		return string(raw)
	}
	return o.Signature()
}

// mergeLegacyOrders añade al libro canónico los pedidos heredados que no estén ya.
// Nunca borra ni sobrescribe; el libro heredado queda intacto.
func mergeLegacyOrders(in Snapshot, _ Env) Snapshot {
	out := in.Clone()
	legacy, ok := out.array(entity.KeyLegacyOrders)
	if !ok || len(legacy) == 0 {
		return out
	}
	orders, ok := out.array(entity.KeyOrders)
	if !ok {
		if _, present := out[entity.KeyOrders]; present {
			// Libro canónico ilegible: no se toca.
			return out
		}
		orders = []json.RawMessage{}
	}
	seen := make(map[string]struct{}, len(orders))
	for _, o := range orders {
		seen[orderSignature(o)] = struct{}{}
	}
	merged := false
	for _, lo := range legacy {
		sig := orderSignature(lo)
		if _, dup := seen[sig]; dup {
			continue
		}
		orders = append(orders, lo)
		seen[sig] = struct{}{}
		merged = true
	}
	if merged {
		out.setJSON(entity.KeyOrders, orders)
	}
	return out
}

// normalizeVerified marca como verificados los usuarios anteriores a la verificación por email.
func normalizeVerified(in Snapshot, _ Env) Snapshot {
	out := in.Clone()
	raw, ok := out[entity.KeyRegisteredUsers]
	if !ok {
		return out
	}
	var users []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &users); err != nil {
		return out
	}
	changed := false
	for _, u := range users {
		if u == nil {
			continue
		}
		if _, has := u["verified"]; !has {
			u["verified"] = json.RawMessage("true")
			changed = true
		}
	}
	if changed {
		out.setJSON(entity.KeyRegisteredUsers, users)
	}
	return out
}

var legacyCartKeys = []string{entity.KeyLegacyCartV1, entity.KeyGlobalCart, entity.KeyLegacyCart}

func legacyCartReads(env Env) []string {
	keys := append([]string(nil), legacyCartKeys...)
	if env.Session != nil && env.Session.Email != "" {
		keys = append(keys, cart.KeyFor(env.Session.Email))
	}
	return keys
}

// migrateLegacyCart copia el primer carrito global no vacío al carrito del usuario de la sesión,
// solo si el de éste está vacío. Los carritos globales se borran únicamente tras la copia;
// si el usuario ya tenía carrito propio quedan intactos.
func migrateLegacyCart(in Snapshot, env Env) Snapshot {
	out := in.Clone()
	if env.Session == nil || env.Session.Email == "" {
		return out
	}
	var source json.RawMessage
	for _, k := range legacyCartKeys {
		if arr, ok := out.array(k); ok && len(arr) > 0 {
			source = out[k]
			break
		}
	}
	if source == nil {
		return out
	}
	userKey := cart.KeyFor(env.Session.Email)
	if _, present := out[userKey]; present {
		// Carrito propio ilegible o con líneas: no se sobrescribe ni se consume el global.
		if arr, ok := out.array(userKey); !ok || len(arr) > 0 {
			return out
		}
	}
	out[userKey] = source
	for _, k := range legacyCartKeys {
		delete(out, k)
	}
	return out
}
