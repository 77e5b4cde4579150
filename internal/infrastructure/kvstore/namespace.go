package kvstore

import (
	"context"
	"strings"

	"github.com/jhoicas/liberty-store/internal/domain/repository"
)

var _ repository.RawStorage = (*Namespaced)(nil)

// Namespaced aísla las claves de un cliente bajo un prefijo común sobre un backend compartido.
type Namespaced struct {
	inner  repository.RawStorage
	prefix string
}

// ClientKeyPrefix prefijo común a todos los espacios de cliente.
const ClientKeyPrefix = "client:"

// ClientPrefix prefijo de claves de un cliente.
func ClientPrefix(clientID string) string {
	return ClientKeyPrefix + clientID + ":"
}

// Namespace envuelve inner para que todas las claves queden bajo prefix.
func Namespace(inner repository.RawStorage, prefix string) *Namespaced {
	return &Namespaced{inner: inner, prefix: prefix}
}

func (n *Namespaced) Get(ctx context.Context, key string) ([]byte, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *Namespaced) Set(ctx context.Context, key string, value []byte) error {
	return n.inner.Set(ctx, n.prefix+key, value)
}

func (n *Namespaced) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.prefix+key)
}

// Keys devuelve las claves sin el prefijo del espacio de nombres.
func (n *Namespaced) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := n.inner.Keys(ctx, n.prefix+prefix)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, strings.TrimPrefix(k, n.prefix))
	}
	return out, nil
}
