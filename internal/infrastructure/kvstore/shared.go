package kvstore

import (
	"github.com/rs/zerolog"

	"github.com/jhoicas/liberty-store/internal/application/ports"
	"github.com/jhoicas/liberty-store/internal/domain/repository"
)

// Shared backend común a todos los clientes; cada uno ve solo su espacio de nombres.
type Shared struct {
	raw repository.RawStorage
	log zerolog.Logger
}

// NewShared envuelve el backend físico.
func NewShared(raw repository.RawStorage, log zerolog.Logger) *Shared {
	return &Shared{raw: raw, log: log}
}

// Open almacén de documentos del cliente clientID.
func (s *Shared) Open(clientID string) ports.DocumentStore {
	return NewStore(Namespace(s.raw, ClientPrefix(clientID)), s.log.With().Str("client_id", clientID).Logger())
}

// PhysicalKey clave tal como queda en el backend para la clave lógica key del cliente.
func (s *Shared) PhysicalKey(clientID, key string) string {
	return ClientPrefix(clientID) + key
}
