package kvstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/liberty-store/internal/domain/repository"
)

var _ repository.RawStorage = (*Memory)(nil)

// Memory backend en memoria del proceso. Con quotaBytes > 0 rechaza escrituras que
// superen el total (simula el límite de almacenamiento del navegador).
type Memory struct {
	mu         sync.RWMutex
	data       map[string][]byte
	quotaBytes int
	used       int
}

// NewMemory construye el backend; quotaBytes 0 = sin límite.
func NewMemory(quotaBytes int) *Memory {
	return &Memory{data: make(map[string][]byte), quotaBytes: quotaBytes}
}

// Get devuelve una copia del valor.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, repository.ErrKeyNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set guarda el valor si cabe en la cuota.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	size := len(key) + len(value)
	prev := 0
	if old, ok := m.data[key]; ok {
		prev = len(key) + len(old)
	}
	if m.quotaBytes > 0 && m.used-prev+size > m.quotaBytes {
		return repository.ErrQuotaExceeded
	}
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	m.used += size - prev
	return nil
}

// Delete elimina la clave; no falla si no existe.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.data[key]; ok {
		m.used -= len(key) + len(old)
		delete(m.data, key)
	}
	return nil
}

// Keys devuelve las claves con el prefijo, ordenadas.
func (m *Memory) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
