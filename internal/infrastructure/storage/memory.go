package storage

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jhoicas/storefront-core/internal/application/ports"
)

var _ ports.Storage = (*Memory)(nil)

// Memory implementación en memoria del puerto Storage, para tests y para
// correr sin estado durable. Serializa a JSON igual que el adaptador de
// archivos, de modo que ambos se comportan idéntico ante tipos no mapeables.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemory construye el adaptador vacío.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Get deserializa el valor en out; false si la clave no existe.
func (m *Memory) Get(key string, out any) (bool, error) {
	m.mu.Lock()
	raw, ok := m.data[key]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("deserializar %s: %w", key, err)
	}
	return true, nil
}

// Put serializa y guarda el valor bajo la clave.
func (m *Memory) Put(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("serializar %s: %w", key, err)
	}
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
	return nil
}

// Delete borra la clave; no falla si no existe.
func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}
