// Package storage adaptadores del puerto de persistencia local clave-valor.
// El cliente persiste solo estado ya público para el propio usuario (sesión y
// wishlist); el carrito nunca se persiste y siempre se re-consulta al servidor.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jhoicas/storefront-core/internal/application/ports"
)

var _ ports.Storage = (*FileStore)(nil)

// FileStore guarda cada clave como un archivo JSON dentro de un directorio.
// La escritura es archivo temporal + rename para no dejar un archivo a medias
// si el proceso muere durante la escritura.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore crea el directorio si no existe y devuelve el adaptador.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("crear directorio de storage: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// path sanea la clave para usarla como nombre de archivo.
func (f *FileStore) path(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
	return filepath.Join(f.dir, safe+".json")
}

// Get deserializa el valor en out; false si la clave no existe.
func (f *FileStore) Get(key string, out any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("leer %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("deserializar %s: %w", key, err)
	}
	return true, nil
}

// Put serializa el valor y lo escribe de forma atómica.
func (f *FileStore) Put(key string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("serializar %s: %w", key, err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	dst := f.path(key)
	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("escribir %s: %w", key, err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		return fmt.Errorf("publicar %s: %w", key, err)
	}
	return nil
}

// Delete borra la clave; no falla si no existe.
func (f *FileStore) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("borrar %s: %w", key, err)
	}
	return nil
}
