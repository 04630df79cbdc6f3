package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-core/internal/infrastructure/storage"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestFileStore_RoundTrip(t *testing.T) {
	fs, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, fs.Put("wishlist-storage", payload{Name: "ana", Count: 3}))

	var got payload
	ok, err := fs.Get("wishlist-storage", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, payload{Name: "ana", Count: 3}, got)
}

func TestFileStore_ClaveInexistente(t *testing.T) {
	fs, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	var got payload
	ok, err := fs.Get("no-existe", &got)

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_DeleteIdempotente(t *testing.T) {
	fs, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, fs.Put("auth-storage", payload{Name: "x"}))

	require.NoError(t, fs.Delete("auth-storage"))
	require.NoError(t, fs.Delete("auth-storage"), "borrar dos veces no debe fallar")

	var got payload
	ok, err := fs.Get("auth-storage", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_SaneaLaClave(t *testing.T) {
	dir := t.TempDir()
	fs, err := storage.NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, fs.Put("../../escape", payload{Name: "y"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(entries[0].Name()), entries[0].Name())

	var got payload
	ok, err := fs.Get("../../escape", &got)
	require.NoError(t, err)
	assert.True(t, ok, "la misma clave saneada debe recuperar el valor")
}

func TestMemory_RoundTrip(t *testing.T) {
	mem := storage.NewMemory()

	require.NoError(t, mem.Put("k", payload{Name: "z", Count: 1}))

	var got payload
	ok, err := mem.Get("k", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "z", got.Name)

	require.NoError(t, mem.Delete("k"))
	ok, err = mem.Get("k", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}
