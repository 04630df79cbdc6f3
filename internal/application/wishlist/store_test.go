package wishlist_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-core/internal/application/wishlist"
	"github.com/jhoicas/storefront-core/internal/domain"
	"github.com/jhoicas/storefront-core/internal/domain/entity"
	"github.com/jhoicas/storefront-core/internal/infrastructure/storage"
	"github.com/jhoicas/storefront-core/pkg/logger"
)

type fakeWishlistAPI struct {
	items     []entity.ProductSummary
	err       error
	addCalls  int
	moveCalls int
}

func (f *fakeWishlistAPI) Get(context.Context) ([]entity.ProductSummary, error) {
	return f.items, f.err
}
func (f *fakeWishlistAPI) Add(context.Context, string) error {
	f.addCalls++
	return f.err
}
func (f *fakeWishlistAPI) Remove(context.Context, string) error { return f.err }
func (f *fakeWishlistAPI) Clear(context.Context) error          { return f.err }
func (f *fakeWishlistAPI) MoveToCart(context.Context, string) error {
	f.moveCalls++
	return f.err
}

type recordingNotifier struct {
	successes, errors []string
}

func (n *recordingNotifier) Success(msg string) { n.successes = append(n.successes, msg) }
func (n *recordingNotifier) Error(msg string)   { n.errors = append(n.errors, msg) }

type fakeCart struct {
	fetches int
}

func (c *fakeCart) Fetch(context.Context) error {
	c.fetches++
	return nil
}

func product(id string) entity.ProductSummary {
	return entity.ProductSummary{ID: id, Name: "Producto " + id, Price: decimal.NewFromInt(100)}
}

func newStore(api *fakeWishlistAPI) (*wishlist.Store, *recordingNotifier) {
	n := &recordingNotifier{}
	return wishlist.New(api, storage.NewMemory(), n, logger.Nop()), n
}

func TestAdd_Optimista(t *testing.T) {
	api := &fakeWishlistAPI{}
	s, _ := newStore(api)

	require.NoError(t, s.Add(context.Background(), product("p1")))

	assert.True(t, s.Contains("p1"))
	assert.Equal(t, 1, s.ItemCount())
	assert.Equal(t, 1, api.addCalls)
}

// Idempotencia: agregar un id ya presente no cambia el conjunto y el único
// efecto observable es el aviso de duplicado.
func TestAdd_DuplicadoEsNoOpConAviso(t *testing.T) {
	api := &fakeWishlistAPI{}
	s, n := newStore(api)
	require.NoError(t, s.Add(context.Background(), product("p1")))
	api.addCalls = 0

	require.NoError(t, s.Add(context.Background(), product("p1")))

	assert.Equal(t, 1, s.ItemCount(), "el conjunto de ids no cambia")
	assert.Equal(t, 0, api.addCalls, "no debe emitirse petición para un duplicado")
	assert.Contains(t, n.errors, "ya está en la lista de deseos")
}

func TestAdd_FalloRevierte(t *testing.T) {
	api := &fakeWishlistAPI{}
	s, _ := newStore(api)

	api.err = &domain.RemoteError{Status: 500, Message: "boom"}
	err := s.Add(context.Background(), product("p9"))

	require.Error(t, err)
	assert.False(t, s.Contains("p9"), "el agregado especulativo debe revertirse")
	assert.Equal(t, 0, s.ItemCount())
}

// Remove es fire-and-forget: el borrado local queda aunque el servidor falle;
// el siguiente Fetch reconcilia con la verdad del servidor.
func TestRemove_FireAndForget(t *testing.T) {
	api := &fakeWishlistAPI{}
	s, _ := newStore(api)
	require.NoError(t, s.Add(context.Background(), product("p1")))

	api.err = &domain.RemoteError{Status: 500, Message: "boom"}
	err := s.Remove(context.Background(), "p1")

	require.Error(t, err)
	assert.False(t, s.Contains("p1"), "sin rollback: el borrado local se mantiene")

	// Reconciliación: el servidor aún tiene el producto.
	api.err = nil
	api.items = []entity.ProductSummary{product("p1")}
	require.NoError(t, s.Fetch(context.Background()))
	assert.True(t, s.Contains("p1"))
}

func TestClear_FireAndForget(t *testing.T) {
	api := &fakeWishlistAPI{}
	s, _ := newStore(api)
	require.NoError(t, s.Add(context.Background(), product("p1")))
	require.NoError(t, s.Add(context.Background(), product("p2")))

	api.err = &domain.RemoteError{Status: 500, Message: "boom"}
	err := s.Clear(context.Background())

	require.Error(t, err)
	assert.Equal(t, 0, s.ItemCount(), "el vaciado local se mantiene")
}

func TestMoveToCart_RefrescaElCarrito(t *testing.T) {
	api := &fakeWishlistAPI{}
	s, _ := newStore(api)
	cartStore := &fakeCart{}
	require.NoError(t, s.Add(context.Background(), product("p1")))

	require.NoError(t, s.MoveToCart(context.Background(), "p1", cartStore))

	assert.False(t, s.Contains("p1"))
	assert.Equal(t, 1, api.moveCalls)
	assert.Equal(t, 1, cartStore.fetches, "el carrito se refresca vía su operación pública")
}

func TestMoveToCart_ProductoAusente(t *testing.T) {
	api := &fakeWishlistAPI{}
	s, _ := newStore(api)

	err := s.MoveToCart(context.Background(), "nope", &fakeCart{})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, api.moveCalls)
}

func TestPersistencia_SobreviveRecarga(t *testing.T) {
	mem := storage.NewMemory()
	n := &recordingNotifier{}
	api := &fakeWishlistAPI{}
	s := wishlist.New(api, mem, n, logger.Nop())
	require.NoError(t, s.Add(context.Background(), product("p1")))
	require.NoError(t, s.Add(context.Background(), product("p2")))

	// "Recarga de página": un store nuevo sobre el mismo storage.
	s2 := wishlist.New(api, mem, n, logger.Nop())

	assert.Equal(t, 2, s2.ItemCount())
	assert.True(t, s2.Contains("p1"))
	assert.True(t, s2.Contains("p2"))
}
