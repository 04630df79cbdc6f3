// Package wishlist mantiene la lista de deseos: conjunto ordenado de
// productos único por id, persistido localmente e independiente del carrito.
package wishlist

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/storefront-core/internal/application/optimistic"
	"github.com/jhoicas/storefront-core/internal/application/ports"
	"github.com/jhoicas/storefront-core/internal/domain"
	"github.com/jhoicas/storefront-core/internal/domain/entity"
	"github.com/jhoicas/storefront-core/pkg/logger"
)

// StorageKey clave fija bajo la que se persiste la lista.
const StorageKey = "wishlist-storage"

// CartRefresher refresco del carrito tras mover un producto. Se cumple con el
// store de carrito vía su operación pública, nunca tocando su estado interno.
type CartRefresher interface {
	Fetch(ctx context.Context) error
}

// Store lista de deseos con el mismo patrón optimista del carrito, salvo que
// Remove y Clear son fire-and-forget: el siguiente Fetch restaura la verdad
// del servidor, y revivir un producto que el usuario borró sería peor que
// reintentar el borrado en silencio.
type Store struct {
	api     ports.WishlistAPI
	storage ports.Storage
	notify  ports.Notifier
	log     *logger.Logger

	mu    sync.Mutex
	items []entity.ProductSummary
}

// New construye el store y restaura la lista persistida.
func New(api ports.WishlistAPI, storage ports.Storage, notify ports.Notifier, log *logger.Logger) *Store {
	s := &Store{api: api, storage: storage, notify: notify, log: log}
	s.restoreLocal()
	return s
}

func (s *Store) restoreLocal() {
	var items []entity.ProductSummary
	ok, err := s.storage.Get(StorageKey, &items)
	if err != nil {
		s.log.Warn().Err(err).Msg("no se pudo leer la wishlist persistida")
		return
	}
	if ok {
		s.replace(items)
	}
}

func (s *Store) current() []entity.ProductSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items
}

func (s *Store) replace(items []entity.ProductSummary) {
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	if err := s.storage.Put(StorageKey, items); err != nil {
		s.log.Warn().Err(err).Msg("no se pudo persistir la wishlist")
	}
}

// Fetch reemplaza la lista entera con la del servidor.
func (s *Store) Fetch(ctx context.Context) error {
	items, err := s.api.Get(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("no se pudo obtener la wishlist")
		return fmt.Errorf("obtener wishlist: %w", err)
	}
	s.replace(items)
	return nil
}

// Add agrega un producto de forma optimista. Si el id ya está presente es un
// no-op: el único efecto observable es el aviso de duplicado.
func (s *Store) Add(ctx context.Context, product entity.ProductSummary) error {
	if s.Contains(product.ID) {
		s.notify.Error("ya está en la lista de deseos")
		return nil
	}
	err := optimistic.Mutate(s.current, s.replace,
		func(prev []entity.ProductSummary) []entity.ProductSummary {
			next := make([]entity.ProductSummary, len(prev), len(prev)+1)
			copy(next, prev)
			return append(next, product)
		},
		func() ([]entity.ProductSummary, error) {
			if err := s.api.Add(ctx, product.ID); err != nil {
				return nil, err
			}
			// El endpoint no devuelve la lista: el estado especulativo se
			// confirma tal cual.
			return s.current(), nil
		},
	)
	if err != nil {
		s.notify.Error(domain.Message(err, "no se pudo agregar a la lista de deseos"))
		return fmt.Errorf("agregar a wishlist: %w", err)
	}
	s.notify.Success("agregado a la lista de deseos")
	return nil
}

// Remove quita el producto localmente primero y confirma después sin
// rollback (ver nota del tipo).
func (s *Store) Remove(ctx context.Context, productID string) error {
	s.removeLocal(productID)
	if err := s.api.Remove(ctx, productID); err != nil {
		s.log.Error().Err(err).Str("product_id", productID).Msg("no se pudo sincronizar el borrado de wishlist")
		return fmt.Errorf("quitar de wishlist: %w", err)
	}
	s.notify.Success("quitado de la lista de deseos")
	return nil
}

// Clear vacía la lista localmente primero y confirma después sin rollback.
func (s *Store) Clear(ctx context.Context) error {
	s.replace(nil)
	if err := s.api.Clear(ctx); err != nil {
		s.log.Error().Err(err).Msg("no se pudo sincronizar el vaciado de wishlist")
		return fmt.Errorf("vaciar wishlist: %w", err)
	}
	return nil
}

// MoveToCart pasa un producto de la lista al carrito: quita local, confirma
// en el servidor y refresca el carrito a través de su operación pública.
func (s *Store) MoveToCart(ctx context.Context, productID string, cart CartRefresher) error {
	if !s.Contains(productID) {
		return domain.ErrNotFound
	}
	s.removeLocal(productID)
	if err := s.api.MoveToCart(ctx, productID); err != nil {
		s.notify.Error(domain.Message(err, "no se pudo mover al carrito"))
		return fmt.Errorf("mover al carrito: %w", err)
	}
	if err := cart.Fetch(ctx); err != nil {
		s.log.Warn().Err(err).Msg("el carrito quedó sin refrescar tras mover el producto")
	}
	s.notify.Success("movido al carrito")
	return nil
}

func (s *Store) removeLocal(productID string) {
	prev := s.current()
	next := make([]entity.ProductSummary, 0, len(prev))
	for _, it := range prev {
		if it.ID != productID {
			next = append(next, it)
		}
	}
	s.replace(next)
}

// Contains lectura pura: pertenencia por id.
func (s *Store) Contains(productID string) bool {
	for _, it := range s.current() {
		if it.ID == productID {
			return true
		}
	}
	return false
}

// Items copia de la lista actual.
func (s *Store) Items() []entity.ProductSummary {
	cur := s.current()
	out := make([]entity.ProductSummary, len(cur))
	copy(out, cur)
	return out
}

// ItemCount lectura pura.
func (s *Store) ItemCount() int {
	return len(s.current())
}
