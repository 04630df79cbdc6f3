// Package cart mantiene el espejo local del carrito autoritativo del servidor
// y las mutaciones optimistas sobre él. El carrito no se persiste localmente:
// precios y stock pueden cambiar del lado del servidor, así que siempre se
// re-consulta al iniciar sesión.
package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-core/internal/application/optimistic"
	"github.com/jhoicas/storefront-core/internal/application/ports"
	"github.com/jhoicas/storefront-core/internal/domain"
	"github.com/jhoicas/storefront-core/internal/domain/entity"
	"github.com/jhoicas/storefront-core/internal/domain/pricing"
	"github.com/jhoicas/storefront-core/pkg/logger"
)

// Store espejo del CartSnapshot del servidor. Toda respuesta de mutación trae
// el snapshot completo y lo reemplaza entero: ante dos mutaciones en vuelo
// gana la última respuesta (last-writer-wins), nunca se mezclan deltas.
type Store struct {
	api    ports.CartAPI
	notify ports.Notifier
	log    *logger.Logger

	mu   sync.Mutex
	snap *entity.CartSnapshot
}

// New construye el store sin snapshot; Fetch lo inicializa.
func New(api ports.CartAPI, notify ports.Notifier, log *logger.Logger) *Store {
	return &Store{api: api, notify: notify, log: log}
}

func (s *Store) current() *entity.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

func (s *Store) replace(snap *entity.CartSnapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

// Fetch reemplaza el snapshot local con la verdad del servidor. Siempre
// seguro; se usa al (re)iniciar la sesión.
func (s *Store) Fetch(ctx context.Context) error {
	snap, err := s.api.Get(ctx)
	if err != nil {
		return fmt.Errorf("obtener carrito: %w", err)
	}
	s.replace(snap)
	return nil
}

// Add agrega un producto. No hay edición especulativa: el cliente no puede
// adivinar precio ni descuento de la línea nueva, así que el snapshot previo
// queda intacto hasta la respuesta.
func (s *Store) Add(ctx context.Context, productID string, quantity int) error {
	snap, err := s.api.AddItem(ctx, productID, quantity)
	if err != nil {
		s.notify.Error(domain.Message(err, "no se pudo agregar al carrito"))
		return fmt.Errorf("agregar al carrito: %w", err)
	}
	s.replace(snap)
	s.notify.Success("agregado al carrito")
	return nil
}

// UpdateQuantity cambia la cantidad de una línea con edición optimista.
// Cantidades < 1 son un no-op sin llamada de red: bajar a cero no es
// eliminación automática, quitar la línea es una acción explícita aparte.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return nil
	}
	err := optimistic.Mutate(s.current, s.replace,
		func(prev *entity.CartSnapshot) *entity.CartSnapshot {
			if prev == nil {
				return nil
			}
			cp := prev.Clone()
			if i := cp.LineIndex(productID); i >= 0 {
				cp.Items[i].Quantity = quantity
				cp.Items[i].Subtotal = cp.Items[i].Price.Mul(decimal.NewFromInt(int64(quantity)))
			}
			cp.TotalItems = cp.CountItems()
			return cp
		},
		func() (*entity.CartSnapshot, error) {
			return s.api.UpdateItem(ctx, productID, quantity)
		},
	)
	if err != nil {
		s.notify.Error(domain.Message(err, "no se pudo actualizar el carrito"))
		return fmt.Errorf("actualizar cantidad: %w", err)
	}
	return nil
}

// Remove quita una línea con edición optimista y el mismo commit/rollback.
func (s *Store) Remove(ctx context.Context, productID string) error {
	err := optimistic.Mutate(s.current, s.replace,
		func(prev *entity.CartSnapshot) *entity.CartSnapshot {
			if prev == nil {
				return nil
			}
			cp := prev.Clone()
			if i := cp.LineIndex(productID); i >= 0 {
				cp.Items = append(cp.Items[:i], cp.Items[i+1:]...)
			}
			cp.TotalItems = cp.CountItems()
			return cp
		},
		func() (*entity.CartSnapshot, error) {
			return s.api.RemoveItem(ctx, productID)
		},
	)
	if err != nil {
		s.notify.Error(domain.Message(err, "no se pudo quitar el producto"))
		return fmt.Errorf("quitar del carrito: %w", err)
	}
	s.notify.Success("producto quitado del carrito")
	return nil
}

// Clear vacía el carrito. Acción confirmada por el usuario: sin pre-limpieza
// especulativa, el snapshot solo se vacía cuando el servidor confirma.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.api.Clear(ctx); err != nil {
		s.notify.Error(domain.Message(err, "no se pudo vaciar el carrito"))
		return fmt.Errorf("vaciar carrito: %w", err)
	}
	s.replace(nil)
	s.notify.Success("carrito vaciado")
	return nil
}

// ApplyCoupon solicita el cupón; en éxito el snapshot nuevo ya trae descuento
// y cupón aplicado, en fallo el estado local no se toca y se propaga el
// motivo de rechazo del servidor (inválido, expirado, mínimo no alcanzado).
func (s *Store) ApplyCoupon(ctx context.Context, code string) error {
	snap, err := s.api.ApplyCoupon(ctx, code)
	if err != nil {
		s.notify.Error(domain.Message(err, "cupón inválido"))
		return fmt.Errorf("aplicar cupón: %w", err)
	}
	s.replace(snap)
	s.notify.Success("cupón aplicado")
	return nil
}

// RemoveCoupon retira el cupón aplicado.
func (s *Store) RemoveCoupon(ctx context.Context) error {
	snap, err := s.api.RemoveCoupon(ctx)
	if err != nil {
		return fmt.Errorf("retirar cupón: %w", err)
	}
	s.replace(snap)
	s.notify.Success("cupón retirado")
	return nil
}

// Snapshot copia profunda del snapshot actual (nil si no se ha cargado).
func (s *Store) Snapshot() *entity.CartSnapshot {
	return s.current().Clone()
}

// ItemCount lectura pura; cero si no hay snapshot.
func (s *Store) ItemCount() int {
	if snap := s.current(); snap != nil {
		return snap.TotalItems
	}
	return 0
}

// Subtotal lectura pura; cero si no hay snapshot.
func (s *Store) Subtotal() decimal.Decimal {
	if snap := s.current(); snap != nil {
		return snap.TotalPrice
	}
	return decimal.Zero
}

// Discount lectura pura; cero si no hay snapshot.
func (s *Store) Discount() decimal.Decimal {
	if snap := s.current(); snap != nil {
		return snap.Discount
	}
	return decimal.Zero
}

// PreviewTotals desglose estimado sobre el snapshot actual, solo para pintar
// mientras una respuesta está en vuelo. Los montos cobrados los decide
// siempre el servidor.
func (s *Store) PreviewTotals() pricing.Summary {
	return pricing.Quote(s.Subtotal(), s.Discount())
}
