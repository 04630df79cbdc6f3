// Package orders historial de pedidos del usuario: lectura, cancelación y
// recompra. Los pedidos son de solo lectura para el cliente salvo la
// transición de cancelación.
package orders

import (
	"context"
	"fmt"

	"github.com/jhoicas/storefront-core/internal/application/ports"
	"github.com/jhoicas/storefront-core/internal/domain"
	"github.com/jhoicas/storefront-core/internal/domain/entity"
	"github.com/jhoicas/storefront-core/pkg/logger"
)

// CartRefresher refresco del carrito tras una recompra.
type CartRefresher interface {
	Fetch(ctx context.Context) error
}

// Service acceso al historial de pedidos.
type Service struct {
	api    ports.OrderAPI
	notify ports.Notifier
	log    *logger.Logger
}

// New construye el servicio.
func New(api ports.OrderAPI, notify ports.Notifier, log *logger.Logger) *Service {
	return &Service{api: api, notify: notify, log: log}
}

// List pedidos del usuario autenticado.
func (s *Service) List(ctx context.Context) ([]entity.Order, error) {
	out, err := s.api.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar pedidos: %w", err)
	}
	return out, nil
}

// Get un pedido con su línea de progreso proyectada.
func (s *Service) Get(ctx context.Context, id string) (*entity.Order, entity.Timeline, error) {
	order, err := s.api.GetByID(ctx, id)
	if err != nil {
		return nil, entity.Timeline{}, fmt.Errorf("obtener pedido %s: %w", id, err)
	}
	return order, entity.ProjectTimeline(order.Status), nil
}

// Cancel solicita la cancelación. Guard local: solo se intenta mientras el
// pedido sigue cancelable; el servidor aplica la misma regla de todos modos.
func (s *Service) Cancel(ctx context.Context, id string) (*entity.Order, error) {
	order, err := s.api.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener pedido %s: %w", id, err)
	}
	if !order.Cancelable() {
		return nil, fmt.Errorf("pedido %s en estado %s: %w", id, order.Status, domain.ErrOrderNotCancelable)
	}
	cancelled, err := s.api.Cancel(ctx, id)
	if err != nil {
		s.notify.Error(domain.Message(err, "no se pudo cancelar el pedido"))
		return nil, fmt.Errorf("cancelar pedido %s: %w", id, err)
	}
	s.notify.Success("pedido cancelado")
	return cancelled, nil
}

// Reorder vuelve a cargar las líneas del pedido en el carrito del servidor y
// refresca el espejo local vía la operación pública del store de carrito.
func (s *Service) Reorder(ctx context.Context, id string, cart CartRefresher) error {
	if err := s.api.Reorder(ctx, id); err != nil {
		s.notify.Error(domain.Message(err, "no se pudo repetir el pedido"))
		return fmt.Errorf("repetir pedido %s: %w", id, err)
	}
	if err := cart.Fetch(ctx); err != nil {
		s.log.Warn().Err(err).Str("order_id", id).Msg("recompra hecha pero el carrito quedó sin refrescar")
	}
	s.notify.Success("productos agregados al carrito")
	return nil
}
