// Package ports define los puertos de salida de la capa de aplicación.
// Las implementaciones concretas viven en infrastructure; para tests se
// inyectan fakes.
package ports

import (
	"context"

	"github.com/jhoicas/storefront-core/internal/application/dto"
	"github.com/jhoicas/storefront-core/internal/domain/entity"
)

// AuthAPI operaciones de autenticación contra el backend.
type AuthAPI interface {
	Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthSession, error)
	Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthSession, error)
	ForgotPassword(ctx context.Context, email string) error
	// VerifyOTP canjea el código y devuelve el token corto de reseteo.
	VerifyOTP(ctx context.Context, email, otp string) (string, error)
	ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) error
}

// UserAPI perfil del usuario autenticado.
type UserAPI interface {
	Profile(ctx context.Context) (*entity.UserProfile, error)
	UpdateProfile(ctx context.Context, in dto.UpdateProfileRequest) (*entity.UserProfile, error)
}

// CartAPI operaciones del carrito. Toda mutación exitosa devuelve el snapshot
// autoritativo completo que reemplaza al local.
type CartAPI interface {
	Get(ctx context.Context) (*entity.CartSnapshot, error)
	AddItem(ctx context.Context, productID string, quantity int) (*entity.CartSnapshot, error)
	UpdateItem(ctx context.Context, productID string, quantity int) (*entity.CartSnapshot, error)
	RemoveItem(ctx context.Context, productID string) (*entity.CartSnapshot, error)
	Clear(ctx context.Context) error
	ApplyCoupon(ctx context.Context, code string) (*entity.CartSnapshot, error)
	RemoveCoupon(ctx context.Context) (*entity.CartSnapshot, error)
}

// WishlistAPI operaciones de la lista de deseos.
type WishlistAPI interface {
	Get(ctx context.Context) ([]entity.ProductSummary, error)
	Add(ctx context.Context, productID string) error
	Remove(ctx context.Context, productID string) error
	Clear(ctx context.Context) error
	MoveToCart(ctx context.Context, productID string) error
}

// OrderAPI creación y lectura de pedidos.
type OrderAPI interface {
	Create(ctx context.Context, in dto.OrderRequest) (*entity.Order, error)
	List(ctx context.Context) ([]entity.Order, error)
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	Cancel(ctx context.Context, id string) (*entity.Order, error)
	Reorder(ctx context.Context, id string) error
}

// CouponAPI cupones publicados para el usuario.
type CouponAPI interface {
	Available(ctx context.Context) ([]entity.Coupon, error)
}

// PaymentAPI par de llamadas del proveedor de pagos: crear la sesión de pago
// atada a un pedido y verificar la prueba firmada.
type PaymentAPI interface {
	CreateProviderOrder(ctx context.Context, orderID string) (*dto.PaymentIntent, error)
	Verify(ctx context.Context, proof dto.PaymentProof) error
}

// Storage puerto de persistencia local clave-valor. Los stores persistidos
// (sesión, wishlist) guardan su estado bajo una clave fija para sobrevivir
// recargas; los tests sustituyen una implementación en memoria.
type Storage interface {
	// Get deserializa el valor en out; devuelve false si la clave no existe.
	Get(key string, out any) (bool, error)
	Put(key string, v any) error
	Delete(key string) error
}

// Notifier avisos dirigidos al usuario (el equivalente de los toasts de la
// UI). La implementación por defecto los registra en el log.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}
