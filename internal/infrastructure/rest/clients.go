package rest

import (
	"context"
	"net/url"
	"strconv"

	"github.com/jhoicas/storefront-core/internal/application/dto"
	"github.com/jhoicas/storefront-core/internal/application/ports"
	"github.com/jhoicas/storefront-core/internal/domain/entity"
)

// Adaptadores por recurso sobre el Gateway. El mapa de rutas replica el
// contrato del backend.

var (
	_ ports.AuthAPI     = (*AuthClient)(nil)
	_ ports.UserAPI     = (*UserClient)(nil)
	_ ports.CartAPI     = (*CartClient)(nil)
	_ ports.WishlistAPI = (*WishlistClient)(nil)
	_ ports.OrderAPI    = (*OrderClient)(nil)
	_ ports.CouponAPI   = (*CouponClient)(nil)
	_ ports.PaymentAPI  = (*PaymentClient)(nil)
)

// AuthClient autenticación.
type AuthClient struct{ g *Gateway }

// NewAuthClient adaptador de autenticación.
func NewAuthClient(g *Gateway) *AuthClient { return &AuthClient{g: g} }

func (c *AuthClient) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthSession, error) {
	var out dto.AuthSession
	if err := c.g.post(ctx, "/auth/login", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *AuthClient) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthSession, error) {
	var out dto.AuthSession
	if err := c.g.post(ctx, "/auth/register", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *AuthClient) ForgotPassword(ctx context.Context, email string) error {
	return c.g.post(ctx, "/auth/forgot-password", dto.ForgotPasswordRequest{Email: email}, nil)
}

func (c *AuthClient) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	var out string
	if err := c.g.post(ctx, "/auth/verify-otp", dto.VerifyOtpRequest{Email: email, OTP: otp}, &out); err != nil {
		return "", err
	}
	return out, nil
}

func (c *AuthClient) ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) error {
	return c.g.post(ctx, "/auth/reset-password", in, nil)
}

// UserClient perfil.
type UserClient struct{ g *Gateway }

// NewUserClient adaptador de perfil de usuario.
func NewUserClient(g *Gateway) *UserClient { return &UserClient{g: g} }

func (c *UserClient) Profile(ctx context.Context) (*entity.UserProfile, error) {
	var out entity.UserProfile
	if err := c.g.get(ctx, "/users/profile", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *UserClient) UpdateProfile(ctx context.Context, in dto.UpdateProfileRequest) (*entity.UserProfile, error) {
	var out entity.UserProfile
	if err := c.g.put(ctx, "/users/profile", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CartClient carrito.
type CartClient struct{ g *Gateway }

// NewCartClient adaptador del carrito.
func NewCartClient(g *Gateway) *CartClient { return &CartClient{g: g} }

func (c *CartClient) Get(ctx context.Context) (*entity.CartSnapshot, error) {
	var out entity.CartSnapshot
	if err := c.g.get(ctx, "/cart", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (c *CartClient) AddItem(ctx context.Context, productID string, quantity int) (*entity.CartSnapshot, error) {
	var out entity.CartSnapshot
	if err := c.g.post(ctx, "/cart/add", addItemRequest{ProductID: productID, Quantity: quantity}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CartClient) UpdateItem(ctx context.Context, productID string, quantity int) (*entity.CartSnapshot, error) {
	q := url.Values{"quantity": {strconv.Itoa(quantity)}}
	var out entity.CartSnapshot
	if err := c.g.put(ctx, "/cart/update/"+url.PathEscape(productID), q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CartClient) RemoveItem(ctx context.Context, productID string) (*entity.CartSnapshot, error) {
	var out entity.CartSnapshot
	if err := c.g.delete(ctx, "/cart/remove/"+url.PathEscape(productID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CartClient) Clear(ctx context.Context) error {
	return c.g.delete(ctx, "/cart/clear", nil)
}

type applyCouponRequest struct {
	Code string `json:"code"`
}

func (c *CartClient) ApplyCoupon(ctx context.Context, code string) (*entity.CartSnapshot, error) {
	var out entity.CartSnapshot
	if err := c.g.post(ctx, "/cart/apply-coupon", applyCouponRequest{Code: code}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CartClient) RemoveCoupon(ctx context.Context) (*entity.CartSnapshot, error) {
	var out entity.CartSnapshot
	if err := c.g.delete(ctx, "/cart/remove-coupon", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WishlistClient lista de deseos.
type WishlistClient struct{ g *Gateway }

// NewWishlistClient adaptador de la lista de deseos.
func NewWishlistClient(g *Gateway) *WishlistClient { return &WishlistClient{g: g} }

func (c *WishlistClient) Get(ctx context.Context) ([]entity.ProductSummary, error) {
	var out []entity.ProductSummary
	if err := c.g.get(ctx, "/wishlist", &out); err != nil {
		return nil, err
	}
	return out, nil
}

type wishlistAddRequest struct {
	ProductID string `json:"productId"`
}

func (c *WishlistClient) Add(ctx context.Context, productID string) error {
	return c.g.post(ctx, "/wishlist/add", wishlistAddRequest{ProductID: productID}, nil)
}

func (c *WishlistClient) Remove(ctx context.Context, productID string) error {
	return c.g.delete(ctx, "/wishlist/remove/"+url.PathEscape(productID), nil)
}

func (c *WishlistClient) Clear(ctx context.Context) error {
	return c.g.delete(ctx, "/wishlist/clear", nil)
}

func (c *WishlistClient) MoveToCart(ctx context.Context, productID string) error {
	return c.g.post(ctx, "/wishlist/"+url.PathEscape(productID)+"/move-to-cart", nil, nil)
}

// OrderClient pedidos.
type OrderClient struct{ g *Gateway }

// NewOrderClient adaptador de pedidos.
func NewOrderClient(g *Gateway) *OrderClient { return &OrderClient{g: g} }

func (c *OrderClient) Create(ctx context.Context, in dto.OrderRequest) (*entity.Order, error) {
	var out entity.Order
	if err := c.g.post(ctx, "/orders", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *OrderClient) List(ctx context.Context) ([]entity.Order, error) {
	var out []entity.Order
	if err := c.g.get(ctx, "/orders", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *OrderClient) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var out entity.Order
	if err := c.g.get(ctx, "/orders/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *OrderClient) Cancel(ctx context.Context, id string) (*entity.Order, error) {
	var out entity.Order
	if err := c.g.post(ctx, "/orders/"+url.PathEscape(id)+"/cancel", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *OrderClient) Reorder(ctx context.Context, id string) error {
	return c.g.post(ctx, "/orders/"+url.PathEscape(id)+"/reorder", nil, nil)
}

// CouponClient cupones publicados.
type CouponClient struct{ g *Gateway }

// NewCouponClient adaptador de cupones.
func NewCouponClient(g *Gateway) *CouponClient { return &CouponClient{g: g} }

func (c *CouponClient) Available(ctx context.Context) ([]entity.Coupon, error) {
	var out []entity.Coupon
	if err := c.g.get(ctx, "/coupons/available", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PaymentClient proveedor de pagos.
type PaymentClient struct{ g *Gateway }

// NewPaymentClient adaptador del proveedor de pagos.
func NewPaymentClient(g *Gateway) *PaymentClient { return &PaymentClient{g: g} }

func (c *PaymentClient) CreateProviderOrder(ctx context.Context, orderID string) (*dto.PaymentIntent, error) {
	var out dto.PaymentIntent
	if err := c.g.post(ctx, "/payments/razorpay/order/"+url.PathEscape(orderID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *PaymentClient) Verify(ctx context.Context, proof dto.PaymentProof) error {
	return c.g.post(ctx, "/payments/razorpay/verify", proof, nil)
}
