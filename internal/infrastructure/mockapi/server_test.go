package mockapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-core/internal/domain/entity"
	"github.com/jhoicas/storefront-core/internal/infrastructure/mockapi"
)

const testSecret = "secreto-de-pruebas"

func newServer() *mockapi.Server {
	return mockapi.New(mockapi.Config{JWTSecret: testSecret, Issuer: "mockapi-test", ExpMinutes: 30})
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// call ejecuta una petición contra el stub y decodifica el envelope.
func call(t *testing.T, s *mockapi.Server, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), "toda respuesta debe llevar el envelope")
	return resp.StatusCode, env
}

// loginDemo inicia sesión con la cuenta sembrada y devuelve el token.
func loginDemo(t *testing.T, s *mockapi.Server) string {
	t.Helper()
	status, env := call(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "demo@tienda.dev", "password": "demo1234",
	})
	require.Equal(t, http.StatusOK, status)
	require.True(t, env.Success)

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	s := newServer()

	status, env := call(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "demo@tienda.dev", "password": "incorrecta",
	})

	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, env.Success)
	assert.Equal(t, "credenciales inválidas", env.Message)
}

func TestCart_RequiereToken(t *testing.T) {
	s := newServer()

	status, env := call(t, s, http.MethodGet, "/api/cart/", "", nil)

	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, env.Success)
}

func TestCart_AgregarRecalculaTotales(t *testing.T) {
	s := newServer()
	token := loginDemo(t, s)

	status, env := call(t, s, http.MethodPost, "/api/cart/add", token, map[string]any{
		"productId": "p1", "quantity": 2,
	})
	require.Equal(t, http.StatusOK, status)
	require.True(t, env.Success)

	var cart entity.CartSnapshot
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.TotalItems)
	assert.True(t, cart.TotalPrice.Equal(d(t, "400")), "2 × 200 = 400, obtuvo %s", cart.TotalPrice)
	assert.True(t, cart.Items[0].Subtotal.Equal(d(t, "400")))
}

func TestCart_AplicarCuponBajoElMinimoRechaza(t *testing.T) {
	s := newServer()
	token := loginDemo(t, s)

	// p3 = 120.50, por debajo del mínimo de 300 de AHORRO150.
	_, env := call(t, s, http.MethodPost, "/api/cart/add", token, map[string]any{"productId": "p3", "quantity": 1})
	require.True(t, env.Success)

	status, env := call(t, s, http.MethodPost, "/api/cart/apply-coupon", token, map[string]string{"code": "AHORRO150"})

	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Success)
	assert.Equal(t, "el pedido no alcanza el monto mínimo del cupón", env.Message)
}

func TestCart_CuponExpiradoRechaza(t *testing.T) {
	s := newServer()
	token := loginDemo(t, s)

	status, env := call(t, s, http.MethodPost, "/api/cart/apply-coupon", token, map[string]string{"code": "VIEJO10"})

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "cupón expirado", env.Message)
}

func TestCart_CuponValidoDescuenta(t *testing.T) {
	s := newServer()
	token := loginDemo(t, s)

	_, env := call(t, s, http.MethodPost, "/api/cart/add", token, map[string]any{"productId": "p1", "quantity": 2})
	require.True(t, env.Success)

	status, env := call(t, s, http.MethodPost, "/api/cart/apply-coupon", token, map[string]string{"code": "AHORRO150"})
	require.Equal(t, http.StatusOK, status)
	require.True(t, env.Success)

	var cart entity.CartSnapshot
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	assert.Equal(t, "AHORRO150", cart.AppliedCoupon)
	assert.True(t, cart.Discount.Equal(d(t, "150")), "descuento fijo de 150, obtuvo %s", cart.Discount)
}

func TestOrder_CarritoVacioRechaza(t *testing.T) {
	s := newServer()
	token := loginDemo(t, s)

	status, env := call(t, s, http.MethodPost, "/api/orders/", token, map[string]any{
		"shippingAddress": sampleAddress(), "paymentMethod": "COD",
	})

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "el carrito está vacío", env.Message)
}

func TestOrder_CrearCongelaLineasYCalculaTotal(t *testing.T) {
	s := newServer()
	token := loginDemo(t, s)

	_, env := call(t, s, http.MethodPost, "/api/cart/add", token, map[string]any{"productId": "p1", "quantity": 2})
	require.True(t, env.Success)

	status, env := call(t, s, http.MethodPost, "/api/orders/", token, map[string]any{
		"shippingAddress": sampleAddress(), "paymentMethod": "COD",
	})
	require.Equal(t, http.StatusOK, status)
	require.True(t, env.Success)

	var order entity.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, entity.StatusPending, order.Status)
	assert.Equal(t, entity.PaymentStatusPending, order.PaymentStatus)
	require.Len(t, order.Items, 1)
	// subtotal 400 < 500 ⇒ envío 50; impuesto 18% de 400 = 72; total 522
	assert.True(t, order.ShippingCost.Equal(d(t, "50")))
	assert.True(t, order.Tax.Equal(d(t, "72")))
	assert.True(t, order.TotalAmount.Equal(d(t, "522")), "total esperado 522, obtuvo %s", order.TotalAmount)
	assert.NotEmpty(t, order.OrderNumber)
}

func TestOrder_CancelarSoloEnEstadosTempranos(t *testing.T) {
	s := newServer()
	token := loginDemo(t, s)

	_, env := call(t, s, http.MethodPost, "/api/cart/add", token, map[string]any{"productId": "p1", "quantity": 1})
	require.True(t, env.Success)
	_, env = call(t, s, http.MethodPost, "/api/orders/", token, map[string]any{
		"shippingAddress": sampleAddress(), "paymentMethod": "COD",
	})
	require.True(t, env.Success)
	var order entity.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))

	status, env := call(t, s, http.MethodPost, "/api/orders/"+order.ID+"/cancel", token, nil)
	require.Equal(t, http.StatusOK, status)
	var cancelled entity.Order
	require.NoError(t, json.Unmarshal(env.Data, &cancelled))
	assert.Equal(t, entity.StatusCancelled, cancelled.Status)

	// Cancelar de nuevo: CANCELLED es terminal.
	status, env = call(t, s, http.MethodPost, "/api/orders/"+order.ID+"/cancel", token, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "el pedido ya no puede cancelarse", env.Message)
}

func TestPayment_VerificacionConFirma(t *testing.T) {
	s := newServer()
	token := loginDemo(t, s)

	_, env := call(t, s, http.MethodPost, "/api/cart/add", token, map[string]any{"productId": "p2", "quantity": 1})
	require.True(t, env.Success)
	_, env = call(t, s, http.MethodPost, "/api/orders/", token, map[string]any{
		"shippingAddress": sampleAddress(), "paymentMethod": "ONLINE",
	})
	require.True(t, env.Success)
	var order entity.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))

	status, env := call(t, s, http.MethodPost, "/api/payments/razorpay/order/"+order.ID, token, nil)
	require.Equal(t, http.StatusOK, status)
	var intent struct {
		ID              string `json:"id"`
		ProviderOrderID string `json:"razorpayOrderId"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &intent))

	// Firma incorrecta: rechazo y el pedido sigue sin pagar.
	status, env = call(t, s, http.MethodPost, "/api/payments/razorpay/verify", token, map[string]string{
		"razorpay_order_id": intent.ProviderOrderID, "razorpay_payment_id": "pay_123",
		"razorpay_signature": "basura", "payment_id": intent.ID,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "firma de pago inválida", env.Message)

	// Firma correcta: el pedido queda pagado y confirmado.
	sig := mockapi.Sign(testSecret, intent.ProviderOrderID, "pay_123")
	status, env = call(t, s, http.MethodPost, "/api/payments/razorpay/verify", token, map[string]string{
		"razorpay_order_id": intent.ProviderOrderID, "razorpay_payment_id": "pay_123",
		"razorpay_signature": sig, "payment_id": intent.ID,
	})
	require.Equal(t, http.StatusOK, status)
	require.True(t, env.Success)

	_, env = call(t, s, http.MethodGet, "/api/orders/"+order.ID, token, nil)
	var paid entity.Order
	require.NoError(t, json.Unmarshal(env.Data, &paid))
	assert.Equal(t, entity.PaymentStatusPaid, paid.PaymentStatus)
	assert.Equal(t, entity.StatusConfirmed, paid.Status)
}

func TestWishlist_MoverAlCarrito(t *testing.T) {
	s := newServer()
	token := loginDemo(t, s)

	_, env := call(t, s, http.MethodPost, "/api/wishlist/add", token, map[string]string{"productId": "p4"})
	require.True(t, env.Success)

	status, env := call(t, s, http.MethodPost, "/api/wishlist/p4/move-to-cart", token, nil)
	require.Equal(t, http.StatusOK, status)

	_, env = call(t, s, http.MethodGet, "/api/wishlist/", token, nil)
	var items []entity.ProductSummary
	require.NoError(t, json.Unmarshal(env.Data, &items))
	assert.Empty(t, items, "mover debe sacar el producto de la lista")

	_, env = call(t, s, http.MethodGet, "/api/cart/", token, nil)
	var cart entity.CartSnapshot
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "p4", cart.Items[0].ProductID)
}

func sampleAddress() map[string]string {
	return map[string]string{
		"fullName": "Demo Cliente", "phone": "3000000000",
		"street": "Calle 1 #2-3", "city": "Bogotá", "state": "Cundinamarca",
		"zipCode": "110111", "country": "Colombia",
	}
}

func d(t *testing.T, v string) decimal.Decimal {
	t.Helper()
	out, err := decimal.NewFromString(v)
	require.NoError(t, err)
	return out
}
