// Package mockapi implementa en memoria el contrato REST que el cliente
// consume, para desarrollo e integración sin backend real. No es el backend
// de producción: credenciales sembradas, sin hashing, estado volátil.
package mockapi

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-core/internal/domain/entity"
	"github.com/jhoicas/storefront-core/internal/domain/pricing"
	pkgjwt "github.com/jhoicas/storefront-core/pkg/jwt"
)

// Config parámetros del stub.
type Config struct {
	JWTSecret  string
	Issuer     string
	ExpMinutes int
}

type account struct {
	profile  entity.UserProfile
	password string // texto plano: esto es un stub de desarrollo
}

type paymentRecord struct {
	orderID         string
	providerOrderID string
	amount          decimal.Decimal
}

// Server estado en memoria del stub.
type Server struct {
	app *fiber.App
	cfg Config

	mu          sync.Mutex
	accounts    map[string]*account // email -> cuenta
	byID        map[string]*account // userID -> cuenta
	products    map[string]entity.ProductSummary
	coupons     map[string]entity.Coupon
	carts       map[string]*entity.CartSnapshot        // userID -> carrito
	wishlists   map[string][]entity.ProductSummary     // userID -> lista
	orders      map[string]*entity.Order               // orderID -> pedido
	payments    map[string]*paymentRecord              // paymentID -> registro
	otps        map[string]string                      // email -> código
	resetTokens map[string]string                      // token -> email
}

// New construye el stub con datos sembrados y las rutas montadas.
func New(cfg Config) *Server {
	s := &Server{
		cfg:         cfg,
		accounts:    make(map[string]*account),
		byID:        make(map[string]*account),
		products:    make(map[string]entity.ProductSummary),
		coupons:     make(map[string]entity.Coupon),
		carts:       make(map[string]*entity.CartSnapshot),
		wishlists:   make(map[string][]entity.ProductSummary),
		orders:      make(map[string]*entity.Order),
		payments:    make(map[string]*paymentRecord),
		otps:        make(map[string]string),
		resetTokens: make(map[string]string),
	}
	s.seed()
	s.app = fiber.New(fiber.Config{DisableStartupMessage: true})
	s.routes()
	return s
}

// App expone la app Fiber para tests (app.Test) y para Listen.
func (s *Server) App() *fiber.App { return s.app }

// Listen sirve el stub en la dirección dada.
func (s *Server) Listen(addr string) error { return s.app.Listen(addr) }

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func (s *Server) seed() {
	demo := &account{
		password: "demo1234",
		profile: entity.UserProfile{
			ID: uuid.NewString(), FirstName: "Demo", LastName: "Cliente",
			Email: "demo@tienda.dev", Phone: "3000000000",
			Roles: []entity.Role{entity.RoleUser},
			Addresses: []entity.Address{{
				ID: uuid.NewString(), Street: "Calle 1 #2-3", City: "Bogotá",
				State: "Cundinamarca", Country: "Colombia", ZipCode: "110111", IsDefault: true,
			}},
		},
	}
	admin := &account{
		password: "admin1234",
		profile: entity.UserProfile{
			ID: uuid.NewString(), FirstName: "Admin", LastName: "Tienda",
			Email: "admin@tienda.dev",
			Roles: []entity.Role{entity.RoleAdmin},
		},
	}
	for _, a := range []*account{demo, admin} {
		s.accounts[a.profile.Email] = a
		s.byID[a.profile.ID] = a
	}

	for _, p := range []entity.ProductSummary{
		{ID: "p1", Name: "Auriculares BT", Price: d("200")},
		{ID: "p2", Name: "Teclado mecánico", Price: d("350")},
		{ID: "p3", Name: "Mouse inalámbrico", Price: d("120.50")},
		{ID: "p4", Name: "Monitor 24\"", Price: d("980")},
	} {
		s.products[p.ID] = p
	}

	now := time.Now()
	for _, c := range []entity.Coupon{
		{Code: "AHORRO150", DiscountType: entity.DiscountFixed, Value: d("150"), MinOrderAmount: d("300"), ExpiresAt: now.AddDate(1, 0, 0)},
		{Code: "PROMO10", DiscountType: entity.DiscountPercentage, Value: d("10"), MinOrderAmount: decimal.Zero, ExpiresAt: now.AddDate(1, 0, 0)},
		{Code: "VIEJO10", DiscountType: entity.DiscountPercentage, Value: d("10"), MinOrderAmount: decimal.Zero, ExpiresAt: now.AddDate(0, 0, -1)},
	} {
		s.coupons[c.Code] = c
	}
}

// ── Envelope ──────────────────────────────────────────────────────────────────

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": msg})
}

// ── Middleware ────────────────────────────────────────────────────────────────

const localUserID = "userID"

func (s *Server) requireAuth(c *fiber.Ctx) error {
	h := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(h, "Bearer ") {
		return fail(c, fiber.StatusUnauthorized, "token requerido")
	}
	claims, err := pkgjwt.Parse(s.cfg.JWTSecret, strings.TrimPrefix(h, "Bearer "))
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "token inválido o expirado")
	}
	c.Locals(localUserID, claims.UserID)
	return c.Next()
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}

// ── Rutas ─────────────────────────────────────────────────────────────────────

func (s *Server) routes() {
	api := s.app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/login", s.login)
	auth.Post("/register", s.register)
	auth.Post("/forgot-password", s.forgotPassword)
	auth.Post("/verify-otp", s.verifyOTP)
	auth.Post("/reset-password", s.resetPassword)

	users := api.Group("/users", s.requireAuth)
	users.Get("/profile", s.profile)
	users.Put("/profile", s.updateProfile)

	cart := api.Group("/cart", s.requireAuth)
	cart.Get("/", s.getCart)
	cart.Post("/add", s.addToCart)
	cart.Put("/update/:productId", s.updateCartItem)
	cart.Delete("/remove/:productId", s.removeCartItem)
	cart.Delete("/clear", s.clearCart)
	cart.Post("/apply-coupon", s.applyCoupon)
	cart.Delete("/remove-coupon", s.removeCoupon)

	wl := api.Group("/wishlist", s.requireAuth)
	wl.Get("/", s.getWishlist)
	wl.Post("/add", s.addToWishlist)
	wl.Delete("/remove/:productId", s.removeFromWishlist)
	wl.Delete("/clear", s.clearWishlist)
	wl.Post("/:productId/move-to-cart", s.moveToCart)

	orders := api.Group("/orders", s.requireAuth)
	orders.Post("/", s.createOrder)
	orders.Get("/", s.listOrders)
	orders.Get("/:id", s.getOrder)
	orders.Post("/:id/cancel", s.cancelOrder)
	orders.Post("/:id/reorder", s.reorder)

	api.Get("/coupons/available", s.requireAuth, s.availableCoupons)

	pay := api.Group("/payments/razorpay", s.requireAuth)
	pay.Post("/order/:orderId", s.createPayment)
	pay.Post("/verify", s.verifyPayment)
}

// ── Auth ──────────────────────────────────────────────────────────────────────

func (s *Server) issueToken(a *account) (string, error) {
	roles := make([]string, len(a.profile.Roles))
	for i, r := range a.profile.Roles {
		roles[i] = string(r)
	}
	return pkgjwt.Generate(s.cfg.JWTSecret, a.profile.ID, a.profile.Email, roles, s.cfg.Issuer, s.cfg.ExpMinutes)
}

func (s *Server) login(c *fiber.Ctx) error {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	s.mu.Lock()
	a, okAcc := s.accounts[in.Email]
	s.mu.Unlock()
	if !okAcc || a.password != in.Password {
		return fail(c, fiber.StatusUnauthorized, "credenciales inválidas")
	}
	tok, err := s.issueToken(a)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return ok(c, fiber.Map{"token": tok, "user": a.profile})
}

func (s *Server) register(c *fiber.Ctx) error {
	var in struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
		Password  string `json:"password"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	if in.Email == "" || in.Password == "" {
		return fail(c, fiber.StatusBadRequest, "email y password son requeridos")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[in.Email]; exists {
		return fail(c, fiber.StatusConflict, "el email ya está registrado")
	}
	a := &account{
		password: in.Password,
		profile: entity.UserProfile{
			ID: uuid.NewString(), FirstName: in.FirstName, LastName: in.LastName,
			Email: in.Email, Phone: in.Phone, Roles: []entity.Role{entity.RoleUser},
		},
	}
	s.accounts[in.Email] = a
	s.byID[a.profile.ID] = a
	tok, err := s.issueToken(a)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return ok(c, fiber.Map{"token": tok, "user": a.profile})
}

func (s *Server) forgotPassword(c *fiber.Ctx) error {
	var in struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[in.Email]; !exists {
		return fail(c, fiber.StatusNotFound, "no existe una cuenta con ese email")
	}
	// En el stub el código es fijo; un backend real lo enviaría por correo.
	s.otps[in.Email] = "123456"
	return ok(c, nil)
}

func (s *Server) verifyOTP(c *fiber.Ctx) error {
	var in struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if code, exists := s.otps[in.Email]; !exists || code != in.OTP {
		return fail(c, fiber.StatusBadRequest, "código incorrecto o vencido")
	}
	delete(s.otps, in.Email)
	token := uuid.NewString()
	s.resetTokens[token] = in.Email
	return ok(c, token)
}

func (s *Server) resetPassword(c *fiber.Ctx) error {
	var in struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	email, exists := s.resetTokens[in.Token]
	if !exists {
		return fail(c, fiber.StatusBadRequest, "token de reseteo inválido")
	}
	delete(s.resetTokens, in.Token)
	s.accounts[email].password = in.NewPassword
	return ok(c, nil)
}

// ── Perfil ────────────────────────────────────────────────────────────────────

func (s *Server) profile(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, exists := s.byID[userID(c)]
	if !exists {
		return fail(c, fiber.StatusNotFound, "usuario no encontrado")
	}
	return ok(c, a.profile)
}

func (s *Server) updateProfile(c *fiber.Ctx) error {
	var in struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Phone     string `json:"phone"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, exists := s.byID[userID(c)]
	if !exists {
		return fail(c, fiber.StatusNotFound, "usuario no encontrado")
	}
	if in.FirstName != "" {
		a.profile.FirstName = in.FirstName
	}
	if in.LastName != "" {
		a.profile.LastName = in.LastName
	}
	if in.Phone != "" {
		a.profile.Phone = in.Phone
	}
	return ok(c, a.profile)
}

// ── Carrito ───────────────────────────────────────────────────────────────────

// cartFor carrito del usuario, creado vacío si no existe. Llamar con s.mu tomado.
func (s *Server) cartFor(uid string) *entity.CartSnapshot {
	if cart, exists := s.carts[uid]; exists {
		return cart
	}
	cart := &entity.CartSnapshot{ID: uuid.NewString(), UserID: uid}
	s.carts[uid] = cart
	return cart
}

// recalc recalcula subtotales, totales y descuento vigente. Llamar con s.mu tomado.
func (s *Server) recalc(cart *entity.CartSnapshot) {
	total := decimal.Zero
	count := 0
	for i := range cart.Items {
		it := &cart.Items[i]
		it.Subtotal = it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(it.Subtotal)
		count += it.Quantity
	}
	cart.TotalPrice = total
	cart.TotalItems = count

	cart.Discount = decimal.Zero
	if cart.AppliedCoupon != "" {
		coupon, exists := s.coupons[cart.AppliedCoupon]
		if exists && !coupon.Expired(time.Now()) && coupon.MeetsMinimum(total) {
			cart.Discount = coupon.DiscountFor(total)
		} else {
			cart.AppliedCoupon = ""
		}
	}
}

func (s *Server) getCart(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cartFor(userID(c))
	s.recalc(cart)
	return ok(c, cart)
}

func (s *Server) addToCart(c *fiber.Ctx) error {
	var in struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	if in.Quantity < 1 {
		in.Quantity = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, exists := s.products[in.ProductID]
	if !exists {
		return fail(c, fiber.StatusNotFound, "producto no encontrado")
	}
	cart := s.cartFor(userID(c))
	if i := cart.LineIndex(in.ProductID); i >= 0 {
		cart.Items[i].Quantity += in.Quantity
	} else {
		cart.Items = append(cart.Items, entity.CartLine{
			ProductID: p.ID, ProductName: p.Name, ProductImage: p.Image,
			Price: p.Price, Quantity: in.Quantity,
		})
	}
	s.recalc(cart)
	return ok(c, cart)
}

func (s *Server) updateCartItem(c *fiber.Ctx) error {
	qty, err := strconv.Atoi(c.Query("quantity"))
	if err != nil || qty < 1 {
		return fail(c, fiber.StatusBadRequest, "cantidad inválida")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cartFor(userID(c))
	i := cart.LineIndex(c.Params("productId"))
	if i < 0 {
		return fail(c, fiber.StatusNotFound, "el producto no está en el carrito")
	}
	cart.Items[i].Quantity = qty
	s.recalc(cart)
	return ok(c, cart)
}

func (s *Server) removeCartItem(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cartFor(userID(c))
	i := cart.LineIndex(c.Params("productId"))
	if i < 0 {
		return fail(c, fiber.StatusNotFound, "el producto no está en el carrito")
	}
	cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
	s.recalc(cart)
	return ok(c, cart)
}

func (s *Server) clearCart(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID(c))
	return ok(c, nil)
}

func (s *Server) applyCoupon(c *fiber.Ctx) error {
	var in struct {
		Code string `json:"code"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	coupon, exists := s.coupons[in.Code]
	if !exists {
		return fail(c, fiber.StatusBadRequest, "cupón inválido")
	}
	if coupon.Expired(time.Now()) {
		return fail(c, fiber.StatusBadRequest, "cupón expirado")
	}
	cart := s.cartFor(userID(c))
	s.recalc(cart)
	if !coupon.MeetsMinimum(cart.TotalPrice) {
		return fail(c, fiber.StatusBadRequest, "el pedido no alcanza el monto mínimo del cupón")
	}
	cart.AppliedCoupon = coupon.Code
	s.recalc(cart)
	return ok(c, cart)
}

func (s *Server) removeCoupon(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cartFor(userID(c))
	cart.AppliedCoupon = ""
	s.recalc(cart)
	return ok(c, cart)
}

// ── Wishlist ──────────────────────────────────────────────────────────────────

func (s *Server) getWishlist(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.wishlists[userID(c)]
	if items == nil {
		items = []entity.ProductSummary{}
	}
	return ok(c, items)
}

func (s *Server) addToWishlist(c *fiber.Ctx) error {
	var in struct {
		ProductID string `json:"productId"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, exists := s.products[in.ProductID]
	if !exists {
		return fail(c, fiber.StatusNotFound, "producto no encontrado")
	}
	uid := userID(c)
	for _, it := range s.wishlists[uid] {
		if it.ID == in.ProductID {
			return fail(c, fiber.StatusConflict, "ya está en la lista de deseos")
		}
	}
	s.wishlists[uid] = append(s.wishlists[uid], p)
	return ok(c, nil)
}

func (s *Server) removeFromWishlist(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	uid := userID(c)
	items := s.wishlists[uid]
	next := items[:0]
	for _, it := range items {
		if it.ID != c.Params("productId") {
			next = append(next, it)
		}
	}
	s.wishlists[uid] = next
	return ok(c, nil)
}

func (s *Server) clearWishlist(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.wishlists, userID(c))
	return ok(c, nil)
}

func (s *Server) moveToCart(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	uid := userID(c)
	pid := c.Params("productId")
	found := false
	next := s.wishlists[uid][:0]
	for _, it := range s.wishlists[uid] {
		if it.ID == pid {
			found = true
			continue
		}
		next = append(next, it)
	}
	if !found {
		return fail(c, fiber.StatusNotFound, "el producto no está en la lista de deseos")
	}
	s.wishlists[uid] = next

	p := s.products[pid]
	cart := s.cartFor(uid)
	if i := cart.LineIndex(pid); i >= 0 {
		cart.Items[i].Quantity++
	} else {
		cart.Items = append(cart.Items, entity.CartLine{
			ProductID: p.ID, ProductName: p.Name, ProductImage: p.Image,
			Price: p.Price, Quantity: 1,
		})
	}
	s.recalc(cart)
	return ok(c, nil)
}

// ── Pedidos ───────────────────────────────────────────────────────────────────

func (s *Server) createOrder(c *fiber.Ctx) error {
	var in struct {
		ShippingAddress entity.ShippingAddress `json:"shippingAddress"`
		PaymentMethod   entity.PaymentMethod   `json:"paymentMethod"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	if in.PaymentMethod != entity.PaymentCOD && in.PaymentMethod != entity.PaymentOnline {
		return fail(c, fiber.StatusBadRequest, "método de pago inválido")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	uid := userID(c)
	cart := s.cartFor(uid)
	s.recalc(cart)
	if len(cart.Items) == 0 {
		return fail(c, fiber.StatusBadRequest, "el carrito está vacío")
	}

	sum := pricing.Quote(cart.TotalPrice, cart.Discount)
	items := make([]entity.OrderItem, len(cart.Items))
	for i, it := range cart.Items {
		items[i] = entity.OrderItem{
			ProductID: it.ProductID, ProductName: it.ProductName, ProductImage: it.ProductImage,
			Price: it.Price, Quantity: it.Quantity, Subtotal: it.Subtotal,
		}
	}
	now := time.Now()
	order := &entity.Order{
		ID:              uuid.NewString(),
		OrderNumber:     "ORD-" + strings.ToUpper(uuid.NewString()[:8]),
		UserID:          uid,
		Items:           items,
		ShippingAddress: in.ShippingAddress,
		Subtotal:        sum.Subtotal,
		ShippingCost:    sum.Shipping,
		Tax:             sum.Tax,
		Discount:        sum.Discount,
		CouponCode:      cart.AppliedCoupon,
		TotalAmount:     sum.Total,
		Status:          entity.StatusPending,
		PaymentStatus:   entity.PaymentStatusPending,
		PaymentMethod:   in.PaymentMethod,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.orders[order.ID] = order
	return ok(c, order)
}

func (s *Server) listOrders(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	uid := userID(c)
	out := []entity.Order{}
	for _, o := range s.orders {
		if o.UserID == uid {
			out = append(out, *o)
		}
	}
	return ok(c, out)
}

// orderOf pedido del usuario autenticado. Llamar con s.mu tomado.
func (s *Server) orderOf(c *fiber.Ctx) (*entity.Order, bool) {
	o, exists := s.orders[c.Params("id")]
	if !exists || o.UserID != userID(c) {
		return nil, false
	}
	return o, true
}

func (s *Server) getOrder(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, exists := s.orderOf(c)
	if !exists {
		return fail(c, fiber.StatusNotFound, "pedido no encontrado")
	}
	return ok(c, o)
}

func (s *Server) cancelOrder(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, exists := s.orderOf(c)
	if !exists {
		return fail(c, fiber.StatusNotFound, "pedido no encontrado")
	}
	if !o.Cancelable() {
		return fail(c, fiber.StatusConflict, "el pedido ya no puede cancelarse")
	}
	o.Status = entity.StatusCancelled
	o.UpdatedAt = time.Now()
	return ok(c, o)
}

func (s *Server) reorder(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, exists := s.orderOf(c)
	if !exists {
		return fail(c, fiber.StatusNotFound, "pedido no encontrado")
	}
	cart := s.cartFor(userID(c))
	for _, it := range o.Items {
		if i := cart.LineIndex(it.ProductID); i >= 0 {
			cart.Items[i].Quantity += it.Quantity
			continue
		}
		price := it.Price
		if p, stillExists := s.products[it.ProductID]; stillExists {
			price = p.Price // la recompra usa el precio vigente, no el congelado
		}
		cart.Items = append(cart.Items, entity.CartLine{
			ProductID: it.ProductID, ProductName: it.ProductName, ProductImage: it.ProductImage,
			Price: price, Quantity: it.Quantity,
		})
	}
	s.recalc(cart)
	return ok(c, nil)
}

// ── Cupones ───────────────────────────────────────────────────────────────────

func (s *Server) availableCoupons(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []entity.Coupon{}
	now := time.Now()
	for _, cp := range s.coupons {
		if !cp.Expired(now) {
			out = append(out, cp)
		}
	}
	return ok(c, out)
}

// ── Pagos ─────────────────────────────────────────────────────────────────────

// Sign calcula la firma HMAC-SHA256 que el stub espera en la verificación,
// igual que lo haría el proveedor real con su secret compartido.
func Sign(secret, providerOrderID, providerPaymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(providerOrderID + "|" + providerPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *Server) createPayment(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, exists := s.orders[c.Params("orderId")]
	if !exists || o.UserID != userID(c) {
		return fail(c, fiber.StatusNotFound, "pedido no encontrado")
	}
	if o.PaymentMethod != entity.PaymentOnline {
		return fail(c, fiber.StatusBadRequest, "el pedido no es de pago en línea")
	}
	rec := &paymentRecord{
		orderID:         o.ID,
		providerOrderID: "order_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:14],
		amount:          o.TotalAmount,
	}
	paymentID := uuid.NewString()
	s.payments[paymentID] = rec
	return ok(c, fiber.Map{
		"id":              paymentID,
		"razorpayOrderId": rec.providerOrderID,
		"amount":          rec.amount,
		"currency":        "INR",
	})
}

func (s *Server) verifyPayment(c *fiber.Ctx) error {
	var in struct {
		ProviderOrderID   string `json:"razorpay_order_id"`
		ProviderPaymentID string `json:"razorpay_payment_id"`
		Signature         string `json:"razorpay_signature"`
		PaymentID         string `json:"payment_id"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, exists := s.payments[in.PaymentID]
	if !exists || rec.providerOrderID != in.ProviderOrderID {
		return fail(c, fiber.StatusNotFound, "pago no encontrado")
	}
	expected := Sign(s.cfg.JWTSecret, in.ProviderOrderID, in.ProviderPaymentID)
	if !hmac.Equal([]byte(expected), []byte(in.Signature)) {
		return fail(c, fiber.StatusBadRequest, "firma de pago inválida")
	}
	o := s.orders[rec.orderID]
	o.PaymentStatus = entity.PaymentStatusPaid
	o.PaymentID = in.ProviderPaymentID
	o.Status = entity.StatusConfirmed
	o.UpdatedAt = time.Now()
	return ok(c, nil)
}
