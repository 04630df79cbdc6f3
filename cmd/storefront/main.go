// Cliente de demostración: arma todo el cableado (gateway, sesión, carrito,
// wishlist, checkout) y recorre un flujo de compra de punta a punta contra el
// backend configurado en API_BASE_URL (por ejemplo, el stub de cmd/mockapi).
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/jhoicas/storefront-core/internal/application/cart"
	"github.com/jhoicas/storefront-core/internal/application/checkout"
	"github.com/jhoicas/storefront-core/internal/application/dto"
	"github.com/jhoicas/storefront-core/internal/application/orders"
	"github.com/jhoicas/storefront-core/internal/application/session"
	"github.com/jhoicas/storefront-core/internal/application/wishlist"
	"github.com/jhoicas/storefront-core/internal/domain/entity"
	"github.com/jhoicas/storefront-core/internal/infrastructure/notify"
	"github.com/jhoicas/storefront-core/internal/infrastructure/rest"
	"github.com/jhoicas/storefront-core/internal/infrastructure/storage"
	"github.com/jhoicas/storefront-core/pkg/config"
	"github.com/jhoicas/storefront-core/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "debug"})

	store, err := storage.NewFileStore(cfg.Storage.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudo abrir el storage local")
	}

	// La sesión es el único escritor del token; el gateway solo lo lee.
	var sess *session.Store
	gw := rest.NewGateway(
		rest.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout()},
		func() string {
			if sess == nil {
				return ""
			}
			return sess.Token()
		},
		log,
	)
	sess = session.New(rest.NewAuthClient(gw), rest.NewUserClient(gw), store, log)
	gw.SetOnUnauthorized(sess.Logout)

	notifier := notify.New(log)
	cartStore := cart.New(rest.NewCartClient(gw), notifier, log)
	wishStore := wishlist.New(rest.NewWishlistClient(gw), store, notifier, log)
	orderSvc := orders.New(rest.NewOrderClient(gw), notifier, log)
	flow := checkout.New(cartStore, sess, rest.NewOrderClient(gw), rest.NewPaymentClient(gw), notifier, log)

	ctx := context.Background()

	if !sess.IsAuthenticated() {
		if err := sess.Login(ctx, dto.LoginRequest{Email: "demo@tienda.dev", Password: "demo1234"}); err != nil {
			log.Fatal().Err(err).Msg("login fallido")
		}
	}
	sess.FetchProfile(ctx)
	user := sess.Current().User
	log.Info().Str("user", user.FullName()).Bool("admin", sess.IsAdmin()).Msg("sesión activa")

	if err := cartStore.Fetch(ctx); err != nil {
		log.Fatal().Err(err).Msg("no se pudo cargar el carrito")
	}
	if err := cartStore.Add(ctx, "p1", 2); err != nil {
		log.Fatal().Err(err).Msg("no se pudo agregar al carrito")
	}
	coupons, err := rest.NewCouponClient(gw).Available(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("no se pudieron listar los cupones")
	}
	for _, cp := range coupons {
		log.Info().Str("codigo", cp.Code).Str("minimo", cp.MinOrderAmount.String()).Msg("cupón disponible")
	}
	if err := cartStore.ApplyCoupon(ctx, "AHORRO150"); err != nil {
		log.Warn().Err(err).Msg("cupón rechazado, se continúa sin descuento")
	}
	preview := cartStore.PreviewTotals()
	log.Info().
		Int("items", cartStore.ItemCount()).
		Str("subtotal", preview.Subtotal.String()).
		Str("envio", preview.Shipping.String()).
		Str("impuesto", preview.Tax.String()).
		Str("total_estimado", preview.Total.String()).
		Msg("carrito listo (el total final lo fija el servidor)")

	if err := wishStore.Add(ctx, entity.ProductSummary{ID: "p4", Name: "Monitor 24\""}); err != nil {
		log.Warn().Err(err).Msg("no se pudo agregar a la wishlist")
	}
	if err := wishStore.MoveToCart(ctx, "p4", cartStore); err != nil {
		log.Warn().Err(err).Msg("no se pudo mover a carrito")
	}

	flow.SetForm(checkout.ShippingForm{
		FullName: user.FullName(), Phone: user.Phone,
		Street: "Calle 1 #2-3", City: "Bogotá", State: "Cundinamarca",
		ZipCode: "110111", Country: "Colombia",
	})
	if err := flow.Next(); err != nil {
		log.Fatal().Err(err).Msg("dirección incompleta")
	}
	if err := flow.SelectPaymentMethod(entity.PaymentCOD); err != nil {
		log.Fatal().Err(err).Msg("método de pago inválido")
	}
	if err := flow.Next(); err != nil {
		log.Fatal().Err(err).Msg("no se pudo avanzar a revisión")
	}

	placement, err := flow.PlaceOrder(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudo colocar el pedido")
	}
	log.Info().
		Str("order", placement.Order.OrderNumber).
		Str("total", placement.Order.TotalAmount.String()).
		Bool("completed", placement.Completed).
		Msg("pedido colocado")

	order, timeline, err := orderSvc.Get(ctx, placement.Order.ID)
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudo consultar el pedido")
	}
	for _, step := range timeline.Steps {
		log.Info().Str("estado", string(step.Status)).Bool("alcanzado", step.Reached).Msg("línea de tiempo")
	}
	log.Info().Str("estado", string(order.Status)).Msg("flujo de demostración terminado")
}
