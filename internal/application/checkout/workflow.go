// Package checkout implementa la máquina de estados lineal del proceso de
// compra: dirección → método de pago → revisión, y la colocación del pedido.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/storefront-core/internal/application/dto"
	"github.com/jhoicas/storefront-core/internal/application/ports"
	"github.com/jhoicas/storefront-core/internal/domain"
	"github.com/jhoicas/storefront-core/internal/domain/entity"
	"github.com/jhoicas/storefront-core/pkg/logger"
)

// Step paso actual del checkout.
type Step int

const (
	StepAddress Step = iota + 1
	StepPaymentMethod
	StepReview
)

func (s Step) String() string {
	switch s {
	case StepAddress:
		return "ADDRESS"
	case StepPaymentMethod:
		return "PAYMENT_METHOD"
	case StepReview:
		return "REVIEW"
	default:
		return "UNKNOWN"
	}
}

// ShippingForm dirección de envío en edición. Country tiene default y no es
// obligatorio; el resto sí.
type ShippingForm struct {
	FullName string `validate:"required"`
	Phone    string `validate:"required"`
	Street   string `validate:"required"`
	City     string `validate:"required"`
	State    string `validate:"required"`
	Country  string
	ZipCode  string `validate:"required"`
}

// fieldLabels nombre legible de cada campo para el mensaje de validación.
var fieldLabels = map[string]string{
	"FullName": "nombre completo",
	"Phone":    "teléfono",
	"Street":   "calle",
	"City":     "ciudad",
	"State":    "provincia",
	"ZipCode":  "código postal",
}

// CartStore lo que el checkout necesita del store de carrito, siempre vía
// operaciones públicas.
type CartStore interface {
	Snapshot() *entity.CartSnapshot
	Clear(ctx context.Context) error
	ApplyCoupon(ctx context.Context, code string) error
	RemoveCoupon(ctx context.Context) error
}

// SessionReader acceso de solo lectura a la sesión para prellenar datos.
type SessionReader interface {
	Current() entity.Session
}

// Placement resultado de PlaceOrder. Completed=true solo cuando el pedido
// quedó pagado o es contraentrega; con pago en línea pendiente, Intent trae
// la sesión del proveedor y hay que terminar con CompletePayment.
type Placement struct {
	Order     *entity.Order
	Intent    *dto.PaymentIntent
	Completed bool
}

// Workflow máquina de estados del checkout. Avanzar exige validar el paso
// actual; retroceder siempre está permitido.
type Workflow struct {
	cart     CartStore
	session  SessionReader
	orders   ports.OrderAPI
	payments ports.PaymentAPI
	notify   ports.Notifier
	log      *logger.Logger
	validate *validator.Validate

	mu                sync.Mutex
	step              Step
	form              ShippingForm
	selectedAddressID string
	method            entity.PaymentMethod
}

// New construye el workflow en el paso de dirección, con contraentrega
// preseleccionada y el país con su valor por defecto.
func New(cart CartStore, session SessionReader, orders ports.OrderAPI, payments ports.PaymentAPI, notify ports.Notifier, log *logger.Logger) *Workflow {
	return &Workflow{
		cart:     cart,
		session:  session,
		orders:   orders,
		payments: payments,
		notify:   notify,
		log:      log,
		validate: validator.New(),
		step:     StepAddress,
		form:     ShippingForm{Country: "India"},
		method:   entity.PaymentCOD,
	}
}

// Step paso actual.
func (w *Workflow) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Form copia de la dirección en edición.
func (w *Workflow) Form() ShippingForm {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form
}

// SelectedAddressID id de la dirección guardada elegida; vacío tras
// cualquier edición manual.
func (w *Workflow) SelectedAddressID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selectedAddressID
}

// PaymentMethod método seleccionado.
func (w *Workflow) PaymentMethod() entity.PaymentMethod {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.method
}

// SetForm reemplaza la dirección en edición. Editar a mano limpia la
// selección de dirección guardada.
func (w *Workflow) SetForm(form ShippingForm) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if form.Country == "" {
		form.Country = w.form.Country
	}
	w.form = form
	w.selectedAddressID = ""
}

// UseSavedAddress copia los campos de una dirección guardada al formulario y
// registra cuál se eligió. Nombre y teléfono salen del perfil de la sesión.
func (w *Workflow) UseSavedAddress(addr entity.Address) {
	sess := w.session.Current()
	var fullName, phone string
	if sess.User != nil {
		fullName = sess.User.FullName()
		phone = sess.User.Phone
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.form = ShippingForm{
		FullName: fullName,
		Phone:    phone,
		Street:   addr.Street,
		City:     addr.City,
		State:    addr.State,
		Country:  addr.Country,
		ZipCode:  addr.ZipCode,
	}
	w.selectedAddressID = addr.ID
}

// SelectPaymentMethod fija el método; solo COD u ONLINE.
func (w *Workflow) SelectPaymentMethod(m entity.PaymentMethod) error {
	if m != entity.PaymentCOD && m != entity.PaymentOnline {
		return fmt.Errorf("método de pago %q: %w", m, domain.ErrInvalidInput)
	}
	w.mu.Lock()
	w.method = m
	w.mu.Unlock()
	return nil
}

// Next valida el paso actual y avanza. Desde REVIEW no hay avance: la acción
// terminal es PlaceOrder.
func (w *Workflow) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.step {
	case StepAddress:
		if err := w.validateAddress(); err != nil {
			return err
		}
		w.step = StepPaymentMethod
	case StepPaymentMethod:
		// Siempre satisfecho: hay un método preseleccionado.
		w.step = StepReview
	case StepReview:
		return fmt.Errorf("el paso de revisión termina con PlaceOrder: %w", domain.ErrConflict)
	}
	return nil
}

// Back retrocede un paso; siempre permitido.
func (w *Workflow) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step > StepAddress {
		w.step--
	}
}

// validateAddress exige los campos obligatorios y nombra el primero que falte.
// Llamar con w.mu tomado.
func (w *Workflow) validateAddress() error {
	err := w.validate.Struct(w.form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		label := fieldLabels[verrs[0].Field()]
		if label == "" {
			label = verrs[0].Field()
		}
		return fmt.Errorf("ingrese %s: %w", label, domain.ErrInvalidInput)
	}
	return fmt.Errorf("dirección inválida: %w", domain.ErrInvalidInput)
}

func (w *Workflow) shippingAddress() entity.ShippingAddress {
	w.mu.Lock()
	defer w.mu.Unlock()
	return entity.ShippingAddress{
		FullName: w.form.FullName,
		Phone:    w.form.Phone,
		Street:   w.form.Street,
		City:     w.form.City,
		State:    w.form.State,
		ZipCode:  w.form.ZipCode,
		Country:  w.form.Country,
	}
}

// PlaceOrder acción terminal del paso de revisión.
//
// Re-valida la dirección, crea el pedido (el servidor calcula el total
// cobrado, nunca el cliente) y según el método: contraentrega vacía el
// carrito y termina; pago en línea pide la sesión del proveedor atada al
// pedido y queda pendiente de CompletePayment. Cualquier fallo deja el
// carrito intacto y no avanza el estado.
func (w *Workflow) PlaceOrder(ctx context.Context) (*Placement, error) {
	w.mu.Lock()
	if err := w.validateAddress(); err != nil {
		w.mu.Unlock()
		w.notify.Error(err.Error())
		return nil, err
	}
	method := w.method
	w.mu.Unlock()

	if w.cart.Snapshot().IsEmpty() {
		return nil, domain.ErrEmptyCart
	}

	order, err := w.orders.Create(ctx, dto.OrderRequest{
		ShippingAddress: w.shippingAddress(),
		PaymentMethod:   method,
	})
	if err != nil {
		w.notify.Error(domain.Message(err, "no se pudo crear el pedido"))
		return nil, fmt.Errorf("crear pedido: %w", err)
	}

	if method == entity.PaymentCOD {
		if err := w.cart.Clear(ctx); err != nil {
			w.log.Warn().Err(err).Str("order_id", order.ID).Msg("pedido creado pero el carrito no se pudo vaciar")
		}
		w.notify.Success("pedido realizado con éxito")
		return &Placement{Order: order, Completed: true}, nil
	}

	intent, err := w.payments.CreateProviderOrder(ctx, order.ID)
	if err != nil {
		w.notify.Error(domain.Message(err, "no se pudo iniciar la pasarela de pago"))
		return nil, fmt.Errorf("iniciar pago en línea: %w", err)
	}
	return &Placement{Order: order, Intent: intent, Completed: false}, nil
}

// CompletePayment entrega la prueba firmada del proveedor para verificación.
// Solo con verificación exitosa se vacía el carrito; si falla, el pedido
// queda impago y no hay reintento automático.
func (w *Workflow) CompletePayment(ctx context.Context, proof dto.PaymentProof) error {
	if err := w.payments.Verify(ctx, proof); err != nil {
		w.notify.Error("verificación de pago fallida, contacte a soporte")
		return fmt.Errorf("%w: %w", domain.ErrPaymentUnverified, err)
	}
	if err := w.cart.Clear(ctx); err != nil {
		w.log.Warn().Err(err).Msg("pago verificado pero el carrito no se pudo vaciar")
	}
	w.notify.Success("pago exitoso")
	return nil
}

// ApplyCoupon delega en el store de carrito: checkout y carrito operan sobre
// el mismo snapshot y nunca divergen.
func (w *Workflow) ApplyCoupon(ctx context.Context, code string) error {
	return w.cart.ApplyCoupon(ctx, code)
}

// RemoveCoupon delega en el store de carrito.
func (w *Workflow) RemoveCoupon(ctx context.Context) error {
	return w.cart.RemoveCoupon(ctx)
}
