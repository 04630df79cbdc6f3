package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-core/internal/domain/entity"
)

// OrderRequest creación de un pedido. El cliente solo aporta dirección y
// método de pago; el servidor congela las líneas del carrito y calcula los
// totales autoritativos.
type OrderRequest struct {
	ShippingAddress entity.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   entity.PaymentMethod   `json:"paymentMethod"`
}

// PaymentIntent sesión de pago del proveedor externo, con el monto y la
// moneda que fija el servidor (nunca el cliente).
type PaymentIntent struct {
	PaymentID       string          `json:"id"`
	ProviderOrderID string          `json:"razorpayOrderId"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
}

// PaymentProof prueba firmada que devuelve el proveedor tras un pago exitoso.
// El servidor verifica la firma antes de marcar el pedido como pagado.
type PaymentProof struct {
	ProviderOrderID   string `json:"razorpay_order_id"`
	ProviderPaymentID string `json:"razorpay_payment_id"`
	Signature         string `json:"razorpay_signature"`
	PaymentID         string `json:"payment_id"`
}
