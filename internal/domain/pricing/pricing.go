// Package pricing replica las reglas monetarias del backend para poder
// previsualizar totales mientras una respuesta está en vuelo. El servidor es
// la única fuente de verdad: nada de este paquete decide lo que se cobra.
package pricing

import "github.com/shopspring/decimal"

// Reglas vigentes del backend. Si cambian del lado del servidor, la
// previsualización diverge hasta actualizar estas constantes; por eso ningún
// flujo usa estos valores para cobrar.
var (
	TaxRate               = decimal.New(18, -2)      // IVA 18%
	FreeShippingThreshold = decimal.NewFromInt(500)  // envío gratis desde este monto gravable
	StandardShipping      = decimal.NewFromInt(50)
)

// Summary desglose de totales de una compra.
type Summary struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Taxable  decimal.Decimal `json:"taxable"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// Quote calcula el desglose: gravable = subtotal - descuento (piso en cero),
// envío 0 si gravable >= umbral, impuesto = gravable * tasa redondeado a 2
// decimales (half-up), total = gravable + envío + impuesto.
func Quote(subtotal, discount decimal.Decimal) Summary {
	taxable := subtotal.Sub(discount)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	shipping := StandardShipping
	if taxable.GreaterThanOrEqual(FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	tax := taxable.Mul(TaxRate).Round(2)
	return Summary{
		Subtotal: subtotal,
		Discount: discount,
		Taxable:  taxable,
		Tax:      tax,
		Shipping: shipping,
		Total:    taxable.Add(shipping).Add(tax),
	}
}
