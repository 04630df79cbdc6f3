package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType forma de aplicar el descuento de un cupón.
type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED"
)

// Coupon cupón de descuento publicado por la tienda.
type Coupon struct {
	Code           string          `json:"code"`
	Description    string          `json:"description,omitempty"`
	DiscountType   DiscountType    `json:"discountType"`
	Value          decimal.Decimal `json:"value"`
	MinOrderAmount decimal.Decimal `json:"minOrderAmount"`
	ExpiresAt      time.Time       `json:"expiresAt"`
}

// Expired responde si el cupón ya venció en el instante dado.
func (c Coupon) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// MeetsMinimum responde si el subtotal alcanza el monto mínimo del cupón.
func (c Coupon) MeetsMinimum(subtotal decimal.Decimal) bool {
	return subtotal.GreaterThanOrEqual(c.MinOrderAmount)
}

// DiscountFor calcula el descuento sobre un subtotal. Nunca excede el subtotal.
func (c Coupon) DiscountFor(subtotal decimal.Decimal) decimal.Decimal {
	var d decimal.Decimal
	switch c.DiscountType {
	case DiscountPercentage:
		d = subtotal.Mul(c.Value).Div(decimal.NewFromInt(100)).Round(2)
	default:
		d = c.Value
	}
	if d.GreaterThan(subtotal) {
		return subtotal
	}
	return d
}
