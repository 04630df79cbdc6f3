package entity

import "github.com/shopspring/decimal"

// ProductSummary resumen de producto tal como viaja en listados y en la wishlist.
type ProductSummary struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Image string          `json:"image,omitempty"`
	Price decimal.Decimal `json:"price"`
}
