package entity

import "github.com/shopspring/decimal"

// CartLine línea del carrito. Price es el precio unitario congelado al momento
// de agregar; el servidor lo revalida en cada snapshot.
type CartLine struct {
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductImage string          `json:"productImage,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"` // nunca < 1 por mutación del cliente
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// CartSnapshot representación completa y autoritativa del carrito tal como la
// confirmó el servidor por última vez. El cliente la edita especulativamente
// pero siempre la reemplaza entera con la respuesta del servidor, nunca
// mezcla deltas parciales.
type CartSnapshot struct {
	ID            string          `json:"id,omitempty"`
	UserID        string          `json:"userId,omitempty"`
	Items         []CartLine      `json:"items"`
	TotalItems    int             `json:"totalItems"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	Discount      decimal.Decimal `json:"discount"`
	AppliedCoupon string          `json:"appliedCoupon,omitempty"`
}

// Clone copia profunda del snapshot. Las mutaciones optimistas trabajan sobre
// la copia para que el snapshot capturado previo quede intacto y la
// restauración tras un fallo sea exacta.
func (c *CartSnapshot) Clone() *CartSnapshot {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Items = make([]CartLine, len(c.Items))
	copy(cp.Items, c.Items)
	return &cp
}

// LineIndex posición de la línea del producto, -1 si no está.
func (c *CartSnapshot) LineIndex(productID string) int {
	if c == nil {
		return -1
	}
	for i, it := range c.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

// CountItems suma de cantidades de todas las líneas.
func (c *CartSnapshot) CountItems() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// IsEmpty responde si no hay líneas (snapshot nil incluido).
func (c *CartSnapshot) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}
