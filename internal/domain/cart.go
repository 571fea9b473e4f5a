package domain

import "time"

// CartKind distinguishes the regular cart from the single-slot preorder cart.
type CartKind string

const (
	CartKindRegular  CartKind = "regular"
	CartKindPreorder CartKind = "preorder"
)

// Cart holds the line items of one cart kind for one browser session.
type Cart struct {
	SessionID      string     `json:"session_id"`
	Kind           CartKind   `json:"kind"`
	Items          []LineItem `json:"items"`
	DiscountAmount float64    `json:"discount_amount"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// LineItem is one (product, variant-or-none) pairing in a cart. Price is the
// effective unit price frozen at add time; SellingPrice and OfferPrice are
// kept alongside for strikethrough display.
type LineItem struct {
	ProductID      string   `json:"product_id"`
	VariantID      string   `json:"variant_id,omitempty"`
	Name           string   `json:"name"`
	Price          float64  `json:"price"`
	SellingPrice   float64  `json:"selling_price"`
	OfferPrice     float64  `json:"offer_price"`
	Quantity       int      `json:"quantity"`
	MaxStock       int      `json:"max_stock"`
	Image          string   `json:"image,omitempty"`
	VariantValues  []string `json:"variant_values,omitempty"`
}

// FindLine returns the index of the line matching (productID, variantID),
// or -1 when absent. Line identity is the exact pair, an empty variant ID
// included.
func (c *Cart) FindLine(productID, variantID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID && c.Items[i].VariantID == variantID {
			return i
		}
	}
	return -1
}

// AddItem merges the incoming line into the cart. A line with the same
// identity has its quantity increased by the incoming quantity; otherwise the
// line is appended. Quantities clamp silently to MaxStock, never erroring.
func (c *Cart) AddItem(item LineItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	if i := c.FindLine(item.ProductID, item.VariantID); i >= 0 {
		c.Items[i].Quantity = clampQuantity(c.Items[i].Quantity+item.Quantity, c.Items[i].MaxStock)
		return
	}
	item.Quantity = clampQuantity(item.Quantity, item.MaxStock)
	c.Items = append(c.Items, item)
}

// ReplaceWith swaps the cart content for the single given line. The preorder
// cart holds one conceptual slot, so every add replaces wholesale.
func (c *Cart) ReplaceWith(item LineItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	item.Quantity = clampQuantity(item.Quantity, item.MaxStock)
	c.Items = []LineItem{item}
}

// RemoveItem drops the matching line. No-op when absent.
func (c *Cart) RemoveItem(productID, variantID string) {
	if i := c.FindLine(productID, variantID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

// UpdateQuantity sets the quantity of the matching line, clamped to its
// MaxStock. Non-positive quantities remove the line. No-op when absent.
func (c *Cart) UpdateQuantity(productID, variantID string, quantity int) {
	i := c.FindLine(productID, variantID)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return
	}
	c.Items[i].Quantity = clampQuantity(quantity, c.Items[i].MaxStock)
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.Items = nil
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount returns the sum of line quantities.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Subtotal returns the sum of price x quantity over all lines.
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// GrandTotal returns the subtotal less the aggregate discount amount.
func (c *Cart) GrandTotal() float64 {
	return c.Subtotal() - c.DiscountAmount
}

func clampQuantity(quantity, maxStock int) int {
	if maxStock > 0 && quantity > maxStock {
		return maxStock
	}
	return quantity
}
