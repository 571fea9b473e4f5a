package domain

// WishlistItem is a saved product reference. No quantity; uniqueness by ID.
type WishlistItem struct {
	ProductID     string   `json:"product_id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	Image         string   `json:"image,omitempty"`
	VariantValues []string `json:"variant_values,omitempty"`
}

// Wishlist holds one session's saved products.
type Wishlist struct {
	SessionID string         `json:"session_id"`
	Items     []WishlistItem `json:"items"`
}

// Add appends the item unless one with the same product ID already exists.
// Duplicate adds are no-ops.
func (w *Wishlist) Add(item WishlistItem) {
	for _, existing := range w.Items {
		if existing.ProductID == item.ProductID {
			return
		}
	}
	w.Items = append(w.Items, item)
}

// Remove drops the item with the given product ID. No-op when absent.
func (w *Wishlist) Remove(productID string) {
	for i, item := range w.Items {
		if item.ProductID == productID {
			w.Items = append(w.Items[:i], w.Items[i+1:]...)
			return
		}
	}
}
