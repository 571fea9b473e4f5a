package domain

import "time"

// Product represents a catalog entity fetched from the upstream commerce API.
// It is an immutable snapshot; the storefront never mutates catalog data.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	CategoryIDs []string  `json:"category_ids,omitempty"`
	Images      []string  `json:"images,omitempty"`
	HasVariants bool      `json:"has_variants"`
	Variants    []Variant `json:"variants,omitempty"`
	IsPreorder  bool      `json:"is_preorder"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`

	PriceFields
}

// Variant is a purchasable sub-entity of a product with its own price,
// stock, discount window, and option labels (e.g. size).
type Variant struct {
	ID             string   `json:"id"`
	VariantsValues []string `json:"variants_values,omitempty"`
	Image          string   `json:"image,omitempty"`
	Stock          int      `json:"stock"`
	IsPreorder     bool     `json:"is_preorder"`

	PriceFields
}

// PriceFields holds the raw pricing inputs shared by products and variants.
// Absent discount dates are the zero time, which keeps the window inactive.
type PriceFields struct {
	SellingPrice      float64   `json:"selling_price"`
	OfferPrice        float64   `json:"offer_price,omitempty"`
	DiscountStartDate time.Time `json:"discount_start_date,omitempty"`
	DiscountEndDate   time.Time `json:"discount_end_date,omitempty"`
}

// SaleVariant returns the variant that pricing and stock must be read from.
// If selectedID matches a variant, that one wins. Otherwise the first variant
// with stock is used, falling back to the first variant. Returns nil when the
// product has no variants, in which case the product's own fields apply.
func SaleVariant(p *Product, selectedID string) *Variant {
	if !p.HasVariants || len(p.Variants) == 0 {
		return nil
	}
	if selectedID != "" {
		for i := range p.Variants {
			if p.Variants[i].ID == selectedID {
				return &p.Variants[i]
			}
		}
	}
	for i := range p.Variants {
		if p.Variants[i].Stock > 0 {
			return &p.Variants[i]
		}
	}
	return &p.Variants[0]
}
