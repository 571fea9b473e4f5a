package domain

import (
	"math"
	"time"
)

// Quote is the resolved pricing of a product or variant at a point in time.
type Quote struct {
	SellingPrice    float64 `json:"selling_price"`
	OfferPrice      float64 `json:"offer_price"`
	IsWithinOffer   bool    `json:"is_within_offer"`
	DiscountPercent int     `json:"discount_percent"`
	EffectivePrice  float64 `json:"effective_price"`
}

// ResolvePrice computes the effective unit price for the given price fields.
// The offer price applies only while it undercuts the selling price and now
// falls inside [start, end]. Dates left at their zero value keep the window
// inactive. Malformed upstream values have already coerced to zero during
// decoding, so there are no error cases here.
func ResolvePrice(base PriceFields, now time.Time) Quote {
	selling := base.SellingPrice
	if selling < 0 {
		selling = 0
	}

	offer := base.OfferPrice
	if offer == 0 {
		offer = selling
	}

	within := offer < selling &&
		!base.DiscountStartDate.IsZero() &&
		!base.DiscountEndDate.IsZero() &&
		!now.Before(base.DiscountStartDate) &&
		!now.After(base.DiscountEndDate)

	q := Quote{
		SellingPrice:   selling,
		OfferPrice:     offer,
		IsWithinOffer:  within,
		EffectivePrice: selling,
	}
	if within {
		q.EffectivePrice = offer
		q.DiscountPercent = int(math.Round((selling - offer) / selling * 100))
	}
	return q
}

// ResolveProductPrice resolves the quote for a product, reading from the
// selected (or fallback) variant when the product has variants. Products with
// variants are never priced from their own base fields.
func ResolveProductPrice(p *Product, selectedVariantID string, now time.Time) Quote {
	if v := SaleVariant(p, selectedVariantID); v != nil {
		return ResolvePrice(v.PriceFields, now)
	}
	return ResolvePrice(p.PriceFields, now)
}
