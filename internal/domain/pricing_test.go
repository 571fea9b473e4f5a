package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func activeWindow() (time.Time, time.Time) {
	return now.Add(-24 * time.Hour), now.Add(24 * time.Hour)
}

func TestResolvePrice_NoOffer(t *testing.T) {
	q := ResolvePrice(PriceFields{SellingPrice: 1000}, now)

	assert.Equal(t, 1000.0, q.SellingPrice)
	assert.Equal(t, 1000.0, q.OfferPrice)
	assert.False(t, q.IsWithinOffer)
	assert.Equal(t, 0, q.DiscountPercent)
	assert.Equal(t, 1000.0, q.EffectivePrice)
}

func TestResolvePrice_ActiveOffer(t *testing.T) {
	start, end := activeWindow()
	q := ResolvePrice(PriceFields{
		SellingPrice:      800,
		OfferPrice:        600,
		DiscountStartDate: start,
		DiscountEndDate:   end,
	}, now)

	assert.True(t, q.IsWithinOffer)
	assert.Equal(t, 600.0, q.EffectivePrice)
	assert.Equal(t, 25, q.DiscountPercent)
}

func TestResolvePrice_WindowBoundaries(t *testing.T) {
	start, end := activeWindow()
	base := PriceFields{
		SellingPrice:      800,
		OfferPrice:        600,
		DiscountStartDate: start,
		DiscountEndDate:   end,
	}

	tests := []struct {
		name   string
		at     time.Time
		within bool
	}{
		{"before start", start.Add(-time.Second), false},
		{"at start", start, true},
		{"inside", now, true},
		{"at end", end, true},
		{"after end", end.Add(time.Second), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := ResolvePrice(base, tt.at)
			assert.Equal(t, tt.within, q.IsWithinOffer)
		})
	}
}

func TestResolvePrice_AbsentDatesNeverActive(t *testing.T) {
	// An offer price below selling with no window set stays inactive.
	q := ResolvePrice(PriceFields{SellingPrice: 800, OfferPrice: 600}, now)

	assert.False(t, q.IsWithinOffer)
	assert.Equal(t, 800.0, q.EffectivePrice)
	assert.Equal(t, 0, q.DiscountPercent)
}

func TestResolvePrice_OfferNotBelowSelling(t *testing.T) {
	start, end := activeWindow()
	q := ResolvePrice(PriceFields{
		SellingPrice:      800,
		OfferPrice:        800,
		DiscountStartDate: start,
		DiscountEndDate:   end,
	}, now)

	assert.False(t, q.IsWithinOffer)
	assert.Equal(t, 800.0, q.EffectivePrice)
}

func TestResolvePrice_DiscountPercentRounds(t *testing.T) {
	start, end := activeWindow()
	q := ResolvePrice(PriceFields{
		SellingPrice:      300,
		OfferPrice:        200,
		DiscountStartDate: start,
		DiscountEndDate:   end,
	}, now)

	// (300-200)/300*100 = 33.33, rounds to 33.
	assert.Equal(t, 33, q.DiscountPercent)
}

func TestResolveProductPrice_VariantPrecedence(t *testing.T) {
	start, end := activeWindow()
	p := &Product{
		HasVariants: true,
		PriceFields: PriceFields{SellingPrice: 9999},
		Variants: []Variant{
			{ID: "v1", Stock: 0, PriceFields: PriceFields{SellingPrice: 500}},
			{ID: "v2", Stock: 3, PriceFields: PriceFields{
				SellingPrice:      800,
				OfferPrice:        600,
				DiscountStartDate: start,
				DiscountEndDate:   end,
			}},
		},
	}

	// Selected variant wins.
	q := ResolveProductPrice(p, "v2", now)
	assert.Equal(t, 600.0, q.EffectivePrice)

	// No selection: the first in-stock variant, never the parent's fields.
	q = ResolveProductPrice(p, "", now)
	assert.Equal(t, 600.0, q.EffectivePrice)
	assert.NotEqual(t, 9999.0, q.SellingPrice)
}

func TestSaleVariant_Fallbacks(t *testing.T) {
	p := &Product{
		HasVariants: true,
		Variants: []Variant{
			{ID: "v1", Stock: 0},
			{ID: "v2", Stock: 0},
		},
	}

	// All out of stock: first variant.
	v := SaleVariant(p, "")
	assert.Equal(t, "v1", v.ID)

	// Unknown selection falls back too.
	v = SaleVariant(p, "nope")
	assert.Equal(t, "v1", v.ID)

	// No variants at all.
	assert.Nil(t, SaleVariant(&Product{}, ""))
}
