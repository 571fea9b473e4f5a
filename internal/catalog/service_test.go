package catalog

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shaha-expressitbd/shoppingbd-sub000/internal/domain"
	apperrors "github.com/shaha-expressitbd/shoppingbd-sub000/pkg/errors"
	"github.com/shaha-expressitbd/shoppingbd-sub000/pkg/logger"
	"github.com/shaha-expressitbd/shoppingbd-sub000/pkg/pagination"
)

type mockUpstream struct {
	mock.Mock
}

func (m *mockUpstream) GetProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockUpstream) GetProduct(ctx context.Context, idOrSlug string) (*domain.Product, error) {
	args := m.Called(ctx, idOrSlug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockUpstream) GetBusinessSettings(ctx context.Context) (*domain.BusinessSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BusinessSettings), args.Error(1)
}

type stubSettingsCache struct {
	settings *domain.BusinessSettings
	sets     int
	setErr   error
}

func (c *stubSettingsCache) Get(ctx context.Context) (*domain.BusinessSettings, error) {
	if c.settings == nil {
		return nil, apperrors.NotFound("business settings", "cache")
	}
	return c.settings, nil
}

func (c *stubSettingsCache) Set(ctx context.Context, settings *domain.BusinessSettings) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.settings = settings
	c.sets++
	return nil
}

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func testService(upstream Upstream, cache *stubSettingsCache) *Service {
	if cache == nil {
		cache = &stubSettingsCache{}
	}
	s := NewService(upstream, cache, logger.NewWithWriter("test", "info", io.Discard))
	s.nowFunc = func() time.Time { return testNow }
	return s
}

func fixtureProducts() []domain.Product {
	start := testNow.Add(-time.Hour)
	end := testNow.Add(time.Hour)
	return []domain.Product{
		{
			ID: "p1", Name: "Panjabi", CategoryIDs: []string{"men"},
			CreatedAt:   testNow.Add(-72 * time.Hour),
			PriceFields: domain.PriceFields{SellingPrice: 1000},
		},
		{
			ID: "p2", Name: "Saree", CategoryIDs: []string{"women"},
			CreatedAt: testNow.Add(-24 * time.Hour),
			PriceFields: domain.PriceFields{
				SellingPrice:      2000,
				OfferPrice:        1000,
				DiscountStartDate: start,
				DiscountEndDate:   end,
			},
		},
		{
			ID: "p3", Name: "Kids Panjabi", CategoryIDs: []string{"kids"},
			IsPreorder: true,
			CreatedAt:  testNow.Add(-48 * time.Hour),
			PriceFields: domain.PriceFields{
				SellingPrice:      500,
				OfferPrice:        450,
				DiscountStartDate: start,
				DiscountEndDate:   end,
			},
		},
	}
}

func TestService_ListProducts_CategoryFilter(t *testing.T) {
	up := new(mockUpstream)
	up.On("GetProducts", mock.Anything).Return(fixtureProducts(), nil)

	result, err := testService(up, nil).ListProducts(context.Background(), ListParams{
		Category: "women",
		Page:     pagination.DefaultParams(),
	})

	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "p2", result.Data[0].ID)
}

func TestService_ListProducts_SearchIsCaseInsensitive(t *testing.T) {
	up := new(mockUpstream)
	up.On("GetProducts", mock.Anything).Return(fixtureProducts(), nil)

	result, err := testService(up, nil).ListProducts(context.Background(), ListParams{
		Search: "panjabi",
		Page:   pagination.DefaultParams(),
	})

	require.NoError(t, err)
	assert.Len(t, result.Data, 2)
}

func TestService_ListProducts_PriceBoundsUseEffectivePrice(t *testing.T) {
	up := new(mockUpstream)
	up.On("GetProducts", mock.Anything).Return(fixtureProducts(), nil)

	// p2's effective price is the active offer 1000, not selling 2000.
	result, err := testService(up, nil).ListProducts(context.Background(), ListParams{
		MaxPrice: 1000,
		Page:     pagination.DefaultParams(),
	})

	require.NoError(t, err)
	assert.Len(t, result.Data, 3)
}

func TestService_ListProducts_PreorderFilter(t *testing.T) {
	up := new(mockUpstream)
	up.On("GetProducts", mock.Anything).Return(fixtureProducts(), nil)

	preorder := true
	result, err := testService(up, nil).ListProducts(context.Background(), ListParams{
		Preorder: &preorder,
		Page:     pagination.DefaultParams(),
	})

	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "p3", result.Data[0].ID)
}

func TestService_ListProducts_SortOrders(t *testing.T) {
	up := new(mockUpstream)
	up.On("GetProducts", mock.Anything).Return(fixtureProducts(), nil)
	svc := testService(up, nil)
	ctx := context.Background()

	ids := func(result *pagination.Result[ProductSummary]) []string {
		out := make([]string, 0, len(result.Data))
		for _, item := range result.Data {
			out = append(out, item.ID)
		}
		return out
	}

	asc, err := svc.ListProducts(ctx, ListParams{Sort: SortPriceAsc, Page: pagination.DefaultParams()})
	require.NoError(t, err)
	assert.Equal(t, []string{"p3", "p1", "p2"}, ids(asc))

	desc, err := svc.ListProducts(ctx, ListParams{Sort: SortPriceDesc, Page: pagination.DefaultParams()})
	require.NoError(t, err)
	assert.Equal(t, []string{"p2", "p1", "p3"}, ids(desc))

	newest, err := svc.ListProducts(ctx, ListParams{Sort: SortNewest, Page: pagination.DefaultParams()})
	require.NoError(t, err)
	assert.Equal(t, []string{"p2", "p3", "p1"}, ids(newest))

	discount, err := svc.ListProducts(ctx, ListParams{Sort: SortDiscount, Page: pagination.DefaultParams()})
	require.NoError(t, err)
	// p2 is 50% off, p3 is 10% off, p1 has no discount.
	assert.Equal(t, []string{"p2", "p3", "p1"}, ids(discount))
}

func TestService_ListProducts_Pagination(t *testing.T) {
	up := new(mockUpstream)
	up.On("GetProducts", mock.Anything).Return(fixtureProducts(), nil)

	result, err := testService(up, nil).ListProducts(context.Background(), ListParams{
		Page: pagination.Params{Page: 2, PerPage: 2, Offset: 2},
	})

	require.NoError(t, err)
	assert.Len(t, result.Data, 1)
	assert.Equal(t, 3, result.TotalCount)
}

func TestService_FlashDeals(t *testing.T) {
	up := new(mockUpstream)
	up.On("GetProducts", mock.Anything).Return(fixtureProducts(), nil)

	result, err := testService(up, nil).FlashDeals(context.Background(), pagination.DefaultParams())

	require.NoError(t, err)
	require.Len(t, result.Data, 2)
	// Sorted by discount percent descending.
	assert.Equal(t, "p2", result.Data[0].ID)
	assert.Equal(t, 50, result.Data[0].Quote.DiscountPercent)
	assert.Equal(t, "p3", result.Data[1].ID)
}

func TestService_GetProduct_VariantQuotes(t *testing.T) {
	start := testNow.Add(-time.Hour)
	end := testNow.Add(time.Hour)
	p := &domain.Product{
		ID: "p1", HasVariants: true,
		Variants: []domain.Variant{
			{ID: "v1", Stock: 3, PriceFields: domain.PriceFields{
				SellingPrice:      800,
				OfferPrice:        600,
				DiscountStartDate: start,
				DiscountEndDate:   end,
			}},
			{ID: "v2", Stock: 1, PriceFields: domain.PriceFields{SellingPrice: 900}},
		},
	}
	up := new(mockUpstream)
	up.On("GetProduct", mock.Anything, "p1").Return(p, nil)

	detail, err := testService(up, nil).GetProduct(context.Background(), "p1")

	require.NoError(t, err)
	require.Len(t, detail.Variants, 2)
	assert.Equal(t, 600.0, detail.Variants[0].Quote.EffectivePrice)
	assert.Equal(t, 900.0, detail.Variants[1].Quote.EffectivePrice)
	// Product quote comes from the fallback variant.
	assert.Equal(t, 600.0, detail.Quote.EffectivePrice)
}

func TestService_GetSettings_CachesUpstream(t *testing.T) {
	up := new(mockUpstream)
	up.On("GetBusinessSettings", mock.Anything).
		Return(&domain.BusinessSettings{InsideDhakaFee: 60}, nil).Once()

	cache := &stubSettingsCache{}
	svc := testService(up, cache)
	ctx := context.Background()

	first, err := svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 60.0, first.InsideDhakaFee)
	assert.Equal(t, 1, cache.sets)

	// Second call is served from the cache; the mock would panic on a
	// second upstream call.
	second, err := svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 60.0, second.InsideDhakaFee)
	up.AssertExpectations(t)
}

func TestService_GetSettings_CacheWriteFailureIsWarned(t *testing.T) {
	up := new(mockUpstream)
	up.On("GetBusinessSettings", mock.Anything).
		Return(&domain.BusinessSettings{InsideDhakaFee: 60}, nil)

	cache := &stubSettingsCache{setErr: errors.New("redis down")}
	var buf bytes.Buffer
	svc := NewService(up, cache, logger.NewWithWriter("test", "info", &buf))

	settings, err := svc.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 60.0, settings.InsideDhakaFee)
	assert.Contains(t, buf.String(), "cache business settings")
	assert.Contains(t, buf.String(), "redis down")
}
