package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaha-expressitbd/shoppingbd-sub000/internal/catalog"
	"github.com/shaha-expressitbd/shoppingbd-sub000/internal/domain"
	redisrepo "github.com/shaha-expressitbd/shoppingbd-sub000/internal/repository/redis"
	"github.com/shaha-expressitbd/shoppingbd-sub000/internal/service"
	apperrors "github.com/shaha-expressitbd/shoppingbd-sub000/pkg/errors"
	"github.com/shaha-expressitbd/shoppingbd-sub000/pkg/health"
	"github.com/shaha-expressitbd/shoppingbd-sub000/pkg/logger"
)

// stubUpstream implements catalog.Upstream from a fixed product map.
type stubUpstream struct {
	products map[string]*domain.Product
	settings domain.BusinessSettings
}

func (s *stubUpstream) GetProducts(context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubUpstream) GetProduct(_ context.Context, idOrSlug string) (*domain.Product, error) {
	p, ok := s.products[idOrSlug]
	if !ok {
		return nil, apperrors.NotFound("product", idOrSlug)
	}
	return p, nil
}

func (s *stubUpstream) GetBusinessSettings(context.Context) (*domain.BusinessSettings, error) {
	copied := s.settings
	return &copied, nil
}

// stubOrderAPI implements service.OrderSubmitter.
type stubOrderAPI struct {
	response *domain.OrderResponse
	err      error
	calls    int
}

func (s *stubOrderAPI) Submit(context.Context, *domain.OrderRequest, string) (*domain.OrderResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func fixtureUpstream() *stubUpstream {
	start := time.Now().UTC().Add(-time.Hour)
	end := time.Now().UTC().Add(time.Hour)
	return &stubUpstream{
		products: map[string]*domain.Product{
			"plain": {
				ID: "plain", Name: "Plain Shirt", Stock: 5,
				PriceFields: domain.PriceFields{SellingPrice: 1000},
			},
			"discounted": {
				ID: "discounted", Name: "Discounted Panjabi", HasVariants: true,
				Variants: []domain.Variant{
					{ID: "v1", Stock: 2, PriceFields: domain.PriceFields{
						SellingPrice:      800,
						OfferPrice:        600,
						DiscountStartDate: start,
						DiscountEndDate:   end,
					}},
				},
			},
			"preorderable": {
				ID: "preorderable", Name: "Preorder Special", Stock: 10, IsPreorder: true,
				PriceFields: domain.PriceFields{SellingPrice: 1500},
			},
		},
		settings: domain.BusinessSettings{
			InsideDhakaFee:  60,
			SubDhakaFee:     100,
			OutsideDhakaFee: 120,
			BkashDiscount:   100,
		},
	}
}

func setupRouter(t *testing.T, orders *stubOrderAPI) http.Handler {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	l := logger.NewWithWriter("test", "error", io.Discard)
	upstream := fixtureUpstream()

	cartRepo := redisrepo.NewCartRepository(client, time.Hour)
	wishRepo := redisrepo.NewWishlistRepository(client, time.Hour)
	settingsCache := redisrepo.NewSettingsCache(client, time.Minute)

	catalogService := catalog.NewService(upstream, settingsCache, l)
	cartService := service.NewCartService(cartRepo, upstream, nil, l)
	wishlistService := service.NewWishlistService(wishRepo, upstream, nil, l)
	checkoutService := service.NewCheckoutService(cartService, catalogService, orders, nil, l, "https://shop.example.com")

	return NewRouter(RouterConfig{
		CartService:     cartService,
		WishlistService: wishlistService,
		CheckoutService: checkoutService,
		CatalogService:  catalogService,
		HealthHandler:   health.NewHandler(),
		Logger:          l,
		AllowedOrigins:  []string{"*"},
		Environment:     "development",
		CheckoutRPS:     100,
		CheckoutBurst:   100,
	})
}

func doJSON(t *testing.T, router http.Handler, method, path, session string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.Header.Set("X-Session-ID", session)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_CartRequiresSession(t *testing.T) {
	router := setupRouter(t, &stubOrderAPI{})

	rec := doJSON(t, router, http.MethodGet, "/api/v1/cart", "", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "MISSING_SESSION")
}

func TestRouter_AddToCartFlow(t *testing.T) {
	router := setupRouter(t, &stubOrderAPI{})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", "sess-1", map[string]any{
		"product_id": "discounted",
		"variant_id": "v1",
		"quantity":   5,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data domain.Cart `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Items, 1)
	// Offer price frozen, quantity clamped to the variant's stock of 2.
	assert.Equal(t, 600.0, resp.Data.Items[0].Price)
	assert.Equal(t, 2, resp.Data.Items[0].Quantity)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/cart", "sess-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Items, 1)
}

func TestRouter_PreorderConflict(t *testing.T) {
	router := setupRouter(t, &stubOrderAPI{})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", "sess-1", map[string]any{
		"product_id": "plain", "quantity": 1,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/preorder/items", "sess-1", map[string]any{
		"product_id": "preorderable", "quantity": 1,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "CART_CONFLICT")
}

func TestRouter_UpdateAndRemoveLine(t *testing.T) {
	router := setupRouter(t, &stubOrderAPI{})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", "sess-1", map[string]any{
		"product_id": "plain", "quantity": 2,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// "-" marks a line without a variant.
	rec = doJSON(t, router, http.MethodPut, "/api/v1/cart/items/plain/-", "sess-1", map[string]any{
		"quantity": 4,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data domain.Cart `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Data.Items[0].Quantity)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/cart/items/plain/-", "sess-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data.Items)
}

func TestRouter_WishlistFlow(t *testing.T) {
	router := setupRouter(t, &stubOrderAPI{})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/wishlist/items", "sess-1", map[string]any{
		"product_id": "plain",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/wishlist/items/plain", "sess-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/wishlist", "sess-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data domain.Wishlist `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data.Items)
}

func TestRouter_ProductsAndDeals(t *testing.T) {
	router := setupRouter(t, &stubOrderAPI{})

	rec := doJSON(t, router, http.MethodGet, "/api/v1/products?search=panjabi", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Discounted Panjabi")

	rec = doJSON(t, router, http.MethodGet, "/api/v1/products/plain", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/deals", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Discounted Panjabi")
	assert.NotContains(t, rec.Body.String(), "Plain Shirt")
}

func TestRouter_CheckoutValidationError(t *testing.T) {
	orders := &stubOrderAPI{}
	router := setupRouter(t, orders)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", "sess-1", map[string]any{
		"product_id": "plain", "quantity": 1,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/checkout", "sess-1", map[string]any{
		"customer_name":    "",
		"customer_phone":   "01712345678",
		"customer_address": "House 7, Road 3, Dhanmondi, Dhaka",
		"delivery_area":    "inside_dhaka",
		"payment_method":   "cashOnDelivery",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
	assert.Contains(t, rec.Body.String(), "CustomerName")
	assert.Equal(t, 0, orders.calls)
}

func TestRouter_CheckoutSuccessCOD(t *testing.T) {
	orders := &stubOrderAPI{response: &domain.OrderResponse{
		Success: true,
		Data:    domain.OrderData{OrderID: "ORD-9", ID: "m9"},
	}}
	router := setupRouter(t, orders)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", "sess-1", map[string]any{
		"product_id": "plain", "quantity": 1,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/checkout", "sess-1", map[string]any{
		"customer_name":    "Rahim Uddin",
		"customer_phone":   "01712345678",
		"customer_address": "House 7, Road 3, Dhanmondi, Dhaka",
		"delivery_area":    "inside_dhaka",
		"payment_method":   "cashOnDelivery",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data service.CheckoutResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ORD-9", resp.Data.OrderID)
	assert.Contains(t, resp.Data.RedirectURL, "https://shop.example.com/order-status?")
	assert.Equal(t, 1060.0, resp.Data.Total)

	// Cart cleared after the COD order.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/cart", "sess-1", nil)
	var cartResp struct {
		Data domain.Cart `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cartResp))
	assert.Empty(t, cartResp.Data.Items)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	router := setupRouter(t, &stubOrderAPI{})

	rec := doJSON(t, router, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
