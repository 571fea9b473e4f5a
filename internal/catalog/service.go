package catalog

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shaha-expressitbd/shoppingbd-sub000/internal/domain"
	"github.com/shaha-expressitbd/shoppingbd-sub000/internal/repository"
	"github.com/shaha-expressitbd/shoppingbd-sub000/pkg/pagination"
)

// Upstream is the slice of the commerce API the catalog service consumes.
type Upstream interface {
	GetProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, idOrSlug string) (*domain.Product, error)
	GetBusinessSettings(ctx context.Context) (*domain.BusinessSettings, error)
}

// Sort orders accepted by ListProducts.
const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNewest    = "newest"
	SortDiscount  = "discount"
)

// ListParams are the predicate filters applied to the fetched product list.
type ListParams struct {
	Category string
	Search   string
	MinPrice float64
	MaxPrice float64
	Preorder *bool
	Sort     string
	Page     pagination.Params
}

// ProductSummary pairs a product with its resolved quote for listings.
type ProductSummary struct {
	domain.Product
	Quote domain.Quote `json:"quote"`
}

// VariantQuote pairs a variant with its resolved quote for the detail view.
type VariantQuote struct {
	domain.Variant
	Quote domain.Quote `json:"quote"`
}

// ProductDetail is the single-product view with per-variant quotes.
type ProductDetail struct {
	domain.Product
	Quote    domain.Quote   `json:"quote"`
	Variants []VariantQuote `json:"variants,omitempty"`
}

// Service serves product listings, flash deals, and business settings. The
// filters are simple predicates over the fetched in-memory slice; the
// settings are cached in Redis between upstream fetches.
type Service struct {
	upstream Upstream
	cache    repository.SettingsCache
	logger   *slog.Logger
	nowFunc  func() time.Time
}

// NewService creates a catalog service.
func NewService(upstream Upstream, cache repository.SettingsCache, l *slog.Logger) *Service {
	return &Service{
		upstream: upstream,
		cache:    cache,
		logger:   l,
		nowFunc:  time.Now,
	}
}

// ListProducts fetches the catalog, applies predicate filters, sorts, and
// paginates. Price predicates and sorting act on the resolved effective price.
func (s *Service) ListProducts(ctx context.Context, params ListParams) (*pagination.Result[ProductSummary], error) {
	products, err := s.upstream.GetProducts(ctx)
	if err != nil {
		return nil, err
	}
	now := s.nowFunc()

	filtered := make([]ProductSummary, 0, len(products))
	for i := range products {
		p := products[i]
		if !matchesCategory(&p, params.Category) {
			continue
		}
		if !matchesSearch(&p, params.Search) {
			continue
		}
		if params.Preorder != nil && p.IsPreorder != *params.Preorder {
			continue
		}
		q := domain.ResolveProductPrice(&p, "", now)
		if params.MinPrice > 0 && q.EffectivePrice < params.MinPrice {
			continue
		}
		if params.MaxPrice > 0 && q.EffectivePrice > params.MaxPrice {
			continue
		}
		filtered = append(filtered, ProductSummary{Product: p, Quote: q})
	}

	sortSummaries(filtered, params.Sort)

	total := len(filtered)
	page := pagination.Window(filtered, params.Page)
	result := pagination.NewResult(page, total, params.Page)
	return &result, nil
}

// GetProduct returns the detail view for one product, quoting the product
// and each of its variants at the current time.
func (s *Service) GetProduct(ctx context.Context, idOrSlug string) (*ProductDetail, error) {
	p, err := s.upstream.GetProduct(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	now := s.nowFunc()

	detail := &ProductDetail{
		Product: *p,
		Quote:   domain.ResolveProductPrice(p, "", now),
	}
	for _, v := range p.Variants {
		detail.Variants = append(detail.Variants, VariantQuote{
			Variant: v,
			Quote:   domain.ResolvePrice(v.PriceFields, now),
		})
	}
	return detail, nil
}

// FlashDeals returns the products whose resolved quote is currently within
// its offer window, sorted by discount percent descending.
func (s *Service) FlashDeals(ctx context.Context, page pagination.Params) (*pagination.Result[ProductSummary], error) {
	products, err := s.upstream.GetProducts(ctx)
	if err != nil {
		return nil, err
	}
	now := s.nowFunc()

	deals := make([]ProductSummary, 0)
	for i := range products {
		p := products[i]
		q := domain.ResolveProductPrice(&p, "", now)
		if q.IsWithinOffer {
			deals = append(deals, ProductSummary{Product: p, Quote: q})
		}
	}

	sort.SliceStable(deals, func(i, j int) bool {
		return deals[i].Quote.DiscountPercent > deals[j].Quote.DiscountPercent
	})

	total := len(deals)
	window := pagination.Window(deals, page)
	result := pagination.NewResult(window, total, page)
	return &result, nil
}

// GetSettings returns the business settings, serving from the Redis cache
// when warm. Cache failures fall through to the upstream; a cache write
// failure is logged, never fatal.
func (s *Service) GetSettings(ctx context.Context) (*domain.BusinessSettings, error) {
	if cached, err := s.cache.Get(ctx); err == nil {
		return cached, nil
	}

	settings, err := s.upstream.GetBusinessSettings(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, settings); err != nil {
		s.logger.Warn("cache business settings",
			slog.String("error", err.Error()),
		)
	}
	return settings, nil
}

func matchesCategory(p *domain.Product, category string) bool {
	if category == "" {
		return true
	}
	for _, c := range p.CategoryIDs {
		if c == category {
			return true
		}
	}
	return false
}

func matchesSearch(p *domain.Product, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle)
}

func sortSummaries(items []ProductSummary, order string) {
	switch order {
	case SortPriceAsc:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Quote.EffectivePrice < items[j].Quote.EffectivePrice
		})
	case SortPriceDesc:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Quote.EffectivePrice > items[j].Quote.EffectivePrice
		})
	case SortNewest:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		})
	case SortDiscount:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Quote.DiscountPercent > items[j].Quote.DiscountPercent
		})
	}
}
