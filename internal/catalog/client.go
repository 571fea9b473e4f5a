package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shaha-expressitbd/shoppingbd-sub000/internal/domain"
	"github.com/shaha-expressitbd/shoppingbd-sub000/pkg/httpclient"
)

// Client fetches products and business settings from the upstream commerce
// API. Reads go through a circuit breaker with bounded retries; the upstream
// schema is a given contract, and malformed price or date values coerce to
// zero instead of failing the fetch.
type Client struct {
	http       *httpclient.CircuitBreakerClient
	baseURL    string
	businessID string
	logger     *slog.Logger
}

// NewClient creates an upstream catalog client.
func NewClient(http *httpclient.CircuitBreakerClient, baseURL, businessID string, logger *slog.Logger) *Client {
	return &Client{
		http:       http,
		baseURL:    strings.TrimRight(baseURL, "/"),
		businessID: businessID,
		logger:     logger,
	}
}

// flexFloat tolerates upstream numbers encoded as JSON numbers, numeric
// strings, or null. Anything unparseable coerces to zero.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

// flexTime tolerates upstream dates as RFC 3339 strings, bare dates, unix
// millisecond numbers, or null. Unparseable values coerce to the zero time,
// which keeps discount windows inactive.
type flexTime time.Time

func (t *flexTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*t = flexTime(time.Time{})
		return nil
	}
	for _, layout := range []string{time.RFC3339, time.RFC3339Nano, "2006-01-02"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = flexTime(parsed)
			return nil
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*t = flexTime(time.UnixMilli(ms).UTC())
		return nil
	}
	*t = flexTime(time.Time{})
	return nil
}

// wireVariant is the upstream variant shape.
type wireVariant struct {
	ID                string    `json:"_id"`
	VariantsValues    []string  `json:"variants_values"`
	Image             string    `json:"image"`
	SellingPrice      flexFloat `json:"selling_price"`
	OfferPrice        flexFloat `json:"offer_price"`
	DiscountStartDate flexTime  `json:"discount_start_date"`
	DiscountEndDate   flexTime  `json:"discount_end_date"`
	TotalStock        flexFloat `json:"total_stock"`
	IsPreOrder        bool      `json:"isPreOrder"`
}

// wireProduct is the upstream product shape.
type wireProduct struct {
	ID                string        `json:"_id"`
	Name              string        `json:"name"`
	Slug              string        `json:"slug"`
	ShortDescription  string        `json:"short_description"`
	Categories        []string      `json:"categories"`
	Images            []string      `json:"images"`
	HasVariants       bool          `json:"hasVariants"`
	Variants          []wireVariant `json:"variantsId"`
	SellingPrice      flexFloat     `json:"selling_price"`
	OfferPrice        flexFloat     `json:"offer_price"`
	DiscountStartDate flexTime      `json:"discount_start_date"`
	DiscountEndDate   flexTime      `json:"discount_end_date"`
	TotalStock        flexFloat     `json:"total_stock"`
	IsPreOrder        bool          `json:"isPreOrder"`
	CreatedAt         flexTime      `json:"createdAt"`
}

func (w *wireProduct) toDomain() domain.Product {
	p := domain.Product{
		ID:          w.ID,
		Name:        w.Name,
		Slug:        w.Slug,
		Description: w.ShortDescription,
		CategoryIDs: w.Categories,
		Images:      w.Images,
		HasVariants: w.HasVariants,
		IsPreorder:  w.IsPreOrder,
		Stock:       int(w.TotalStock),
		CreatedAt:   time.Time(w.CreatedAt),
		PriceFields: domain.PriceFields{
			SellingPrice:      float64(w.SellingPrice),
			OfferPrice:        float64(w.OfferPrice),
			DiscountStartDate: time.Time(w.DiscountStartDate),
			DiscountEndDate:   time.Time(w.DiscountEndDate),
		},
	}
	for _, v := range w.Variants {
		p.Variants = append(p.Variants, domain.Variant{
			ID:             v.ID,
			VariantsValues: v.VariantsValues,
			Image:          v.Image,
			Stock:          int(v.TotalStock),
			IsPreorder:     v.IsPreOrder,
			PriceFields: domain.PriceFields{
				SellingPrice:      float64(v.SellingPrice),
				OfferPrice:        float64(v.OfferPrice),
				DiscountStartDate: time.Time(v.DiscountStartDate),
				DiscountEndDate:   time.Time(v.DiscountEndDate),
			},
		})
	}
	return p
}

// wireSettings is the upstream business settings shape.
type wireSettings struct {
	InsideDhaka   flexFloat `json:"insideDhaka"`
	SubDhaka      flexFloat `json:"subDhaka"`
	OutsideDhaka  flexFloat `json:"outsideDhaka"`
	Courier       string    `json:"courier"`
	BkashDiscount flexFloat `json:"bkashDiscount"`
	Gateways      []string  `json:"gateways"`
}

// GetProducts fetches the full product list for the business.
func (c *Client) GetProducts(ctx context.Context) ([]domain.Product, error) {
	endpoint := fmt.Sprintf("%s/api/v1/products?business=%s", c.baseURL, url.QueryEscape(c.businessID))

	resp, err := c.http.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "catalog")
	}

	var body struct {
		Data []wireProduct `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	products := make([]domain.Product, 0, len(body.Data))
	for i := range body.Data {
		products = append(products, body.Data[i].toDomain())
	}
	return products, nil
}

// GetProduct fetches a single product by ID or slug.
func (c *Client) GetProduct(ctx context.Context, idOrSlug string) (*domain.Product, error) {
	endpoint := fmt.Sprintf("%s/api/v1/products/%s", c.baseURL, url.PathEscape(idOrSlug))

	resp, err := c.http.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch product %s: %w", idOrSlug, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "catalog")
	}

	var body struct {
		Data wireProduct `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode product: %w", err)
	}

	product := body.Data.toDomain()
	return &product, nil
}

// GetBusinessSettings fetches the delivery fee table, courier mode, wallet
// discount, and gateway list for the business.
func (c *Client) GetBusinessSettings(ctx context.Context) (*domain.BusinessSettings, error) {
	endpoint := fmt.Sprintf("%s/api/v1/business/%s", c.baseURL, url.PathEscape(c.businessID))

	resp, err := c.http.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch business settings: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "catalog")
	}

	var body struct {
		Data wireSettings `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode business settings: %w", err)
	}

	return &domain.BusinessSettings{
		InsideDhakaFee:  float64(body.Data.InsideDhaka),
		SubDhakaFee:     float64(body.Data.SubDhaka),
		OutsideDhakaFee: float64(body.Data.OutsideDhaka),
		// An empty or "office-delivery" courier means the business ships
		// nothing itself and all delivery fees are zero.
		OfficeDelivery: body.Data.Courier == "" || body.Data.Courier == "office-delivery",
		BkashDiscount:  float64(body.Data.BkashDiscount),
		Gateways:       body.Data.Gateways,
	}, nil
}
