package domain

// Delivery area tiers. Each maps to a flat fee from business settings.
const (
	DeliveryAreaInsideDhaka  = "inside_dhaka"
	DeliveryAreaSubDhaka     = "sub_dhaka"
	DeliveryAreaOutsideDhaka = "outside_dhaka"
)

// ValidDeliveryAreas returns the accepted delivery area values.
func ValidDeliveryAreas() []string {
	return []string{DeliveryAreaInsideDhaka, DeliveryAreaSubDhaka, DeliveryAreaOutsideDhaka}
}

// IsValidDeliveryArea checks whether the given area is one of the fixed tiers.
func IsValidDeliveryArea(area string) bool {
	for _, a := range ValidDeliveryAreas() {
		if a == area {
			return true
		}
	}
	return false
}

// BusinessSettings holds the storefront-relevant slice of the upstream
// business configuration: the delivery fee table, the courier mode, the
// promotional wallet discount, and the advertised payment gateways.
type BusinessSettings struct {
	InsideDhakaFee  float64  `json:"inside_dhaka_fee"`
	SubDhakaFee     float64  `json:"sub_dhaka_fee"`
	OutsideDhakaFee float64  `json:"outside_dhaka_fee"`
	// OfficeDelivery true (or no courier configured) forces every
	// delivery fee to zero.
	OfficeDelivery bool     `json:"office_delivery"`
	BkashDiscount  float64  `json:"bkash_discount"`
	Gateways       []string `json:"gateways,omitempty"`
}

// DeliveryFee returns the configured fee for the given area. Unrecognized
// areas cost zero, and the office-delivery override zeroes every tier.
func (s *BusinessSettings) DeliveryFee(area string) float64 {
	if s.OfficeDelivery {
		return 0
	}
	switch area {
	case DeliveryAreaInsideDhaka:
		return s.InsideDhakaFee
	case DeliveryAreaSubDhaka:
		return s.SubDhakaFee
	case DeliveryAreaOutsideDhaka:
		return s.OutsideDhakaFee
	default:
		return 0
	}
}

// OrderProduct is one line of the outbound order payload.
type OrderProduct struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	VariantID string `json:"variantId,omitempty"`
}

// OrderRequest is the payload POSTed to the upstream order API. Field names
// follow the upstream contract, which is a given, not ours to reshape.
type OrderRequest struct {
	CustomerName    string         `json:"customer_name"`
	CustomerPhone   string         `json:"customer_phone"`
	CustomerAddress string         `json:"customer_address"`
	CustomerNote    string         `json:"customer_note,omitempty"`
	DeliveryArea    string         `json:"delivery_area"`
	Products        []OrderProduct `json:"products"`

	AdditionalDiscountType   string  `json:"additional_discount_type,omitempty"`
	AdditionalDiscountAmount float64 `json:"additional_discount_amount,omitempty"`

	Due           float64 `json:"due"`
	PaymentMethod string  `json:"payment_method"`

	// Attribution passthrough
	CustomerSource string         `json:"customer_source,omitempty"`
	TTCLID         string         `json:"ttclid,omitempty"`
	Tracking       map[string]any `json:"tracking,omitempty"`
}

// OrderResponse is the upstream order API's reply.
type OrderResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Data    OrderData `json:"data"`
}

// OrderData carries the created order's identifiers and, for gateway
// payments, the redirect URLs.
type OrderData struct {
	OrderID            string `json:"orderId"`
	ID                 string `json:"_id"`
	SelectedGatewayURL string `json:"selectedGatewayUrl,omitempty"`
	AllGatewayURL      string `json:"allGatewayUrl,omitempty"`
}
