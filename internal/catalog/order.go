package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/shaha-expressitbd/shoppingbd-sub000/internal/domain"
	apperrors "github.com/shaha-expressitbd/shoppingbd-sub000/pkg/errors"
	"github.com/shaha-expressitbd/shoppingbd-sub000/pkg/httpclient"
)

// OrderClient submits orders to the upstream order API. It rides the
// no-retry submit client: a replayed POST could place a duplicate order, so
// failures surface once and the caller decides what to do.
type OrderClient struct {
	http       *httpclient.Client
	baseURL    string
	businessID string
}

// NewOrderClient creates an order submission client.
func NewOrderClient(http *httpclient.Client, baseURL, businessID string) *OrderClient {
	return &OrderClient{
		http:       http,
		baseURL:    strings.TrimRight(baseURL, "/"),
		businessID: businessID,
	}
}

// Submit POSTs the order with the given idempotency key and returns the
// upstream reply. A reply with success=false becomes a SUBMISSION_FAILED
// error carrying the server's message when one is present.
func (c *OrderClient) Submit(ctx context.Context, order *domain.OrderRequest, idempotencyKey string) (*domain.OrderResponse, error) {
	body, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/v1/orders?business=%s", c.baseURL, c.businessID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Idempotency-Key", idempotencyKey)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, apperrors.SubmissionFailed("order service is unreachable")
	}
	defer func() { _ = resp.Body.Close() }()

	var orderResp domain.OrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&orderResp); err != nil {
		return nil, apperrors.SubmissionFailed("order service returned an unreadable response")
	}

	if resp.StatusCode >= 400 || !orderResp.Success {
		msg := orderResp.Message
		if msg == "" {
			msg = "order could not be placed, please try again"
		}
		return nil, apperrors.SubmissionFailed(msg)
	}

	return &orderResp, nil
}
