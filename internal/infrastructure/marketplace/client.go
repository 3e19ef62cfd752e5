package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/givebridge/backend/internal/domain/fulfillment"
	"github.com/givebridge/backend/internal/domain/shared"
)

// maxResponseSize limits the response body size to prevent memory exhaustion
const maxResponseSize = 1 * 1024 * 1024 // 1MB max response

// Client implements the fulfillment.Marketplace port over the marketplace
// HTTP API. Requests are signed with HMAC-SHA256.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a new marketplace API client
func NewClient(config *ClientConfig) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// PlaceOrder places a purchase order with the marketplace
func (c *Client) PlaceOrder(ctx context.Context, req fulfillment.PlaceOrderRequest) (*fulfillment.PlaceOrderResponse, error) {
	payload := placeOrderPayload{
		ReferenceID: req.ReferenceID,
		Products:    make([]productLine, 0, len(req.Products)),
		Shipping: shippingInfo{
			RecipientName:  req.Shipping.RecipientName,
			RecipientPhone: req.Shipping.RecipientPhone,
			Address:        req.Shipping.Address,
		},
		TotalAmount: req.TotalAmount,
	}
	for _, p := range req.Products {
		payload.Products = append(payload.Products, productLine{
			ProductID: p.ProductID,
			Quantity:  p.Quantity,
			UnitPrice: p.UnitPrice,
		})
	}

	respBody, err := c.doRequest(ctx, http.MethodPost, "/orders", payload)
	if err != nil {
		return nil, err
	}

	var resp placeOrderResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("marketplace: failed to parse response: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, shared.NewExternalServiceError(
			fmt.Sprintf("marketplace rejected order: %d - %s", resp.Code, resp.Message))
	}
	if resp.Data == nil || resp.Data.OrderID == "" {
		return nil, shared.NewExternalServiceError("marketplace returned no order ID")
	}

	return &fulfillment.PlaceOrderResponse{MarketplaceOrderID: resp.Data.OrderID}, nil
}

// GetOrderStatus fetches the current upstream status of an order
func (c *Client) GetOrderStatus(ctx context.Context, marketplaceOrderID string) (*fulfillment.OrderStatusResult, error) {
	respBody, err := c.doRequest(ctx, http.MethodGet, "/orders/"+marketplaceOrderID, nil)
	if err != nil {
		return nil, err
	}

	var resp orderStatusResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("marketplace: failed to parse response: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, shared.NewExternalServiceError(
			fmt.Sprintf("marketplace status lookup failed: %d - %s", resp.Code, resp.Message))
	}
	if resp.Data == nil {
		return nil, shared.NewExternalServiceError("marketplace returned no order data")
	}

	return &fulfillment.OrderStatusResult{
		MarketplaceOrderID: resp.Data.OrderID,
		Status:             fulfillment.MarketplaceOrderStatus(resp.Data.Status),
	}, nil
}

// GetTracking fetches carrier tracking details for a shipped order
func (c *Client) GetTracking(ctx context.Context, marketplaceOrderID string) (*fulfillment.TrackingResult, error) {
	respBody, err := c.doRequest(ctx, http.MethodGet, "/orders/"+marketplaceOrderID+"/tracking", nil)
	if err != nil {
		return nil, err
	}

	var resp trackingResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("marketplace: failed to parse response: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, shared.NewExternalServiceError(
			fmt.Sprintf("marketplace tracking lookup failed: %d - %s", resp.Code, resp.Message))
	}
	if resp.Data == nil {
		return nil, shared.NewExternalServiceError("marketplace returned no tracking data")
	}

	return &fulfillment.TrackingResult{
		TrackingNumber: resp.Data.TrackingNumber,
		Carrier:        resp.Data.Carrier,
	}, nil
}

// CancelOrder cancels an order that has not shipped yet
func (c *Client) CancelOrder(ctx context.Context, marketplaceOrderID string, reason string) error {
	respBody, err := c.doRequest(ctx, http.MethodPost, "/orders/"+marketplaceOrderID+"/cancel",
		cancelOrderPayload{Reason: reason})
	if err != nil {
		return err
	}

	var resp cancelOrderResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return fmt.Errorf("marketplace: failed to parse response: %w", err)
	}
	if !resp.IsSuccess() {
		return shared.NewExternalServiceError(
			fmt.Sprintf("marketplace cancel failed: %d - %s", resp.Code, resp.Message))
	}
	return nil
}

// doRequest performs a signed HTTP request against the marketplace API
func (c *Client) doRequest(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var bodyBytes []byte
	if payload != nil {
		var err error
		bodyBytes, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marketplace: failed to marshal request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("marketplace: failed to create request: %w", err)
	}

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Api-Key", c.config.APIKey)
	req.Header.Set("X-Timestamp", timestamp)
	req.Header.Set("X-Signature", c.config.Sign(method, path, string(bodyBytes), timestamp))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, shared.NewExternalServiceError(fmt.Sprintf("marketplace unreachable: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("marketplace: failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, shared.ErrNotFound
	}
	if resp.StatusCode >= 400 {
		return nil, shared.NewExternalServiceError(
			fmt.Sprintf("marketplace request failed: HTTP %d", resp.StatusCode))
	}

	return body, nil
}

// Ensure Client implements the Marketplace port
var _ fulfillment.Marketplace = (*Client)(nil)
