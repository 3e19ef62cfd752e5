package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/givebridge/backend/internal/domain/fulfillment"
	"github.com/givebridge/backend/internal/domain/shared"
)

// maxResponseSize limits the response body size to prevent memory exhaustion
const maxResponseSize = 1 * 1024 * 1024 // 1MB max response

// ClientConfig holds configuration for the beneficiary catalog service
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// ErrConfigMissingBaseURL is returned when no catalog endpoint is configured
var ErrConfigMissingBaseURL = errors.New("catalog: base URL is required")

const defaultTimeout = 10 * time.Second

// Validate validates the catalog configuration
func (c *ClientConfig) Validate() error {
	if c.BaseURL == "" {
		return ErrConfigMissingBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return nil
}

// Client implements the fulfillment.Catalog port over the catalog HTTP API
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a new catalog API client
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

type neededItemsResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    *struct {
		Items []fulfillment.NeededItem `json:"items"`
	} `json:"data"`
}

type shippingAddressResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    *struct {
		Address fulfillment.ShippingAddress `json:"address"`
	} `json:"data"`
}

// NeededItems resolves the products to purchase for a beneficiary item
func (c *Client) NeededItems(ctx context.Context, beneficiaryItemID uuid.UUID) ([]fulfillment.NeededItem, error) {
	body, err := c.get(ctx, "/items/"+beneficiaryItemID.String()+"/products")
	if err != nil {
		return nil, err
	}

	var resp neededItemsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("catalog: failed to parse response: %w", err)
	}
	if resp.Code != 0 {
		return nil, shared.NewExternalServiceError(
			fmt.Sprintf("catalog error: %d - %s", resp.Code, resp.Message))
	}
	if resp.Data == nil || len(resp.Data.Items) == 0 {
		return nil, shared.NewNotFoundError("Beneficiary item has no products to purchase")
	}
	return resp.Data.Items, nil
}

// GetShippingAddress resolves the delivery destination for a beneficiary item
func (c *Client) GetShippingAddress(ctx context.Context, beneficiaryItemID uuid.UUID) (*fulfillment.ShippingAddress, error) {
	body, err := c.get(ctx, "/items/"+beneficiaryItemID.String()+"/shipping-address")
	if err != nil {
		return nil, err
	}

	var resp shippingAddressResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("catalog: failed to parse response: %w", err)
	}
	if resp.Code != 0 {
		return nil, shared.NewExternalServiceError(
			fmt.Sprintf("catalog error: %d - %s", resp.Code, resp.Message))
	}
	if resp.Data == nil {
		return nil, shared.NewNotFoundError("Beneficiary item has no shipping address")
	}
	addr := resp.Data.Address
	return &addr, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, shared.NewExternalServiceError(fmt.Sprintf("catalog unreachable: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, shared.ErrNotFound
	}
	if resp.StatusCode >= 400 {
		return nil, shared.NewExternalServiceError(
			fmt.Sprintf("catalog request failed: HTTP %d", resp.StatusCode))
	}
	return body, nil
}

// Ensure Client implements the Catalog port
var _ fulfillment.Catalog = (*Client)(nil)
