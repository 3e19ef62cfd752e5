package bankfeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/givebridge/backend/internal/domain/shared"
)

// maxResponseSize limits the response body size to prevent memory exhaustion
const maxResponseSize = 4 * 1024 * 1024 // 4MB max response

// Transaction is one incoming transfer reported by the bank feed
type Transaction struct {
	TransactionID string          `json:"transaction_id"`
	Bank          string          `json:"bank"`
	Account       string          `json:"account"`
	Amount        decimal.Decimal `json:"amount"`
	DepositorName string          `json:"depositor_name"`
	Memo          string          `json:"memo"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// FeedSource fetches deposit transactions newer than the given cursor
type FeedSource interface {
	FetchSince(ctx context.Context, since time.Time) ([]Transaction, error)
}

// ClientConfig holds configuration for the bank feed API
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Errors for bank feed configuration
var (
	ErrConfigMissingBaseURL = errors.New("bankfeed: base URL is required")
	ErrConfigMissingAPIKey  = errors.New("bankfeed: API key is required")
)

const defaultTimeout = 15 * time.Second

// Validate validates the bank feed configuration
func (c *ClientConfig) Validate() error {
	if c.BaseURL == "" {
		return ErrConfigMissingBaseURL
	}
	if c.APIKey == "" {
		return ErrConfigMissingAPIKey
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return nil
}

// Client fetches virtual account deposits from the bank feed HTTP API
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a new bank feed API client
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

// transactionsResponse is the response body for GET /transactions
type transactionsResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    *struct {
		Transactions []Transaction `json:"transactions"`
	} `json:"data"`
}

// FetchSince fetches deposit transactions that occurred after the cursor
func (c *Client) FetchSince(ctx context.Context, since time.Time) ([]Transaction, error) {
	endpoint := c.config.BaseURL + "/transactions?since=" + url.QueryEscape(since.Format(time.RFC3339))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("bankfeed: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Api-Key", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, shared.NewExternalServiceError(fmt.Sprintf("bank feed unreachable: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("bankfeed: failed to read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, shared.NewExternalServiceError(
			fmt.Sprintf("bank feed request failed: HTTP %d", resp.StatusCode))
	}

	var parsed transactionsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("bankfeed: failed to parse response: %w", err)
	}
	if parsed.Code != 0 {
		return nil, shared.NewExternalServiceError(
			fmt.Sprintf("bank feed error: %d - %s", parsed.Code, parsed.Message))
	}
	if parsed.Data == nil {
		return nil, nil
	}
	return parsed.Data.Transactions, nil
}

// Ensure Client implements FeedSource
var _ FeedSource = (*Client)(nil)
