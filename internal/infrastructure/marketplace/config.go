package marketplace

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"
)

// ClientConfig holds configuration for the purchasing marketplace API
type ClientConfig struct {
	// BaseURL is the API endpoint, without a trailing slash
	BaseURL string
	// APIKey identifies this integration to the marketplace
	APIKey string
	// APISecret is the shared secret used for request signing
	APISecret string
	// Timeout bounds every outbound request
	Timeout time.Duration
}

// Errors for marketplace configuration
var (
	ErrConfigMissingBaseURL   = errors.New("marketplace: base URL is required")
	ErrConfigMissingAPIKey    = errors.New("marketplace: API key is required")
	ErrConfigMissingAPISecret = errors.New("marketplace: API secret is required")
)

const defaultTimeout = 15 * time.Second

// Validate validates the marketplace configuration
func (c *ClientConfig) Validate() error {
	if c.BaseURL == "" {
		return ErrConfigMissingBaseURL
	}
	if c.APIKey == "" {
		return ErrConfigMissingAPIKey
	}
	if c.APISecret == "" {
		return ErrConfigMissingAPISecret
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return nil
}

// Sign generates the request signature.
// HMAC-SHA256 over: api_key + method + path + body + timestamp, keyed with
// the API secret, hex encoded.
func (c *ClientConfig) Sign(method, path, body, timestamp string) string {
	var builder strings.Builder
	builder.WriteString(c.APIKey)
	builder.WriteString(method)
	builder.WriteString(path)
	builder.WriteString(body)
	builder.WriteString(timestamp)

	h := hmac.New(sha256.New, []byte(c.APISecret))
	h.Write([]byte(builder.String()))
	return hex.EncodeToString(h.Sum(nil))
}
