package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/givebridge/backend/internal/domain/fulfillment"
)

// ClientConfig holds configuration for the notification service
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

const defaultTimeout = 10 * time.Second

// HTTPNotifier implements the fulfillment.Notifier port over the notification
// service HTTP API. Delivery is fire-and-forget: failures are logged, never
// returned, so a notification outage cannot stall order processing.
type HTTPNotifier struct {
	config     ClientConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPNotifier creates a new HTTP notifier
func NewHTTPNotifier(config ClientConfig, logger *zap.Logger) *HTTPNotifier {
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	return &HTTPNotifier{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}
}

// Send delivers a notification asynchronously
func (n *HTTPNotifier) Send(ctx context.Context, msg fulfillment.Notification) {
	// Detach from the caller's context so the caller returning does not
	// cancel an in-flight delivery.
	go n.deliver(context.WithoutCancel(ctx), msg)
}

func (n *HTTPNotifier) deliver(ctx context.Context, msg fulfillment.Notification) {
	ctx, cancel := context.WithTimeout(ctx, n.config.Timeout)
	defer cancel()

	body, err := json.Marshal(msg)
	if err != nil {
		n.logger.Error("failed to marshal notification", zap.Error(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.config.BaseURL+"/notifications", bytes.NewReader(body))
	if err != nil {
		n.logger.Error("failed to create notification request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if n.config.APIKey != "" {
		req.Header.Set("X-Api-Key", n.config.APIKey)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.logger.Warn("notification delivery failed",
			zap.String("recipient", msg.Recipient.String()),
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		n.logger.Warn("notification rejected",
			zap.String("recipient", msg.Recipient.String()),
			zap.String("subject", msg.Subject),
			zap.Int("status", resp.StatusCode),
		)
		return
	}

	n.logger.Debug("notification delivered",
		zap.String("recipient", msg.Recipient.String()),
		zap.String("subject", msg.Subject),
	)
}

// NopNotifier discards notifications. Used when no notification service is
// configured.
type NopNotifier struct{}

// Send does nothing
func (NopNotifier) Send(context.Context, fulfillment.Notification) {}

// Ensure both notifiers implement the Notifier port
var (
	_ fulfillment.Notifier = (*HTTPNotifier)(nil)
	_ fulfillment.Notifier = NopNotifier{}
)
