package fulfillment

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MarketplaceOrderStatus is the upstream order status as reported by the
// marketplace API. Mapped onto OrderStatus by the shipping tracker.
type MarketplaceOrderStatus string

const (
	MarketplaceStatusAccepted  MarketplaceOrderStatus = "ACCEPTED"
	MarketplaceStatusPreparing MarketplaceOrderStatus = "PREPARING"
	MarketplaceStatusShipped   MarketplaceOrderStatus = "SHIPPED"
	MarketplaceStatusDelivered MarketplaceOrderStatus = "DELIVERED"
	MarketplaceStatusCancelled MarketplaceOrderStatus = "CANCELLED"
)

// PlaceOrderRequest is the payload for placing a marketplace order
type PlaceOrderRequest struct {
	ReferenceID string          `json:"reference_id"` // our order ID, for reconciliation
	Products    []ProductLine   `json:"products"`
	Shipping    ShippingAddress `json:"shipping"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// ProductLine is one product row in a marketplace order request
type ProductLine struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// PlaceOrderResponse is the marketplace's response to a placed order
type PlaceOrderResponse struct {
	MarketplaceOrderID string `json:"marketplace_order_id"`
}

// OrderStatusResult is the marketplace's view of an order in flight
type OrderStatusResult struct {
	MarketplaceOrderID string                 `json:"marketplace_order_id"`
	Status             MarketplaceOrderStatus `json:"status"`
}

// TrackingResult carries carrier tracking details for a shipped order
type TrackingResult struct {
	TrackingNumber string `json:"tracking_number"`
	Carrier        string `json:"carrier"`
}

// Marketplace is the outbound port to the purchase marketplace
type Marketplace interface {
	// PlaceOrder places a purchase order. Returns the marketplace order ID.
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResponse, error)

	// GetOrderStatus fetches the current upstream status of an order
	GetOrderStatus(ctx context.Context, marketplaceOrderID string) (*OrderStatusResult, error)

	// GetTracking fetches tracking details for a shipped order
	GetTracking(ctx context.Context, marketplaceOrderID string) (*TrackingResult, error)

	// CancelOrder cancels an order that has not shipped yet
	CancelOrder(ctx context.Context, marketplaceOrderID string, reason string) error
}

// NeededItem is a catalog entry describing a product a beneficiary needs
type NeededItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ShippingAddress is the delivery destination for a beneficiary
type ShippingAddress struct {
	RecipientName  string `json:"recipient_name"`
	RecipientPhone string `json:"recipient_phone"`
	Address        string `json:"address"`
}

// Catalog is the outbound port to the beneficiary item catalog
type Catalog interface {
	// NeededItems resolves the products to purchase for a beneficiary item
	NeededItems(ctx context.Context, beneficiaryItemID uuid.UUID) ([]NeededItem, error)

	// GetShippingAddress resolves the delivery destination for a beneficiary item
	GetShippingAddress(ctx context.Context, beneficiaryItemID uuid.UUID) (*ShippingAddress, error)
}

// Notification is a fire-and-forget message to a donor or operator
type Notification struct {
	Recipient uuid.UUID `json:"recipient"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
}

// Notifier is the outbound port for notifications. Implementations must not
// block the caller; delivery failures are logged, never propagated.
type Notifier interface {
	Send(ctx context.Context, n Notification)
}
