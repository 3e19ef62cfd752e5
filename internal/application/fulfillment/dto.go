package fulfillment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/givebridge/backend/internal/domain/fulfillment"
)

// CreateOrderRequest represents a request to create an order from a donation
type CreateOrderRequest struct {
	DonationID uuid.UUID `json:"donation_id" binding:"required"`
}

// CancelOrderRequest represents a request to cancel an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	OrganizationID *uuid.UUID               `form:"-"`
	Status         *fulfillment.OrderStatus `form:"-"`
	Page           int                      `form:"page" binding:"min=0"`
	PageSize       int                      `form:"page_size" binding:"min=0,max=100"`
	OrderBy        string                   `form:"order_by"`
	OrderDir       string                   `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OrderProductResponse represents a line item in API responses
type OrderProductResponse struct {
	ID         uuid.UUID       `json:"id"`
	ProductID  string          `json:"product_id"`
	Name       string          `json:"name"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID                 uuid.UUID              `json:"id"`
	DonationID         uuid.UUID              `json:"donation_id"`
	OrganizationID     uuid.UUID              `json:"organization_id"`
	MarketplaceOrderID *string                `json:"marketplace_order_id,omitempty"`
	Products           []OrderProductResponse `json:"products"`
	TotalAmount        decimal.Decimal        `json:"total_amount"`
	Status             string                 `json:"status"`
	RecipientName      string                 `json:"recipient_name,omitempty"`
	Address            string                 `json:"address,omitempty"`
	TrackingNumber     *string                `json:"tracking_number,omitempty"`
	Carrier            string                 `json:"carrier,omitempty"`
	ErrorMessage       string                 `json:"error_message,omitempty"`
	AcceptedAt         *time.Time             `json:"accepted_at,omitempty"`
	ShippedAt          *time.Time             `json:"shipped_at,omitempty"`
	DeliveredAt        *time.Time             `json:"delivered_at,omitempty"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
}

// ToOrderResponse converts a domain order to its API representation
func ToOrderResponse(o *fulfillment.Order) OrderResponse {
	products := make([]OrderProductResponse, 0, len(o.Products))
	for _, p := range o.Products {
		products = append(products, OrderProductResponse{
			ID:         p.ID,
			ProductID:  p.ProductID,
			Name:       p.Name,
			Quantity:   p.Quantity,
			UnitPrice:  p.UnitPrice,
			TotalPrice: p.TotalPrice,
		})
	}
	return OrderResponse{
		ID:                 o.ID,
		DonationID:         o.DonationID,
		OrganizationID:     o.OrganizationID,
		MarketplaceOrderID: o.MarketplaceOrderID,
		Products:           products,
		TotalAmount:        o.TotalAmount,
		Status:             o.Status.String(),
		RecipientName:      o.RecipientName,
		Address:            o.Address,
		TrackingNumber:     o.TrackingNumber,
		Carrier:            o.Carrier,
		ErrorMessage:       o.ErrorMessage,
		AcceptedAt:         o.AcceptedAt,
		ShippedAt:          o.ShippedAt,
		DeliveredAt:        o.DeliveredAt,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of orders
func ToOrderResponses(items []*fulfillment.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(items))
	for _, o := range items {
		out = append(out, ToOrderResponse(o))
	}
	return out
}

// TrackerRunResult summarizes one shipping tracker scan
type TrackerRunResult struct {
	Scanned int `json:"scanned"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}
