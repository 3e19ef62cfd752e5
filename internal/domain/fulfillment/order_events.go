package fulfillment

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/givebridge/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated   = "OrderCreated"
	EventTypeOrderAccepted  = "OrderAccepted"
	EventTypeOrderShipped   = "OrderShipped"
	EventTypeOrderDelivered = "OrderDelivered"
	EventTypeOrderFailed    = "OrderFailed"
)

// OrderCreatedEvent is raised when a purchase order is created for a donation
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID `json:"order_id"`
	DonationID uuid.UUID `json:"donation_id"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, o.ID, o.OrganizationID),
		OrderID:         o.ID,
		DonationID:      o.DonationID,
	}
}

// EventType returns the event type name
func (e *OrderCreatedEvent) EventType() string {
	return EventTypeOrderCreated
}

// OrderAcceptedEvent is raised when the marketplace accepted the order.
// The payment ledger subscribes to it to open a PENDING payment record.
type OrderAcceptedEvent struct {
	shared.BaseDomainEvent
	OrderID            uuid.UUID       `json:"order_id"`
	DonationID         uuid.UUID       `json:"donation_id"`
	MarketplaceOrderID string          `json:"marketplace_order_id"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
}

// NewOrderAcceptedEvent creates a new OrderAcceptedEvent
func NewOrderAcceptedEvent(o *Order) *OrderAcceptedEvent {
	var mpID string
	if o.MarketplaceOrderID != nil {
		mpID = *o.MarketplaceOrderID
	}
	return &OrderAcceptedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeOrderAccepted, AggregateTypeOrder, o.ID, o.OrganizationID),
		OrderID:            o.ID,
		DonationID:         o.DonationID,
		MarketplaceOrderID: mpID,
		TotalAmount:        o.TotalAmount,
	}
}

// EventType returns the event type name
func (e *OrderAcceptedEvent) EventType() string {
	return EventTypeOrderAccepted
}

// OrderShippedEvent is raised when the shipment left the seller
type OrderShippedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID `json:"order_id"`
	DonationID     uuid.UUID `json:"donation_id"`
	TrackingNumber string    `json:"tracking_number"`
	Carrier        string    `json:"carrier"`
}

// NewOrderShippedEvent creates a new OrderShippedEvent
func NewOrderShippedEvent(o *Order) *OrderShippedEvent {
	var tracking string
	if o.TrackingNumber != nil {
		tracking = *o.TrackingNumber
	}
	return &OrderShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderShipped, AggregateTypeOrder, o.ID, o.OrganizationID),
		OrderID:         o.ID,
		DonationID:      o.DonationID,
		TrackingNumber:  tracking,
		Carrier:         o.Carrier,
	}
}

// EventType returns the event type name
func (e *OrderShippedEvent) EventType() string {
	return EventTypeOrderShipped
}

// OrderDeliveredEvent is raised when the shipment reached the beneficiary
type OrderDeliveredEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID `json:"order_id"`
	DonationID uuid.UUID `json:"donation_id"`
}

// NewOrderDeliveredEvent creates a new OrderDeliveredEvent
func NewOrderDeliveredEvent(o *Order) *OrderDeliveredEvent {
	return &OrderDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDelivered, AggregateTypeOrder, o.ID, o.OrganizationID),
		OrderID:         o.ID,
		DonationID:      o.DonationID,
	}
}

// EventType returns the event type name
func (e *OrderDeliveredEvent) EventType() string {
	return EventTypeOrderDelivered
}

// OrderFailedEvent is raised when the marketplace rejected the order
type OrderFailedEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID `json:"order_id"`
	DonationID uuid.UUID `json:"donation_id"`
	Reason     string    `json:"reason"`
}

// NewOrderFailedEvent creates a new OrderFailedEvent
func NewOrderFailedEvent(o *Order) *OrderFailedEvent {
	return &OrderFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderFailed, AggregateTypeOrder, o.ID, o.OrganizationID),
		OrderID:         o.ID,
		DonationID:      o.DonationID,
		Reason:          o.ErrorMessage,
	}
}

// EventType returns the event type name
func (e *OrderFailedEvent) EventType() string {
	return EventTypeOrderFailed
}
