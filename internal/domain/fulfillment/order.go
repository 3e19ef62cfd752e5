package fulfillment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/givebridge/backend/internal/domain/shared"
	"github.com/givebridge/backend/internal/domain/shared/valueobject"
)

// OrderStatus represents the status of a marketplace purchase order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusAccepted  OrderStatus = "ACCEPTED"
	OrderStatusPreparing OrderStatus = "PREPARING"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusFailed    OrderStatus = "FAILED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusPreparing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusFailed, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusAccepted || target == OrderStatusFailed || target == OrderStatusCancelled
	case OrderStatusAccepted:
		return target == OrderStatusPreparing || target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusPreparing:
		return target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusShipped:
		return target == OrderStatusDelivered
	case OrderStatusDelivered, OrderStatusFailed, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// IsInFlight returns true for statuses the shipping tracker should poll
func (s OrderStatus) IsInFlight() bool {
	return s == OrderStatusAccepted || s == OrderStatusPreparing || s == OrderStatusShipped
}

// OrderProduct represents a line item in a purchase order
type OrderProduct struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	ProductID  string
	Name       string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal // Quantity * UnitPrice
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewOrderProduct creates a new order line item
func NewOrderProduct(orderID uuid.UUID, productID, name string, quantity decimal.Decimal, unitPrice valueobject.Money) (*OrderProduct, error) {
	if productID == "" {
		return nil, shared.NewValidationError("Product ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewValidationError("Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Quantity must be positive")
	}
	if unitPrice.Amount().IsNegative() {
		return nil, shared.NewValidationError("Unit price cannot be negative")
	}

	now := time.Now()
	return &OrderProduct{
		ID:         uuid.New(),
		OrderID:    orderID,
		ProductID:  productID,
		Name:       name,
		Quantity:   quantity,
		UnitPrice:  unitPrice.Amount(),
		TotalPrice: quantity.Mul(unitPrice.Amount()),
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Order represents a marketplace purchase order placed to fulfill a donation.
// A donation has at most one order; the order carries the marketplace-side
// identifier and tracking state once placed.
type Order struct {
	shared.BaseAggregateRoot
	DonationID     uuid.UUID
	OrganizationID uuid.UUID
	// MarketplaceOrderID is the upstream order number, set on acceptance
	MarketplaceOrderID *string
	Products           []OrderProduct
	// TotalAmount is always recalculated from the line items
	TotalAmount    decimal.Decimal
	Status         OrderStatus
	RecipientName  string
	RecipientPhone string
	Address        string
	TrackingNumber *string
	Carrier        string
	ErrorMessage   string
	AcceptedAt     *time.Time
	ShippedAt      *time.Time
	DeliveredAt    *time.Time
}

// NewOrder creates a new purchase order in PENDING status
func NewOrder(donationID, organizationID uuid.UUID) (*Order, error) {
	if donationID == uuid.Nil {
		return nil, shared.NewValidationError("Donation ID cannot be empty")
	}
	if organizationID == uuid.Nil {
		return nil, shared.NewValidationError("Organization ID cannot be empty")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DonationID:        donationID,
		OrganizationID:    organizationID,
		Products:          make([]OrderProduct, 0),
		TotalAmount:       decimal.Zero,
		Status:            OrderStatusPending,
	}

	o.AddDomainEvent(NewOrderCreatedEvent(o))

	return o, nil
}

// AddProduct adds a line item. Only allowed while PENDING.
func (o *Order) AddProduct(productID, name string, quantity decimal.Decimal, unitPrice valueobject.Money) (*OrderProduct, error) {
	if o.Status != OrderStatusPending {
		return nil, shared.NewPreconditionFailedError("Cannot add products to an order already placed")
	}
	for _, p := range o.Products {
		if p.ProductID == productID {
			return nil, shared.NewConflictError("Product already exists in order")
		}
	}

	product, err := NewOrderProduct(o.ID, productID, name, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Products = append(o.Products, *product)
	o.recalculateTotal()
	o.Touch()

	return product, nil
}

// SetShippingInfo records the delivery destination. Only allowed while PENDING.
func (o *Order) SetShippingInfo(recipientName, recipientPhone, address string) error {
	if o.Status != OrderStatusPending {
		return shared.NewPreconditionFailedError("Cannot change shipping info after the order was placed")
	}
	if recipientName == "" {
		return shared.NewValidationError("Recipient name cannot be empty")
	}
	if address == "" {
		return shared.NewValidationError("Shipping address cannot be empty")
	}

	o.RecipientName = recipientName
	o.RecipientPhone = recipientPhone
	o.Address = address
	o.Touch()

	return nil
}

// Accept records that the marketplace accepted the order
func (o *Order) Accept(marketplaceOrderID string) error {
	if marketplaceOrderID == "" {
		return shared.NewValidationError("Marketplace order ID cannot be empty")
	}
	if !o.Status.CanTransitionTo(OrderStatusAccepted) {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot accept order in %s status", o.Status))
	}
	if len(o.Products) == 0 {
		return shared.NewPreconditionFailedError("Cannot place an order without products")
	}

	now := time.Now()
	o.Status = OrderStatusAccepted
	o.MarketplaceOrderID = &marketplaceOrderID
	o.AcceptedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderAcceptedEvent(o))

	return nil
}

// Fail records a placement failure with the upstream error message
func (o *Order) Fail(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusFailed) {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot fail order in %s status", o.Status))
	}

	o.Status = OrderStatusFailed
	o.ErrorMessage = reason
	o.Touch()

	o.AddDomainEvent(NewOrderFailedEvent(o))

	return nil
}

// MarkPreparing records that the seller started preparing the shipment
func (o *Order) MarkPreparing() error {
	if !o.Status.CanTransitionTo(OrderStatusPreparing) {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot mark order preparing in %s status", o.Status))
	}

	o.Status = OrderStatusPreparing
	o.Touch()

	return nil
}

// MarkShipped records shipment with the carrier tracking number
func (o *Order) MarkShipped(trackingNumber, carrier string) error {
	if !o.Status.CanTransitionTo(OrderStatusShipped) {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot mark order shipped in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusShipped
	if trackingNumber != "" {
		o.TrackingNumber = &trackingNumber
	}
	o.Carrier = carrier
	o.ShippedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderShippedEvent(o))

	return nil
}

// MarkDelivered records that the shipment reached the beneficiary
func (o *Order) MarkDelivered() error {
	if !o.Status.CanTransitionTo(OrderStatusDelivered) {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot mark order delivered in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusDelivered
	o.DeliveredAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderDeliveredEvent(o))

	return nil
}

// Cancel cancels the order before it ships
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}

	o.Status = OrderStatusCancelled
	o.ErrorMessage = reason
	o.Touch()

	return nil
}

// GetTotalAmountMoney returns the order total as Money
func (o *Order) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyKRW(o.TotalAmount)
}

// recalculateTotal recomputes TotalAmount from the line items
func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for _, p := range o.Products {
		total = total.Add(p.TotalPrice)
	}
	o.TotalAmount = total
}
