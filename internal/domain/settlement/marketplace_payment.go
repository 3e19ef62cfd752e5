package settlement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/givebridge/backend/internal/domain/shared"
)

// PaymentStatus represents the status of a marketplace payment obligation
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	return s == PaymentStatusPending || s == PaymentStatusCompleted
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// MarketplacePayment tracks the money owed to the marketplace for a purchase
// order. Opened when the marketplace accepts the order, completed when the
// covering settlement is paid out.
type MarketplacePayment struct {
	shared.BaseAggregateRoot
	OrderID          uuid.UUID
	Amount           decimal.Decimal
	Status           PaymentStatus
	ScheduledDate    time.Time
	CompletedDate    *time.Time
	PaymentReference string
}

// NewMarketplacePayment opens a PENDING payment obligation for an order
func NewMarketplacePayment(orderID uuid.UUID, amount decimal.Decimal, scheduledDate time.Time) (*MarketplacePayment, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewValidationError("Order ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("Payment amount must be positive")
	}

	return &MarketplacePayment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		Amount:            amount,
		Status:            PaymentStatusPending,
		ScheduledDate:     scheduledDate,
	}, nil
}

// Complete marks the payment as made. Completing an already completed payment
// is a no-op when the reference matches and a conflict otherwise, so
// settlement completion retries stay idempotent.
func (p *MarketplacePayment) Complete(paymentReference string) error {
	if paymentReference == "" {
		return shared.NewValidationError("Payment reference cannot be empty")
	}
	if p.Status == PaymentStatusCompleted {
		if p.PaymentReference == paymentReference {
			return nil
		}
		return shared.NewConflictError("Payment is already completed with a different reference")
	}

	now := time.Now()
	p.Status = PaymentStatusCompleted
	p.CompletedDate = &now
	p.PaymentReference = paymentReference
	p.UpdatedAt = now

	return nil
}
