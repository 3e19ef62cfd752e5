package settlement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/givebridge/backend/internal/domain/shared"
	"github.com/givebridge/backend/internal/domain/shared/valueobject"
)

// Status represents the lifecycle status of a settlement
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
)

// IsValid checks if the status is a valid settlement Status
func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusCompleted
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Settlement represents a batch payout of confirmed donation funds to an
// organization. Member donations reference the settlement through their
// settlement_id column; the total always equals the sum of member amounts.
type Settlement struct {
	shared.BaseAggregateRoot
	OrganizationID uuid.UUID
	TotalAmount    decimal.Decimal
	Status         Status
	// Period identifies the batch run that created the settlement,
	// e.g. "2026-W35" or "2026-08". Also the idempotency key suffix.
	Period           string
	ScheduledDate    time.Time
	CompletedDate    *time.Time
	PaymentReference string
	DonationCount    int
}

// NewSettlement creates a PENDING settlement for an organization
func NewSettlement(organizationID uuid.UUID, totalAmount decimal.Decimal, donationCount int, period string, scheduledDate time.Time) (*Settlement, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewValidationError("Organization ID cannot be empty")
	}
	if !totalAmount.IsPositive() {
		return nil, shared.NewValidationError("Settlement total must be positive")
	}
	if donationCount <= 0 {
		return nil, shared.NewValidationError("Settlement must contain at least one donation")
	}

	s := &Settlement{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrganizationID:    organizationID,
		TotalAmount:       totalAmount,
		Status:            StatusPending,
		Period:            period,
		ScheduledDate:     scheduledDate,
		DonationCount:     donationCount,
	}

	s.AddDomainEvent(NewSettlementCreatedEvent(s))

	return s, nil
}

// Complete marks the settlement as paid out. Completion is final: the
// completed date and payment reference are never overwritten.
func (s *Settlement) Complete(paymentReference string) error {
	if paymentReference == "" {
		return shared.NewValidationError("Payment reference cannot be empty")
	}
	if s.Status == StatusCompleted {
		return shared.NewConflictError("Settlement is already completed")
	}

	now := time.Now()
	s.Status = StatusCompleted
	s.CompletedDate = &now
	s.PaymentReference = paymentReference
	s.UpdatedAt = now

	s.AddDomainEvent(NewSettlementCompletedEvent(s))

	return nil
}

// GetTotalAmountMoney returns the settlement total as Money
func (s *Settlement) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyKRW(s.TotalAmount)
}

// WeeklyPeriod formats the batch period key for a weekly run, e.g. "2026-W35"
func WeeklyPeriod(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// MonthlyPeriod formats the batch period key for a monthly run, e.g. "2026-08"
func MonthlyPeriod(t time.Time) string {
	return t.Format("2006-01")
}
