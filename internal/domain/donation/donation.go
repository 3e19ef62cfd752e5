package donation

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/givebridge/backend/internal/domain/shared"
)

// Status represents the lifecycle status of a donation
type Status string

const (
	StatusPending             Status = "PENDING"
	StatusPaymentConfirmed    Status = "PAYMENT_CONFIRMED"
	StatusOrdered             Status = "ORDERED"
	StatusDelivered           Status = "DELIVERED"
	StatusSettlementPending   Status = "SETTLEMENT_PENDING"
	StatusSettlementCompleted Status = "SETTLEMENT_COMPLETED"
	StatusCancelled           Status = "CANCELLED"
)

// IsValid checks if the status is a valid donation Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaymentConfirmed, StatusOrdered, StatusDelivered,
		StatusSettlementPending, StatusSettlementCompleted, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Every mutation of a donation's status goes through this table; repositories
// never write a status the domain did not produce.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusPaymentConfirmed || target == StatusCancelled
	case StatusPaymentConfirmed:
		return target == StatusOrdered || target == StatusSettlementPending
	case StatusOrdered:
		return target == StatusDelivered || target == StatusSettlementPending
	case StatusDelivered:
		return target == StatusSettlementPending
	case StatusSettlementPending:
		return target == StatusSettlementCompleted
	case StatusSettlementCompleted, StatusCancelled:
		return false // Terminal states
	}
	return false
}

// IsTerminal returns true for statuses with no outgoing transitions
func (s Status) IsTerminal() bool {
	return s == StatusSettlementCompleted || s == StatusCancelled
}

// Donation represents a donor's pledge of funds toward a specific needed item
// of a beneficiary. It is the aggregate root of the fulfillment pipeline: a
// donation is confirmed by a bank deposit, fulfilled by a marketplace order,
// and paid out to the organization through a settlement.
type Donation struct {
	shared.BaseAggregateRoot
	BeneficiaryItemID uuid.UUID
	DonorID           uuid.UUID
	OrganizationID    uuid.UUID
	Amount            decimal.Decimal
	Status            Status
	// PaymentCode is a short code the donor is asked to include in the
	// transfer memo. Used by the memo-code match strategy.
	PaymentCode      string
	PaymentReference string
	Message          string
	// SettlementID links the donation to at most one open settlement
	SettlementID *uuid.UUID
	ConfirmedAt  *time.Time
}

// NewDonation creates a new donation in PENDING status
func NewDonation(donorID, organizationID, beneficiaryItemID uuid.UUID, amount decimal.Decimal, message string) (*Donation, error) {
	if donorID == uuid.Nil {
		return nil, shared.NewValidationError("Donor ID cannot be empty")
	}
	if organizationID == uuid.Nil {
		return nil, shared.NewValidationError("Organization ID cannot be empty")
	}
	if beneficiaryItemID == uuid.Nil {
		return nil, shared.NewValidationError("Beneficiary item ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("Donation amount must be positive")
	}

	d := &Donation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BeneficiaryItemID: beneficiaryItemID,
		DonorID:           donorID,
		OrganizationID:    organizationID,
		Amount:            amount,
		Status:            StatusPending,
		PaymentCode:       newPaymentCode(),
		Message:           message,
	}

	d.AddDomainEvent(NewDonationCreatedEvent(d))

	return d, nil
}

// TransitionTo moves the donation to the target status if the transition
// table allows it. The status is left unchanged on rejection.
func (d *Donation) TransitionTo(target Status) error {
	if !target.IsValid() {
		return shared.NewValidationError(fmt.Sprintf("Unknown donation status %q", target))
	}
	if !d.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot transition donation from %s to %s", d.Status, target))
	}

	d.Status = target
	d.Touch()

	return nil
}

// ConfirmPayment records the matched deposit reference and moves the donation
// to PAYMENT_CONFIRMED. The persistence layer re-checks the PENDING guard
// inside the same atomic update (compare-and-swap) so concurrent deposit
// notifications cannot confirm the same donation twice.
func (d *Donation) ConfirmPayment(paymentReference string) error {
	if d.Status == StatusPaymentConfirmed {
		return shared.NewConflictError("Donation payment is already confirmed")
	}
	if d.Status != StatusPending {
		return shared.NewPreconditionFailedError(
			fmt.Sprintf("Cannot confirm payment for donation in %s status", d.Status))
	}
	if paymentReference == "" {
		return shared.NewValidationError("Payment reference cannot be empty")
	}

	now := time.Now()
	d.Status = StatusPaymentConfirmed
	d.PaymentReference = paymentReference
	d.ConfirmedAt = &now
	d.UpdatedAt = now

	d.AddDomainEvent(NewDonationPaymentConfirmedEvent(d))

	return nil
}

// MarkOrdered records that a marketplace order was created for this donation
func (d *Donation) MarkOrdered() error {
	if err := d.TransitionTo(StatusOrdered); err != nil {
		return err
	}
	d.AddDomainEvent(NewDonationOrderedEvent(d))
	return nil
}

// MarkDelivered records that the purchased goods reached the beneficiary
func (d *Donation) MarkDelivered() error {
	if err := d.TransitionTo(StatusDelivered); err != nil {
		return err
	}
	d.AddDomainEvent(NewDonationDeliveredEvent(d))
	return nil
}

// AttachToSettlement claims the donation for a settlement. A donation belongs
// to at most one open settlement; the persistence layer enforces this with a
// settlement_id IS NULL predicate inside the claim transaction.
func (d *Donation) AttachToSettlement(settlementID uuid.UUID) error {
	if settlementID == uuid.Nil {
		return shared.NewValidationError("Settlement ID cannot be empty")
	}
	if d.Status != StatusSettlementPending {
		return shared.NewPreconditionFailedError(
			fmt.Sprintf("Cannot attach donation in %s status to a settlement", d.Status))
	}
	if d.SettlementID != nil {
		return shared.NewConflictError("Donation already belongs to a settlement")
	}

	d.SettlementID = &settlementID
	d.Touch()

	return nil
}

// Cancel cancels the donation. Only allowed while PENDING: once a deposit is
// confirmed or ordering has begun, cancellation is an operational process,
// not a state transition.
func (d *Donation) Cancel() error {
	return d.TransitionTo(StatusCancelled)
}

// IsSettleable returns true if the donation may be promoted to
// SETTLEMENT_PENDING by the settlement batcher
func (d *Donation) IsSettleable() bool {
	return d.Status.CanTransitionTo(StatusSettlementPending)
}

// paymentCodeAlphabet avoids characters donors commonly mistype (0/O, 1/I)
const paymentCodeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// newPaymentCode generates an 8-character transfer memo code
func newPaymentCode() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// math-free fallback: derive from a fresh UUID
		copy(buf, uuid.New().NodeID())
	}
	for i := range buf {
		buf[i] = paymentCodeAlphabet[int(buf[i])%len(paymentCodeAlphabet)]
	}
	return string(buf)
}
