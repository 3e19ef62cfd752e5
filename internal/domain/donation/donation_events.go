package donation

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/givebridge/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeDonation = "Donation"

// Event type constants
const (
	EventTypeDonationCreated          = "DonationCreated"
	EventTypeDonationPaymentConfirmed = "DonationPaymentConfirmed"
	EventTypeDonationOrdered          = "DonationOrdered"
	EventTypeDonationDelivered        = "DonationDelivered"
	EventTypeDepositReceived          = "DepositReceived"
	EventTypeDepositUnmatched         = "DepositUnmatched"
)

// DonationCreatedEvent is raised when a new donation is created
type DonationCreatedEvent struct {
	shared.BaseDomainEvent
	DonationID        uuid.UUID       `json:"donation_id"`
	DonorID           uuid.UUID       `json:"donor_id"`
	BeneficiaryItemID uuid.UUID       `json:"beneficiary_item_id"`
	Amount            decimal.Decimal `json:"amount"`
	PaymentCode       string          `json:"payment_code"`
}

// NewDonationCreatedEvent creates a new DonationCreatedEvent
func NewDonationCreatedEvent(d *Donation) *DonationCreatedEvent {
	return &DonationCreatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeDonationCreated, AggregateTypeDonation, d.ID, d.OrganizationID),
		DonationID:        d.ID,
		DonorID:           d.DonorID,
		BeneficiaryItemID: d.BeneficiaryItemID,
		Amount:            d.Amount,
		PaymentCode:       d.PaymentCode,
	}
}

// EventType returns the event type name
func (e *DonationCreatedEvent) EventType() string {
	return EventTypeDonationCreated
}

// DonationPaymentConfirmedEvent is raised when a bank deposit was matched to
// the donation. This event triggers order creation in the fulfillment context.
type DonationPaymentConfirmedEvent struct {
	shared.BaseDomainEvent
	DonationID       uuid.UUID       `json:"donation_id"`
	Amount           decimal.Decimal `json:"amount"`
	PaymentReference string          `json:"payment_reference"`
}

// NewDonationPaymentConfirmedEvent creates a new DonationPaymentConfirmedEvent
func NewDonationPaymentConfirmedEvent(d *Donation) *DonationPaymentConfirmedEvent {
	return &DonationPaymentConfirmedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeDonationPaymentConfirmed, AggregateTypeDonation, d.ID, d.OrganizationID),
		DonationID:       d.ID,
		Amount:           d.Amount,
		PaymentReference: d.PaymentReference,
	}
}

// EventType returns the event type name
func (e *DonationPaymentConfirmedEvent) EventType() string {
	return EventTypeDonationPaymentConfirmed
}

// DonationOrderedEvent is raised when a marketplace order was created for the donation
type DonationOrderedEvent struct {
	shared.BaseDomainEvent
	DonationID uuid.UUID `json:"donation_id"`
}

// NewDonationOrderedEvent creates a new DonationOrderedEvent
func NewDonationOrderedEvent(d *Donation) *DonationOrderedEvent {
	return &DonationOrderedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDonationOrdered, AggregateTypeDonation, d.ID, d.OrganizationID),
		DonationID:      d.ID,
	}
}

// EventType returns the event type name
func (e *DonationOrderedEvent) EventType() string {
	return EventTypeDonationOrdered
}

// DonationDeliveredEvent is raised when the purchased goods reached the beneficiary
type DonationDeliveredEvent struct {
	shared.BaseDomainEvent
	DonationID uuid.UUID `json:"donation_id"`
	DonorID    uuid.UUID `json:"donor_id"`
}

// NewDonationDeliveredEvent creates a new DonationDeliveredEvent
func NewDonationDeliveredEvent(d *Donation) *DonationDeliveredEvent {
	return &DonationDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDonationDelivered, AggregateTypeDonation, d.ID, d.OrganizationID),
		DonationID:      d.ID,
		DonorID:         d.DonorID,
	}
}

// EventType returns the event type name
func (e *DonationDeliveredEvent) EventType() string {
	return EventTypeDonationDelivered
}

// DepositReceivedEvent is published by the bank feed when funds arrive in an
// organization's virtual account. The deposit matcher subscribes to it.
type DepositReceivedEvent struct {
	shared.BaseDomainEvent
	Deposit DepositEvent `json:"deposit"`
}

// NewDepositReceivedEvent wraps a deposit notification as a domain event
func NewDepositReceivedEvent(dep DepositEvent) *DepositReceivedEvent {
	return &DepositReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDepositReceived, "Deposit", uuid.New(), dep.OrganizationID),
		Deposit:         dep,
	}
}

// EventType returns the event type name
func (e *DepositReceivedEvent) EventType() string {
	return EventTypeDepositReceived
}

// DepositUnmatchedEvent is published when a deposit could not be matched to
// any pending donation and was recorded for manual reconciliation
type DepositUnmatchedEvent struct {
	shared.BaseDomainEvent
	Deposit DepositEvent `json:"deposit"`
	Reason  string       `json:"reason"`
}

// NewDepositUnmatchedEvent creates a new DepositUnmatchedEvent
func NewDepositUnmatchedEvent(dep DepositEvent, reason string) *DepositUnmatchedEvent {
	return &DepositUnmatchedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDepositUnmatched, "Deposit", uuid.New(), dep.OrganizationID),
		Deposit:         dep,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *DepositUnmatchedEvent) EventType() string {
	return EventTypeDepositUnmatched
}
