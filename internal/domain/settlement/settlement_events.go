package settlement

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/givebridge/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeSettlement = "Settlement"

// Event type constants
const (
	EventTypeSettlementCreated   = "SettlementCreated"
	EventTypeSettlementCompleted = "SettlementCompleted"
)

// SettlementCreatedEvent is raised when a batch run created a settlement
type SettlementCreatedEvent struct {
	shared.BaseDomainEvent
	SettlementID  uuid.UUID       `json:"settlement_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	DonationCount int             `json:"donation_count"`
	Period        string          `json:"period"`
}

// NewSettlementCreatedEvent creates a new SettlementCreatedEvent
func NewSettlementCreatedEvent(s *Settlement) *SettlementCreatedEvent {
	return &SettlementCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSettlementCreated, AggregateTypeSettlement, s.ID, s.OrganizationID),
		SettlementID:    s.ID,
		TotalAmount:     s.TotalAmount,
		DonationCount:   s.DonationCount,
		Period:          s.Period,
	}
}

// EventType returns the event type name
func (e *SettlementCreatedEvent) EventType() string {
	return EventTypeSettlementCreated
}

// SettlementCompletedEvent is raised when the payout was made
type SettlementCompletedEvent struct {
	shared.BaseDomainEvent
	SettlementID     uuid.UUID       `json:"settlement_id"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	PaymentReference string          `json:"payment_reference"`
}

// NewSettlementCompletedEvent creates a new SettlementCompletedEvent
func NewSettlementCompletedEvent(s *Settlement) *SettlementCompletedEvent {
	return &SettlementCompletedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeSettlementCompleted, AggregateTypeSettlement, s.ID, s.OrganizationID),
		SettlementID:     s.ID,
		TotalAmount:      s.TotalAmount,
		PaymentReference: s.PaymentReference,
	}
}

// EventType returns the event type name
func (e *SettlementCompletedEvent) EventType() string {
	return EventTypeSettlementCompleted
}
