package donation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/givebridge/backend/internal/domain/shared"
)

// DepositEvent is a bank deposit notification for an organization's virtual
// account. It arrives either through the bank webhook or the polling feed.
type DepositEvent struct {
	// TransactionID is the bank's unique identifier for the transfer.
	// Used as the idempotency key for redelivered notifications.
	TransactionID  string          `json:"transaction_id"`
	OrganizationID uuid.UUID       `json:"organization_id"`
	Account        string          `json:"account"`
	Amount         decimal.Decimal `json:"amount"`
	DepositorName  string          `json:"depositor_name"`
	// Memo is the free-text transfer memo. May contain a payment code.
	Memo       string    `json:"memo"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Validate checks the deposit notification for required fields
func (d DepositEvent) Validate() error {
	if d.TransactionID == "" {
		return shared.NewValidationError("Deposit transaction ID cannot be empty")
	}
	if d.OrganizationID == uuid.Nil {
		return shared.NewValidationError("Deposit organization ID cannot be empty")
	}
	if !d.Amount.IsPositive() {
		return shared.NewValidationError("Deposit amount must be positive")
	}
	return nil
}

// UnmatchedDeposit records a deposit that could not be matched to any pending
// donation. Kept for manual reconciliation by the operations team.
type UnmatchedDeposit struct {
	shared.BaseEntity
	TransactionID  string
	OrganizationID uuid.UUID
	Account        string
	Amount         decimal.Decimal
	DepositorName  string
	Memo           string
	OccurredAt     time.Time
	Reason         string
	// Resolved is set once an operator manually matched or refunded the deposit
	Resolved   bool
	ResolvedAt *time.Time
}

// NewUnmatchedDeposit journals a deposit that found no matching donation
func NewUnmatchedDeposit(dep DepositEvent, reason string) *UnmatchedDeposit {
	return &UnmatchedDeposit{
		BaseEntity:     shared.NewBaseEntity(),
		TransactionID:  dep.TransactionID,
		OrganizationID: dep.OrganizationID,
		Account:        dep.Account,
		Amount:         dep.Amount,
		DepositorName:  dep.DepositorName,
		Memo:           dep.Memo,
		OccurredAt:     dep.OccurredAt,
		Reason:         reason,
	}
}

// Resolve marks the deposit as manually reconciled
func (u *UnmatchedDeposit) Resolve() error {
	if u.Resolved {
		return shared.NewConflictError("Deposit is already resolved")
	}
	now := time.Now()
	u.Resolved = true
	u.ResolvedAt = &now
	u.UpdatedAt = now
	return nil
}
