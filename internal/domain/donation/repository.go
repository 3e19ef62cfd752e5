package donation

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/givebridge/backend/internal/domain/shared"
)

// DonationRepository defines the persistence interface for donations
type DonationRepository interface {
	// Save persists a new donation
	Save(ctx context.Context, d *Donation) error

	// SaveWithLock persists changes with optimistic locking on the version
	// column. Returns ErrConcurrencyConflict when the version moved.
	SaveWithLock(ctx context.Context, d *Donation) error

	// FindByID retrieves a donation by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Donation, error)

	// FindAll retrieves donations matching the filter with pagination
	FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*Donation], error)

	// FindPendingByOrganizationAndAmount returns all PENDING donations for the
	// organization with exactly the given amount, oldest first. Used by the
	// deposit matcher to collect match candidates.
	FindPendingByOrganizationAndAmount(ctx context.Context, organizationID uuid.UUID, amount decimal.Decimal) ([]*Donation, error)

	// ConfirmPayment atomically moves the donation from PENDING to
	// PAYMENT_CONFIRMED, recording the payment reference. The status guard is
	// part of the UPDATE predicate; returns ErrConcurrencyConflict when the
	// donation was no longer PENDING.
	ConfirmPayment(ctx context.Context, d *Donation) error

	// ClaimForSettlement attaches the given donations to a settlement inside
	// the caller's transaction, promoting DELIVERED rows to SETTLEMENT_PENDING
	// in the same statement. Only rows in DELIVERED or SETTLEMENT_PENDING with
	// no settlement assigned are claimed; the claimed row count is returned.
	ClaimForSettlement(ctx context.Context, settlementID uuid.UUID, donationIDs []uuid.UUID) (int64, error)

	// CompleteBySettlement moves all SETTLEMENT_PENDING members of a
	// settlement to SETTLEMENT_COMPLETED. Returns the affected row count.
	CompleteBySettlement(ctx context.Context, settlementID uuid.UUID) (int64, error)

	// FindSettleableByOrganization returns donations eligible for a
	// settlement batch (DELIVERED, or SETTLEMENT_PENDING with no settlement
	// assigned) for the organization, locked FOR UPDATE.
	FindSettleableByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*Donation, error)

	// FindBySettlementID returns all donations attached to a settlement
	FindBySettlementID(ctx context.Context, settlementID uuid.UUID) ([]*Donation, error)

	// WithTx returns a repository bound to the given transaction handle
	WithTx(tx any) DonationRepository
}

// UnmatchedDepositRepository persists deposits awaiting manual reconciliation
type UnmatchedDepositRepository interface {
	// Save journals an unmatched deposit
	Save(ctx context.Context, u *UnmatchedDeposit) error

	// FindByTransactionID retrieves an unmatched deposit by the bank's
	// transaction identifier
	FindByTransactionID(ctx context.Context, transactionID string) (*UnmatchedDeposit, error)

	// FindUnresolved lists unresolved deposits with pagination
	FindUnresolved(ctx context.Context, filter shared.Filter) (shared.Paginated[*UnmatchedDeposit], error)

	// Update persists changes to an unmatched deposit
	Update(ctx context.Context, u *UnmatchedDeposit) error
}
