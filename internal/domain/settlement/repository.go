package settlement

import (
	"context"

	"github.com/google/uuid"

	"github.com/givebridge/backend/internal/domain/shared"
)

// SettlementRepository defines the persistence interface for settlements
type SettlementRepository interface {
	// Save persists a new settlement
	Save(ctx context.Context, s *Settlement) error

	// SaveWithLock persists changes with optimistic locking on the version
	// column. Returns ErrConcurrencyConflict when the version moved.
	SaveWithLock(ctx context.Context, s *Settlement) error

	// FindByID retrieves a settlement by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Settlement, error)

	// FindByIDForUpdate retrieves a settlement with a row lock. Must run
	// inside a transaction; serializes concurrent completion attempts.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Settlement, error)

	// FindByOrganizationAndPeriod retrieves the settlement a batch run
	// created for an organization in a period, or ErrNotFound
	FindByOrganizationAndPeriod(ctx context.Context, organizationID uuid.UUID, period string) (*Settlement, error)

	// FindAll retrieves settlements matching the filter with pagination
	FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*Settlement], error)

	// WithTx returns a repository bound to the given transaction handle
	WithTx(tx any) SettlementRepository
}

// MarketplacePaymentRepository persists marketplace payment obligations
type MarketplacePaymentRepository interface {
	// Save persists a new payment record. The order_id unique constraint
	// maps a duplicate to ErrAlreadyExists.
	Save(ctx context.Context, p *MarketplacePayment) error

	// Update persists changes to a payment record
	Update(ctx context.Context, p *MarketplacePayment) error

	// FindByOrderID retrieves the payment record for an order, or ErrNotFound
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*MarketplacePayment, error)

	// FindByStatus lists payment records in the given status with pagination
	FindByStatus(ctx context.Context, status PaymentStatus, filter shared.Filter) (shared.Paginated[*MarketplacePayment], error)

	// WithTx returns a repository bound to the given transaction handle
	WithTx(tx any) MarketplacePaymentRepository
}
