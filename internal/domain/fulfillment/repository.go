package fulfillment

import (
	"context"

	"github.com/google/uuid"

	"github.com/givebridge/backend/internal/domain/shared"
)

// OrderRepository defines the persistence interface for purchase orders
type OrderRepository interface {
	// Save persists a new order with its products. The donation_id unique
	// constraint maps a duplicate to ErrAlreadyExists.
	Save(ctx context.Context, o *Order) error

	// SaveWithLock persists changes with optimistic locking on the version
	// column. Returns ErrConcurrencyConflict when the version moved.
	SaveWithLock(ctx context.Context, o *Order) error

	// FindByID retrieves an order with its products
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByDonationID retrieves the order placed for a donation
	FindByDonationID(ctx context.Context, donationID uuid.UUID) (*Order, error)

	// FindInFlight returns orders in ACCEPTED, PREPARING or SHIPPED status,
	// oldest first. Used by the shipping tracker scan.
	FindInFlight(ctx context.Context, limit int) ([]*Order, error)

	// FindAll retrieves orders matching the filter with pagination
	FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*Order], error)
}
