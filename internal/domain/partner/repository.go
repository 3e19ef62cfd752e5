package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/givebridge/backend/internal/domain/shared"
)

// OrganizationRepository defines the persistence interface for organizations
type OrganizationRepository interface {
	// Save persists a new organization
	Save(ctx context.Context, o *Organization) error

	// Update persists changes to an organization
	Update(ctx context.Context, o *Organization) error

	// FindByID retrieves an organization by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Organization, error)

	// FindByVirtualAccount resolves an organization from a deposit feed
	// account string, or ErrNotFound
	FindByVirtualAccount(ctx context.Context, bank, number string) (*Organization, error)

	// FindActiveByCycle returns all active organizations on the given
	// settlement schedule. Used by the settlement batch runs.
	FindActiveByCycle(ctx context.Context, cycle SettlementCycle) ([]*Organization, error)

	// FindAll retrieves organizations matching the filter with pagination
	FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*Organization], error)
}
