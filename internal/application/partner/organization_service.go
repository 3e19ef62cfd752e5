package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/givebridge/backend/internal/domain/partner"
	"github.com/givebridge/backend/internal/domain/shared"
)

// OrganizationService handles partner organization management
type OrganizationService struct {
	orgRepo partner.OrganizationRepository
}

// NewOrganizationService creates a new OrganizationService
func NewOrganizationService(orgRepo partner.OrganizationRepository) *OrganizationService {
	return &OrganizationService{
		orgRepo: orgRepo,
	}
}

// Create registers a new partner organization
func (s *OrganizationService) Create(ctx context.Context, req CreateOrganizationRequest) (*OrganizationResponse, error) {
	o, err := partner.NewOrganization(req.Name, req.ContactEmail, partner.SettlementCycle(req.SettlementCycle))
	if err != nil {
		return nil, err
	}

	if err := s.orgRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	response := ToOrganizationResponse(o)
	return &response, nil
}

// GetByID retrieves an organization by ID
func (s *OrganizationService) GetByID(ctx context.Context, id uuid.UUID) (*OrganizationResponse, error) {
	o, err := s.orgRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOrganizationResponse(o)
	return &response, nil
}

// List retrieves organizations with filtering and pagination
func (s *OrganizationService) List(ctx context.Context, filter OrganizationListFilter) (shared.Paginated[OrganizationResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	if filter.Cycle != nil {
		domainFilter.Filters["settlement_cycle"] = filter.Cycle.String()
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}

	page, err := s.orgRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[OrganizationResponse]{}, err
	}

	return shared.NewPaginated(ToOrganizationResponses(page.Items), page.Total, page.Page, page.PageSize), nil
}

// AssignVirtualAccount sets the deposit account donors pay into.
// The account must be unique across organizations so deposit feed
// transactions resolve to exactly one of them.
func (s *OrganizationService) AssignVirtualAccount(ctx context.Context, id uuid.UUID, req AssignAccountRequest) (*OrganizationResponse, error) {
	existing, err := s.orgRepo.FindByVirtualAccount(ctx, req.Bank, req.Number)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}
	if existing != nil && existing.ID != id {
		return nil, shared.NewConflictError("Virtual account is already assigned to another organization")
	}

	o, err := s.orgRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := o.AssignVirtualAccount(req.Bank, req.Number); err != nil {
		return nil, err
	}

	if err := s.orgRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	response := ToOrganizationResponse(o)
	return &response, nil
}

// ChangeSettlementCycle switches the organization between batch schedules
func (s *OrganizationService) ChangeSettlementCycle(ctx context.Context, id uuid.UUID, cycle partner.SettlementCycle) (*OrganizationResponse, error) {
	o, err := s.orgRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := o.ChangeSettlementCycle(cycle); err != nil {
		return nil, err
	}

	if err := s.orgRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	response := ToOrganizationResponse(o)
	return &response, nil
}

// Activate returns the organization to batch schedules and deposit matching
func (s *OrganizationService) Activate(ctx context.Context, id uuid.UUID) (*OrganizationResponse, error) {
	return s.setActive(ctx, id, true)
}

// Deactivate removes the organization from batch schedules
func (s *OrganizationService) Deactivate(ctx context.Context, id uuid.UUID) (*OrganizationResponse, error) {
	return s.setActive(ctx, id, false)
}

func (s *OrganizationService) setActive(ctx context.Context, id uuid.UUID, active bool) (*OrganizationResponse, error) {
	o, err := s.orgRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if active {
		o.Activate()
	} else {
		o.Deactivate()
	}

	if err := s.orgRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	response := ToOrganizationResponse(o)
	return &response, nil
}
