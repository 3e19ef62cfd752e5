package donation

import (
	"context"

	"github.com/google/uuid"

	"github.com/givebridge/backend/internal/domain/donation"
	"github.com/givebridge/backend/internal/domain/shared"
)

// Service handles donation ledger operations
type Service struct {
	donationRepo   donation.DonationRepository
	eventPublisher shared.EventPublisher
}

// NewService creates a new donation Service
func NewService(donationRepo donation.DonationRepository) *Service {
	return &Service{
		donationRepo: donationRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new donation in PENDING status
func (s *Service) Create(ctx context.Context, req CreateDonationRequest) (*DonationResponse, error) {
	d, err := donation.NewDonation(req.DonorID, req.OrganizationID, req.BeneficiaryItemID, req.Amount, req.Message)
	if err != nil {
		return nil, err
	}

	if err := s.donationRepo.Save(ctx, d); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, d)

	response := ToDonationResponse(d)
	return &response, nil
}

// GetByID retrieves a donation by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*DonationResponse, error) {
	d, err := s.donationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToDonationResponse(d)
	return &response, nil
}

// List retrieves donations with filtering and pagination, newest first
func (s *Service) List(ctx context.Context, filter DonationListFilter) (shared.Paginated[DonationResponse], error) {
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
	if filter.DonorID != nil {
		domainFilter.Filters["donor_id"] = *filter.DonorID
	}
	if filter.OrganizationID != nil {
		domainFilter.Filters["organization_id"] = *filter.OrganizationID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = filter.Status.String()
	}

	page, err := s.donationRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[DonationResponse]{}, err
	}

	return shared.NewPaginated(ToDonationResponses(page.Items), page.Total, page.Page, page.PageSize), nil
}

// Transition moves a donation to the target status through the transition table
func (s *Service) Transition(ctx context.Context, id uuid.UUID, target donation.Status) (*DonationResponse, error) {
	d, err := s.donationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := d.TransitionTo(target); err != nil {
		return nil, err
	}

	if err := s.donationRepo.SaveWithLock(ctx, d); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, d)

	response := ToDonationResponse(d)
	return &response, nil
}

// ConfirmPayment confirms a donation's payment with the given bank reference.
// The repository applies the status guard atomically, so a donation is
// confirmed exactly once even under concurrent notifications.
func (s *Service) ConfirmPayment(ctx context.Context, id uuid.UUID, paymentReference string) (*DonationResponse, error) {
	d, err := s.donationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := d.ConfirmPayment(paymentReference); err != nil {
		return nil, err
	}

	if err := s.donationRepo.ConfirmPayment(ctx, d); err != nil {
		if shared.IsCode(err, shared.CodeConflict) {
			// lost the race: another notification confirmed it first
			return nil, shared.NewConflictError("Donation payment is already confirmed")
		}
		return nil, err
	}

	s.publishEvents(ctx, d)

	response := ToDonationResponse(d)
	return &response, nil
}

// MarkOrdered records that a marketplace order was created for the donation
func (s *Service) MarkOrdered(ctx context.Context, id uuid.UUID) (*DonationResponse, error) {
	d, err := s.donationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := d.MarkOrdered(); err != nil {
		return nil, err
	}

	if err := s.donationRepo.SaveWithLock(ctx, d); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, d)

	response := ToDonationResponse(d)
	return &response, nil
}

// MarkDelivered records that the purchased goods reached the beneficiary
func (s *Service) MarkDelivered(ctx context.Context, id uuid.UUID) (*DonationResponse, error) {
	d, err := s.donationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := d.MarkDelivered(); err != nil {
		return nil, err
	}

	if err := s.donationRepo.SaveWithLock(ctx, d); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, d)

	response := ToDonationResponse(d)
	return &response, nil
}

// Cancel cancels a PENDING donation
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*DonationResponse, error) {
	d, err := s.donationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := d.Cancel(); err != nil {
		return nil, err
	}

	if err := s.donationRepo.SaveWithLock(ctx, d); err != nil {
		return nil, err
	}

	response := ToDonationResponse(d)
	return &response, nil
}

// publishEvents publishes the aggregate's pending events and clears them.
// Event handling is async; publish failures never fail the operation.
func (s *Service) publishEvents(ctx context.Context, d *donation.Donation) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range d.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	d.ClearDomainEvents()
}
