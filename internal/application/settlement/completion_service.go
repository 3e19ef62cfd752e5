package settlement

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/givebridge/backend/internal/domain/donation"
	"github.com/givebridge/backend/internal/domain/fulfillment"
	"github.com/givebridge/backend/internal/domain/settlement"
	"github.com/givebridge/backend/internal/domain/shared"
)

// CompletionService records settlement payouts and cascades completion to
// member donations and the marketplace payment ledger.
type CompletionService struct {
	settlementRepo settlement.SettlementRepository
	donationRepo   donation.DonationRepository
	orderRepo      fulfillment.OrderRepository
	paymentLedger  *PaymentLedger
	txManager      shared.TransactionManager
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewCompletionService creates a new CompletionService
func NewCompletionService(
	settlementRepo settlement.SettlementRepository,
	donationRepo donation.DonationRepository,
	orderRepo fulfillment.OrderRepository,
	paymentLedger *PaymentLedger,
	txManager shared.TransactionManager,
	logger *zap.Logger,
) *CompletionService {
	return &CompletionService{
		settlementRepo: settlementRepo,
		donationRepo:   donationRepo,
		orderRepo:      orderRepo,
		paymentLedger:  paymentLedger,
		txManager:      txManager,
		logger:         logger,
	}
}

// SetEventPublisher sets the event publisher for settlement notifications
func (s *CompletionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CompleteSettlement records the payout for a settlement. Completion is
// final: a second call conflicts and changes nothing. Member donations move
// to SETTLEMENT_COMPLETED and the marketplace payments covering their orders
// are completed with a reference derived from the settlement ID.
func (s *CompletionService) CompleteSettlement(ctx context.Context, id uuid.UUID, paymentReference string) (*SettlementResponse, error) {
	var completed *settlement.Settlement
	var members []*donation.Donation

	err := s.txManager.Do(ctx, func(tx any) error {
		settlementRepo := s.settlementRepo.WithTx(tx)
		donationRepo := s.donationRepo.WithTx(tx)

		batch, err := settlementRepo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if err := batch.Complete(paymentReference); err != nil {
			return err
		}
		if err := settlementRepo.SaveWithLock(ctx, batch); err != nil {
			return err
		}

		members, err = donationRepo.FindBySettlementID(ctx, id)
		if err != nil {
			return err
		}
		if _, err := donationRepo.CompleteBySettlement(ctx, id); err != nil {
			return err
		}

		completed = batch
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("settlement completed",
		zap.String("settlement_id", completed.ID.String()),
		zap.String("organization_id", completed.OrganizationID.String()),
		zap.String("payment_reference", paymentReference),
		zap.Int("donations", len(members)),
	)

	s.reconcilePayments(ctx, completed, members)
	s.publishEvents(ctx, completed)

	response := ToSettlementResponse(completed)
	return &response, nil
}

// reconcilePayments completes the marketplace payment for every member order.
// A missing payment record is created from the order total first. Failures
// are logged per order; reconciliation never unwinds a completed settlement.
func (s *CompletionService) reconcilePayments(ctx context.Context, batch *settlement.Settlement, members []*donation.Donation) {
	reference := "STL-" + batch.ID.String()

	for _, member := range members {
		order, err := s.orderRepo.FindByDonationID(ctx, member.ID)
		if err != nil {
			if shared.IsCode(err, shared.CodeNotFound) {
				// donation settled without an order (e.g. direct fund transfer)
				continue
			}
			s.logger.Error("order lookup for payment reconciliation failed",
				zap.String("donation_id", member.ID.String()),
				zap.Error(err),
			)
			continue
		}

		if err := s.paymentLedger.CompleteForOrder(ctx, order, reference); err != nil {
			s.logger.Error("marketplace payment reconciliation failed",
				zap.String("order_id", order.ID.String()),
				zap.String("settlement_id", batch.ID.String()),
				zap.Error(err),
			)
		}
	}
}

// GetByID retrieves a settlement by ID
func (s *CompletionService) GetByID(ctx context.Context, id uuid.UUID) (*SettlementResponse, error) {
	batch, err := s.settlementRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSettlementResponse(batch)
	return &response, nil
}

// List retrieves settlements with filtering and pagination
func (s *CompletionService) List(ctx context.Context, filter SettlementListFilter) (shared.Paginated[SettlementResponse], error) {
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
	if filter.OrganizationID != nil {
		domainFilter.Filters["organization_id"] = *filter.OrganizationID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = filter.Status.String()
	}

	page, err := s.settlementRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[SettlementResponse]{}, err
	}

	return shared.NewPaginated(ToSettlementResponses(page.Items), page.Total, page.Page, page.PageSize), nil
}

func (s *CompletionService) publishEvents(ctx context.Context, batch *settlement.Settlement) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range batch.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	batch.ClearDomainEvents()
}
