package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/givebridge/backend/internal/domain/donation"
	"github.com/givebridge/backend/internal/domain/partner"
	"github.com/givebridge/backend/internal/domain/settlement"
	"github.com/givebridge/backend/internal/domain/shared"
)

// batchIdempotencyTTL keeps a batch key long enough to cover any schedule
// double-fire, including a monthly one
const batchIdempotencyTTL = 35 * 24 * time.Hour

// BatchService creates settlements for organizations on their schedule.
// Weekly and monthly runs are independent; each organization is settled in
// its own transaction so one failure never blocks the rest of the run.
type BatchService struct {
	donationRepo     donation.DonationRepository
	settlementRepo   settlement.SettlementRepository
	organizationRepo partner.OrganizationRepository
	txManager        shared.TransactionManager
	idempotencyStore shared.IdempotencyStore
	eventPublisher   shared.EventPublisher
	logger           *zap.Logger
}

// NewBatchService creates a new BatchService
func NewBatchService(
	donationRepo donation.DonationRepository,
	settlementRepo settlement.SettlementRepository,
	organizationRepo partner.OrganizationRepository,
	txManager shared.TransactionManager,
	idempotencyStore shared.IdempotencyStore,
	logger *zap.Logger,
) *BatchService {
	return &BatchService{
		donationRepo:     donationRepo,
		settlementRepo:   settlementRepo,
		organizationRepo: organizationRepo,
		txManager:        txManager,
		idempotencyStore: idempotencyStore,
		logger:           logger,
	}
}

// SetEventPublisher sets the event publisher for settlement notifications
func (s *BatchService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// RunWeekly settles all active organizations on the weekly cycle
func (s *BatchService) RunWeekly(ctx context.Context) (BatchRunResult, error) {
	return s.run(ctx, partner.CycleWeekly, settlement.WeeklyPeriod(time.Now()))
}

// RunMonthly settles all active organizations on the monthly cycle
func (s *BatchService) RunMonthly(ctx context.Context) (BatchRunResult, error) {
	return s.run(ctx, partner.CycleMonthly, settlement.MonthlyPeriod(time.Now()))
}

func (s *BatchService) run(ctx context.Context, cycle partner.SettlementCycle, period string) (BatchRunResult, error) {
	orgs, err := s.organizationRepo.FindActiveByCycle(ctx, cycle)
	if err != nil {
		return BatchRunResult{}, err
	}

	result := BatchRunResult{
		Cycle:         cycle.String(),
		Period:        period,
		Organizations: len(orgs),
	}

	for _, org := range orgs {
		created, err := s.settleOrganization(ctx, org.ID, period)
		switch {
		case err != nil:
			result.Failed++
			s.logger.Error("settling organization failed",
				zap.String("organization_id", org.ID.String()),
				zap.String("period", period),
				zap.Error(err),
			)
		case created != nil:
			result.Created++
		default:
			result.Skipped++
		}
	}

	s.logger.Info("settlement batch run finished",
		zap.String("cycle", result.Cycle),
		zap.String("period", result.Period),
		zap.Int("organizations", result.Organizations),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)

	return result, nil
}

// settleOrganization creates one settlement for an organization's eligible
// donations. Returns nil when there is nothing to settle or the period was
// already handled. The idempotency key guards a double-fired schedule; the
// claim predicate (settlement_id IS NULL) makes double-settlement impossible
// even without it.
func (s *BatchService) settleOrganization(ctx context.Context, organizationID uuid.UUID, period string) (*SettlementResponse, error) {
	if s.idempotencyStore != nil {
		key := fmt.Sprintf("settlement:%s:%s", organizationID, period)
		fresh, err := s.idempotencyStore.MarkProcessed(ctx, key, batchIdempotencyTTL)
		if err != nil {
			s.logger.Warn("idempotency check failed, continuing",
				zap.String("organization_id", organizationID.String()),
				zap.Error(err),
			)
		} else if !fresh {
			s.logger.Info("skipping already settled period",
				zap.String("organization_id", organizationID.String()),
				zap.String("period", period),
			)
			return nil, nil
		}
	}

	var created *settlement.Settlement
	err := s.txManager.Do(ctx, func(tx any) error {
		donationRepo := s.donationRepo.WithTx(tx)
		settlementRepo := s.settlementRepo.WithTx(tx)

		candidates, err := donationRepo.FindSettleableByOrganization(ctx, organizationID)
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			return nil
		}

		total := decimal.Zero
		ids := make([]uuid.UUID, 0, len(candidates))
		for _, d := range candidates {
			total = total.Add(d.Amount)
			ids = append(ids, d.ID)
		}

		batch, err := settlement.NewSettlement(organizationID, total, len(ids), period, time.Now())
		if err != nil {
			return err
		}
		if err := settlementRepo.Save(ctx, batch); err != nil {
			return err
		}

		claimed, err := donationRepo.ClaimForSettlement(ctx, batch.ID, ids)
		if err != nil {
			return err
		}
		if claimed != int64(len(ids)) {
			// another claimer took part of the set between select and update
			return shared.ErrConcurrencyConflict
		}

		created = batch
		return nil
	})
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, nil
	}

	s.logger.Info("settlement created",
		zap.String("settlement_id", created.ID.String()),
		zap.String("organization_id", organizationID.String()),
		zap.String("period", period),
		zap.String("total", created.TotalAmount.String()),
		zap.Int("donations", created.DonationCount),
	)
	s.publishEvents(ctx, created)

	response := ToSettlementResponse(created)
	return &response, nil
}

// CreateSettlement is the explicit API path: settle a caller-chosen set of
// donations for one organization, with the same claim transaction the batch
// runs use.
func (s *BatchService) CreateSettlement(ctx context.Context, req CreateSettlementRequest) (*SettlementResponse, error) {
	if len(req.DonationIDs) == 0 {
		return nil, shared.NewValidationError("Donation IDs cannot be empty")
	}

	var created *settlement.Settlement
	err := s.txManager.Do(ctx, func(tx any) error {
		donationRepo := s.donationRepo.WithTx(tx)
		settlementRepo := s.settlementRepo.WithTx(tx)

		requested := make(map[uuid.UUID]bool, len(req.DonationIDs))
		for _, id := range req.DonationIDs {
			requested[id] = true
		}

		candidates, err := donationRepo.FindSettleableByOrganization(ctx, req.OrganizationID)
		if err != nil {
			return err
		}

		total := decimal.Zero
		matched := 0
		for _, d := range candidates {
			if requested[d.ID] {
				total = total.Add(d.Amount)
				matched++
			}
		}
		if matched != len(req.DonationIDs) {
			return shared.NewPreconditionFailedError(
				"All donations must belong to the organization and be eligible for settlement")
		}

		// Random suffix keeps two manual settlements for the same organization
		// in the same second from colliding on the unique (org, period) index.
		period := "manual-" + time.Now().Format("20060102-150405") + "-" + uuid.NewString()[:8]
		batch, err := settlement.NewSettlement(req.OrganizationID, total, matched, period, time.Now())
		if err != nil {
			return err
		}
		if err := settlementRepo.Save(ctx, batch); err != nil {
			return err
		}

		claimed, err := donationRepo.ClaimForSettlement(ctx, batch.ID, req.DonationIDs)
		if err != nil {
			return err
		}
		if claimed != int64(len(req.DonationIDs)) {
			return shared.ErrConcurrencyConflict
		}

		created = batch
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, created)

	response := ToSettlementResponse(created)
	return &response, nil
}

func (s *BatchService) publishEvents(ctx context.Context, batch *settlement.Settlement) {
	if s.eventPublisher == nil || batch == nil {
		return
	}
	for _, event := range batch.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	batch.ClearDomainEvents()
}
