package donation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/givebridge/backend/internal/domain/donation"
	"github.com/givebridge/backend/internal/domain/shared"
)

// DepositMatcher consumes bank deposit events and confirms the matching
// pending donation. A deposit that matches nothing is journaled as an
// unmatched deposit for manual reconciliation; deposits are never dropped.
type DepositMatcher struct {
	donationRepo     donation.DonationRepository
	unmatchedRepo    donation.UnmatchedDepositRepository
	strategy         donation.MatchStrategy
	idempotencyStore shared.IdempotencyStore
	idempotencyCfg   shared.IdempotencyConfig
	eventPublisher   shared.EventPublisher
	logger           *zap.Logger
}

// NewDepositMatcher creates a new DepositMatcher. A nil strategy falls back
// to the oldest-pending strategy.
func NewDepositMatcher(
	donationRepo donation.DonationRepository,
	unmatchedRepo donation.UnmatchedDepositRepository,
	strategy donation.MatchStrategy,
	idempotencyStore shared.IdempotencyStore,
	logger *zap.Logger,
) *DepositMatcher {
	if strategy == nil {
		strategy = donation.NewOldestPendingStrategy()
	}
	return &DepositMatcher{
		donationRepo:     donationRepo,
		unmatchedRepo:    unmatchedRepo,
		strategy:         strategy,
		idempotencyStore: idempotencyStore,
		idempotencyCfg:   shared.DefaultIdempotencyConfig(),
		logger:           logger,
	}
}

// SetEventPublisher sets the publisher for unmatched-deposit notifications
func (m *DepositMatcher) SetEventPublisher(publisher shared.EventPublisher) {
	m.eventPublisher = publisher
}

// EventTypes returns the event types this handler is interested in
func (m *DepositMatcher) EventTypes() []string {
	return []string{donation.EventTypeDepositReceived}
}

// Handle processes a DepositReceivedEvent
func (m *DepositMatcher) Handle(ctx context.Context, event shared.DomainEvent) error {
	received, ok := event.(*donation.DepositReceivedEvent)
	if !ok {
		m.logger.Error("unexpected event type",
			zap.String("expected", donation.EventTypeDepositReceived),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			donation.EventTypeDepositReceived, event.EventType())
	}

	return m.Match(ctx, received.Deposit)
}

// Match confirms the pending donation a deposit pays for. Redelivered
// notifications are dropped through the idempotency store; the repository's
// atomic confirm guards against concurrent double-confirmation regardless.
func (m *DepositMatcher) Match(ctx context.Context, dep donation.DepositEvent) error {
	if err := dep.Validate(); err != nil {
		return err
	}

	if m.idempotencyStore != nil && m.idempotencyCfg.Enabled {
		key := "deposit:" + dep.TransactionID
		fresh, err := m.idempotencyStore.MarkProcessed(ctx, key, m.idempotencyCfg.TTL)
		if err != nil {
			m.logger.Warn("idempotency check failed, continuing",
				zap.String("transaction_id", dep.TransactionID),
				zap.Error(err),
			)
		} else if !fresh {
			m.logger.Info("skipping redelivered deposit notification",
				zap.String("transaction_id", dep.TransactionID),
			)
			return nil
		}
	}

	candidates, err := m.donationRepo.FindPendingByOrganizationAndAmount(ctx, dep.OrganizationID, dep.Amount)
	if err != nil {
		return err
	}

	// Confirm the strategy's pick. A conflict means a concurrent deposit won
	// the row; drop the loser from the pool and let the strategy pick again.
	for len(candidates) > 0 {
		winner := m.strategy.Select(dep, candidates)
		if winner == nil {
			break
		}

		if err := winner.ConfirmPayment(dep.TransactionID); err != nil {
			return err
		}
		err := m.donationRepo.ConfirmPayment(ctx, winner)
		if err == nil {
			m.logger.Info("deposit matched to donation",
				zap.String("transaction_id", dep.TransactionID),
				zap.String("donation_id", winner.ID.String()),
				zap.String("strategy", m.strategy.Name()),
				zap.String("amount", dep.Amount.String()),
			)
			m.publishConfirmed(ctx, winner)
			return nil
		}
		if !shared.IsCode(err, shared.CodeConflict) {
			return err
		}

		m.logger.Debug("candidate confirmed concurrently, retrying with next",
			zap.String("donation_id", winner.ID.String()),
		)
		candidates = removeCandidate(candidates, winner)
	}

	return m.journalUnmatched(ctx, dep)
}

// journalUnmatched records a deposit that found no pending donation
func (m *DepositMatcher) journalUnmatched(ctx context.Context, dep donation.DepositEvent) error {
	reason := fmt.Sprintf("no pending donation with amount %s for organization %s",
		dep.Amount.String(), dep.OrganizationID)

	unmatched := donation.NewUnmatchedDeposit(dep, reason)
	if err := m.unmatchedRepo.Save(ctx, unmatched); err != nil {
		return err
	}

	m.logger.Warn("deposit left unmatched",
		zap.String("transaction_id", dep.TransactionID),
		zap.String("organization_id", dep.OrganizationID.String()),
		zap.String("amount", dep.Amount.String()),
		zap.String("depositor", dep.DepositorName),
	)

	if m.eventPublisher != nil {
		_ = m.eventPublisher.Publish(ctx, donation.NewDepositUnmatchedEvent(dep, reason))
	}

	return nil
}

func (m *DepositMatcher) publishConfirmed(ctx context.Context, d *donation.Donation) {
	if m.eventPublisher == nil {
		return
	}
	for _, event := range d.GetDomainEvents() {
		_ = m.eventPublisher.Publish(ctx, event)
	}
	d.ClearDomainEvents()
}

func removeCandidate(candidates []*donation.Donation, d *donation.Donation) []*donation.Donation {
	out := candidates[:0]
	for _, c := range candidates {
		if c.ID != d.ID {
			out = append(out, c)
		}
	}
	return out
}

var _ shared.EventHandler = (*DepositMatcher)(nil)
