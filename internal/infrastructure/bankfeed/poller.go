package bankfeed

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/givebridge/backend/internal/domain/donation"
	"github.com/givebridge/backend/internal/domain/partner"
	"github.com/givebridge/backend/internal/domain/shared"
)

// PollerConfig holds configuration for the deposit feed poller
type PollerConfig struct {
	// Interval is how often the feed is polled
	Interval time.Duration
	// Lookback is how far back the first poll reaches
	Lookback time.Duration
}

// DefaultPollerConfig returns default poller configuration
func DefaultPollerConfig() PollerConfig {
	return PollerConfig{
		Interval: 30 * time.Second,
		Lookback: 24 * time.Hour,
	}
}

// Poller periodically pulls deposit transactions from the bank feed, resolves
// the owning organization by virtual account, and publishes each deposit as a
// DepositReceivedEvent. Redeliveries are harmless: the deposit matcher dedupes
// by transaction ID.
type Poller struct {
	config    PollerConfig
	feed      FeedSource
	orgRepo   partner.OrganizationRepository
	publisher shared.EventPublisher
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	cursor    time.Time
}

// NewPoller creates a new deposit feed poller
func NewPoller(
	config PollerConfig,
	feed FeedSource,
	orgRepo partner.OrganizationRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *Poller {
	if config.Interval <= 0 {
		config.Interval = DefaultPollerConfig().Interval
	}
	if config.Lookback <= 0 {
		config.Lookback = DefaultPollerConfig().Lookback
	}
	return &Poller{
		config:    config,
		feed:      feed,
		orgRepo:   orgRepo,
		publisher: publisher,
		logger:    logger,
		cursor:    time.Now().Add(-config.Lookback),
	}
}

// Start starts the polling loop
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.isRunning {
		p.mu.Unlock()
		return nil
	}
	p.isRunning = true
	p.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.runLoop(ctx)

	p.logger.Info("Deposit feed poller started",
		zap.Duration("interval", p.config.Interval),
	)
	return nil
}

// Stop stops the polling loop
func (p *Poller) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return nil
	}
	p.isRunning = false
	p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("Deposit feed poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Poller) runLoop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.PollOnce(ctx); err != nil {
				p.logger.Error("deposit feed poll failed", zap.Error(err))
			}
		}
	}
}

// PollOnce fetches transactions newer than the cursor and publishes a deposit
// event per transaction. The cursor only advances past transactions that were
// published, so a feed outage never skips deposits.
func (p *Poller) PollOnce(ctx context.Context) error {
	p.mu.Lock()
	since := p.cursor
	p.mu.Unlock()

	transactions, err := p.feed.FetchSince(ctx, since)
	if err != nil {
		return err
	}
	if len(transactions) == 0 {
		return nil
	}

	published := 0
	newCursor := since
	for _, txn := range transactions {
		if err := p.publishDeposit(ctx, txn); err != nil {
			p.logger.Error("failed to publish deposit, will retry next poll",
				zap.String("transaction_id", txn.TransactionID),
				zap.Error(err),
			)
			break
		}
		published++
		if txn.OccurredAt.After(newCursor) {
			newCursor = txn.OccurredAt
		}
	}

	p.mu.Lock()
	if newCursor.After(p.cursor) {
		p.cursor = newCursor
	}
	p.mu.Unlock()

	p.logger.Info("deposit feed poll completed",
		zap.Int("fetched", len(transactions)),
		zap.Int("published", published),
	)
	return nil
}

// publishDeposit resolves the owning organization and publishes the deposit
func (p *Poller) publishDeposit(ctx context.Context, txn Transaction) error {
	org, err := p.orgRepo.FindByVirtualAccount(ctx, txn.Bank, txn.Account)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// No organization owns this account. Nothing to match against;
			// log loudly and move on.
			p.logger.Warn("deposit for unknown virtual account",
				zap.String("transaction_id", txn.TransactionID),
				zap.String("bank", txn.Bank),
				zap.String("account", txn.Account),
				zap.String("amount", txn.Amount.String()),
			)
			return nil
		}
		return err
	}

	dep := donation.DepositEvent{
		TransactionID:  txn.TransactionID,
		OrganizationID: org.ID,
		Account:        txn.Account,
		Amount:         txn.Amount,
		DepositorName:  txn.DepositorName,
		Memo:           txn.Memo,
		OccurredAt:     txn.OccurredAt,
	}
	return p.publisher.Publish(ctx, donation.NewDepositReceivedEvent(dep))
}
