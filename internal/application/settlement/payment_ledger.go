package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/givebridge/backend/internal/domain/fulfillment"
	"github.com/givebridge/backend/internal/domain/settlement"
	"github.com/givebridge/backend/internal/domain/shared"
)

// DefaultPaymentTermsDays is how long after acceptance a marketplace payment
// is scheduled when no terms are configured
const DefaultPaymentTermsDays = 14

// PaymentLedger tracks what the platform owes the marketplace. It opens a
// PENDING record when an order is accepted and completes records when the
// covering settlement pays out.
type PaymentLedger struct {
	paymentRepo      settlement.MarketplacePaymentRepository
	paymentTermsDays int
	logger           *zap.Logger
}

// NewPaymentLedger creates a new PaymentLedger. termsDays <= 0 falls back to
// the default payment terms.
func NewPaymentLedger(paymentRepo settlement.MarketplacePaymentRepository, termsDays int, logger *zap.Logger) *PaymentLedger {
	if termsDays <= 0 {
		termsDays = DefaultPaymentTermsDays
	}
	return &PaymentLedger{
		paymentRepo:      paymentRepo,
		paymentTermsDays: termsDays,
		logger:           logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (l *PaymentLedger) EventTypes() []string {
	return []string{fulfillment.EventTypeOrderAccepted}
}

// Handle opens a payment record when the marketplace accepts an order
func (l *PaymentLedger) Handle(ctx context.Context, event shared.DomainEvent) error {
	accepted, ok := event.(*fulfillment.OrderAcceptedEvent)
	if !ok {
		l.logger.Error("unexpected event type",
			zap.String("expected", fulfillment.EventTypeOrderAccepted),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			fulfillment.EventTypeOrderAccepted, event.EventType())
	}

	payment, err := settlement.NewMarketplacePayment(
		accepted.OrderID,
		accepted.TotalAmount,
		accepted.OccurredAt().AddDate(0, 0, l.paymentTermsDays),
	)
	if err != nil {
		return err
	}

	if err := l.paymentRepo.Save(ctx, payment); err != nil {
		if shared.IsCode(err, shared.CodeConflict) {
			// redelivered acceptance event, record already open
			return nil
		}
		return err
	}

	l.logger.Info("marketplace payment opened",
		zap.String("order_id", accepted.OrderID.String()),
		zap.String("amount", accepted.TotalAmount.String()),
		zap.Time("scheduled", payment.ScheduledDate),
	)

	return nil
}

// CompleteForOrder completes the payment record covering an order, creating
// it from the order total first when acceptance was never recorded.
func (l *PaymentLedger) CompleteForOrder(ctx context.Context, order *fulfillment.Order, paymentReference string) error {
	payment, err := l.paymentRepo.FindByOrderID(ctx, order.ID)
	if err != nil {
		if !shared.IsCode(err, shared.CodeNotFound) {
			return err
		}
		payment, err = settlement.NewMarketplacePayment(order.ID, order.TotalAmount, time.Now())
		if err != nil {
			return err
		}
		if err := l.paymentRepo.Save(ctx, payment); err != nil {
			return err
		}
		l.logger.Warn("marketplace payment was missing, created from order total",
			zap.String("order_id", order.ID.String()),
			zap.String("amount", order.TotalAmount.String()),
		)
	}

	if err := payment.Complete(paymentReference); err != nil {
		return err
	}

	return l.paymentRepo.Update(ctx, payment)
}

// GetByOrderID retrieves the payment record for an order
func (l *PaymentLedger) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*MarketplacePaymentResponse, error) {
	payment, err := l.paymentRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToMarketplacePaymentResponse(payment)
	return &response, nil
}

// ListByStatus lists payment records in a status
func (l *PaymentLedger) ListByStatus(ctx context.Context, status settlement.PaymentStatus, filter shared.Filter) (shared.Paginated[MarketplacePaymentResponse], error) {
	page, err := l.paymentRepo.FindByStatus(ctx, status, filter)
	if err != nil {
		return shared.Paginated[MarketplacePaymentResponse]{}, err
	}

	items := make([]MarketplacePaymentResponse, 0, len(page.Items))
	for _, p := range page.Items {
		items = append(items, ToMarketplacePaymentResponse(p))
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

var _ shared.EventHandler = (*PaymentLedger)(nil)
