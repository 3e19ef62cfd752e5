package fulfillment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	donationapp "github.com/givebridge/backend/internal/application/donation"
	"github.com/givebridge/backend/internal/domain/fulfillment"
)

// defaultScanLimit caps the orders examined per tracker run
const defaultScanLimit = 200

// ShippingTracker polls the marketplace for the delivery progress of orders
// in flight. One failing order never stops the scan; its error is logged and
// the run moves on.
type ShippingTracker struct {
	orderRepo       fulfillment.OrderRepository
	donationService *donationapp.Service
	marketplace     fulfillment.Marketplace
	notifier        fulfillment.Notifier
	logger          *zap.Logger
	scanLimit       int
}

// NewShippingTracker creates a new ShippingTracker
func NewShippingTracker(
	orderRepo fulfillment.OrderRepository,
	donationService *donationapp.Service,
	marketplace fulfillment.Marketplace,
	notifier fulfillment.Notifier,
	logger *zap.Logger,
) *ShippingTracker {
	return &ShippingTracker{
		orderRepo:       orderRepo,
		donationService: donationService,
		marketplace:     marketplace,
		notifier:        notifier,
		logger:          logger,
		scanLimit:       defaultScanLimit,
	}
}

// SetScanLimit overrides the per-run cap on orders examined. Values <= 0 are
// ignored.
func (t *ShippingTracker) SetScanLimit(limit int) {
	if limit > 0 {
		t.scanLimit = limit
	}
}

// RunOnce scans all in-flight orders and advances those whose upstream status
// moved. Returns a summary of the scan.
func (t *ShippingTracker) RunOnce(ctx context.Context) (TrackerRunResult, error) {
	orders, err := t.orderRepo.FindInFlight(ctx, t.scanLimit)
	if err != nil {
		return TrackerRunResult{}, err
	}

	result := TrackerRunResult{Scanned: len(orders)}
	for _, order := range orders {
		updated, err := t.trackOrder(ctx, order)
		if err != nil {
			result.Failed++
			t.logger.Error("tracking order failed",
				zap.String("order_id", order.ID.String()),
				zap.String("status", order.Status.String()),
				zap.Error(err),
			)
			continue
		}
		if updated {
			result.Updated++
		}
	}

	t.logger.Info("shipping tracker run finished",
		zap.Int("scanned", result.Scanned),
		zap.Int("updated", result.Updated),
		zap.Int("failed", result.Failed),
	)

	return result, nil
}

// trackOrder reconciles one order against the marketplace status. Returns
// true when the order advanced.
func (t *ShippingTracker) trackOrder(ctx context.Context, order *fulfillment.Order) (bool, error) {
	if order.MarketplaceOrderID == nil {
		return false, fmt.Errorf("in-flight order %s has no marketplace order id", order.ID)
	}

	upstream, err := t.marketplace.GetOrderStatus(ctx, *order.MarketplaceOrderID)
	if err != nil {
		return false, err
	}

	target, ok := mapMarketplaceStatus(upstream.Status)
	if !ok {
		return false, fmt.Errorf("unknown marketplace status %q", upstream.Status)
	}
	if target == order.Status {
		return false, nil
	}

	switch target {
	case fulfillment.OrderStatusPreparing:
		if err := order.MarkPreparing(); err != nil {
			return false, err
		}
	case fulfillment.OrderStatusShipped:
		tracking, err := t.marketplace.GetTracking(ctx, *order.MarketplaceOrderID)
		if err != nil {
			return false, err
		}
		if err := order.MarkShipped(tracking.TrackingNumber, tracking.Carrier); err != nil {
			return false, err
		}
	case fulfillment.OrderStatusDelivered:
		// an order can go straight to DELIVERED between two scans
		if order.Status != fulfillment.OrderStatusShipped {
			if err := order.MarkShipped("", ""); err != nil {
				return false, err
			}
		}
		if err := order.MarkDelivered(); err != nil {
			return false, err
		}
	case fulfillment.OrderStatusCancelled:
		if err := order.Cancel("cancelled by marketplace"); err != nil {
			return false, err
		}
	default:
		return false, nil
	}

	if err := t.orderRepo.SaveWithLock(ctx, order); err != nil {
		return false, err
	}

	if order.Status == fulfillment.OrderStatusDelivered {
		t.onDelivered(ctx, order)
	}

	return true, nil
}

// onDelivered cascades delivery to the donation and notifies the donor.
// The notification is fire-and-forget.
func (t *ShippingTracker) onDelivered(ctx context.Context, order *fulfillment.Order) {
	resp, err := t.donationService.MarkDelivered(ctx, order.DonationID)
	if err != nil {
		t.logger.Error("marking donation delivered failed",
			zap.String("order_id", order.ID.String()),
			zap.String("donation_id", order.DonationID.String()),
			zap.Error(err),
		)
		return
	}

	if t.notifier != nil {
		t.notifier.Send(ctx, fulfillment.Notification{
			Recipient: resp.DonorID,
			Subject:   "Your donation was delivered",
			Body:      fmt.Sprintf("The items for your donation reached %s.", order.RecipientName),
		})
	}
}

// mapMarketplaceStatus maps upstream statuses to local order statuses
func mapMarketplaceStatus(s fulfillment.MarketplaceOrderStatus) (fulfillment.OrderStatus, bool) {
	switch s {
	case fulfillment.MarketplaceStatusAccepted:
		return fulfillment.OrderStatusAccepted, true
	case fulfillment.MarketplaceStatusPreparing:
		return fulfillment.OrderStatusPreparing, true
	case fulfillment.MarketplaceStatusShipped:
		return fulfillment.OrderStatusShipped, true
	case fulfillment.MarketplaceStatusDelivered:
		return fulfillment.OrderStatusDelivered, true
	case fulfillment.MarketplaceStatusCancelled:
		return fulfillment.OrderStatusCancelled, true
	}
	return "", false
}
