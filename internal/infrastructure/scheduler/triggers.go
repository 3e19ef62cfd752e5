package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	appfulfillment "github.com/givebridge/backend/internal/application/fulfillment"
	appsettlement "github.com/givebridge/backend/internal/application/settlement"
)

// ShipmentScanner advances in-flight orders by polling the marketplace
type ShipmentScanner interface {
	RunOnce(ctx context.Context) (appfulfillment.TrackerRunResult, error)
}

// SettlementRunner opens settlement batches for organizations whose cycle is due
type SettlementRunner interface {
	RunWeekly(ctx context.Context) (appsettlement.BatchRunResult, error)
	RunMonthly(ctx context.Context) (appsettlement.BatchRunResult, error)
}

// NewShippingTrackerTrigger wires the shipping tracker scan onto an interval.
// Runs are idempotent, so overlapping or doubled ticks are harmless.
func NewShippingTrackerTrigger(interval time.Duration, scanner ShipmentScanner, logger *zap.Logger) *IntervalTrigger {
	return NewIntervalTrigger("shipping-tracker", interval, func(ctx context.Context) error {
		result, err := scanner.RunOnce(ctx)
		if err != nil {
			return err
		}
		logger.Info("shipping tracker scan completed",
			zap.Int("scanned", result.Scanned),
			zap.Int("updated", result.Updated),
			zap.Int("failed", result.Failed),
		)
		return nil
	}, logger)
}

// NewWeeklySettlementTrigger wires the weekly settlement batch onto an
// interval. The batch itself dedupes by organization and period, so the
// trigger can wake far more often than once a week.
func NewWeeklySettlementTrigger(interval time.Duration, runner SettlementRunner, logger *zap.Logger) *IntervalTrigger {
	return NewIntervalTrigger("weekly-settlement", interval, func(ctx context.Context) error {
		result, err := runner.RunWeekly(ctx)
		if err != nil {
			return err
		}
		logBatchResult(logger, result)
		return nil
	}, logger)
}

// NewMonthlySettlementTrigger wires the monthly settlement batch onto an interval
func NewMonthlySettlementTrigger(interval time.Duration, runner SettlementRunner, logger *zap.Logger) *IntervalTrigger {
	return NewIntervalTrigger("monthly-settlement", interval, func(ctx context.Context) error {
		result, err := runner.RunMonthly(ctx)
		if err != nil {
			return err
		}
		logBatchResult(logger, result)
		return nil
	}, logger)
}

func logBatchResult(logger *zap.Logger, result appsettlement.BatchRunResult) {
	logger.Info("settlement batch run completed",
		zap.String("cycle", result.Cycle),
		zap.String("period", result.Period),
		zap.Int("organizations", result.Organizations),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
}
