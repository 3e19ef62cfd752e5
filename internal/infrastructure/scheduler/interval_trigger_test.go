package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appfulfillment "github.com/givebridge/backend/internal/application/fulfillment"
	appsettlement "github.com/givebridge/backend/internal/application/settlement"
)

func TestIntervalTrigger_RunsJobOnInterval(t *testing.T) {
	var runs atomic.Int32
	trigger := NewIntervalTrigger("test", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}, zap.NewNop())

	require.NoError(t, trigger.Start(context.Background()))
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, trigger.Stop(ctx))

	assert.GreaterOrEqual(t, runs.Load(), int32(2))
}

func TestIntervalTrigger_JobErrorDoesNotStopLoop(t *testing.T) {
	var runs atomic.Int32
	trigger := NewIntervalTrigger("test", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return assert.AnError
	}, zap.NewNop())

	require.NoError(t, trigger.Start(context.Background()))
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, trigger.Stop(ctx))

	assert.GreaterOrEqual(t, runs.Load(), int32(2))
}

func TestIntervalTrigger_StartAndStopAreIdempotent(t *testing.T) {
	trigger := NewIntervalTrigger("test", time.Hour, func(ctx context.Context) error {
		return nil
	}, zap.NewNop())

	require.NoError(t, trigger.Start(context.Background()))
	require.NoError(t, trigger.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, trigger.Stop(ctx))
	require.NoError(t, trigger.Stop(ctx))
}

type fakeScanner struct {
	runs atomic.Int32
}

func (f *fakeScanner) RunOnce(context.Context) (appfulfillment.TrackerRunResult, error) {
	f.runs.Add(1)
	return appfulfillment.TrackerRunResult{Scanned: 3, Updated: 1}, nil
}

type fakeRunner struct {
	weekly  atomic.Int32
	monthly atomic.Int32
}

func (f *fakeRunner) RunWeekly(context.Context) (appsettlement.BatchRunResult, error) {
	f.weekly.Add(1)
	return appsettlement.BatchRunResult{Cycle: "WEEKLY"}, nil
}

func (f *fakeRunner) RunMonthly(context.Context) (appsettlement.BatchRunResult, error) {
	f.monthly.Add(1)
	return appsettlement.BatchRunResult{Cycle: "MONTHLY"}, nil
}

func TestTriggers_DriveTheirServices(t *testing.T) {
	scanner := &fakeScanner{}
	runner := &fakeRunner{}

	triggers := []*IntervalTrigger{
		NewShippingTrackerTrigger(10*time.Millisecond, scanner, zap.NewNop()),
		NewWeeklySettlementTrigger(10*time.Millisecond, runner, zap.NewNop()),
		NewMonthlySettlementTrigger(10*time.Millisecond, runner, zap.NewNop()),
	}

	for _, trigger := range triggers {
		require.NoError(t, trigger.Start(context.Background()))
	}
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for _, trigger := range triggers {
		require.NoError(t, trigger.Stop(ctx))
	}

	assert.GreaterOrEqual(t, scanner.runs.Load(), int32(1))
	assert.GreaterOrEqual(t, runner.weekly.Load(), int32(1))
	assert.GreaterOrEqual(t, runner.monthly.Load(), int32(1))
}
