package settlement

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/givebridge/backend/internal/domain/donation"
	"github.com/givebridge/backend/internal/domain/fulfillment"
	"github.com/givebridge/backend/internal/domain/settlement"
	"github.com/givebridge/backend/internal/domain/shared"
	"github.com/givebridge/backend/internal/domain/shared/valueobject"
)

type completionFixture struct {
	settlementRepo *MockSettlementRepository
	donationRepo   *MockDonationRepository
	orderRepo      *MockOrderRepository
	paymentRepo    *MockMarketplacePaymentRepository
	service        *CompletionService
}

func newCompletionFixture() *completionFixture {
	f := &completionFixture{
		settlementRepo: new(MockSettlementRepository),
		donationRepo:   new(MockDonationRepository),
		orderRepo:      new(MockOrderRepository),
		paymentRepo:    new(MockMarketplacePaymentRepository),
	}
	ledger := NewPaymentLedger(f.paymentRepo, 0, zap.NewNop())
	f.service = NewCompletionService(f.settlementRepo, f.donationRepo, f.orderRepo, ledger, fakeTxManager{}, zap.NewNop())
	return f
}

func pendingSettlement(t *testing.T, orgID uuid.UUID) *settlement.Settlement {
	t.Helper()
	batch, err := settlement.NewSettlement(orgID, decimal.NewFromInt(67000), 1, "2026-W36", time.Now())
	require.NoError(t, err)
	batch.ClearDomainEvents()
	return batch
}

func settledMember(t *testing.T, orgID, settlementID uuid.UUID) *donation.Donation {
	t.Helper()
	member := settleableDonation(t, orgID, 67000)
	require.NoError(t, member.TransitionTo(donation.StatusSettlementPending))
	require.NoError(t, member.AttachToSettlement(settlementID))
	member.ClearDomainEvents()
	return member
}

func acceptedOrder(t *testing.T, donationID, orgID uuid.UUID) *fulfillment.Order {
	t.Helper()
	order, err := fulfillment.NewOrder(donationID, orgID)
	require.NoError(t, err)
	_, err = order.AddProduct("P-100", "Winter blanket", decimal.NewFromInt(1), valueobject.NewMoneyKRWFromInt(67000))
	require.NoError(t, err)
	require.NoError(t, order.Accept("MP-2026-0001"))
	order.ClearDomainEvents()
	return order
}

func TestCompletionService_CompleteSettlement(t *testing.T) {
	f := newCompletionFixture()
	orgID := uuid.New()
	batch := pendingSettlement(t, orgID)
	member := settledMember(t, orgID, batch.ID)

	order := acceptedOrder(t, member.ID, orgID)
	payment, err := settlement.NewMarketplacePayment(order.ID, order.TotalAmount, time.Now())
	require.NoError(t, err)

	f.settlementRepo.On("WithTx", mock.Anything).Return(f.settlementRepo)
	f.donationRepo.On("WithTx", mock.Anything).Return(f.donationRepo)
	f.settlementRepo.On("FindByIDForUpdate", mock.Anything, batch.ID).Return(batch, nil)
	f.settlementRepo.On("SaveWithLock", mock.Anything, batch).Return(nil)
	f.donationRepo.On("FindBySettlementID", mock.Anything, batch.ID).
		Return([]*donation.Donation{member}, nil)
	f.donationRepo.On("CompleteBySettlement", mock.Anything, batch.ID).Return(int64(1), nil)
	f.orderRepo.On("FindByDonationID", mock.Anything, member.ID).Return(order, nil)
	f.paymentRepo.On("FindByOrderID", mock.Anything, order.ID).Return(payment, nil)
	f.paymentRepo.On("Update", mock.Anything, payment).Return(nil)

	resp, err := f.service.CompleteSettlement(context.Background(), batch.ID, "WIRE-20260904-001")
	require.NoError(t, err)

	assert.Equal(t, settlement.StatusCompleted.String(), resp.Status)
	assert.Equal(t, "WIRE-20260904-001", resp.PaymentReference)
	require.NotNil(t, resp.CompletedDate)

	assert.Equal(t, settlement.PaymentStatusCompleted, payment.Status)
	assert.Equal(t, "STL-"+batch.ID.String(), payment.PaymentReference)
	f.donationRepo.AssertCalled(t, "CompleteBySettlement", mock.Anything, batch.ID)
}

func TestCompletionService_CompleteSettlement_SecondCallConflicts(t *testing.T) {
	f := newCompletionFixture()
	batch := pendingSettlement(t, uuid.New())
	require.NoError(t, batch.Complete("WIRE-20260904-001"))
	completedAt := *batch.CompletedDate

	f.settlementRepo.On("WithTx", mock.Anything).Return(f.settlementRepo)
	f.donationRepo.On("WithTx", mock.Anything).Return(f.donationRepo)
	f.settlementRepo.On("FindByIDForUpdate", mock.Anything, batch.ID).Return(batch, nil)

	_, err := f.service.CompleteSettlement(context.Background(), batch.ID, "WIRE-20260905-999")
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeConflict))

	// first completion stays untouched
	assert.Equal(t, "WIRE-20260904-001", batch.PaymentReference)
	assert.Equal(t, completedAt, *batch.CompletedDate)
	f.settlementRepo.AssertNotCalled(t, "SaveWithLock")
	f.donationRepo.AssertNotCalled(t, "CompleteBySettlement")
}

func TestCompletionService_ReconciliationCreatesMissingPayment(t *testing.T) {
	f := newCompletionFixture()
	orgID := uuid.New()
	batch := pendingSettlement(t, orgID)
	member := settledMember(t, orgID, batch.ID)
	order := acceptedOrder(t, member.ID, orgID)

	f.settlementRepo.On("WithTx", mock.Anything).Return(f.settlementRepo)
	f.donationRepo.On("WithTx", mock.Anything).Return(f.donationRepo)
	f.settlementRepo.On("FindByIDForUpdate", mock.Anything, batch.ID).Return(batch, nil)
	f.settlementRepo.On("SaveWithLock", mock.Anything, batch).Return(nil)
	f.donationRepo.On("FindBySettlementID", mock.Anything, batch.ID).
		Return([]*donation.Donation{member}, nil)
	f.donationRepo.On("CompleteBySettlement", mock.Anything, batch.ID).Return(int64(1), nil)
	f.orderRepo.On("FindByDonationID", mock.Anything, member.ID).Return(order, nil)
	// acceptance event was never processed, no payment record exists
	f.paymentRepo.On("FindByOrderID", mock.Anything, order.ID).
		Return(nil, shared.NewNotFoundError("Marketplace payment not found"))
	f.paymentRepo.On("Save", mock.Anything, mock.MatchedBy(func(p *settlement.MarketplacePayment) bool {
		return p.OrderID == order.ID && p.Amount.Equal(order.TotalAmount)
	})).Return(nil)
	f.paymentRepo.On("Update", mock.Anything, mock.MatchedBy(func(p *settlement.MarketplacePayment) bool {
		return p.Status == settlement.PaymentStatusCompleted &&
			p.PaymentReference == "STL-"+batch.ID.String()
	})).Return(nil)

	_, err := f.service.CompleteSettlement(context.Background(), batch.ID, "WIRE-20260904-002")
	require.NoError(t, err)
	f.paymentRepo.AssertExpectations(t)
}

func TestCompletionService_MemberWithoutOrderIsSkipped(t *testing.T) {
	f := newCompletionFixture()
	orgID := uuid.New()
	batch := pendingSettlement(t, orgID)
	member := settledMember(t, orgID, batch.ID)

	f.settlementRepo.On("WithTx", mock.Anything).Return(f.settlementRepo)
	f.donationRepo.On("WithTx", mock.Anything).Return(f.donationRepo)
	f.settlementRepo.On("FindByIDForUpdate", mock.Anything, batch.ID).Return(batch, nil)
	f.settlementRepo.On("SaveWithLock", mock.Anything, batch).Return(nil)
	f.donationRepo.On("FindBySettlementID", mock.Anything, batch.ID).
		Return([]*donation.Donation{member}, nil)
	f.donationRepo.On("CompleteBySettlement", mock.Anything, batch.ID).Return(int64(1), nil)
	f.orderRepo.On("FindByDonationID", mock.Anything, member.ID).
		Return(nil, shared.NewNotFoundError("Order not found"))

	resp, err := f.service.CompleteSettlement(context.Background(), batch.ID, "WIRE-20260904-003")
	require.NoError(t, err)
	assert.Equal(t, settlement.StatusCompleted.String(), resp.Status)
	f.paymentRepo.AssertNotCalled(t, "FindByOrderID")
}

func TestCompletionService_ReconciliationFailureDoesNotUnwindSettlement(t *testing.T) {
	f := newCompletionFixture()
	orgID := uuid.New()
	batch := pendingSettlement(t, orgID)
	member := settledMember(t, orgID, batch.ID)

	f.settlementRepo.On("WithTx", mock.Anything).Return(f.settlementRepo)
	f.donationRepo.On("WithTx", mock.Anything).Return(f.donationRepo)
	f.settlementRepo.On("FindByIDForUpdate", mock.Anything, batch.ID).Return(batch, nil)
	f.settlementRepo.On("SaveWithLock", mock.Anything, batch).Return(nil)
	f.donationRepo.On("FindBySettlementID", mock.Anything, batch.ID).
		Return([]*donation.Donation{member}, nil)
	f.donationRepo.On("CompleteBySettlement", mock.Anything, batch.ID).Return(int64(1), nil)
	f.orderRepo.On("FindByDonationID", mock.Anything, member.ID).
		Return(nil, shared.NewExternalServiceError("db timeout"))

	resp, err := f.service.CompleteSettlement(context.Background(), batch.ID, "WIRE-20260904-004")
	require.NoError(t, err)
	assert.Equal(t, settlement.StatusCompleted.String(), resp.Status)
}
