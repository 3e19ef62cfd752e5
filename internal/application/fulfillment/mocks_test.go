package fulfillment

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/givebridge/backend/internal/domain/donation"
	"github.com/givebridge/backend/internal/domain/fulfillment"
	"github.com/givebridge/backend/internal/domain/shared"
)

// MockOrderRepository is a mock implementation of fulfillment.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Save(ctx context.Context, o *fulfillment.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, o *fulfillment.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByDonationID(ctx context.Context, donationID uuid.UUID) (*fulfillment.Order, error) {
	args := m.Called(ctx, donationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.Order), args.Error(1)
}

func (m *MockOrderRepository) FindInFlight(ctx context.Context, limit int) ([]*fulfillment.Order, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*fulfillment.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*fulfillment.Order], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[*fulfillment.Order]), args.Error(1)
}

// MockMarketplace is a mock implementation of fulfillment.Marketplace
type MockMarketplace struct {
	mock.Mock
}

func (m *MockMarketplace) PlaceOrder(ctx context.Context, req fulfillment.PlaceOrderRequest) (*fulfillment.PlaceOrderResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.PlaceOrderResponse), args.Error(1)
}

func (m *MockMarketplace) GetOrderStatus(ctx context.Context, marketplaceOrderID string) (*fulfillment.OrderStatusResult, error) {
	args := m.Called(ctx, marketplaceOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.OrderStatusResult), args.Error(1)
}

func (m *MockMarketplace) GetTracking(ctx context.Context, marketplaceOrderID string) (*fulfillment.TrackingResult, error) {
	args := m.Called(ctx, marketplaceOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.TrackingResult), args.Error(1)
}

func (m *MockMarketplace) CancelOrder(ctx context.Context, marketplaceOrderID string, reason string) error {
	args := m.Called(ctx, marketplaceOrderID, reason)
	return args.Error(0)
}

// MockCatalog is a mock implementation of fulfillment.Catalog
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) NeededItems(ctx context.Context, beneficiaryItemID uuid.UUID) ([]fulfillment.NeededItem, error) {
	args := m.Called(ctx, beneficiaryItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fulfillment.NeededItem), args.Error(1)
}

func (m *MockCatalog) GetShippingAddress(ctx context.Context, beneficiaryItemID uuid.UUID) (*fulfillment.ShippingAddress, error) {
	args := m.Called(ctx, beneficiaryItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.ShippingAddress), args.Error(1)
}

// MockNotifier is a mock implementation of fulfillment.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, n fulfillment.Notification) {
	m.Called(ctx, n)
}

// MockDonationRepository is a mock implementation of donation.DonationRepository,
// used to back the donation service the orchestrator depends on
type MockDonationRepository struct {
	mock.Mock
}

func (m *MockDonationRepository) Save(ctx context.Context, d *donation.Donation) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDonationRepository) SaveWithLock(ctx context.Context, d *donation.Donation) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDonationRepository) FindByID(ctx context.Context, id uuid.UUID) (*donation.Donation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*donation.Donation), args.Error(1)
}

func (m *MockDonationRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*donation.Donation], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[*donation.Donation]), args.Error(1)
}

func (m *MockDonationRepository) FindPendingByOrganizationAndAmount(ctx context.Context, organizationID uuid.UUID, amount decimal.Decimal) ([]*donation.Donation, error) {
	args := m.Called(ctx, organizationID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*donation.Donation), args.Error(1)
}

func (m *MockDonationRepository) ConfirmPayment(ctx context.Context, d *donation.Donation) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDonationRepository) ClaimForSettlement(ctx context.Context, settlementID uuid.UUID, donationIDs []uuid.UUID) (int64, error) {
	args := m.Called(ctx, settlementID, donationIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDonationRepository) CompleteBySettlement(ctx context.Context, settlementID uuid.UUID) (int64, error) {
	args := m.Called(ctx, settlementID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDonationRepository) FindSettleableByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*donation.Donation, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*donation.Donation), args.Error(1)
}

func (m *MockDonationRepository) FindBySettlementID(ctx context.Context, settlementID uuid.UUID) ([]*donation.Donation, error) {
	args := m.Called(ctx, settlementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*donation.Donation), args.Error(1)
}

func (m *MockDonationRepository) WithTx(tx any) donation.DonationRepository {
	m.Called(tx)
	return m
}
