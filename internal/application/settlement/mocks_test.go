package settlement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/givebridge/backend/internal/domain/donation"
	"github.com/givebridge/backend/internal/domain/fulfillment"
	"github.com/givebridge/backend/internal/domain/partner"
	"github.com/givebridge/backend/internal/domain/settlement"
	"github.com/givebridge/backend/internal/domain/shared"
)

// fakeTxManager runs the function inline with a nil handle
type fakeTxManager struct{}

func (fakeTxManager) Do(_ context.Context, fn func(tx any) error) error {
	return fn(nil)
}

// MockSettlementRepository is a mock implementation of settlement.SettlementRepository
type MockSettlementRepository struct {
	mock.Mock
}

func (m *MockSettlementRepository) Save(ctx context.Context, s *settlement.Settlement) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSettlementRepository) SaveWithLock(ctx context.Context, s *settlement.Settlement) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSettlementRepository) FindByID(ctx context.Context, id uuid.UUID) (*settlement.Settlement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.Settlement), args.Error(1)
}

func (m *MockSettlementRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*settlement.Settlement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.Settlement), args.Error(1)
}

func (m *MockSettlementRepository) FindByOrganizationAndPeriod(ctx context.Context, organizationID uuid.UUID, period string) (*settlement.Settlement, error) {
	args := m.Called(ctx, organizationID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.Settlement), args.Error(1)
}

func (m *MockSettlementRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*settlement.Settlement], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[*settlement.Settlement]), args.Error(1)
}

func (m *MockSettlementRepository) WithTx(tx any) settlement.SettlementRepository {
	m.Called(tx)
	return m
}

// MockMarketplacePaymentRepository is a mock implementation of settlement.MarketplacePaymentRepository
type MockMarketplacePaymentRepository struct {
	mock.Mock
}

func (m *MockMarketplacePaymentRepository) Save(ctx context.Context, p *settlement.MarketplacePayment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockMarketplacePaymentRepository) Update(ctx context.Context, p *settlement.MarketplacePayment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockMarketplacePaymentRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*settlement.MarketplacePayment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.MarketplacePayment), args.Error(1)
}

func (m *MockMarketplacePaymentRepository) FindByStatus(ctx context.Context, status settlement.PaymentStatus, filter shared.Filter) (shared.Paginated[*settlement.MarketplacePayment], error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).(shared.Paginated[*settlement.MarketplacePayment]), args.Error(1)
}

func (m *MockMarketplacePaymentRepository) WithTx(tx any) settlement.MarketplacePaymentRepository {
	m.Called(tx)
	return m
}

// MockOrganizationRepository is a mock implementation of partner.OrganizationRepository
type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) Save(ctx context.Context, o *partner.Organization) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrganizationRepository) Update(ctx context.Context, o *partner.Organization) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) FindByVirtualAccount(ctx context.Context, bank, number string) (*partner.Organization, error) {
	args := m.Called(ctx, bank, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) FindActiveByCycle(ctx context.Context, cycle partner.SettlementCycle) ([]*partner.Organization, error) {
	args := m.Called(ctx, cycle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*partner.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*partner.Organization], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[*partner.Organization]), args.Error(1)
}

// MockDonationRepository is a mock implementation of donation.DonationRepository
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

// MockIdempotencyStore is a mock implementation of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
