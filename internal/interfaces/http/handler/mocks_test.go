package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/givebridge/backend/internal/domain/donation"
	"github.com/givebridge/backend/internal/domain/partner"
	"github.com/givebridge/backend/internal/domain/shared"
)

// MockDonationRepository implements donation.DonationRepository for testing
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

// MockOrganizationRepository implements partner.OrganizationRepository for testing
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

// MockUnmatchedDepositRepository implements donation.UnmatchedDepositRepository for testing
type MockUnmatchedDepositRepository struct {
	mock.Mock
}

func (m *MockUnmatchedDepositRepository) Save(ctx context.Context, u *donation.UnmatchedDeposit) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUnmatchedDepositRepository) FindByTransactionID(ctx context.Context, transactionID string) (*donation.UnmatchedDeposit, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*donation.UnmatchedDeposit), args.Error(1)
}

func (m *MockUnmatchedDepositRepository) FindUnresolved(ctx context.Context, filter shared.Filter) (shared.Paginated[*donation.UnmatchedDeposit], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[*donation.UnmatchedDeposit]), args.Error(1)
}

func (m *MockUnmatchedDepositRepository) Update(ctx context.Context, u *donation.UnmatchedDeposit) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

// MockEventPublisher implements shared.EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
