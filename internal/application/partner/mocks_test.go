package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/givebridge/backend/internal/domain/partner"
	"github.com/givebridge/backend/internal/domain/shared"
)

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
