package partner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/givebridge/backend/internal/domain/partner"
	"github.com/givebridge/backend/internal/domain/shared"
)

func newTestOrganization(t *testing.T) *partner.Organization {
	t.Helper()
	o, err := partner.NewOrganization("Hope Community Center", "contact@hope.example.org", partner.CycleWeekly)
	require.NoError(t, err)
	return o
}

func TestOrganizationService_Create(t *testing.T) {
	t.Run("registers an active organization", func(t *testing.T) {
		repo := new(MockOrganizationRepository)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Organization")).Return(nil)

		service := NewOrganizationService(repo)

		resp, err := service.Create(context.Background(), CreateOrganizationRequest{
			Name:            "Hope Community Center",
			ContactEmail:    "contact@hope.example.org",
			SettlementCycle: "WEEKLY",
		})

		require.NoError(t, err)
		assert.Equal(t, "Hope Community Center", resp.Name)
		assert.Equal(t, "WEEKLY", resp.SettlementCycle)
		assert.True(t, resp.Active)
		repo.AssertExpectations(t)
	})

	t.Run("rejects an invalid cycle before touching the repository", func(t *testing.T) {
		repo := new(MockOrganizationRepository)
		service := NewOrganizationService(repo)

		resp, err := service.Create(context.Background(), CreateOrganizationRequest{
			Name:            "Hope Community Center",
			SettlementCycle: "DAILY",
		})

		assert.Nil(t, resp)
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestOrganizationService_AssignVirtualAccount(t *testing.T) {
	req := AssignAccountRequest{Bank: "KDB", Number: "110-2345-6789"}

	t.Run("assigns a free account", func(t *testing.T) {
		org := newTestOrganization(t)

		repo := new(MockOrganizationRepository)
		repo.On("FindByVirtualAccount", mock.Anything, "KDB", "110-2345-6789").Return(nil, shared.ErrNotFound)
		repo.On("FindByID", mock.Anything, org.ID).Return(org, nil)
		repo.On("Update", mock.Anything, org).Return(nil)

		service := NewOrganizationService(repo)

		resp, err := service.AssignVirtualAccount(context.Background(), org.ID, req)

		require.NoError(t, err)
		assert.Equal(t, "KDB", resp.VirtualAccountBank)
		assert.Equal(t, "110-2345-6789", resp.VirtualAccountNumber)
		repo.AssertExpectations(t)
	})

	t.Run("rejects an account held by another organization", func(t *testing.T) {
		org := newTestOrganization(t)
		holder := newTestOrganization(t)

		repo := new(MockOrganizationRepository)
		repo.On("FindByVirtualAccount", mock.Anything, "KDB", "110-2345-6789").Return(holder, nil)

		service := NewOrganizationService(repo)

		resp, err := service.AssignVirtualAccount(context.Background(), org.ID, req)

		assert.Nil(t, resp)
		assert.True(t, shared.IsCode(err, shared.CodeConflict))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("reassigning the same account to its holder is a no-op conflict-wise", func(t *testing.T) {
		org := newTestOrganization(t)
		require.NoError(t, org.AssignVirtualAccount("KDB", "110-2345-6789"))

		repo := new(MockOrganizationRepository)
		repo.On("FindByVirtualAccount", mock.Anything, "KDB", "110-2345-6789").Return(org, nil)
		repo.On("FindByID", mock.Anything, org.ID).Return(org, nil)
		repo.On("Update", mock.Anything, org).Return(nil)

		service := NewOrganizationService(repo)

		resp, err := service.AssignVirtualAccount(context.Background(), org.ID, req)

		require.NoError(t, err)
		assert.Equal(t, "110-2345-6789", resp.VirtualAccountNumber)
	})
}

func TestOrganizationService_ChangeSettlementCycle(t *testing.T) {
	org := newTestOrganization(t)

	repo := new(MockOrganizationRepository)
	repo.On("FindByID", mock.Anything, org.ID).Return(org, nil)
	repo.On("Update", mock.Anything, org).Return(nil)

	service := NewOrganizationService(repo)

	resp, err := service.ChangeSettlementCycle(context.Background(), org.ID, partner.CycleMonthly)

	require.NoError(t, err)
	assert.Equal(t, "MONTHLY", resp.SettlementCycle)
}

func TestOrganizationService_ActivateDeactivate(t *testing.T) {
	org := newTestOrganization(t)

	repo := new(MockOrganizationRepository)
	repo.On("FindByID", mock.Anything, org.ID).Return(org, nil)
	repo.On("Update", mock.Anything, org).Return(nil)

	service := NewOrganizationService(repo)

	resp, err := service.Deactivate(context.Background(), org.ID)
	require.NoError(t, err)
	assert.False(t, resp.Active)

	resp, err = service.Activate(context.Background(), org.ID)
	require.NoError(t, err)
	assert.True(t, resp.Active)
}

func TestOrganizationService_List(t *testing.T) {
	org := newTestOrganization(t)
	cycle := partner.CycleWeekly
	active := true

	repo := new(MockOrganizationRepository)
	repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["settlement_cycle"] == "WEEKLY" && f.Filters["active"] == true
	})).Return(shared.NewPaginated([]*partner.Organization{org}, 1, 1, 20), nil)

	service := NewOrganizationService(repo)

	page, err := service.List(context.Background(), OrganizationListFilter{Cycle: &cycle, Active: &active})

	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, org.Name, page.Items[0].Name)
}
