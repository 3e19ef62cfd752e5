package fulfillment

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	donationapp "github.com/givebridge/backend/internal/application/donation"
	"github.com/givebridge/backend/internal/domain/donation"
	"github.com/givebridge/backend/internal/domain/fulfillment"
	"github.com/givebridge/backend/internal/domain/shared"
	"github.com/givebridge/backend/internal/domain/shared/valueobject"
)

type orderServiceFixture struct {
	orderRepo    *MockOrderRepository
	donationRepo *MockDonationRepository
	marketplace  *MockMarketplace
	catalog      *MockCatalog
	service      *OrderService
}

func newOrderServiceFixture() *orderServiceFixture {
	f := &orderServiceFixture{
		orderRepo:    new(MockOrderRepository),
		donationRepo: new(MockDonationRepository),
		marketplace:  new(MockMarketplace),
		catalog:      new(MockCatalog),
	}
	donationService := donationapp.NewService(f.donationRepo)
	f.service = NewOrderService(f.orderRepo, donationService, f.donationRepo, f.marketplace, f.catalog)
	return f
}

func confirmedDonation(t *testing.T) *donation.Donation {
	t.Helper()
	d, err := donation.NewDonation(uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(67000), "")
	require.NoError(t, err)
	require.NoError(t, d.ConfirmPayment("BANK-TX-001"))
	d.ClearDomainEvents()
	return d
}

func acceptedOrder(t *testing.T) *fulfillment.Order {
	t.Helper()
	o, err := fulfillment.NewOrder(uuid.New(), uuid.New())
	require.NoError(t, err)
	_, err = o.AddProduct("P-100", "Winter coat", decimal.NewFromInt(1), valueobject.NewMoneyKRWFromInt(67000))
	require.NoError(t, err)
	require.NoError(t, o.SetShippingInfo("Lee", "010-0000-0000", "Seoul"))
	require.NoError(t, o.Accept("MP-1"))
	o.ClearDomainEvents()
	return o
}

func TestOrderService_CreateOrder(t *testing.T) {
	f := newOrderServiceFixture()
	d := confirmedDonation(t)

	f.donationRepo.On("FindByID", mock.Anything, d.ID).Return(d, nil)
	f.catalog.On("NeededItems", mock.Anything, d.BeneficiaryItemID).Return([]fulfillment.NeededItem{
		{ProductID: "P-100", Name: "Winter coat", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(67000)},
	}, nil)
	f.catalog.On("GetShippingAddress", mock.Anything, d.BeneficiaryItemID).Return(&fulfillment.ShippingAddress{
		RecipientName: "Lee", Address: "Seoul",
	}, nil)
	f.orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*fulfillment.Order")).Return(nil)
	f.donationRepo.On("SaveWithLock", mock.Anything, d).Return(nil)

	resp, err := f.service.CreateOrder(context.Background(), d.ID)
	require.NoError(t, err)

	assert.Equal(t, fulfillment.OrderStatusPending.String(), resp.Status)
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(67000)))
	assert.Equal(t, donation.StatusOrdered, d.Status)
	f.orderRepo.AssertExpectations(t)
}

func TestOrderService_CreateOrder_NotConfirmed(t *testing.T) {
	f := newOrderServiceFixture()

	d, err := donation.NewDonation(uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(67000), "")
	require.NoError(t, err)
	f.donationRepo.On("FindByID", mock.Anything, d.ID).Return(d, nil)

	_, err = f.service.CreateOrder(context.Background(), d.ID)
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodePreconditionFailed))
	f.orderRepo.AssertNotCalled(t, "Save")
}

func TestOrderService_CreateOrder_DuplicateDonation(t *testing.T) {
	f := newOrderServiceFixture()
	d := confirmedDonation(t)

	f.donationRepo.On("FindByID", mock.Anything, d.ID).Return(d, nil)
	f.catalog.On("NeededItems", mock.Anything, d.BeneficiaryItemID).Return([]fulfillment.NeededItem{
		{ProductID: "P-100", Name: "Winter coat", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(67000)},
	}, nil)
	f.catalog.On("GetShippingAddress", mock.Anything, d.BeneficiaryItemID).Return(&fulfillment.ShippingAddress{
		RecipientName: "Lee", Address: "Seoul",
	}, nil)
	f.orderRepo.On("Save", mock.Anything, mock.Anything).Return(shared.ErrAlreadyExists)

	_, err := f.service.CreateOrder(context.Background(), d.ID)
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeConflict))
}

func TestOrderService_PlaceWithMarketplace_Accepted(t *testing.T) {
	f := newOrderServiceFixture()

	o, err := fulfillment.NewOrder(uuid.New(), uuid.New())
	require.NoError(t, err)
	_, err = o.AddProduct("P-100", "Winter coat", decimal.NewFromInt(1), valueobject.NewMoneyKRWFromInt(67000))
	require.NoError(t, err)
	require.NoError(t, o.SetShippingInfo("Lee", "010-0000-0000", "Seoul"))
	o.ClearDomainEvents()

	f.orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	f.marketplace.On("PlaceOrder", mock.Anything, mock.MatchedBy(func(req fulfillment.PlaceOrderRequest) bool {
		return req.ReferenceID == o.ID.String() && len(req.Products) == 1
	})).Return(&fulfillment.PlaceOrderResponse{MarketplaceOrderID: "MP-2026-0001"}, nil)
	f.orderRepo.On("SaveWithLock", mock.Anything, o).Return(nil)

	resp, err := f.service.PlaceWithMarketplace(context.Background(), o.ID)
	require.NoError(t, err)

	assert.Equal(t, fulfillment.OrderStatusAccepted.String(), resp.Status)
	require.NotNil(t, resp.MarketplaceOrderID)
	assert.Equal(t, "MP-2026-0001", *resp.MarketplaceOrderID)
}

func TestOrderService_PlaceWithMarketplace_Rejected(t *testing.T) {
	f := newOrderServiceFixture()

	o, err := fulfillment.NewOrder(uuid.New(), uuid.New())
	require.NoError(t, err)
	_, err = o.AddProduct("P-100", "Winter coat", decimal.NewFromInt(1), valueobject.NewMoneyKRWFromInt(67000))
	require.NoError(t, err)
	o.ClearDomainEvents()

	f.orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	f.marketplace.On("PlaceOrder", mock.Anything, mock.Anything).Return(nil, errors.New("out of stock"))
	f.orderRepo.On("SaveWithLock", mock.Anything, o).Return(nil)

	_, err = f.service.PlaceWithMarketplace(context.Background(), o.ID)
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeExternalService))

	// failure is recorded on the order, not lost
	assert.Equal(t, fulfillment.OrderStatusFailed, o.Status)
	assert.Equal(t, "out of stock", o.ErrorMessage)
	f.orderRepo.AssertCalled(t, "SaveWithLock", mock.Anything, o)
}

func TestOrderService_PlaceWithMarketplace_NotPending(t *testing.T) {
	f := newOrderServiceFixture()
	o := acceptedOrder(t)

	f.orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)

	_, err := f.service.PlaceWithMarketplace(context.Background(), o.ID)
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodePreconditionFailed))
	f.marketplace.AssertNotCalled(t, "PlaceOrder")
}

func TestOrderService_CancelWithMarketplace(t *testing.T) {
	f := newOrderServiceFixture()
	o := acceptedOrder(t)

	f.orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	f.marketplace.On("CancelOrder", mock.Anything, "MP-1", "refund requested").Return(nil)
	f.orderRepo.On("SaveWithLock", mock.Anything, o).Return(nil)

	resp, err := f.service.CancelWithMarketplace(context.Background(), o.ID, "refund requested")
	require.NoError(t, err)
	assert.Equal(t, fulfillment.OrderStatusCancelled.String(), resp.Status)
}

func TestOrderService_CancelWithMarketplace_UpstreamFailure(t *testing.T) {
	f := newOrderServiceFixture()
	o := acceptedOrder(t)

	f.orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	f.marketplace.On("CancelOrder", mock.Anything, "MP-1", "refund requested").Return(errors.New("already shipped"))

	_, err := f.service.CancelWithMarketplace(context.Background(), o.ID, "refund requested")
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeExternalService))
	assert.Equal(t, fulfillment.OrderStatusAccepted, o.Status)
	f.orderRepo.AssertNotCalled(t, "SaveWithLock")
}
